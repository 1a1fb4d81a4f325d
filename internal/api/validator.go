package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sanosuguru/go-event-summary-service/internal/domain/event"
)

// CustomValidator はEcho用のカスタムバリデーター
// 検証エラーは項目ごとの event.ValidationError に変換する
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator は新しいバリデーターを作成する
func NewValidator() *CustomValidator {
	v := validator.New()

	// エラーの項目名に JSON / クエリのキー名を使う
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	_ = v.RegisterValidation("iso8601", func(fl validator.FieldLevel) bool {
		_, err := ParseTimestamp(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})

	return &CustomValidator{validator: v}
}

// Validate はリクエストのバリデーションを実行する
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	details := make([]event.FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, event.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return &event.ValidationError{Details: details}
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	numeric := isNumeric(fe.Kind())

	switch fe.Tag() {
	case "required":
		return field + " should not be empty"
	case "max":
		if numeric {
			return fmt.Sprintf("%s must not be greater than %s", field, fe.Param())
		}
		return fmt.Sprintf("%s must be shorter than or equal to %s characters", field, fe.Param())
	case "min":
		if numeric {
			return fmt.Sprintf("%s must not be less than %s", field, fe.Param())
		}
		return fmt.Sprintf("%s must be longer than or equal to %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of the following values: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return field + " must be an email"
	case "iso8601", "isodate":
		return field + " must be a valid ISO 8601 date string"
	}
	return field + " is invalid"
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// ParseTimestamp は ISO 8601 の日時（タイムゾーン付き）を解釈する
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// ParseDate は "2006-01-02" または ISO 8601 日時を UTC として解釈する
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

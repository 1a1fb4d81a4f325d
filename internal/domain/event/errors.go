package event

import (
	"errors"
	"fmt"
	"strings"
)

// Event ドメインのエラー定義
var (
	ErrEventNotFound = errors.New("イベントが見つかりません")
	ErrValidation    = errors.New("バリデーションエラー")
)

// FieldError は項目単位の検証エラー
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError は入力検証エラー（1件以上の FieldError を持つ）
type ValidationError struct {
	Details []FieldError
}

// NewValidationError は単一項目の ValidationError を作成する
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Details: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		msgs = append(msgs, d.Field+": "+d.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Is は errors.Is(err, ErrValidation) を満たす
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError は存在しないイベントIDを表す
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Event with id %s not found", e.ID)
}

// Is は errors.Is(err, ErrEventNotFound) を満たす
func (e *NotFoundError) Is(target error) bool {
	return target == ErrEventNotFound
}

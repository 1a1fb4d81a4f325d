package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-summary-service/internal/domain/event"
	"github.com/sanosuguru/go-event-summary-service/internal/pkg/logger"
)

// エラーコード
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeInternal        = "INTERNAL_ERROR"

	MessageValidation = "Validation failed"
	MessageSummary    = "Failed to generate summary"
	MessageInternal   = "An unexpected error occurred"
)

// HeaderSummaryCache は要約キャッシュの HIT/MISS を返すヘッダー
const HeaderSummaryCache = "X-Summary-Cache"

// ErrorBody はエラーの内容
type ErrorBody struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Details []event.FieldError `json:"details,omitempty"`
}

// ErrorResponse はエラーレスポンスの統一フォーマット
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// MapError はエラーを HTTP ステータスとエラー内容に変換する
func MapError(err error) (int, ErrorBody) {
	var (
		vErr  *event.ValidationError
		nfErr *event.NotFoundError
		he    *echo.HTTPError
	)

	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest, ErrorBody{Code: CodeValidation, Message: MessageValidation, Details: vErr.Details}
	case errors.As(err, &nfErr):
		return http.StatusNotFound, ErrorBody{Code: CodeNotFound, Message: nfErr.Error()}
	case errors.Is(err, event.ErrEventNotFound):
		return http.StatusNotFound, ErrorBody{Code: CodeNotFound, Message: "Event not found"}
	case errors.As(err, &he):
		return mapHTTPError(he)
	}
	return http.StatusInternalServerError, ErrorBody{Code: CodeInternal, Message: MessageInternal}
}

func mapHTTPError(he *echo.HTTPError) (int, ErrorBody) {
	message, ok := he.Message.(string)
	if !ok {
		message = http.StatusText(he.Code)
	}

	switch {
	case he.Code >= http.StatusInternalServerError:
		return he.Code, ErrorBody{Code: CodeInternal, Message: MessageInternal}
	case he.Code == http.StatusBadRequest:
		return he.Code, ErrorBody{Code: CodeValidation, Message: message}
	case he.Code == http.StatusUnauthorized:
		return he.Code, ErrorBody{Code: CodeUnauthorized, Message: message}
	case he.Code == http.StatusNotFound:
		return he.Code, ErrorBody{Code: CodeNotFound, Message: message}
	case he.Code == http.StatusTooManyRequests:
		return he.Code, ErrorBody{Code: CodeTooManyRequests, Message: message}
	}
	// 例: 405 → METHOD_NOT_ALLOWED
	code := strings.ToUpper(strings.ReplaceAll(http.StatusText(he.Code), " ", "_"))
	return he.Code, ErrorBody{Code: code, Message: message}
}

// CustomHTTPErrorHandler はカスタムエラーハンドラー
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := MapError(err)

	// エラーログを出力（5xx エラーの場合）
	if status >= http.StatusInternalServerError {
		logger.Error("サーバーエラー",
			zap.Int("status", status),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, ErrorResponse{Error: body})
	}
	if err != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(err))
	}
}

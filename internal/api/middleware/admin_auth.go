package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const bearerScheme = "Bearer"

// 認証エラーのメッセージ
const (
	MessageAuthHeaderRequired = "Authorization header is required"
	MessageInvalidAuthFormat  = "Invalid authorization format. Expected: Bearer <token>"
	MessageInvalidToken       = "Invalid authentication token"
)

// AdminAuth は管理者トークンによる Bearer 認証ミドルウェア
func AdminAuth(token string) echo.MiddlewareFunc {
	expected := []byte(token)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, MessageAuthHeaderRequired)
			}

			scheme, credentials, ok := strings.Cut(header, " ")
			if !ok || scheme != bearerScheme || credentials == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, MessageInvalidAuthFormat)
			}

			if subtle.ConstantTimeCompare([]byte(credentials), expected) != 1 {
				return echo.NewHTTPError(http.StatusUnauthorized, MessageInvalidToken)
			}
			return next(c)
		}
	}
}

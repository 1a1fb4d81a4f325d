package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-summary-service/internal/api"
	"github.com/sanosuguru/go-event-summary-service/internal/pkg/metrics"
)

// MetricsPath は Prometheus のスクレイプ先
const MetricsPath = "/metrics"

// PrometheusMiddleware はHTTPメトリクスを収集するミドルウェア
// スクレイプ自体は記録しない。SSE の所要時間はストリーム終了までを含む
func PrometheusMiddleware(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() == MetricsPath {
				return next(c)
			}
			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			status := c.Response().Status
			if err != nil && !c.Response().Committed {
				status, _ = api.MapError(err)
			}

			// ルート未登録のパスでラベルが増えないようにする
			path := c.Path()
			if path == "" {
				path = "unknown"
			}

			method := c.Request().Method
			m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)

			return err
		}
	}
}

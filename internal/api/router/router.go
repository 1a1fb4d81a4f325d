package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sanosuguru/go-event-summary-service/internal/api"
	"github.com/sanosuguru/go-event-summary-service/internal/api/handler"
	"github.com/sanosuguru/go-event-summary-service/internal/api/middleware"
	"github.com/sanosuguru/go-event-summary-service/internal/config"
	"github.com/sanosuguru/go-event-summary-service/internal/pkg/metrics"
)

// Deps はルーティングに必要な依存関係
type Deps struct {
	Config         *config.Config
	EventService   handler.EventServiceInterface
	SummaryService handler.SummaryServiceInterface
	Streamer       handler.SummaryStreamerInterface
	Metrics        *metrics.Metrics
	// /metrics で公開するレジストリ（nil ならデフォルト）
	Gatherer prometheus.Gatherer
}

// New はルーティング済みの Echo を作成する
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler

	middleware.SetupMiddleware(e)
	e.Use(middleware.RateLimiter(d.Config.RateLimit))
	if d.Metrics != nil {
		e.Use(middleware.PrometheusMiddleware(d.Metrics))
	}

	eventHandler := handler.NewEventHandler(d.EventService)
	publicHandler := handler.NewPublicEventHandler(d.EventService)
	summaryHandler := handler.NewSummaryHandler(d.SummaryService, d.Streamer)
	calendarHandler := handler.NewCalendarHandler(d.EventService)
	healthHandler := handler.NewHealthHandler()

	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	e.GET(middleware.MetricsPath, echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})),
		middleware.MetricsBasicAuth(d.Config.Metrics))

	v1 := e.Group("/api/v1")
	v1.GET("/health", healthHandler.Check)

	// 公開 API
	public := v1.Group("/public")
	public.GET("/events", publicHandler.List)
	public.GET("/events/calendar.ics", calendarHandler.Export)
	public.GET("/events/:id/summary", summaryHandler.Stream)

	// 管理者 API
	admin := v1.Group("/events", middleware.AdminAuth(d.Config.Auth.AdminToken))
	admin.POST("", eventHandler.Create)
	admin.GET("", eventHandler.List)
	admin.GET("/:id", eventHandler.GetByID)
	admin.PATCH("/:id", eventHandler.Update)
	admin.DELETE("/:id/summary", summaryHandler.Invalidate)

	return e
}

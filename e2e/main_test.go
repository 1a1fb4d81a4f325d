package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sanosuguru/go-event-summary-service/internal/api/router"
	"github.com/sanosuguru/go-event-summary-service/internal/application"
	"github.com/sanosuguru/go-event-summary-service/internal/config"
	"github.com/sanosuguru/go-event-summary-service/internal/domain/summary"
	"github.com/sanosuguru/go-event-summary-service/internal/infrastructure/memory"
	"github.com/sanosuguru/go-event-summary-service/internal/infrastructure/notification"
	"github.com/sanosuguru/go-event-summary-service/internal/pkg/metrics"
)

const adminToken = "e2e-admin-token"

// TestServer はE2Eテスト用のサーバー
type TestServer struct {
	Echo          *echo.Echo
	Notifications *observer.ObservedLogs
	Metrics       *metrics.Metrics
}

// NewTestServer はメモリ上のストアで全体を組み立てたサーバーを作成
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	cfg := &config.Config{
		Auth:      config.AuthConfig{AdminToken: adminToken},
		RateLimit: config.RateLimitConfig{TTL: time.Minute, Max: 10000},
	}

	core, logs := observer.New(zap.InfoLevel)
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)
	lockManager := memory.NewLockManager()

	eventService := application.NewEventService(
		memory.NewEventStore(),
		notification.NewLogNotifier(zap.New(core), time.Millisecond, m),
		lockManager,
		application.WithEventMetrics(m),
	)
	summaryService := application.NewSummaryService(
		eventService,
		memory.NewSummaryCache(),
		summary.NewGenerator(time.UTC),
		lockManager,
		m,
	)
	streamer := application.NewSummaryStreamer(summaryService,
		application.WithChunkDelay(0, time.Millisecond),
		application.WithStreamMetrics(m),
	)

	e := router.New(router.Deps{
		Config:         cfg,
		EventService:   eventService,
		SummaryService: summaryService,
		Streamer:       streamer,
		Metrics:        m,
		Gatherer:       reg,
	})
	return &TestServer{Echo: e, Notifications: logs, Metrics: m}
}

// Request はHTTPリクエストを実行
func (s *TestServer) Request(method, path string, body interface{}, admin bool) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("Authorization", "Bearer "+adminToken)
	}

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

// futureEvent は作成リクエストのボディを返す
func futureEvent(title, location string, startIn time.Duration) map[string]interface{} {
	start := time.Now().UTC().Add(startIn).Truncate(time.Millisecond)
	return map[string]interface{}{
		"title":    title,
		"startAt":  start.Format(time.RFC3339Nano),
		"endAt":    start.Add(3 * time.Hour).Format(time.RFC3339Nano),
		"location": location,
	}
}

// createEvent はイベントを作成してIDを返す
func (s *TestServer) createEvent(t *testing.T, body map[string]interface{}) string {
	t.Helper()
	rec := s.Request(http.MethodPost, "/api/v1/events", body, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create event: status %d body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.ID
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 要約キャッシュの参照結果（operation: summary/status, result: hit/miss）
	SummaryCacheRequestsTotal *prometheus.CounterVec

	// ストリーミングで送出したチャンク数
	SummaryChunksTotal prometheus.Counter

	// 状態遷移の回数（from, to）
	EventTransitionsTotal *prometheus.CounterVec

	// 通知の送信結果（type: created/published/cancelled, status: success/failed）
	NotificationsTotal *prometheus.CounterVec

	// 状態ごとのイベント数（status）
	Events *prometheus.GaugeVec
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		SummaryCacheRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "summary_cache_requests_total",
				Help: "Summary cache lookups by operation and result",
			},
			[]string{"operation", "result"},
		),
		SummaryChunksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "summary_stream_chunks_total",
				Help: "Total number of summary chunks streamed",
			},
		),
		EventTransitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "event_status_transitions_total",
				Help: "Total number of event status transitions",
			},
			[]string{"from", "to"},
		),
		NotificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifications_total",
				Help: "Total number of lifecycle notifications",
			},
			[]string{"type", "status"},
		),
		Events: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "events",
				Help: "Current number of events by status",
			},
			[]string{"status"},
		),
	}

	// レジストリに登録
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.SummaryCacheRequestsTotal,
		m.SummaryChunksTotal,
		m.EventTransitionsTotal,
		m.NotificationsTotal,
		m.Events,
	)

	return m
}

// ObserveCache はキャッシュ参照結果を記録する（nil のときは何もしない）
func (m *Metrics) ObserveCache(operation string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.SummaryCacheRequestsTotal.WithLabelValues(operation, result).Inc()
}

// ObserveTransition は状態遷移を記録する
func (m *Metrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.EventTransitionsTotal.WithLabelValues(from, to).Inc()
}

// ObserveNotification は通知結果を記録する
func (m *Metrics) ObserveNotification(kind string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failed"
	}
	m.NotificationsTotal.WithLabelValues(kind, status).Inc()
}

// AddChunks はストリーミングしたチャンク数を加算する
func (m *Metrics) AddChunks(n int) {
	if m == nil {
		return
	}
	m.SummaryChunksTotal.Add(float64(n))
}

package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-summary-service/internal/domain/event"
	"github.com/sanosuguru/go-event-summary-service/internal/pkg/logger"
	"github.com/sanosuguru/go-event-summary-service/internal/pkg/metrics"
)

// EventCounter は状態ごとのイベント数を返すインターフェース
type EventCounter interface {
	CountEventsByStatus(ctx context.Context) (map[event.Status]int, error)
}

// EventStatsCollector は状態ごとのイベント数を定期的にゲージへ反映するワーカー
type EventStatsCollector struct {
	counter  EventCounter
	metrics  *metrics.Metrics
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

const defaultStatsInterval = 30 * time.Second

// NewEventStatsCollector は新しいコレクターを作成
func NewEventStatsCollector(counter EventCounter, m *metrics.Metrics, interval time.Duration) *EventStatsCollector {
	if interval <= 0 {
		interval = defaultStatsInterval
	}
	return &EventStatsCollector{
		counter:  counter,
		metrics:  m,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start はコレクターを開始する。起動直後に1回集計する
func (c *EventStatsCollector) Start(ctx context.Context) {
	logger.Info("イベント集計ワーカー開始", zap.Duration("interval", c.interval))

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer close(c.doneCh)

	c.collect(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info("イベント集計ワーカー停止（コンテキストキャンセル）")
			return
		case <-c.stopCh:
			logger.Info("イベント集計ワーカー停止（シグナル受信）")
			return
		case <-ticker.C:
			c.collect(ctx)
		}
	}
}

// Stop はコレクターを停止
func (c *EventStatsCollector) Stop() {
	close(c.stopCh)
	<-c.doneCh
}

func (c *EventStatsCollector) collect(ctx context.Context) {
	counts, err := c.counter.CountEventsByStatus(ctx)
	if err != nil {
		logger.Error("イベント集計失敗", zap.Error(err))
		return
	}

	// 0件の状態もゲージに出す
	for _, status := range event.Statuses() {
		c.metrics.Events.WithLabelValues(string(status)).Set(float64(counts[status]))
	}
	logger.Debug("イベント集計完了", zap.Any("counts", counts))
}

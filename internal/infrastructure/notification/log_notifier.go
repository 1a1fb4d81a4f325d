package notification

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-summary-service/internal/domain/event"
	"github.com/sanosuguru/go-event-summary-service/internal/pkg/logger"
	"github.com/sanosuguru/go-event-summary-service/internal/pkg/metrics"
)

const (
	KindCreated   = "created"
	KindPublished = "published"
	KindCancelled = "cancelled"
)

// LogNotifier はライフサイクルの変化をログに出力する通知実装
// 配送の遅延を delay で模擬する
type LogNotifier struct {
	log     *zap.Logger
	delay   time.Duration
	metrics *metrics.Metrics
}

// NewLogNotifier は LogNotifier を作成する（log が nil ならパッケージロガーを使う）
func NewLogNotifier(log *zap.Logger, delay time.Duration, m *metrics.Metrics) *LogNotifier {
	return &LogNotifier{
		log:     logger.Component(log, "notification"),
		delay:   delay,
		metrics: m,
	}
}

func (n *LogNotifier) NotifyCreated(ctx context.Context, e *event.Event) error {
	return n.deliver(ctx, KindCreated, "New event created: "+e.Title, e)
}

func (n *LogNotifier) NotifyPublished(ctx context.Context, e *event.Event) error {
	return n.deliver(ctx, KindPublished, "Event published: "+e.Title, e)
}

func (n *LogNotifier) NotifyCancelled(ctx context.Context, e *event.Event) error {
	return n.deliver(ctx, KindCancelled, "Event cancelled: "+e.Title, e)
}

func (n *LogNotifier) deliver(ctx context.Context, kind, message string, e *event.Event) error {
	err := n.wait(ctx)
	n.metrics.ObserveNotification(kind, err)
	if err != nil {
		n.log.Warn("通知の配送を中断", zap.String("type", kind), zap.String("event_id", e.ID), zap.Error(err))
		return err
	}

	n.log.Info(message,
		zap.String("type", kind),
		zap.String("event_id", e.ID),
		zap.String("title", e.Title),
		zap.String("status", string(e.Status)),
		zap.Time("start_at", e.StartAt),
		zap.String("location", e.Location),
	)
	return nil
}

func (n *LogNotifier) wait(ctx context.Context) error {
	if n.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(n.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

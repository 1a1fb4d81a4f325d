package application

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-summary-service/internal/domain/event"
	"github.com/sanosuguru/go-event-summary-service/internal/infrastructure/memory"
	"github.com/sanosuguru/go-event-summary-service/internal/pkg/logger"
	"github.com/sanosuguru/go-event-summary-service/internal/pkg/metrics"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Notifier はライフサイクルの変化を外部に通知するインターフェース
type Notifier interface {
	NotifyCreated(ctx context.Context, e *event.Event) error
	NotifyPublished(ctx context.Context, e *event.Event) error
	NotifyCancelled(ctx context.Context, e *event.Event) error
}

type EventService struct {
	eventRepo   event.Repository
	notifier    Notifier
	lockManager *memory.LockManager
	metrics     *metrics.Metrics
	now         func() time.Time
	newID       func() string
}

// EventServiceOption は EventService の任意設定
type EventServiceOption func(*EventService)

// WithClock は現在時刻の取得方法を差し替える
func WithClock(now func() time.Time) EventServiceOption {
	return func(s *EventService) { s.now = now }
}

// WithIDGenerator はID採番を差し替える
func WithIDGenerator(newID func() string) EventServiceOption {
	return func(s *EventService) { s.newID = newID }
}

// WithEventMetrics は状態遷移のメトリクスを記録する
func WithEventMetrics(m *metrics.Metrics) EventServiceOption {
	return func(s *EventService) { s.metrics = m }
}

func NewEventService(eventRepo event.Repository, notifier Notifier, lm *memory.LockManager, opts ...EventServiceOption) *EventService {
	s := &EventService{
		eventRepo:   eventRepo,
		notifier:    notifier,
		lockManager: lm,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateEventInput struct {
	Title         string
	StartAt       time.Time
	EndAt         time.Time
	Location      string
	Status        event.Status // 空なら DRAFT
	InternalNotes *string
	CreatedBy     *string
}

// CreateEvent はイベントを作成して作成通知を送る
// 通知に失敗してもイベントは保存されたまま、エラーを返す
func (s *EventService) CreateEvent(ctx context.Context, input CreateEventInput) (*event.Event, error) {
	now := s.now()
	if err := event.ValidateSchedule(input.StartAt, input.EndAt, now); err != nil {
		return nil, err
	}

	e := event.NewEvent(s.newID(), input.Title, input.Location, input.StartAt, input.EndAt, input.Status, now)
	e.InternalNotes = input.InternalNotes
	e.CreatedBy = input.CreatedBy
	if err := e.Validate(); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Put(ctx, e); err != nil {
		return nil, fmt.Errorf("イベント作成に失敗しました: %w", err)
	}

	if err := s.notifier.NotifyCreated(ctx, e); err != nil {
		return nil, fmt.Errorf("作成通知に失敗しました（イベント %s は保存済み）: %w", e.ID, err)
	}

	logger.Info("イベント作成", zap.String("event_id", e.ID), zap.String("title", e.Title))
	return e, nil
}

type UpdateEventInput struct {
	ID            string
	Status        *event.Status
	InternalNotes *string
}

// UpdateEvent は状態と内部メモを更新する
// 状態が変わった場合のみ公開・中止の通知を送る
func (s *EventService) UpdateEvent(ctx context.Context, input UpdateEventInput) (*event.Event, error) {
	lock, err := s.lockManager.AcquireLock(ctx, input.ID)
	if err != nil {
		return nil, fmt.Errorf("ロック取得に失敗: %w", err)
	}
	// 通知の前にロックを解放する
	locked := true
	unlock := func() {
		if locked {
			_ = lock.Release()
			locked = false
		}
	}
	defer unlock()

	e, err := s.eventRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	previous := e.Status
	changed := false
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, event.NewValidationError("status", fmt.Sprintf("status must be one of %v", event.Statuses()))
		}
		if changed, err = e.TransitionTo(*input.Status); err != nil {
			return nil, err
		}
	}
	if input.InternalNotes != nil {
		notes := *input.InternalNotes
		e.InternalNotes = &notes
	}
	e.UpdatedAt = s.now()

	if err := s.eventRepo.Put(ctx, e); err != nil {
		return nil, fmt.Errorf("イベント更新に失敗しました: %w", err)
	}
	unlock()

	if !changed {
		return e, nil
	}

	s.metrics.ObserveTransition(string(previous), string(e.Status))
	if err := s.notifyStatusChange(ctx, e, previous); err != nil {
		return nil, fmt.Errorf("状態変更通知に失敗しました（イベント %s は更新済み）: %w", e.ID, err)
	}
	return e, nil
}

func (s *EventService) notifyStatusChange(ctx context.Context, e *event.Event, previous event.Status) error {
	switch {
	case previous == event.StatusDraft && e.Status == event.StatusPublished:
		logger.Info("イベント公開", zap.String("event_id", e.ID), zap.String("title", e.Title))
		return s.notifier.NotifyPublished(ctx, e)
	case e.Status == event.StatusCancelled:
		logger.Info("イベント中止", zap.String("event_id", e.ID), zap.String("title", e.Title))
		return s.notifier.NotifyCancelled(ctx, e)
	}
	return nil
}

// GetEvent はIDからイベントを取得する
func (s *EventService) GetEvent(ctx context.Context, id string) (*event.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

// ListEventsInput は一覧取得の条件（Page/Limit の 0 はデフォルト値）
type ListEventsInput struct {
	Page   int
	Limit  int
	Filter event.Filter
}

// Pagination はページング情報
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// EventList は一覧取得の結果
type EventList struct {
	Events     []*event.Event
	Pagination Pagination
}

// ListEvents は管理者向けに全状態のイベントを取得する
func (s *EventService) ListEvents(ctx context.Context, input ListEventsInput) (*EventList, error) {
	return s.list(ctx, input, event.VisibilityAdmin)
}

// ListPublicEvents は公開中・中止のイベントのみを取得する
func (s *EventService) ListPublicEvents(ctx context.Context, input ListEventsInput) (*EventList, error) {
	return s.list(ctx, input, event.VisibilityPublic)
}

func (s *EventService) list(ctx context.Context, input ListEventsInput, visibility event.Visibility) (*EventList, error) {
	page, limit := input.Page, input.Limit
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	events, total, err := s.eventRepo.Query(ctx, input.Filter, visibility, page, limit)
	if err != nil {
		return nil, fmt.Errorf("イベント一覧の取得に失敗しました: %w", err)
	}
	return &EventList{
		Events: events,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

// CountEventsByStatus は状態ごとのイベント数を返す
func (s *EventService) CountEventsByStatus(ctx context.Context) (map[event.Status]int, error) {
	return s.eventRepo.CountByStatus(ctx)
}

// Now はサービスが使う現在時刻を返す
func (s *EventService) Now() time.Time {
	return s.now()
}

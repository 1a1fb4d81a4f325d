package handler

import (
	"context"
	"time"

	"github.com/sanosuguru/go-event-summary-service/internal/application"
	"github.com/sanosuguru/go-event-summary-service/internal/domain/event"
)

// EventServiceInterface はイベントサービスのインターフェース
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, input application.CreateEventInput) (*event.Event, error)
	UpdateEvent(ctx context.Context, input application.UpdateEventInput) (*event.Event, error)
	GetEvent(ctx context.Context, id string) (*event.Event, error)
	ListEvents(ctx context.Context, input application.ListEventsInput) (*application.EventList, error)
	ListPublicEvents(ctx context.Context, input application.ListEventsInput) (*application.EventList, error)
	Now() time.Time
}

// SummaryServiceInterface は要約キャッシュのインターフェース
type SummaryServiceInterface interface {
	GetCacheStatus(ctx context.Context, eventID string) (bool, error)
	InvalidateCache(ctx context.Context, eventID string) error
}

// SummaryStreamerInterface は要約ストリーミングのインターフェース
type SummaryStreamerInterface interface {
	Stream(ctx context.Context, eventID string) (*application.SummaryStream, error)
}

package application

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-event-summary-service/internal/domain/event"
)

var fixedNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// MockEventRepository はevent.Repositoryのモック
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Put(ctx context.Context, e *event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventRepository) Query(ctx context.Context, filter event.Filter, visibility event.Visibility, page, limit int) ([]*event.Event, int, error) {
	args := m.Called(ctx, filter, visibility, page, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*event.Event), args.Int(1), args.Error(2)
}

func (m *MockEventRepository) CountByStatus(ctx context.Context) (map[event.Status]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[event.Status]int), args.Error(1)
}

func (m *MockEventRepository) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockNotifier はNotifierのモック
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyCreated(ctx context.Context, e *event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockNotifier) NotifyPublished(ctx context.Context, e *event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockNotifier) NotifyCancelled(ctx context.Context, e *event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

// newTestEvent は開始が fixedNow の1日後のイベントを作成する
func newTestEvent(id string, status event.Status) *event.Event {
	start := fixedNow.Add(24 * time.Hour)
	return event.NewEvent(id, "Go Conference", "Tokyo", start, start.Add(8*time.Hour), status, fixedNow)
}

func strPtr(s string) *string { return &s }

func statusPtr(s event.Status) *event.Status { return &s }

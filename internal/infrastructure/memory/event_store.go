package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sanosuguru/go-event-summary-service/internal/domain/event"
)

// EventStore はイベントリポジトリのインメモリ実装
// 保存・取得時にコピーするため、更新途中のイベントが他の呼び出し元から見えることはない
type EventStore struct {
	mu     sync.RWMutex
	events map[string]*event.Event
	order  []string // 挿入順（同時刻の並び順を安定させる）
}

// NewEventStore はEventStoreを作成する
func NewEventStore() *EventStore {
	return &EventStore{events: make(map[string]*event.Event)}
}

// Put はイベントを保存する
func (s *EventStore) Put(ctx context.Context, e *event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.events[e.ID]; !exists {
		s.order = append(s.order, e.ID)
	}
	s.events[e.ID] = e.Clone()
	return nil
}

// GetByID はIDからイベントを取得する
func (s *EventStore) GetByID(ctx context.Context, id string) (*event.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[id]
	if !ok {
		return nil, &event.NotFoundError{ID: id}
	}
	return e.Clone(), nil
}

// Query は条件に合うイベントを開始日時の昇順で返す
// total はページング前の件数、範囲外のページは空スライスになる
func (s *EventStore) Query(ctx context.Context, filter event.Filter, visibility event.Visibility, page, limit int) ([]*event.Event, int, error) {
	m := newMatcher(filter, visibility)

	s.mu.RLock()
	filtered := make([]*event.Event, 0, len(s.order))
	for _, id := range s.order {
		e := s.events[id]
		if m.match(e) {
			filtered = append(filtered, e.Clone())
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].StartAt.Before(filtered[j].StartAt)
	})

	total := len(filtered)
	start := (page - 1) * limit
	if start < 0 || start >= total {
		return []*event.Event{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return filtered[start:end], total, nil
}

// CountByStatus は状態ごとの件数を返す
func (s *EventStore) CountByStatus(ctx context.Context) (map[event.Status]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[event.Status]int, len(event.Statuses()))
	for _, st := range event.Statuses() {
		counts[st] = 0
	}
	for _, e := range s.events {
		counts[e.Status]++
	}
	return counts, nil
}

// Clear は全イベントを削除する
func (s *EventStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = make(map[string]*event.Event)
	s.order = nil
	return nil
}

// matcher は Filter と Visibility を評価する
type matcher struct {
	statuses  map[event.Status]struct{}
	locations []string
	from      *time.Time
	to        *time.Time
	public    bool
}

func newMatcher(filter event.Filter, visibility event.Visibility) *matcher {
	m := &matcher{public: visibility == event.VisibilityPublic}
	if len(filter.Statuses) > 0 {
		m.statuses = make(map[event.Status]struct{}, len(filter.Statuses))
		for _, st := range filter.Statuses {
			m.statuses[st] = struct{}{}
		}
	}
	for _, loc := range filter.Locations {
		m.locations = append(m.locations, strings.ToLower(loc))
	}
	if filter.DateFrom != nil {
		from := StartOfDay(*filter.DateFrom)
		m.from = &from
	}
	if filter.DateTo != nil {
		to := EndOfDay(*filter.DateTo)
		m.to = &to
	}
	return m
}

func (m *matcher) match(e *event.Event) bool {
	if m.public && !e.Status.IsPublic() {
		return false
	}
	if m.statuses != nil {
		if _, ok := m.statuses[e.Status]; !ok {
			return false
		}
	}
	if len(m.locations) > 0 && !m.matchLocation(e.Location) {
		return false
	}
	if m.from != nil && e.StartAt.Before(*m.from) {
		return false
	}
	if m.to != nil && e.StartAt.After(*m.to) {
		return false
	}
	return true
}

func (m *matcher) matchLocation(location string) bool {
	lower := strings.ToLower(location)
	for _, loc := range m.locations {
		if strings.Contains(lower, loc) {
			return true
		}
	}
	return false
}

// StartOfDay は t と同じ日の 00:00:00.000 を返す
func StartOfDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay は t と同じ日の 23:59:59.999 を返す
func EndOfDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

package event

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Status はイベントの公開状態を表す
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusCancelled Status = "CANCELLED"
)

// MaxTitleLength はタイトルの最大文字数
const MaxTitleLength = 200

// transitions は状態遷移の許可テーブル（CANCELLED は終端状態）
var transitions = map[Status][]Status{
	StatusDraft:     {StatusPublished, StatusCancelled},
	StatusPublished: {StatusCancelled},
	StatusCancelled: {},
}

// Statuses は定義済みの全状態を返す
func Statuses() []Status {
	return []Status{StatusDraft, StatusPublished, StatusCancelled}
}

// IsValid は定義済みの状態かを返す
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo は next への遷移が許可されているかを返す
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsPublic は公開一覧に表示される状態かを返す
func (s Status) IsPublic() bool {
	return s == StatusPublished || s == StatusCancelled
}

// Event はイベントエンティティを表す
type Event struct {
	ID            string
	Title         string
	StartAt       time.Time
	EndAt         time.Time
	Location      string
	Status        Status
	InternalNotes *string // 管理者のみ参照可能
	CreatedBy     *string // 管理者のみ参照可能
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewEvent は新しいイベントを作成する
// status が空の場合は DRAFT になる
func NewEvent(id, title, location string, startAt, endAt time.Time, status Status, now time.Time) *Event {
	if status == "" {
		status = StatusDraft
	}
	return &Event{
		ID:        id,
		Title:     title,
		StartAt:   startAt,
		EndAt:     endAt,
		Location:  location,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone はイベントのコピーを返す
func (e *Event) Clone() *Event {
	c := *e
	if e.InternalNotes != nil {
		notes := *e.InternalNotes
		c.InternalNotes = &notes
	}
	if e.CreatedBy != nil {
		createdBy := *e.CreatedBy
		c.CreatedBy = &createdBy
	}
	return &c
}

// IsUpcoming は開始前のイベントかを返す
func (e *Event) IsUpcoming(now time.Time) bool {
	return e.StartAt.After(now)
}

// ValidateSchedule は作成時の日時を検証する
// 開始 < 終了、開始 > now の順に検査し、最初の違反を返す
func ValidateSchedule(startAt, endAt, now time.Time) error {
	if !startAt.Before(endAt) {
		return NewValidationError("startAt", "startAt must be before endAt")
	}
	if !startAt.After(now) {
		return NewValidationError("startAt", "Must be in the future")
	}
	return nil
}

// Validate はイベントの検証を行う
func (e *Event) Validate() error {
	if e.Title == "" {
		return NewValidationError("title", "title should not be empty")
	}
	if utf8.RuneCountInString(e.Title) > MaxTitleLength {
		return NewValidationError("title", fmt.Sprintf("title must be shorter than or equal to %d characters", MaxTitleLength))
	}
	if !e.Status.IsValid() {
		return NewValidationError("status", fmt.Sprintf("status must be one of %v", Statuses()))
	}
	return nil
}

// TransitionTo は状態を next に変更する
// 同じ状態への変更は何もせず false を返す
func (e *Event) TransitionTo(next Status) (bool, error) {
	if next == e.Status {
		return false, nil
	}
	if !e.Status.CanTransitionTo(next) {
		return false, NewValidationError("status", fmt.Sprintf("Cannot transition from %s to %s", e.Status, next))
	}
	e.Status = next
	return true, nil
}

package handler

import (
	"time"

	"github.com/sanosuguru/go-event-summary-service/internal/application"
	"github.com/sanosuguru/go-event-summary-service/internal/domain/event"
)

// timestampLayout はレスポンスの日時形式（UTC、ミリ秒）
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// AdminEventResponse は管理者向けのイベント表現
type AdminEventResponse struct {
	ID            string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Title         string  `json:"title" example:"Go Conference 2026"`
	StartAt       string  `json:"startAt" example:"2026-06-15T09:00:00.000Z"`
	EndAt         string  `json:"endAt" example:"2026-06-15T17:00:00.000Z"`
	Location      string  `json:"location" example:"Tokyo"`
	Status        string  `json:"status" example:"DRAFT"`
	InternalNotes *string `json:"internalNotes"`
	CreatedBy     *string `json:"createdBy"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// PublicEventResponse は公開向けのイベント表現（内部項目を含まない）
type PublicEventResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	StartAt    string `json:"startAt"`
	EndAt      string `json:"endAt"`
	Location   string `json:"location"`
	Status     string `json:"status"`
	IsUpcoming bool   `json:"isUpcoming"`
}

// AdminEventListResponse は管理者向けの一覧レスポンス
type AdminEventListResponse struct {
	Events     []*AdminEventResponse  `json:"events"`
	Pagination application.Pagination `json:"pagination"`
}

// PublicEventListResponse は公開向けの一覧レスポンス
type PublicEventListResponse struct {
	Events     []*PublicEventResponse `json:"events"`
	Pagination application.Pagination `json:"pagination"`
}

func toAdminEventResponse(e *event.Event) *AdminEventResponse {
	return &AdminEventResponse{
		ID:            e.ID,
		Title:         e.Title,
		StartAt:       formatTime(e.StartAt),
		EndAt:         formatTime(e.EndAt),
		Location:      e.Location,
		Status:        string(e.Status),
		InternalNotes: e.InternalNotes,
		CreatedBy:     e.CreatedBy,
		CreatedAt:     formatTime(e.CreatedAt),
		UpdatedAt:     formatTime(e.UpdatedAt),
	}
}

func toPublicEventResponse(e *event.Event, now time.Time) *PublicEventResponse {
	return &PublicEventResponse{
		ID:         e.ID,
		Title:      e.Title,
		StartAt:    formatTime(e.StartAt),
		EndAt:      formatTime(e.EndAt),
		Location:   e.Location,
		Status:     string(e.Status),
		IsUpcoming: e.IsUpcoming(now),
	}
}

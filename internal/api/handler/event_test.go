package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-event-summary-service/internal/api"
	"github.com/sanosuguru/go-event-summary-service/internal/application"
	"github.com/sanosuguru/go-event-summary-service/internal/domain/event"
)

func decodeError(t *testing.T, body []byte) api.ErrorBody {
	t.Helper()
	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Error
}

func TestEventHandler_Create(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常にイベントを作成できる", func(t *testing.T) {
		mockService := new(MockEventService)
		created := newTestEvent("event-123", event.StatusDraft)
		notes := "VIP"
		created.InternalNotes = &notes

		var captured application.CreateEventInput
		mockService.On("CreateEvent", mock.Anything, mock.AnythingOfType("application.CreateEventInput")).
			Run(func(args mock.Arguments) { captured = args.Get(1).(application.CreateEventInput) }).
			Return(created, nil)

		handler := NewEventHandler(mockService)
		reqBody := `{
			"title": "Go Conference",
			"startAt": "2026-06-02T00:00:00.000Z",
			"endAt": "2026-06-02T08:00:00+00:00",
			"location": "Tokyo",
			"internalNotes": "VIP",
			"createdBy": "admin@example.com"
		}`
		rec := serve(e, handler.Create, http.MethodPost, "/api/v1/events", strings.NewReader(reqBody))

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp AdminEventResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "event-123", resp.ID)
		assert.Equal(t, "DRAFT", resp.Status)
		assert.Equal(t, "2026-06-02T00:00:00.000Z", resp.StartAt)
		require.NotNil(t, resp.InternalNotes)
		assert.Equal(t, "VIP", *resp.InternalNotes)

		assert.Equal(t, "Go Conference", captured.Title)
		assert.True(t, captured.StartAt.Equal(time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)))
		assert.Equal(t, event.Status(""), captured.Status)
		require.NotNil(t, captured.CreatedBy)
		assert.Equal(t, "admin@example.com", *captured.CreatedBy)
		mockService.AssertExpectations(t)
	})

	t.Run("不正なJSONは400", func(t *testing.T) {
		mockService := new(MockEventService)
		handler := NewEventHandler(mockService)

		rec := serve(e, handler.Create, http.MethodPost, "/api/v1/events", strings.NewReader("invalid json"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, api.CodeValidation, decodeError(t, rec.Body.Bytes()).Code)
		mockService.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything)
	})

	t.Run("必須項目と形式の検証", func(t *testing.T) {
		mockService := new(MockEventService)
		handler := NewEventHandler(mockService)

		reqBody := `{"title": "", "startAt": "next week", "endAt": "2026-06-02T08:00:00Z", "status": "ARCHIVED"}`
		rec := serve(e, handler.Create, http.MethodPost, "/api/v1/events", strings.NewReader(reqBody))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec.Body.Bytes())
		assert.Equal(t, api.MessageValidation, body.Message)
		fields := map[string]bool{}
		for _, d := range body.Details {
			fields[d.Field] = true
		}
		assert.True(t, fields["title"])
		assert.True(t, fields["startAt"])
		assert.True(t, fields["location"])
		assert.True(t, fields["status"])
		mockService.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything)
	})

	t.Run("タイトルは200文字まで", func(t *testing.T) {
		mockService := new(MockEventService)
		handler := NewEventHandler(mockService)

		reqBody := `{"title": "` + strings.Repeat("あ", 201) + `", "startAt": "2026-06-02T00:00:00Z", "endAt": "2026-06-02T08:00:00Z", "location": "Tokyo"}`
		rec := serve(e, handler.Create, http.MethodPost, "/api/v1/events", strings.NewReader(reqBody))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec.Body.Bytes())
		require.Len(t, body.Details, 1)
		assert.Equal(t, "title must be shorter than or equal to 200 characters", body.Details[0].Message)
	})

	t.Run("サービスの検証エラーは詳細付きで400", func(t *testing.T) {
		mockService := new(MockEventService)
		mockService.On("CreateEvent", mock.Anything, mock.Anything).
			Return(nil, event.NewValidationError("startAt", "Must be in the future"))
		handler := NewEventHandler(mockService)

		reqBody := `{"title": "Past", "startAt": "2020-01-01T00:00:00Z", "endAt": "2020-01-01T01:00:00Z", "location": "Tokyo"}`
		rec := serve(e, handler.Create, http.MethodPost, "/api/v1/events", strings.NewReader(reqBody))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec.Body.Bytes())
		require.Len(t, body.Details, 1)
		assert.Equal(t, event.FieldError{Field: "startAt", Message: "Must be in the future"}, body.Details[0])
	})

	t.Run("通知失敗は500", func(t *testing.T) {
		mockService := new(MockEventService)
		mockService.On("CreateEvent", mock.Anything, mock.Anything).Return(nil, errors.New("notification down"))
		handler := NewEventHandler(mockService)

		reqBody := `{"title": "Go", "startAt": "2026-06-02T00:00:00Z", "endAt": "2026-06-02T08:00:00Z", "location": "Tokyo"}`
		rec := serve(e, handler.Create, http.MethodPost, "/api/v1/events", strings.NewReader(reqBody))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, api.CodeInternal, decodeError(t, rec.Body.Bytes()).Code)
	})
}

func TestEventHandler_Update(t *testing.T) {
	e := NewTestEcho()

	t.Run("状態を更新できる", func(t *testing.T) {
		mockService := new(MockEventService)
		updated := newTestEvent("event-1", event.StatusPublished)
		mockService.On("UpdateEvent", mock.Anything, mock.MatchedBy(func(in application.UpdateEventInput) bool {
			return in.ID == "event-1" && in.Status != nil && *in.Status == event.StatusPublished && in.InternalNotes == nil
		})).Return(updated, nil)
		handler := NewEventHandler(mockService)

		rec := serve(e, handler.Update, http.MethodPatch, "/api/v1/events/event-1", strings.NewReader(`{"status":"PUBLISHED"}`), "id", "event-1")

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp AdminEventResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "PUBLISHED", resp.Status)
		mockService.AssertExpectations(t)
	})

	t.Run("内部メモのみ", func(t *testing.T) {
		mockService := new(MockEventService)
		mockService.On("UpdateEvent", mock.Anything, mock.MatchedBy(func(in application.UpdateEventInput) bool {
			return in.Status == nil && in.InternalNotes != nil && *in.InternalNotes == "memo"
		})).Return(newTestEvent("event-1", event.StatusDraft), nil)
		handler := NewEventHandler(mockService)

		rec := serve(e, handler.Update, http.MethodPatch, "/api/v1/events/event-1", strings.NewReader(`{"internalNotes":"memo"}`), "id", "event-1")

		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("不正な状態値は400", func(t *testing.T) {
		mockService := new(MockEventService)
		handler := NewEventHandler(mockService)

		rec := serve(e, handler.Update, http.MethodPatch, "/api/v1/events/event-1", strings.NewReader(`{"status":"ARCHIVED"}`), "id", "event-1")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "UpdateEvent", mock.Anything, mock.Anything)
	})

	t.Run("不正な遷移は400", func(t *testing.T) {
		mockService := new(MockEventService)
		mockService.On("UpdateEvent", mock.Anything, mock.Anything).
			Return(nil, event.NewValidationError("status", "Cannot transition from CANCELLED to PUBLISHED"))
		handler := NewEventHandler(mockService)

		rec := serve(e, handler.Update, http.MethodPatch, "/api/v1/events/event-1", strings.NewReader(`{"status":"PUBLISHED"}`), "id", "event-1")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec.Body.Bytes())
		require.Len(t, body.Details, 1)
		assert.Equal(t, "Cannot transition from CANCELLED to PUBLISHED", body.Details[0].Message)
	})

	t.Run("存在しないイベントは404", func(t *testing.T) {
		mockService := new(MockEventService)
		mockService.On("UpdateEvent", mock.Anything, mock.Anything).Return(nil, &event.NotFoundError{ID: "missing"})
		handler := NewEventHandler(mockService)

		rec := serve(e, handler.Update, http.MethodPatch, "/api/v1/events/missing", strings.NewReader(`{"status":"PUBLISHED"}`), "id", "missing")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeError(t, rec.Body.Bytes())
		assert.Equal(t, api.CodeNotFound, body.Code)
		assert.Equal(t, "Event with id missing not found", body.Message)
	})
}

func TestEventHandler_GetByID(t *testing.T) {
	e := NewTestEcho()

	t.Run("取得できる", func(t *testing.T) {
		mockService := new(MockEventService)
		mockService.On("GetEvent", mock.Anything, "event-1").Return(newTestEvent("event-1", event.StatusDraft), nil)
		handler := NewEventHandler(mockService)

		rec := serve(e, handler.GetByID, http.MethodGet, "/api/v1/events/event-1", nil, "id", "event-1")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"internalNotes":null`)
		assert.Contains(t, rec.Body.String(), `"createdAt":"2026-06-01T00:00:00.000Z"`)
	})

	t.Run("存在しない", func(t *testing.T) {
		mockService := new(MockEventService)
		mockService.On("GetEvent", mock.Anything, "missing").Return(nil, &event.NotFoundError{ID: "missing"})
		handler := NewEventHandler(mockService)

		rec := serve(e, handler.GetByID, http.MethodGet, "/api/v1/events/missing", nil, "id", "missing")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestEventHandler_List(t *testing.T) {
	e := NewTestEcho()

	t.Run("デフォルトのページング", func(t *testing.T) {
		mockService := new(MockEventService)
		mockService.On("ListEvents", mock.Anything, application.ListEventsInput{Page: 1, Limit: 20}).Return(&application.EventList{
			Events:     []*event.Event{newTestEvent("a", event.StatusDraft), newTestEvent("b", event.StatusPublished)},
			Pagination: application.Pagination{Page: 1, Limit: 20, Total: 2, TotalPages: 1},
		}, nil)
		handler := NewEventHandler(mockService)

		rec := serve(e, handler.List, http.MethodGet, "/api/v1/events", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp AdminEventListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Events, 2)
		assert.Equal(t, application.Pagination{Page: 1, Limit: 20, Total: 2, TotalPages: 1}, resp.Pagination)
		mockService.AssertExpectations(t)
	})

	t.Run("絞り込み条件を解釈する", func(t *testing.T) {
		mockService := new(MockEventService)
		var captured application.ListEventsInput
		mockService.On("ListEvents", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { captured = args.Get(1).(application.ListEventsInput) }).
			Return(&application.EventList{Events: []*event.Event{}}, nil)
		handler := NewEventHandler(mockService)

		target := "/api/v1/events?page=2&limit=5&status=DRAFT,PUBLISHED&locations=paulo&locations=Tokyo,%20Japan&dateFrom=2026-06-01&dateTo=2026-06-30T12:00:00Z"
		rec := serve(e, handler.List, http.MethodGet, target, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 2, captured.Page)
		assert.Equal(t, 5, captured.Limit)
		assert.Equal(t, []event.Status{event.StatusDraft, event.StatusPublished}, captured.Filter.Statuses)
		assert.Equal(t, []string{"paulo", "Tokyo, Japan"}, captured.Filter.Locations)
		require.NotNil(t, captured.Filter.DateFrom)
		assert.True(t, captured.Filter.DateFrom.Equal(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)))
		require.NotNil(t, captured.Filter.DateTo)
		assert.True(t, captured.Filter.DateTo.Equal(time.Date(2026, 6, 30, 12, 0, 0, 0, time.UTC)))
	})

	invalidQueries := []struct {
		name  string
		query string
		field string
	}{
		{"pageが0", "page=0", "page"},
		{"pageが数値でない", "page=abc", "page"},
		{"limitが上限超過", "limit=101", "limit"},
		{"limitが0", "limit=0", "limit"},
		{"不正な状態", "status=DRAFT,ARCHIVED", "status[1]"},
		{"不正な日付", "dateFrom=yesterday", "dateFrom"},
	}
	for _, tt := range invalidQueries {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockEventService)
			handler := NewEventHandler(mockService)

			rec := serve(e, handler.List, http.MethodGet, "/api/v1/events?"+tt.query, nil)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeError(t, rec.Body.Bytes())
			require.NotEmpty(t, body.Details)
			assert.Equal(t, tt.field, body.Details[0].Field)
			mockService.AssertNotCalled(t, "ListEvents", mock.Anything, mock.Anything)
		})
	}
}

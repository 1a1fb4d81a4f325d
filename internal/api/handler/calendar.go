package handler

import (
	"net/http"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-summary-service/internal/application"
	"github.com/sanosuguru/go-event-summary-service/internal/domain/event"
)

const (
	mimeCalendar     = "text/calendar; charset=utf-8"
	calendarProdID   = "-//go-event-summary-service//public events//EN"
	calendarFilename = "events.ics"
)

// CalendarHandler は公開イベントを iCalendar 形式で出力するハンドラー
type CalendarHandler struct {
	eventService EventServiceInterface
}

func NewCalendarHandler(eventService EventServiceInterface) *CalendarHandler {
	return &CalendarHandler{eventService: eventService}
}

// Export godoc
// @Summary 公開イベントを iCalendar で取得
// @Description 一覧と同じ絞り込み条件で公開イベントを VEVENT として出力します（page/limit は無視）
// @Tags public
// @Produce text/calendar
// @Param status query string false "状態（カンマ区切り）"
// @Param locations query []string false "会場（部分一致、複数指定可）"
// @Param dateFrom query string false "開始日（この日以降）"
// @Param dateTo query string false "終了日（この日以前）"
// @Success 200 {string} string
// @Failure 400 {object} api.ErrorResponse
// @Router /public/events/calendar.ics [get]
func (h *CalendarHandler) Export(c echo.Context) error {
	input, err := parseListQuery(c)
	if err != nil {
		return err
	}

	events, err := h.collect(c, input)
	if err != nil {
		return err
	}

	cal := buildCalendar(events, h.eventService.Now())
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+calendarFilename+`"`)
	return c.Blob(http.StatusOK, mimeCalendar, []byte(cal.Serialize()))
}

// collect は全ページのイベントを取得する
func (h *CalendarHandler) collect(c echo.Context, input application.ListEventsInput) ([]*event.Event, error) {
	input.Limit = application.MaxLimit
	var events []*event.Event
	for page := 1; ; page++ {
		input.Page = page
		list, err := h.eventService.ListPublicEvents(c.Request().Context(), input)
		if err != nil {
			return nil, err
		}
		events = append(events, list.Events...)
		if page >= list.Pagination.TotalPages {
			return events, nil
		}
	}
}

func buildCalendar(events []*event.Event, now time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(calendarProdID)

	for _, e := range events {
		ve := cal.AddEvent(e.ID)
		ve.SetDtStampTime(now)
		ve.SetCreatedTime(e.CreatedAt)
		ve.SetModifiedAt(e.UpdatedAt)
		ve.SetStartAt(e.StartAt)
		ve.SetEndAt(e.EndAt)
		ve.SetSummary(e.Title)
		if e.Location != "" {
			ve.SetLocation(e.Location)
		}
		if e.Status == event.StatusCancelled {
			ve.SetStatus(ical.ObjectStatusCancelled)
		} else {
			ve.SetStatus(ical.ObjectStatusConfirmed)
		}
	}
	return cal
}

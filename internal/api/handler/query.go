package handler

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-summary-service/internal/api"
	"github.com/sanosuguru/go-event-summary-service/internal/application"
	"github.com/sanosuguru/go-event-summary-service/internal/domain/event"
)

// ListEventsQuery は一覧取得のクエリパラメータ
type ListEventsQuery struct {
	Page      int      `query:"page" validate:"min=1"`
	Limit     int      `query:"limit" validate:"min=1,max=100"`
	Status    []string `query:"status" validate:"dive,oneof=DRAFT PUBLISHED CANCELLED"`
	Locations []string `query:"locations"`
	DateFrom  string   `query:"dateFrom" validate:"omitempty,isodate"`
	DateTo    string   `query:"dateTo" validate:"omitempty,isodate"`
}

// parseListQuery はクエリを解釈して検証する
// status はカンマ区切り、locations は複数指定できる
func parseListQuery(c echo.Context) (application.ListEventsInput, error) {
	q := ListEventsQuery{Page: application.DefaultPage, Limit: application.DefaultLimit}
	var rawStatus []string

	err := echo.QueryParamsBinder(c).
		Int("page", &q.Page).
		Int("limit", &q.Limit).
		Strings("status", &rawStatus).
		Strings("locations", &q.Locations).
		String("dateFrom", &q.DateFrom).
		String("dateTo", &q.DateTo).
		BindError()
	if err != nil {
		var be *echo.BindingError
		if errors.As(err, &be) {
			return application.ListEventsInput{}, event.NewValidationError(be.Field, be.Field+" must be an integer number")
		}
		return application.ListEventsInput{}, err
	}
	q.Status = splitList(rawStatus)
	q.Locations = compact(q.Locations)

	if err := c.Validate(&q); err != nil {
		return application.ListEventsInput{}, err
	}

	filter := event.Filter{Locations: q.Locations}
	for _, s := range q.Status {
		filter.Statuses = append(filter.Statuses, event.Status(s))
	}
	if q.DateFrom != "" {
		d, _ := api.ParseDate(q.DateFrom)
		filter.DateFrom = &d
	}
	if q.DateTo != "" {
		d, _ := api.ParseDate(q.DateTo)
		filter.DateTo = &d
	}

	return application.ListEventsInput{Page: q.Page, Limit: q.Limit, Filter: filter}, nil
}

// splitList はカンマ区切りを展開し、空要素を取り除く
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, compact(strings.Split(v, ","))...)
	}
	return out
}

func compact(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

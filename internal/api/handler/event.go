package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-summary-service/internal/api"
	"github.com/sanosuguru/go-event-summary-service/internal/application"
	"github.com/sanosuguru/go-event-summary-service/internal/domain/event"
)

// EventHandler は管理者向けのイベントハンドラー
type EventHandler struct {
	eventService EventServiceInterface
}

func NewEventHandler(eventService EventServiceInterface) *EventHandler {
	return &EventHandler{eventService: eventService}
}

type CreateEventRequest struct {
	Title         string  `json:"title" validate:"required,max=200" example:"Go Conference 2026"`
	StartAt       string  `json:"startAt" validate:"required,iso8601" example:"2026-06-15T09:00:00.000Z"`
	EndAt         string  `json:"endAt" validate:"required,iso8601" example:"2026-06-15T17:00:00.000Z"`
	Location      string  `json:"location" validate:"required" example:"Tokyo"`
	Status        string  `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED CANCELLED" example:"DRAFT"`
	InternalNotes *string `json:"internalNotes" example:"VIP guests expected"`
	CreatedBy     *string `json:"createdBy" validate:"omitempty,email" example:"admin@example.com"`
}

type UpdateEventRequest struct {
	Status        *string `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED CANCELLED" example:"PUBLISHED"`
	InternalNotes *string `json:"internalNotes" example:"Moved to hall B"`
}

// Create godoc
// @Summary イベントを作成
// @Description 新しいイベントを作成します（状態の既定値は DRAFT）
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateEventRequest true "イベント情報"
// @Success 201 {object} AdminEventResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 401 {object} api.ErrorResponse
// @Router /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	var req CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	// iso8601 で検証済み
	startAt, _ := api.ParseTimestamp(req.StartAt)
	endAt, _ := api.ParseTimestamp(req.EndAt)

	e, err := h.eventService.CreateEvent(c.Request().Context(), application.CreateEventInput{
		Title:         req.Title,
		StartAt:       startAt,
		EndAt:         endAt,
		Location:      req.Location,
		Status:        event.Status(req.Status),
		InternalNotes: req.InternalNotes,
		CreatedBy:     req.CreatedBy,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toAdminEventResponse(e))
}

// Update godoc
// @Summary イベントを更新
// @Description 状態と内部メモを更新します。状態は DRAFT→PUBLISHED→CANCELLED の順にのみ遷移できます
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "イベントID"
// @Param request body UpdateEventRequest true "更新内容"
// @Success 200 {object} AdminEventResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /events/{id} [patch]
func (h *EventHandler) Update(c echo.Context) error {
	var req UpdateEventRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := application.UpdateEventInput{
		ID:            c.Param("id"),
		InternalNotes: req.InternalNotes,
	}
	if req.Status != nil {
		status := event.Status(*req.Status)
		input.Status = &status
	}

	e, err := h.eventService.UpdateEvent(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAdminEventResponse(e))
}

// GetByID godoc
// @Summary イベントを取得
// @Description 指定IDのイベントを取得します
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "イベントID"
// @Success 200 {object} AdminEventResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /events/{id} [get]
func (h *EventHandler) GetByID(c echo.Context) error {
	e, err := h.eventService.GetEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAdminEventResponse(e))
}

// List godoc
// @Summary イベント一覧を取得
// @Description すべての状態のイベントを開始日時の昇順で取得します
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param page query int false "ページ" default(1)
// @Param limit query int false "取得件数" default(20)
// @Param status query string false "状態（カンマ区切り）"
// @Param locations query []string false "会場（部分一致、複数指定可）"
// @Param dateFrom query string false "開始日（この日以降）"
// @Param dateTo query string false "終了日（この日以前）"
// @Success 200 {object} AdminEventListResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /events [get]
func (h *EventHandler) List(c echo.Context) error {
	input, err := parseListQuery(c)
	if err != nil {
		return err
	}

	list, err := h.eventService.ListEvents(c.Request().Context(), input)
	if err != nil {
		return err
	}

	resp := AdminEventListResponse{
		Events:     make([]*AdminEventResponse, len(list.Events)),
		Pagination: list.Pagination,
	}
	for i, e := range list.Events {
		resp.Events[i] = toAdminEventResponse(e)
	}
	return c.JSON(http.StatusOK, resp)
}

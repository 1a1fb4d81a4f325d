package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// PublicEventHandler は認証不要の公開イベントハンドラー
type PublicEventHandler struct {
	eventService EventServiceInterface
}

func NewPublicEventHandler(eventService EventServiceInterface) *PublicEventHandler {
	return &PublicEventHandler{eventService: eventService}
}

// List godoc
// @Summary 公開イベント一覧を取得
// @Description 公開中・中止のイベントを開始日時の昇順で取得します（下書きは含まれません）
// @Tags public
// @Produce json
// @Param page query int false "ページ" default(1)
// @Param limit query int false "取得件数" default(20)
// @Param status query string false "状態（カンマ区切り）"
// @Param locations query []string false "会場（部分一致、複数指定可）"
// @Param dateFrom query string false "開始日（この日以降）"
// @Param dateTo query string false "終了日（この日以前）"
// @Success 200 {object} PublicEventListResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /public/events [get]
func (h *PublicEventHandler) List(c echo.Context) error {
	input, err := parseListQuery(c)
	if err != nil {
		return err
	}

	list, err := h.eventService.ListPublicEvents(c.Request().Context(), input)
	if err != nil {
		return err
	}

	now := h.eventService.Now()
	resp := PublicEventListResponse{
		Events:     make([]*PublicEventResponse, len(list.Events)),
		Pagination: list.Pagination,
	}
	for i, e := range list.Events {
		resp.Events[i] = toPublicEventResponse(e, now)
	}
	return c.JSON(http.StatusOK, resp)
}

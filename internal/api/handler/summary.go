package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-summary-service/internal/api"
	"github.com/sanosuguru/go-event-summary-service/internal/pkg/logger"
)

const mimeEventStream = "text/event-stream"

// SummaryHandler は要約のストリーミングとキャッシュ操作のハンドラー
type SummaryHandler struct {
	summaryService SummaryServiceInterface
	streamer       SummaryStreamerInterface
}

func NewSummaryHandler(summaryService SummaryServiceInterface, streamer SummaryStreamerInterface) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService, streamer: streamer}
}

type streamErrorFrame struct {
	Error string `json:"error"`
}

// Stream godoc
// @Summary イベント要約をストリーミング
// @Description 要約を Server-Sent Events で数語ずつ送信します。X-Summary-Cache ヘッダーは送信開始前のキャッシュ状態（HIT/MISS）です
// @Tags public
// @Produce text/event-stream
// @Param id path string true "イベントID"
// @Success 200 {object} application.Chunk
// @Failure 404 {object} streamErrorFrame
// @Router /public/events/{id}/summary [get]
func (h *SummaryHandler) Stream(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	// キャッシュ状態は生成前に確定させる
	hit, err := h.summaryService.GetCacheStatus(ctx, id)
	if err != nil {
		return writeStreamError(c, err)
	}
	stream, err := h.streamer.Stream(ctx, id)
	if err != nil {
		return writeStreamError(c, err)
	}

	res := c.Response()
	setStreamHeaders(res)
	res.Header().Set(api.HeaderSummaryCache, cacheHeaderValue(hit))
	res.WriteHeader(http.StatusOK)
	res.Flush()

	for {
		chunk, err := stream.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			// クライアント切断。要約は確定済みなので後始末は不要
			logger.Debug("要約ストリーミング中断", zap.String("event_id", id), zap.Error(err))
			return nil
		}
		if err := writeFrame(res, chunk); err != nil {
			logger.Debug("要約ストリーミング書き込み失敗", zap.String("event_id", id), zap.Error(err))
			return nil
		}
	}
}

// Invalidate godoc
// @Summary 要約キャッシュを削除
// @Description 指定イベントの要約キャッシュを削除します（存在しなくても成功）
// @Tags events
// @Security BearerAuth
// @Param id path string true "イベントID"
// @Success 204
// @Router /events/{id}/summary [delete]
func (h *SummaryHandler) Invalidate(c echo.Context) error {
	if err := h.summaryService.InvalidateCache(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func cacheHeaderValue(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

func setStreamHeaders(res *echo.Response) {
	res.Header().Set(echo.HeaderContentType, mimeEventStream)
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
}

// writeStreamError はストリーム開始前の失敗を1フレームのエラーとして返す
func writeStreamError(c echo.Context, err error) error {
	status, _ := api.MapError(err)
	if status >= http.StatusInternalServerError {
		logger.Error("要約の生成に失敗", zap.String("event_id", c.Param("id")), zap.Error(err))
	}

	res := c.Response()
	setStreamHeaders(res)
	res.WriteHeader(status)
	return writeFrame(res, streamErrorFrame{Error: api.MessageSummary})
}

func writeFrame(res *echo.Response, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(res, "data: %s\n\n", data); err != nil {
		return err
	}
	res.Flush()
	return nil
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/go-event-summary-service/internal/domain/summary"
)

// SummaryCache は要約キャッシュを Redis に保存する
// 複数プロセスで同じキャッシュを共有できる。TTL は設定しない
type SummaryCache struct {
	client *redis.Client
	prefix string
}

// NewSummaryCache は新しいSummaryCacheインスタンスを作成する
func NewSummaryCache(client *redis.Client) *SummaryCache {
	return &SummaryCache{client: client, prefix: "summary:"}
}

// Get はイベントの要約をキャッシュから取得する
func (c *SummaryCache) Get(ctx context.Context, eventID string) (*summary.CachedSummary, error) {
	data, err := c.client.Get(ctx, c.key(eventID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, summary.ErrCacheMiss
		}
		return nil, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}

	var entry summary.CachedSummary
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("キャッシュの復元に失敗: %w", err)
	}
	return &entry, nil
}

// Set はイベントの要約をキャッシュに保存する
func (c *SummaryCache) Set(ctx context.Context, eventID string, entry summary.CachedSummary) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("キャッシュのエンコードに失敗: %w", err)
	}
	if err := c.client.Set(ctx, c.key(eventID), data, 0).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate はイベントのキャッシュを無効化する
func (c *SummaryCache) Invalidate(ctx context.Context, eventID string) error {
	if err := c.client.Del(ctx, c.key(eventID)).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *SummaryCache) key(eventID string) string {
	return c.prefix + eventID
}

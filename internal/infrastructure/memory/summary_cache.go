package memory

import (
	"context"
	"sync"

	"github.com/sanosuguru/go-event-summary-service/internal/domain/summary"
)

var ErrCacheMiss = summary.ErrCacheMiss

// SummaryCache はイベントIDごとの要約キャッシュを管理する
// TTL や追い出しは行わない（明示的な無効化でのみ削除される）
type SummaryCache struct {
	mu      sync.RWMutex
	entries map[string]summary.CachedSummary
}

// NewSummaryCache は新しいSummaryCacheインスタンスを作成する
func NewSummaryCache() *SummaryCache {
	return &SummaryCache{entries: make(map[string]summary.CachedSummary)}
}

// Get はイベントの要約をキャッシュから取得する
func (c *SummaryCache) Get(ctx context.Context, eventID string) (*summary.CachedSummary, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[eventID]
	if !ok {
		return nil, ErrCacheMiss
	}
	return &entry, nil
}

// Set はイベントの要約をキャッシュに保存する（既存のエントリは置き換え）
func (c *SummaryCache) Set(ctx context.Context, eventID string, entry summary.CachedSummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[eventID] = entry
	return nil
}

// Invalidate はイベントのキャッシュを無効化する
// エントリが存在しなくてもエラーにしない
func (c *SummaryCache) Invalidate(ctx context.Context, eventID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, eventID)
	return nil
}

// Len はキャッシュ件数を返す
func (c *SummaryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

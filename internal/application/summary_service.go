package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-summary-service/internal/domain/event"
	"github.com/sanosuguru/go-event-summary-service/internal/domain/summary"
	"github.com/sanosuguru/go-event-summary-service/internal/infrastructure/memory"
	"github.com/sanosuguru/go-event-summary-service/internal/pkg/logger"
	"github.com/sanosuguru/go-event-summary-service/internal/pkg/metrics"
)

// EventLookup は要約対象のイベントを取得するインターフェース
type EventLookup interface {
	GetEvent(ctx context.Context, id string) (*event.Event, error)
}

// SummaryCacheStore は要約キャッシュの保存先
type SummaryCacheStore interface {
	Get(ctx context.Context, eventID string) (*summary.CachedSummary, error)
	Set(ctx context.Context, eventID string, entry summary.CachedSummary) error
	Invalidate(ctx context.Context, eventID string) error
}

// SummaryResult は要約とキャッシュヒット有無
type SummaryResult struct {
	Summary  string
	CacheHit bool
}

type SummaryService struct {
	events      EventLookup
	cache       SummaryCacheStore
	generator   *summary.Generator
	lockManager *memory.LockManager
	metrics     *metrics.Metrics
	now         func() time.Time
}

func NewSummaryService(events EventLookup, cache SummaryCacheStore, generator *summary.Generator, lm *memory.LockManager, m *metrics.Metrics) *SummaryService {
	if generator == nil {
		generator = summary.NewGenerator(time.UTC)
	}
	return &SummaryService{
		events:      events,
		cache:       cache,
		generator:   generator,
		lockManager: lm,
		metrics:     m,
		now:         time.Now,
	}
}

// GetSummary はキャッシュが有効ならそれを返し、無効なら再生成して保存する
// 同じイベントに対するハッシュ比較と書き込みはロックで直列化する
func (s *SummaryService) GetSummary(ctx context.Context, eventID string) (*SummaryResult, error) {
	e, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	lock, err := s.lockManager.AcquireLock(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("ロック取得に失敗: %w", err)
	}
	defer lock.Release()

	hash := summary.ContentHash(e)
	cached, err := s.lookup(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if cached.Matches(hash) {
		s.metrics.ObserveCache("summary", true)
		logger.Debug("要約キャッシュHIT", zap.String("event_id", eventID))
		return &SummaryResult{Summary: cached.Summary, CacheHit: true}, nil
	}

	text := s.generator.Generate(e)
	entry := summary.CachedSummary{Summary: text, ContentHash: hash, CachedAt: s.now()}
	if err := s.cache.Set(ctx, eventID, entry); err != nil {
		return nil, fmt.Errorf("要約キャッシュの保存に失敗: %w", err)
	}

	s.metrics.ObserveCache("summary", false)
	logger.Debug("要約キャッシュMISS", zap.String("event_id", eventID), zap.Bool("stale", cached != nil))
	return &SummaryResult{Summary: text, CacheHit: false}, nil
}

// GetCacheStatus は現在のキャッシュが有効かを返す（生成もキャッシュ更新もしない）
func (s *SummaryService) GetCacheStatus(ctx context.Context, eventID string) (bool, error) {
	e, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return false, err
	}

	cached, err := s.lookup(ctx, eventID)
	if err != nil {
		return false, err
	}
	hit := cached.Matches(summary.ContentHash(e))
	s.metrics.ObserveCache("status", hit)
	return hit, nil
}

// InvalidateCache はキャッシュを削除する（存在しなくてもエラーにしない）
func (s *SummaryService) InvalidateCache(ctx context.Context, eventID string) error {
	lock, err := s.lockManager.AcquireLock(ctx, eventID)
	if err != nil {
		return fmt.Errorf("ロック取得に失敗: %w", err)
	}
	defer lock.Release()

	if err := s.cache.Invalidate(ctx, eventID); err != nil {
		return fmt.Errorf("要約キャッシュの削除に失敗: %w", err)
	}
	logger.Debug("要約キャッシュ削除", zap.String("event_id", eventID))
	return nil
}

// lookup はキャッシュを取得する（ミスは nil を返す）
func (s *SummaryService) lookup(ctx context.Context, eventID string) (*summary.CachedSummary, error) {
	cached, err := s.cache.Get(ctx, eventID)
	if errors.Is(err, summary.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("要約キャッシュの取得に失敗: %w", err)
	}
	return cached, nil
}

package application

import (
	"context"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/sanosuguru/go-event-summary-service/internal/pkg/metrics"
)

const (
	minWordsPerChunk = 2
	maxWordsPerChunk = 5

	DefaultChunkDelayMin = 50 * time.Millisecond
	DefaultChunkDelayMax = 100 * time.Millisecond
)

// Chunk はストリーミングされる要約の断片
type Chunk struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// SummaryProvider は要約を取得するインターフェース
type SummaryProvider interface {
	GetSummary(ctx context.Context, eventID string) (*SummaryResult, error)
}

// Sleeper は ctx がキャンセルされるまで最大 d 待つ
type Sleeper func(ctx context.Context, d time.Duration) error

type SummaryStreamer struct {
	summaries SummaryProvider
	delayMin  time.Duration
	delayMax  time.Duration
	newRand   func() *rand.Rand
	sleep     Sleeper
	metrics   *metrics.Metrics
}

type StreamerOption func(*SummaryStreamer)

// WithChunkDelay はチャンク間の待ち時間の範囲を設定する
func WithChunkDelay(minDelay, maxDelay time.Duration) StreamerOption {
	return func(s *SummaryStreamer) {
		if maxDelay < minDelay {
			maxDelay = minDelay
		}
		s.delayMin, s.delayMax = minDelay, maxDelay
	}
}

// WithRand はストリームごとの乱数生成器を差し替える
func WithRand(newRand func() *rand.Rand) StreamerOption {
	return func(s *SummaryStreamer) { s.newRand = newRand }
}

// WithSleeper は待ち処理を差し替える
func WithSleeper(sleep Sleeper) StreamerOption {
	return func(s *SummaryStreamer) { s.sleep = sleep }
}

// WithStreamMetrics は送出チャンク数を記録する
func WithStreamMetrics(m *metrics.Metrics) StreamerOption {
	return func(s *SummaryStreamer) { s.metrics = m }
}

func NewSummaryStreamer(summaries SummaryProvider, opts ...StreamerOption) *SummaryStreamer {
	s := &SummaryStreamer{
		summaries: summaries,
		delayMin:  DefaultChunkDelayMin,
		delayMax:  DefaultChunkDelayMax,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
		sleep: sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stream は要約を取得（必要なら生成）し、チャンクを順に返すストリームを作成する
// 要約はストリーム開始前に確定しているので、途中で読むのをやめても状態は変わらない
func (s *SummaryStreamer) Stream(ctx context.Context, eventID string) (*SummaryStream, error) {
	result, err := s.summaries.GetSummary(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return &SummaryStream{
		words:    strings.Split(result.Summary, " "),
		cacheHit: result.CacheHit,
		rng:      s.newRand(),
		delayMin: s.delayMin,
		delayMax: s.delayMax,
		sleep:    s.sleep,
		metrics:  s.metrics,
	}, nil
}

// SummaryStream は要約を2〜5語ずつ返すイテレータ（並行利用は不可）
// 全チャンクを順に連結すると元の要約と一致し、最後のチャンクだけ Done が true になる
type SummaryStream struct {
	words    []string
	pos      int
	cacheHit bool

	// 直前に Done でないチャンクを返した
	pending  bool
	finished bool

	rng      *rand.Rand
	delayMin time.Duration
	delayMax time.Duration
	sleep    Sleeper
	metrics  *metrics.Metrics
}

// Next は次のチャンクを返す。最後のチャンクの後は io.EOF を返す
// 2つ目以降のチャンクは返す前にランダムな時間だけ待つ
func (s *SummaryStream) Next(ctx context.Context) (Chunk, error) {
	if s.finished {
		return Chunk{}, io.EOF
	}
	if s.pending {
		if err := s.sleep(ctx, s.nextDelay()); err != nil {
			return Chunk{}, err
		}
		s.pending = false
	}

	n := minWordsPerChunk + s.rng.IntN(maxWordsPerChunk-minWordsPerChunk+1)
	end := min(s.pos+n, len(s.words))

	text := strings.Join(s.words[s.pos:end], " ")
	done := end == len(s.words)
	if !done {
		text += " "
	}
	s.pos = end
	s.finished = done
	s.pending = !done

	s.metrics.AddChunks(1)
	return Chunk{Text: text, Done: done}, nil
}

// CacheHit は要約がキャッシュから返されたかを返す
func (s *SummaryStream) CacheHit() bool {
	return s.cacheHit
}

func (s *SummaryStream) nextDelay() time.Duration {
	if s.delayMax <= s.delayMin {
		return s.delayMin
	}
	return s.delayMin + time.Duration(s.rng.Int64N(int64(s.delayMax-s.delayMin)+1))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

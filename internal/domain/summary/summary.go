package summary

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"github.com/sanosuguru/go-event-summary-service/internal/domain/event"
)

// DefaultVenue は会場未設定時に使う表記
const DefaultVenue = "our venue"

// ErrCacheMiss はキャッシュにエントリがないことを表す
var ErrCacheMiss = errors.New("キャッシュが見つかりません")

// CachedSummary はイベントごとにキャッシュされる要約
type CachedSummary struct {
	Summary     string    `json:"summary"`
	ContentHash string    `json:"contentHash"`
	CachedAt    time.Time `json:"cachedAt"`
}

// Matches はキャッシュが hash の内容に対して有効かを返す
func (c *CachedSummary) Matches(hash string) bool {
	return c != nil && c.ContentHash == hash
}

// ContentHash は要約に影響する項目（title, location, startAt, endAt）のハッシュを返す
// status, internalNotes, createdBy は含めない
func ContentHash(e *event.Event) string {
	data := strings.Join([]string{
		e.Title,
		e.Location,
		e.StartAt.UTC().Format(time.RFC3339Nano),
		e.EndAt.UTC().Format(time.RFC3339Nano),
	}, "|")
	sum := blake3.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

type templateFunc func(v templateVars) string

type templateVars struct {
	title    string
	date     string
	time     string
	duration int
	location string
}

var templates = []templateFunc{
	func(v templateVars) string {
		return fmt.Sprintf("Join us for \"%s\" happening on %s at %s in %s. ", v.title, v.date, v.time, v.location) +
			fmt.Sprintf("This exciting %d-hour event promises an unforgettable experience. ", v.duration) +
			"Don't miss out on this incredible opportunity to be part of something special. " +
			"Reserve your spot today and be part of the action!"
	},
	func(v templateVars) string {
		return fmt.Sprintf("Experience \"%s\" - an extraordinary event taking place on %s at %s. ", v.title, v.date, v.location) +
			fmt.Sprintf("Starting at %s, this %d-hour gathering will bring together amazing people and experiences. ", v.time, v.duration) +
			"Mark your calendar and join us for what promises to be an outstanding occasion. " +
			"Limited availability - secure your place now!"
	},
	func(v templateVars) string {
		return fmt.Sprintf("Discover \"%s\" on %s at %s. Located at %s, ", v.title, v.date, v.time, v.location) +
			fmt.Sprintf("this %d-hour event offers a unique opportunity to engage and connect. ", v.duration) +
			"Whether you're a first-timer or a regular attendee, there's something special waiting for you. " +
			"Don't wait - get your tickets before they're gone!"
	},
}

// Generator はテンプレートから要約文を生成する
type Generator struct {
	loc *time.Location
}

// NewGenerator は日時を loc で表示する Generator を作成する（nil は UTC）
func NewGenerator(loc *time.Location) *Generator {
	if loc == nil {
		loc = time.UTC
	}
	return &Generator{loc: loc}
}

// Generate は要約文を生成する
// 同じ内容のイベントからは常に同一の文字列を返す
func (g *Generator) Generate(e *event.Event) string {
	start := e.StartAt.In(g.loc)
	location := e.Location
	if strings.TrimSpace(location) == "" {
		location = DefaultVenue
	}
	vars := templateVars{
		title:    e.Title,
		date:     start.Format("Monday, January 2, 2006"),
		time:     start.Format("03:04 PM"),
		duration: DurationHours(e.StartAt, e.EndAt),
		location: location,
	}
	return templates[TemplateIndex(e.Title)](vars)
}

// TemplateIndex はタイトルのハッシュからテンプレート番号を決める
func TemplateIndex(title string) int {
	sum := blake3.Sum256([]byte(title))
	return int(binary.BigEndian.Uint32(sum[:4]) % uint32(len(templates)))
}

// DurationHours は開催時間を時間単位で切り上げて返す
func DurationHours(startAt, endAt time.Time) int {
	return int(math.Ceil(endAt.Sub(startAt).Hours()))
}

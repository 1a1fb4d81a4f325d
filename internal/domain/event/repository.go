package event

import (
	"context"
	"time"
)

// Visibility は一覧取得時の可視範囲
type Visibility int

const (
	// VisibilityAdmin は全状態を対象にする
	VisibilityAdmin Visibility = iota
	// VisibilityPublic は PUBLISHED と CANCELLED のみを対象にする
	VisibilityPublic
)

// Filter は一覧取得の絞り込み条件
type Filter struct {
	Statuses  []Status   // 空なら絞り込みなし
	Locations []string   // 部分一致（大文字小文字を区別しない）、空なら絞り込みなし
	DateFrom  *time.Time // その日の 00:00:00.000 以降
	DateTo    *time.Time // その日の 23:59:59.999 以前
}

// Repository はイベントストアのインターフェース
type Repository interface {
	// Put はイベントを保存する（既存IDは置き換え）
	Put(ctx context.Context, e *Event) error

	// GetByID はIDからイベントを取得する
	GetByID(ctx context.Context, id string) (*Event, error)

	// Query は条件に合うイベントを開始日時順に取得し、ページング前の総件数を返す
	Query(ctx context.Context, filter Filter, visibility Visibility, page, limit int) ([]*Event, int, error)

	// CountByStatus は状態ごとの件数を返す
	CountByStatus(ctx context.Context) (map[Status]int, error)

	// Clear は全イベントを削除する
	Clear(ctx context.Context) error
}

package memory

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrLockNotOwned = errors.New("ロックの所有者ではありません")
)

// KeyLock はキー単位の排他ロック
type KeyLock struct {
	manager  *LockManager
	key      string
	entry    *lockEntry
	released bool
	mu       sync.Mutex
}

type lockEntry struct {
	sem  chan struct{}
	refs int
}

// LockManager はプロセス内のキー単位ロックを管理する
// 使われなくなったキーのエントリは解放時に削除される
type LockManager struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

func NewLockManager() *LockManager {
	return &LockManager{locks: make(map[string]*lockEntry)}
}

// AcquireLock はロックを取得する（取得できるまで待つ）
func (m *LockManager) AcquireLock(ctx context.Context, key string) (*KeyLock, error) {
	m.mu.Lock()
	entry, ok := m.locks[key]
	if !ok {
		entry = &lockEntry{sem: make(chan struct{}, 1)}
		m.locks[key] = entry
	}
	entry.refs++
	m.mu.Unlock()

	select {
	case entry.sem <- struct{}{}:
		return &KeyLock{manager: m, key: key, entry: entry}, nil
	case <-ctx.Done():
		m.unref(key, entry)
		return nil, ctx.Err()
	}
}

// Release はロックを解放する
func (l *KeyLock) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.released {
		return ErrLockNotOwned
	}
	l.released = true
	<-l.entry.sem
	l.manager.unref(l.key, l.entry)
	return nil
}

func (m *LockManager) unref(key string, entry *lockEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry.refs--
	if entry.refs == 0 && m.locks[key] == entry {
		delete(m.locks, key)
	}
}

// size は管理中のキー数を返す（テスト用）
func (m *LockManager) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

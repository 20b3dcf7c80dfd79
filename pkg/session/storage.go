package session

import (
	"context"
	"net/http"
	"sync"
)

// Storage はクライアント側の永続キーバリューストレージを表す。
// ブラウザのlocalStorageと同じ操作を提供する。
type Storage interface {
	// GetItem はkeyに対応する値を返す。存在しない場合はokがfalseになる。
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	// SetItem はkeyに値を保存する。既存の値は上書きする。
	SetItem(ctx context.Context, key, value string) error
	// RemoveItem はkeyを削除する。存在しない場合も成功とする。
	RemoveItem(ctx context.Context, key string) error
}

// Resolver はHTTPリクエストごとに訪問者のStorageを解決する。
type Resolver interface {
	Resolve(w http.ResponseWriter, r *http.Request) (Storage, error)
}

// MemoryStorage はプロセス内のマップに値を保持するStorage。
// 複数のgoroutineから同時に使用できる。
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

var _ Storage = (*MemoryStorage)(nil)

// NewMemoryStorage は空のMemoryStorageを生成する。
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

// GetItem はkeyに対応する値を返す。
func (m *MemoryStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

// SetItem はkeyに値を保存する。
func (m *MemoryStorage) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

// RemoveItem はkeyを削除する。
func (m *MemoryStorage) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

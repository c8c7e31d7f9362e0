// Package kv implementa el puerto KeyValueStorage (memoria y Redis) y el formato
// versionado con que se guardan los blobs JSON.
package kv

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/ops-dashboard-api/internal/domain/repository"
)

var _ repository.KeyValueStorage = (*MemoryStorage)(nil)

// MemoryStorage almacenamiento en proceso; el TTL se evalúa al leer.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	now   func() time.Time
}

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

func (it memoryItem) expired(now time.Time) bool {
	return !it.expiresAt.IsZero() && !now.Before(it.expiresAt)
}

// NewMemoryStorage crea un almacenamiento vacío.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]memoryItem), now: time.Now}
}

func (m *MemoryStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	it, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if it.expired(m.now()) {
		// Un Set pudo reemplazar la clave entre ambos candados: se vuelve a leer.
		m.mu.Lock()
		it, ok = m.items[key]
		if ok && it.expired(m.now()) {
			delete(m.items, key)
			ok = false
		}
		m.mu.Unlock()
		if !ok {
			return nil, nil
		}
	}
	out := make([]byte, len(it.value))
	copy(out, it.value)
	return out, nil
}

func (m *MemoryStorage) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	it := memoryItem{value: make([]byte, len(value))}
	copy(it.value, value)
	if ttl > 0 {
		it.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.items[key] = it
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return nil
}

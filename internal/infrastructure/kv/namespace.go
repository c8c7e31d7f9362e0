package kv

import (
	"context"
	"time"

	"github.com/jhoicas/ops-dashboard-api/internal/domain/repository"
)

// Namespaced antepone prefix a todas las claves.
type Namespaced struct {
	inner  repository.KeyValueStorage
	prefix string
}

// WithPrefix envuelve s para que sus claves queden bajo prefix.
func WithPrefix(s repository.KeyValueStorage, prefix string) *Namespaced {
	return &Namespaced{inner: s, prefix: prefix}
}

func (n *Namespaced) Get(ctx context.Context, key string) ([]byte, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *Namespaced) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return n.inner.Set(ctx, n.prefix+key, value, ttl)
}

func (n *Namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.prefix+key)
}

package repository

import (
	"context"
	"time"
)

// KeyValueStorage almacenamiento durable clave → bytes (sesiones, notificaciones).
// Get devuelve (nil, nil) si la clave no existe.
type KeyValueStorage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Set guarda value; ttl 0 = sin vencimiento.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/ops-dashboard-api/internal/domain/repository"
	"github.com/jhoicas/ops-dashboard-api/pkg/logger"
)

// envelope formato persistido: {"version":N,"data":...}.
type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// BlobCodec guarda y lee valores JSON con versión de esquema. Un blob ilegible o de
// otra versión se descarta (se borra la clave) y se informa como ausente.
type BlobCodec struct {
	storage repository.KeyValueStorage
	version int
	log     *logger.Logger
}

// NewBlobCodec construye el codec para la versión de esquema version.
func NewBlobCodec(storage repository.KeyValueStorage, version int, log *logger.Logger) *BlobCodec {
	if log == nil {
		log = logger.Nop()
	}
	return &BlobCodec{storage: storage, version: version, log: log}
}

// Save serializa v bajo key.
func (c *BlobCodec) Save(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("serializar %s: %w", key, err)
	}
	b, err := json.Marshal(envelope{Version: c.version, Data: data})
	if err != nil {
		return fmt.Errorf("serializar %s: %w", key, err)
	}
	return c.storage.Set(ctx, key, b, ttl)
}

// Load deserializa key en out. found=false si la clave no existe o fue descartada.
func (c *BlobCodec) Load(ctx context.Context, key string, out any) (bool, error) {
	raw, err := c.storage.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || len(env.Data) == 0 {
		return false, c.reset(ctx, key, "blob ilegible")
	}
	if env.Version != c.version {
		c.log.Warn().Str("key", key).Int("found", env.Version).Int("expected", c.version).Msg("versión de blob distinta")
		return false, c.reset(ctx, key, "versión distinta")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return false, c.reset(ctx, key, "datos ilegibles")
	}
	return true, nil
}

// Delete borra key.
func (c *BlobCodec) Delete(ctx context.Context, key string) error {
	return c.storage.Delete(ctx, key)
}

func (c *BlobCodec) reset(ctx context.Context, key, reason string) error {
	c.log.Warn().Str("key", key).Str("reason", reason).Msg("descartando blob persistido")
	return c.storage.Delete(ctx, key)
}

// Package notification mantiene las alertas de la campana: en memoria, persistidas
// como un único blob y difundidas a los suscriptores en cada cambio. Cada empresa ve
// y modifica sólo sus propias alertas.
package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ops-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/repository"
	"github.com/jhoicas/ops-dashboard-api/internal/infrastructure/kv"
	"github.com/jhoicas/ops-dashboard-api/internal/infrastructure/pubsub"
	"github.com/jhoicas/ops-dashboard-api/pkg/logger"
)

// StorageKey clave bajo la que se persiste la lista.
const StorageKey = "app_notifications"

const blobVersion = 1

// Listener recibe la lista completa de la empresa tras cada cambio (más reciente primero).
type Listener func(ctx context.Context, list []entity.Notification)

// Store lista de notificaciones. Seguro para uso concurrente.
type Store struct {
	mu     sync.Mutex
	items  []entity.Notification
	blobs  *kv.BlobCodec
	events *pubsub.Dispatcher[[]entity.Notification]
	log    *logger.Logger

	now   func() time.Time
	newID func() string
}

// NewStore carga la lista persistida (vacía si no existe o no es legible).
func NewStore(ctx context.Context, storage repository.KeyValueStorage, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("notifications")
	s := &Store{
		blobs:  kv.NewBlobCodec(storage, blobVersion, log),
		events: pubsub.New[[]entity.Notification](log, 0),
		log:    log,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	if _, err := s.blobs.Load(ctx, StorageKey, &s.items); err != nil {
		return nil, fmt.Errorf("cargar notificaciones: %w", err)
	}
	return s, nil
}

// Subscribe registra listener para las alertas de companyID; la función devuelta
// lo desregistra.
func (s *Store) Subscribe(companyID int64, listener Listener) func() {
	return s.events.Subscribe(topicFor(companyID), func(ctx context.Context, list []entity.Notification) {
		listener(ctx, cloneList(list))
	})
}

// List devuelve una copia de las alertas de companyID, más reciente primero.
func (s *Store) List(companyID int64) []entity.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ofCompany(s.items, companyID)
}

// UnreadCount cantidad de alertas no leídas de companyID.
func (s *Store) UnreadCount(companyID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.items {
		if it.CompanyID == companyID && !it.Read {
			n++
		}
	}
	return n
}

// Add completa id, timestamp y read=false y la agrega al inicio. Si n.Key no es vacía y
// la empresa ya tiene una notificación con esa clave, devuelve la existente sin modificar nada.
func (s *Store) Add(ctx context.Context, n entity.Notification) (entity.Notification, error) {
	var out entity.Notification
	err := s.mutate(ctx, n.CompanyID, func(items []entity.Notification) ([]entity.Notification, bool) {
		if n.Key != "" {
			for _, it := range items {
				if it.CompanyID == n.CompanyID && it.Key == n.Key {
					out = it
					return items, false
				}
			}
		}
		n.ID = s.newID()
		n.Timestamp = s.now().UTC()
		n.Read = false
		if n.Severity == "" {
			n.Severity = entity.SeverityInfo
		}
		out = n
		return append([]entity.Notification{n}, items...), true
	})
	return out, err
}

// Remove elimina la notificación id de companyID (sin efecto si no existe).
func (s *Store) Remove(ctx context.Context, companyID int64, id string) error {
	return s.mutate(ctx, companyID, func(items []entity.Notification) ([]entity.Notification, bool) {
		for i, it := range items {
			if it.ID == id && it.CompanyID == companyID {
				return append(items[:i:i], items[i+1:]...), true
			}
		}
		return items, false
	})
}

// Clear elimina todas las notificaciones de companyID.
func (s *Store) Clear(ctx context.Context, companyID int64) error {
	return s.mutate(ctx, companyID, func(items []entity.Notification) ([]entity.Notification, bool) {
		next := make([]entity.Notification, 0, len(items))
		for _, it := range items {
			if it.CompanyID != companyID {
				next = append(next, it)
			}
		}
		return next, len(next) != len(items)
	})
}

// MarkAsRead marca id de companyID como leída (sin efecto si no existe).
func (s *Store) MarkAsRead(ctx context.Context, companyID int64, id string) error {
	return s.mutate(ctx, companyID, func(items []entity.Notification) ([]entity.Notification, bool) {
		for i := range items {
			if items[i].ID == id && items[i].CompanyID == companyID {
				next := cloneList(items)
				next[i].Read = true
				return next, true
			}
		}
		return items, false
	})
}

// MarkAllAsRead marca como leídas todas las de companyID.
func (s *Store) MarkAllAsRead(ctx context.Context, companyID int64) error {
	return s.mutate(ctx, companyID, func(items []entity.Notification) ([]entity.Notification, bool) {
		next := cloneList(items)
		changed := false
		for i := range next {
			if next[i].CompanyID == companyID && !next[i].Read {
				next[i].Read = true
				changed = true
			}
		}
		return next, changed
	})
}

// mutate aplica fn; si cambió algo, persiste y luego difunde la lista de companyID.
// fn sólo debe tocar alertas de companyID. Si persistir falla la lista en memoria no cambia.
func (s *Store) mutate(ctx context.Context, companyID int64, fn func(items []entity.Notification) ([]entity.Notification, bool)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.events.Do(ctx, func(emit pubsub.EmitFunc[[]entity.Notification]) error {
		s.mu.Lock()
		next, changed := fn(s.items)
		if !changed {
			s.mu.Unlock()
			return nil
		}
		if err := s.blobs.Save(ctx, StorageKey, next, 0); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("persistir notificaciones: %w", err)
		}
		s.items = next
		snapshot := ofCompany(next, companyID)
		s.mu.Unlock()

		emit(topicFor(companyID), snapshot)
		return nil
	})
}

func topicFor(companyID int64) string {
	return fmt.Sprintf("company:%d", companyID)
}

func ofCompany(in []entity.Notification, companyID int64) []entity.Notification {
	out := make([]entity.Notification, 0, len(in))
	for _, it := range in {
		if it.CompanyID == companyID {
			out = append(out, it)
		}
	}
	return cloneList(out)
}

func cloneList(in []entity.Notification) []entity.Notification {
	out := make([]entity.Notification, len(in))
	copy(out, in)
	for i := range out {
		if out[i].ProductID != nil {
			id := *out[i].ProductID
			out[i].ProductID = &id
		}
	}
	return out
}

// Package memdb implementa el almacén documental en memoria con notificación de cambios.
package memdb

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/jhoicas/ops-dashboard-api/internal/domain"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/repository"
	"github.com/jhoicas/ops-dashboard-api/internal/infrastructure/pubsub"
	"github.com/jhoicas/ops-dashboard-api/pkg/logger"
)

var _ repository.Database = (*Store)(nil)

// Store colecciones de registros en orden de inserción. Seguro para uso concurrente.
type Store struct {
	mu          sync.RWMutex
	collections map[string][]repository.Record
	unique      map[string][]string

	events *pubsub.Dispatcher[repository.ChangeEvent]
	log    *logger.Logger
}

// Option configura el Store.
type Option func(*options)

type options struct {
	maxCascade int
	unique     map[string][]string
}

// WithMaxCascade fija cuántas mutaciones anidadas (desde listeners) admite un ciclo.
func WithMaxCascade(n int) Option {
	return func(o *options) { o.maxCascade = n }
}

// WithUniqueField exige que field no se repita dentro de collection.
// users.email viene activado siempre.
func WithUniqueField(collection, field string) Option {
	return func(o *options) { o.unique[collection] = append(o.unique[collection], field) }
}

// New crea un almacén vacío.
func New(log *logger.Logger, opts ...Option) *Store {
	o := options{
		maxCascade: pubsub.DefaultMaxCascade,
		unique:     map[string][]string{CollectionUsers: {"email"}},
	}
	for _, fn := range opts {
		fn(&o)
	}
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("memdb")
	return &Store{
		collections: make(map[string][]repository.Record),
		unique:      o.unique,
		events:      pubsub.New[repository.ChangeEvent](log, o.maxCascade),
		log:         log,
	}
}

// Find devuelve copias de los registros que cumplen criteria (vacío = todos).
func (s *Store) Find(ctx context.Context, collection string, criteria repository.Criteria) ([]repository.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	crit, err := normalizeCriteria(criteria)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]repository.Record, 0)
	for _, rec := range s.collections[collection] {
		if matches(rec, crit) {
			out = append(out, cloneRecord(rec))
		}
	}
	return out, nil
}

// FindOne devuelve la primera coincidencia en orden de inserción o nil.
func (s *Store) FindOne(ctx context.Context, collection string, criteria repository.Criteria) (repository.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	crit, err := normalizeCriteria(criteria)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.collections[collection] {
		if matches(rec, crit) {
			return cloneRecord(rec), nil
		}
	}
	return nil, nil
}

// Insert asigna id = max(id)+1 (1 si la colección está vacía), guarda y emite "insert".
// Un "id" presente en doc se ignora. Un campo único repetido devuelve domain.ErrConflict.
func (s *Store) Insert(ctx context.Context, collection string, doc repository.Record) (repository.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec, err := normalize(doc)
	if err != nil {
		return nil, err
	}

	var out repository.Record
	err = s.events.Do(ctx, func(emit pubsub.EmitFunc[repository.ChangeEvent]) error {
		s.mu.Lock()
		if err := s.checkUnique(collection, rec, -1); err != nil {
			s.mu.Unlock()
			return err
		}
		id := s.nextID(collection)
		rec["id"] = float64(id)
		s.collections[collection] = append(s.collections[collection], rec)
		out = cloneRecord(rec)
		s.mu.Unlock()

		s.log.Debug().Str("collection", collection).Int64("id", id).Msg("insert")
		emit(collection, repository.ChangeEvent{Action: repository.ActionInsert, Collection: collection, Document: out})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cloneRecord(out), nil
}

// Update mezcla patch sobre el registro id. nil (sin evento) si no existe.
func (s *Store) Update(ctx context.Context, collection string, id int64, patch repository.Record) (repository.Record, error) {
	return s.UpdateFunc(ctx, collection, id, func(repository.Record) (repository.Record, error) {
		return patch, nil
	})
}

// UpdateFunc aplica fn bajo el candado de escritura. fn no debe llamar al Store.
func (s *Store) UpdateFunc(ctx context.Context, collection string, id int64, fn func(current repository.Record) (repository.Record, error)) (repository.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out repository.Record
	err := s.events.Do(ctx, func(emit pubsub.EmitFunc[repository.ChangeEvent]) error {
		s.mu.Lock()
		idx := s.indexOf(collection, id)
		if idx < 0 {
			s.mu.Unlock()
			return nil
		}
		current := s.collections[collection][idx]
		patch, err := fn(cloneRecord(current))
		if err != nil {
			s.mu.Unlock()
			return err
		}
		norm, err := normalize(patch)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		merged := cloneRecord(current)
		for k, v := range norm {
			merged[k] = v
		}
		merged["id"] = float64(id)
		if err := s.checkUnique(collection, merged, idx); err != nil {
			s.mu.Unlock()
			return err
		}
		s.collections[collection][idx] = merged
		out = cloneRecord(merged)
		s.mu.Unlock()

		s.log.Debug().Str("collection", collection).Int64("id", id).Msg("update")
		emit(collection, repository.ChangeEvent{Action: repository.ActionUpdate, Collection: collection, Document: out})
		return nil
	})
	if err != nil || out == nil {
		return nil, err
	}
	return cloneRecord(out), nil
}

// Delete elimina el registro id. Emite "delete" con el registro previo sólo si existía.
func (s *Store) Delete(ctx context.Context, collection string, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	deleted := false
	err := s.events.Do(ctx, func(emit pubsub.EmitFunc[repository.ChangeEvent]) error {
		s.mu.Lock()
		idx := s.indexOf(collection, id)
		if idx < 0 {
			s.mu.Unlock()
			return nil
		}
		recs := s.collections[collection]
		prev := recs[idx]
		s.collections[collection] = append(recs[:idx:idx], recs[idx+1:]...)
		s.mu.Unlock()

		deleted = true
		s.log.Debug().Str("collection", collection).Int64("id", id).Msg("delete")
		emit(collection, repository.ChangeEvent{Action: repository.ActionDelete, Collection: collection, Document: prev})
		return nil
	})
	return deleted, err
}

// Subscribe registra listener para collection. Cada listener recibe su propia copia del documento.
func (s *Store) Subscribe(collection string, listener repository.ChangeListener) func() {
	return s.events.Subscribe(collection, func(ctx context.Context, ev repository.ChangeEvent) {
		ev.Document = cloneRecord(ev.Document)
		listener(ctx, ev)
	})
}

// Collections nombres de las colecciones existentes.
func (s *Store) Collections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.collections))
	for name := range s.collections {
		out = append(out, name)
	}
	return out
}

// nextID requiere s.mu tomado.
func (s *Store) nextID(collection string) int64 {
	var max int64
	for _, rec := range s.collections[collection] {
		if id := RecordID(rec); id > max {
			max = id
		}
	}
	return max + 1
}

// checkUnique requiere s.mu tomado. skip es el índice del propio registro (-1 al insertar).
func (s *Store) checkUnique(collection string, rec repository.Record, skip int) error {
	for _, field := range s.unique[collection] {
		want, ok := rec[field]
		if !ok || want == nil {
			continue
		}
		for i, other := range s.collections[collection] {
			if i != skip && reflect.DeepEqual(other[field], want) {
				return fmt.Errorf("%w: %s.%s repetido", domain.ErrConflict, collection, field)
			}
		}
	}
	return nil
}

// indexOf requiere s.mu tomado.
func (s *Store) indexOf(collection string, id int64) int {
	for i, rec := range s.collections[collection] {
		if RecordID(rec) == id {
			return i
		}
	}
	return -1
}

func normalizeCriteria(c repository.Criteria) (map[string]any, error) {
	if len(c) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(c))
	for k, v := range c {
		nv, err := normalizeValue(v)
		if err != nil {
			return nil, fmt.Errorf("criterio %q: %w", k, err)
		}
		out[k] = nv
	}
	return out, nil
}

package memdb

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/jhoicas/ops-dashboard-api/internal/domain/repository"
)

// normalize pasa v por JSON: copia profunda y números como float64.
func normalize(v any) (repository.Record, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("memdb: serializar documento: %w", err)
	}
	var rec repository.Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("memdb: el documento debe ser un objeto JSON: %w", err)
	}
	if rec == nil {
		rec = repository.Record{}
	}
	return rec, nil
}

func normalizeValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("memdb: serializar criterio: %w", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func cloneRecord(r repository.Record) repository.Record {
	if r == nil {
		return nil
	}
	out := make(repository.Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = cloneValue(vv)
		}
		return out
	case repository.Record:
		return cloneRecord(t)
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = cloneValue(vv)
		}
		return out
	default:
		return v
	}
}

// RecordID extrae el id numérico de un registro (0 si no tiene).
func RecordID(r repository.Record) int64 {
	if r == nil {
		return 0
	}
	switch id := r["id"].(type) {
	case float64:
		return int64(id)
	case int64:
		return id
	case int:
		return int64(id)
	}
	return 0
}

// Matches indica si rec cumple criteria con la misma semántica que Find.
func Matches(rec repository.Record, criteria repository.Criteria) bool {
	crit, err := normalizeCriteria(criteria)
	if err != nil {
		return false
	}
	return matches(rec, crit)
}

func matches(rec repository.Record, criteria map[string]any) bool {
	for k, want := range criteria {
		got, ok := rec[k]
		if !ok {
			return false
		}
		if !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// decode convierte un registro a la entidad out (puntero).
func decode(r repository.Record, out any) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

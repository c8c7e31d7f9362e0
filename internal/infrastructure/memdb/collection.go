package memdb

import (
	"context"
	"fmt"

	"github.com/jhoicas/ops-dashboard-api/internal/domain"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/repository"
)

// Nombres de las colecciones.
const (
	CollectionUsers     = "users"
	CollectionCompanies = "companies"
	CollectionOrders    = "orders"
	CollectionProducts  = "products"
)

// collection adaptador tipado sobre una colección del Database.
type collection[T any] struct {
	db   repository.Database
	name string
}

func (c collection[T]) insert(ctx context.Context, v *T) error {
	rec, err := normalize(v)
	if err != nil {
		return err
	}
	delete(rec, "id")
	out, err := c.db.Insert(ctx, c.name, rec)
	if err != nil {
		return fmt.Errorf("insert %s: %w", c.name, err)
	}
	return decode(out, v)
}

func (c collection[T]) get(ctx context.Context, id int64) (*T, error) {
	return c.findOne(ctx, repository.Criteria{"id": id})
}

func (c collection[T]) findOne(ctx context.Context, criteria repository.Criteria) (*T, error) {
	rec, err := c.db.FindOne(ctx, c.name, criteria)
	if err != nil {
		return nil, fmt.Errorf("find one %s: %w", c.name, err)
	}
	if rec == nil {
		return nil, nil
	}
	var v T
	if err := decode(rec, &v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.name, err)
	}
	return &v, nil
}

func (c collection[T]) find(ctx context.Context, criteria repository.Criteria) ([]*T, error) {
	recs, err := c.db.Find(ctx, c.name, criteria)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.name, err)
	}
	out := make([]*T, 0, len(recs))
	for _, rec := range recs {
		var v T
		if err := decode(rec, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", c.name, err)
		}
		out = append(out, &v)
	}
	return out, nil
}

// replace sobrescribe todos los campos del registro id con v.
func (c collection[T]) replace(ctx context.Context, id int64, v *T) error {
	rec, err := normalize(v)
	if err != nil {
		return err
	}
	out, err := c.db.Update(ctx, c.name, id, rec)
	if err != nil {
		return fmt.Errorf("update %s: %w", c.name, err)
	}
	if out == nil {
		return domain.ErrNotFound
	}
	return decode(out, v)
}

func (c collection[T]) modify(ctx context.Context, id int64, fn func(v *T) error) (*T, error) {
	out, err := c.db.UpdateFunc(ctx, c.name, id, func(current repository.Record) (repository.Record, error) {
		var v T
		if err := decode(current, &v); err != nil {
			return nil, err
		}
		if err := fn(&v); err != nil {
			return nil, err
		}
		return normalize(&v)
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, nil
	}
	var v T
	if err := decode(out, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c collection[T]) delete(ctx context.Context, id int64) (bool, error) {
	ok, err := c.db.Delete(ctx, c.name, id)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", c.name, err)
	}
	return ok, nil
}

package repository

import (
	"context"

	"github.com/jhoicas/ops-dashboard-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order (DIP).
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	Find(ctx context.Context, criteria Criteria) ([]*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	// Modify aplica fn de forma atómica; devuelve (nil, nil) si el id no existe.
	Modify(ctx context.Context, id int64, fn func(o *entity.Order) error) (*entity.Order, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

package repository

import (
	"context"

	"github.com/jhoicas/ops-dashboard-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	Find(ctx context.Context, criteria Criteria) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// Modify aplica fn de forma atómica; devuelve (nil, nil) si el id no existe.
	Modify(ctx context.Context, id int64, fn func(p *entity.Product) error) (*entity.Product, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

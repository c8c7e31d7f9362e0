package memdb

import (
	"context"

	"github.com/jhoicas/ops-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository sobre el almacén en memoria.
type ProductRepo struct {
	c collection[entity.Product]
}

// NewProductRepository construye el adaptador.
func NewProductRepository(db repository.Database) *ProductRepo {
	return &ProductRepo{c: collection[entity.Product]{db: db, name: CollectionProducts}}
}

func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	return r.c.insert(ctx, product)
}

func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	return r.c.get(ctx, id)
}

func (r *ProductRepo) Find(ctx context.Context, criteria repository.Criteria) ([]*entity.Product, error) {
	return r.c.find(ctx, criteria)
}

func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	return r.c.replace(ctx, product.ID, product)
}

func (r *ProductRepo) Modify(ctx context.Context, id int64, fn func(p *entity.Product) error) (*entity.Product, error) {
	return r.c.modify(ctx, id, fn)
}

func (r *ProductRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return r.c.delete(ctx, id)
}

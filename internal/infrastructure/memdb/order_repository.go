package memdb

import (
	"context"

	"github.com/jhoicas/ops-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre el almacén en memoria.
type OrderRepo struct {
	c collection[entity.Order]
}

// NewOrderRepository construye el adaptador.
func NewOrderRepository(db repository.Database) *OrderRepo {
	return &OrderRepo{c: collection[entity.Order]{db: db, name: CollectionOrders}}
}

func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	return r.c.insert(ctx, order)
}

func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	return r.c.get(ctx, id)
}

func (r *OrderRepo) Find(ctx context.Context, criteria repository.Criteria) ([]*entity.Order, error) {
	return r.c.find(ctx, criteria)
}

func (r *OrderRepo) Update(ctx context.Context, order *entity.Order) error {
	return r.c.replace(ctx, order.ID, order)
}

// Modify se usa para agregar comentarios y fotos sin perder escrituras concurrentes.
func (r *OrderRepo) Modify(ctx context.Context, id int64, fn func(o *entity.Order) error) (*entity.Order, error) {
	return r.c.modify(ctx, id, fn)
}

func (r *OrderRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return r.c.delete(ctx, id)
}

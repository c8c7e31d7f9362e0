package memdb

import (
	"context"

	"github.com/jhoicas/ops-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación de CompanyRepository sobre el almacén en memoria.
type CompanyRepo struct {
	c collection[entity.Company]
}

// NewCompanyRepository construye el adaptador.
func NewCompanyRepository(db repository.Database) *CompanyRepo {
	return &CompanyRepo{c: collection[entity.Company]{db: db, name: CollectionCompanies}}
}

// Create persiste una empresa (usado por los fixtures).
func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	return r.c.insert(ctx, company)
}

func (r *CompanyRepo) GetByID(ctx context.Context, id int64) (*entity.Company, error) {
	return r.c.get(ctx, id)
}

func (r *CompanyRepo) List(ctx context.Context) ([]*entity.Company, error) {
	return r.c.find(ctx, nil)
}

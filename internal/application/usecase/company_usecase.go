package usecase

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/jhoicas/ops-dashboard-api/internal/application/auth"
	"github.com/jhoicas/ops-dashboard-api/internal/application/dto"
	"github.com/jhoicas/ops-dashboard-api/internal/domain"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/repository"
)

// CompanyUseCase consulta de empresas (solo lectura).
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// List el administrador ve todas las empresas; el resto solo la propia.
func (uc *CompanyUseCase) List(ctx context.Context, actor *auth.UserData) ([]dto.CompanyResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar empresas: %w", err)
	}
	if actor.Role != entity.RoleAdmin {
		list = lo.Filter(list, func(c *entity.Company, _ int) bool { return c.ID == actor.CompanyID })
	}
	return lo.Map(list, func(c *entity.Company, _ int) dto.CompanyResponse { return toCompanyResponse(c) }), nil
}

// GetByID obtiene una empresa visible para el actor.
func (uc *CompanyUseCase) GetByID(ctx context.Context, actor *auth.UserData, id int64) (*dto.CompanyResponse, error) {
	if actor.Role != entity.RoleAdmin && id != actor.CompanyID {
		return nil, domain.ErrNotFound
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener empresa: %w", err)
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	out := toCompanyResponse(c)
	return &out, nil
}

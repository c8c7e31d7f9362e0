package repository

import (
	"context"

	"github.com/jhoicas/ops-dashboard-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get/Find devuelven (nil, nil) cuando no hay coincidencia.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByEmailAndCompany(ctx context.Context, email string, companyID int64) (*entity.User, error)
	ListByCompany(ctx context.Context, companyID int64) ([]*entity.User, error)
	ListByRole(ctx context.Context, companyID int64, role entity.Role) ([]*entity.User, error)
	// Update reemplaza el usuario; domain.ErrNotFound si no existe.
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id int64) (bool, error)
}

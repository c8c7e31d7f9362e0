package memdb

import (
	"context"
	"errors"

	"github.com/jhoicas/ops-dashboard-api/internal/domain"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre el almacén en memoria.
type UserRepo struct {
	c collection[entity.User]
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(db repository.Database) *UserRepo {
	return &UserRepo{c: collection[entity.User]{db: db, name: CollectionUsers}}
}

// Create persiste un nuevo usuario y le asigna ID. El email es único en todo el almacén.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	return emailConflict(r.c.insert(ctx, user))
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.c.get(ctx, id)
}

// FindByEmail obtiene un usuario por email (cualquier company).
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.c.findOne(ctx, repository.Criteria{"email": email})
}

// FindByEmailAndCompany obtiene un usuario por email y company.
func (r *UserRepo) FindByEmailAndCompany(ctx context.Context, email string, companyID int64) (*entity.User, error) {
	return r.c.findOne(ctx, repository.Criteria{"email": email, "company_id": companyID})
}

// ListByCompany lista los usuarios de una empresa.
func (r *UserRepo) ListByCompany(ctx context.Context, companyID int64) ([]*entity.User, error) {
	return r.c.find(ctx, repository.Criteria{"company_id": companyID})
}

// ListByRole lista los usuarios de una empresa con un rol.
func (r *UserRepo) ListByRole(ctx context.Context, companyID int64, role entity.Role) ([]*entity.User, error) {
	return r.c.find(ctx, repository.Criteria{"company_id": companyID, "role": role})
}

// Update reemplaza el usuario.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	return emailConflict(r.c.replace(ctx, user.ID, user))
}

// Delete elimina un usuario.
func (r *UserRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return r.c.delete(ctx, id)
}

func emailConflict(err error) error {
	if errors.Is(err, domain.ErrConflict) {
		return domain.ErrEmailAlreadyExists
	}
	return err
}

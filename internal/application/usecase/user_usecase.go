package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/jhoicas/ops-dashboard-api/internal/application/auth"
	"github.com/jhoicas/ops-dashboard-api/internal/application/dto"
	"github.com/jhoicas/ops-dashboard-api/internal/domain"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/permission"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/repository"
)

const minPasswordLength = 6

// UserUseCase administración de usuarios de la empresa del actor (manage_users).
type UserUseCase struct {
	repo     repository.UserRepository
	registry *permission.Registry
	hasher   *auth.PasswordHasher
	now      func() time.Time
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, registry *permission.Registry, hasher *auth.PasswordHasher) *UserUseCase {
	return &UserUseCase{repo: repo, registry: registry, hasher: hasher, now: time.Now}
}

// List usuarios de la empresa, con búsqueda opcional por nombre o email.
func (uc *UserUseCase) List(ctx context.Context, actor *auth.UserData, f dto.UserFilter) (*dto.UserListResponse, error) {
	users, err := uc.repo.ListByCompany(ctx, actor.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}
	users = lo.Filter(users, func(u *entity.User, _ int) bool {
		if f.Role != "" && string(u.Role) != f.Role {
			return false
		}
		return containsFolded(f.Search, u.Name, u.Email)
	})
	pageItems, page := paginate(users, f.PageRequest)
	items := lo.Map(pageItems, func(u *entity.User, _ int) dto.UserResponse { return toUserResponse(u) })
	return &dto.UserListResponse{Items: items, Page: page}, nil
}

// GetByID obtiene un usuario de la empresa del actor.
func (uc *UserUseCase) GetByID(ctx context.Context, actor *auth.UserData, id int64) (*dto.UserResponse, error) {
	u, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	out := toUserResponse(u)
	return &out, nil
}

// Create da de alta un usuario en la empresa del actor. El email es único en todo el sistema.
func (uc *UserUseCase) Create(ctx context.Context, actor *auth.UserData, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	name, email := strings.TrimSpace(in.Name), normalizeEmail(in.Email)
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: nombre y email son requeridos", domain.ErrInvalidInput)
	}
	role := entity.Role(in.Role)
	if !uc.registry.IsValidRole(role) {
		return nil, fmt.Errorf("%w: rol inválido %q", domain.ErrInvalidInput, in.Role)
	}
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, minPasswordLength)
	}
	if err := uc.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}
	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hashear contraseña: %w", err)
	}

	now := uc.now().UTC()
	u := &entity.User{
		CompanyID: actor.CompanyID,
		Name:      name,
		Email:     email,
		Password:  hash,
		Role:      role,
		Area:      strings.TrimSpace(in.Area),
		Location:  strings.TrimSpace(in.Location),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("crear usuario: %w", err)
	}
	out := toUserResponse(u)
	return &out, nil
}

// Update edita un usuario. Una contraseña vacía conserva la actual.
func (uc *UserUseCase) Update(ctx context.Context, actor *auth.UserData, id int64, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	u, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	name, email := strings.TrimSpace(in.Name), normalizeEmail(in.Email)
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: nombre y email son requeridos", domain.ErrInvalidInput)
	}
	role := entity.Role(in.Role)
	if !uc.registry.IsValidRole(role) {
		return nil, fmt.Errorf("%w: rol inválido %q", domain.ErrInvalidInput, in.Role)
	}
	if email != u.Email {
		if err := uc.ensureEmailFree(ctx, email, u.ID); err != nil {
			return nil, err
		}
	}
	if in.Password != "" {
		if len(in.Password) < minPasswordLength {
			return nil, fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, minPasswordLength)
		}
		hash, err := uc.hasher.Hash(in.Password)
		if err != nil {
			return nil, fmt.Errorf("hashear contraseña: %w", err)
		}
		u.Password = hash
	}
	u.Name = name
	u.Email = email
	u.Role = role
	u.Area = strings.TrimSpace(in.Area)
	u.Location = strings.TrimSpace(in.Location)
	u.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("actualizar usuario: %w", err)
	}
	out := toUserResponse(u)
	return &out, nil
}

// Delete elimina un usuario de la empresa. No se permite borrar al propio actor.
func (uc *UserUseCase) Delete(ctx context.Context, actor *auth.UserData, id int64) error {
	if id == actor.ID {
		return fmt.Errorf("%w: no puede eliminar su propio usuario", domain.ErrConflict)
	}
	if _, err := uc.load(ctx, actor, id); err != nil {
		return err
	}
	ok, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("eliminar usuario: %w", err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (uc *UserUseCase) load(ctx context.Context, actor *auth.UserData, id int64) (*entity.User, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario: %w", err)
	}
	if u == nil || u.CompanyID != actor.CompanyID {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

// ensureEmailFree evita hashear en vano. La unicidad la garantiza el repositorio al escribir.
func (uc *UserUseCase) ensureEmailFree(ctx context.Context, email string, selfID int64) error {
	existing, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("buscar email: %w", err)
	}
	if existing != nil && existing.ID != selfID {
		return domain.ErrEmailAlreadyExists
	}
	return nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

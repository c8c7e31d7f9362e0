package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/ops-dashboard-api/internal/application/auth"
	"github.com/jhoicas/ops-dashboard-api/internal/application/dto"
	"github.com/jhoicas/ops-dashboard-api/internal/domain"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/repository"
)

// ProfileUseCase consulta y edición del propio usuario.
type ProfileUseCase struct {
	users  repository.UserRepository
	hasher *auth.PasswordHasher
	now    func() time.Time
}

// NewProfileUseCase construye el caso de uso.
func NewProfileUseCase(users repository.UserRepository, hasher *auth.PasswordHasher) *ProfileUseCase {
	return &ProfileUseCase{users: users, hasher: hasher, now: time.Now}
}

// Get perfil del usuario autenticado.
func (uc *ProfileUseCase) Get(ctx context.Context, actor *auth.UserData) (*dto.UserResponse, error) {
	u, err := uc.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("obtener perfil: %w", err)
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	out := toUserResponse(u)
	return &out, nil
}

// Update valida y guarda el perfil; si se envía NewPassword exige la contraseña actual
// y la confirmación. Tras guardar reescribe los datos de la sesión.
func (uc *ProfileUseCase) Update(ctx context.Context, actor *auth.UserData, session SessionWriter, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	name, email := strings.TrimSpace(in.Name), normalizeEmail(in.Email)
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: complete los campos requeridos", domain.ErrInvalidInput)
	}

	u, err := uc.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("obtener perfil: %w", err)
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}

	changingPassword := in.NewPassword != "" || in.CurrentPassword != ""
	if changingPassword {
		switch {
		case in.CurrentPassword == "":
			return nil, fmt.Errorf("%w: debe ingresar su contraseña actual", domain.ErrInvalidInput)
		case in.NewPassword != in.ConfirmPassword:
			return nil, fmt.Errorf("%w: las contraseñas nuevas no coinciden", domain.ErrInvalidInput)
		case len(in.NewPassword) < minPasswordLength:
			return nil, fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, minPasswordLength)
		case !uc.hasher.Verify(u.Password, in.CurrentPassword):
			return nil, fmt.Errorf("%w: la contraseña actual es incorrecta", domain.ErrInvalidInput)
		}
	}

	if email != u.Email {
		existing, err := uc.users.FindByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("buscar email: %w", err)
		}
		if existing != nil && existing.ID != u.ID {
			return nil, domain.ErrEmailAlreadyExists
		}
	}
	if changingPassword {
		hash, err := uc.hasher.Hash(in.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("hashear contraseña: %w", err)
		}
		u.Password = hash
	}
	u.Name = name
	u.Email = email
	u.Area = strings.TrimSpace(in.Area)
	u.Location = strings.TrimSpace(in.Location)
	if in.AvatarURL != "" {
		u.AvatarURL = in.AvatarURL
	}
	u.UpdatedAt = uc.now().UTC()
	if err := uc.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("actualizar perfil: %w", err)
	}

	if session != nil {
		ud := *actor
		ud.Name, ud.Email, ud.Area, ud.Location = u.Name, u.Email, u.Area, u.Location
		if err := session.SetUserData(ctx, &ud); err != nil {
			return nil, fmt.Errorf("actualizar sesión: %w", err)
		}
	}
	out := toUserResponse(u)
	return &out, nil
}

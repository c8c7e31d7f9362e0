package dto

import "time"

// CreateUserRequest alta de usuario (password en texto, se hashea en el caso de uso).
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=client operador supervisor admin"`
	Area     string `json:"area" validate:"omitempty,max=100"`
	Location string `json:"location" validate:"omitempty,max=200"`
}

// UpdateUserRequest edición de usuario. Password vacío conserva la contraseña actual.
type UpdateUserRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
	Role     string `json:"role" validate:"required,oneof=client operador supervisor admin"`
	Area     string `json:"area" validate:"omitempty,max=100"`
	Location string `json:"location" validate:"omitempty,max=200"`
}

// UserFilter búsqueda opcional por nombre/email.
type UserFilter struct {
	Search string `query:"q"`
	Role   string `query:"role" validate:"omitempty,oneof=client operador supervisor admin"`
	PageRequest
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Area      string    `json:"area"`
	Location  string    `json:"location"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListResponse listado paginado de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// UpdateProfileRequest edición del propio perfil. Los tres campos de contraseña
// solo se evalúan si NewPassword no es vacío.
type UpdateProfileRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	Email           string `json:"email" validate:"required,email"`
	Area            string `json:"area" validate:"omitempty,max=100"`
	Location        string `json:"location" validate:"omitempty,max=200"`
	AvatarURL       string `json:"avatar_url" validate:"omitempty"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

package dto

// LoginRequest entrada de POST /api/auth/login. CompanyID es opcional (multi-empresa).
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	CompanyID *int64 `json:"company_id" validate:"omitempty,gt=0"`
}

// SessionUser datos del usuario autenticado tal como se guardan en la sesión.
type SessionUser struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Area      string `json:"area"`
	CompanyID int64  `json:"companyId"`
	Location  string `json:"location"`
}

// LoginResponse token JWT y datos de sesión.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresIn int         `json:"expires_in"`
	User      SessionUser `json:"user"`
}

// SessionResponse salida de GET /api/auth/session.
type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *SessionUser `json:"user,omitempty"`
}

// MenuItemDTO entrada del menú de navegación.
type MenuItemDTO struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// PermissionsResponse permisos efectivos del rol autenticado.
type PermissionsResponse struct {
	Role        string   `json:"role"`
	Level       int      `json:"level"`
	Permissions []string `json:"permissions"`
}

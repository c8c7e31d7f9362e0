package entity

import "time"

// Role rol de un usuario; determina sus permisos (ver domain/permission).
type Role string

// Roles válidos para User, de menor a mayor nivel.
const (
	RoleClient     Role = "client"
	RoleOperador   Role = "operador"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

// User representa un usuario del sistema (pertenece a una Company).
// Password guarda el hash bcrypt; nunca el texto plano.
type User struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Role      Role      `json:"role"`
	Area      string    `json:"area"`
	Location  string    `json:"location"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

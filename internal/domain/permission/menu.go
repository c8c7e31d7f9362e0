package permission

import "github.com/jhoicas/ops-dashboard-api/internal/domain/entity"

// MenuItem entrada de navegación visible según permiso.
type MenuItem struct {
	Label      string     `json:"label"`
	Path       string     `json:"path"`
	Permission Permission `json:"permission"`
}

// DefaultMenu navegación principal de la aplicación.
func DefaultMenu() []MenuItem {
	return []MenuItem{
		{Label: "Dashboard", Path: "/dashboard", Permission: ViewDashboard},
		{Label: "Órdenes", Path: "/orders", Permission: ViewOrders},
		{Label: "Productos", Path: "/products", Permission: ViewProducts},
		{Label: "Usuarios", Path: "/users", Permission: ManageUsers},
	}
}

// MenuFor filtra items dejando los que role puede ver.
func (r *Registry) MenuFor(role entity.Role, items []MenuItem) []MenuItem {
	out := make([]MenuItem, 0, len(items))
	for _, it := range items {
		if r.HasPermission(role, it.Permission) {
			out = append(out, it)
		}
	}
	return out
}

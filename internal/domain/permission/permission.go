// Package permission define los roles, sus niveles y los permisos que otorga cada uno.
package permission

import (
	"sort"

	"github.com/jhoicas/ops-dashboard-api/internal/domain/entity"
)

// Permission capacidad nombrada que protege una acción.
type Permission string

const (
	ViewDashboard     Permission = "view_dashboard"
	ViewOrders        Permission = "view_orders"
	CreateOrder       Permission = "create_order"
	EditOrder         Permission = "edit_order"
	DeleteOrder       Permission = "delete_order"
	UpdateOrderStatus Permission = "update_order_status"
	AssignOrder       Permission = "assign_order"
	AddOrderComment   Permission = "add_order_comment"
	ManageUsers       Permission = "manage_users"
	ViewProducts      Permission = "view_products"
	CreateProduct     Permission = "create_product"
	EditProduct       Permission = "edit_product"
	DeleteProduct     Permission = "delete_product"
)

// RoleConfig nivel y permisos de un rol.
type RoleConfig struct {
	Level       int
	Permissions []Permission
}

// Registry tabla inmutable rol → permisos. Seguro para uso concurrente.
type Registry struct {
	roles map[entity.Role]roleEntry
}

type roleEntry struct {
	level int
	perms map[Permission]struct{}
	list  []Permission
}

// DefaultRoles configuración de roles de la aplicación.
func DefaultRoles() map[entity.Role]RoleConfig {
	return map[entity.Role]RoleConfig{
		entity.RoleAdmin: {Level: 3, Permissions: []Permission{
			ViewDashboard, ViewOrders, CreateOrder, EditOrder, DeleteOrder, UpdateOrderStatus,
			AssignOrder, AddOrderComment, ManageUsers, ViewProducts, CreateProduct, EditProduct, DeleteProduct,
		}},
		entity.RoleSupervisor: {Level: 2, Permissions: []Permission{
			ViewDashboard, ViewOrders, CreateOrder, EditOrder, UpdateOrderStatus, AssignOrder,
			AddOrderComment, ViewProducts, CreateProduct, EditProduct,
		}},
		entity.RoleOperador: {Level: 1, Permissions: []Permission{
			ViewDashboard, ViewOrders, CreateOrder, UpdateOrderStatus, AddOrderComment,
			ViewProducts, CreateProduct, EditProduct,
		}},
		entity.RoleClient: {Level: 0, Permissions: []Permission{
			ViewDashboard, ViewOrders, CreateOrder, AddOrderComment, ViewProducts,
		}},
	}
}

// NewRegistry construye el registro con DefaultRoles.
func NewRegistry() *Registry {
	return NewRegistryFrom(DefaultRoles())
}

// NewRegistryFrom construye un registro a partir de una configuración arbitraria (copiada).
func NewRegistryFrom(cfg map[entity.Role]RoleConfig) *Registry {
	r := &Registry{roles: make(map[entity.Role]roleEntry, len(cfg))}
	for role, rc := range cfg {
		e := roleEntry{level: rc.Level, perms: make(map[Permission]struct{}, len(rc.Permissions))}
		for _, p := range rc.Permissions {
			if _, dup := e.perms[p]; dup {
				continue
			}
			e.perms[p] = struct{}{}
			e.list = append(e.list, p)
		}
		r.roles[role] = e
	}
	return r
}

// HasPermission indica si role tiene TODOS los permisos requeridos.
// Rol desconocido → false; admin → true; sin permisos requeridos → true.
func (r *Registry) HasPermission(role entity.Role, required ...Permission) bool {
	e, ok := r.roles[role]
	if !ok {
		return false
	}
	if role == entity.RoleAdmin {
		return true
	}
	for _, p := range required {
		if _, ok := e.perms[p]; !ok {
			return false
		}
	}
	return true
}

// IsValidRole indica si el rol está configurado.
func (r *Registry) IsValidRole(role entity.Role) bool {
	_, ok := r.roles[role]
	return ok
}

// Level devuelve el nivel del rol (ok=false si no existe). Hoy no participa en las decisiones.
func (r *Registry) Level(role entity.Role) (int, bool) {
	e, ok := r.roles[role]
	return e.level, ok
}

// Permissions devuelve una copia de los permisos del rol en orden de configuración.
func (r *Registry) Permissions(role entity.Role) []Permission {
	e, ok := r.roles[role]
	if !ok {
		return nil
	}
	out := make([]Permission, len(e.list))
	copy(out, e.list)
	return out
}

// Roles devuelve los roles ordenados por nivel ascendente.
func (r *Registry) Roles() []entity.Role {
	out := make([]entity.Role, 0, len(r.roles))
	for role := range r.roles {
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool {
		return r.roles[out[i]].level < r.roles[out[j]].level
	})
	return out
}

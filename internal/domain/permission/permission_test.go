package permission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ops-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/permission"
)

var allPermissions = []permission.Permission{
	permission.ViewDashboard, permission.ViewOrders, permission.CreateOrder, permission.EditOrder,
	permission.DeleteOrder, permission.UpdateOrderStatus, permission.AssignOrder, permission.AddOrderComment,
	permission.ManageUsers, permission.ViewProducts, permission.CreateProduct, permission.EditProduct,
	permission.DeleteProduct,
}

func TestHasPermission_Tabla(t *testing.T) {
	r := permission.NewRegistry()

	cases := []struct {
		name string
		role entity.Role
		req  []permission.Permission
		want bool
	}{
		{"operador puede cambiar estado", entity.RoleOperador, []permission.Permission{permission.UpdateOrderStatus}, true},
		{"operador no borra órdenes", entity.RoleOperador, []permission.Permission{permission.DeleteOrder}, false},
		{"operador AND con uno faltante", entity.RoleOperador, []permission.Permission{permission.ViewOrders, permission.DeleteOrder}, false},
		{"cliente comenta", entity.RoleClient, []permission.Permission{permission.AddOrderComment}, true},
		{"cliente no crea productos", entity.RoleClient, []permission.Permission{permission.CreateProduct}, false},
		{"supervisor asigna", entity.RoleSupervisor, []permission.Permission{permission.AssignOrder}, true},
		{"supervisor no gestiona usuarios", entity.RoleSupervisor, []permission.Permission{permission.ManageUsers}, false},
		{"supervisor no borra productos", entity.RoleSupervisor, []permission.Permission{permission.DeleteProduct}, false},
		{"rol desconocido", entity.Role("guest"), []permission.Permission{permission.ViewDashboard}, false},
		{"rol desconocido sin requisitos", entity.Role("guest"), nil, false},
		{"lista vacía es verdadera", entity.RoleClient, nil, true},
		{"admin con permiso inexistente", entity.RoleAdmin, []permission.Permission{"launch_rockets"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.HasPermission(tc.role, tc.req...))
		})
	}
}

func TestHasPermission_AdminTieneTodos(t *testing.T) {
	r := permission.NewRegistry()
	for _, p := range allPermissions {
		assert.True(t, r.HasPermission(entity.RoleAdmin, p), p)
	}
	assert.Len(t, r.Permissions(entity.RoleAdmin), len(allPermissions))
}

func TestRegistry_NivelesYRoles(t *testing.T) {
	r := permission.NewRegistry()

	lvl, ok := r.Level(entity.RoleSupervisor)
	assert.True(t, ok)
	assert.Equal(t, 2, lvl)

	_, ok = r.Level("guest")
	assert.False(t, ok)

	assert.Equal(t, []entity.Role{entity.RoleClient, entity.RoleOperador, entity.RoleSupervisor, entity.RoleAdmin}, r.Roles())
	assert.True(t, r.IsValidRole(entity.RoleOperador))
	assert.False(t, r.IsValidRole("root"))
}

func TestPermissions_DevuelveCopia(t *testing.T) {
	r := permission.NewRegistry()
	perms := r.Permissions(entity.RoleClient)
	perms[0] = permission.ManageUsers

	assert.False(t, r.HasPermission(entity.RoleClient, permission.ManageUsers))
	assert.Nil(t, r.Permissions("guest"))
}

func TestMenuFor_FiltraPorRol(t *testing.T) {
	r := permission.NewRegistry()

	labels := func(items []permission.MenuItem) []string {
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, it.Label)
		}
		return out
	}

	assert.Equal(t, []string{"Dashboard", "Órdenes", "Productos", "Usuarios"}, labels(r.MenuFor(entity.RoleAdmin, permission.DefaultMenu())))
	assert.Equal(t, []string{"Dashboard", "Órdenes", "Productos"}, labels(r.MenuFor(entity.RoleClient, permission.DefaultMenu())))
	assert.Empty(t, r.MenuFor("guest", permission.DefaultMenu()))
}

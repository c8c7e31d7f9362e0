package memdb

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/ops-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/repository"
)

// HashFunc convierte una contraseña en texto plano a su hash.
type HashFunc func(plain string) (string, error)

// FixtureUser usuario de ejemplo con su contraseña en texto plano (sólo para seed y tests).
type FixtureUser struct {
	User     entity.User
	Password string
}

func ts(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func ptr[T any](v T) *T { return &v }

// FixtureCompanies empresas de ejemplo.
func FixtureCompanies() []entity.Company {
	return []entity.Company{
		{ID: 1, Name: "Empresa Principal", Address: "Calle Principal 123", Phone: "123-456-7890", Email: "contacto@empresa.com"},
		{ID: 2, Name: "Empresa Secundaria", Address: "Avenida Secundaria 456", Phone: "098-765-4321", Email: "contacto@secundaria.com"},
	}
}

// FixtureUsers usuarios de ejemplo.
func FixtureUsers() []FixtureUser {
	return []FixtureUser{
		{Password: "admin123", User: entity.User{ID: 1, Name: "Administrador", Email: "admin@empresa.com", Role: entity.RoleAdmin, Area: "Administración", CompanyID: 1, Location: "Sede Central"}},
		{Password: "tecnico123", User: entity.User{ID: 2, Name: "Técnico", Email: "tecnico@empresa.com", Role: entity.RoleOperador, Area: "Mantenimiento", CompanyID: 1, Location: "Sede Central"}},
		{Password: "super123", User: entity.User{ID: 3, Name: "Supervisor", Email: "supervisor@empresa.com", Role: entity.RoleSupervisor, Area: "Operaciones", CompanyID: 1, Location: "Sede Norte"}},
		{Password: "cliente123", User: entity.User{ID: 4, Name: "Cliente", Email: "cliente@empresa.com", Role: entity.RoleClient, Area: "Inbound", CompanyID: 1, Location: "Sede Central"}},
	}
}

// FixtureOrders órdenes de ejemplo.
func FixtureOrders() []entity.Order {
	return []entity.Order{
		{
			ID: 1, CompanyID: 1, Title: "Mantenimiento preventivo",
			Description: "Realizar mantenimiento preventivo de equipos de aire acondicionado",
			Status:      entity.OrderPending, Priority: entity.PriorityMedium,
			Location: "Sede Central - Piso 3", ClientID: ptr(int64(4)), AssignedTo: ptr(int64(2)),
			CreatedAt: ts("2023-05-10T10:30:00"), UpdatedAt: ts("2023-05-10T11:00:00"),
			Photos: []entity.Photo{},
			Comments: []entity.Comment{
				{ID: 1, UserID: 1, Text: "Asignada al técnico", Timestamp: ts("2023-05-10T11:00:00")},
			},
		},
		{
			ID: 2, CompanyID: 1, Title: "Reparación de equipo",
			Description: "Reparar equipo de refrigeración en mal estado",
			Status:      entity.OrderInProgress, Priority: entity.PriorityHigh,
			Location: "Sede Norte - Almacén", AssignedTo: ptr(int64(2)),
			CreatedAt: ts("2023-05-09T08:15:00"), UpdatedAt: ts("2023-05-09T10:45:00"),
			Photos: []entity.Photo{},
			Comments: []entity.Comment{
				{ID: 2, UserID: 2, Text: "Iniciando revisión del equipo", Timestamp: ts("2023-05-09T09:30:00")},
				{ID: 3, UserID: 2, Text: "Se requieren repuestos adicionales", Timestamp: ts("2023-05-09T10:45:00")},
			},
		},
		{
			ID: 3, CompanyID: 1, Title: "Instalación de equipo nuevo",
			Description: "Instalar nuevo sistema de aire acondicionado en oficina de gerencia",
			Status:      entity.OrderCompleted, Priority: entity.PriorityMedium,
			Location: "Sede Central - Oficina Gerencia", AssignedTo: ptr(int64(2)),
			CreatedAt: ts("2023-05-05T14:20:00"), UpdatedAt: ts("2023-05-07T17:00:00"),
			CompletedAt: ptr(ts("2023-05-07T16:30:00")),
			Photos:      []entity.Photo{},
			Comments: []entity.Comment{
				{ID: 4, UserID: 2, Text: "Instalación completada con éxito", Timestamp: ts("2023-05-07T16:25:00")},
				{ID: 5, UserID: 3, Text: "Verificado y aprobado", Timestamp: ts("2023-05-07T17:00:00")},
			},
		},
	}
}

// FixtureProducts productos de ejemplo (2 y 6 con stock bajo).
func FixtureProducts() []entity.Product {
	p := func(id int64, code, desc, area string, qty int, created, supplier string) entity.Product {
		return entity.Product{
			ID: id, CompanyID: 1, Code: code, Description: desc, Area: area, Quantity: qty,
			Supplier: supplier, Photos: []entity.Photo{}, CreatedBy: 1,
			CreatedAt: ts(created), UpdatedAt: ts(created),
		}
	}
	return []entity.Product{
		p(1, "PROD-001", "Componente Electrónico A", entity.AreaInbound, 150, "2023-05-15T09:00:00", "Proveedor X"),
		p(2, "PROD-002", "Pieza Mecánica B", entity.AreaOutbound, 2, "2023-05-16T11:30:00", "Proveedor Y"),
		p(3, "PROD-003", "Material de Embalaje C", entity.AreaPacking, 500, "2023-05-16T14:00:00", "Proveedor Z"),
		p(4, "PROD-004", "Herramienta Manual D", entity.AreaWoodShop, 25, "2023-05-17T08:45:00", "Proveedor X"),
		p(5, "PROD-005", "Producto Químico E", entity.AreaQuality, 75, "2023-05-18T10:15:00", "Proveedor Y"),
		p(6, "PROD-006", "Componente Electrónico F", entity.AreaInbound, 3, "2023-05-19T16:00:00", "Proveedor Z"),
	}
}

// Seed carga los fixtures en db, que debe estar vacío: los IDs resultantes coinciden
// con los de los fixtures porque la asignación es max+1 en orden de inserción.
func Seed(ctx context.Context, db repository.Database, hash HashFunc) error {
	companies := NewCompanyRepository(db)
	for _, c := range FixtureCompanies() {
		c := c
		if err := companies.Create(ctx, &c); err != nil {
			return fmt.Errorf("seed companies: %w", err)
		}
	}

	users := NewUserRepository(db)
	now := time.Now().UTC()
	for _, fu := range FixtureUsers() {
		u := fu.User
		h, err := hash(fu.Password)
		if err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		u.Password = h
		u.CreatedAt, u.UpdatedAt = now, now
		if err := users.Create(ctx, &u); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}

	orders := NewOrderRepository(db)
	for _, o := range FixtureOrders() {
		o := o
		if err := orders.Create(ctx, &o); err != nil {
			return fmt.Errorf("seed orders: %w", err)
		}
	}

	products := NewProductRepository(db)
	for _, p := range FixtureProducts() {
		p := p
		if err := products.Create(ctx, &p); err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
	}
	return nil
}

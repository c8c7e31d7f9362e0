package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/ops-dashboard-api/internal/application/auth"
	"github.com/jhoicas/ops-dashboard-api/internal/application/dto"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/entity"
)

// OrderSheetData datos necesarios para la hoja de trabajo de una orden.
type OrderSheetData struct {
	Order       dto.OrderResponse
	Company     *entity.Company
	ClientName  string
	GeneratedBy string
	GeneratedAt time.Time
}

// OrderSheetGenerator genera la hoja de trabajo (PDF) de una orden.
type OrderSheetGenerator interface {
	GenerateOrderSheet(ctx context.Context, data OrderSheetData) ([]byte, error)
}

// ProductNotifier avisos de inventario que disparan los casos de uso de productos.
type ProductNotifier interface {
	CreateLowStock(ctx context.Context, p *entity.Product) (entity.Notification, error)
	CreateProductCreated(ctx context.Context, p *entity.Product) (entity.Notification, error)
	CreateProductDeleted(ctx context.Context, p *entity.Product) (entity.Notification, error)
}

// SessionWriter reescribe los datos de usuario de la sesión actual.
type SessionWriter interface {
	SetUserData(ctx context.Context, ud *auth.UserData) error
}

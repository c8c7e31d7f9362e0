package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/ops-dashboard-api/internal/application/auth"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/repository"
)

// OrderSheetUseCase genera la hoja de trabajo imprimible de una orden.
type OrderSheetUseCase struct {
	orders    *OrderUseCase
	companies repository.CompanyRepository
	users     repository.UserRepository
	generator OrderSheetGenerator
}

// NewOrderSheetUseCase construye el caso de uso.
func NewOrderSheetUseCase(
	orders *OrderUseCase,
	companies repository.CompanyRepository,
	users repository.UserRepository,
	generator OrderSheetGenerator,
) *OrderSheetUseCase {
	return &OrderSheetUseCase{orders: orders, companies: companies, users: users, generator: generator}
}

// Download devuelve el PDF y el nombre de archivo sugerido. Aplica el mismo control
// de acceso que el detalle de la orden.
func (uc *OrderSheetUseCase) Download(ctx context.Context, actor *auth.UserData, id int64) ([]byte, string, error) {
	order, err := uc.orders.Get(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	company, err := uc.companies.GetByID(ctx, order.CompanyID)
	if err != nil {
		return nil, "", fmt.Errorf("hoja de trabajo: obtener empresa: %w", err)
	}
	data := OrderSheetData{
		Order:       *order,
		Company:     company,
		GeneratedBy: actor.Name,
		GeneratedAt: uc.orders.now().UTC(),
	}
	if order.ClientID != nil {
		client, err := uc.users.GetByID(ctx, *order.ClientID)
		if err != nil {
			return nil, "", fmt.Errorf("hoja de trabajo: obtener cliente: %w", err)
		}
		if client != nil {
			data.ClientName = client.Name
		}
	}
	pdf, err := uc.generator.GenerateOrderSheet(ctx, data)
	if err != nil {
		return nil, "", fmt.Errorf("hoja de trabajo: %w", err)
	}
	return pdf, fmt.Sprintf("orden-%d.pdf", order.ID), nil
}

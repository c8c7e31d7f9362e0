// Package analytics arma el resumen del dashboard: tarjetas por área, órdenes por
// estado y avisos pendientes.
package analytics

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ops-dashboard-api/internal/application/auth"
	"github.com/jhoicas/ops-dashboard-api/internal/application/dto"
	"github.com/jhoicas/ops-dashboard-api/internal/application/usecase"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/repository"
)

// UnreadCounter fuente del contador de la campana de una empresa.
type UnreadCounter interface {
	UnreadCount(companyID int64) int
}

// DashboardUseCase genera el resumen del dashboard para el usuario autenticado.
type DashboardUseCase struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	products    *usecase.ProductUseCase
	unread      UnreadCounter
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	products *usecase.ProductUseCase,
	unread UnreadCounter,
) *DashboardUseCase {
	return &DashboardUseCase{productRepo: productRepo, orderRepo: orderRepo, products: products, unread: unread}
}

// GetSummary construye el DashboardSummaryDTO. Productos de la empresa del actor y
// órdenes según el alcance de su rol, leídos en paralelo.
func (uc *DashboardUseCase) GetSummary(ctx context.Context, actor *auth.UserData) (*dto.DashboardSummaryDTO, error) {
	type productsResult struct {
		list []*entity.Product
		err  error
	}
	type ordersResult struct {
		list []*entity.Order
		err  error
	}

	productsCh := make(chan productsResult, 1)
	ordersCh := make(chan ordersResult, 1)

	go func() {
		list, err := uc.productRepo.Find(ctx, repository.Criteria{"company_id": actor.CompanyID})
		productsCh <- productsResult{list, err}
	}()
	go func() {
		list, err := uc.orderRepo.Find(ctx, usecase.Scope(actor))
		ordersCh <- ordersResult{list, err}
	}()

	prods := <-productsCh
	ords := <-ordersCh

	if prods.err != nil {
		return nil, fmt.Errorf("dashboard: productos: %w", prods.err)
	}
	if ords.err != nil {
		return nil, fmt.Errorf("dashboard: órdenes: %w", ords.err)
	}

	threshold := uc.products.Threshold()
	areas := areaStats(prods.list, threshold)
	return &dto.DashboardSummaryDTO{
		TotalProducts:       len(prods.list),
		TotalLowStock:       lo.SumBy(areas, func(a dto.AreaStatDTO) int { return a.LowStock }),
		LowStockThreshold:   threshold,
		Areas:               areas,
		Orders:              orderCounts(ords.list),
		UnreadNotifications: uc.unread.UnreadCount(actor.CompanyID),
	}, nil
}

// AreaProducts productos de un área, opcionalmente entre from y to (YYYY-MM-DD, to inclusive).
func (uc *DashboardUseCase) AreaProducts(ctx context.Context, actor *auth.UserData, area, from, to string) (*dto.AreaProductsDTO, error) {
	items, err := uc.products.ByArea(ctx, actor, area, from, to)
	if err != nil {
		return nil, err
	}
	return &dto.AreaProductsDTO{Area: area, Items: items, Total: len(items)}, nil
}

// areaStats una tarjeta por cada área conocida, en orden fijo. Share es el porcentaje
// de productos del área sobre el total, con un decimal.
func areaStats(products []*entity.Product, threshold int) []dto.AreaStatDTO {
	byArea := lo.GroupBy(products, func(p *entity.Product) string { return p.Area })
	total := decimal.NewFromInt(int64(len(products)))
	hundred := decimal.NewFromInt(100)

	out := make([]dto.AreaStatDTO, 0, len(entity.Areas()))
	for _, area := range entity.Areas() {
		list := byArea[area]
		share := decimal.Zero
		if !total.IsZero() {
			share = decimal.NewFromInt(int64(len(list))).Mul(hundred).Div(total).Round(1)
		}
		out = append(out, dto.AreaStatDTO{
			Area:     area,
			Products: len(list),
			Units:    lo.SumBy(list, func(p *entity.Product) int { return p.Quantity }),
			LowStock: lo.CountBy(list, func(p *entity.Product) bool { return p.IsLowStock(threshold) }),
			Share:    share,
		})
	}
	return out
}

func orderCounts(orders []*entity.Order) dto.OrderCountsDTO {
	byStatus := lo.CountValuesBy(orders, func(o *entity.Order) entity.OrderStatus { return o.Status })
	return dto.OrderCountsDTO{
		Total:      len(orders),
		Pending:    byStatus[entity.OrderPending],
		InProgress: byStatus[entity.OrderInProgress],
		Completed:  byStatus[entity.OrderCompleted],
		Cancelled:  byStatus[entity.OrderCancelled],
	}
}

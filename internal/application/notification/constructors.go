package notification

import (
	"context"
	"fmt"

	"github.com/jhoicas/ops-dashboard-api/internal/domain/entity"
)

// Sufijos de clave natural para las notificaciones de producto.
const (
	KindLowStock = "low_stock"
	KindCreated  = "created"
	KindDeleted  = "deleted"
)

// CreateLowStock alerta de stock bajo para p (idempotente por producto).
func (s *Store) CreateLowStock(ctx context.Context, p *entity.Product) (entity.Notification, error) {
	return s.Add(ctx, productNotification(p, KindLowStock, "Stock bajo",
		fmt.Sprintf("El producto %s - %s tiene un stock bajo (%d unidades)", p.Code, p.Description, p.Quantity),
		entity.SeverityWarning))
}

// CreateProductCreated aviso de producto registrado.
func (s *Store) CreateProductCreated(ctx context.Context, p *entity.Product) (entity.Notification, error) {
	return s.Add(ctx, productNotification(p, KindCreated, "Producto creado",
		fmt.Sprintf("Se ha registrado un nuevo producto: %s - %s", p.Code, p.Description),
		entity.SeveritySuccess))
}

// CreateProductDeleted aviso de producto eliminado.
func (s *Store) CreateProductDeleted(ctx context.Context, p *entity.Product) (entity.Notification, error) {
	return s.Add(ctx, productNotification(p, KindDeleted, "Producto eliminado",
		fmt.Sprintf("Se ha eliminado el producto: %s - %s", p.Code, p.Description),
		entity.SeverityInfo))
}

func productNotification(p *entity.Product, kind, title, message, severity string) entity.Notification {
	id := p.ID
	return entity.Notification{
		CompanyID: p.CompanyID,
		Key:       p.NotificationKey(kind),
		Title:     title,
		Message:   message,
		Severity:  severity,
		Type:      entity.NotificationTypeProduct,
		ProductID: &id,
	}
}

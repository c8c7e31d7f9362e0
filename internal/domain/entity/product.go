package entity

import (
	"fmt"
	"time"
)

// Áreas físicas donde se ubican los productos.
const (
	AreaOutbound  = "Outbound"
	AreaInbound   = "Inbound"
	AreaQuality   = "Quality"
	AreaPacking   = "Packing"
	AreaWoodShop  = "WoodShop"
	AreaDeviation = "Deviation"
)

// Areas devuelve las áreas en el orden en que se muestran en el dashboard.
func Areas() []string {
	return []string{AreaOutbound, AreaInbound, AreaQuality, AreaPacking, AreaWoodShop, AreaDeviation}
}

// IsValidArea indica si area es una de las áreas conocidas.
func IsValidArea(area string) bool {
	for _, a := range Areas() {
		if a == area {
			return true
		}
	}
	return false
}

// Product representa un producto inventariado en un área.
type Product struct {
	ID          int64     `json:"id"`
	CompanyID   int64     `json:"company_id"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	Area        string    `json:"area"`
	Supplier    string    `json:"supplier,omitempty"`
	Photos      []Photo   `json:"photos"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsLowStock indica si la cantidad está en o por debajo del umbral.
func (p *Product) IsLowStock(threshold int) bool {
	return p.Quantity <= threshold
}

// NotificationKey clave natural de una notificación kind sobre este producto. Incluye
// created_at para que un producto nuevo que reutilice el id no herede alertas.
func (p *Product) NotificationKey(kind string) string {
	return fmt.Sprintf("product:%d:%d:%s", p.ID, p.CreatedAt.UnixMilli(), kind)
}

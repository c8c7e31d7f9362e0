package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	TotalProducts       int            `json:"total_products"`
	TotalLowStock       int            `json:"total_low_stock"`
	LowStockThreshold   int            `json:"low_stock_threshold"`
	Areas               []AreaStatDTO  `json:"areas"`
	Orders              OrderCountsDTO `json:"orders"`
	UnreadNotifications int            `json:"unread_notifications"`
}

// AreaStatDTO tarjeta de un área: cantidad de productos y porcentaje sobre el total.
type AreaStatDTO struct {
	Area     string          `json:"area"`
	Products int             `json:"products"`
	Units    int             `json:"units"`
	LowStock int             `json:"low_stock"`
	Share    decimal.Decimal `json:"share"` // porcentaje con 1 decimal
}

// OrderCountsDTO órdenes visibles por estado.
type OrderCountsDTO struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Cancelled  int `json:"cancelled"`
}

// AreaProductsDTO respuesta de GET /api/dashboard/areas/:area/products.
type AreaProductsDTO struct {
	Area  string            `json:"area"`
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}

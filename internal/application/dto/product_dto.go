package dto

import "time"

// CreateProductRequest registro de un producto.
type CreateProductRequest struct {
	Code        string `json:"code" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Quantity    int    `json:"quantity" validate:"gt=0"`
	Area        string `json:"area" validate:"omitempty,oneof=Outbound Inbound Quality Packing WoodShop Deviation"`
	Supplier    string `json:"supplier" validate:"omitempty,max=200"`
}

// UpdateProductRequest patch de un producto: solo se aplican los campos presentes.
type UpdateProductRequest struct {
	Code        *string `json:"code" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Quantity    *int    `json:"quantity" validate:"omitempty,min=0"`
	Area        *string `json:"area" validate:"omitempty,oneof=Outbound Inbound Quality Packing WoodShop Deviation"`
	Supplier    *string `json:"supplier" validate:"omitempty,max=200"`
}

// ProductFilter filtros de GET /api/products y del listado por área del dashboard.
// From/To usan formato YYYY-MM-DD; To incluye el día completo.
type ProductFilter struct {
	Area   string `query:"area" validate:"omitempty,oneof=Outbound Inbound Quality Packing WoodShop Deviation"`
	Search string `query:"q"`
	From   string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	PageRequest
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          int64           `json:"id"`
	CompanyID   int64           `json:"company_id"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Area        string          `json:"area"`
	Supplier    string          `json:"supplier,omitempty"`
	LowStock    bool            `json:"low_stock"`
	Photos      []PhotoResponse `json:"photos"`
	CreatedBy   int64           `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

package dto

import "time"

// CreateOrderRequest alta de una orden de trabajo.
type CreateOrderRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	Location    string `json:"location" validate:"required,max=200"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

// UpdateOrderRequest edición de una orden. AssignedTo nil no cambia la asignación.
type UpdateOrderRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	Location    string `json:"location" validate:"required,max=200"`
	Priority    string `json:"priority" validate:"required,oneof=low medium high urgent"`
	AssignedTo  *int64 `json:"assigned_to" validate:"omitempty,gt=0"`
}

// UpdateOrderStatusRequest cambio de estado.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed cancelled"`
}

// AddCommentRequest comentario nuevo.
type AddCommentRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// OrderFilter filtros de GET /api/orders.
type OrderFilter struct {
	Status   string `query:"status" validate:"omitempty,oneof=pending in_progress completed cancelled"`
	Priority string `query:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Search   string `query:"q"`
	PageRequest
}

// CommentResponse comentario con el nombre del autor resuelto.
type CommentResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// PhotoResponse imagen adjunta.
type PhotoResponse struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// OrderResponse salida de una orden con etiquetas en español.
type OrderResponse struct {
	ID             int64             `json:"id"`
	CompanyID      int64             `json:"company_id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Status         string            `json:"status"`
	StatusLabel    string            `json:"status_label"`
	Priority       string            `json:"priority"`
	PriorityLabel  string            `json:"priority_label"`
	Location       string            `json:"location"`
	ClientID       *int64            `json:"client_id"`
	AssignedTo     *int64            `json:"assigned_to"`
	AssignedToName string            `json:"assigned_to_name,omitempty"`
	Comments       []CommentResponse `json:"comments"`
	Photos         []PhotoResponse   `json:"photos"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	CompletedAt    *time.Time        `json:"completed_at,omitempty"`
}

// OrderListResponse listado paginado de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// AssigneeResponse operador que puede recibir órdenes.
type AssigneeResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Area string `json:"area"`
}

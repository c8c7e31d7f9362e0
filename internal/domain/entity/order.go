package entity

import "time"

// OrderStatus estado de una orden de trabajo. Cualquier transición es válida.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderInProgress OrderStatus = "in_progress"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lista los estados en orden de presentación.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{OrderPending, OrderInProgress, OrderCompleted, OrderCancelled}
}

// Label nombre en español del estado.
func (s OrderStatus) Label() string {
	switch s {
	case OrderPending:
		return "Pendiente"
	case OrderInProgress:
		return "En Progreso"
	case OrderCompleted:
		return "Completada"
	case OrderCancelled:
		return "Cancelada"
	}
	return string(s)
}

// IsValid indica si el estado es conocido.
func (s OrderStatus) IsValid() bool {
	for _, v := range OrderStatuses() {
		if v == s {
			return true
		}
	}
	return false
}

// OrderPriority prioridad de una orden.
type OrderPriority string

const (
	PriorityLow    OrderPriority = "low"
	PriorityMedium OrderPriority = "medium"
	PriorityHigh   OrderPriority = "high"
	PriorityUrgent OrderPriority = "urgent"
)

// IsValid indica si la prioridad es conocida.
func (p OrderPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Label nombre en español de la prioridad.
func (p OrderPriority) Label() string {
	switch p {
	case PriorityLow:
		return "Baja"
	case PriorityMedium:
		return "Media"
	case PriorityHigh:
		return "Alta"
	case PriorityUrgent:
		return "Urgente"
	}
	return string(p)
}

// Order orden de trabajo. Comments y Photos son listas embebidas de solo-agregar.
type Order struct {
	ID          int64         `json:"id"`
	CompanyID   int64         `json:"company_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      OrderStatus   `json:"status"`
	Priority    OrderPriority `json:"priority"`
	Location    string        `json:"location"`
	ClientID    *int64        `json:"client_id"`
	AssignedTo  *int64        `json:"assigned_to"`
	Comments    []Comment     `json:"comments"`
	Photos      []Photo       `json:"photos"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	CompletedAt *time.Time    `json:"completed_at"`
}

// NextCommentID devuelve max(id)+1 sobre los comentarios existentes.
func (o *Order) NextCommentID() int64 {
	var max int64
	for _, c := range o.Comments {
		if c.ID > max {
			max = c.ID
		}
	}
	return max + 1
}

// Comment comentario sobre una orden.
type Comment struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Photo imagen adjunta (URL suele ser un data URI).
type Photo struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

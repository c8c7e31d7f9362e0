package entity

import "time"

// Severidades de notificación.
const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// NotificationTypeProduct tipo de las notificaciones generadas por productos.
const NotificationTypeProduct = "product"

// Notification alerta mostrada en la campana de los usuarios de CompanyID. Key es la
// clave natural usada para deduplicar dentro de la empresa (vacía = sin deduplicación).
type Notification struct {
	ID        string    `json:"id"`
	CompanyID int64     `json:"companyId"`
	Key       string    `json:"key,omitempty"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	Type      string    `json:"type,omitempty"`
	ProductID *int64    `json:"productId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

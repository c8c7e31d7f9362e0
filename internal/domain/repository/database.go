package repository

import "context"

// Record documento tipo JSON de una colección. Siempre lleva "id" numérico.
type Record map[string]any

// Criteria filtro por igualdad exacta (AND) sobre campos de primer nivel.
type Criteria map[string]any

// ChangeAction tipo de cambio emitido a los suscriptores.
type ChangeAction string

const (
	ActionInsert ChangeAction = "insert"
	ActionUpdate ChangeAction = "update"
	ActionDelete ChangeAction = "delete"
)

// ChangeEvent cambio aplicado sobre una colección. Document es el registro resultante
// (insert/update) o el registro antes de borrarse (delete).
type ChangeEvent struct {
	Action     ChangeAction `json:"action"`
	Collection string       `json:"collection"`
	Document   Record       `json:"document"`
}

// ChangeListener recibe los cambios de una colección. Puede mutar el almacén con
// cualquier ctx: la mutación se aplica de inmediato y su evento se entrega después
// de que todos los listeners reciban el evento actual.
type ChangeListener func(ctx context.Context, ev ChangeEvent)

// Database puerto del almacén documental en memoria.
// Las lecturas devuelven copias: mutarlas no altera el almacén.
type Database interface {
	Find(ctx context.Context, collection string, criteria Criteria) ([]Record, error)
	FindOne(ctx context.Context, collection string, criteria Criteria) (Record, error)
	Insert(ctx context.Context, collection string, doc Record) (Record, error)
	// Update mezcla patch sobre el registro (superficial). Devuelve nil si el id no existe.
	Update(ctx context.Context, collection string, id int64, patch Record) (Record, error)
	// UpdateFunc lee-modifica-escribe de forma atómica. fn recibe una copia del registro
	// y devuelve el patch a mezclar. Devuelve nil si el id no existe.
	UpdateFunc(ctx context.Context, collection string, id int64, fn func(current Record) (Record, error)) (Record, error)
	Delete(ctx context.Context, collection string, id int64) (bool, error)
	// Subscribe registra listener; la función devuelta lo desregistra (idempotente).
	Subscribe(collection string, listener ChangeListener) (unsubscribe func())
}

package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/jhoicas/ops-dashboard-api/internal/application/auth"
	"github.com/jhoicas/ops-dashboard-api/internal/application/dto"
	"github.com/jhoicas/ops-dashboard-api/internal/domain"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/permission"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/repository"
)

// StatusCommentPrefix texto del comentario automático al cambiar el estado.
const StatusCommentPrefix = "Estado actualizado a: "

// OrderUseCase casos de uso de órdenes de trabajo. Cada operación recibe el usuario
// autenticado y aplica el alcance de su rol.
type OrderUseCase struct {
	orders   repository.OrderRepository
	users    repository.UserRepository
	registry *permission.Registry
	now      func() time.Time
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(orders repository.OrderRepository, users repository.UserRepository, registry *permission.Registry) *OrderUseCase {
	return &OrderUseCase{orders: orders, users: users, registry: registry, now: time.Now}
}

// Scope criterio de las órdenes visibles para actor: el cliente ve las suyas, el
// operador las asignadas y supervisor/admin todas las de su empresa.
func Scope(actor *auth.UserData) repository.Criteria {
	c := repository.Criteria{"company_id": actor.CompanyID}
	switch actor.Role {
	case entity.RoleClient:
		c["client_id"] = actor.ID
	case entity.RoleOperador:
		c["assigned_to"] = actor.ID
	}
	return c
}

// checkAccess aplica el mismo alcance de Scope a una orden concreta.
// Otra empresa → ErrNotFound; fuera del alcance del rol → ErrForbidden.
func checkAccess(actor *auth.UserData, o *entity.Order) error {
	if o.CompanyID != actor.CompanyID {
		return domain.ErrNotFound
	}
	switch actor.Role {
	case entity.RoleClient:
		if o.ClientID == nil || *o.ClientID != actor.ID {
			return fmt.Errorf("%w: la orden no pertenece al cliente", domain.ErrForbidden)
		}
	case entity.RoleOperador:
		if o.AssignedTo == nil || *o.AssignedTo != actor.ID {
			return fmt.Errorf("%w: la orden no está asignada al operador", domain.ErrForbidden)
		}
	}
	return nil
}

// List devuelve las órdenes visibles con filtros y búsqueda, más recientes primero.
func (uc *OrderUseCase) List(ctx context.Context, actor *auth.UserData, f dto.OrderFilter) (*dto.OrderListResponse, error) {
	criteria := Scope(actor)
	if f.Status != "" {
		criteria["status"] = f.Status
	}
	if f.Priority != "" {
		criteria["priority"] = f.Priority
	}
	list, err := uc.orders.Find(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("listar órdenes: %w", err)
	}
	list = lo.Filter(list, func(o *entity.Order, _ int) bool {
		return containsFolded(f.Search, o.Title, o.Description, o.Location)
	})
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})

	names, err := uc.userNames(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	pageItems, page := paginate(list, f.PageRequest)
	items := lo.Map(pageItems, func(o *entity.Order, _ int) dto.OrderResponse {
		return toOrderResponse(o, names)
	})
	return &dto.OrderListResponse{Items: items, Page: page}, nil
}

// Get devuelve el detalle de una orden.
func (uc *OrderUseCase) Get(ctx context.Context, actor *auth.UserData, id int64) (*dto.OrderResponse, error) {
	o, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return uc.respond(ctx, o)
}

// Create registra una orden pendiente. Si quien la crea es cliente queda como su dueño.
func (uc *OrderUseCase) Create(ctx context.Context, actor *auth.UserData, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	title := strings.TrimSpace(in.Title)
	desc := strings.TrimSpace(in.Description)
	loc := strings.TrimSpace(in.Location)
	if title == "" || desc == "" || loc == "" {
		return nil, fmt.Errorf("%w: título, descripción y ubicación son requeridos", domain.ErrInvalidInput)
	}
	priority := entity.OrderPriority(in.Priority)
	if priority == "" {
		priority = entity.PriorityMedium
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("%w: prioridad inválida %q", domain.ErrInvalidInput, in.Priority)
	}

	now := uc.now().UTC()
	o := &entity.Order{
		CompanyID:   actor.CompanyID,
		Title:       title,
		Description: desc,
		Location:    loc,
		Priority:    priority,
		Status:      entity.OrderPending,
		Comments:    []entity.Comment{},
		Photos:      []entity.Photo{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if actor.Role == entity.RoleClient {
		id := actor.ID
		o.ClientID = &id
	}
	if err := uc.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("crear orden: %w", err)
	}
	return uc.respond(ctx, o)
}

// Update edita los datos de la orden. Cambiar la asignación exige assign_order y que
// el destino sea un operador de la misma empresa.
func (uc *OrderUseCase) Update(ctx context.Context, actor *auth.UserData, id int64, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	current, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	desc := strings.TrimSpace(in.Description)
	loc := strings.TrimSpace(in.Location)
	if title == "" || desc == "" || loc == "" {
		return nil, fmt.Errorf("%w: título, descripción y ubicación son requeridos", domain.ErrInvalidInput)
	}
	priority := entity.OrderPriority(in.Priority)
	if !priority.IsValid() {
		return nil, fmt.Errorf("%w: prioridad inválida %q", domain.ErrInvalidInput, in.Priority)
	}

	reassign := in.AssignedTo != nil && (current.AssignedTo == nil || *current.AssignedTo != *in.AssignedTo)
	if reassign {
		if err := uc.checkAssignee(ctx, actor, *in.AssignedTo); err != nil {
			return nil, err
		}
	}

	updated, err := uc.orders.Modify(ctx, id, func(o *entity.Order) error {
		o.Title = title
		o.Description = desc
		o.Location = loc
		o.Priority = priority
		if reassign {
			target := *in.AssignedTo
			o.AssignedTo = &target
		}
		o.UpdatedAt = uc.now().UTC()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("actualizar orden: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}
	return uc.respond(ctx, updated)
}

func (uc *OrderUseCase) checkAssignee(ctx context.Context, actor *auth.UserData, userID int64) error {
	if !uc.registry.HasPermission(actor.Role, permission.AssignOrder) {
		return fmt.Errorf("%w: se requiere el permiso %s", domain.ErrForbidden, permission.AssignOrder)
	}
	target, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("obtener operador: %w", err)
	}
	if target == nil || target.CompanyID != actor.CompanyID || target.Role != entity.RoleOperador {
		return fmt.Errorf("%w: solo se puede asignar a un operador de la empresa", domain.ErrInvalidInput)
	}
	return nil
}

// UpdateStatus cambia el estado (cualquier transición) y agrega en la misma escritura
// el comentario automático. completed registra completed_at; salir de completed lo limpia.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, actor *auth.UserData, id int64, status string) (*dto.OrderResponse, error) {
	st := entity.OrderStatus(status)
	if !st.IsValid() {
		return nil, fmt.Errorf("%w: estado inválido %q", domain.ErrInvalidInput, status)
	}
	if _, err := uc.load(ctx, actor, id); err != nil {
		return nil, err
	}
	updated, err := uc.orders.Modify(ctx, id, func(o *entity.Order) error {
		now := uc.now().UTC()
		o.Status = st
		if st == entity.OrderCompleted {
			o.CompletedAt = &now
		} else {
			o.CompletedAt = nil
		}
		o.Comments = append(o.Comments, entity.Comment{
			ID:        o.NextCommentID(),
			UserID:    actor.ID,
			Text:      StatusCommentPrefix + string(st),
			Timestamp: now,
		})
		o.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("actualizar estado: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}
	return uc.respond(ctx, updated)
}

// AddComment agrega un comentario al final de la lista.
func (uc *OrderUseCase) AddComment(ctx context.Context, actor *auth.UserData, id int64, text string) (*dto.OrderResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: el comentario no puede estar vacío", domain.ErrInvalidInput)
	}
	if _, err := uc.load(ctx, actor, id); err != nil {
		return nil, err
	}
	updated, err := uc.orders.Modify(ctx, id, func(o *entity.Order) error {
		now := uc.now().UTC()
		o.Comments = append(o.Comments, entity.Comment{
			ID:        o.NextCommentID(),
			UserID:    actor.ID,
			Text:      text,
			Timestamp: now,
		})
		o.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("agregar comentario: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}
	return uc.respond(ctx, updated)
}

// AddPhoto adjunta una imagen ya codificada (url suele ser un data URI).
func (uc *OrderUseCase) AddPhoto(ctx context.Context, actor *auth.UserData, id int64, name, url string) (*dto.OrderResponse, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: la foto no tiene contenido", domain.ErrInvalidInput)
	}
	if _, err := uc.load(ctx, actor, id); err != nil {
		return nil, err
	}
	updated, err := uc.orders.Modify(ctx, id, func(o *entity.Order) error {
		o.Photos = append(o.Photos, entity.Photo{ID: uuid.NewString(), URL: url, Name: name})
		o.UpdatedAt = uc.now().UTC()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("agregar foto: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}
	return uc.respond(ctx, updated)
}

// Delete elimina la orden. ErrNotFound si no existe o no es de la empresa.
func (uc *OrderUseCase) Delete(ctx context.Context, actor *auth.UserData, id int64) error {
	if _, err := uc.load(ctx, actor, id); err != nil {
		return err
	}
	ok, err := uc.orders.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("eliminar orden: %w", err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// AssignableUsers operadores de la empresa del actor.
func (uc *OrderUseCase) AssignableUsers(ctx context.Context, actor *auth.UserData) ([]dto.AssigneeResponse, error) {
	ops, err := uc.users.ListByRole(ctx, actor.CompanyID, entity.RoleOperador)
	if err != nil {
		return nil, fmt.Errorf("listar operadores: %w", err)
	}
	return lo.Map(ops, func(u *entity.User, _ int) dto.AssigneeResponse {
		return dto.AssigneeResponse{ID: u.ID, Name: u.Name, Area: u.Area}
	}), nil
}

func (uc *OrderUseCase) load(ctx context.Context, actor *auth.UserData, id int64) (*entity.Order, error) {
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener orden: %w", err)
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if err := checkAccess(actor, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (uc *OrderUseCase) respond(ctx context.Context, o *entity.Order) (*dto.OrderResponse, error) {
	names, err := uc.userNames(ctx, o.CompanyID)
	if err != nil {
		return nil, err
	}
	out := toOrderResponse(o, names)
	return &out, nil
}

func (uc *OrderUseCase) userNames(ctx context.Context, companyID int64) (map[int64]string, error) {
	users, err := uc.users.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}
	return lo.SliceToMap(users, func(u *entity.User) (int64, string) {
		return u.ID, u.Name
	}), nil
}

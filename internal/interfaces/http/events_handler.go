package http

import (
	"bufio"
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ops-dashboard-api/internal/application/auth"
	"github.com/jhoicas/ops-dashboard-api/internal/application/dto"
	"github.com/jhoicas/ops-dashboard-api/internal/application/usecase"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/permission"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/repository"
	"github.com/jhoicas/ops-dashboard-api/internal/infrastructure/memdb"
	"github.com/jhoicas/ops-dashboard-api/pkg/logger"
)

// eventBuffer cambios pendientes por conexión antes de empezar a descartar.
const eventBuffer = 64

// streamCollections colecciones observables y el permiso que exige cada una.
var streamCollections = map[string]permission.Permission{
	memdb.CollectionOrders:   permission.ViewOrders,
	memdb.CollectionProducts: permission.ViewProducts,
	memdb.CollectionUsers:    permission.ManageUsers,
}

// EventsHandler difunde por SSE los cambios del almacén que el usuario puede ver.
type EventsHandler struct {
	db       repository.Database
	registry *permission.Registry
	done     <-chan struct{}
	log      *logger.Logger
}

// NewEventsHandler construye el handler. Al cerrarse done terminan los streams abiertos.
func NewEventsHandler(db repository.Database, registry *permission.Registry, done <-chan struct{}, log *logger.Logger) *EventsHandler {
	return &EventsHandler{db: db, registry: registry, done: done, log: log.Named("events")}
}

// Stream godoc
// @Summary      Cambios en vivo (SSE)
// @Description  Un evento "change" por cada insert/update/delete visible para el usuario.
// @Tags         events
// @Security     Bearer
// @Produce      text/event-stream
// @Param        collections   query  string  false  "Lista separada por comas (orders,products,users)"  default(orders,products)
// @Param        access_token  query  string  false  "Token cuando no se puede enviar el header"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/events [get]
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	actor := GetUser(c)
	names, err := parseCollections(c.Query("collections", "orders,products"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	for _, name := range names {
		if !h.registry.HasPermission(actor.Role, streamCollections[name]) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "sin permiso para observar " + name})
		}
	}

	return streamSSE(c, func(w *bufio.Writer) {
		events := make(chan repository.ChangeEvent, eventBuffer)
		for _, name := range names {
			scope := eventScope(actor, name)
			unsubscribe := h.db.Subscribe(name, func(_ context.Context, ev repository.ChangeEvent) {
				if !memdb.Matches(ev.Document, scope) {
					return
				}
				if ev.Collection == memdb.CollectionUsers {
					ev.Document = withoutPassword(ev.Document)
				}
				select {
				case events <- ev:
				default:
					h.log.Warn().Int64("user_id", actor.ID).Str("collection", ev.Collection).Msg("cliente lento: evento descartado")
				}
			})
			defer unsubscribe()
		}

		if err := writeSSE(w, "ready", fiber.Map{"collections": names}); err != nil {
			return
		}
		ticker := time.NewTicker(sseHeartbeat)
		defer ticker.Stop()
		for {
			select {
			case ev := <-events:
				if err := writeSSE(w, "change", ev); err != nil {
					return
				}
			case <-ticker.C:
				if err := writeHeartbeat(w); err != nil {
					return
				}
			case <-h.done:
				return
			}
		}
	})
}

func parseCollections(raw string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		if _, ok := streamCollections[name]; !ok {
			return nil, fiber.NewError(fiber.StatusBadRequest, "colección desconocida: "+name)
		}
		seen[name] = true
		out = append(out, name)
	}
	if len(out) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "collections vacío")
	}
	return out, nil
}

// eventScope alcance de los documentos de collection visibles para actor.
func eventScope(actor *auth.UserData, collection string) repository.Criteria {
	if collection == memdb.CollectionOrders {
		return usecase.Scope(actor)
	}
	return repository.Criteria{"company_id": actor.CompanyID}
}

func withoutPassword(doc repository.Record) repository.Record {
	out := make(repository.Record, len(doc))
	for k, v := range doc {
		if k != "password" {
			out[k] = v
		}
	}
	return out
}

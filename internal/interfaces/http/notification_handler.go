package http

import (
	"bufio"
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ops-dashboard-api/internal/application/dto"
	"github.com/jhoicas/ops-dashboard-api/internal/application/notification"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/ops-dashboard-api/pkg/logger"
)

// NotificationHandler campana de notificaciones de la empresa del usuario autenticado.
type NotificationHandler struct {
	store *notification.Store
	done  <-chan struct{}
	log   *logger.Logger
}

// NewNotificationHandler construye el handler. Al cerrarse done terminan los streams abiertos.
func NewNotificationHandler(store *notification.Store, done <-chan struct{}, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{store: store, done: done, log: log}
}

// UnreadCountResponse cantidad de notificaciones sin leer.
type UnreadCountResponse struct {
	Count int `json:"count"`
}

// List godoc
// @Summary      Listar notificaciones de la empresa (más reciente primero)
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.Notification
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.store.List(GetUser(c).CompanyID))
}

// UnreadCount godoc
// @Summary      Cantidad sin leer
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  UnreadCountResponse
// @Router       /api/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	return c.JSON(UnreadCountResponse{Count: h.store.UnreadCount(GetUser(c).CompanyID)})
}

// MarkAsRead godoc
// @Summary      Marcar como leída
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la notificación"
// @Success      200  {object}  dto.OKResponse
// @Router       /api/notifications/{id}/read [post]
func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	if err := h.store.MarkAsRead(c.UserContext(), GetUser(c).CompanyID, c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.OKResponse{OK: true})
}

// MarkAllAsRead godoc
// @Summary      Marcar todas como leídas
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OKResponse
// @Router       /api/notifications/read-all [post]
func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	if err := h.store.MarkAllAsRead(c.UserContext(), GetUser(c).CompanyID); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.OKResponse{OK: true})
}

// Remove godoc
// @Summary      Eliminar notificación
// @Tags         notifications
// @Security     Bearer
// @Param        id   path  string  true  "ID de la notificación"
// @Success      204
// @Router       /api/notifications/{id} [delete]
func (h *NotificationHandler) Remove(c *fiber.Ctx) error {
	if err := h.store.Remove(c.UserContext(), GetUser(c).CompanyID, c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Clear godoc
// @Summary      Eliminar todas las de la empresa
// @Tags         notifications
// @Security     Bearer
// @Success      204
// @Router       /api/notifications [delete]
func (h *NotificationHandler) Clear(c *fiber.Ctx) error {
	if err := h.store.Clear(c.UserContext(), GetUser(c).CompanyID); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Stream godoc
// @Summary      Stream de notificaciones (SSE)
// @Description  Envía la lista completa al conectar y tras cada cambio (evento "notifications").
// @Tags         notifications
// @Security     Bearer
// @Produce      text/event-stream
// @Param        access_token  query  string  false  "Token cuando no se puede enviar el header"
// @Success      200
// @Router       /api/notifications/stream [get]
func (h *NotificationHandler) Stream(c *fiber.Ctx) error {
	user := GetUser(c)
	userID, companyID := user.ID, user.CompanyID
	return streamSSE(c, func(w *bufio.Writer) {
		latest := make(chan []entity.Notification, 1)
		unsubscribe := h.store.Subscribe(companyID, func(_ context.Context, list []entity.Notification) {
			offerLatest(latest, list)
		})
		defer unsubscribe()

		log := h.log.Named("sse")
		log.Debug().Int64("user_id", userID).Msg("stream de notificaciones abierto")
		defer log.Debug().Int64("user_id", userID).Msg("stream de notificaciones cerrado")

		if err := writeSSE(w, "notifications", h.store.List(companyID)); err != nil {
			return
		}
		ticker := time.NewTicker(sseHeartbeat)
		defer ticker.Stop()
		for {
			select {
			case list := <-latest:
				if err := writeSSE(w, "notifications", list); err != nil {
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

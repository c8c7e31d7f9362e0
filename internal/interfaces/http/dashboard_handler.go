package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ops-dashboard-api/internal/application/analytics"
	"github.com/jhoicas/ops-dashboard-api/pkg/logger"
)

// DashboardHandler expone el resumen del panel.
type DashboardHandler struct {
	uc  *analytics.DashboardUseCase
	log *logger.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, log: log}
}

// GetSummary godoc
// @Summary      Resumen del panel
// @Description  Totales de productos por área, stock bajo, conteo de órdenes por estado y notificaciones sin leer.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	out, err := h.uc.GetSummary(c.UserContext(), GetUser(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// AreaProducts godoc
// @Summary      Productos de un área
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        area  path   string  true   "Área"
// @Param        from  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to    query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200   {object}  dto.AreaProductsDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/dashboard/areas/{area}/products [get]
func (h *DashboardHandler) AreaProducts(c *fiber.Ctx) error {
	out, err := h.uc.AreaProducts(c.UserContext(), GetUser(c), c.Params("area"), c.Query("from"), c.Query("to"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

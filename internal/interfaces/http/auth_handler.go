package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ops-dashboard-api/internal/application/auth"
	"github.com/jhoicas/ops-dashboard-api/internal/application/dto"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/permission"
	"github.com/jhoicas/ops-dashboard-api/pkg/logger"
)

// AuthHandler login, logout y consulta de la sesión y sus permisos.
type AuthHandler struct {
	sessions   *auth.SessionManager
	registry   *permission.Registry
	menu       []permission.MenuItem
	expMinutes int
	log        *logger.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(sessions *auth.SessionManager, registry *permission.Registry, menu []permission.MenuItem, expMinutes int, log *logger.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, registry: registry, menu: menu, expMinutes: expMinutes, log: log}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password y company_id opcional"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	ctx := c.UserContext()
	session := h.sessions.NewSession()
	ud, err := session.Login(ctx, auth.Credentials{Email: in.Email, Password: in.Password, CompanyID: in.CompanyID})
	if err != nil {
		return respondError(c, h.log, err)
	}
	token, err := session.GetToken(ctx)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.LoginResponse{Token: token, ExpiresIn: h.expMinutes * 60, User: toSessionUser(ud)})
}

// Logout godoc
// @Summary      Cerrar sesión (revoca el token)
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OKResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := GetSession(c).Logout(c.UserContext()); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.OKResponse{OK: true})
}

// Session godoc
// @Summary      Estado de la sesión del token enviado
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/auth/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	tok, ok, _ := bearerTokenQuiet(c)
	if !ok {
		return c.JSON(dto.SessionResponse{Authenticated: false})
	}
	_, ud, err := h.sessions.Authenticate(c.UserContext(), tok)
	if err != nil {
		return c.JSON(dto.SessionResponse{Authenticated: false})
	}
	u := toSessionUser(ud)
	return c.JSON(dto.SessionResponse{Authenticated: true, User: &u})
}

// Menu godoc
// @Summary      Menú de navegación según el rol
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MenuItemDTO
// @Router       /api/me/menu [get]
func (h *AuthHandler) Menu(c *fiber.Ctx) error {
	items := h.registry.MenuFor(GetUser(c).Role, h.menu)
	out := make([]dto.MenuItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, dto.MenuItemDTO{Label: it.Label, Path: it.Path})
	}
	return c.JSON(out)
}

// Permissions godoc
// @Summary      Permisos efectivos del rol
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PermissionsResponse
// @Router       /api/me/permissions [get]
func (h *AuthHandler) Permissions(c *fiber.Ctx) error {
	role := GetUser(c).Role
	level, _ := h.registry.Level(role)
	perms := h.registry.Permissions(role)
	out := dto.PermissionsResponse{Role: string(role), Level: level, Permissions: make([]string, 0, len(perms))}
	for _, p := range perms {
		out.Permissions = append(out.Permissions, string(p))
	}
	return c.JSON(out)
}

func toSessionUser(ud *auth.UserData) dto.SessionUser {
	return dto.SessionUser{
		ID:        ud.ID,
		Name:      ud.Name,
		Email:     ud.Email,
		Role:      string(ud.Role),
		Area:      ud.Area,
		CompanyID: ud.CompanyID,
		Location:  ud.Location,
	}
}

package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ops-dashboard-api/internal/application/auth"
	"github.com/jhoicas/ops-dashboard-api/internal/application/dto"
	"github.com/jhoicas/ops-dashboard-api/internal/domain"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/permission"
	"github.com/jhoicas/ops-dashboard-api/pkg/logger"
)

// Locals keys para la sesión y el usuario autenticado en Fiber.
const (
	LocalSession = "session"
	LocalUser    = "user"
)

// authenticator lo implementa *auth.SessionManager.
type authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Session, *auth.UserData, error)
}

// AuthMiddleware valida el Bearer Token contra la sesión persistida y carga sesión y
// usuario en c.Locals. Como EventSource no envía cabeceras, acepta también ?access_token=.
func AuthMiddleware(sessions authenticator, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok, err := bearerToken(c)
		if !ok {
			return err
		}
		session, user, err := sessions.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido, expirado o sesión cerrada"})
			}
			return respondError(c, log, err)
		}
		c.Locals(LocalSession, session)
		c.Locals(LocalUser, user)
		return c.Next()
	}
}

// bearerTokenQuiet extrae el token sin escribir respuesta.
func bearerTokenQuiet(c *fiber.Ctx) (string, bool, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		tok := c.Query("access_token")
		return tok, tok != "", nil
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false, nil
	}
	tok := strings.TrimSpace(parts[1])
	return tok, tok != "", nil
}

func bearerToken(c *fiber.Ctx) (string, bool, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		if tok := c.Query("access_token"); tok != "" {
			return tok, true, nil
		}
		return "", false, c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false, c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
	}
	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return "", false, c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
	}
	return tokenString, true, nil
}

// RequirePermission exige que el rol del usuario autenticado tenga todos perms.
// Debe usarse DESPUÉS de AuthMiddleware.
func RequirePermission(registry *permission.Registry, perms ...permission.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión requerida"})
		}
		if !registry.HasPermission(user.Role, perms...) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "permiso requerido: " + joinPermissions(perms),
			})
		}
		return c.Next()
	}
}

func joinPermissions(perms []permission.Permission) string {
	s := make([]string, len(perms))
	for i, p := range perms {
		s[i] = string(p)
	}
	return strings.Join(s, ", ")
}

// GetUser devuelve el usuario autenticado (después del middleware de auth).
func GetUser(c *fiber.Ctx) *auth.UserData {
	u, _ := c.Locals(LocalUser).(*auth.UserData)
	return u
}

// GetSession devuelve la sesión autenticada (después del middleware de auth).
func GetSession(c *fiber.Ctx) *auth.Session {
	s, _ := c.Locals(LocalSession).(*auth.Session)
	return s
}

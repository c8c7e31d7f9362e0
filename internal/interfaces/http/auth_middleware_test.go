package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinToken_Retorna401(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/api/orders", "", nil)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, resp))
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/api/orders", "token.invalido.aqui", nil)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, resp))
}

func TestAuthMiddleware_FormatoSinBearer_Retorna401(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Basic abc")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_AceptaAccessTokenEnQuery(t *testing.T) {
	s := newTestServer(t)
	tok := s.login(t, "admin@empresa.com", "admin123")

	resp := s.do(t, http.MethodGet, "/api/notifications/unread-count?access_token="+tok, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogout_RevocaElToken(t *testing.T) {
	s := newTestServer(t)
	tok := s.login(t, "admin@empresa.com", "admin123")

	resp := s.do(t, http.MethodPost, "/api/auth/logout", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/orders", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "un token de sesión cerrada no debe servir")
}

func TestSession_InformaEstado(t *testing.T) {
	s := newTestServer(t)

	var body struct {
		Authenticated bool `json:"authenticated"`
		User          *struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	decode(t, s.do(t, http.MethodGet, "/api/auth/session", "", nil), &body)
	assert.False(t, body.Authenticated)

	tok := s.login(t, "cliente@empresa.com", "cliente123")
	decode(t, s.do(t, http.MethodGet, "/api/auth/session", tok, nil), &body)
	assert.True(t, body.Authenticated)
	require.NotNil(t, body.User)
	assert.Equal(t, "cliente@empresa.com", body.User.Email)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_CredencialesIncorrectas_Retorna401(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "admin@empresa.com", "password": "mala"})

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, resp))
}

func TestLogin_EmailInvalido_Retorna400ConCampos(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "no-es-email", "password": "x"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Fields map[string]string `json:"fields"`
	}
	decode(t, resp, &body)
	assert.Contains(t, body.Fields, "email")
}

// ──────────────────────────────────────────────────────────────────────────────
// RequirePermission
// ──────────────────────────────────────────────────────────────────────────────

func TestRequirePermission_AdminGestionaUsuarios(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/api/users", s.login(t, "admin@empresa.com", "admin123"), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequirePermission_SinPermiso_Retorna403(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		name, email, password, method, path string
	}{
		{"supervisor no gestiona usuarios", "supervisor@empresa.com", "super123", http.MethodGet, "/api/users"},
		{"operador no elimina órdenes", "tecnico@empresa.com", "tecnico123", http.MethodDelete, "/api/orders/1"},
		{"cliente no crea productos", "cliente@empresa.com", "cliente123", http.MethodPost, "/api/products"},
		{"cliente no cambia estados", "cliente@empresa.com", "cliente123", http.MethodPatch, "/api/orders/1/status"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tok := s.login(t, tc.email, tc.password)
			resp := s.do(t, tc.method, tc.path, tok, nil)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
			assert.Equal(t, "FORBIDDEN", errorCode(t, resp))
		})
	}
}

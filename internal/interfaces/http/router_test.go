package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/ops-dashboard-api/internal/application/analytics"
	"github.com/jhoicas/ops-dashboard-api/internal/application/auth"
	"github.com/jhoicas/ops-dashboard-api/internal/application/notification"
	"github.com/jhoicas/ops-dashboard-api/internal/application/usecase"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/permission"
	"github.com/jhoicas/ops-dashboard-api/internal/infrastructure/kv"
	"github.com/jhoicas/ops-dashboard-api/internal/infrastructure/memdb"
	"github.com/jhoicas/ops-dashboard-api/internal/infrastructure/pdf"
	"github.com/jhoicas/ops-dashboard-api/internal/infrastructure/upload"
	apphttp "github.com/jhoicas/ops-dashboard-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor de test: router completo sobre un almacén sembrado con los fixtures
// ──────────────────────────────────────────────────────────────────────────────

const testMaxUpload = 1 << 20

type testServer struct {
	app           *fiber.App
	db            *memdb.Store
	notifications *notification.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	db := memdb.New(nil)
	require.NoError(t, memdb.Seed(ctx, db, hasher.Hash))

	registry := permission.NewRegistry()
	storage := kv.NewMemoryStorage()
	notifications, err := notification.NewStore(ctx, storage, nil)
	require.NoError(t, err)

	users := memdb.NewUserRepository(db)
	orders := memdb.NewOrderRepository(db)
	products := memdb.NewProductRepository(db)
	companies := memdb.NewCompanyRepository(db)

	sessions := auth.NewSessionManager(storage, users, registry, hasher,
		auth.JWTConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "ops-test"}, nil)
	orderUC := usecase.NewOrderUseCase(orders, users, registry)
	productUC := usecase.NewProductUseCase(products, notifications, usecase.DefaultLowStockThreshold, nil)

	done := make(chan struct{})
	t.Cleanup(func() { close(done) })

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Sessions:      sessions,
		Registry:      registry,
		Menu:          permission.DefaultMenu(),
		JWTExpMinutes: 60,
		CompanyUC:     usecase.NewCompanyUseCase(companies),
		UserUC:        usecase.NewUserUseCase(users, registry, hasher),
		ProfileUC:     usecase.NewProfileUseCase(users, hasher),
		OrderUC:       orderUC,
		OrderSheet:    usecase.NewOrderSheetUseCase(orderUC, companies, users, pdf.NewOrderSheetGenerator()),
		ProductUC:     productUC,
		DashboardUC:   analytics.NewDashboardUseCase(products, orders, productUC, notifications),
		Notifications: notifications,
		Database:      db,
		Uploads:       upload.InlineStorage{},
		MaxUpload:     testMaxUpload,
		Done:          done,
	})
	return &testServer{app: app, db: db, notifications: notifications}
}

// login inicia sesión con las credenciales de un usuario sembrado y devuelve el token.
func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": email, "password": password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Token string `json:"token"`
	}
	decode(t, resp, &body)
	require.NotEmpty(t, body.Token)
	return body.Token
}

// do lanza la petición con body JSON opcional y token opcional.
func (s *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	decode(t, resp, &body)
	return body.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Menú y permisos
// ──────────────────────────────────────────────────────────────────────────────

func TestMenu_FiltradoPorRol(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		email, password string
		paths           []string
	}{
		{"admin@empresa.com", "admin123", []string{"/dashboard", "/orders", "/products", "/users"}},
		{"tecnico@empresa.com", "tecnico123", []string{"/dashboard", "/orders", "/products"}},
		{"cliente@empresa.com", "cliente123", []string{"/dashboard", "/orders", "/products"}},
	}
	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			tok := s.login(t, tc.email, tc.password)
			resp := s.do(t, http.MethodGet, "/api/me/menu", tok, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var items []struct {
				Path string `json:"path"`
			}
			decode(t, resp, &items)
			paths := make([]string, 0, len(items))
			for _, it := range items {
				paths = append(paths, it.Path)
			}
			assert.Equal(t, tc.paths, paths)
		})
	}
}

func TestPermissions_DevuelveNivelDelRol(t *testing.T) {
	s := newTestServer(t)
	tok := s.login(t, "supervisor@empresa.com", "super123")

	resp := s.do(t, http.MethodGet, "/api/me/permissions", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Role        string   `json:"role"`
		Level       int      `json:"level"`
		Permissions []string `json:"permissions"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "supervisor", body.Role)
	assert.Equal(t, 2, body.Level)
	assert.Contains(t, body.Permissions, "assign_order")
	assert.NotContains(t, body.Permissions, "manage_users")
}

func TestCompanies_NoAdminVeSoloLaPropia(t *testing.T) {
	s := newTestServer(t)

	var list []map[string]any
	decode(t, s.do(t, http.MethodGet, "/api/companies", s.login(t, "tecnico@empresa.com", "tecnico123"), nil), &list)
	assert.Len(t, list, 1)

	decode(t, s.do(t, http.MethodGet, "/api/companies", s.login(t, "admin@empresa.com", "admin123"), nil), &list)
	assert.Len(t, list, 2)
}

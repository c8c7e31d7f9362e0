package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/ops-dashboard-api/internal/application/auth"
	"github.com/jhoicas/ops-dashboard-api/internal/domain"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/permission"
	"github.com/jhoicas/ops-dashboard-api/internal/infrastructure/kv"
	"github.com/jhoicas/ops-dashboard-api/internal/infrastructure/memdb"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	storage *kv.MemoryStorage
	db      *memdb.Store
	manager *auth.SessionManager
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	db := memdb.New(nil)
	require.NoError(t, memdb.Seed(ctx, db, hasher.Hash))

	storage := kv.NewMemoryStorage()
	return fixture{
		storage: storage,
		db:      db,
		manager: newManager(storage, db, hasher),
	}
}

func newManager(storage *kv.MemoryStorage, db *memdb.Store, hasher *auth.PasswordHasher) *auth.SessionManager {
	return auth.NewSessionManager(storage, memdb.NewUserRepository(db), permission.NewRegistry(), hasher,
		auth.JWTConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "ops-test"}, nil)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login / Logout
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_Exitoso_PersisteTokenYUsuario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.manager.NewSession()

	ud, err := s.Login(ctx, auth.Credentials{Email: "tecnico@empresa.com", Password: "tecnico123"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), ud.ID)
	assert.Equal(t, entity.RoleOperador, ud.Role)
	assert.Equal(t, "Sede Central", ud.Location)

	assert.True(t, s.IsAuthenticated(ctx))
	tok, err := s.GetToken(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, tok)

	stored, err := s.GetUserData(ctx)
	require.NoError(t, err)
	assert.Equal(t, ud, stored)
}

func TestLogin_ContrasenaIncorrecta_NoTocaElAlmacenamiento(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.manager.NewSession()

	_, err := s.Login(ctx, auth.Credentials{Email: "admin@empresa.com", Password: "wrong"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "contraseña incorrecta")

	assert.False(t, s.IsAuthenticated(ctx))
	ud, err := s.GetUserData(ctx)
	require.NoError(t, err)
	assert.Nil(t, ud)
}

func TestLogin_UsuarioInexistenteYEmpresaIncorrecta(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.manager.NewSession().Login(ctx, auth.Credentials{Email: "nadie@empresa.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "usuario no encontrado")

	other := int64(2)
	_, err = f.manager.NewSession().Login(ctx, auth.Credentials{Email: "admin@empresa.com", Password: "admin123", CompanyID: &other})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	own := int64(1)
	ud, err := f.manager.NewSession().Login(ctx, auth.Credentials{Email: "admin@empresa.com", Password: "admin123", CompanyID: &own})
	require.NoError(t, err)
	assert.Equal(t, int64(1), ud.CompanyID)
}

func TestLogin_CamposVacios(t *testing.T) {
	_, err := newFixture(t).manager.NewSession().Login(context.Background(), auth.Credentials{Email: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogout_VuelveAAnonimaYRevocaToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.manager.NewSession()
	_, err := s.Login(ctx, auth.Credentials{Email: "admin@empresa.com", Password: "admin123"})
	require.NoError(t, err)
	tok, _ := s.GetToken(ctx)

	_, _, err = f.manager.Authenticate(ctx, tok)
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx))
	require.NoError(t, s.Logout(ctx))
	assert.False(t, s.IsAuthenticated(ctx))

	_, _, err = f.manager.Authenticate(ctx, tok)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "el token ya no es válido tras el logout")
}

// ──────────────────────────────────────────────────────────────────────────────
// Persistencia
// ──────────────────────────────────────────────────────────────────────────────

func TestSesion_SobreviveANuevaInstancia(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.manager.NewSession()
	_, err := s.Login(ctx, auth.Credentials{Email: "supervisor@empresa.com", Password: "super123"})
	require.NoError(t, err)
	tok, _ := s.GetToken(ctx)

	db := memdb.New(nil)
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, memdb.Seed(ctx, db, hasher.Hash))
	reloaded := newManager(f.storage, db, hasher)

	sess, ud, err := reloaded.Authenticate(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, s.ID(), sess.ID())
	assert.Equal(t, "Supervisor", ud.Name)
}

func TestGetUserData_BlobCorruptoDevuelveNil(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.manager.Session("abc")

	require.NoError(t, f.storage.Set(ctx, "session:abc:user_data", []byte("{roto"), 0))
	ud, err := s.GetUserData(ctx)
	require.NoError(t, err)
	assert.Nil(t, ud)
}

func TestSetUserData_ReemplazaSinValidar(t *testing.T) {
	ctx := context.Background()
	s := newFixture(t).manager.NewSession()

	require.NoError(t, s.SetUserData(ctx, &auth.UserData{ID: 9, Name: "Nuevo", Role: "desconocido"}))
	ud, err := s.GetUserData(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Nuevo", ud.Name)
	assert.False(t, s.HasPermission(ctx, permission.ViewDashboard), "rol desconocido no tiene permisos")
}

// ──────────────────────────────────────────────────────────────────────────────
// Permisos
// ──────────────────────────────────────────────────────────────────────────────

func TestHasPermission_SegunRolDeLaSesion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.manager.NewSession()

	assert.False(t, s.HasPermission(ctx), "sin sesión siempre false")

	_, err := s.Login(ctx, auth.Credentials{Email: "tecnico@empresa.com", Password: "tecnico123"})
	require.NoError(t, err)
	assert.True(t, s.HasPermission(ctx, permission.UpdateOrderStatus))
	assert.False(t, s.HasPermission(ctx, permission.DeleteOrder))
	assert.False(t, s.HasPermission(ctx, permission.ViewOrders, permission.ManageUsers))
}

func TestAuthenticate_RefrescaRolCambiado(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.manager.NewSession()
	_, err := s.Login(ctx, auth.Credentials{Email: "supervisor@empresa.com", Password: "super123"})
	require.NoError(t, err)
	tok, _ := s.GetToken(ctx)

	users := memdb.NewUserRepository(f.db)
	u, err := users.GetByID(ctx, 3)
	require.NoError(t, err)
	u.Role = entity.RoleClient
	require.NoError(t, users.Update(ctx, u))

	_, ud, err := f.manager.Authenticate(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleClient, ud.Role)
	assert.False(t, s.HasPermission(ctx, permission.AssignOrder), "la sesión persistida también se actualiza")
}

func TestAuthenticate_UsuarioEliminadoCierraSesion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.manager.NewSession()
	_, err := s.Login(ctx, auth.Credentials{Email: "tecnico@empresa.com", Password: "tecnico123"})
	require.NoError(t, err)
	tok, _ := s.GetToken(ctx)

	removed, err := memdb.NewUserRepository(f.db).Delete(ctx, 2)
	require.NoError(t, err)
	require.True(t, removed)

	_, _, err = f.manager.Authenticate(ctx, tok)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.False(t, s.IsAuthenticated(ctx))
}

func TestAuthenticate_TokenInvalido(t *testing.T) {
	_, _, err := newFixture(t).manager.Authenticate(context.Background(), "no-es-un-jwt")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

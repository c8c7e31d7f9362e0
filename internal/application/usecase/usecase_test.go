package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/ops-dashboard-api/internal/application/auth"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/permission"
	"github.com/jhoicas/ops-dashboard-api/internal/infrastructure/memdb"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type env struct {
	db       *memdb.Store
	users    *memdb.UserRepo
	orders   *memdb.OrderRepo
	products *memdb.ProductRepo
	registry *permission.Registry
	hasher   *auth.PasswordHasher
}

func newEnv(t *testing.T) env {
	t.Helper()
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	db := memdb.New(nil)
	require.NoError(t, memdb.Seed(context.Background(), db, hasher.Hash))
	return env{
		db:       db,
		users:    memdb.NewUserRepository(db),
		orders:   memdb.NewOrderRepository(db),
		products: memdb.NewProductRepository(db),
		registry: permission.NewRegistry(),
		hasher:   hasher,
	}
}

// actor devuelve los datos de sesión del usuario sembrado id.
func (e env) actor(t *testing.T, id int64) *auth.UserData {
	t.Helper()
	u, err := e.users.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, u)
	return auth.NewUserData(u)
}

const (
	adminID      = int64(1)
	operadorID   = int64(2)
	supervisorID = int64(3)
	clientID     = int64(4)
)

// fakeNotifier registra los avisos pedidos; failWith hace fallar todos.
type fakeNotifier struct {
	mu       sync.Mutex
	lowStock []int64
	created  []int64
	deleted  []int64
	failWith error
}

func (f *fakeNotifier) CreateLowStock(_ context.Context, p *entity.Product) (entity.Notification, error) {
	return f.record(&f.lowStock, p)
}

func (f *fakeNotifier) CreateProductCreated(_ context.Context, p *entity.Product) (entity.Notification, error) {
	return f.record(&f.created, p)
}

func (f *fakeNotifier) CreateProductDeleted(_ context.Context, p *entity.Product) (entity.Notification, error) {
	return f.record(&f.deleted, p)
}

func (f *fakeNotifier) record(into *[]int64, p *entity.Product) (entity.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return entity.Notification{}, f.failWith
	}
	*into = append(*into, p.ID)
	return entity.Notification{ID: "n"}, nil
}

// fakeSession captura el SetUserData del perfil.
type fakeSession struct {
	got *auth.UserData
	err error
}

func (s *fakeSession) SetUserData(_ context.Context, ud *auth.UserData) error {
	s.got = ud
	return s.err
}

var errBoom = errors.New("boom")

func memdbCompanies(e env) *memdb.CompanyRepo {
	return memdb.NewCompanyRepository(e.db)
}

package memdb_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ops-dashboard-api/internal/domain"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/repository"
	"github.com/jhoicas/ops-dashboard-api/internal/infrastructure/memdb"
)

func plainHash(p string) (string, error) { return "hash:" + p, nil }

func seeded(t *testing.T) *memdb.Store {
	t.Helper()
	db := memdb.New(nil)
	require.NoError(t, memdb.Seed(context.Background(), db, plainHash))
	return db
}

func TestSeed_ConservaIDsDeFixtures(t *testing.T) {
	ctx := context.Background()
	db := seeded(t)

	users := memdb.NewUserRepository(db)
	admin, err := users.FindByEmail(ctx, "admin@empresa.com")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, int64(1), admin.ID)
	assert.Equal(t, "hash:admin123", admin.Password)
	assert.Equal(t, entity.RoleAdmin, admin.Role)

	products, err := memdb.NewProductRepository(db).Find(ctx, nil)
	require.NoError(t, err)
	require.Len(t, products, 6)
	assert.Equal(t, "PROD-006", products[5].Code)
	assert.Equal(t, int64(6), products[5].ID)

	order, err := memdb.NewOrderRepository(db).GetByID(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, order.CompletedAt)
	assert.Equal(t, time.Date(2023, 5, 7, 16, 30, 0, 0, time.UTC), *order.CompletedAt)
	assert.Len(t, order.Comments, 2)
}

func TestUserRepo_FiltrosPorEmpresaYRol(t *testing.T) {
	ctx := context.Background()
	users := memdb.NewUserRepository(seeded(t))

	u, err := users.FindByEmailAndCompany(ctx, "tecnico@empresa.com", 2)
	require.NoError(t, err)
	assert.Nil(t, u)

	ops, err := users.ListByRole(ctx, 1, entity.RoleOperador)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "Técnico", ops[0].Name)

	all, err := users.ListByCompany(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestUserRepo_UpdateInexistente(t *testing.T) {
	users := memdb.NewUserRepository(memdb.New(nil))
	err := users.Update(context.Background(), &entity.User{ID: 42, Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_EmailRepetidoAlEscribir(t *testing.T) {
	ctx := context.Background()
	users := memdb.NewUserRepository(seeded(t))

	err := users.Create(ctx, &entity.User{Name: "Copia", Email: "admin@empresa.com", CompanyID: 2})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	tecnico, err := users.GetByID(ctx, 2)
	require.NoError(t, err)
	tecnico.Email = "supervisor@empresa.com"
	assert.ErrorIs(t, users.Update(ctx, tecnico), domain.ErrEmailAlreadyExists)

	stored, err := users.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "tecnico@empresa.com", stored.Email)

	stored.Name = "Técnico Senior"
	require.NoError(t, users.Update(ctx, stored), "conservar el propio email no es conflicto")
}

func TestOrderRepo_FindPorCliente(t *testing.T) {
	ctx := context.Background()
	orders := memdb.NewOrderRepository(seeded(t))

	mine, err := orders.Find(ctx, repository.Criteria{"client_id": int64(4)})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Mantenimiento preventivo", mine[0].Title)
}

func TestOrderRepo_ModifyConcurrenteSinPerderComentarios(t *testing.T) {
	ctx := context.Background()
	orders := memdb.NewOrderRepository(seeded(t))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := orders.Modify(ctx, 1, func(o *entity.Order) error {
				o.Comments = append(o.Comments, entity.Comment{ID: o.NextCommentID(), UserID: 2, Text: "c"})
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	o, err := orders.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, o.Comments, 21)
	ids := map[int64]bool{}
	for _, c := range o.Comments {
		assert.False(t, ids[c.ID], "comentario %d duplicado", c.ID)
		ids[c.ID] = true
	}
}

func TestProductRepo_ModifyInexistente(t *testing.T) {
	products := memdb.NewProductRepository(memdb.New(nil))
	p, err := products.Modify(context.Background(), 9, func(*entity.Product) error { return nil })
	require.NoError(t, err)
	assert.Nil(t, p)
}

package notification_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ops-dashboard-api/internal/application/notification"
	"github.com/jhoicas/ops-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/ops-dashboard-api/internal/infrastructure/kv"
)

const (
	acme = int64(1)
	otra = int64(2)
)

func newStore(t *testing.T) (*notification.Store, *kv.MemoryStorage) {
	t.Helper()
	storage := kv.NewMemoryStorage()
	s, err := notification.NewStore(context.Background(), storage, nil)
	require.NoError(t, err)
	return s, storage
}

func product(id int64, qty int) *entity.Product {
	return &entity.Product{
		ID: id, CompanyID: acme, Code: "PROD-00X", Description: "Pieza", Quantity: qty,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta y lectura
// ──────────────────────────────────────────────────────────────────────────────

func TestAdd_CompletaCamposYAgregaAlInicio(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	first, err := s.Add(ctx, entity.Notification{CompanyID: acme, Title: "uno", Read: true})
	require.NoError(t, err)
	second, err := s.Add(ctx, entity.Notification{CompanyID: acme, Title: "dos"})
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.Read, "read siempre arranca en false")
	assert.False(t, first.Timestamp.IsZero())
	assert.Equal(t, entity.SeverityInfo, first.Severity)

	list := s.List(acme)
	require.Len(t, list, 2)
	assert.Equal(t, "dos", list[0].Title)
	assert.Equal(t, 2, s.UnreadCount(acme))
}

func TestAdd_IdempotentePorClave(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	calls := 0
	s.Subscribe(acme, func(context.Context, []entity.Notification) { calls++ })

	a, err := s.CreateLowStock(ctx, product(2, 2))
	require.NoError(t, err)
	b, err := s.CreateLowStock(ctx, product(2, 1))
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	assert.Len(t, s.List(acme), 1)
	assert.Equal(t, 1, calls, "el duplicado no difunde")
}

func TestConstructores_TextosYSeveridad(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	p := &entity.Product{ID: 6, CompanyID: acme, Code: "PROD-006", Description: "Componente Electrónico F", Quantity: 3}

	low, err := s.CreateLowStock(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "Stock bajo", low.Title)
	assert.Equal(t, "El producto PROD-006 - Componente Electrónico F tiene un stock bajo (3 unidades)", low.Message)
	assert.Equal(t, entity.SeverityWarning, low.Severity)
	assert.Equal(t, entity.NotificationTypeProduct, low.Type)
	require.NotNil(t, low.ProductID)
	assert.Equal(t, int64(6), *low.ProductID)

	created, err := s.CreateProductCreated(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "Producto creado", created.Title)
	assert.Equal(t, "Se ha registrado un nuevo producto: PROD-006 - Componente Electrónico F", created.Message)
	assert.Equal(t, entity.SeveritySuccess, created.Severity)

	deleted, err := s.CreateProductDeleted(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "Producto eliminado", deleted.Title)
	assert.Equal(t, "Se ha eliminado el producto: PROD-006 - Componente Electrónico F", deleted.Message)
	assert.Equal(t, entity.SeverityInfo, deleted.Severity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Mutaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestMarkAsRead_YMarkAll(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	a, _ := s.Add(ctx, entity.Notification{CompanyID: acme, Title: "a"})
	_, _ = s.Add(ctx, entity.Notification{CompanyID: acme, Title: "b"})

	require.NoError(t, s.MarkAsRead(ctx, acme, a.ID))
	assert.Equal(t, 1, s.UnreadCount(acme))

	require.NoError(t, s.MarkAsRead(ctx, acme, "no-existe"))
	assert.Equal(t, 1, s.UnreadCount(acme))

	require.NoError(t, s.MarkAllAsRead(ctx, acme))
	assert.Zero(t, s.UnreadCount(acme))
}

func TestRemoveYClear(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	a, _ := s.Add(ctx, entity.Notification{CompanyID: acme, Title: "a"})
	_, _ = s.Add(ctx, entity.Notification{CompanyID: acme, Title: "b"})

	require.NoError(t, s.Remove(ctx, acme, a.ID))
	list := s.List(acme)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].Title)

	require.NoError(t, s.Clear(ctx, acme))
	assert.Empty(t, s.List(acme))
}

func TestList_DevuelveCopia(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	_, _ = s.CreateLowStock(ctx, product(1, 1))

	list := s.List(acme)
	list[0].Title = "x"
	*list[0].ProductID = 99

	again := s.List(acme)
	assert.Equal(t, "Stock bajo", again[0].Title)
	assert.Equal(t, int64(1), *again[0].ProductID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Suscripciones y persistencia
// ──────────────────────────────────────────────────────────────────────────────

func TestSubscribe_RecibeListaCompletaTrasPersistir(t *testing.T) {
	ctx := context.Background()
	s, storage := newStore(t)

	var received [][]entity.Notification
	unsub := s.Subscribe(acme, func(ctx context.Context, list []entity.Notification) {
		raw, err := storage.Get(ctx, notification.StorageKey)
		require.NoError(t, err)
		assert.NotNil(t, raw, "ya está persistido cuando se notifica")
		received = append(received, list)
	})

	_, _ = s.Add(ctx, entity.Notification{CompanyID: acme, Title: "a"})
	_, _ = s.Add(ctx, entity.Notification{CompanyID: acme, Title: "b"})
	require.Len(t, received, 2)
	assert.Len(t, received[1], 2)
	assert.Equal(t, "b", received[1][0].Title)

	unsub()
	_, _ = s.Add(ctx, entity.Notification{CompanyID: acme, Title: "c"})
	assert.Len(t, received, 2)
}

func TestNewStore_RecuperaListaPersistida(t *testing.T) {
	ctx := context.Background()
	s, storage := newStore(t)
	_, _ = s.CreateProductCreated(ctx, product(3, 10))

	reloaded, err := notification.NewStore(ctx, storage, nil)
	require.NoError(t, err)
	require.Len(t, reloaded.List(acme), 1)
	assert.Equal(t, "Producto creado", reloaded.List(acme)[0].Title)
}

func TestNewStore_BlobSinVersionSeDescarta(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemoryStorage()
	require.NoError(t, storage.Set(ctx, notification.StorageKey, []byte(`[{"id":"1","title":"viejo"}]`), 0))

	s, err := notification.NewStore(ctx, storage, nil)
	require.NoError(t, err)
	assert.Empty(t, s.List(acme))

	raw, _ := storage.Get(ctx, notification.StorageKey)
	assert.Nil(t, raw)
}

type failingStorage struct{ *kv.MemoryStorage }

func (failingStorage) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("disco lleno")
}

func TestAdd_FalloAlPersistirNoCambiaLaLista(t *testing.T) {
	ctx := context.Background()
	s, err := notification.NewStore(ctx, failingStorage{kv.NewMemoryStorage()}, nil)
	require.NoError(t, err)

	_, err = s.Add(ctx, entity.Notification{CompanyID: acme, Title: "a"})
	assert.Error(t, err)
	assert.Empty(t, s.List(acme))
}

func TestSubscribe_ListenerQueAgregaNoRecursaSinFin(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	var sizes []int
	s.Subscribe(acme, func(ctx context.Context, list []entity.Notification) {
		sizes = append(sizes, len(list))
		if len(list) == 1 {
			_, err := s.Add(ctx, entity.Notification{CompanyID: acme, Title: "eco"})
			require.NoError(t, err)
		}
	})

	_, err := s.Add(ctx, entity.Notification{CompanyID: acme, Title: "a"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, sizes)
}

func TestSubscribe_ListenerQueAgregaConContextoNuevoNoSeBloquea(t *testing.T) {
	s, _ := newStore(t)
	var sizes []int
	s.Subscribe(acme, func(_ context.Context, list []entity.Notification) {
		sizes = append(sizes, len(list))
		if len(list) == 1 {
			_, err := s.Add(context.Background(), entity.Notification{CompanyID: acme, Title: "eco"})
			assert.NoError(t, err)
		}
	})

	done := make(chan error, 1)
	go func() {
		_, err := s.Add(context.Background(), entity.Notification{CompanyID: acme, Title: "a"})
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Add no retornó: el listener quedó bloqueado")
	}
	assert.Equal(t, []int{1, 2}, sizes)
}

// ──────────────────────────────────────────────────────────────────────────────
// Aislamiento por empresa
// ──────────────────────────────────────────────────────────────────────────────

func TestEmpresas_NoVenNiModificanAlertasAjenas(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	propia, err := s.CreateLowStock(ctx, product(2, 1))
	require.NoError(t, err)
	ajena := product(9, 1)
	ajena.CompanyID = otra
	deOtra, err := s.CreateLowStock(ctx, ajena)
	require.NoError(t, err)

	require.Len(t, s.List(acme), 1)
	assert.Equal(t, propia.ID, s.List(acme)[0].ID)
	require.Len(t, s.List(otra), 1)
	assert.Equal(t, deOtra.ID, s.List(otra)[0].ID)

	// Operar con el id de otra empresa no tiene efecto.
	require.NoError(t, s.MarkAsRead(ctx, otra, propia.ID))
	require.NoError(t, s.Remove(ctx, otra, propia.ID))
	assert.Equal(t, 1, s.UnreadCount(acme))

	require.NoError(t, s.MarkAllAsRead(ctx, otra))
	assert.Equal(t, 1, s.UnreadCount(acme))
	assert.Zero(t, s.UnreadCount(otra))

	require.NoError(t, s.Clear(ctx, otra))
	assert.Empty(t, s.List(otra))
	assert.Len(t, s.List(acme), 1)
}

func TestAdd_ClaveDeduplicaSoloDentroDeLaEmpresa(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	a, err := s.Add(ctx, entity.Notification{CompanyID: acme, Key: "k", Title: "a"})
	require.NoError(t, err)
	b, err := s.Add(ctx, entity.Notification{CompanyID: otra, Key: "k", Title: "b"})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, s.List(acme), 1)
	assert.Len(t, s.List(otra), 1)
}

func TestSubscribe_SoloRecibeCambiosDeSuEmpresa(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	var acmeCalls, otraCalls int
	s.Subscribe(acme, func(context.Context, []entity.Notification) { acmeCalls++ })
	s.Subscribe(otra, func(_ context.Context, list []entity.Notification) {
		otraCalls++
		for _, n := range list {
			assert.Equal(t, otra, n.CompanyID)
		}
	})

	_, _ = s.Add(ctx, entity.Notification{CompanyID: acme, Title: "a"})
	_, _ = s.Add(ctx, entity.Notification{CompanyID: otra, Title: "b"})
	require.NoError(t, s.Clear(ctx, acme))

	assert.Equal(t, 2, acmeCalls)
	assert.Equal(t, 1, otraCalls)
}

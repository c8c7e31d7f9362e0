package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ops-dashboard-api/internal/application/dto"
	"github.com/jhoicas/ops-dashboard-api/internal/domain"
)

func TestFoldText_QuitaTildesYMayusculas(t *testing.T) {
	assert.Equal(t, "almacen", foldText("  Almacén "))
	assert.Equal(t, "instalacion electrica", foldText("INSTALACIÓN Eléctrica"))
	assert.Equal(t, "pinon", foldText("Piñón"))
}

func TestContainsFolded(t *testing.T) {
	assert.True(t, containsFolded("", "cualquier cosa"), "término vacío coincide con todo")
	assert.True(t, containsFolded("quimico", "PROD-005", "Producto Químico E"))
	assert.False(t, containsFolded("madera", "PROD-005", "Producto Químico E"))
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	cases := []struct {
		name   string
		page   dto.PageRequest
		want   []int
		limit  int
		offset int
	}{
		{"por defecto", dto.PageRequest{}, []int{1, 2, 3, 4, 5}, 20, 0},
		{"segunda página", dto.PageRequest{Limit: 2, Offset: 2}, []int{3, 4}, 2, 2},
		{"última incompleta", dto.PageRequest{Limit: 2, Offset: 4}, []int{5}, 2, 4},
		{"fuera de rango", dto.PageRequest{Limit: 2, Offset: 9}, []int{}, 2, 9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, meta := paginate(items, tc.page)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, 5, meta.Total)
			assert.Equal(t, tc.limit, meta.Limit)
			assert.Equal(t, tc.offset, meta.Offset)
		})
	}
}

func TestParseDateRange(t *testing.T) {
	from, to, err := parseDateRange("2023-05-15", "2023-05-16")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2023, 5, 16, 23, 59, 59, 999999999, time.UTC), to, "to incluye todo el día")

	from, to, err = parseDateRange("", "")
	require.NoError(t, err)
	assert.True(t, from.IsZero())
	assert.True(t, to.IsZero())

	_, _, err = parseDateRange("2023-05-20", "2023-05-01")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = parseDateRange("20/05/2023", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

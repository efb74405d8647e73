package inventory

import (
	"errors"
	"testing"
	"time"

	"github.com/FernandoLelis/multivendas-backend/internal/domain"
	"github.com/FernandoLelis/multivendas-backend/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

func lot(t *testing.T, id string, qty int, total string, at time.Time) *entity.Lot {
	t.Helper()
	l, err := entity.NewLot(id, "tenant-a", "prod-1", qty, decimal.RequireFromString(total), at)
	require.NoError(t, err)
	return l
}

func TestAllocate_ConsumeDelMasAntiguo(t *testing.T) {
	l2 := lot(t, "l2", 10, "30.00", base.Add(24*time.Hour)) // 3.00 c/u
	l1 := lot(t, "l1", 5, "10.00", base)                    // 2.00 c/u

	alloc, err := Allocate("prod-1", []*entity.Lot{l2, l1}, 7)
	require.NoError(t, err)

	require.Len(t, alloc.Draws, 2)
	assert.Equal(t, "l1", alloc.Draws[0].Lot.ID)
	assert.Equal(t, 5, alloc.Draws[0].Quantity)
	assert.Equal(t, "l2", alloc.Draws[1].Lot.ID)
	assert.Equal(t, 2, alloc.Draws[1].Quantity)
	assert.True(t, decimal.RequireFromString("16.00").Equal(alloc.TotalCost))

	// El plan no toca los saldos hasta Apply.
	assert.Equal(t, 5, l1.RemainingBalance)
	require.NoError(t, alloc.Apply())
	assert.Equal(t, 0, l1.RemainingBalance)
	assert.Equal(t, 8, l2.RemainingBalance)
}

func TestAllocate_SeDetieneCuandoAlcanza(t *testing.T) {
	l1 := lot(t, "l1", 5, "10.00", base)
	l2 := lot(t, "l2", 10, "30.00", base.Add(time.Hour))

	alloc, err := Allocate("prod-1", []*entity.Lot{l1, l2}, 5)
	require.NoError(t, err)
	require.Len(t, alloc.Draws, 1)
	assert.Equal(t, "l1", alloc.Draws[0].Lot.ID)
}

func TestAllocate_DesempatePorID(t *testing.T) {
	lb := lot(t, "b", 3, "3.00", base)
	la := lot(t, "a", 3, "6.00", base)

	alloc, err := Allocate("prod-1", []*entity.Lot{lb, la}, 4)
	require.NoError(t, err)
	assert.Equal(t, "a", alloc.Draws[0].Lot.ID)
	assert.Equal(t, 3, alloc.Draws[0].Quantity)
	assert.Equal(t, "b", alloc.Draws[1].Lot.ID)
	assert.Equal(t, 1, alloc.Draws[1].Quantity)
}

func TestAllocate_IgnoraLotesAgotados(t *testing.T) {
	l1 := lot(t, "l1", 5, "10.00", base)
	require.NoError(t, l1.Draw(5))
	l2 := lot(t, "l2", 4, "12.00", base.Add(time.Hour))

	alloc, err := Allocate("prod-1", []*entity.Lot{l1, l2}, 2)
	require.NoError(t, err)
	require.Len(t, alloc.Draws, 1)
	assert.Equal(t, "l2", alloc.Draws[0].Lot.ID)
}

func TestAllocate_StockInsuficienteSinEfectos(t *testing.T) {
	l1 := lot(t, "l1", 5, "10.00", base)
	l2 := lot(t, "l2", 10, "30.00", base.Add(time.Hour))

	alloc, err := Allocate("prod-1", []*entity.Lot{l1, l2}, 20)
	assert.Nil(t, alloc)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var ins *domain.InsufficientStockError
	require.True(t, errors.As(err, &ins))
	assert.Equal(t, 20, ins.Requested)
	assert.Equal(t, 15, ins.Available)
	assert.Equal(t, 5, l1.RemainingBalance)
	assert.Equal(t, 10, l2.RemainingBalance)
}

func TestAllocate_CantidadInvalida(t *testing.T) {
	_, err := Allocate("prod-1", nil, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAllocate_SinRedondeoPorLinea(t *testing.T) {
	l := lot(t, "l1", 3, "10.00", base) // 3.33 c/u
	alloc, err := Allocate("prod-1", []*entity.Lot{l}, 3)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("9.99").Equal(alloc.TotalCost))
}

func TestAvailableBalance(t *testing.T) {
	l1 := lot(t, "l1", 5, "10.00", base)
	l2 := lot(t, "l2", 10, "30.00", base)
	require.NoError(t, l2.Draw(4))
	assert.Equal(t, 11, AvailableBalance([]*entity.Lot{l1, l2}))
}

package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/FernandoLelis/multivendas-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestUnitCostOf_RedondeoMitadArriba(t *testing.T) {
	cases := []struct {
		total string
		qty   int
		want  string
	}{
		{"10.00", 5, "2"},
		{"10.00", 3, "3.33"},
		{"20.00", 3, "6.67"},
		{"0.05", 2, "0.03"}, // 0.025 -> 0.03
		{"100.10", 4, "25.03"},
	}
	for _, tc := range cases {
		got, err := UnitCostOf(dec(tc.total), tc.qty)
		require.NoError(t, err)
		assert.True(t, dec(tc.want).Equal(got), "%s/%d = %s", tc.total, tc.qty, got)
	}
}

func TestUnitCostOf_RechazaCantidadOCostoNoPositivo(t *testing.T) {
	_, err := UnitCostOf(dec("10"), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = UnitCostOf(dec("0"), 3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewLot_IntactoAlCrear(t *testing.T) {
	l, err := NewLot("l1", "t1", "p1", 5, dec("10.00"), time.Time{})
	require.NoError(t, err)

	assert.True(t, l.IsUntouched())
	assert.Equal(t, 5, l.RemainingBalance)
	assert.True(t, dec("2.00").Equal(l.UnitCost))
	assert.False(t, l.PurchasedAt.IsZero())
}

func TestLot_RepriceSoloIntacto(t *testing.T) {
	l, err := NewLot("l1", "t1", "p1", 5, dec("10.00"), time.Now())
	require.NoError(t, err)

	require.NoError(t, l.Reprice(4, dec("10.00")))
	assert.Equal(t, 4, l.OriginalQuantity)
	assert.Equal(t, 4, l.RemainingBalance)
	assert.True(t, dec("2.50").Equal(l.UnitCost))

	require.NoError(t, l.Draw(1))
	err = l.Reprice(10, dec("30.00"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLotLocked)

	var locked *domain.LotLockedError
	require.True(t, errors.As(err, &locked))
	assert.Equal(t, 3, locked.RemainingBalance)
	assert.Equal(t, 4, locked.OriginalQuantity)
	assert.Equal(t, 1, locked.Consumed())
	assert.True(t, dec("2.50").Equal(l.UnitCost), "no se modifica al rechazar")
}

func TestLot_DrawYRestoreRespetanLimites(t *testing.T) {
	l, err := NewLot("l1", "t1", "p1", 5, dec("10.00"), time.Now())
	require.NoError(t, err)

	assert.Error(t, l.Draw(6))
	assert.Error(t, l.Draw(0))
	require.NoError(t, l.Draw(5))
	assert.Equal(t, 0, l.RemainingBalance)
	assert.Equal(t, 5, l.Consumed())

	assert.Error(t, l.Restore(6))
	require.NoError(t, l.Restore(5))
	assert.True(t, l.IsUntouched())
	assert.ErrorIs(t, l.Restore(1), domain.ErrConflict)
}

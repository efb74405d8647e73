package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FernandoLelis/multivendas-backend/internal/application/inventory"
)

func TestBalanceWrite_RollbackTambienCierraLaEscritura(t *testing.T) {
	f := newFixture()
	p := f.product(t, tenantA, "SKU-1", 0)
	f.lot(t, tenantA, p.ID, "PO-1", 5, "10.00", baseTime)
	ctx := context.Background()

	boom := errors.New("falla simulada")
	bw := inventory.NewBalanceWrite(f.cache, zerolog.Nop(), tenantA)
	err := f.tx.Run(ctx, func(inventory.Repos) error {
		bw.Touch(ctx, p.ID)
		return boom
	})
	bw.Done(ctx)
	require.ErrorIs(t, err, boom)

	for i := 0; i < 2; i++ {
		got, err := f.lots.AvailableBalance(ctx, tenantA, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, got)
	}
	assert.Equal(t, 1, f.cache.hits, "cerrada la escritura se vuelve a cachear")
}

func TestBalanceWrite_TouchRepetidoMarcaUnaVez(t *testing.T) {
	f := newFixture()
	p := f.product(t, tenantA, "SKU-1", 0)
	ctx := context.Background()

	before, err := f.cache.Get(ctx, tenantA, p.ID)
	require.NoError(t, err)

	bw := inventory.NewBalanceWrite(f.cache, zerolog.Nop(), tenantA)
	bw.Touch(ctx, p.ID, p.ID, "")
	bw.Touch(ctx, p.ID)
	bw.Done(ctx)

	after, err := f.cache.Get(ctx, tenantA, p.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Gen+2, after.Gen, "una apertura y un cierre")
}

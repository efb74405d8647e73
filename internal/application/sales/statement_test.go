package sales_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FernandoLelis/multivendas-backend/internal/application/sales"
	"github.com/FernandoLelis/multivendas-backend/internal/domain"
)

type captureRenderer struct {
	got *sales.Statement
}

func (r *captureRenderer) RenderSaleStatement(_ context.Context, st *sales.Statement) ([]byte, error) {
	r.got = st
	return []byte("%PDF-fake"), nil
}

func TestStatement_ArmaLineasPorLote(t *testing.T) {
	f := newFixture()
	p := f.stocked(t, tenantA)
	ctx := context.Background()
	sale, err := f.sales.Create(ctx, tenantA, saleInput(p.ID, "ORD-77", 7))
	require.NoError(t, err)

	renderer := &captureRenderer{}
	uc := sales.NewStatementUseCase(f.sales, renderer)
	pdf, filename, err := uc.Render(ctx, tenantA, sale.ID)
	require.NoError(t, err)

	assert.Equal(t, "custo_venda_ORD-77.pdf", filename)
	assert.Equal(t, "%PDF-fake", string(pdf))
	require.NotNil(t, renderer.got)
	assert.Equal(t, p.ID, renderer.got.Product.ID)
	require.Len(t, renderer.got.Lines, 2)

	total := 0
	purchaseOrders := map[string]bool{}
	for _, l := range renderer.got.Lines {
		total += l.Quantity
		purchaseOrders[l.PurchaseOrderID] = true
	}
	assert.Equal(t, 7, total)
	assert.True(t, purchaseOrders["PO-1"] && purchaseOrders["PO-2"])
	assert.Equal(t, "16.00", renderer.got.Financials.CostOfGoodsSold.StringFixed(2))

	_, _, err = uc.Render(ctx, tenantB, sale.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

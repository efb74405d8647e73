package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FernandoLelis/multivendas-backend/internal/application/sales"
	"github.com/FernandoLelis/multivendas-backend/internal/domain/entity"
)

func TestRenderSaleStatement_GeneraPDF(t *testing.T) {
	sale := &entity.Sale{
		ID: "s1", OrderID: "ML-1001", Platform: entity.PlatformMercadoLivre, Quantity: 7,
		SoldAt:          time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		SellPrice:       decimal.RequireFromString("100"),
		CostOfGoodsSold: decimal.RequireFromString("16"),
	}
	st := &sales.Statement{
		Sale:    sale,
		Product: &entity.Product{Name: "Fone Bluetooth", SKU: "FONE-01"},
		Lines: []sales.StatementLine{
			{LotID: "l1", PurchaseOrderID: "PC-1", Supplier: "Atacado SP", Quantity: 5, UnitCost: decimal.RequireFromString("2"), Subtotal: decimal.RequireFromString("10")},
			{LotID: "l2", Quantity: 2, UnitCost: decimal.RequireFromString("3"), Subtotal: decimal.RequireFromString("6")},
		},
		Financials: sales.FinancialsOf(sale),
	}

	out, err := NewStatementRenderer().RenderSaleStatement(context.Background(), st)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestMoney_FormatoBrasileno(t *testing.T) {
	g := NewStatementRenderer()
	assert.Equal(t, "R$ 1.234,50", g.money(decimal.RequireFromString("1234.5")))
}

package sales

import (
	"context"

	"github.com/FernandoLelis/multivendas-backend/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Financials campos derivados de una venta, tal como los lee el reporte.
type Financials struct {
	SaleID            string
	Revenue           decimal.Decimal
	CostOfGoodsSold   decimal.Decimal
	EffectiveCost     decimal.Decimal
	GrossProfit       decimal.Decimal
	OperatingExpenses decimal.Decimal
	NetProfit         decimal.Decimal
	ROI               decimal.Decimal
}

// FinancialsOf calcula los campos derivados a partir de la venta.
func FinancialsOf(s *entity.Sale) Financials {
	return Financials{
		SaleID:            s.ID,
		Revenue:           s.Revenue(),
		CostOfGoodsSold:   s.CostOfGoodsSold,
		EffectiveCost:     s.EffectiveCost(),
		GrossProfit:       s.GrossProfit(),
		OperatingExpenses: s.OperatingExpenses,
		NetProfit:         s.NetProfit(),
		ROI:               s.ROI(),
	}
}

// Calculations campos derivados de una venta del tenant.
func (uc *UseCase) Calculations(ctx context.Context, tenantID, saleID string) (*Financials, error) {
	sale, err := uc.Get(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}
	f := FinancialsOf(sale)
	return &f, nil
}

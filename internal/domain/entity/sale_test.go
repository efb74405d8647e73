package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSale_CamposFinancieros(t *testing.T) {
	s := &Sale{
		SellPrice:              dec("100.00"),
		ShippingPaidByCustomer: dec("10.00"),
		ShippingCost:           dec("12.00"),
		PlatformFee:            dec("15.00"),
		OperatingExpenses:      dec("3.00"),
		CostOfGoodsSold:        dec("16.00"),
	}

	assert.True(t, dec("110.00").Equal(s.Revenue()))
	assert.True(t, dec("43.00").Equal(s.EffectiveCost()))
	assert.True(t, dec("67.00").Equal(s.GrossProfit()))
	assert.True(t, dec("64.00").Equal(s.NetProfit()))
	// 64 / 43 * 100 = 148.837...
	assert.True(t, dec("148.84").Equal(s.ROI()), "roi = %s", s.ROI())
}

func TestSale_ROICeroSinCosto(t *testing.T) {
	s := &Sale{SellPrice: dec("50")}
	assert.True(t, decimal.Zero.Equal(s.EffectiveCost()))
	assert.True(t, decimal.Zero.Equal(s.ROI()))
}

func TestSale_ROINegativo(t *testing.T) {
	s := &Sale{SellPrice: dec("10"), CostOfGoodsSold: dec("20")}
	assert.True(t, dec("-50").Equal(s.ROI()))
}

func TestNormalizePlatform(t *testing.T) {
	assert.Equal(t, PlatformMercadoLivre, NormalizePlatform(" mercado livre "))
	assert.Equal(t, PlatformMercadoLivre, NormalizePlatform("mercado-livre"))
	assert.Equal(t, PlatformAmazon, NormalizePlatform("amazon"))
}

func TestConsumption_Sumas(t *testing.T) {
	recs := []*ConsumptionRecord{
		{Quantity: 5, UnitCostAtConsumption: dec("2.00")},
		{Quantity: 2, UnitCostAtConsumption: dec("3.00")},
	}
	assert.Equal(t, 7, SumQuantity(recs))
	assert.True(t, dec("16.00").Equal(SumCost(recs)))
}

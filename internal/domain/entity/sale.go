package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Plataformas de venta conocidas.
const (
	PlatformAmazon       = "AMAZON"
	PlatformMercadoLivre = "MERCADO_LIVRE"
	PlatformShopee       = "SHOPEE"
)

// NormalizePlatform pasa a mayúsculas y reemplaza espacios/guiones por "_".
func NormalizePlatform(p string) string {
	p = strings.ToUpper(strings.TrimSpace(p))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(p)
}

// Sale una línea de pedido de un producto en un marketplace.
// Quantity y ProductID son inmutables una vez creada; CostOfGoodsSold lo fija el motor FIFO.
type Sale struct {
	ID                     string
	TenantID               string
	OrderID                string // único por tenant
	ProductID              string
	Platform               string
	Quantity               int
	SoldAt                 time.Time
	SellPrice              decimal.Decimal
	ShippingPaidByCustomer decimal.Decimal
	ShippingCost           decimal.Decimal
	PlatformFee            decimal.Decimal
	OperatingExpenses      decimal.Decimal
	CostOfGoodsSold        decimal.Decimal
	Notes                  string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Revenue (faturamento) = sellPrice + shippingPaidByCustomer.
func (s *Sale) Revenue() decimal.Decimal {
	return s.SellPrice.Add(s.ShippingPaidByCustomer)
}

// EffectiveCost (custo efetivo total) = COGS + shippingCost + platformFee.
func (s *Sale) EffectiveCost() decimal.Decimal {
	return s.CostOfGoodsSold.Add(s.ShippingCost).Add(s.PlatformFee)
}

// GrossProfit (lucro bruto) = revenue - effective cost.
func (s *Sale) GrossProfit() decimal.Decimal {
	return s.Revenue().Sub(s.EffectiveCost())
}

// NetProfit (lucro líquido) = gross profit - operating expenses.
func (s *Sale) NetProfit() decimal.Decimal {
	return s.GrossProfit().Sub(s.OperatingExpenses)
}

// ROI porcentual sobre el costo efetivo, 2 decimales. 0 si el costo no es positivo.
func (s *Sale) ROI() decimal.Decimal {
	cost := s.EffectiveCost()
	if !cost.IsPositive() {
		return decimal.Zero
	}
	return s.NetProfit().Mul(decimal.NewFromInt(100)).DivRound(cost, 2)
}


package dto

import (
	"time"

	"github.com/FernandoLelis/multivendas-backend/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SaleRequest alta o edición de una venta. En edición product_id y quantity deben
// omitirse o coincidir con los valores originales.
type SaleRequest struct {
	OrderID                string          `json:"order_id"`
	ProductID              string          `json:"product_id"`
	Platform               string          `json:"platform"`
	Quantity               int             `json:"quantity"`
	SoldAt                 *time.Time      `json:"sold_at"`
	SellPrice              decimal.Decimal `json:"sell_price"`
	ShippingPaidByCustomer decimal.Decimal `json:"shipping_paid_by_customer"`
	ShippingCost           decimal.Decimal `json:"shipping_cost"`
	PlatformFee            decimal.Decimal `json:"platform_fee"`
	OperatingExpenses      decimal.Decimal `json:"operating_expenses"`
	Notes                  string          `json:"notes"`
}

// SaleResponse salida de una venta con sus campos derivados.
type SaleResponse struct {
	ID                     string          `json:"id"`
	OrderID                string          `json:"order_id"`
	ProductID              string          `json:"product_id"`
	Platform               string          `json:"platform"`
	Quantity               int             `json:"quantity"`
	SoldAt                 time.Time       `json:"sold_at"`
	SellPrice              decimal.Decimal `json:"sell_price"`
	ShippingPaidByCustomer decimal.Decimal `json:"shipping_paid_by_customer"`
	ShippingCost           decimal.Decimal `json:"shipping_cost"`
	PlatformFee            decimal.Decimal `json:"platform_fee"`
	OperatingExpenses      decimal.Decimal `json:"operating_expenses"`
	CostOfGoodsSold        decimal.Decimal `json:"cost_of_goods_sold"`
	Notes                  string          `json:"notes,omitempty"`
	FinancialsResponse
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FinancialsResponse campos derivados (faturamento, custo efetivo, lucros, ROI).
type FinancialsResponse struct {
	Revenue       decimal.Decimal `json:"revenue"`
	EffectiveCost decimal.Decimal `json:"effective_cost"`
	GrossProfit   decimal.Decimal `json:"gross_profit"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	ROI           decimal.Decimal `json:"roi"`
}

// CalculationsResponse respuesta de /sales/:id/calculations.
type CalculationsResponse struct {
	SaleID            string          `json:"sale_id"`
	CostOfGoodsSold   decimal.Decimal `json:"cost_of_goods_sold"`
	OperatingExpenses decimal.Decimal `json:"operating_expenses"`
	FinancialsResponse
}

// SaleListResponse lista de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ToSaleResponse mapea la entidad con sus campos derivados.
func ToSaleResponse(s *entity.Sale) SaleResponse {
	return SaleResponse{
		ID:                     s.ID,
		OrderID:                s.OrderID,
		ProductID:              s.ProductID,
		Platform:               s.Platform,
		Quantity:               s.Quantity,
		SoldAt:                 s.SoldAt,
		SellPrice:              s.SellPrice,
		ShippingPaidByCustomer: s.ShippingPaidByCustomer,
		ShippingCost:           s.ShippingCost,
		PlatformFee:            s.PlatformFee,
		OperatingExpenses:      s.OperatingExpenses,
		CostOfGoodsSold:        s.CostOfGoodsSold,
		Notes:                  s.Notes,
		FinancialsResponse: FinancialsResponse{
			Revenue:       s.Revenue(),
			EffectiveCost: s.EffectiveCost(),
			GrossProfit:   s.GrossProfit(),
			NetProfit:     s.NetProfit(),
			ROI:           s.ROI(),
		},
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

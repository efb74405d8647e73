package dto

import (
	"time"

	"github.com/FernandoLelis/multivendas-backend/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LotRequest alta o edición de un lote (entrada de mercadería).
type LotRequest struct {
	ProductID       string          `json:"product_id"`
	Quantity        int             `json:"quantity"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	PurchaseOrderID string          `json:"purchase_order_id"`
	Supplier        string          `json:"supplier"`
	Category        string          `json:"category"`
	Notes           string          `json:"notes"`
	PurchasedAt     *time.Time      `json:"purchased_at"`
}

// LotResponse salida de un lote.
type LotResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	PurchaseOrderID  string          `json:"purchase_order_id"`
	Supplier         string          `json:"supplier,omitempty"`
	Category         string          `json:"category"`
	Notes            string          `json:"notes,omitempty"`
	OriginalQuantity int             `json:"original_quantity"`
	RemainingBalance int             `json:"remaining_balance"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	Untouched        bool            `json:"untouched"`
	PurchasedAt      time.Time       `json:"purchased_at"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// LotListResponse lista de lotes.
type LotListResponse struct {
	Items []LotResponse `json:"items"`
	Page  PageResponse  `json:"page"`
}

// BalanceResponse saldo disponible de un producto.
type BalanceResponse struct {
	ProductID string `json:"product_id"`
	Available int    `json:"available"`
}

// CostPreviewResponse simulación de costo FIFO.
type CostPreviewResponse struct {
	ProductID string             `json:"product_id"`
	Quantity  int                `json:"quantity"`
	TotalCost decimal.Decimal    `json:"total_cost"`
	UnitCost  decimal.Decimal    `json:"average_unit_cost"`
	Draws     []PreviewDrawEntry `json:"draws"`
}

// PreviewDrawEntry extracción simulada de un lote.
type PreviewDrawEntry struct {
	LotID           string          `json:"lot_id"`
	PurchaseOrderID string          `json:"purchase_order_id"`
	Quantity        int             `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
}

// StockAlertResponse producto bajo stock mínimo.
type StockAlertResponse struct {
	ProductID      string `json:"product_id"`
	SKU            string `json:"sku"`
	Name           string `json:"name"`
	Available      int    `json:"available"`
	MinimumStock   int    `json:"minimum_stock"`
	SuggestedOrder int    `json:"suggested_order"`
}

// ConsumptionResponse registro de consumo FIFO.
type ConsumptionResponse struct {
	ID                    string          `json:"id"`
	SaleID                string          `json:"sale_id"`
	LotID                 string          `json:"lot_id"`
	Quantity              int             `json:"quantity"`
	UnitCostAtConsumption decimal.Decimal `json:"unit_cost_at_consumption"`
	Subtotal              decimal.Decimal `json:"subtotal"`
	CreatedAt             time.Time       `json:"created_at"`
}

// ToLotResponse mapea la entidad a su salida HTTP.
func ToLotResponse(l *entity.Lot) LotResponse {
	return LotResponse{
		ID:               l.ID,
		ProductID:        l.ProductID,
		PurchaseOrderID:  l.PurchaseOrderID,
		Supplier:         l.Supplier,
		Category:         l.Category,
		Notes:            l.Notes,
		OriginalQuantity: l.OriginalQuantity,
		RemainingBalance: l.RemainingBalance,
		TotalCost:        l.TotalCost,
		UnitCost:         l.UnitCost,
		Untouched:        l.IsUntouched(),
		PurchasedAt:      l.PurchasedAt,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

// ToConsumptionResponses mapea registros de consumo.
func ToConsumptionResponses(records []*entity.ConsumptionRecord) []ConsumptionResponse {
	out := make([]ConsumptionResponse, 0, len(records))
	for _, r := range records {
		out = append(out, ConsumptionResponse{
			ID:                    r.ID,
			SaleID:                r.SaleID,
			LotID:                 r.LotID,
			Quantity:              r.Quantity,
			UnitCostAtConsumption: r.UnitCostAtConsumption,
			Subtotal:              r.Subtotal(),
			CreatedAt:             r.CreatedAt,
		})
	}
	return out
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConsumptionRecord registro inmutable de cuánto sacó una venta de un lote y a qué costo.
// Lo crea el motor FIFO y solo lo borra la reversión de su venta.
type ConsumptionRecord struct {
	ID                    string
	TenantID              string
	SaleID                string
	LotID                 string
	Quantity              int
	UnitCostAtConsumption decimal.Decimal
	CreatedAt             time.Time
}

// Subtotal quantity * unitCostAtConsumption, sin redondeo adicional.
func (c *ConsumptionRecord) Subtotal() decimal.Decimal {
	return c.UnitCostAtConsumption.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// SumQuantity y SumCost agregan los registros de una venta.
func SumQuantity(records []*ConsumptionRecord) int {
	total := 0
	for _, r := range records {
		total += r.Quantity
	}
	return total
}

func SumCost(records []*ConsumptionRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Subtotal())
	}
	return total
}

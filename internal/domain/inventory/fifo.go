package inventory

import (
	"sort"

	"github.com/FernandoLelis/multivendas-backend/internal/domain"
	"github.com/FernandoLelis/multivendas-backend/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Draw una extracción planificada: qty unidades del lote a su costo unitario actual.
type Draw struct {
	Lot      *entity.Lot
	Quantity int
	UnitCost decimal.Decimal
}

// Subtotal qty * unitCost, sin redondear.
func (d Draw) Subtotal() decimal.Decimal {
	return d.UnitCost.Mul(decimal.NewFromInt(int64(d.Quantity)))
}

// Allocation resultado del recorrido FIFO para una cantidad pedida.
type Allocation struct {
	Requested int
	Draws     []Draw
	TotalCost decimal.Decimal
}

// SortFIFO ordena los lotes del más antiguo al más nuevo; a igual fecha desempata por ID.
// Los IDs son UUID v7, así que el desempate respeta el orden de inserción.
func SortFIFO(lots []*entity.Lot) {
	sort.SliceStable(lots, func(i, j int) bool {
		a, b := lots[i], lots[j]
		if !a.PurchasedAt.Equal(b.PurchasedAt) {
			return a.PurchasedAt.Before(b.PurchasedAt)
		}
		return a.ID < b.ID
	})
}

// AvailableBalance suma los saldos de los lotes.
func AvailableBalance(lots []*entity.Lot) int {
	total := 0
	for _, l := range lots {
		if l.RemainingBalance > 0 {
			total += l.RemainingBalance
		}
	}
	return total
}

// Allocate planifica el consumo FIFO de quantity unidades sin modificar los lotes.
// Si el saldo no alcanza devuelve *domain.InsufficientStockError y ningún draw.
func Allocate(productID string, lots []*entity.Lot, quantity int) (*Allocation, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	ordered := make([]*entity.Lot, 0, len(lots))
	for _, l := range lots {
		if l.RemainingBalance > 0 {
			ordered = append(ordered, l)
		}
	}
	SortFIFO(ordered)

	alloc := &Allocation{Requested: quantity, TotalCost: decimal.Zero}
	needed := quantity
	for _, l := range ordered {
		if needed == 0 {
			break
		}
		take := min(needed, l.RemainingBalance)
		d := Draw{Lot: l, Quantity: take, UnitCost: l.UnitCost}
		alloc.Draws = append(alloc.Draws, d)
		alloc.TotalCost = alloc.TotalCost.Add(d.Subtotal())
		needed -= take
	}
	if needed > 0 {
		return nil, &domain.InsufficientStockError{
			ProductID: productID,
			Requested: quantity,
			Available: quantity - needed,
		}
	}
	return alloc, nil
}

// Apply descuenta del saldo de cada lote lo planificado en la asignación.
func (a *Allocation) Apply() error {
	for _, d := range a.Draws {
		if err := d.Lot.Draw(d.Quantity); err != nil {
			return err
		}
	}
	return nil
}

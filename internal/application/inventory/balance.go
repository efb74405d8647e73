package inventory

import (
	"context"
	"fmt"

	"github.com/FernandoLelis/multivendas-backend/internal/domain"
	fifo "github.com/FernandoLelis/multivendas-backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// AvailableBalance suma de saldos de los lotes del producto. Lectura sin bloqueo,
// servida desde la caché cuando está disponible. El valor leído de la BD solo vuelve a
// la caché si ninguna escritura del producto empezó o terminó mientras tanto.
func (uc *LotUseCase) AvailableBalance(ctx context.Context, tenantID, productID string) (int, error) {
	if err := uc.ensureProduct(ctx, tenantID, productID); err != nil {
		return 0, err
	}

	cached, err := uc.cache.Get(ctx, tenantID, productID)
	if err != nil {
		uc.log.Warn().Err(err).Str("product_id", productID).Msg("leer caché de saldo")
		return uc.sumAvailable(ctx, tenantID, productID)
	}
	if cached.Hit {
		return cached.Balance, nil
	}

	balance, err := uc.sumAvailable(ctx, tenantID, productID)
	if err != nil {
		return 0, err
	}
	if err := uc.cache.Set(ctx, tenantID, productID, cached.Gen, balance); err != nil {
		uc.log.Warn().Err(err).Str("product_id", productID).Msg("guardar caché de saldo")
	}
	return balance, nil
}

func (uc *LotUseCase) sumAvailable(ctx context.Context, tenantID, productID string) (int, error) {
	balance, err := uc.lots.SumAvailable(ctx, tenantID, productID)
	if err != nil {
		return 0, fmt.Errorf("sumar saldo: %w", err)
	}
	return balance, nil
}

// CostPreview simulación del costo FIFO de una venta sin tocar los lotes.
type CostPreview struct {
	ProductID string
	Quantity  int
	TotalCost decimal.Decimal
	UnitCost  decimal.Decimal // promedio de la simulación, 2 decimales
	Draws     []PreviewDraw
}

// PreviewDraw una extracción simulada.
type PreviewDraw struct {
	LotID           string
	PurchaseOrderID string
	Quantity        int
	UnitCost        decimal.Decimal
}

// PreviewCost recorre los lotes en orden FIFO como lo haría el costeo de una venta,
// sin bloquear ni escribir. Falla con *domain.InsufficientStockError si no alcanza.
func (uc *LotUseCase) PreviewCost(ctx context.Context, tenantID, productID string, quantity int) (*CostPreview, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.ensureProduct(ctx, tenantID, productID); err != nil {
		return nil, err
	}
	lots, err := uc.lots.ListByProduct(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	alloc, err := fifo.Allocate(productID, lots, quantity)
	if err != nil {
		return nil, err
	}

	out := &CostPreview{
		ProductID: productID,
		Quantity:  quantity,
		TotalCost: alloc.TotalCost,
		UnitCost:  alloc.TotalCost.DivRound(decimal.NewFromInt(int64(quantity)), 2),
	}
	for _, d := range alloc.Draws {
		out.Draws = append(out.Draws, PreviewDraw{
			LotID:           d.Lot.ID,
			PurchaseOrderID: d.Lot.PurchaseOrderID,
			Quantity:        d.Quantity,
			UnitCost:        d.UnitCost,
		})
	}
	return out, nil
}

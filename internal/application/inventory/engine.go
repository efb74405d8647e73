package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/FernandoLelis/multivendas-backend/internal/domain"
	"github.com/FernandoLelis/multivendas-backend/internal/domain/entity"
	fifo "github.com/FernandoLelis/multivendas-backend/internal/domain/inventory"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CostResult resultado del costeo de una venta.
type CostResult struct {
	TotalCost decimal.Decimal
	Records   []*entity.ConsumptionRecord
}

// Engine motor FIFO de costeo y reversión. No abre transacciones: siempre trabaja con
// los repos de la transacción del caller, de modo que venta, saldos y consumos se
// confirman o descartan juntos.
type Engine struct {
	log zerolog.Logger
}

// NewEngine construye el motor.
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{log: log}
}

// CostSale consume saldo de los lotes del producto en orden FIFO para una venta ya
// persistida y todavía sin costear. Bloquea los lotes (tenant, producto) con saldo,
// descuenta, crea un registro de consumo por lote tocado y fija el COGS de la venta.
// Si el saldo no alcanza devuelve *domain.InsufficientStockError sin escribir nada.
func (e *Engine) CostSale(ctx context.Context, repos Repos, sale *entity.Sale) (*CostResult, error) {
	if sale.Quantity <= 0 || sale.ID == "" || sale.TenantID == "" || sale.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}

	lots, err := repos.Lots.ListAvailableForUpdate(ctx, sale.TenantID, sale.ProductID)
	if err != nil {
		return nil, fmt.Errorf("bloquear lotes: %w", err)
	}

	// Revalida con los lotes ya bloqueados: otra venta pudo consumir desde el chequeo previo.
	alloc, err := fifo.Allocate(sale.ProductID, lots, sale.Quantity)
	if err != nil {
		return nil, err
	}
	if err := alloc.Apply(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	records := make([]*entity.ConsumptionRecord, 0, len(alloc.Draws))
	for _, d := range alloc.Draws {
		if err := repos.Lots.UpdateBalance(ctx, sale.TenantID, d.Lot.ID, d.Lot.RemainingBalance); err != nil {
			return nil, fmt.Errorf("actualizar saldo del lote %s: %w", d.Lot.ID, err)
		}
		records = append(records, &entity.ConsumptionRecord{
			ID:                    entity.NewID(),
			TenantID:              sale.TenantID,
			SaleID:                sale.ID,
			LotID:                 d.Lot.ID,
			Quantity:              d.Quantity,
			UnitCostAtConsumption: d.UnitCost,
			CreatedAt:             now,
		})
	}
	if err := repos.Consumptions.CreateBatch(ctx, records); err != nil {
		return nil, fmt.Errorf("registrar consumos: %w", err)
	}

	sale.CostOfGoodsSold = alloc.TotalCost
	if err := repos.Sales.UpdateCost(ctx, sale.TenantID, sale.ID, alloc.TotalCost); err != nil {
		return nil, fmt.Errorf("guardar costo de la venta: %w", err)
	}

	e.log.Debug().
		Str("tenant_id", sale.TenantID).
		Str("sale_id", sale.ID).
		Str("product_id", sale.ProductID).
		Int("quantity", sale.Quantity).
		Int("lots", len(records)).
		Str("cogs", alloc.TotalCost.StringFixed(2)).
		Msg("venta costeada")

	return &CostResult{TotalCost: alloc.TotalCost, Records: records}, nil
}

// ReverseSale devuelve a cada lote lo que la venta consumió y borra sus registros de consumo.
// Una venta sin registros es una inconsistencia previa: devuelve domain.ErrNoConsumptionFound.
// Devuelve la cantidad de unidades restituidas.
func (e *Engine) ReverseSale(ctx context.Context, repos Repos, sale *entity.Sale) (int, error) {
	records, err := repos.Consumptions.ListBySale(ctx, sale.TenantID, sale.ID)
	if err != nil {
		return 0, fmt.Errorf("leer consumos: %w", err)
	}
	if len(records) == 0 {
		e.log.Error().
			Str("tenant_id", sale.TenantID).
			Str("sale_id", sale.ID).
			Msg("reversión sin registros de consumo")
		return 0, fmt.Errorf("venta %s: %w", sale.ID, domain.ErrNoConsumptionFound)
	}

	// Mismo orden de bloqueo que el costeo (FIFO sobre todo el producto).
	lots, err := repos.Lots.ListByProductForUpdate(ctx, sale.TenantID, sale.ProductID)
	if err != nil {
		return 0, fmt.Errorf("bloquear lotes: %w", err)
	}
	byID := make(map[string]*entity.Lot, len(lots))
	for _, l := range lots {
		byID[l.ID] = l
	}

	restored := 0
	for _, r := range records {
		lot, ok := byID[r.LotID]
		if !ok {
			return 0, fmt.Errorf("lote %s del consumo %s no encontrado: %w", r.LotID, r.ID, domain.ErrConflict)
		}
		if err := lot.Restore(r.Quantity); err != nil {
			return 0, err
		}
		if err := repos.Lots.UpdateBalance(ctx, sale.TenantID, lot.ID, lot.RemainingBalance); err != nil {
			return 0, fmt.Errorf("actualizar saldo del lote %s: %w", lot.ID, err)
		}
		restored += r.Quantity
	}

	deleted, err := repos.Consumptions.DeleteBySale(ctx, sale.TenantID, sale.ID)
	if err != nil {
		return 0, fmt.Errorf("borrar consumos: %w", err)
	}
	if deleted != int64(len(records)) {
		return 0, fmt.Errorf("venta %s: se borraron %d de %d consumos: %w", sale.ID, deleted, len(records), domain.ErrConflict)
	}

	e.log.Debug().
		Str("tenant_id", sale.TenantID).
		Str("sale_id", sale.ID).
		Int("restored", restored).
		Msg("venta revertida")

	return restored, nil
}

package inventory

import (
	"context"
	"sort"

	"github.com/FernandoLelis/multivendas-backend/internal/domain/entity"
)

// alertsPageSize productos leídos por consulta al armar las alertas.
const alertsPageSize = 500

// StockAlert producto cuyo saldo disponible quedó por debajo de su stock mínimo.
type StockAlert struct {
	ProductID      string
	SKU            string
	Name           string
	Available      int
	MinimumStock   int
	SuggestedOrder int // unidades para volver al mínimo
}

// StockAlerts lista los productos del tenant por debajo de su stock mínimo,
// primero los de mayor faltante.
func (uc *LotUseCase) StockAlerts(ctx context.Context, tenantID string) ([]StockAlert, error) {
	var products []*entity.Product
	for offset := 0; ; offset += alertsPageSize {
		batch, err := uc.products.List(ctx, tenantID, alertsPageSize, offset)
		if err != nil {
			return nil, err
		}
		products = append(products, batch...)
		if len(batch) < alertsPageSize {
			break
		}
	}
	balances, err := uc.lots.BalancesByProduct(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	alerts := make([]StockAlert, 0)
	for _, p := range products {
		if p.MinimumStock <= 0 {
			continue
		}
		available := balances[p.ID]
		if available >= p.MinimumStock {
			continue
		}
		alerts = append(alerts, StockAlert{
			ProductID:      p.ID,
			SKU:            p.SKU,
			Name:           p.Name,
			Available:      available,
			MinimumStock:   p.MinimumStock,
			SuggestedOrder: p.MinimumStock - available,
		})
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].SuggestedOrder != alerts[j].SuggestedOrder {
			return alerts[i].SuggestedOrder > alerts[j].SuggestedOrder
		}
		return alerts[i].SKU < alerts[j].SKU
	})
	return alerts, nil
}

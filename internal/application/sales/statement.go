package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/FernandoLelis/multivendas-backend/internal/domain"
	"github.com/FernandoLelis/multivendas-backend/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StatementLine un consumo de la venta enriquecido con datos del lote.
type StatementLine struct {
	LotID           string
	PurchaseOrderID string
	Supplier        string
	PurchasedAt     time.Time
	Quantity        int
	UnitCost        decimal.Decimal
	Subtotal        decimal.Decimal
}

// Statement demostrativo de costeo de una venta.
type Statement struct {
	Sale       *entity.Sale
	Product    *entity.Product
	Lines      []StatementLine
	Financials Financials
}

// StatementRenderer genera el documento (PDF) de un demostrativo.
type StatementRenderer interface {
	RenderSaleStatement(ctx context.Context, st *Statement) ([]byte, error)
}

// StatementUseCase arma el demostrativo de costeo FIFO de una venta y lo renderiza.
type StatementUseCase struct {
	sales    *UseCase
	renderer StatementRenderer
}

// NewStatementUseCase construye el caso de uso.
func NewStatementUseCase(sales *UseCase, renderer StatementRenderer) *StatementUseCase {
	return &StatementUseCase{sales: sales, renderer: renderer}
}

// Build reúne venta, producto, consumos y lotes de origen.
func (uc *StatementUseCase) Build(ctx context.Context, tenantID, saleID string) (*Statement, error) {
	sale, err := uc.sales.Get(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}
	product, err := uc.sales.products.GetByID(ctx, tenantID, sale.ProductID)
	if err != nil {
		return nil, fmt.Errorf("demostrativo: obtener producto: %w", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	records, err := uc.sales.consumptions.ListBySale(ctx, tenantID, sale.ID)
	if err != nil {
		return nil, fmt.Errorf("demostrativo: obtener consumos: %w", err)
	}

	lines := make([]StatementLine, 0, len(records))
	for _, r := range records {
		line := StatementLine{
			LotID:    r.LotID,
			Quantity: r.Quantity,
			UnitCost: r.UnitCostAtConsumption,
			Subtotal: r.Subtotal(),
		}
		if lot, lErr := uc.sales.lots.GetByID(ctx, tenantID, r.LotID); lErr == nil && lot != nil {
			line.PurchaseOrderID = lot.PurchaseOrderID
			line.Supplier = lot.Supplier
			line.PurchasedAt = lot.PurchasedAt
		}
		lines = append(lines, line)
	}

	return &Statement{Sale: sale, Product: product, Lines: lines, Financials: FinancialsOf(sale)}, nil
}

// Render genera el PDF y el nombre de archivo sugerido.
func (uc *StatementUseCase) Render(ctx context.Context, tenantID, saleID string) ([]byte, string, error) {
	st, err := uc.Build(ctx, tenantID, saleID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.renderer.RenderSaleStatement(ctx, st)
	if err != nil {
		return nil, "", fmt.Errorf("demostrativo: generación fallida: %w", err)
	}
	return pdf, fmt.Sprintf("custo_venda_%s.pdf", st.Sale.OrderID), nil
}

package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/FernandoLelis/multivendas-backend/internal/application/inventory"
	"github.com/FernandoLelis/multivendas-backend/internal/domain"
	"github.com/FernandoLelis/multivendas-backend/internal/domain/entity"
	"github.com/FernandoLelis/multivendas-backend/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// SaleInput datos de una venta. En edición ProductID y Quantity solo se aceptan si
// coinciden con los originales (o vienen vacíos/0).
type SaleInput struct {
	OrderID                string
	ProductID              string
	Platform               string
	Quantity               int
	SoldAt                 time.Time
	SellPrice              decimal.Decimal
	ShippingPaidByCustomer decimal.Decimal
	ShippingCost           decimal.Decimal
	PlatformFee            decimal.Decimal
	OperatingExpenses      decimal.Decimal
	Notes                  string
}

func (in *SaleInput) normalize() {
	in.OrderID = strings.TrimSpace(in.OrderID)
	in.ProductID = strings.TrimSpace(in.ProductID)
	in.Platform = entity.NormalizePlatform(in.Platform)
}

func (in SaleInput) validateAmounts() error {
	for _, v := range []decimal.Decimal{in.SellPrice, in.ShippingPaidByCustomer, in.ShippingCost, in.PlatformFee, in.OperatingExpenses} {
		if v.IsNegative() || !entity.ValidAmount(v) {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// UseCase orquesta ventas: alta con costeo FIFO, edición de campos no inventariales
// y baja con reversión, cada una en una única transacción.
type UseCase struct {
	txRunner     inventory.TxRunner
	engine       *inventory.Engine
	sales        repository.SaleRepository
	consumptions repository.ConsumptionRepository
	products     repository.ProductRepository
	lots         repository.LotRepository
	cache        inventory.BalanceCache
	log          zerolog.Logger
}

// NewUseCase construye el caso de uso de ventas.
func NewUseCase(
	txRunner inventory.TxRunner,
	engine *inventory.Engine,
	sales repository.SaleRepository,
	consumptions repository.ConsumptionRepository,
	products repository.ProductRepository,
	lots repository.LotRepository,
	cache inventory.BalanceCache,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		engine:       engine,
		sales:        sales,
		consumptions: consumptions,
		products:     products,
		lots:         lots,
		cache:        cache,
		log:          log,
	}
}

// Create valida producto y orderID, rechaza por saldo insuficiente sin abrir transacción
// y luego persiste la venta y la costea en FIFO dentro de la misma transacción.
// Ante cualquier error no queda venta, consumo ni saldo modificado.
func (uc *UseCase) Create(ctx context.Context, tenantID string, in SaleInput) (*entity.Sale, error) {
	in.normalize()
	if tenantID == "" {
		return nil, domain.ErrUnauthorized
	}
	if in.OrderID == "" || in.ProductID == "" || in.Platform == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := in.validateAmounts(); err != nil {
		return nil, err
	}

	product, err := uc.products.GetByID(ctx, tenantID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	existing, err := uc.sales.GetByOrderID(ctx, tenantID, in.OrderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	// Camino rápido: el motor vuelve a verificar con los lotes bloqueados.
	available, err := uc.lots.SumAvailable(ctx, tenantID, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("consultar saldo: %w", err)
	}
	if available < in.Quantity {
		return nil, &domain.InsufficientStockError{ProductID: in.ProductID, Requested: in.Quantity, Available: available}
	}

	now := time.Now().UTC()
	soldAt := in.SoldAt
	if soldAt.IsZero() {
		soldAt = now
	}
	sale := &entity.Sale{
		ID:                     entity.NewID(),
		TenantID:               tenantID,
		OrderID:                in.OrderID,
		ProductID:              in.ProductID,
		Platform:               in.Platform,
		Quantity:               in.Quantity,
		SoldAt:                 soldAt,
		SellPrice:              in.SellPrice,
		ShippingPaidByCustomer: in.ShippingPaidByCustomer,
		ShippingCost:           in.ShippingCost,
		PlatformFee:            in.PlatformFee,
		OperatingExpenses:      in.OperatingExpenses,
		CostOfGoodsSold:        decimal.Zero,
		Notes:                  in.Notes,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	bw := inventory.NewBalanceWrite(uc.cache, uc.log, tenantID)
	defer bw.Done(ctx)
	err = uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		sale.CostOfGoodsSold = decimal.Zero
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}
		bw.Touch(ctx, sale.ProductID)
		_, err := uc.engine.CostSale(ctx, repos, sale)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("tenant_id", tenantID).
		Str("sale_id", sale.ID).
		Str("order_id", sale.OrderID).
		Int("quantity", sale.Quantity).
		Str("cogs", sale.CostOfGoodsSold.StringFixed(2)).
		Msg("venta registrada")
	return sale, nil
}

// Update edita precio, tarifas, fecha, plataforma, orderID y notas. Cambiar producto o
// cantidad devuelve domain.ErrImmutableField: el inventario no se toca en una edición.
func (uc *UseCase) Update(ctx context.Context, tenantID, saleID string, in SaleInput) (*entity.Sale, error) {
	in.normalize()
	if in.OrderID == "" || in.Platform == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := in.validateAmounts(); err != nil {
		return nil, err
	}

	var updated *entity.Sale
	err := uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		sale, err := repos.Sales.GetForUpdate(ctx, tenantID, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if in.ProductID != "" && in.ProductID != sale.ProductID {
			return fmt.Errorf("%w: product_id", domain.ErrImmutableField)
		}
		if in.Quantity != 0 && in.Quantity != sale.Quantity {
			return fmt.Errorf("%w: quantity", domain.ErrImmutableField)
		}
		if in.OrderID != sale.OrderID {
			dup, err := repos.Sales.GetByOrderID(ctx, tenantID, in.OrderID)
			if err != nil {
				return err
			}
			if dup != nil && dup.ID != sale.ID {
				return domain.ErrDuplicate
			}
		}

		sale.OrderID = in.OrderID
		sale.Platform = in.Platform
		if !in.SoldAt.IsZero() {
			sale.SoldAt = in.SoldAt
		}
		sale.SellPrice = in.SellPrice
		sale.ShippingPaidByCustomer = in.ShippingPaidByCustomer
		sale.ShippingCost = in.ShippingCost
		sale.PlatformFee = in.PlatformFee
		sale.OperatingExpenses = in.OperatingExpenses
		sale.Notes = in.Notes
		sale.UpdatedAt = time.Now().UTC()
		if err := repos.Sales.Update(ctx, sale); err != nil {
			return err
		}
		updated = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete revierte el consumo FIFO de la venta (devuelve saldo a los lotes y borra los
// registros de consumo) y después borra la venta, todo en la misma transacción.
func (uc *UseCase) Delete(ctx context.Context, tenantID, saleID string) error {
	bw := inventory.NewBalanceWrite(uc.cache, uc.log, tenantID)
	defer bw.Done(ctx)
	err := uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		sale, err := repos.Sales.GetForUpdate(ctx, tenantID, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		bw.Touch(ctx, sale.ProductID)
		if _, err := uc.engine.ReverseSale(ctx, repos, sale); err != nil {
			return err
		}
		return repos.Sales.Delete(ctx, tenantID, saleID)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("tenant_id", tenantID).Str("sale_id", saleID).Msg("venta eliminada")
	return nil
}

// Get devuelve una venta del tenant o domain.ErrNotFound.
func (uc *UseCase) Get(ctx context.Context, tenantID, saleID string) (*entity.Sale, error) {
	sale, err := uc.sales.GetByID(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return sale, nil
}

// GetByOrderID busca por el número de pedido del marketplace.
func (uc *UseCase) GetByOrderID(ctx context.Context, tenantID, orderID string) (*entity.Sale, error) {
	sale, err := uc.sales.GetByOrderID(ctx, tenantID, strings.TrimSpace(orderID))
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return sale, nil
}

// List ventas del tenant, más recientes primero.
func (uc *UseCase) List(ctx context.Context, tenantID string, f repository.SaleFilter) ([]*entity.Sale, error) {
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, domain.ErrInvalidInput
	}
	f.Platform = entity.NormalizePlatform(f.Platform)
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return uc.sales.List(ctx, tenantID, f)
}

// Consumptions registros de consumo de la venta (auditoría del costeo).
func (uc *UseCase) Consumptions(ctx context.Context, tenantID, saleID string) ([]*entity.ConsumptionRecord, error) {
	if _, err := uc.Get(ctx, tenantID, saleID); err != nil {
		return nil, err
	}
	return uc.consumptions.ListBySale(ctx, tenantID, saleID)
}


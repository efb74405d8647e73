package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/FernandoLelis/multivendas-backend/internal/domain"
	"github.com/FernandoLelis/multivendas-backend/internal/domain/entity"
	"github.com/FernandoLelis/multivendas-backend/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LotInput datos de una entrada de mercadería (alta o edición).
type LotInput struct {
	ProductID       string
	Quantity        int
	TotalCost       decimal.Decimal
	PurchaseOrderID string
	Supplier        string
	Category        string
	Notes           string
	PurchasedAt     time.Time // cero = ahora
}

func (in *LotInput) normalize() {
	in.ProductID = strings.TrimSpace(in.ProductID)
	in.PurchaseOrderID = strings.TrimSpace(in.PurchaseOrderID)
	in.Supplier = strings.TrimSpace(in.Supplier)
	in.Category = strings.TrimSpace(in.Category)
}

func (in LotInput) validate() error {
	if in.ProductID == "" || in.PurchaseOrderID == "" || in.Category == "" {
		return domain.ErrInvalidInput
	}
	if in.Quantity <= 0 || !in.TotalCost.IsPositive() || !entity.ValidAmount(in.TotalCost) {
		return domain.ErrInvalidInput
	}
	return nil
}

// LotUseCase alta, edición y baja de lotes con el guard de lote intacto, más consultas.
type LotUseCase struct {
	txRunner     TxRunner
	lots         repository.LotRepository
	consumptions repository.ConsumptionRepository
	products     repository.ProductRepository
	cache        BalanceCache
	log          zerolog.Logger
}

// NewLotUseCase construye el caso de uso.
func NewLotUseCase(
	txRunner TxRunner,
	lots repository.LotRepository,
	consumptions repository.ConsumptionRepository,
	products repository.ProductRepository,
	cache BalanceCache,
	log zerolog.Logger,
) *LotUseCase {
	return &LotUseCase{
		txRunner:     txRunner,
		lots:         lots,
		consumptions: consumptions,
		products:     products,
		cache:        cache,
		log:          log,
	}
}

// RegisterLot registra una compra. El purchaseOrderID no puede repetirse dentro del tenant.
func (uc *LotUseCase) RegisterLot(ctx context.Context, tenantID string, in LotInput) (*entity.Lot, error) {
	in.normalize()
	if tenantID == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	lot, err := entity.NewLot(entity.NewID(), tenantID, in.ProductID, in.Quantity, in.TotalCost, in.PurchasedAt)
	if err != nil {
		return nil, err
	}
	lot.PurchaseOrderID = in.PurchaseOrderID
	lot.Supplier = in.Supplier
	lot.Category = in.Category
	lot.Notes = in.Notes

	bw := NewBalanceWrite(uc.cache, uc.log, tenantID)
	defer bw.Done(ctx)
	err = uc.txRunner.Run(ctx, func(repos Repos) error {
		product, err := repos.Products.GetByID(ctx, tenantID, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		dup, err := repos.Lots.GetByPurchaseOrder(ctx, tenantID, in.PurchaseOrderID)
		if err != nil {
			return err
		}
		if dup != nil {
			return domain.ErrDuplicate
		}
		bw.Touch(ctx, lot.ProductID)
		return repos.Lots.Create(ctx, lot)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("tenant_id", tenantID).
		Str("lot_id", lot.ID).
		Str("product_id", lot.ProductID).
		Int("quantity", lot.OriginalQuantity).
		Str("unit_cost", lot.UnitCost.StringFixed(2)).
		Msg("lote registrado")
	return lot, nil
}

// EditLot reemplaza los datos de un lote intacto. Si alguna venta ya consumió del lote
// devuelve *domain.LotLockedError con saldo y cantidad original.
func (uc *LotUseCase) EditLot(ctx context.Context, tenantID, lotID string, in LotInput) (*entity.Lot, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	var edited *entity.Lot
	bw := NewBalanceWrite(uc.cache, uc.log, tenantID)
	defer bw.Done(ctx)
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		lot, err := repos.Lots.GetForUpdate(ctx, tenantID, lotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrNotFound
		}
		if err := lot.EnsureMutable(); err != nil {
			return err
		}
		if in.ProductID != lot.ProductID {
			product, err := repos.Products.GetByID(ctx, tenantID, in.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
		}
		if in.PurchaseOrderID != lot.PurchaseOrderID {
			dup, err := repos.Lots.GetByPurchaseOrder(ctx, tenantID, in.PurchaseOrderID)
			if err != nil {
				return err
			}
			if dup != nil && dup.ID != lot.ID {
				return domain.ErrDuplicate
			}
		}
		if err := lot.Reprice(in.Quantity, in.TotalCost); err != nil {
			return err
		}
		bw.Touch(ctx, lot.ProductID, in.ProductID)
		lot.ProductID = in.ProductID
		lot.PurchaseOrderID = in.PurchaseOrderID
		lot.Supplier = in.Supplier
		lot.Category = in.Category
		lot.Notes = in.Notes
		if !in.PurchasedAt.IsZero() {
			lot.PurchasedAt = in.PurchasedAt
		}
		lot.UpdatedAt = time.Now().UTC()
		if err := repos.Lots.Update(ctx, lot); err != nil {
			return err
		}
		edited = lot
		return nil
	})
	if err != nil {
		return nil, err
	}
	return edited, nil
}

// DeleteLot borra un lote intacto.
func (uc *LotUseCase) DeleteLot(ctx context.Context, tenantID, lotID string) error {
	bw := NewBalanceWrite(uc.cache, uc.log, tenantID)
	defer bw.Done(ctx)
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		lot, err := repos.Lots.GetForUpdate(ctx, tenantID, lotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrNotFound
		}
		if err := lot.EnsureMutable(); err != nil {
			return err
		}
		bw.Touch(ctx, lot.ProductID)
		return repos.Lots.Delete(ctx, tenantID, lotID)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("tenant_id", tenantID).Str("lot_id", lotID).Msg("lote eliminado")
	return nil
}

// GetLot devuelve un lote del tenant o domain.ErrNotFound.
func (uc *LotUseCase) GetLot(ctx context.Context, tenantID, lotID string) (*entity.Lot, error) {
	lot, err := uc.lots.GetByID(ctx, tenantID, lotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	return lot, nil
}

// ListLots lista lotes del tenant con filtros opcionales.
func (uc *LotUseCase) ListLots(ctx context.Context, tenantID string, f repository.LotFilter) ([]*entity.Lot, error) {
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return uc.lots.List(ctx, tenantID, f)
}

// ListByProduct lotes del producto en orden FIFO (el próximo a consumirse primero).
func (uc *LotUseCase) ListByProduct(ctx context.Context, tenantID, productID string) ([]*entity.Lot, error) {
	if err := uc.ensureProduct(ctx, tenantID, productID); err != nil {
		return nil, err
	}
	return uc.lots.ListByProduct(ctx, tenantID, productID)
}

// LotConsumptions registros de consumo que apuntan al lote.
func (uc *LotUseCase) LotConsumptions(ctx context.Context, tenantID, lotID string) ([]*entity.ConsumptionRecord, error) {
	if _, err := uc.GetLot(ctx, tenantID, lotID); err != nil {
		return nil, err
	}
	return uc.consumptions.ListByLot(ctx, tenantID, lotID)
}

func (uc *LotUseCase) ensureProduct(ctx context.Context, tenantID, productID string) error {
	if productID == "" {
		return domain.ErrInvalidInput
	}
	p, err := uc.products.GetByID(ctx, tenantID, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return nil
}


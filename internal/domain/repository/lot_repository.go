package repository

import (
	"context"

	"github.com/FernandoLelis/multivendas-backend/internal/domain/entity"
)

// LowBalanceThreshold saldo por debajo del cual un lote con stock se considera casi agotado.
const LowBalanceThreshold = 5

// LotFilter filtros opcionales para listar lotes de un tenant.
type LotFilter struct {
	ProductID  string
	Category   string
	Supplier   string // coincidencia parcial, sin distinguir mayúsculas
	LowBalance bool   // 0 < saldo < LowBalanceThreshold
	Limit      int
	Offset     int
}

// LotRepository puerto de persistencia de lotes. Toda consulta va acotada por tenantID;
// un lote de otro tenant se comporta como inexistente (nil, nil).
type LotRepository interface {
	Create(ctx context.Context, lot *entity.Lot) error
	Update(ctx context.Context, lot *entity.Lot) error
	UpdateBalance(ctx context.Context, tenantID, lotID string, balance int) error
	Delete(ctx context.Context, tenantID, id string) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Lot, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Lot, error)
	GetByPurchaseOrder(ctx context.Context, tenantID, purchaseOrderID string) (*entity.Lot, error)
	// ListAvailableForUpdate lotes con saldo > 0 del producto, en orden FIFO y bloqueados.
	ListAvailableForUpdate(ctx context.Context, tenantID, productID string) ([]*entity.Lot, error)
	// ListByProductForUpdate todos los lotes del producto, en orden FIFO y bloqueados.
	ListByProductForUpdate(ctx context.Context, tenantID, productID string) ([]*entity.Lot, error)
	ListByProduct(ctx context.Context, tenantID, productID string) ([]*entity.Lot, error)
	List(ctx context.Context, tenantID string, f LotFilter) ([]*entity.Lot, error)
	SumAvailable(ctx context.Context, tenantID, productID string) (int, error)
	CountByProduct(ctx context.Context, tenantID, productID string) (int, error)
	// BalancesByProduct saldo disponible por producto de todo el tenant.
	BalancesByProduct(ctx context.Context, tenantID string) (map[string]int, error)
}

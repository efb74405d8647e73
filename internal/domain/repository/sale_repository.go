package repository

import (
	"context"
	"time"

	"github.com/FernandoLelis/multivendas-backend/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SaleFilter filtros opcionales para listar ventas. From/To son inclusivos sobre SoldAt.
type SaleFilter struct {
	Platform  string
	ProductID string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// SaleRepository puerto de persistencia de ventas, acotado por tenant.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	// Update persiste los campos editables (precio, tarifas, fecha, plataforma, orderID, notas).
	Update(ctx context.Context, sale *entity.Sale) error
	UpdateCost(ctx context.Context, tenantID, saleID string, cogs decimal.Decimal) error
	Delete(ctx context.Context, tenantID, id string) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Sale, error)
	GetByOrderID(ctx context.Context, tenantID, orderID string) (*entity.Sale, error)
	List(ctx context.Context, tenantID string, f SaleFilter) ([]*entity.Sale, error)
}

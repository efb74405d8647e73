package repository

import (
	"context"

	"github.com/FernandoLelis/multivendas-backend/internal/domain/entity"
)

// ConsumptionRepository puerto de persistencia de registros de consumo FIFO.
// Los registros no se actualizan: se crean al costear y se borran al revertir.
type ConsumptionRepository interface {
	CreateBatch(ctx context.Context, records []*entity.ConsumptionRecord) error
	ListBySale(ctx context.Context, tenantID, saleID string) ([]*entity.ConsumptionRecord, error)
	ListByLot(ctx context.Context, tenantID, lotID string) ([]*entity.ConsumptionRecord, error)
	DeleteBySale(ctx context.Context, tenantID, saleID string) (int64, error)
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/FernandoLelis/multivendas-backend/internal/domain"
	"github.com/FernandoLelis/multivendas-backend/internal/domain/entity"
	"github.com/FernandoLelis/multivendas-backend/internal/domain/repository"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var _ repository.ConsumptionRepository = (*ConsumptionRepo)(nil)

const consumptionColumns = `id, tenant_id, sale_id, lot_id, quantity, unit_cost_at_consumption, created_at`

type consumptionRow struct {
	ID                    string          `db:"id"`
	TenantID              string          `db:"tenant_id"`
	SaleID                string          `db:"sale_id"`
	LotID                 string          `db:"lot_id"`
	Quantity              int             `db:"quantity"`
	UnitCostAtConsumption decimal.Decimal `db:"unit_cost_at_consumption"`
	CreatedAt             time.Time       `db:"created_at"`
}

// ConsumptionRepo registros de consumo FIFO sobre PostgreSQL.
type ConsumptionRepo struct {
	db Querier
}

// NewConsumptionRepository construye el repositorio con un pool o una tx.
func NewConsumptionRepository(db Querier) *ConsumptionRepo {
	return &ConsumptionRepo{db: db}
}

// CreateBatch inserta todos los registros en un solo viaje con pgx.Batch.
func (r *ConsumptionRepo) CreateBatch(ctx context.Context, records []*entity.ConsumptionRecord) error {
	if len(records) == 0 {
		return nil
	}
	query := `INSERT INTO consumption_records (` + consumptionColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	batch := &pgx.Batch{}
	for _, c := range records {
		batch.Queue(query, c.ID, c.TenantID, c.SaleID, c.LotID, c.Quantity, c.UnitCostAtConsumption, c.CreatedAt)
	}
	br := r.db.SendBatch(ctx, batch)
	defer br.Close()
	for range records {
		if _, err := br.Exec(); err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			if isForeignKeyViolation(err) {
				return domain.ErrConflict
			}
			return fmt.Errorf("insert consumption record: %w", err)
		}
	}
	return br.Close()
}

func (r *ConsumptionRepo) ListBySale(ctx context.Context, tenantID, saleID string) ([]*entity.ConsumptionRecord, error) {
	return r.list(ctx, `
		SELECT `+consumptionColumns+` FROM consumption_records
		WHERE tenant_id = $1 AND sale_id = $2
		ORDER BY created_at, id`, tenantID, saleID)
}

func (r *ConsumptionRepo) ListByLot(ctx context.Context, tenantID, lotID string) ([]*entity.ConsumptionRecord, error) {
	return r.list(ctx, `
		SELECT `+consumptionColumns+` FROM consumption_records
		WHERE tenant_id = $1 AND lot_id = $2
		ORDER BY created_at, id`, tenantID, lotID)
}

func (r *ConsumptionRepo) DeleteBySale(ctx context.Context, tenantID, saleID string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM consumption_records WHERE tenant_id = $1 AND sale_id = $2`, tenantID, saleID)
	if err != nil {
		if isInvalidText(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("delete consumption records: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *ConsumptionRepo) list(ctx context.Context, query string, args ...any) ([]*entity.ConsumptionRecord, error) {
	var rows []consumptionRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		if isInvalidText(err) {
			return []*entity.ConsumptionRecord{}, nil
		}
		return nil, fmt.Errorf("list consumption records: %w", err)
	}
	out := make([]*entity.ConsumptionRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.ConsumptionRecord{
			ID:                    row.ID,
			TenantID:              row.TenantID,
			SaleID:                row.SaleID,
			LotID:                 row.LotID,
			Quantity:              row.Quantity,
			UnitCostAtConsumption: row.UnitCostAtConsumption,
			CreatedAt:             row.CreatedAt,
		})
	}
	return out, nil
}

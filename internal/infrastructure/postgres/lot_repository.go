package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/FernandoLelis/multivendas-backend/internal/domain"
	"github.com/FernandoLelis/multivendas-backend/internal/domain/entity"
	"github.com/FernandoLelis/multivendas-backend/internal/domain/repository"
	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"
)

var _ repository.LotRepository = (*LotRepo)(nil)

const lotColumns = `id, tenant_id, product_id, purchase_order_id, supplier, category, notes,
	original_quantity, remaining_balance, total_cost, unit_cost, purchased_at, created_at, updated_at`

// fifoOrder orden de consumo: más antiguo primero, id como desempate estable.
const fifoOrder = `ORDER BY purchased_at, id`

type lotRow struct {
	ID               string          `db:"id"`
	TenantID         string          `db:"tenant_id"`
	ProductID        string          `db:"product_id"`
	PurchaseOrderID  string          `db:"purchase_order_id"`
	Supplier         string          `db:"supplier"`
	Category         string          `db:"category"`
	Notes            string          `db:"notes"`
	OriginalQuantity int             `db:"original_quantity"`
	RemainingBalance int             `db:"remaining_balance"`
	TotalCost        decimal.Decimal `db:"total_cost"`
	UnitCost         decimal.Decimal `db:"unit_cost"`
	PurchasedAt      time.Time       `db:"purchased_at"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

func (r lotRow) toEntity() *entity.Lot {
	return &entity.Lot{
		ID:               r.ID,
		TenantID:         r.TenantID,
		ProductID:        r.ProductID,
		PurchaseOrderID:  r.PurchaseOrderID,
		Supplier:         r.Supplier,
		Category:         r.Category,
		Notes:            r.Notes,
		OriginalQuantity: r.OriginalQuantity,
		RemainingBalance: r.RemainingBalance,
		TotalCost:        r.TotalCost,
		UnitCost:         r.UnitCost,
		PurchasedAt:      r.PurchasedAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// LotRepo implementación de LotRepository sobre PostgreSQL.
type LotRepo struct {
	db Querier
}

// NewLotRepository construye el repositorio con un pool o una tx.
func NewLotRepository(db Querier) *LotRepo {
	return &LotRepo{db: db}
}

func (r *LotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	query := `
		INSERT INTO lots (` + lotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.db.Exec(ctx, query,
		lot.ID, lot.TenantID, lot.ProductID, lot.PurchaseOrderID, lot.Supplier, lot.Category, lot.Notes,
		lot.OriginalQuantity, lot.RemainingBalance, lot.TotalCost, lot.UnitCost, lot.PurchasedAt,
		lot.CreatedAt, lot.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) || isInvalidText(err) {
			return domain.ErrNotFound
		}
		if isRejectedValue(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

func (r *LotRepo) Update(ctx context.Context, lot *entity.Lot) error {
	query := `
		UPDATE lots SET product_id = $3, purchase_order_id = $4, supplier = $5, category = $6, notes = $7,
			original_quantity = $8, remaining_balance = $9, total_cost = $10, unit_cost = $11,
			purchased_at = $12, updated_at = $13
		WHERE tenant_id = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query,
		lot.TenantID, lot.ID, lot.ProductID, lot.PurchaseOrderID, lot.Supplier, lot.Category, lot.Notes,
		lot.OriginalQuantity, lot.RemainingBalance, lot.TotalCost, lot.UnitCost, lot.PurchasedAt, lot.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("update lot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *LotRepo) UpdateBalance(ctx context.Context, tenantID, lotID string, balance int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE lots SET remaining_balance = $3, updated_at = now() WHERE tenant_id = $1 AND id = $2`,
		tenantID, lotID, balance,
	)
	if err != nil {
		if hasCode(err, "23514") {
			return domain.ErrConflict
		}
		return fmt.Errorf("update lot balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *LotRepo) Delete(ctx context.Context, tenantID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM lots WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		if isInvalidText(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete lot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *LotRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Lot, error) {
	return r.getOne(ctx, `SELECT `+lotColumns+` FROM lots WHERE tenant_id = $1 AND id = $2`, tenantID, id)
}

func (r *LotRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Lot, error) {
	return r.getOne(ctx, `SELECT `+lotColumns+` FROM lots WHERE tenant_id = $1 AND id = $2 FOR UPDATE`, tenantID, id)
}

func (r *LotRepo) GetByPurchaseOrder(ctx context.Context, tenantID, purchaseOrderID string) (*entity.Lot, error) {
	return r.getOne(ctx,
		`SELECT `+lotColumns+` FROM lots WHERE tenant_id = $1 AND purchase_order_id = $2`,
		tenantID, purchaseOrderID,
	)
}

// ListAvailableForUpdate bloquea en orden FIFO; la reversión usa el mismo orden.
func (r *LotRepo) ListAvailableForUpdate(ctx context.Context, tenantID, productID string) ([]*entity.Lot, error) {
	return r.list(ctx, `
		SELECT `+lotColumns+` FROM lots
		WHERE tenant_id = $1 AND product_id = $2 AND remaining_balance > 0
		`+fifoOrder+` FOR UPDATE`, tenantID, productID)
}

func (r *LotRepo) ListByProductForUpdate(ctx context.Context, tenantID, productID string) ([]*entity.Lot, error) {
	return r.list(ctx, `
		SELECT `+lotColumns+` FROM lots
		WHERE tenant_id = $1 AND product_id = $2
		`+fifoOrder+` FOR UPDATE`, tenantID, productID)
}

func (r *LotRepo) ListByProduct(ctx context.Context, tenantID, productID string) ([]*entity.Lot, error) {
	return r.list(ctx, `
		SELECT `+lotColumns+` FROM lots
		WHERE tenant_id = $1 AND product_id = $2
		`+fifoOrder, tenantID, productID)
}

func (r *LotRepo) List(ctx context.Context, tenantID string, f repository.LotFilter) ([]*entity.Lot, error) {
	query, args, err := lotListQuery(tenantID, f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list lots query: %w", err)
	}
	return r.list(ctx, query, args...)
}

// lotListQuery arma el SELECT filtrado; solo agrega las condiciones presentes.
func lotListQuery(tenantID string, f repository.LotFilter) squirrel.SelectBuilder {
	q := psql.Select(lotColumns).From("lots").Where(squirrel.Eq{"tenant_id": tenantID})
	if f.ProductID != "" {
		q = q.Where(squirrel.Eq{"product_id": f.ProductID})
	}
	if f.Category != "" {
		q = q.Where(squirrel.Eq{"category": f.Category})
	}
	if f.Supplier != "" {
		q = q.Where(squirrel.ILike{"supplier": "%" + f.Supplier + "%"})
	}
	if f.LowBalance {
		q = q.Where(squirrel.Gt{"remaining_balance": 0}).
			Where(squirrel.Lt{"remaining_balance": repository.LowBalanceThreshold})
	}
	q = q.OrderBy("purchased_at DESC", "id DESC")
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}
	return q
}

func (r *LotRepo) SumAvailable(ctx context.Context, tenantID, productID string) (int, error) {
	var total int
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(remaining_balance), 0)::int FROM lots WHERE tenant_id = $1 AND product_id = $2`,
		tenantID, productID,
	).Scan(&total)
	if err != nil {
		if isInvalidText(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("sum lot balance: %w", err)
	}
	return total, nil
}

func (r *LotRepo) CountByProduct(ctx context.Context, tenantID, productID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*)::int FROM lots WHERE tenant_id = $1 AND product_id = $2`, tenantID, productID,
	).Scan(&n)
	if err != nil {
		if isInvalidText(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("count lots: %w", err)
	}
	return n, nil
}

type productBalanceRow struct {
	ProductID string `db:"product_id"`
	Balance   int    `db:"balance"`
}

func (r *LotRepo) BalancesByProduct(ctx context.Context, tenantID string) (map[string]int, error) {
	query, args, err := psql.
		Select("product_id", "COALESCE(SUM(remaining_balance), 0)::int AS balance").
		From("lots").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		GroupBy("product_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build balances query: %w", err)
	}
	var rows []productBalanceRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		if isInvalidText(err) {
			return map[string]int{}, nil
		}
		return nil, fmt.Errorf("balances by product: %w", err)
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.ProductID] = row.Balance
	}
	return out, nil
}

func (r *LotRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Lot, error) {
	var row lotRow
	if err := pgxscan.Get(ctx, r.db, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return row.toEntity(), nil
}

func (r *LotRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Lot, error) {
	var rows []lotRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		if isInvalidText(err) {
			return []*entity.Lot{}, nil
		}
		return nil, fmt.Errorf("list lots: %w", err)
	}
	out := make([]*entity.Lot, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

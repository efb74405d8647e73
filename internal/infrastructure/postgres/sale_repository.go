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

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, tenant_id, order_id, product_id, platform, quantity, sold_at,
	sell_price, shipping_paid_by_customer, shipping_cost, platform_fee, operating_expenses,
	cost_of_goods_sold, notes, created_at, updated_at`

type saleRow struct {
	ID                     string          `db:"id"`
	TenantID               string          `db:"tenant_id"`
	OrderID                string          `db:"order_id"`
	ProductID              string          `db:"product_id"`
	Platform               string          `db:"platform"`
	Quantity               int             `db:"quantity"`
	SoldAt                 time.Time       `db:"sold_at"`
	SellPrice              decimal.Decimal `db:"sell_price"`
	ShippingPaidByCustomer decimal.Decimal `db:"shipping_paid_by_customer"`
	ShippingCost           decimal.Decimal `db:"shipping_cost"`
	PlatformFee            decimal.Decimal `db:"platform_fee"`
	OperatingExpenses      decimal.Decimal `db:"operating_expenses"`
	CostOfGoodsSold        decimal.Decimal `db:"cost_of_goods_sold"`
	Notes                  string          `db:"notes"`
	CreatedAt              time.Time       `db:"created_at"`
	UpdatedAt              time.Time       `db:"updated_at"`
}

func (r saleRow) toEntity() *entity.Sale {
	return &entity.Sale{
		ID:                     r.ID,
		TenantID:               r.TenantID,
		OrderID:                r.OrderID,
		ProductID:              r.ProductID,
		Platform:               r.Platform,
		Quantity:               r.Quantity,
		SoldAt:                 r.SoldAt,
		SellPrice:              r.SellPrice,
		ShippingPaidByCustomer: r.ShippingPaidByCustomer,
		ShippingCost:           r.ShippingCost,
		PlatformFee:            r.PlatformFee,
		OperatingExpenses:      r.OperatingExpenses,
		CostOfGoodsSold:        r.CostOfGoodsSold,
		Notes:                  r.Notes,
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
}

// SaleRepo ventas sobre PostgreSQL.
type SaleRepo struct {
	db Querier
}

// NewSaleRepository construye el repositorio con un pool o una tx.
func NewSaleRepository(db Querier) *SaleRepo {
	return &SaleRepo{db: db}
}

func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.db.Exec(ctx, query,
		s.ID, s.TenantID, s.OrderID, s.ProductID, s.Platform, s.Quantity, s.SoldAt,
		s.SellPrice, s.ShippingPaidByCustomer, s.ShippingCost, s.PlatformFee, s.OperatingExpenses,
		s.CostOfGoodsSold, s.Notes, s.CreatedAt, s.UpdatedAt,
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
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// Update no toca product_id, quantity ni cost_of_goods_sold.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	query := `
		UPDATE sales SET order_id = $3, platform = $4, sold_at = $5, sell_price = $6,
			shipping_paid_by_customer = $7, shipping_cost = $8, platform_fee = $9,
			operating_expenses = $10, notes = $11, updated_at = $12
		WHERE tenant_id = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query,
		s.TenantID, s.ID, s.OrderID, s.Platform, s.SoldAt, s.SellPrice,
		s.ShippingPaidByCustomer, s.ShippingCost, s.PlatformFee, s.OperatingExpenses, s.Notes, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SaleRepo) UpdateCost(ctx context.Context, tenantID, saleID string, cogs decimal.Decimal) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE sales SET cost_of_goods_sold = $3, updated_at = now() WHERE tenant_id = $1 AND id = $2`,
		tenantID, saleID, cogs,
	)
	if err != nil {
		return fmt.Errorf("update sale cost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete falla con domain.ErrConflict si aún quedan registros de consumo de la venta.
func (r *SaleRepo) Delete(ctx context.Context, tenantID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sales WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		if isInvalidText(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE tenant_id = $1 AND id = $2`, tenantID, id)
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE tenant_id = $1 AND id = $2 FOR UPDATE`, tenantID, id)
}

func (r *SaleRepo) GetByOrderID(ctx context.Context, tenantID, orderID string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE tenant_id = $1 AND order_id = $2`, tenantID, orderID)
}

func (r *SaleRepo) List(ctx context.Context, tenantID string, f repository.SaleFilter) ([]*entity.Sale, error) {
	query, args, err := saleListQuery(tenantID, f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sales query: %w", err)
	}
	var rows []saleRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		if isInvalidText(err) {
			return []*entity.Sale{}, nil
		}
		return nil, fmt.Errorf("list sales: %w", err)
	}
	out := make([]*entity.Sale, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func saleListQuery(tenantID string, f repository.SaleFilter) squirrel.SelectBuilder {
	q := psql.Select(saleColumns).From("sales").Where(squirrel.Eq{"tenant_id": tenantID})
	if f.Platform != "" {
		q = q.Where(squirrel.Eq{"platform": f.Platform})
	}
	if f.ProductID != "" {
		q = q.Where(squirrel.Eq{"product_id": f.ProductID})
	}
	if f.From != nil {
		q = q.Where(squirrel.GtOrEq{"sold_at": *f.From})
	}
	if f.To != nil {
		q = q.Where(squirrel.LtOrEq{"sold_at": *f.To})
	}
	q = q.OrderBy("sold_at DESC", "id DESC")
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}
	return q
}

func (r *SaleRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Sale, error) {
	var row saleRow
	if err := pgxscan.Get(ctx, r.db, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return row.toEntity(), nil
}

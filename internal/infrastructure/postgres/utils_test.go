package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/FernandoLelis/multivendas-backend/internal/domain/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	fk := &pgconn.PgError{Code: "23503"}
	serialization := &pgconn.PgError{Code: "40001"}
	deadlock := &pgconn.PgError{Code: "40P01"}

	assert.True(t, isUniqueViolation(unique))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert lot: %w", unique)))
	assert.False(t, isUniqueViolation(fk))

	assert.True(t, isForeignKeyViolation(fk))
	assert.False(t, isForeignKeyViolation(unique))

	assert.True(t, isRetryable(serialization))
	assert.True(t, isRetryable(fmt.Errorf("lock lots: %w", deadlock)))
	assert.False(t, isRetryable(unique))
	assert.False(t, isRetryable(errors.New("connection refused")))
	assert.False(t, isRetryable(nil))

	assert.True(t, isRejectedValue(fmt.Errorf("insert lot: %w", &pgconn.PgError{Code: "23514"})))
	assert.True(t, isRejectedValue(&pgconn.PgError{Code: "22003"}))
	assert.False(t, isRejectedValue(unique))
}

func TestLotListQuery(t *testing.T) {
	sql, args, err := lotListQuery("t1", repository.LotFilter{
		ProductID: "p1", Category: "Eletrônicos", Supplier: "acme", LowBalance: true, Limit: 10, Offset: 20,
	}).ToSql()
	assert.NoError(t, err)
	assert.Contains(t, sql, "tenant_id = $1")
	assert.Contains(t, sql, "product_id = $2")
	assert.Contains(t, sql, "category = $3")
	assert.Contains(t, sql, "supplier ILIKE $4")
	assert.Contains(t, sql, "remaining_balance > $5")
	assert.Contains(t, sql, "remaining_balance < $6")
	assert.Contains(t, sql, "ORDER BY purchased_at DESC, id DESC")
	assert.Contains(t, sql, "LIMIT 10 OFFSET 20")
	assert.Equal(t, []any{"t1", "p1", "Eletrônicos", "%acme%", 0, 5}, args)
}

func TestSaleListQuery(t *testing.T) {
	sql, args, err := saleListQuery("t1", repository.SaleFilter{Platform: "SHOPEE"}).ToSql()
	assert.NoError(t, err)
	assert.Contains(t, sql, "tenant_id = $1")
	assert.Contains(t, sql, "platform = $2")
	assert.NotContains(t, sql, "product_id =")
	assert.Contains(t, sql, "ORDER BY sold_at DESC, id DESC")
	assert.Equal(t, []any{"t1", "SHOPEE"}, args)
}

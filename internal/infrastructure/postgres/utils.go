package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier lo que los repositorios necesitan de un pool o de una transacción abierta.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// psql builder con placeholders $n.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return hasCode(err, "23505")
}

// isForeignKeyViolation fila referenciada por otra (23503).
func isForeignKeyViolation(err error) bool {
	return hasCode(err, "23503")
}

// isRetryable serialization_failure (40001) o deadlock_detected (40P01).
func isRetryable(err error) bool {
	return hasCode(err, "40001") || hasCode(err, "40P01")
}

// isRejectedValue check_violation (23514) o numeric_value_out_of_range (22003) en un alta:
// el valor no respeta las restricciones de la columna.
func isRejectedValue(err error) bool {
	return hasCode(err, "23514") || hasCode(err, "22003")
}

func hasCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return strings.Contains(err.Error(), "SQLSTATE "+code)
}

// isInvalidText valor mal formado para el tipo de la columna (22P02), p. ej. un id que no es UUID.
// Las búsquedas lo tratan como fila inexistente.
func isInvalidText(err error) bool {
	return hasCode(err, "22P02")
}

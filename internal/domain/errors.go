package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrLotLocked          = errors.New("lote con consumo registrado")
	ErrNoConsumptionFound = errors.New("venta sin registros de consumo")
	ErrImmutableField     = errors.New("campo inmutable")
	ErrConcurrentUpdate   = errors.New("conflicto de concurrencia, reintentos agotados")
)

// LotLockedError rechazo del guard de lotes: el lote ya fue consumido total o parcialmente.
// RemainingBalance y OriginalQuantity permiten saber cuántas unidades hay que devolver
// (borrando ventas) antes de poder editar o borrar el lote.
type LotLockedError struct {
	LotID            string
	RemainingBalance int
	OriginalQuantity int
}

func (e *LotLockedError) Error() string {
	return fmt.Sprintf("lote %s con consumo registrado (saldo actual: %d, cantidad original: %d)",
		e.LotID, e.RemainingBalance, e.OriginalQuantity)
}

func (e *LotLockedError) Unwrap() error { return ErrLotLocked }

// Consumed unidades del lote ya asignadas a ventas.
func (e *LotLockedError) Consumed() int {
	return e.OriginalQuantity - e.RemainingBalance
}

// InsufficientStockError detalle de un rechazo por falta de saldo.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el producto %s (solicitado: %d, disponible: %d)",
		e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

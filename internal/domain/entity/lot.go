package entity

import (
	"fmt"
	"time"

	"github.com/FernandoLelis/multivendas-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// UnitCostPlaces decimales con los que se fija el costo unitario de un lote.
const UnitCostPlaces = 2

// Lot representa una entrada de mercadería (compra) de un producto.
// OriginalQuantity es fija; RemainingBalance la van consumiendo las ventas en orden FIFO.
type Lot struct {
	ID               string
	TenantID         string
	ProductID        string
	PurchaseOrderID  string // único por tenant
	Supplier         string
	Category         string
	Notes            string
	OriginalQuantity int
	RemainingBalance int
	TotalCost        decimal.Decimal
	UnitCost         decimal.Decimal // TotalCost / OriginalQuantity, 2 decimales
	PurchasedAt      time.Time       // clave de orden FIFO (desempate por ID)
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// UnitCostOf calcula totalCost / quantity redondeado a 2 decimales, mitad hacia arriba.
// Solo acepta cantidad > 0 y costo > 0; la división por cero nunca llega hasta aquí.
func UnitCostOf(totalCost decimal.Decimal, quantity int) (decimal.Decimal, error) {
	if quantity <= 0 || !totalCost.IsPositive() {
		return decimal.Zero, domain.ErrInvalidInput
	}
	// DivRound redondea alejándose de cero; para valores positivos equivale a HALF_UP.
	return totalCost.DivRound(decimal.NewFromInt(int64(quantity)), UnitCostPlaces), nil
}

// NewLot arma un lote intacto (saldo = cantidad original).
func NewLot(id, tenantID, productID string, quantity int, totalCost decimal.Decimal, purchasedAt time.Time) (*Lot, error) {
	unit, err := UnitCostOf(totalCost, quantity)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if purchasedAt.IsZero() {
		purchasedAt = now
	}
	return &Lot{
		ID:               id,
		TenantID:         tenantID,
		ProductID:        productID,
		OriginalQuantity: quantity,
		RemainingBalance: quantity,
		TotalCost:        totalCost,
		UnitCost:         unit,
		PurchasedAt:      purchasedAt,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// IsUntouched es el único predicado que decide si un lote puede editarse o borrarse.
func (l *Lot) IsUntouched() bool {
	return l.RemainingBalance == l.OriginalQuantity
}

// EnsureMutable devuelve *domain.LotLockedError si alguna venta ya consumió del lote.
func (l *Lot) EnsureMutable() error {
	if l.IsUntouched() {
		return nil
	}
	return &domain.LotLockedError{
		LotID:            l.ID,
		RemainingBalance: l.RemainingBalance,
		OriginalQuantity: l.OriginalQuantity,
	}
}

// Reprice cambia cantidad y costo total de un lote intacto y recalcula el costo unitario.
func (l *Lot) Reprice(quantity int, totalCost decimal.Decimal) error {
	if err := l.EnsureMutable(); err != nil {
		return err
	}
	unit, err := UnitCostOf(totalCost, quantity)
	if err != nil {
		return err
	}
	l.OriginalQuantity = quantity
	l.RemainingBalance = quantity
	l.TotalCost = totalCost
	l.UnitCost = unit
	return nil
}

// Draw descuenta qty del saldo.
func (l *Lot) Draw(qty int) error {
	if qty <= 0 || qty > l.RemainingBalance {
		return fmt.Errorf("lote %s: consumo de %d con saldo %d: %w", l.ID, qty, l.RemainingBalance, domain.ErrInvalidInput)
	}
	l.RemainingBalance -= qty
	return nil
}

// Restore devuelve qty al saldo; nunca supera la cantidad original.
func (l *Lot) Restore(qty int) error {
	if qty <= 0 || l.RemainingBalance+qty > l.OriginalQuantity {
		return fmt.Errorf("lote %s: devolución de %d excede la cantidad original (saldo %d, original %d): %w",
			l.ID, qty, l.RemainingBalance, l.OriginalQuantity, domain.ErrConflict)
	}
	l.RemainingBalance += qty
	return nil
}

// Consumed unidades ya asignadas a ventas.
func (l *Lot) Consumed() int {
	return l.OriginalQuantity - l.RemainingBalance
}

package memory

import (
	"context"

	"github.com/FernandoLelis/multivendas-backend/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta fn con el almacén bloqueado y restaura una copia del estado si fn falla.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run serializa la transacción; ante error o panic el estado vuelve al de antes de fn.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.Repos) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	snapshot := r.s.st.clone()
	defer func() {
		if p := recover(); p != nil {
			r.s.st = snapshot
			panic(p)
		}
		if err != nil {
			r.s.st = snapshot
		}
	}()

	a := access{s: r.s, inTx: true}
	err = fn(inventory.Repos{
		Lots:         &LotRepo{a},
		Consumptions: &ConsumptionRepo{a},
		Sales:        &SaleRepo{a},
		Products:     &ProductRepo{a},
	})
	if err == nil {
		err = ctx.Err()
	}
	return err
}

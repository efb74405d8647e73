package inventory

import (
	"context"
	"slices"

	"github.com/FernandoLelis/multivendas-backend/internal/domain/entity"
	"github.com/rs/zerolog"
)

// BalanceWrite acompaña una transacción que modifica saldos de lotes. Touch se llama
// dentro de la transacción, antes del commit; Done después de Run, haya commit o no.
// Si Done falla la escritura queda abierta hasta que vence y la caché solo devuelve misses.
type BalanceWrite struct {
	cache    BalanceCache
	log      zerolog.Logger
	tenantID string
	token    string
	products []string
}

// NewBalanceWrite abre el seguimiento de una escritura del tenant.
func NewBalanceWrite(cache BalanceCache, log zerolog.Logger, tenantID string) *BalanceWrite {
	return &BalanceWrite{cache: cache, log: log, tenantID: tenantID, token: entity.NewID()}
}

// Touch marca los productos cuyo saldo va a cambiar. Es idempotente: un reintento de la
// transacción no vuelve a marcar lo ya marcado.
func (w *BalanceWrite) Touch(ctx context.Context, productIDs ...string) {
	var fresh []string
	for _, id := range productIDs {
		if id == "" || slices.Contains(w.products, id) {
			continue
		}
		w.products = append(w.products, id)
		fresh = append(fresh, id)
	}
	if len(fresh) == 0 {
		return
	}
	if err := w.cache.BeginWrite(ctx, w.tenantID, w.token, fresh...); err != nil {
		w.log.Warn().Err(err).Str("tenant_id", w.tenantID).Strs("product_ids", fresh).Msg("abrir escritura en caché de saldo")
	}
}

// Done cierra la escritura. Usa un contexto sin cancelación: la petición pudo terminar.
func (w *BalanceWrite) Done(ctx context.Context) {
	if len(w.products) == 0 {
		return
	}
	if err := w.cache.EndWrite(context.WithoutCancel(ctx), w.tenantID, w.token, w.products...); err != nil {
		w.log.Error().Err(err).Str("tenant_id", w.tenantID).Strs("product_ids", w.products).Msg("cerrar escritura en caché de saldo")
	}
}

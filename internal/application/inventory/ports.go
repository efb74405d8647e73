package inventory

import (
	"context"

	"github.com/FernandoLelis/multivendas-backend/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Lots         repository.LotRepository
	Consumptions repository.ConsumptionRepository
	Sales        repository.SaleRepository
	Products     repository.ProductRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD con repositorios atados a ella.
// Commit si fn devuelve nil; rollback completo en cualquier otro caso. Las implementaciones
// pueden reintentar fn entera ante conflictos de bloqueo, así que fn no debe tener efectos
// fuera de los repositorios recibidos.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}

// CachedBalance lectura de la caché de saldos. Gen es la generación vigente de la clave y
// viene también en un miss: es la que hay que pasar a Set.
type CachedBalance struct {
	Balance int
	Gen     int64
	Hit     bool
}

// BalanceCache caché del saldo disponible por (tenant, producto). Solo la usan consultas
// de lectura; el costeo siempre lee la BD con bloqueo.
//
// Cada clave tiene una generación que las escrituras avanzan antes y después del commit.
// Set descarta el valor si la generación cambió desde el Get o si hay una escritura abierta,
// así una lectura hecha antes de un commit nunca vuelve a la caché.
type BalanceCache interface {
	Get(ctx context.Context, tenantID, productID string) (CachedBalance, error)
	Set(ctx context.Context, tenantID, productID string, gen int64, balance int) error
	// BeginWrite borra el valor, avanza la generación y abre la escritura token.
	BeginWrite(ctx context.Context, tenantID, token string, productIDs ...string) error
	// EndWrite avanza otra vez la generación y cierra la escritura token.
	EndWrite(ctx context.Context, tenantID, token string, productIDs ...string) error
}

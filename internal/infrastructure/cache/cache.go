package cache

import (
	"context"
	"time"

	"github.com/FernandoLelis/multivendas-backend/internal/application/inventory"
)

var _ inventory.BalanceCache = NoopBalanceCache{}

const (
	// pendingTTL vida de una escritura abierta que nunca se cerró.
	pendingTTL = time.Minute
	// genTTL vida del contador de generación; mucho mayor que la de los valores.
	genTTL = 24 * time.Hour
)

// NoopBalanceCache caché deshabilitada: siempre miss.
type NoopBalanceCache struct{}

func (NoopBalanceCache) Get(_ context.Context, _, _ string) (inventory.CachedBalance, error) {
	return inventory.CachedBalance{}, nil
}

func (NoopBalanceCache) Set(_ context.Context, _, _ string, _ int64, _ int) error {
	return nil
}

func (NoopBalanceCache) BeginWrite(_ context.Context, _, _ string, _ ...string) error {
	return nil
}

func (NoopBalanceCache) EndWrite(_ context.Context, _, _ string, _ ...string) error {
	return nil
}

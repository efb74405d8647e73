package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/FernandoLelis/multivendas-backend/internal/application/inventory"
	"github.com/FernandoLelis/multivendas-backend/internal/domain/entity"
	"github.com/FernandoLelis/multivendas-backend/internal/infrastructure/cache"
	"github.com/FernandoLelis/multivendas-backend/internal/infrastructure/memory"
)

const (
	tenantA = "00000000-0000-0000-0000-00000000000a"
	tenantB = "00000000-0000-0000-0000-00000000000b"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// hookCache envuelve la caché local: cuenta aciertos, puede ejecutar código entre la
// lectura de la BD y el Set, y puede hacer fallar EndWrite.
type hookCache struct {
	*cache.LocalBalanceCache

	mu        sync.Mutex
	hits      int
	beforeSet func()
	failEnd   bool
}

func newHookCache() *hookCache {
	return &hookCache{LocalBalanceCache: cache.NewLocalBalanceCache(time.Minute)}
}

func (c *hookCache) Get(ctx context.Context, tenantID, productID string) (inventory.CachedBalance, error) {
	got, err := c.LocalBalanceCache.Get(ctx, tenantID, productID)
	if got.Hit {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
	}
	return got, err
}

func (c *hookCache) Set(ctx context.Context, tenantID, productID string, gen int64, balance int) error {
	c.mu.Lock()
	hook := c.beforeSet
	c.beforeSet = nil
	c.mu.Unlock()
	if hook != nil {
		hook()
	}
	return c.LocalBalanceCache.Set(ctx, tenantID, productID, gen, balance)
}

func (c *hookCache) EndWrite(ctx context.Context, tenantID, token string, productIDs ...string) error {
	c.mu.Lock()
	fail := c.failEnd
	c.mu.Unlock()
	if fail {
		return errors.New("redis: connection refused")
	}
	return c.LocalBalanceCache.EndWrite(ctx, tenantID, token, productIDs...)
}

type fixture struct {
	store  *memory.Store
	tx     *memory.TxRunner
	engine *inventory.Engine
	cache  *hookCache
	lots   *inventory.LotUseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	cache := newHookCache()
	log := zerolog.Nop()
	return &fixture{
		store:  store,
		tx:     tx,
		engine: inventory.NewEngine(log),
		cache:  cache,
		lots:   inventory.NewLotUseCase(tx, store.Lots(), store.Consumptions(), store.Products(), cache, log),
	}
}

func (f *fixture) product(t *testing.T, tenantID, sku string, minimum int) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID:           entity.NewID(),
		TenantID:     tenantID,
		SKU:          sku,
		Name:         "Produto " + sku,
		MinimumStock: minimum,
		CreatedAt:    baseTime,
		UpdatedAt:    baseTime,
	}
	require.NoError(t, f.store.Products().Create(context.Background(), p))
	return p
}

func (f *fixture) lot(t *testing.T, tenantID, productID, po string, qty int, total string, purchasedAt time.Time) *entity.Lot {
	t.Helper()
	lot, err := f.lots.RegisterLot(context.Background(), tenantID, inventory.LotInput{
		ProductID:       productID,
		Quantity:        qty,
		TotalCost:       decimal.RequireFromString(total),
		PurchaseOrderID: po,
		Supplier:        "Fornecedor SP",
		Category:        "Eletrônicos",
		PurchasedAt:     purchasedAt,
	})
	require.NoError(t, err)
	return lot
}

// sell persiste y costea una venta en una sola transacción, como el caso de uso de ventas.
func (f *fixture) sell(tenantID, productID, orderID string, qty int) (*entity.Sale, error) {
	ctx := context.Background()
	sale := &entity.Sale{
		ID:        entity.NewID(),
		TenantID:  tenantID,
		OrderID:   orderID,
		ProductID: productID,
		Platform:  entity.PlatformShopee,
		Quantity:  qty,
		SoldAt:    baseTime,
		SellPrice: decimal.NewFromInt(100),
		CreatedAt: baseTime,
		UpdatedAt: baseTime,
	}
	err := f.tx.Run(ctx, func(repos inventory.Repos) error {
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}
		_, err := f.engine.CostSale(ctx, repos, sale)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

func (f *fixture) unsell(t *testing.T, sale *entity.Sale) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.tx.Run(ctx, func(repos inventory.Repos) error {
		if _, err := f.engine.ReverseSale(ctx, repos, sale); err != nil {
			return err
		}
		return repos.Sales.Delete(ctx, sale.TenantID, sale.ID)
	}))
}

func (f *fixture) balance(t *testing.T, tenantID, lotID string) int {
	t.Helper()
	lot, err := f.store.Lots().GetByID(context.Background(), tenantID, lotID)
	require.NoError(t, err)
	require.NotNil(t, lot)
	return lot.RemainingBalance
}

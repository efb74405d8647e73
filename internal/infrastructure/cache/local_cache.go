package cache

import (
	"context"
	"sync"
	"time"

	"github.com/FernandoLelis/multivendas-backend/internal/application/inventory"
)

var _ inventory.BalanceCache = (*LocalBalanceCache)(nil)

// LocalBalanceCache caché en proceso con las mismas reglas de generación que
// RedisBalanceCache. Solo vale para una instancia única (DB_DRIVER=memory).
type LocalBalanceCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*localEntry
}

type localEntry struct {
	gen      int64
	balance  int
	hasValue bool
	expires  time.Time
	pending  map[string]time.Time
}

// NewLocalBalanceCache crea la caché; ttl <= 0 usa 30s.
func NewLocalBalanceCache(ttl time.Duration) *LocalBalanceCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &LocalBalanceCache{ttl: ttl, now: time.Now, entries: make(map[string]*localEntry)}
}

func (c *LocalBalanceCache) entry(tenantID, productID string) *localEntry {
	k := Key(tenantID, productID)
	e, ok := c.entries[k]
	if !ok {
		e = &localEntry{pending: make(map[string]time.Time)}
		c.entries[k] = e
	}
	return e
}

func (c *LocalBalanceCache) Get(_ context.Context, tenantID, productID string) (inventory.CachedBalance, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[Key(tenantID, productID)]
	if !ok {
		return inventory.CachedBalance{}, nil
	}
	out := inventory.CachedBalance{Gen: e.gen}
	if e.hasValue && c.now().Before(e.expires) {
		out.Balance, out.Hit = e.balance, true
	}
	return out, nil
}

func (c *LocalBalanceCache) Set(_ context.Context, tenantID, productID string, gen int64, balance int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(tenantID, productID)
	if e.gen != gen {
		return nil
	}
	now := c.now()
	for token, until := range e.pending {
		if !now.Before(until) {
			delete(e.pending, token)
		}
	}
	if len(e.pending) > 0 {
		return nil
	}
	e.balance, e.hasValue, e.expires = balance, true, now.Add(c.ttl)
	return nil
}

func (c *LocalBalanceCache) BeginWrite(_ context.Context, tenantID, token string, productIDs ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	until := c.now().Add(pendingTTL)
	for _, id := range productIDs {
		e := c.entry(tenantID, id)
		e.gen++
		e.hasValue = false
		e.pending[token] = until
	}
	return nil
}

func (c *LocalBalanceCache) EndWrite(_ context.Context, tenantID, token string, productIDs ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range productIDs {
		e := c.entry(tenantID, id)
		e.gen++
		e.hasValue = false
		delete(e.pending, token)
	}
	return nil
}

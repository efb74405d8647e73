package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/FernandoLelis/multivendas-backend/internal/application/inventory"
	"github.com/FernandoLelis/multivendas-backend/pkg/config"
	redis "github.com/redis/go-redis/v9"
)

var _ inventory.BalanceCache = (*RedisBalanceCache)(nil)

const keyPrefix = "mv:balance"

// Por producto: valor "gen:saldo" con TTL corto, contador de generación y un zset de
// escrituras abiertas (token con vencimiento en ms). Las tres claves comparten hash tag.
var (
	setScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[2]) or '0'
if cur ~= ARGV[1] then return 0 end
redis.call('ZREMRANGEBYSCORE', KEYS[3], '-inf', ARGV[4])
if redis.call('ZCARD', KEYS[3]) > 0 then return 0 end
redis.call('SET', KEYS[1], ARGV[1] .. ':' .. ARGV[2], 'PX', ARGV[3])
return 1
`)
	beginScript = redis.NewScript(`
redis.call('INCR', KEYS[2])
redis.call('PEXPIRE', KEYS[2], ARGV[4])
redis.call('DEL', KEYS[1])
redis.call('ZADD', KEYS[3], ARGV[2], ARGV[1])
redis.call('PEXPIRE', KEYS[3], ARGV[3])
return 1
`)
	endScript = redis.NewScript(`
redis.call('INCR', KEYS[2])
redis.call('PEXPIRE', KEYS[2], ARGV[2])
redis.call('DEL', KEYS[1])
redis.call('ZREM', KEYS[3], ARGV[1])
return 1
`)
)

// RedisBalanceCache saldos disponibles en Redis con TTL corto. Un valor solo se guarda
// si la generación no cambió desde la lectura y no hay escrituras abiertas.
type RedisBalanceCache struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisBalanceCache crea el cliente con la configuración de la app.
func NewRedisBalanceCache(cfg config.RedisConfig, ttl time.Duration) *RedisBalanceCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisBalanceCache{client: client, ttl: ttl, now: time.Now}
}

// Ping verifica la conexión.
func (c *RedisBalanceCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close cierra el cliente.
func (c *RedisBalanceCache) Close() error {
	return c.client.Close()
}

// Key clave del saldo; el tenant va siempre en la clave y {} fija el slot en cluster.
func Key(tenantID, productID string) string {
	return fmt.Sprintf("%s:{%s:%s}", keyPrefix, tenantID, productID)
}

func keys(tenantID, productID string) []string {
	k := Key(tenantID, productID)
	return []string{k, k + ":gen", k + ":pending"}
}

func (c *RedisBalanceCache) Get(ctx context.Context, tenantID, productID string) (inventory.CachedBalance, error) {
	ks := keys(tenantID, productID)
	vals, err := c.client.MGet(ctx, ks[0], ks[1]).Result()
	if err != nil {
		return inventory.CachedBalance{}, err
	}
	var out inventory.CachedBalance
	if raw, ok := vals[1].(string); ok {
		if out.Gen, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return inventory.CachedBalance{}, fmt.Errorf("generación inválida %q: %w", raw, err)
		}
	}
	raw, ok := vals[0].(string)
	if !ok {
		return out, nil
	}
	gen, bal, err := parseValue(raw)
	if err != nil {
		return inventory.CachedBalance{}, err
	}
	if gen == out.Gen {
		out.Balance, out.Hit = bal, true
	}
	return out, nil
}

func parseValue(raw string) (int64, int, error) {
	genPart, balPart, ok := strings.Cut(raw, ":")
	if !ok {
		return 0, 0, fmt.Errorf("saldo cacheado inválido %q", raw)
	}
	gen, err := strconv.ParseInt(genPart, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("saldo cacheado inválido %q: %w", raw, err)
	}
	bal, err := strconv.Atoi(balPart)
	if err != nil {
		return 0, 0, fmt.Errorf("saldo cacheado inválido %q: %w", raw, err)
	}
	return gen, bal, nil
}

func (c *RedisBalanceCache) Set(ctx context.Context, tenantID, productID string, gen int64, balance int) error {
	return setScript.Run(ctx, c.client, keys(tenantID, productID),
		gen, balance, c.ttl.Milliseconds(), c.now().UnixMilli()).Err()
}

func (c *RedisBalanceCache) BeginWrite(ctx context.Context, tenantID, token string, productIDs ...string) error {
	until := c.now().Add(pendingTTL).UnixMilli()
	for _, id := range productIDs {
		err := beginScript.Run(ctx, c.client, keys(tenantID, id),
			token, until, pendingTTL.Milliseconds(), genTTL.Milliseconds()).Err()
		if err != nil {
			return fmt.Errorf("abrir escritura %s: %w", id, err)
		}
	}
	return nil
}

func (c *RedisBalanceCache) EndWrite(ctx context.Context, tenantID, token string, productIDs ...string) error {
	for _, id := range productIDs {
		err := endScript.Run(ctx, c.client, keys(tenantID, id), token, genTTL.Milliseconds()).Err()
		if err != nil {
			return fmt.Errorf("cerrar escritura %s: %w", id, err)
		}
	}
	return nil
}

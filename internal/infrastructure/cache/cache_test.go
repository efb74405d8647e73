package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_IncluyeTenant(t *testing.T) {
	assert.Equal(t, "mv:balance:{t1:p1}", Key("t1", "p1"))
	assert.NotEqual(t, Key("t1", "p1"), Key("t2", "p1"))
	assert.Equal(t, []string{"mv:balance:{t1:p1}", "mv:balance:{t1:p1}:gen", "mv:balance:{t1:p1}:pending"}, keys("t1", "p1"))
}

func TestParseValue(t *testing.T) {
	gen, bal, err := parseValue("7:15")
	require.NoError(t, err)
	assert.Equal(t, int64(7), gen)
	assert.Equal(t, 15, bal)

	for _, raw := range []string{"15", "x:15", "7:x"} {
		_, _, err := parseValue(raw)
		assert.Error(t, err, raw)
	}
}

func TestNoopBalanceCache_SiempreMiss(t *testing.T) {
	ctx := context.Background()
	c := NoopBalanceCache{}
	require.NoError(t, c.Set(ctx, "t", "p", 0, 10))

	got, err := c.Get(ctx, "t", "p")
	require.NoError(t, err)
	assert.False(t, got.Hit)
	assert.NoError(t, c.BeginWrite(ctx, "t", "w1", "p"))
	assert.NoError(t, c.EndWrite(ctx, "t", "w1", "p"))
}

func TestLocalBalanceCache_GuardaYLee(t *testing.T) {
	ctx := context.Background()
	c := NewLocalBalanceCache(time.Minute)

	got, err := c.Get(ctx, "t", "p")
	require.NoError(t, err)
	assert.False(t, got.Hit)

	require.NoError(t, c.Set(ctx, "t", "p", got.Gen, 10))
	got, err = c.Get(ctx, "t", "p")
	require.NoError(t, err)
	assert.True(t, got.Hit)
	assert.Equal(t, 10, got.Balance)

	other, err := c.Get(ctx, "t2", "p")
	require.NoError(t, err)
	assert.False(t, other.Hit, "el saldo no se comparte entre tenants")
}

func TestLocalBalanceCache_DescartaLecturaAnteriorAUnaEscritura(t *testing.T) {
	ctx := context.Background()
	c := NewLocalBalanceCache(time.Minute)

	stale, err := c.Get(ctx, "t", "p")
	require.NoError(t, err)

	require.NoError(t, c.BeginWrite(ctx, "t", "w1", "p"))
	require.NoError(t, c.EndWrite(ctx, "t", "w1", "p"))

	require.NoError(t, c.Set(ctx, "t", "p", stale.Gen, 5))
	got, err := c.Get(ctx, "t", "p")
	require.NoError(t, err)
	assert.False(t, got.Hit, "una lectura previa al commit no debe quedar cacheada")
}

func TestLocalBalanceCache_NoGuardaConEscrituraAbierta(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	c := NewLocalBalanceCache(time.Minute)
	c.now = func() time.Time { return now }

	require.NoError(t, c.BeginWrite(ctx, "t", "w1", "p"))
	got, err := c.Get(ctx, "t", "p")
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, "t", "p", got.Gen, 5))

	got, err = c.Get(ctx, "t", "p")
	require.NoError(t, err)
	assert.False(t, got.Hit)

	// Escritura nunca cerrada: al vencer se vuelve a cachear.
	now = now.Add(pendingTTL + time.Second)
	require.NoError(t, c.Set(ctx, "t", "p", got.Gen, 5))
	got, err = c.Get(ctx, "t", "p")
	require.NoError(t, err)
	assert.True(t, got.Hit)
	assert.Equal(t, 5, got.Balance)
}

func TestLocalBalanceCache_ValorVence(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	c := NewLocalBalanceCache(time.Second)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "t", "p", 0, 3))
	now = now.Add(2 * time.Second)
	got, err := c.Get(ctx, "t", "p")
	require.NoError(t, err)
	assert.False(t, got.Hit)
}

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	a := Key("homeowner", []byte(`{"installationCost":1}`))
	b := Key("homeowner", []byte(`{"installationCost":1}`))
	c := Key("provider", []byte(`{"installationCost":1}`))
	d := Key("homeowner", []byte(`{"installationCost":2}`))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
	assert.Contains(t, a, "roi:homeowner:")
}

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)

	_, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	value := []byte("payload")
	require.NoError(t, m.Set(ctx, "k", value, time.Minute))
	value[0] = 'X'

	got, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "payload", string(got))
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "short", []byte("a"), time.Second))
	require.NoError(t, m.Set(ctx, "forever", []byte("b"), 0))

	now = now.Add(2 * time.Second)

	_, ok, _ := m.Get(ctx, "short")
	assert.False(t, ok)
	_, ok, _ = m.Get(ctx, "forever")
	assert.True(t, ok)
	assert.Equal(t, 1, m.Len())
}

func TestMemoryEviction(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2)

	require.NoError(t, m.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, m.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, m.Set(ctx, "a", []byte("3"), 0))
	assert.Equal(t, 2, m.Len())

	require.NoError(t, m.Set(ctx, "c", []byte("4"), 0))
	assert.Equal(t, 2, m.Len())
	_, ok, _ := m.Get(ctx, "c")
	assert.True(t, ok)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		expectErr bool
	}{
		{"default backend", Config{}, false},
		{"memory backend", Config{Backend: "memory"}, false},
		{"redis backend", Config{Backend: "redis", RedisAddr: "localhost:6379"}, false},
		{"redis without address", Config{Backend: "redis"}, true},
		{"unknown backend", Config{Backend: "memcached"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.cfg, nil)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, c)
		})
	}
}

func TestConfigTTL(t *testing.T) {
	assert.Equal(t, time.Hour, Config{}.TTL())
	assert.Equal(t, 30*time.Second, Config{TTLSeconds: 30}.TTL())
}

func TestRedisGetSet(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	r := NewRedisFromClient(db)

	mock.ExpectGet("roi:k").RedisNil()
	_, ok, err := r.Get(ctx, "roi:k")
	require.NoError(t, err)
	assert.False(t, ok)

	value := []byte(`{"netCost":15000}`)
	mock.ExpectSet("roi:k", value, time.Minute).SetVal("OK")
	require.NoError(t, r.Set(ctx, "roi:k", value, time.Minute))

	mock.ExpectGet("roi:k").SetVal(string(value))
	got, ok, err := r.Get(ctx, "roi:k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, value, got)

	mock.ExpectGet("roi:down").SetErr(errors.New("connection refused"))
	_, _, err = r.Get(ctx, "roi:down")
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisPing(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	r := NewRedisFromClient(db)

	mock.ExpectPing().SetVal("PONG")
	require.NoError(t, r.Ping(ctx))

	mock.ExpectPing().SetErr(errors.New("connection refused"))
	err := r.Ping(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping")

	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, r.Close())
}

func TestMemoryPingClose(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	require.NoError(t, m.Set(ctx, "k", []byte("v"), 0))

	assert.NoError(t, m.Ping(ctx))
	assert.NoError(t, m.Close())
	assert.Equal(t, 0, m.Len())
}

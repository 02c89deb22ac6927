// Package cache stores rendered calculation responses. Calculations are
// pure, so a response is keyed by its route and request body alone.
package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/iwvelando/roi-forecast/pkg/constants"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Cache is a byte-value store with per-entry expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}

// Config selects and tunes the cache backend.
type Config struct {
	Backend    string `yaml:"backend,omitempty"`    // memory, redis
	RedisAddr  string `yaml:"redisAddr,omitempty"`  // host:port
	TTLSeconds int    `yaml:"ttlSeconds,omitempty"` // 0 uses the default
	MaxEntries int    `yaml:"maxEntries,omitempty"` // memory backend only
}

// TTL returns the configured entry lifetime.
func (c Config) TTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return time.Duration(constants.DefaultCacheTTLSeconds) * time.Second
	}
	return time.Duration(c.TTLSeconds) * time.Second
}

// New builds the backend named by cfg.Backend.
func New(cfg Config, logger *zap.Logger) (Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Backend {
	case "", constants.CacheBackendMemory:
		logger.Debug("using in-memory result cache",
			zap.String("op", "cache.New"),
			zap.Int("maxEntries", cfg.MaxEntries),
		)
		return NewMemory(cfg.MaxEntries), nil
	case constants.CacheBackendRedis:
		if cfg.RedisAddr == "" {
			return nil, eris.New("cache: redisAddr is required for the redis backend")
		}
		logger.Debug("using redis result cache",
			zap.String("op", "cache.New"),
			zap.String("addr", cfg.RedisAddr),
		)
		return NewRedis(cfg.RedisAddr), nil
	default:
		return nil, eris.Errorf("cache: unknown backend %q", cfg.Backend)
	}
}

// Key derives a cache key from a route and a canonical request body.
func Key(route string, body []byte) string {
	d := xxhash.New()
	_, _ = d.WriteString(route)
	_, _ = d.Write([]byte{0})
	_, _ = d.Write(body)
	return "roi:" + route + ":" + strconv.FormatUint(d.Sum64(), 16)
}

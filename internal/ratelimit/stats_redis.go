package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStats counts allowed and denied requests per client key in Redis.
// Totals are cumulative; per-key counters carry a TTL.
type RedisStats struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisStatsOption configures optional recorder behavior.
type RedisStatsOption func(*RedisStats)

// WithStatsPrefix overrides the key prefix.
func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStats) { s.prefix = strings.Trim(prefix, ":") }
}

// WithStatsTTL overrides the per-key counter TTL. Zero disables expiry.
func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStats) { s.ttl = d }
}

// NewRedisStats creates a Redis-backed stats recorder.
func NewRedisStats(rdb *redis.Client, opts ...RedisStatsOption) *RedisStats {
	s := &RedisStats{
		rdb:    rdb,
		prefix: "occ:ratelimit:stats",
		ttl:    24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record implements StatsRecorder.
func (s *RedisStats) Record(ctx context.Context, ev StatsEvent) error {
	outcome := "allowed"
	if !ev.Allowed {
		outcome = "denied"
	}

	keyCounter := s.key("key", ev.Key, outcome)

	pipe := s.rdb.Pipeline()
	pipe.Incr(ctx, s.key("total", outcome))
	pipe.Incr(ctx, keyCounter)
	if s.ttl > 0 {
		pipe.Expire(ctx, keyCounter, s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record rate-limit stats: %w", err)
	}
	return nil
}

func (s *RedisStats) key(parts ...string) string {
	return s.prefix + ":" + strings.Join(parts, ":")
}

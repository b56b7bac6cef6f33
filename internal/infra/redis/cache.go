package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kislikjeka/warungku/internal/module/report"
	"github.com/kislikjeka/warungku/pkg/logger"
)

const (
	// DefaultTTL is how long a monthly report stays cached without new transactions
	DefaultTTL = 5 * time.Minute

	// KeyPrefix is the prefix for monthly report keys
	KeyPrefix = "report:monthly:"

	// VersionKeyPrefix is the prefix for the per-month invalidation counters
	VersionKeyPrefix = "report:version:"
)

var errStaleReport = errors.New("report version changed")

// ReportCache is a Redis-backed cache of monthly reports
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

// NewReportCache creates a new report cache. A non-positive ttl uses DefaultTTL.
func NewReportCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *ReportCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ReportCache{
		client: client,
		ttl:    ttl,
		logger: log.WithField("component", "cache"),
	}
}

// Key returns the cache key of a month, e.g. report:monthly:2024-07
func Key(year int, month time.Month) string {
	return fmt.Sprintf("%s%04d-%02d", KeyPrefix, year, int(month))
}

// VersionKey returns the invalidation counter key of a month, e.g. report:version:2024-07
func VersionKey(year int, month time.Month) string {
	return fmt.Sprintf("%s%04d-%02d", VersionKeyPrefix, year, int(month))
}

// Version returns how many times a month has been invalidated
func (c *ReportCache) Version(ctx context.Context, year int, month time.Month) (int64, error) {
	v, err := c.client.Get(ctx, VersionKey(year, month)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get report version: %w", err)
	}
	return v, nil
}

// Get retrieves a cached report
func (c *ReportCache) Get(ctx context.Context, year int, month time.Month) (*report.MonthlyReport, bool, error) {
	key := Key(year, month)

	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.logger.Debug("cache miss", "key", key)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached report: %w", err)
	}

	var r report.MonthlyReport
	if err := json.Unmarshal(val, &r); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached report: %w", err)
	}

	c.logger.Debug("cache hit", "key", key)
	return &r, true, nil
}

// Set stores a report with the configured TTL, unless the month was invalidated after
// version was read. It reports whether the report was stored.
func (c *ReportCache) Set(ctx context.Context, r *report.MonthlyReport, version int64) (bool, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return false, fmt.Errorf("failed to marshal report: %w", err)
	}

	verKey := VersionKey(r.Year, r.Month)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, verKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errStaleReport
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, Key(r.Year, r.Month), data, c.ttl)
			return nil
		})
		return err
	}, verKey)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errStaleReport), errors.Is(err, redis.TxFailedErr):
		c.logger.Debug("stale report not cached", "key", Key(r.Year, r.Month), "version", version)
		return false, nil
	default:
		return false, fmt.Errorf("failed to set cached report: %w", err)
	}
}

// Invalidate removes the cached report of a month and bumps its version
func (c *ReportCache) Invalidate(ctx context.Context, year int, month time.Month) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, VersionKey(year, month))
		pipe.Del(ctx, Key(year, month))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate cached report: %w", err)
	}
	return nil
}

// Clear removes every cached report
func (c *ReportCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, KeyPrefix+"*", 0).Iterator()

	pipe := c.client.Pipeline()
	count := 0
	for iter.Next(ctx) {
		pipe.Del(ctx, iter.Val())
		count++
		if count >= 100 {
			if _, err := pipe.Exec(ctx); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			pipe = c.client.Pipeline()
			count = 0
		}
	}

	if count > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
	}

	return iter.Err()
}

// Ping checks the Redis connection
func (c *ReportCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// NewClient parses a redis URL, applies the password override and pings the server
func NewClient(ctx context.Context, url, password string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if password != "" {
		opts.Password = password
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

var _ report.Cache = (*ReportCache)(nil)

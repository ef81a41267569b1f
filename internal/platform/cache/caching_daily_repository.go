// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Aughra/picsou/internal/feature/dailysync/domain/entity"
	"github.com/Aughra/picsou/internal/feature/dailysync/usecase"
)

// CachingDailyRepository decorates a DailyRepository with Redis caching of view reads.
// Every write invalidates the whole namespace, so a read never outlives the sync that replaced it.
type CachingDailyRepository struct {
	inner     usecase.DailyRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	loc       *time.Location
	now       func() time.Time
}

var _ usecase.DailyRepository = (*CachingDailyRepository)(nil)

// NewCachingDailyRepository decorates a DailyRepository with Redis caching.
// If ttl is 0, it defaults to 1 hour. If namespace is empty, it uses "daily".
// Entries also expire at the next midnight in loc, when a new day appears in the table.
func NewCachingDailyRepository(rdb *redis.Client, ttl time.Duration, inner usecase.DailyRepository,
	namespace string, loc *time.Location) *CachingDailyRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if namespace == "" {
		namespace = "daily"
	}
	if loc == nil {
		loc = time.UTC
	}
	return &CachingDailyRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		loc:       loc,
		now:       time.Now,
	}
}

func (c *CachingDailyRepository) EnsureSchema(ctx context.Context, columns []entity.Column) (*entity.SchemaChange, error) {
	return c.inner.EnsureSchema(ctx, columns)
}

// UpsertRows writes through and invalidates cached reads.
func (c *CachingDailyRepository) UpsertRows(ctx context.Context, rows []entity.Row, columns []entity.Column) (*entity.UpsertResult, error) {
	res, err := c.inner.UpsertRows(ctx, rows, columns)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return res, nil
}

func (c *CachingDailyRepository) SweepNulls(ctx context.Context, columns []string) *entity.SweepResult {
	return c.inner.SweepNulls(ctx, columns)
}

// RecreateViews recreates the views and invalidates cached reads.
func (c *CachingDailyRepository) RecreateViews(ctx context.Context, views []entity.ViewDef) error {
	if err := c.inner.RecreateViews(ctx, views); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// ReadView reads a view, checking cache first then falling back to the database.
func (c *CachingDailyRepository) ReadView(ctx context.Context, view string) (*entity.ViewRows, error) {
	if c.rdb == nil {
		return c.inner.ReadView(ctx, view)
	}

	key := c.cacheKey(view)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.ViewRows
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.ReadView(ctx, view)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.expiry()).Err()
	}
	return out, nil
}

// expiry is the configured ttl, capped at the next local midnight.
func (c *CachingDailyRepository) expiry() time.Duration {
	if d := TimeUntilMidnight(c.now(), c.loc); d < c.ttl {
		return d
	}
	return c.ttl
}

func (c *CachingDailyRepository) cacheKey(view string) string {
	return fmt.Sprintf("%s:%s", c.namespace, safe(view))
}

// invalidate drops every cached read of the namespace. Failures are logged, never returned.
func (c *CachingDailyRepository) invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.deleteByPattern(ctx, c.namespace+":*"); err != nil {
		slog.Warn("cache invalidation failed", "namespace", c.namespace, "error", err)
	}
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingDailyRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}

package directory

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	platformredis "filetrack/internal/platform/redis"
	id "filetrack/pkg/domain"
)

// CacheTTL bounds how stale a cached directory entry may get. The directory
// changes rarely (org restructuring), so minutes of staleness are acceptable.
const CacheTTL = 5 * time.Minute

// CachedStore is a read-through Redis cache in front of a directory Store.
// Cache failures degrade to the source store; they are logged, never
// surfaced. A singleflight group collapses concurrent misses for the same
// key into one source lookup.
type CachedStore struct {
	source Store
	client *platformredis.Client
	logger *slog.Logger
	group  singleflight.Group
}

func NewCachedStore(source Store, client *platformredis.Client, logger *slog.Logger) *CachedStore {
	return &CachedStore{
		source: source,
		client: client,
		logger: logger,
	}
}

func (c *CachedStore) GetOffice(ctx context.Context, officeID id.OfficeID) (Office, error) {
	return readThrough(ctx, c, "office:"+officeID.String(), func() (Office, error) {
		return c.source.GetOffice(ctx, officeID)
	})
}

func (c *CachedStore) GetDepartment(ctx context.Context, departmentID id.DepartmentID) (Department, error) {
	return readThrough(ctx, c, "department:"+departmentID.String(), func() (Department, error) {
		return c.source.GetDepartment(ctx, departmentID)
	})
}

func (c *CachedStore) GetFaat(ctx context.Context, faatID id.FaatID) (Faat, error) {
	return readThrough(ctx, c, "faat:"+faatID.String(), func() (Faat, error) {
		return c.source.GetFaat(ctx, faatID)
	})
}

func (c *CachedStore) ListDepartments(ctx context.Context, officeID id.OfficeID) ([]Department, error) {
	return readThrough(ctx, c, "office-departments:"+officeID.String(), func() ([]Department, error) {
		return c.source.ListDepartments(ctx, officeID)
	})
}

func (c *CachedStore) ListFaats(ctx context.Context, departmentID id.DepartmentID) ([]Faat, error) {
	return readThrough(ctx, c, "department-faats:"+departmentID.String(), func() ([]Faat, error) {
		return c.source.ListFaats(ctx, departmentID)
	})
}

// readThrough looks the key up in Redis first and falls back to the source
// on miss or cache error. Negative results (not found) are not cached so a
// unit created moments ago becomes visible immediately.
func readThrough[T any](ctx context.Context, c *CachedStore, key string, load func() (T, error)) (T, error) {
	var zero T

	if payload, err := c.client.Get(ctx, cacheKey(key)).Bytes(); err == nil {
		var value T
		if err := json.Unmarshal(payload, &value); err == nil {
			return value, nil
		}
		// Corrupt entry: drop it and reload from source.
		c.client.Del(ctx, cacheKey(key))
	} else if !errors.Is(err, redis.Nil) {
		c.logger.WarnContext(ctx, "directory cache read failed", "key", key, "error", err)
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		value, err := load()
		if err != nil {
			return zero, err
		}
		if payload, err := json.Marshal(value); err == nil {
			if err := c.client.Set(ctx, cacheKey(key), payload, CacheTTL).Err(); err != nil {
				c.logger.WarnContext(ctx, "directory cache write failed", "key", key, "error", err)
			}
		}
		return value, nil
	})
	if err != nil {
		return zero, err
	}
	return result.(T), nil
}

func cacheKey(key string) string {
	return "filetrack:directory:" + key
}

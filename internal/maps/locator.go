// README: Current-location resolution chain: client fix → cache → IP lookup.
package maps

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrNoLocation means every strategy in the chain failed.
	ErrNoLocation = errors.New("unable to determine location")
	// ErrPermissionDenied means the client reported a geolocation
	// permission denial and the IP fallback also failed. Distinct from
	// ErrNoLocation because the remediation differs.
	ErrPermissionDenied = errors.New("location permission denied")
)

// ClientFix is the foreground geolocation result the UI attaches to a
// request, if it obtained one.
type ClientFix struct {
	// Point is the device fix; nil when the UI had none.
	Point *Point
	// PermissionDenied is set when the UI asked for geolocation and the
	// user (or OS) refused.
	PermissionDenied bool
}

// FixCache caches the last known location for a few minutes so repeated
// nearby queries do not re-run the whole chain.
type FixCache interface {
	Get(ctx context.Context) (Point, bool)
	Set(ctx context.Context, p Point)
}

// IPLookup is the fallback strategy interface, satisfied by GeoIPService.
type IPLookup interface {
	Lookup(ctx context.Context) (IPLocation, error)
}

// Locator resolves "current location" for nearby searches. Strategy order:
// the client-supplied foreground fix, the cached last-known fix, then an
// IP-based lookup. The chain is terminal: when everything fails the caller
// must surface the error, not fall through to another intent.
type Locator struct {
	cache FixCache
	ipl   IPLookup
}

// NewLocator builds the resolution chain. cache may be nil (no caching).
func NewLocator(cache FixCache, ipl IPLookup) *Locator {
	return &Locator{cache: cache, ipl: ipl}
}

// Resolve returns the best available current location.
func (l *Locator) Resolve(ctx context.Context, fix ClientFix) (Point, error) {
	if fix.Point != nil {
		if l.cache != nil {
			l.cache.Set(ctx, *fix.Point)
		}
		return *fix.Point, nil
	}

	if l.cache != nil {
		if p, ok := l.cache.Get(ctx); ok {
			return p, nil
		}
	}

	if l.ipl != nil {
		loc, err := l.ipl.Lookup(ctx)
		if err == nil {
			if l.cache != nil {
				l.cache.Set(ctx, loc.Location)
			}
			return loc.Location, nil
		}
	}

	if fix.PermissionDenied {
		return Point{}, ErrPermissionDenied
	}
	return Point{}, ErrNoLocation
}

// redisFixCache stores the last known fix in redis with a short TTL.
type redisFixCache struct {
	client *redis.Client
	ttl    time.Duration
}

const fixCacheKey = "sky:location:last_fix"

// NewRedisFixCache creates a FixCache over the given redis client.
func NewRedisFixCache(client *redis.Client, ttl time.Duration) FixCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &redisFixCache{client: client, ttl: ttl}
}

func (c *redisFixCache) Get(ctx context.Context) (Point, bool) {
	raw, err := c.client.Get(ctx, fixCacheKey).Result()
	if err != nil {
		return Point{}, false
	}
	var p Point
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Point{}, false
	}
	return p, true
}

func (c *redisFixCache) Set(ctx context.Context, p Point) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	// Best effort; a cache miss later just re-runs the chain.
	_ = c.client.Set(ctx, fixCacheKey, raw, c.ttl).Err()
}

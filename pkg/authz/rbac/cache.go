package rbac

import (
	"context"
	"sync"
	"time"

	"github.com/kart-io/access-center/pkg/cache"
)

// Resolver produces a fresh authorization context for a user.
type Resolver interface {
	Resolve(ctx context.Context, userID uint64) (*Context, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, userID uint64) (*Context, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, userID uint64) (*Context, error) {
	return f(ctx, userID)
}

// tenantIndex is the secondary index keyed by the context's tenant ID.
const tenantIndex = "tenant"

// ContextCache keeps resolved contexts keyed by user ID with a TTL.
// Entries hold the whole *Context, so a refresh swaps the pointer and
// readers holding the old context keep a consistent snapshot.
type ContextCache struct {
	resolver Resolver
	entries  *cache.MemoryCache[uint64, contextEntry]
	ttl      time.Duration

	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	closeOnce       sync.Once
}

type contextEntry struct {
	authCtx   *Context
	expiresAt time.Time
}

// ContextCacheOption is a functional option for ContextCache.
type ContextCacheOption func(*ContextCache)

// WithTTL sets how long a resolved context stays fresh.
func WithTTL(ttl time.Duration) ContextCacheOption {
	return func(c *ContextCache) {
		c.ttl = ttl
	}
}

// WithCleanupInterval sets the janitor interval.
func WithCleanupInterval(d time.Duration) ContextCacheOption {
	return func(c *ContextCache) {
		c.cleanupInterval = d
	}
}

// NewContextCache creates a context cache backed by the given resolver.
func NewContextCache(resolver Resolver, opts ...ContextCacheOption) *ContextCache {
	c := &ContextCache{
		resolver:        resolver,
		entries:         cache.NewMemoryCache[uint64, contextEntry](),
		ttl:             5 * time.Minute,
		cleanupInterval: time.Minute,
		stopCleanup:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.entries.AddIndex(tenantIndex, func(e contextEntry) any {
		return e.authCtx.TenantID
	})

	go c.cleanup()

	return c
}

// Get returns the cached context if it is still fresh, otherwise resolves
// a new one and stores it. A resolution failure is returned as-is and the
// cache is left untouched.
func (c *ContextCache) Get(ctx context.Context, userID uint64) (*Context, error) {
	if entry, found := c.entries.Get(userID); found && time.Now().Before(entry.expiresAt) {
		return entry.authCtx, nil
	}

	return c.Refresh(ctx, userID)
}

// Refresh forces re-resolution of the user's context. On failure the
// previously cached context, if any, stays readable.
func (c *ContextCache) Refresh(ctx context.Context, userID uint64) (*Context, error) {
	authCtx, err := c.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.entries.Set(userID, contextEntry{
		authCtx:   authCtx,
		expiresAt: time.Now().Add(c.ttl),
	})

	return authCtx, nil
}

// Peek returns the cached context without resolving, and whether it was
// present and fresh.
func (c *ContextCache) Peek(userID uint64) (*Context, bool) {
	entry, found := c.entries.Get(userID)
	if !found || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.authCtx, true
}

// Invalidate drops the cached context for one user.
func (c *ContextCache) Invalidate(userID uint64) {
	c.entries.Del(userID)
}

// InvalidateMany drops the cached contexts for several users at once.
func (c *ContextCache) InvalidateMany(userIDs []uint64) {
	for _, id := range userIDs {
		c.entries.Del(id)
	}
}

// InvalidateTenant drops every cached context belonging to the tenant.
func (c *ContextCache) InvalidateTenant(tenantID uint64) {
	entries, err := c.entries.Find(tenantIndex, tenantID)
	if err != nil {
		return
	}
	for _, e := range entries {
		c.entries.Del(e.authCtx.UserID)
	}
}

// Purge drops every cached context.
func (c *ContextCache) Purge() {
	c.entries.Clear()
}

// Size returns the number of cached entries, expired ones included.
func (c *ContextCache) Size() int {
	return c.entries.Len()
}

// Close stops the janitor goroutine.
func (c *ContextCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopCleanup)
	})
	return nil
}

// cleanup periodically evicts expired entries.
func (c *ContextCache) cleanup() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.evictExpired()
		case <-c.stopCleanup:
			return
		}
	}
}

func (c *ContextCache) evictExpired() {
	now := time.Now()

	expired := c.entries.Filter(func(e contextEntry) bool {
		return now.After(e.expiresAt)
	})
	for _, e := range expired {
		c.entries.Del(e.authCtx.UserID)
	}
}

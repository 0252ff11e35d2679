package policy

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/bertrandmbololbmm/caisse-app-render/internal/models"
)

// RoleResolver resolves a user id to the user's role.
type RoleResolver interface {
	Resolve(ctx context.Context, userID uint) (models.Role, error)
}

// DBRoleResolver fetches the role from the users table.
type DBRoleResolver struct {
	DB *gorm.DB
}

// NewDBRoleResolver creates a database-backed role resolver.
func NewDBRoleResolver(db *gorm.DB) *DBRoleResolver {
	return &DBRoleResolver{DB: db}
}

// Resolve looks up the user's role. Unknown users get an error from
// the underlying store.
func (r *DBRoleResolver) Resolve(ctx context.Context, userID uint) (models.Role, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Select("role").First(&user, userID).Error; err != nil {
		return "", err
	}
	return user.Role, nil
}

// CachedResolver wraps a RoleResolver with TTL-based caching so the
// gate does not hit the database on every request. Roles only change
// at registration time, so a short TTL is plenty.
type CachedResolver struct {
	inner RoleResolver
	cache map[uint]cacheEntry
	mu    sync.RWMutex
	ttl   time.Duration
}

type cacheEntry struct {
	role      models.Role
	expiresAt time.Time
}

// NewCachedResolver wraps a resolver with caching.
func NewCachedResolver(inner RoleResolver, ttl time.Duration) *CachedResolver {
	return &CachedResolver{
		inner: inner,
		cache: make(map[uint]cacheEntry),
		ttl:   ttl,
	}
}

// Resolve returns the role for the given user, using the cache when fresh.
func (r *CachedResolver) Resolve(ctx context.Context, userID uint) (models.Role, error) {
	r.mu.RLock()
	entry, ok := r.cache[userID]
	r.mu.RUnlock()

	if ok && time.Now().Before(entry.expiresAt) {
		return entry.role, nil
	}

	role, err := r.inner.Resolve(ctx, userID)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.cache[userID] = cacheEntry{role: role, expiresAt: time.Now().Add(r.ttl)}
	r.mu.Unlock()

	return role, nil
}

// Invalidate removes a user from the cache.
func (r *CachedResolver) Invalidate(userID uint) {
	r.mu.Lock()
	delete(r.cache, userID)
	r.mu.Unlock()
}

// InvalidateAll clears the entire cache.
func (r *CachedResolver) InvalidateAll() {
	r.mu.Lock()
	r.cache = make(map[uint]cacheEntry)
	r.mu.Unlock()
}

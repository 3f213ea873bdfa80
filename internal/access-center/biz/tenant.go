// Package biz implements the business logic of the access center:
// authentication, entity management, grant assignment, and the
// authorization resolution engine.
package biz

import (
	"context"

	"github.com/kart-io/access-center/internal/access-center/store"
	"github.com/kart-io/access-center/internal/model"
	"github.com/kart-io/access-center/pkg/authz/rbac"
	storepkg "github.com/kart-io/access-center/pkg/store"
)

// TenantService handles tenant business logic.
type TenantService struct {
	store store.Factory
	cache *rbac.ContextCache
}

// NewTenantService creates a new TenantService.
func NewTenantService(store store.Factory, cache *rbac.ContextCache) *TenantService {
	return &TenantService{store: store, cache: cache}
}

// Create creates a new tenant.
func (s *TenantService) Create(ctx context.Context, tenant *model.Tenant) error {
	return s.store.Tenants().Create(ctx, tenant)
}

// Update updates a tenant. Disabling a tenant changes what its users
// may resolve, so their cached contexts are dropped.
func (s *TenantService) Update(ctx context.Context, tenant *model.Tenant) error {
	if err := s.store.Tenants().Update(ctx, tenant); err != nil {
		return err
	}
	s.cache.InvalidateTenant(tenant.ID)
	return nil
}

// Delete soft deletes a tenant.
func (s *TenantService) Delete(ctx context.Context, id uint64) error {
	if err := s.store.Tenants().Delete(ctx, id); err != nil {
		return err
	}
	s.cache.InvalidateTenant(id)
	return nil
}

// Get retrieves a tenant by ID.
func (s *TenantService) Get(ctx context.Context, id uint64) (*model.Tenant, error) {
	return s.store.Tenants().Get(ctx, id)
}

// List lists tenants with pagination.
func (s *TenantService) List(ctx context.Context, opts ...storepkg.Option) (int64, []*model.Tenant, error) {
	return s.store.Tenants().List(ctx, opts...)
}

// invalidateScope drops cached contexts reachable from a mutated row
// with the given tenant scope. Global rows can surface in any tenant's
// resolution, so the whole cache is dropped for them.
func invalidateScope(cache *rbac.ContextCache, tenantID *uint64) {
	if tenantID == nil {
		cache.Purge()
		return
	}
	cache.InvalidateTenant(*tenantID)
}

package biz

import (
	"context"

	"github.com/kart-io/access-center/internal/access-center/store"
	"github.com/kart-io/access-center/internal/model"
	"github.com/kart-io/access-center/pkg/authz/rbac"
	storepkg "github.com/kart-io/access-center/pkg/store"
)

// FeatureService handles feature business logic.
type FeatureService struct {
	store store.Factory
	cache *rbac.ContextCache
}

// NewFeatureService creates a new FeatureService.
func NewFeatureService(store store.Factory, cache *rbac.ContextCache) *FeatureService {
	return &FeatureService{store: store, cache: cache}
}

// Create creates a new feature.
func (s *FeatureService) Create(ctx context.Context, feature *model.Feature) error {
	if feature.TenantID != nil {
		if _, err := s.store.Tenants().Get(ctx, *feature.TenantID); err != nil {
			return err
		}
	}
	return s.store.Features().Create(ctx, feature)
}

// Update updates a feature.
func (s *FeatureService) Update(ctx context.Context, feature *model.Feature) error {
	if err := s.store.Features().Update(ctx, feature); err != nil {
		return err
	}
	invalidateScope(s.cache, feature.TenantID)
	return nil
}

// Delete soft deletes a feature.
func (s *FeatureService) Delete(ctx context.Context, id uint64) error {
	feature, err := s.store.Features().Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Features().Delete(ctx, id); err != nil {
		return err
	}
	invalidateScope(s.cache, feature.TenantID)
	return nil
}

// Get retrieves a feature by ID.
func (s *FeatureService) Get(ctx context.Context, id uint64) (*model.Feature, error) {
	return s.store.Features().Get(ctx, id)
}

// List lists features with pagination.
func (s *FeatureService) List(ctx context.Context, opts ...storepkg.Option) (int64, []*model.Feature, error) {
	return s.store.Features().List(ctx, opts...)
}

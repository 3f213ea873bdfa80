package biz

import (
	"context"

	"github.com/kart-io/access-center/internal/access-center/store"
	"github.com/kart-io/access-center/internal/model"
	"github.com/kart-io/access-center/pkg/authz/rbac"
	storepkg "github.com/kart-io/access-center/pkg/store"
)

// RoleService handles role business logic.
type RoleService struct {
	store store.Factory
	cache *rbac.ContextCache
}

// NewRoleService creates a new RoleService.
func NewRoleService(store store.Factory, cache *rbac.ContextCache) *RoleService {
	return &RoleService{store: store, cache: cache}
}

// Create creates a new role.
func (s *RoleService) Create(ctx context.Context, role *model.Role) error {
	if role.TenantID != nil {
		if _, err := s.store.Tenants().Get(ctx, *role.TenantID); err != nil {
			return err
		}
	}
	return s.store.Roles().Create(ctx, role)
}

// Update updates a role. The set of users holding the role is not
// tracked, so every cached context in the role's scope is dropped.
func (s *RoleService) Update(ctx context.Context, role *model.Role) error {
	if err := s.store.Roles().Update(ctx, role); err != nil {
		return err
	}
	invalidateScope(s.cache, role.TenantID)
	return nil
}

// Delete soft deletes a role.
func (s *RoleService) Delete(ctx context.Context, id uint64) error {
	role, err := s.store.Roles().Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Roles().Delete(ctx, id); err != nil {
		return err
	}
	invalidateScope(s.cache, role.TenantID)
	return nil
}

// Get retrieves a role by ID.
func (s *RoleService) Get(ctx context.Context, id uint64) (*model.Role, error) {
	return s.store.Roles().Get(ctx, id)
}

// List lists roles with pagination.
func (s *RoleService) List(ctx context.Context, opts ...storepkg.Option) (int64, []*model.Role, error) {
	return s.store.Roles().List(ctx, opts...)
}

// SetFeatures replaces the role's granted feature set.
func (s *RoleService) SetFeatures(ctx context.Context, roleID uint64, featureIDs []uint64, grantedBy uint64) error {
	role, err := s.store.Roles().Get(ctx, roleID)
	if err != nil {
		return err
	}
	for _, featureID := range featureIDs {
		if _, err := s.store.Features().Get(ctx, featureID); err != nil {
			return err
		}
	}

	if err := s.store.Features().ReplaceForRole(ctx, roleID, featureIDs, grantedBy); err != nil {
		return err
	}
	invalidateScope(s.cache, role.TenantID)
	return nil
}

// Features returns the IDs of the role's live feature grants.
func (s *RoleService) Features(ctx context.Context, roleID uint64) ([]uint64, error) {
	if _, err := s.store.Roles().Get(ctx, roleID); err != nil {
		return nil, err
	}
	return s.store.Features().ListIDsForRole(ctx, roleID)
}

// SetMenus replaces the role's granted menu set.
func (s *RoleService) SetMenus(ctx context.Context, roleID uint64, menuIDs []uint64, grantedBy uint64) error {
	role, err := s.store.Roles().Get(ctx, roleID)
	if err != nil {
		return err
	}
	for _, menuID := range menuIDs {
		if _, err := s.store.Menus().Get(ctx, menuID); err != nil {
			return err
		}
	}

	if err := s.store.Menus().ReplaceForRole(ctx, roleID, menuIDs, grantedBy); err != nil {
		return err
	}
	invalidateScope(s.cache, role.TenantID)
	return nil
}

// Menus returns the IDs of the role's live menu grants.
func (s *RoleService) Menus(ctx context.Context, roleID uint64) ([]uint64, error) {
	if _, err := s.store.Roles().Get(ctx, roleID); err != nil {
		return nil, err
	}
	return s.store.Menus().ListIDsForRole(ctx, roleID)
}

package biz

import (
	"context"

	"github.com/kart-io/access-center/internal/access-center/store"
	"github.com/kart-io/access-center/internal/model"
	"github.com/kart-io/access-center/pkg/authz/rbac"
	"github.com/kart-io/access-center/pkg/errors"
	storepkg "github.com/kart-io/access-center/pkg/store"
)

// MenuService handles menu business logic. The menu hierarchy is
// exactly two levels deep and the level/parent contract is validated
// on every write.
type MenuService struct {
	store store.Factory
	cache *rbac.ContextCache
}

// NewMenuService creates a new MenuService.
func NewMenuService(store store.Factory, cache *rbac.ContextCache) *MenuService {
	return &MenuService{store: store, cache: cache}
}

// Create creates a new menu.
func (s *MenuService) Create(ctx context.Context, menu *model.Menu) error {
	if err := s.validateHierarchy(ctx, menu); err != nil {
		return err
	}
	return s.store.Menus().Create(ctx, menu)
}

// Update updates a menu.
func (s *MenuService) Update(ctx context.Context, menu *model.Menu) error {
	if err := s.validateHierarchy(ctx, menu); err != nil {
		return err
	}
	if err := s.store.Menus().Update(ctx, menu); err != nil {
		return err
	}
	invalidateScope(s.cache, menu.TenantID)
	return nil
}

// Delete soft deletes a menu.
func (s *MenuService) Delete(ctx context.Context, id uint64) error {
	menu, err := s.store.Menus().Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Menus().Delete(ctx, id); err != nil {
		return err
	}
	invalidateScope(s.cache, menu.TenantID)
	return nil
}

// Get retrieves a menu by ID.
func (s *MenuService) Get(ctx context.Context, id uint64) (*model.Menu, error) {
	return s.store.Menus().Get(ctx, id)
}

// List lists menus with pagination.
func (s *MenuService) List(ctx context.Context, opts ...storepkg.Option) (int64, []*model.Menu, error) {
	return s.store.Menus().List(ctx, opts...)
}

// SetFeatures replaces the menu's declared feature set.
func (s *MenuService) SetFeatures(ctx context.Context, menuID uint64, featureIDs []uint64, grantedBy uint64) error {
	menu, err := s.store.Menus().Get(ctx, menuID)
	if err != nil {
		return err
	}
	for _, featureID := range featureIDs {
		if _, err := s.store.Features().Get(ctx, featureID); err != nil {
			return err
		}
	}

	if err := s.store.Menus().ReplaceFeatures(ctx, menuID, featureIDs, grantedBy); err != nil {
		return err
	}
	invalidateScope(s.cache, menu.TenantID)
	return nil
}

// validateHierarchy enforces the two-level contract: level 1 menus
// are groups without a parent, level 2 menus must name an existing
// level 1 parent.
func (s *MenuService) validateHierarchy(ctx context.Context, menu *model.Menu) error {
	switch menu.Level {
	case model.MenuLevelGroup:
		if menu.ParentID != nil {
			return errors.ErrMenuParentInvalid.WithMessage("a level 1 menu must not name a parent")
		}
	case model.MenuLevelPage:
		if menu.ParentID == nil {
			return errors.ErrMenuParentInvalid.WithMessage("a level 2 menu must name a parent")
		}
		if *menu.ParentID == menu.ID && menu.ID != 0 {
			return errors.ErrMenuParentInvalid.WithMessage("a menu cannot be its own parent")
		}
		parent, err := s.store.Menus().Get(ctx, *menu.ParentID)
		if err != nil {
			if errors.IsCode(err, errors.ErrMenuNotFound.Code) {
				return errors.ErrMenuParentInvalid.WithMessagef("parent menu %d not found", *menu.ParentID)
			}
			return err
		}
		if parent.Level != model.MenuLevelGroup {
			return errors.ErrMenuParentInvalid.WithMessagef("parent menu %d is not a level 1 group", parent.ID)
		}
		if !sameScope(parent.TenantID, menu.TenantID) {
			return errors.ErrMenuParentInvalid.WithMessagef("parent menu %d is in a different tenant scope", parent.ID)
		}
	default:
		return errors.ErrMenuLevelInvalid
	}
	return nil
}

// sameScope reports whether two tenant scopes match: both global, or
// both the same tenant.
func sameScope(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

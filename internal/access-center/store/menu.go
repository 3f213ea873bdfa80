package store

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/kart-io/access-center/internal/model"
	"github.com/kart-io/access-center/pkg/errors"
	"github.com/kart-io/access-center/pkg/store"
)

type menus struct {
	db *gorm.DB
}

func newMenus(db *gorm.DB) *menus {
	return &menus{db: db}
}

// Create creates a new menu.
func (s *menus) Create(ctx context.Context, menu *model.Menu) error {
	if err := s.db.WithContext(ctx).Create(menu).Error; err != nil {
		return errors.ErrDatabase.WithCause(err)
	}
	return nil
}

// Update updates an existing menu.
func (s *menus) Update(ctx context.Context, menu *model.Menu) error {
	result := s.db.WithContext(ctx).Save(menu)
	if result.Error != nil {
		return errors.ErrDatabase.WithCause(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrMenuNotFound
	}
	return nil
}

// Delete soft deletes a menu by ID.
func (s *menus) Delete(ctx context.Context, id uint64) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Menu{})
	if result.Error != nil {
		return errors.ErrDatabase.WithCause(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrMenuNotFound
	}
	return nil
}

// Get retrieves a menu by ID.
func (s *menus) Get(ctx context.Context, id uint64) (*model.Menu, error) {
	var menu model.Menu
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&menu).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrMenuNotFound
		}
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return &menu, nil
}

// List lists menus with pagination.
func (s *menus) List(ctx context.Context, opts ...store.Option) (int64, []*model.Menu, error) {
	var count int64
	var items []*model.Menu

	db := store.NewWhere(opts...).Where(s.db.WithContext(ctx))

	if err := db.Model(&model.Menu{}).Count(&count).Error; err != nil {
		return 0, nil, errors.ErrDatabase.WithCause(err)
	}

	if err := db.Order("sort_order, id").Find(&items).Error; err != nil {
		return 0, nil, errors.ErrDatabase.WithCause(err)
	}

	return count, items, nil
}

// ReplaceForRole replaces the role's granted menu set inside a
// transaction.
func (s *menus) ReplaceForRole(ctx context.Context, roleID uint64, menuIDs []uint64, grantedBy uint64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current []model.RoleMenu
		if err := tx.Where("role_id = ?", roleID).Find(&current).Error; err != nil {
			return err
		}

		wanted := make(map[uint64]bool, len(menuIDs))
		for _, id := range menuIDs {
			wanted[id] = true
		}

		existing := make(map[uint64]bool, len(current))
		for _, rm := range current {
			existing[rm.MenuID] = true
			if !wanted[rm.MenuID] {
				if err := tx.Delete(&model.RoleMenu{}, rm.ID).Error; err != nil {
					return err
				}
			}
		}

		for _, id := range menuIDs {
			if existing[id] {
				continue
			}
			grant := &model.RoleMenu{
				RoleID:    roleID,
				MenuID:    id,
				GrantedBy: grantedBy,
			}
			if err := tx.Create(grant).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return errors.ErrDatabase.WithCause(err)
	}
	return nil
}

// ListIDsForRole returns the menu IDs granted to a role.
func (s *menus) ListIDsForRole(ctx context.Context, roleID uint64) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).
		Model(&model.RoleMenu{}).
		Where("role_id = ?", roleID).
		Pluck("menu_id", &ids).Error
	if err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return ids, nil
}

// ListActiveByRoleIDs returns the active menus granted to any of the
// given roles, deduplicated.
func (s *menus) ListActiveByRoleIDs(ctx context.Context, roleIDs []uint64) ([]*model.Menu, error) {
	if len(roleIDs) == 0 {
		return nil, nil
	}

	var items []*model.Menu
	err := s.db.WithContext(ctx).
		Distinct("menus.*").
		Joins("JOIN role_menus ON role_menus.menu_id = menus.id AND role_menus.deleted_at IS NULL").
		Where("role_menus.role_id IN ?", roleIDs).
		Where("menus.status = ?", model.StatusEnabled).
		Find(&items).Error
	if err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return items, nil
}

// ReplaceFeatures replaces the feature bindings of a menu inside a
// transaction.
func (s *menus) ReplaceFeatures(ctx context.Context, menuID uint64, featureIDs []uint64, grantedBy uint64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current []model.MenuFeature
		if err := tx.Where("menu_id = ?", menuID).Find(&current).Error; err != nil {
			return err
		}

		wanted := make(map[uint64]bool, len(featureIDs))
		for _, id := range featureIDs {
			wanted[id] = true
		}

		existing := make(map[uint64]bool, len(current))
		for _, mf := range current {
			existing[mf.FeatureID] = true
			if !wanted[mf.FeatureID] {
				if err := tx.Delete(&model.MenuFeature{}, mf.ID).Error; err != nil {
					return err
				}
			}
		}

		for _, id := range featureIDs {
			if existing[id] {
				continue
			}
			binding := &model.MenuFeature{
				MenuID:    menuID,
				FeatureID: id,
				GrantedBy: grantedBy,
			}
			if err := tx.Create(binding).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return errors.ErrDatabase.WithCause(err)
	}
	return nil
}

// ListFeatureBindings returns the live menu feature bindings for the
// given menus.
func (s *menus) ListFeatureBindings(ctx context.Context, menuIDs []uint64) ([]*model.MenuFeature, error) {
	if len(menuIDs) == 0 {
		return nil, nil
	}

	var items []*model.MenuFeature
	err := s.db.WithContext(ctx).
		Where("menu_id IN ?", menuIDs).
		Find(&items).Error
	if err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return items, nil
}

package store

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/kart-io/access-center/internal/model"
	"github.com/kart-io/access-center/pkg/errors"
	"github.com/kart-io/access-center/pkg/store"
)

type features struct {
	db *gorm.DB
}

func newFeatures(db *gorm.DB) *features {
	return &features{db: db}
}

// Create creates a new feature.
func (s *features) Create(ctx context.Context, feature *model.Feature) error {
	if err := s.db.WithContext(ctx).Create(feature).Error; err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.ErrAlreadyExists.WithMessage("feature code already exists")
		}
		return errors.ErrDatabase.WithCause(err)
	}
	return nil
}

// Update updates an existing feature.
func (s *features) Update(ctx context.Context, feature *model.Feature) error {
	result := s.db.WithContext(ctx).Save(feature)
	if result.Error != nil {
		return errors.ErrDatabase.WithCause(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrFeatureNotFound
	}
	return nil
}

// Delete soft deletes a feature by ID.
func (s *features) Delete(ctx context.Context, id uint64) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Feature{})
	if result.Error != nil {
		return errors.ErrDatabase.WithCause(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrFeatureNotFound
	}
	return nil
}

// Get retrieves a feature by ID.
func (s *features) Get(ctx context.Context, id uint64) (*model.Feature, error) {
	var feature model.Feature
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&feature).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrFeatureNotFound
		}
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return &feature, nil
}

// List lists features with pagination.
func (s *features) List(ctx context.Context, opts ...store.Option) (int64, []*model.Feature, error) {
	var count int64
	var items []*model.Feature

	db := store.NewWhere(opts...).Where(s.db.WithContext(ctx))

	if err := db.Model(&model.Feature{}).Count(&count).Error; err != nil {
		return 0, nil, errors.ErrDatabase.WithCause(err)
	}

	if err := db.Find(&items).Error; err != nil {
		return 0, nil, errors.ErrDatabase.WithCause(err)
	}

	return count, items, nil
}

// ReplaceForRole replaces the role's granted feature set inside a
// transaction.
func (s *features) ReplaceForRole(ctx context.Context, roleID uint64, featureIDs []uint64, grantedBy uint64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current []model.RoleFeature
		if err := tx.Where("role_id = ?", roleID).Find(&current).Error; err != nil {
			return err
		}

		wanted := make(map[uint64]bool, len(featureIDs))
		for _, id := range featureIDs {
			wanted[id] = true
		}

		existing := make(map[uint64]bool, len(current))
		for _, rf := range current {
			existing[rf.FeatureID] = true
			if !wanted[rf.FeatureID] {
				if err := tx.Delete(&model.RoleFeature{}, rf.ID).Error; err != nil {
					return err
				}
			}
		}

		for _, id := range featureIDs {
			if existing[id] {
				continue
			}
			grant := &model.RoleFeature{
				RoleID:    roleID,
				FeatureID: id,
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

// ListIDsForRole returns the feature IDs granted to a role.
func (s *features) ListIDsForRole(ctx context.Context, roleID uint64) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).
		Model(&model.RoleFeature{}).
		Where("role_id = ?", roleID).
		Pluck("feature_id", &ids).Error
	if err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return ids, nil
}

// ListActiveByRoleIDs returns the active features granted to any of
// the given roles, deduplicated.
func (s *features) ListActiveByRoleIDs(ctx context.Context, roleIDs []uint64) ([]*model.Feature, error) {
	if len(roleIDs) == 0 {
		return nil, nil
	}

	var items []*model.Feature
	err := s.db.WithContext(ctx).
		Distinct("features.*").
		Joins("JOIN role_features ON role_features.feature_id = features.id AND role_features.deleted_at IS NULL").
		Where("role_features.role_id IN ?", roleIDs).
		Where("features.status = ?", model.StatusEnabled).
		Find(&items).Error
	if err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return items, nil
}

package store

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/kart-io/access-center/internal/model"
	"github.com/kart-io/access-center/pkg/errors"
	"github.com/kart-io/access-center/pkg/store"
)

type roles struct {
	db *gorm.DB
}

func newRoles(db *gorm.DB) *roles {
	return &roles{db: db}
}

// Create creates a new role.
func (s *roles) Create(ctx context.Context, role *model.Role) error {
	if err := s.db.WithContext(ctx).Create(role).Error; err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.ErrAlreadyExists.WithMessage("role code already exists")
		}
		return errors.ErrDatabase.WithCause(err)
	}
	return nil
}

// Update updates an existing role.
func (s *roles) Update(ctx context.Context, role *model.Role) error {
	result := s.db.WithContext(ctx).Save(role)
	if result.Error != nil {
		return errors.ErrDatabase.WithCause(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrRoleNotFound
	}
	return nil
}

// Delete soft deletes a role by ID.
func (s *roles) Delete(ctx context.Context, id uint64) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Role{})
	if result.Error != nil {
		return errors.ErrDatabase.WithCause(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrRoleNotFound
	}
	return nil
}

// Get retrieves a role by ID.
func (s *roles) Get(ctx context.Context, id uint64) (*model.Role, error) {
	var role model.Role
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&role).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrRoleNotFound
		}
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return &role, nil
}

// GetByCode retrieves a role by code within a tenant scope. A nil
// tenantID matches the global scope.
func (s *roles) GetByCode(ctx context.Context, code string, tenantID *uint64) (*model.Role, error) {
	db := s.db.WithContext(ctx).Where("code = ?", code)
	if tenantID == nil {
		db = db.Where("tenant_id IS NULL")
	} else {
		db = db.Where("tenant_id = ?", *tenantID)
	}

	var role model.Role
	if err := db.First(&role).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrRoleNotFound
		}
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return &role, nil
}

// List lists roles with pagination.
func (s *roles) List(ctx context.Context, opts ...store.Option) (int64, []*model.Role, error) {
	var count int64
	var items []*model.Role

	db := store.NewWhere(opts...).Where(s.db.WithContext(ctx))

	if err := db.Model(&model.Role{}).Count(&count).Error; err != nil {
		return 0, nil, errors.ErrDatabase.WithCause(err)
	}

	if err := db.Find(&items).Error; err != nil {
		return 0, nil, errors.ErrDatabase.WithCause(err)
	}

	return count, items, nil
}

// ReplaceForUser replaces the user's role set inside a transaction.
// Assignments no longer wanted are soft deleted so the audit trail
// survives.
func (s *roles) ReplaceForUser(ctx context.Context, userID uint64, roleIDs []uint64, assignedBy uint64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current []model.UserRole
		if err := tx.Where("user_id = ?", userID).Find(&current).Error; err != nil {
			return err
		}

		wanted := make(map[uint64]bool, len(roleIDs))
		for _, id := range roleIDs {
			wanted[id] = true
		}

		existing := make(map[uint64]bool, len(current))
		for _, ur := range current {
			existing[ur.RoleID] = true
			if !wanted[ur.RoleID] {
				if err := tx.Delete(&model.UserRole{}, ur.ID).Error; err != nil {
					return err
				}
			}
		}

		for _, id := range roleIDs {
			if existing[id] {
				continue
			}
			assignment := &model.UserRole{
				UserID:     userID,
				RoleID:     id,
				AssignedBy: assignedBy,
			}
			if err := tx.Create(assignment).Error; err != nil {
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

// ListActiveByUserID returns the active roles reachable through live
// assignments, ordered by role name.
func (s *roles) ListActiveByUserID(ctx context.Context, userID uint64) ([]*model.Role, error) {
	var items []*model.Role
	err := s.db.WithContext(ctx).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id AND user_roles.deleted_at IS NULL").
		Where("user_roles.user_id = ?", userID).
		Where("roles.status = ?", model.StatusEnabled).
		Order("roles.name, roles.code").
		Find(&items).Error
	if err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return items, nil
}

// ListIDsForUser returns the role IDs of live assignments.
func (s *roles) ListIDsForUser(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).
		Model(&model.UserRole{}).
		Where("user_id = ?", userID).
		Pluck("role_id", &ids).Error
	if err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return ids, nil
}

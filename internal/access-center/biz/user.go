package biz

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/kart-io/access-center/internal/access-center/store"
	"github.com/kart-io/access-center/internal/model"
	"github.com/kart-io/access-center/pkg/authz/rbac"
	"github.com/kart-io/access-center/pkg/errors"
	storepkg "github.com/kart-io/access-center/pkg/store"
)

// UserService handles user business logic.
type UserService struct {
	store store.Factory
	cache *rbac.ContextCache
}

// NewUserService creates a new UserService.
func NewUserService(store store.Factory, cache *rbac.ContextCache) *UserService {
	return &UserService{store: store, cache: cache}
}

// Create creates a new user with encrypted password. A nil tenant
// creates a platform-level user.
func (s *UserService) Create(ctx context.Context, user *model.User) error {
	if user.TenantID != nil {
		if _, err := s.store.Tenants().Get(ctx, *user.TenantID); err != nil {
			return err
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.ErrInternal.WithCause(err)
	}
	user.Password = string(hashedPassword)

	return s.store.Users().Create(ctx, user)
}

// Update updates an existing user.
func (s *UserService) Update(ctx context.Context, user *model.User) error {
	if err := s.store.Users().Update(ctx, user); err != nil {
		return err
	}
	s.cache.Invalidate(user.ID)
	return nil
}

// Delete soft deletes a user.
func (s *UserService) Delete(ctx context.Context, id uint64) error {
	if err := s.store.Users().Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(id)
	return nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, id uint64) (*model.User, error) {
	return s.store.Users().Get(ctx, id)
}

// List lists users with pagination.
func (s *UserService) List(ctx context.Context, opts ...storepkg.Option) (int64, []*model.User, error) {
	return s.store.Users().List(ctx, opts...)
}

// ChangePassword changes a user's password.
func (s *UserService) ChangePassword(ctx context.Context, id uint64, newPassword string) error {
	user, err := s.store.Users().Get(ctx, id)
	if err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.ErrInternal.WithCause(err)
	}

	user.Password = string(hashedPassword)
	return s.store.Users().Update(ctx, user)
}

// SetRoles replaces the user's role set. Every role must exist and
// belong to the user's tenant or the global scope.
func (s *UserService) SetRoles(ctx context.Context, userID uint64, roleIDs []uint64, assignedBy uint64) error {
	user, err := s.store.Users().Get(ctx, userID)
	if err != nil {
		return err
	}

	for _, roleID := range roleIDs {
		role, err := s.store.Roles().Get(ctx, roleID)
		if err != nil {
			return err
		}
		if role.TenantID != nil && (user.TenantID == nil || *role.TenantID != *user.TenantID) {
			return errors.ErrTenantMismatch.WithMessagef(
				"role %d belongs to tenant %d, which is not the user's tenant", roleID, *role.TenantID)
		}
	}

	if err := s.store.Roles().ReplaceForUser(ctx, userID, roleIDs, assignedBy); err != nil {
		return err
	}
	s.cache.Invalidate(userID)
	return nil
}

// Roles returns the IDs of the user's live role assignments.
func (s *UserService) Roles(ctx context.Context, userID uint64) ([]uint64, error) {
	if _, err := s.store.Users().Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.Roles().ListIDsForUser(ctx, userID)
}

// Package store implements the data access layer for the access
// center. All stores operate on GORM and surface errno values from
// pkg/errors.
package store

import (
	"context"

	"github.com/kart-io/access-center/internal/model"
	"github.com/kart-io/access-center/pkg/store"
)

// Factory assembles the individual stores over a shared database
// handle.
type Factory interface {
	Tenants() TenantStore
	Users() UserStore
	Roles() RoleStore
	Features() FeatureStore
	Menus() MenuStore
	LoginLogs() LoginLogStore
	AutoMigrate() error
	Close() error
}

// TenantStore defines tenant storage operations.
type TenantStore interface {
	Create(ctx context.Context, tenant *model.Tenant) error
	Update(ctx context.Context, tenant *model.Tenant) error
	Delete(ctx context.Context, id uint64) error
	Get(ctx context.Context, id uint64) (*model.Tenant, error)
	GetByCode(ctx context.Context, code string) (*model.Tenant, error)
	List(ctx context.Context, opts ...store.Option) (int64, []*model.Tenant, error)
}

// UserStore defines user storage operations.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uint64) error
	Get(ctx context.Context, id uint64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, opts ...store.Option) (int64, []*model.User, error)
	Count(ctx context.Context) (int64, error)
}

// RoleStore defines role storage and user assignment operations.
type RoleStore interface {
	Create(ctx context.Context, role *model.Role) error
	Update(ctx context.Context, role *model.Role) error
	Delete(ctx context.Context, id uint64) error
	Get(ctx context.Context, id uint64) (*model.Role, error)
	GetByCode(ctx context.Context, code string, tenantID *uint64) (*model.Role, error)
	List(ctx context.Context, opts ...store.Option) (int64, []*model.Role, error)

	// ReplaceForUser replaces the user's role set. Previous live
	// assignments not in roleIDs are soft deleted.
	ReplaceForUser(ctx context.Context, userID uint64, roleIDs []uint64, assignedBy uint64) error

	// ListActiveByUserID returns the active roles reachable through
	// live assignments, ordered by role name.
	ListActiveByUserID(ctx context.Context, userID uint64) ([]*model.Role, error)

	// ListIDsForUser returns the role IDs of live assignments.
	ListIDsForUser(ctx context.Context, userID uint64) ([]uint64, error)
}

// FeatureStore defines feature storage and role grant operations.
type FeatureStore interface {
	Create(ctx context.Context, feature *model.Feature) error
	Update(ctx context.Context, feature *model.Feature) error
	Delete(ctx context.Context, id uint64) error
	Get(ctx context.Context, id uint64) (*model.Feature, error)
	List(ctx context.Context, opts ...store.Option) (int64, []*model.Feature, error)

	// ReplaceForRole replaces the role's granted feature set.
	ReplaceForRole(ctx context.Context, roleID uint64, featureIDs []uint64, grantedBy uint64) error

	// ListIDsForRole returns the feature IDs granted to a role.
	ListIDsForRole(ctx context.Context, roleID uint64) ([]uint64, error)

	// ListActiveByRoleIDs returns the active features granted to any
	// of the given roles, deduplicated.
	ListActiveByRoleIDs(ctx context.Context, roleIDs []uint64) ([]*model.Feature, error)
}

// MenuStore defines menu storage, role grants, and menu feature
// bindings.
type MenuStore interface {
	Create(ctx context.Context, menu *model.Menu) error
	Update(ctx context.Context, menu *model.Menu) error
	Delete(ctx context.Context, id uint64) error
	Get(ctx context.Context, id uint64) (*model.Menu, error)
	List(ctx context.Context, opts ...store.Option) (int64, []*model.Menu, error)

	// ReplaceForRole replaces the role's granted menu set.
	ReplaceForRole(ctx context.Context, roleID uint64, menuIDs []uint64, grantedBy uint64) error

	// ListIDsForRole returns the menu IDs granted to a role.
	ListIDsForRole(ctx context.Context, roleID uint64) ([]uint64, error)

	// ListActiveByRoleIDs returns the active menus granted to any of
	// the given roles, deduplicated.
	ListActiveByRoleIDs(ctx context.Context, roleIDs []uint64) ([]*model.Menu, error)

	// ReplaceFeatures replaces the feature bindings of a menu.
	ReplaceFeatures(ctx context.Context, menuID uint64, featureIDs []uint64, grantedBy uint64) error

	// ListFeatureBindings returns the live menu feature bindings for
	// the given menus.
	ListFeatureBindings(ctx context.Context, menuIDs []uint64) ([]*model.MenuFeature, error)
}

// LoginLogStore defines login audit log operations.
type LoginLogStore interface {
	Create(ctx context.Context, log *model.LoginLog) error
	List(ctx context.Context, opts ...store.Option) (int64, []*model.LoginLog, error)
}

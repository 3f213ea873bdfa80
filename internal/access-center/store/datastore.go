package store

import (
	"gorm.io/gorm"

	"github.com/kart-io/access-center/internal/model"
)

// datastore implements the Factory interface.
type datastore struct {
	db *gorm.DB
}

// NewFactory creates a storage factory over the given database handle.
func NewFactory(db *gorm.DB) Factory {
	return &datastore{db: db}
}

// Tenants returns the tenant store.
func (ds *datastore) Tenants() TenantStore {
	return newTenants(ds.db)
}

// Users returns the user store.
func (ds *datastore) Users() UserStore {
	return newUsers(ds.db)
}

// Roles returns the role store.
func (ds *datastore) Roles() RoleStore {
	return newRoles(ds.db)
}

// Features returns the feature store.
func (ds *datastore) Features() FeatureStore {
	return newFeatures(ds.db)
}

// Menus returns the menu store.
func (ds *datastore) Menus() MenuStore {
	return newMenus(ds.db)
}

// LoginLogs returns the login log store.
func (ds *datastore) LoginLogs() LoginLogStore {
	return newLoginLogs(ds.db)
}

// AutoMigrate migrates the database schema.
func (ds *datastore) AutoMigrate() error {
	return ds.db.AutoMigrate(
		&model.Tenant{},
		&model.User{},
		&model.Role{},
		&model.UserRole{},
		&model.Feature{},
		&model.RoleFeature{},
		&model.Menu{},
		&model.RoleMenu{},
		&model.MenuFeature{},
		&model.LoginLog{},
	)
}

// Close closes the factory. The database handle is owned by the
// caller.
func (ds *datastore) Close() error {
	return nil
}

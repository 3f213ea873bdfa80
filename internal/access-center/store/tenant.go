package store

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/kart-io/access-center/internal/model"
	"github.com/kart-io/access-center/pkg/errors"
	"github.com/kart-io/access-center/pkg/store"
)

type tenants struct {
	db *gorm.DB
}

func newTenants(db *gorm.DB) *tenants {
	return &tenants{db: db}
}

// Create creates a new tenant.
func (s *tenants) Create(ctx context.Context, tenant *model.Tenant) error {
	if err := s.db.WithContext(ctx).Create(tenant).Error; err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.ErrAlreadyExists.WithMessage("tenant code already exists")
		}
		return errors.ErrDatabase.WithCause(err)
	}
	return nil
}

// Update updates an existing tenant.
func (s *tenants) Update(ctx context.Context, tenant *model.Tenant) error {
	result := s.db.WithContext(ctx).Save(tenant)
	if result.Error != nil {
		return errors.ErrDatabase.WithCause(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrTenantNotFound
	}
	return nil
}

// Delete soft deletes a tenant by ID.
func (s *tenants) Delete(ctx context.Context, id uint64) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Tenant{})
	if result.Error != nil {
		return errors.ErrDatabase.WithCause(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrTenantNotFound
	}
	return nil
}

// Get retrieves a tenant by ID.
func (s *tenants) Get(ctx context.Context, id uint64) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&tenant).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrTenantNotFound
		}
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return &tenant, nil
}

// GetByCode retrieves a tenant by its unique code.
func (s *tenants) GetByCode(ctx context.Context, code string) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := s.db.WithContext(ctx).Where("code = ?", code).First(&tenant).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrTenantNotFound
		}
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return &tenant, nil
}

// List lists tenants with pagination.
func (s *tenants) List(ctx context.Context, opts ...store.Option) (int64, []*model.Tenant, error) {
	var count int64
	var items []*model.Tenant

	db := store.NewWhere(opts...).Where(s.db.WithContext(ctx))

	if err := db.Model(&model.Tenant{}).Count(&count).Error; err != nil {
		return 0, nil, errors.ErrDatabase.WithCause(err)
	}

	if err := db.Find(&items).Error; err != nil {
		return 0, nil, errors.ErrDatabase.WithCause(err)
	}

	return count, items, nil
}

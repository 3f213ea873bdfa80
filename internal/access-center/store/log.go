package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/kart-io/access-center/internal/model"
	"github.com/kart-io/access-center/pkg/errors"
	"github.com/kart-io/access-center/pkg/store"
)

type loginLogs struct {
	db *gorm.DB
}

func newLoginLogs(db *gorm.DB) *loginLogs {
	return &loginLogs{db: db}
}

// Create creates a new login log entry.
func (s *loginLogs) Create(ctx context.Context, log *model.LoginLog) error {
	if err := s.db.WithContext(ctx).Create(log).Error; err != nil {
		return errors.ErrDatabase.WithCause(err)
	}
	return nil
}

// List lists login logs with pagination, newest first.
func (s *loginLogs) List(ctx context.Context, opts ...store.Option) (int64, []*model.LoginLog, error) {
	var count int64
	var items []*model.LoginLog

	db := store.NewWhere(opts...).Where(s.db.WithContext(ctx))

	if err := db.Model(&model.LoginLog{}).Count(&count).Error; err != nil {
		return 0, nil, errors.ErrDatabase.WithCause(err)
	}

	if err := db.Order("id DESC").Find(&items).Error; err != nil {
		return 0, nil, errors.ErrDatabase.WithCause(err)
	}

	return count, items, nil
}

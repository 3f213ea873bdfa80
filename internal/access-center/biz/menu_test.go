package biz

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/access-center/internal/access-center/store"
	"github.com/kart-io/access-center/internal/model"
	"github.com/kart-io/access-center/pkg/authz/rbac"
	"github.com/kart-io/access-center/pkg/errors"
)

func newTestCache(t *testing.T, factory store.Factory) *rbac.ContextCache {
	t.Helper()
	cache := rbac.NewContextCache(NewAuthzService(factory), rbac.WithTTL(time.Minute))
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestMenuService_HierarchyValidation(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)
	svc := NewMenuService(factory, newTestCache(t, factory))

	group := &model.Menu{Name: "Group", Level: model.MenuLevelGroup, Status: model.StatusEnabled}
	require.NoError(t, svc.Create(ctx, group))
	page := &model.Menu{Name: "Page", Level: model.MenuLevelPage, ParentID: &group.ID, Status: model.StatusEnabled}
	require.NoError(t, svc.Create(ctx, page))

	tenant := &model.Tenant{Code: "acme", Name: "Acme", Status: model.StatusEnabled}
	require.NoError(t, factory.Tenants().Create(ctx, tenant))
	scopedGroup := &model.Menu{Name: "Scoped Group", Level: model.MenuLevelGroup, TenantID: &tenant.ID, Status: model.StatusEnabled}
	require.NoError(t, svc.Create(ctx, scopedGroup))
	scopedPage := &model.Menu{Name: "Scoped Page", Level: model.MenuLevelPage, ParentID: &scopedGroup.ID, TenantID: &tenant.ID, Status: model.StatusEnabled}
	require.NoError(t, svc.Create(ctx, scopedPage))

	tests := []struct {
		name     string
		menu     *model.Menu
		wantCode int
	}{
		{
			name:     "level out of range",
			menu:     &model.Menu{Name: "Bad", Level: 3},
			wantCode: errors.ErrMenuLevelInvalid.Code,
		},
		{
			name:     "level zero",
			menu:     &model.Menu{Name: "Bad"},
			wantCode: errors.ErrMenuLevelInvalid.Code,
		},
		{
			name:     "group with parent",
			menu:     &model.Menu{Name: "Bad", Level: model.MenuLevelGroup, ParentID: &group.ID},
			wantCode: errors.ErrMenuParentInvalid.Code,
		},
		{
			name:     "page without parent",
			menu:     &model.Menu{Name: "Bad", Level: model.MenuLevelPage},
			wantCode: errors.ErrMenuParentInvalid.Code,
		},
		{
			name:     "page under another page",
			menu:     &model.Menu{Name: "Bad", Level: model.MenuLevelPage, ParentID: &page.ID},
			wantCode: errors.ErrMenuParentInvalid.Code,
		},
		{
			name:     "tenant page under global parent",
			menu:     &model.Menu{Name: "Bad", Level: model.MenuLevelPage, ParentID: &group.ID, TenantID: &tenant.ID},
			wantCode: errors.ErrMenuParentInvalid.Code,
		},
		{
			name:     "global page under tenant parent",
			menu:     &model.Menu{Name: "Bad", Level: model.MenuLevelPage, ParentID: &scopedGroup.ID},
			wantCode: errors.ErrMenuParentInvalid.Code,
		},
		{
			name: "page under missing parent",
			menu: func() *model.Menu {
				missing := uint64(9999)
				return &model.Menu{Name: "Bad", Level: model.MenuLevelPage, ParentID: &missing}
			}(),
			wantCode: errors.ErrMenuParentInvalid.Code,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Create(ctx, tt.menu)
			assert.True(t, errors.IsCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestMenuService_SetFeatures(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)
	svc := NewMenuService(factory, newTestCache(t, factory))

	group := &model.Menu{Name: "Group", Level: model.MenuLevelGroup, Status: model.StatusEnabled}
	require.NoError(t, svc.Create(ctx, group))

	feature := &model.Feature{Code: "USER_VIEW", Name: "View Users", Status: model.StatusEnabled}
	require.NoError(t, factory.Features().Create(ctx, feature))

	require.NoError(t, svc.SetFeatures(ctx, group.ID, []uint64{feature.ID}, 1))

	err := svc.SetFeatures(ctx, group.ID, []uint64{9999}, 1)
	assert.True(t, errors.IsCode(err, errors.ErrFeatureNotFound.Code))

	err = svc.SetFeatures(ctx, 9999, nil, 1)
	assert.True(t, errors.IsCode(err, errors.ErrMenuNotFound.Code))
}

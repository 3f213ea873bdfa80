package biz

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kart-io/access-center/internal/access-center/store"
	"github.com/kart-io/access-center/internal/model"
	"github.com/kart-io/access-center/pkg/authz/rbac"
	"github.com/kart-io/access-center/pkg/errors"
	"github.com/kart-io/access-center/pkg/security/auth/jwt"
)

const testPassword = "S3cure#Pass1"

func newAuthService(t *testing.T, factory store.Factory) *AuthService {
	t.Helper()

	jwtAuth, err := jwt.New(
		jwt.WithKey("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"),
		jwt.WithExpired(time.Hour),
		jwt.WithStore(jwt.NewMemoryStore()),
	)
	require.NoError(t, err)

	cache := rbac.NewContextCache(NewAuthzService(factory), rbac.WithTTL(time.Minute))
	t.Cleanup(func() { _ = cache.Close() })

	return NewAuthService(jwtAuth, factory, cache)
}

func seedUser(t *testing.T, factory store.Factory, tenantID uint64, username string) *model.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &model.User{
		Username: username,
		Password: string(hashed),
		Email:    username + "@acme.test",
		TenantID: &tenantID,
		Status:   model.StatusEnabled,
	}
	require.NoError(t, factory.Users().Create(context.Background(), user))
	return user
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)
	svc := newAuthService(t, factory)

	tenant := &model.Tenant{Code: "acme", Name: "Acme", Status: model.StatusEnabled}
	require.NoError(t, factory.Tenants().Create(ctx, tenant))
	user := seedUser(t, factory, tenant.ID, "alice")

	resp, err := svc.Login(ctx, &model.LoginRequest{Username: "alice", Password: testPassword}, "10.0.0.1", "go-test")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.UserID)
	assert.Positive(t, resp.ExpiresIn)
	require.NotNil(t, resp.Authorization)
	assert.Equal(t, user.ID, resp.Authorization.UserID)

	// The attempt is audited and the last login recorded.
	count, logs, err := factory.LoginLogs().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, model.LoginStatusSuccess, logs[0].Status)
	assert.Equal(t, "10.0.0.1", logs[0].IP)

	updated, err := factory.Users().Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", updated.LastLoginIP)
	assert.NotZero(t, updated.LastLoginAt)
}

func TestAuthService_Login_Failures(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)
	svc := newAuthService(t, factory)

	tenant := &model.Tenant{Code: "acme", Name: "Acme", Status: model.StatusEnabled}
	require.NoError(t, factory.Tenants().Create(ctx, tenant))
	user := seedUser(t, factory, tenant.ID, "alice")

	tests := []struct {
		name     string
		username string
		password string
		wantCode int
		prepare  func(t *testing.T)
	}{
		{
			name:     "unknown username",
			username: "nobody",
			password: testPassword,
			wantCode: errors.ErrInvalidCredentials.Code,
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "wrong",
			wantCode: errors.ErrInvalidCredentials.Code,
		},
		{
			name:     "disabled account",
			username: "alice",
			password: testPassword,
			wantCode: errors.ErrAccountDisabled.Code,
			prepare: func(t *testing.T) {
				user.Status = model.StatusDisabled
				require.NoError(t, factory.Users().Update(ctx, user))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepare != nil {
				tt.prepare(t)
			}
			_, err := svc.Login(ctx, &model.LoginRequest{Username: tt.username, Password: tt.password}, "10.0.0.1", "go-test")
			assert.True(t, errors.IsCode(err, tt.wantCode))
		})
	}

	// Every failed attempt left an audit row.
	count, _, err := factory.LoginLogs().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)
	svc := newAuthService(t, factory)

	tenant := &model.Tenant{Code: "acme", Name: "Acme", Status: model.StatusEnabled}
	require.NoError(t, factory.Tenants().Create(ctx, tenant))
	seedUser(t, factory, tenant.ID, "alice")

	resp, err := svc.Login(ctx, &model.LoginRequest{Username: "alice", Password: testPassword}, "10.0.0.1", "go-test")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.Token))

	// The revoked token is no longer usable.
	err = svc.Logout(ctx, resp.Token)
	assert.True(t, errors.IsCode(err, errors.ErrTokenRevoked.Code))
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)
	svc := newAuthService(t, factory)

	tenant := &model.Tenant{Code: "acme", Name: "Acme", Status: model.StatusEnabled}
	require.NoError(t, factory.Tenants().Create(ctx, tenant))
	user := seedUser(t, factory, tenant.ID, "alice")

	resp, err := svc.Login(ctx, &model.LoginRequest{Username: "alice", Password: testPassword}, "10.0.0.1", "go-test")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, resp.Token)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Token)
	assert.NotEqual(t, resp.Token, refreshed.Token)
	assert.Equal(t, user.ID, refreshed.UserID)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)
	svc := newAuthService(t, factory)

	tenant := &model.Tenant{Code: "acme", Name: "Acme", Status: model.StatusEnabled}
	require.NoError(t, factory.Tenants().Create(ctx, tenant))

	admin := &model.Role{Code: AdminRoleCode, Name: "Administrator", Status: model.StatusEnabled}
	require.NoError(t, factory.Roles().Create(ctx, admin))

	first, err := svc.Register(ctx, &model.RegisterRequest{
		Username:   "alice",
		Password:   testPassword,
		Email:      "alice@example.com",
		TenantCode: "acme",
	})
	require.NoError(t, err)
	require.NotNil(t, first.TenantID)
	assert.Equal(t, tenant.ID, *first.TenantID)
	assert.NotEqual(t, testPassword, first.Password)

	// First user in the system holds the built-in admin role.
	ids, err := factory.Roles().ListIDsForUser(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{admin.ID}, ids)

	second, err := svc.Register(ctx, &model.RegisterRequest{
		Username:   "bob",
		Password:   testPassword,
		Email:      "bob@example.com",
		TenantCode: "acme",
	})
	require.NoError(t, err)

	ids, err = factory.Roles().ListIDsForUser(ctx, second.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = svc.Register(ctx, &model.RegisterRequest{
		Username:   "carol",
		Password:   testPassword,
		Email:      "carol@example.com",
		TenantCode: "missing",
	})
	assert.True(t, errors.IsCode(err, errors.ErrTenantNotFound.Code))

	tenant.Status = model.StatusDisabled
	require.NoError(t, factory.Tenants().Update(ctx, tenant))
	_, err = svc.Register(ctx, &model.RegisterRequest{
		Username:   "dave",
		Password:   testPassword,
		Email:      "dave@example.com",
		TenantCode: "acme",
	})
	assert.True(t, errors.IsCode(err, errors.ErrTenantDisabled.Code))
}

func TestAuthService_Profile(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)
	svc := newAuthService(t, factory)

	tenant := &model.Tenant{Code: "acme", Name: "Acme", Status: model.StatusEnabled}
	require.NoError(t, factory.Tenants().Create(ctx, tenant))
	user := seedUser(t, factory, tenant.ID, "alice")

	profile, err := svc.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.User.ID)
	require.NotNil(t, profile.Authorization)
	assert.Empty(t, profile.Authorization.Roles)
}

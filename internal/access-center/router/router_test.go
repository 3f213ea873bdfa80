package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/glebarez/sqlite"
	v10 "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kart-io/access-center/internal/access-center/biz"
	"github.com/kart-io/access-center/internal/access-center/router"
	"github.com/kart-io/access-center/internal/access-center/store"
	"github.com/kart-io/access-center/internal/model"
	"github.com/kart-io/access-center/pkg/authz/rbac"
	"github.com/kart-io/access-center/pkg/middleware"
	"github.com/kart-io/access-center/pkg/security/auth/jwt"
	"github.com/kart-io/access-center/pkg/utils/validator"
)

const (
	testKey      = "test-secret-key-at-least-64-chars-long-for-security-purposes!!!!"
	testPassword = "S3cure#Pass1"
)

var bindingRulesOnce sync.Once

// envelope is the wire format every endpoint responds with.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	engine  *gin.Engine
	factory store.Factory
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	gin.SetMode(gin.TestMode)
	bindingRulesOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*v10.Validate); ok {
			validator.RegisterRules(v)
		}
	})

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	factory := store.NewFactory(db)
	require.NoError(t, factory.AutoMigrate())
	t.Cleanup(func() { _ = factory.Close() })

	ctx := context.Background()

	// Tenant plus a global admin role carrying the management permissions
	// the API gates on. The first registered user picks up this role.
	tenant := &model.Tenant{Code: "acme", Name: "Acme", Status: model.StatusEnabled}
	require.NoError(t, factory.Tenants().Create(ctx, tenant))

	admin := &model.Role{Code: biz.AdminRoleCode, Name: "Administrator", Status: model.StatusEnabled}
	require.NoError(t, factory.Roles().Create(ctx, admin))

	var featureIDs []uint64
	for _, code := range []string{"USER_VIEW", "USER_MANAGE"} {
		f := &model.Feature{Code: code, Name: code, Status: model.StatusEnabled}
		require.NoError(t, factory.Features().Create(ctx, f))
		featureIDs = append(featureIDs, f.ID)
	}
	require.NoError(t, factory.Features().ReplaceForRole(ctx, admin.ID, featureIDs, 0))

	// The flat permission list follows the menu tree, so the features
	// must be declared by a menu the role holds.
	group := &model.Menu{Name: "User Management", Level: model.MenuLevelGroup, SortOrder: 1, Status: model.StatusEnabled}
	require.NoError(t, factory.Menus().Create(ctx, group))
	page := &model.Menu{Name: "User List", Level: model.MenuLevelPage, ParentID: &group.ID, SortOrder: 1, Status: model.StatusEnabled}
	require.NoError(t, factory.Menus().Create(ctx, page))
	require.NoError(t, factory.Menus().ReplaceForRole(ctx, admin.ID, []uint64{group.ID, page.ID}, 0))
	require.NoError(t, factory.Menus().ReplaceFeatures(ctx, page.ID, featureIDs, 0))

	authn, err := jwt.New(
		jwt.WithKey(testKey),
		jwt.WithExpired(time.Hour),
		jwt.WithStore(jwt.NewMemoryStore()),
	)
	require.NoError(t, err)

	authz := biz.NewAuthzService(factory)
	cache := rbac.NewContextCache(authz, rbac.WithTTL(time.Minute))
	t.Cleanup(func() { _ = cache.Close() })

	engine := gin.New()
	engine.Use(middleware.Recovery(), middleware.RequestID())
	router.Register(engine, authn, cache, router.Services{
		Auth:     biz.NewAuthService(authn, factory, cache),
		Authz:    authz,
		Tenants:  biz.NewTenantService(factory, cache),
		Users:    biz.NewUserService(factory, cache),
		Roles:    biz.NewRoleService(factory, cache),
		Features: biz.NewFeatureService(factory, cache),
		Menus:    biz.NewMenuService(factory, cache),
	})

	return &testServer{engine: engine, factory: factory}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return w, env
}

func (s *testServer) register(t *testing.T, username string) {
	t.Helper()
	w, _ := s.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"username":    username,
		"password":    testPassword,
		"email":       username + "@example.com",
		"tenant_code": "acme",
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func (s *testServer) login(t *testing.T, username string) string {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"username": username,
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRouter_RegisterLoginMe(t *testing.T) {
	srv := newTestServer(t)

	srv.register(t, "alice")

	w, env := srv.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"username": "alice",
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Positive(t, resp.ExpiresIn)
	require.NotNil(t, resp.Authorization)
	assert.Contains(t, resp.Authorization.Permissions, "USER_VIEW")
	assert.Contains(t, resp.Authorization.Roles, biz.AdminRoleCode)

	w, env = srv.do(t, http.MethodGet, "/auth/me", resp.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var profile model.ProfileResponse
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	require.NotNil(t, profile.User)
	assert.Equal(t, "alice", profile.User.Username)
}

func TestRouter_ManagementRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	w, _ := srv.do(t, http.MethodGet, "/v1/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_PermissionGate(t *testing.T) {
	srv := newTestServer(t)

	// First registration bootstraps the admin, the second gets no roles.
	srv.register(t, "alice")
	srv.register(t, "bob")

	adminToken := srv.login(t, "alice")
	w, _ := srv.do(t, http.MethodGet, "/v1/users", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	bobToken := srv.login(t, "bob")
	w, _ = srv.do(t, http.MethodGet, "/v1/users", bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Roles admin permission is not among the granted features.
	w, _ = srv.do(t, http.MethodGet, "/v1/roles", adminToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_LogoutRevokesToken(t *testing.T) {
	srv := newTestServer(t)
	srv.register(t, "alice")
	token := srv.login(t, "alice")

	w, _ := srv.do(t, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = srv.do(t, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_RegisterValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{"weak password", gin.H{"username": "carol", "password": "short", "email": "carol@example.com", "tenant_code": "acme"}},
		{"bad username", gin.H{"username": "1carol", "password": testPassword, "email": "carol@example.com", "tenant_code": "acme"}},
		{"missing tenant code", gin.H{"username": "carol", "password": testPassword, "email": "carol@example.com"}},
		{"bad email", gin.H{"username": "carol", "password": testPassword, "email": "nope", "tenant_code": "acme"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := srv.do(t, http.MethodPost, "/auth/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

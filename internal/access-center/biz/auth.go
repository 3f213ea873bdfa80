package biz

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kart-io/logger"

	"github.com/kart-io/access-center/internal/access-center/store"
	"github.com/kart-io/access-center/internal/model"
	"github.com/kart-io/access-center/pkg/authz/rbac"
	"github.com/kart-io/access-center/pkg/errors"
	"github.com/kart-io/access-center/pkg/security/auth"
	storepkg "github.com/kart-io/access-center/pkg/store"
)

// AdminRoleCode is the built-in role granted to the first registered user.
const AdminRoleCode = "ADMIN"

// AuthService handles authentication business logic.
type AuthService struct {
	authn auth.Authenticator
	store store.Factory
	cache *rbac.ContextCache
}

// NewAuthService creates a new AuthService.
func NewAuthService(authn auth.Authenticator, store store.Factory, cache *rbac.ContextCache) *AuthService {
	return &AuthService{
		authn: authn,
		store: store,
		cache: cache,
	}
}

// Login authenticates a user, records the attempt, and returns a token
// together with the caller's resolved authorization context.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest, clientIP, userAgent string) (*model.LoginResponse, error) {
	user, err := s.store.Users().GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.IsCode(err, errors.ErrUserNotFound.Code) {
			s.recordLogin(ctx, 0, req.Username, clientIP, userAgent, model.LoginStatusFailed, "unknown username")
			return nil, errors.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		s.recordLogin(ctx, user.ID, user.Username, clientIP, userAgent, model.LoginStatusFailed, "password mismatch")
		return nil, errors.ErrInvalidCredentials
	}

	if user.Status != model.StatusEnabled {
		s.recordLogin(ctx, user.ID, user.Username, clientIP, userAgent, model.LoginStatusFailed, "account disabled")
		return nil, errors.ErrAccountDisabled
	}

	token, err := s.authn.Sign(ctx, strconv.FormatUint(user.ID, 10), auth.WithExtra(map[string]interface{}{
		"username":  user.Username,
		"tenant_id": user.TenantID,
	}))
	if err != nil {
		return nil, err
	}

	user.LastLoginAt = time.Now().UnixMilli()
	user.LastLoginIP = clientIP
	if err := s.store.Users().Update(ctx, user); err != nil {
		logger.Warnw("failed to record last login", "user_id", user.ID, "error", err)
	}

	s.recordLogin(ctx, user.ID, user.Username, clientIP, userAgent, model.LoginStatusSuccess, "")

	// Login is a natural refresh point. If resolution fails the login
	// still succeeds and the client fetches the context later.
	authCtx, err := s.cache.Refresh(ctx, user.ID)
	if err != nil {
		logger.Warnw("authorization resolution failed at login", "user_id", user.ID, "error", err)
		authCtx = nil
	}

	return &model.LoginResponse{
		Token:         token.GetAccessToken(),
		ExpiresIn:     token.GetExpiresIn(),
		UserID:        user.ID,
		Authorization: authCtx,
	}, nil
}

// Logout revokes the token, drops the cached authorization context,
// and records the event.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.authn.Verify(ctx, tokenString)
	if err != nil {
		return err
	}

	if err := s.authn.Revoke(ctx, tokenString); err != nil {
		return err
	}

	userID, _ := strconv.ParseUint(claims.Subject, 10, 64)
	s.cache.Invalidate(userID)

	log := &model.LoginLog{
		UserID:   userID,
		Username: claims.GetExtraString("username"),
		Kind:     model.LoginKindLogout,
		Status:   model.LoginStatusSuccess,
	}
	if err := s.store.LoginLogs().Create(ctx, log); err != nil {
		logger.Warnw("failed to write logout log", "user_id", userID, "error", err)
	}

	return nil
}

// Refresh rotates the token. The old token is revoked by the
// authenticator as part of the exchange.
func (s *AuthService) Refresh(ctx context.Context, tokenString string) (*model.LoginResponse, error) {
	claims, err := s.authn.Verify(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	token, err := s.authn.Refresh(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	userID, _ := strconv.ParseUint(claims.Subject, 10, 64)

	return &model.LoginResponse{
		Token:     token.GetAccessToken(),
		ExpiresIn: token.GetExpiresIn(),
		UserID:    userID,
	}, nil
}

// Register creates a new user under the tenant named by code. The very
// first user in the system is granted the built-in ADMIN role so a
// fresh deployment is administrable.
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	tenant, err := s.store.Tenants().GetByCode(ctx, req.TenantCode)
	if err != nil {
		return nil, err
	}
	if tenant.Status != model.StatusEnabled {
		return nil, errors.ErrTenantDisabled
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.ErrInternal.WithCause(err)
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
		Mobile:   req.Mobile,
		TenantID: &tenant.ID,
		Status:   model.StatusEnabled,
	}

	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.bootstrapAdmin(ctx, user); err != nil {
		logger.Warnw("failed to bootstrap admin role", "user_id", user.ID, "error", err)
	}

	return user, nil
}

// Profile returns the user record together with the authorization
// context served from the cache.
func (s *AuthService) Profile(ctx context.Context, userID uint64) (*model.ProfileResponse, error) {
	user, err := s.store.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	authCtx, err := s.cache.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.ProfileResponse{
		User:          user,
		Authorization: authCtx,
	}, nil
}

// LoginLogs lists login audit entries, newest first.
func (s *AuthService) LoginLogs(ctx context.Context, opts ...storepkg.Option) (int64, []*model.LoginLog, error) {
	return s.store.LoginLogs().List(ctx, opts...)
}

// bootstrapAdmin assigns the ADMIN role when the new user is the only
// user in the system. Missing the built-in role is not fatal.
func (s *AuthService) bootstrapAdmin(ctx context.Context, user *model.User) error {
	count, err := s.store.Users().Count(ctx)
	if err != nil {
		return err
	}
	if count != 1 {
		return nil
	}

	role, err := s.store.Roles().GetByCode(ctx, AdminRoleCode, nil)
	if err != nil {
		if errors.IsCode(err, errors.ErrRoleNotFound.Code) {
			return nil
		}
		return err
	}

	return s.store.Roles().ReplaceForUser(ctx, user.ID, []uint64{role.ID}, user.ID)
}

// recordLogin writes one login audit row. Audit failures are logged,
// never surfaced to the caller.
func (s *AuthService) recordLogin(ctx context.Context, userID uint64, username, ip, userAgent string, status int, message string) {
	log := &model.LoginLog{
		UserID:    userID,
		Username:  username,
		IP:        ip,
		UserAgent: userAgent,
		Kind:      model.LoginKindLogin,
		Status:    status,
		Message:   message,
	}
	if err := s.store.LoginLogs().Create(ctx, log); err != nil {
		logger.Warnw("failed to write login log", "username", username, "error", err)
	}
}

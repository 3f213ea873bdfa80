package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/kart-io/access-center/pkg/authz/rbac"
	"github.com/kart-io/access-center/pkg/errors"
	"github.com/kart-io/access-center/pkg/security/auth"
	"github.com/kart-io/access-center/pkg/utils/response"
)

// AuthzOptions defines permission gate options.
type AuthzOptions struct {
	// SubjectExtractor extracts the user ID from the request.
	// Default: parses the authenticated subject injected by the Auth
	// middleware.
	SubjectExtractor func(c *gin.Context) (uint64, error)

	// ErrorHandler is called when the permission check fails.
	// If nil, default error response is returned.
	ErrorHandler func(c *gin.Context, err error)
}

// AuthzOption is a functional option for the permission gate.
type AuthzOption func(*AuthzOptions)

// AuthzWithSubjectExtractor sets the subject extractor.
func AuthzWithSubjectExtractor(extractor func(c *gin.Context) (uint64, error)) AuthzOption {
	return func(o *AuthzOptions) {
		o.SubjectExtractor = extractor
	}
}

// AuthzWithErrorHandler sets the error handler.
func AuthzWithErrorHandler(handler func(c *gin.Context, err error)) AuthzOption {
	return func(o *AuthzOptions) {
		o.ErrorHandler = handler
	}
}

// RequirePermission creates a middleware that admits the request only
// when the caller's resolved authorization context satisfies the
// requirement. Contexts are served from the cache; a cache miss
// triggers a fresh resolution.
func RequirePermission(cache *rbac.ContextCache, req rbac.Requirement, opts ...AuthzOption) gin.HandlerFunc {
	options := &AuthzOptions{
		SubjectExtractor: defaultSubjectExtractor,
	}
	for _, opt := range opts {
		opt(options)
	}

	return func(c *gin.Context) {
		userID, err := options.SubjectExtractor(c)
		if err != nil {
			handleAuthzError(c, options, err)
			return
		}

		authCtx, err := cache.Get(c.Request.Context(), userID)
		if err != nil {
			logger.Errorw("failed to resolve authorization context",
				"user_id", userID, "error", err)
			handleAuthzError(c, options, errors.ErrInternal.WithCause(err))
			return
		}

		if !authCtx.Allows(req) {
			handleAuthzError(c, options, errors.ErrNoPermission.WithMessagef(
				"access denied: user=%d, required=%v", userID, req.Codes()))
			return
		}

		c.Next()
	}
}

// RequireRole creates a middleware that admits the request only when
// the caller holds at least one of the given roles.
func RequireRole(cache *rbac.ContextCache, roles []string, opts ...AuthzOption) gin.HandlerFunc {
	options := &AuthzOptions{
		SubjectExtractor: defaultSubjectExtractor,
	}
	for _, opt := range opts {
		opt(options)
	}

	return func(c *gin.Context) {
		userID, err := options.SubjectExtractor(c)
		if err != nil {
			handleAuthzError(c, options, err)
			return
		}

		authCtx, err := cache.Get(c.Request.Context(), userID)
		if err != nil {
			logger.Errorw("failed to resolve authorization context",
				"user_id", userID, "error", err)
			handleAuthzError(c, options, errors.ErrInternal.WithCause(err))
			return
		}

		if !authCtx.HasAnyRole(roles...) {
			handleAuthzError(c, options, errors.ErrNoPermission.WithMessagef(
				"access denied: user=%d, required role=%v", userID, roles))
			return
		}

		c.Next()
	}
}

// defaultSubjectExtractor parses the user ID from the authenticated
// subject. The Auth middleware must run first.
func defaultSubjectExtractor(c *gin.Context) (uint64, error) {
	subject := auth.SubjectFromContext(c.Request.Context())
	if subject == "" {
		return 0, errors.ErrUnauthorized.WithMessage("no authenticated subject")
	}

	userID, err := strconv.ParseUint(subject, 10, 64)
	if err != nil {
		return 0, errors.ErrInvalidToken.WithMessage("malformed subject claim")
	}

	return userID, nil
}

// handleAuthzError handles permission gate errors.
func handleAuthzError(c *gin.Context, options *AuthzOptions, err error) {
	if options.ErrorHandler != nil {
		options.ErrorHandler(c, err)
		c.Abort()
		return
	}

	errno := errors.FromError(err)
	c.AbortWithStatusJSON(errno.HTTPStatus(), response.Err(errno))
}

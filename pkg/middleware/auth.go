package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/access-center/pkg/errors"
	"github.com/kart-io/access-center/pkg/security/auth"
	"github.com/kart-io/access-center/pkg/utils/response"
)

// AuthOptions defines authentication middleware options.
type AuthOptions struct {
	// Authenticator is the authenticator to use.
	Authenticator auth.Authenticator

	// TokenLookup defines how to extract the token.
	// Format: "header:<name>" or "query:<name>" or "cookie:<name>"
	// Default: "header:Authorization"
	TokenLookup string

	// AuthScheme is the authorization scheme (e.g., "Bearer").
	// Default: "Bearer"
	AuthScheme string

	// SkipPaths is a list of paths to skip authentication.
	SkipPaths []string

	// SkipPathPrefixes is a list of path prefixes to skip authentication.
	SkipPathPrefixes []string

	// ErrorHandler is called when authentication fails.
	// If nil, default error response is returned.
	ErrorHandler func(c *gin.Context, err error)

	// SuccessHandler is called after successful authentication.
	// Can be used for custom context injection.
	SuccessHandler func(c *gin.Context, claims *auth.Claims)
}

// AuthOption is a functional option for auth middleware.
type AuthOption func(*AuthOptions)

// NewAuthOptions creates default auth options.
func NewAuthOptions() *AuthOptions {
	return &AuthOptions{
		TokenLookup:      "header:Authorization",
		AuthScheme:       "Bearer",
		SkipPaths:        []string{},
		SkipPathPrefixes: []string{},
	}
}

// AuthWithAuthenticator sets the authenticator.
func AuthWithAuthenticator(a auth.Authenticator) AuthOption {
	return func(o *AuthOptions) {
		o.Authenticator = a
	}
}

// AuthWithTokenLookup sets how to extract the token.
func AuthWithTokenLookup(lookup string) AuthOption {
	return func(o *AuthOptions) {
		o.TokenLookup = lookup
	}
}

// AuthWithAuthScheme sets the authorization scheme.
func AuthWithAuthScheme(scheme string) AuthOption {
	return func(o *AuthOptions) {
		o.AuthScheme = scheme
	}
}

// AuthWithSkipPaths sets paths to skip authentication.
func AuthWithSkipPaths(paths ...string) AuthOption {
	return func(o *AuthOptions) {
		o.SkipPaths = paths
	}
}

// AuthWithSkipPathPrefixes sets path prefixes to skip authentication.
func AuthWithSkipPathPrefixes(prefixes ...string) AuthOption {
	return func(o *AuthOptions) {
		o.SkipPathPrefixes = prefixes
	}
}

// AuthWithErrorHandler sets the error handler.
func AuthWithErrorHandler(handler func(c *gin.Context, err error)) AuthOption {
	return func(o *AuthOptions) {
		o.ErrorHandler = handler
	}
}

// AuthWithSuccessHandler sets the success handler.
func AuthWithSuccessHandler(handler func(c *gin.Context, claims *auth.Claims)) AuthOption {
	return func(o *AuthOptions) {
		o.SuccessHandler = handler
	}
}

// Auth creates an authentication middleware. On success the verified
// claims, subject, and raw token are injected into the request context
// and can be retrieved through the pkg/security/auth accessors.
func Auth(opts ...AuthOption) gin.HandlerFunc {
	options := NewAuthOptions()
	for _, opt := range opts {
		opt(options)
	}

	lookup := parseTokenLookup(options.TokenLookup)

	return func(c *gin.Context) {
		if shouldSkip(c.Request.URL.Path, options.SkipPaths, options.SkipPathPrefixes) {
			c.Next()
			return
		}

		if options.Authenticator == nil {
			handleAuthError(c, options, errors.ErrInternal.WithMessage("authenticator not configured"))
			return
		}

		tokenString := extractToken(c, lookup, options.AuthScheme)
		if tokenString == "" {
			handleAuthError(c, options, errors.ErrUnauthorized.WithMessage("missing authentication token"))
			return
		}

		claims, err := options.Authenticator.Verify(c.Request.Context(), tokenString)
		if err != nil {
			handleAuthError(c, options, err)
			return
		}

		ctx := auth.InjectAuth(c.Request.Context(), claims, tokenString)
		c.Request = c.Request.WithContext(ctx)

		if options.SuccessHandler != nil {
			options.SuccessHandler(c, claims)
		}

		c.Next()
	}
}

// tokenLookup represents a token extraction method.
type tokenLookup struct {
	source string // "header", "query", "cookie"
	name   string // name of the header/query/cookie
}

// parseTokenLookup parses the token lookup string.
func parseTokenLookup(lookup string) tokenLookup {
	parts := strings.SplitN(lookup, ":", 2)
	if len(parts) != 2 {
		return tokenLookup{source: "header", name: "Authorization"}
	}
	return tokenLookup{source: parts[0], name: parts[1]}
}

// extractToken extracts the token from the request.
func extractToken(c *gin.Context, lookup tokenLookup, scheme string) string {
	var token string

	switch lookup.source {
	case "header":
		token = c.GetHeader(lookup.name)
		if scheme != "" && strings.HasPrefix(token, scheme+" ") {
			token = strings.TrimPrefix(token, scheme+" ")
		}
	case "query":
		token = c.Query(lookup.name)
	case "cookie":
		if cookie, err := c.Cookie(lookup.name); err == nil {
			token = cookie
		}
	}

	return strings.TrimSpace(token)
}

// handleAuthError handles authentication errors.
func handleAuthError(c *gin.Context, options *AuthOptions, err error) {
	if options.ErrorHandler != nil {
		options.ErrorHandler(c, err)
		c.Abort()
		return
	}

	errno := errors.FromError(err)
	c.AbortWithStatusJSON(errno.HTTPStatus(), response.Err(errno))
}

package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/kart-io/access-center/pkg/id"
)

// HeaderXRequestID is the header carrying the request ID.
const HeaderXRequestID = "X-Request-ID"

// RequestIDContextKey is the gin context key under which the request ID
// is stored.
const RequestIDContextKey = "request_id"

// RequestIDConfig defines the config for RequestID middleware.
type RequestIDConfig struct {
	// Header is the header name to use for request ID.
	// Default: "X-Request-ID"
	Header string

	// Generator is the function to generate request IDs.
	// Default: ULID (time-ordered, 26 characters)
	Generator func() string
}

// RequestID returns a middleware that attaches a unique request ID to
// each request. IDs arriving on the inbound header are trusted and
// propagated; otherwise a new ULID is generated.
func RequestID() gin.HandlerFunc {
	return RequestIDWithConfig(RequestIDConfig{})
}

// RequestIDWithConfig returns a RequestID middleware with custom config.
func RequestIDWithConfig(config RequestIDConfig) gin.HandlerFunc {
	if config.Header == "" {
		config.Header = HeaderXRequestID
	}
	if config.Generator == nil {
		gen := id.NewULIDGenerator()
		config.Generator = gen.Generate
	}

	return func(c *gin.Context) {
		requestID := c.GetHeader(config.Header)
		if requestID == "" {
			requestID = config.Generator()
		}

		c.Set(RequestIDContextKey, requestID)
		c.Writer.Header().Set(config.Header, requestID)

		c.Next()
	}
}

// GetRequestID returns the request ID stored by the RequestID
// middleware, or an empty string when the middleware did not run.
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDContextKey)
}

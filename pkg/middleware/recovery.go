package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/kart-io/access-center/pkg/errors"
	"github.com/kart-io/access-center/pkg/utils/response"
)

// RecoveryConfig defines the config for Recovery middleware.
type RecoveryConfig struct {
	// EnableStackTrace logs the stack trace of the panic.
	// Default: true
	EnableStackTrace bool

	// OnPanic is an optional callback invoked after a panic is caught.
	OnPanic func(c *gin.Context, err interface{}, stack []byte)
}

// DefaultRecoveryConfig is the default Recovery middleware config.
var DefaultRecoveryConfig = RecoveryConfig{
	EnableStackTrace: true,
}

// Recovery returns a middleware that recovers from panics and answers
// with a 500 error envelope.
func Recovery() gin.HandlerFunc {
	return RecoveryWithConfig(DefaultRecoveryConfig)
}

// RecoveryWithConfig returns a Recovery middleware with custom config.
func RecoveryWithConfig(config RecoveryConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				stack := debug.Stack()

				if config.EnableStackTrace {
					logger.Errorw("panic recovered",
						"error", err,
						"path", c.Request.URL.Path,
						"method", c.Request.Method,
						"request_id", GetRequestID(c),
						"stack", string(stack),
					)
				} else {
					logger.Errorw("panic recovered",
						"error", err,
						"path", c.Request.URL.Path,
						"method", c.Request.Method,
						"request_id", GetRequestID(c),
					)
				}

				if config.OnPanic != nil {
					config.OnPanic(c, err, stack)
				}

				c.AbortWithStatusJSON(http.StatusInternalServerError, response.Err(errors.ErrPanic))
			}
		}()

		c.Next()
	}
}

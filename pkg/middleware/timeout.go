package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/access-center/pkg/errors"
	"github.com/kart-io/access-center/pkg/infra/pool"
	"github.com/kart-io/access-center/pkg/utils/response"
)

// TimeoutConfig defines the config for Timeout middleware.
type TimeoutConfig struct {
	// Timeout is the request timeout duration.
	// Default: 30s
	Timeout time.Duration

	// SkipPaths is a list of paths to skip timeout.
	SkipPaths []string
}

// DefaultTimeoutConfig is the default Timeout middleware config.
var DefaultTimeoutConfig = TimeoutConfig{
	Timeout:   30 * time.Second,
	SkipPaths: []string{},
}

// Timeout returns a middleware that limits request processing time.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	return TimeoutWithConfig(TimeoutConfig{
		Timeout: timeout,
	})
}

// TimeoutWithConfig returns a Timeout middleware with custom config.
func TimeoutWithConfig(config TimeoutConfig) gin.HandlerFunc {
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeoutConfig.Timeout
	}

	skipPaths := make(map[string]bool)
	for _, path := range config.SkipPaths {
		skipPaths[path] = true
	}

	return func(c *gin.Context) {
		if skipPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), config.Timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		done := make(chan struct{})
		run := func() {
			c.Next()
			close(done)
		}

		// Run the handler on the shared worker pool when available,
		// falling back to a plain goroutine.
		if timeoutPool, err := pool.GetByType(pool.TimeoutPool); err == nil && timeoutPool != nil {
			if submitErr := timeoutPool.Submit(run); submitErr != nil {
				go run()
			}
		} else {
			go run()
		}

		select {
		case <-done:
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				errno := errors.ErrRequestTimeout
				c.AbortWithStatusJSON(errno.HTTPStatus(), response.Err(errno))
			}
		}
	}
}

package storage

import (
	"context"
	"time"
)

// HealthChecker probes a storage backend and returns nil when healthy.
type HealthChecker func() error

// HealthStatus is the result of a single health probe.
type HealthStatus struct {
	// Name identifies the probed client.
	Name string
	// Healthy reports whether the probe succeeded.
	Healthy bool
	// Latency is how long the probe took.
	Latency time.Duration
	// Error holds the probe failure, nil when healthy.
	Error error
}

// Client is the common surface of all storage backends.
// Implementations wrap a concrete driver (GORM, go-redis) and expose
// lifecycle and health operations the Manager relies on.
type Client interface {
	// Name identifies the client, e.g. "mysql" or "redis".
	Name() string
	// Ping verifies connectivity to the backend.
	Ping(ctx context.Context) error
	// Close releases the underlying connections.
	Close() error
	// Health returns a probe bound to this client.
	Health() HealthChecker
}

// Factory creates configured storage clients.
type Factory interface {
	// Create builds and verifies a new client.
	Create(ctx context.Context) (Client, error)
}

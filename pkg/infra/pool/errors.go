// Package pool provides named ants-backed worker pools with a
// process-wide registry.
package pool

import "errors"

var (
	// ErrPoolClosed is returned when submitting to a released pool.
	ErrPoolClosed = errors.New("pool is closed")

	// ErrPoolNotFound is returned when a named pool is not registered.
	ErrPoolNotFound = errors.New("pool not found")

	// ErrPoolAlreadyExists is returned when registering a duplicate name.
	ErrPoolAlreadyExists = errors.New("pool already exists")

	// ErrManagerNotInitialized is returned when the global manager is unavailable.
	ErrManagerNotInitialized = errors.New("pool manager not initialized")

	// ErrPoolOverload is returned when a nonblocking pool is saturated.
	ErrPoolOverload = errors.New("pool overloaded")
)

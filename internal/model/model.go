// Package model defines the persistent entities of the access center.
package model

// Row status values shared by all entities.
const (
	// StatusDisabled marks a row as disabled. Disabled rows never
	// contribute to authorization resolution.
	StatusDisabled = 0

	// StatusEnabled marks a row as active.
	StatusEnabled = 1
)

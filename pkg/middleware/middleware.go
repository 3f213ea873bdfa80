// Package middleware provides Gin middleware for the access center HTTP
// surface: request ID propagation, structured request logging, panic
// recovery, CORS, request timeouts, JWT authentication, and permission
// gates backed by resolved authorization contexts.
package middleware

import "strings"

// shouldSkip reports whether path matches any of the exact paths or
// path prefixes.
func shouldSkip(path string, skipPaths, skipPrefixes []string) bool {
	for _, p := range skipPaths {
		if path == p {
			return true
		}
	}

	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

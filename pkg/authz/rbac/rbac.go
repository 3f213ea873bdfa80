// Package rbac defines the resolved authorization context and the
// predicates evaluated against it.
//
// A Context is the complete, flattened authorization picture of one user
// at one point in time: the role codes, the distinct permission codes, and
// the two-level menu tree. It is produced by the resolution engine, cached
// by ContextCache and consumed by the decision predicates. A Context is
// never mutated after it is handed out; refreshing replaces it wholesale.
//
// Usage:
//
//	authCtx, _ := cache.Get(ctx, userID)
//	if authCtx.HasPermission("USER_VIEW") {
//	    ...
//	}
//	if authCtx.Allows(rbac.AnyOf("USER_CREATE", "USER_IMPORT")) {
//	    ...
//	}
package rbac

import "sync"

// Feature is one grantable permission carried by a menu node.
type Feature struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// MenuNode is one entry of the resolved menu tree. Level 1 nodes always
// carry a children list, possibly empty. Level 2 nodes never do: the field
// stays nil and is omitted from JSON.
type MenuNode struct {
	ID        uint64      `json:"id"`
	Name      string      `json:"name"`
	Path      string      `json:"path,omitempty"`
	Icon      string      `json:"icon,omitempty"`
	SortOrder int         `json:"sort_order"`
	Level     int         `json:"level"`
	Features  []Feature   `json:"features"`
	Children  []*MenuNode `json:"children,omitempty"`
}

// Context is the resolved authorization picture of one user. Roles are
// ordered by role name, Permissions are sorted distinct feature codes,
// Menus is the two-level tree ordered by (sort_order, id) at each level.
type Context struct {
	UserID      uint64      `json:"user_id"`
	TenantID    uint64      `json:"tenant_id"`
	Roles       []string    `json:"roles"`
	Permissions []string    `json:"permissions"`
	Menus       []*MenuNode `json:"menus"`
	ResolvedAt  int64       `json:"resolved_at"`

	indexOnce sync.Once
	permIndex map[string]struct{}
	roleIndex map[string]struct{}
}

// buildIndex materializes the membership sets. It runs once per Context,
// including contexts rebuilt from JSON where the unexported fields are zero.
func (c *Context) buildIndex() {
	c.indexOnce.Do(func() {
		c.permIndex = make(map[string]struct{}, len(c.Permissions))
		for _, p := range c.Permissions {
			c.permIndex[p] = struct{}{}
		}
		c.roleIndex = make(map[string]struct{}, len(c.Roles))
		for _, r := range c.Roles {
			c.roleIndex[r] = struct{}{}
		}
	})
}

// HasPermission reports whether the context carries the permission code.
// Comparison is exact and case-sensitive.
func (c *Context) HasPermission(code string) bool {
	c.buildIndex()
	_, ok := c.permIndex[code]
	return ok
}

// HasAnyPermission reports whether the context carries at least one of the
// given codes. With no arguments there is nothing to satisfy it, so the
// answer is false.
func (c *Context) HasAnyPermission(codes ...string) bool {
	c.buildIndex()
	for _, code := range codes {
		if _, ok := c.permIndex[code]; ok {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the context carries every given code.
// With no arguments nothing can fail it, so the answer is true.
func (c *Context) HasAllPermissions(codes ...string) bool {
	c.buildIndex()
	for _, code := range codes {
		if _, ok := c.permIndex[code]; !ok {
			return false
		}
	}
	return true
}

// HasRole reports whether the context carries the role code.
func (c *Context) HasRole(code string) bool {
	c.buildIndex()
	_, ok := c.roleIndex[code]
	return ok
}

// HasAnyRole reports whether the context carries at least one of the given
// role codes. Empty input answers false.
func (c *Context) HasAnyRole(codes ...string) bool {
	c.buildIndex()
	for _, code := range codes {
		if _, ok := c.roleIndex[code]; ok {
			return true
		}
	}
	return false
}

// HasAllRoles reports whether the context carries every given role code.
// Empty input answers true.
func (c *Context) HasAllRoles(codes ...string) bool {
	c.buildIndex()
	for _, code := range codes {
		if _, ok := c.roleIndex[code]; !ok {
			return false
		}
	}
	return true
}

// Requirement is a permission check expressed as data, so a route table or
// a config file can carry it. Build one with Single, AnyOf or AllOf and
// evaluate it with Context.Allows.
type Requirement struct {
	mode  requirementMode
	codes []string
}

type requirementMode int

const (
	modeSingle requirementMode = iota
	modeAny
	modeAll
)

// Single requires exactly one permission code.
func Single(code string) Requirement {
	return Requirement{mode: modeSingle, codes: []string{code}}
}

// AnyOf requires at least one of the given codes. AnyOf with no codes can
// never be satisfied.
func AnyOf(codes ...string) Requirement {
	return Requirement{mode: modeAny, codes: codes}
}

// AllOf requires every given code. AllOf with no codes is always satisfied.
func AllOf(codes ...string) Requirement {
	return Requirement{mode: modeAll, codes: codes}
}

// Codes returns the permission codes the requirement names.
func (r Requirement) Codes() []string {
	out := make([]string, len(r.codes))
	copy(out, r.codes)
	return out
}

// Allows evaluates the requirement against the context.
func (c *Context) Allows(req Requirement) bool {
	switch req.mode {
	case modeAll:
		return c.HasAllPermissions(req.codes...)
	case modeAny, modeSingle:
		return c.HasAnyPermission(req.codes...)
	default:
		return false
	}
}

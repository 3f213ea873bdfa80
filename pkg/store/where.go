// Package store provides composable query options for GORM-backed
// stores: pagination, equality filters, raw query fragments, clause
// injection, and tenant scoping.
package store

import (
	"context"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// defaultLimit caps queries that do not set an explicit limit.
const defaultLimit = -1

// Tenant describes how to derive the tenant filter from a request
// context.
type Tenant struct {
	// Key is the column name used for tenant scoping.
	Key string

	// ValueFunc extracts the tenant value from the context.
	ValueFunc func(ctx context.Context) string
}

var (
	registeredTenant Tenant
	tenantMu         sync.RWMutex
)

// RegisterTenant registers the global tenant derivation. Stores call
// T(ctx) to scope queries to the calling tenant.
func RegisterTenant(key string, valueFunc func(ctx context.Context) string) {
	tenantMu.Lock()
	defer tenantMu.Unlock()
	registeredTenant = Tenant{Key: key, ValueFunc: valueFunc}
}

// Query holds a raw query fragment with its arguments.
type Query struct {
	Query interface{}
	Args  []interface{}
}

// Options holds the assembled query conditions.
type Options struct {
	// Offset is the row offset for pagination.
	Offset int

	// Limit is the maximum number of rows to return.
	Limit int

	// Filters are equality conditions, column -> value.
	Filters map[interface{}]interface{}

	// Clauses are extra GORM clauses appended to the query.
	Clauses []clause.Expression

	// Queries are raw query fragments.
	Queries []Query
}

// Option is a functional option for Options.
type Option func(*Options)

// WithOffset sets the row offset.
func WithOffset(offset int) Option {
	return func(whr *Options) {
		if offset < 0 {
			offset = 0
		}
		whr.Offset = offset
	}
}

// WithLimit sets the maximum number of rows.
func WithLimit(limit int) Option {
	return func(whr *Options) {
		whr.Limit = limit
	}
}

// WithPage converts 1-based page/size pagination to offset/limit.
func WithPage(page, pageSize int) Option {
	return func(whr *Options) {
		if page <= 0 {
			page = 1
		}
		if pageSize <= 0 {
			pageSize = 10
		}
		whr.Offset = (page - 1) * pageSize
		whr.Limit = pageSize
	}
}

// WithFilter sets equality filters.
func WithFilter(filter map[interface{}]interface{}) Option {
	return func(whr *Options) {
		whr.Filters = filter
	}
}

// WithClauses appends GORM clauses.
func WithClauses(conds ...clause.Expression) Option {
	return func(whr *Options) {
		whr.Clauses = append(whr.Clauses, conds...)
	}
}

// NewWhere builds Options from the given functional options.
func NewWhere(opts ...Option) *Options {
	whr := &Options{
		Offset:  0,
		Limit:   defaultLimit,
		Filters: map[interface{}]interface{}{},
		Clauses: make([]clause.Expression, 0),
	}

	for _, opt := range opts {
		opt(whr)
	}

	return whr
}

// O sets the offset.
func (whr *Options) O(offset int) *Options {
	if offset < 0 {
		offset = 0
	}
	whr.Offset = offset
	return whr
}

// L sets the limit.
func (whr *Options) L(limit int) *Options {
	whr.Limit = limit
	return whr
}

// P sets 1-based page/size pagination.
func (whr *Options) P(page, pageSize int) *Options {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	whr.Offset = (page - 1) * pageSize
	whr.Limit = pageSize
	return whr
}

// C appends GORM clauses.
func (whr *Options) C(conds ...clause.Expression) *Options {
	whr.Clauses = append(whr.Clauses, conds...)
	return whr
}

// Q appends a raw query fragment.
func (whr *Options) Q(query interface{}, args ...interface{}) *Options {
	whr.Queries = append(whr.Queries, Query{Query: query, Args: args})
	return whr
}

// T applies the registered tenant filter derived from ctx.
func (whr *Options) T(ctx context.Context) *Options {
	tenantMu.RLock()
	tenant := registeredTenant
	tenantMu.RUnlock()

	if tenant.Key != "" && tenant.ValueFunc != nil {
		whr.F(tenant.Key, tenant.ValueFunc(ctx))
	}
	return whr
}

// F appends equality filters from key/value pairs. Pairs with an odd
// trailing key are ignored.
func (whr *Options) F(kvs ...interface{}) *Options {
	if len(kvs)%2 != 0 {
		return whr
	}

	for i := 0; i < len(kvs); i += 2 {
		key, value := kvs[i], kvs[i+1]
		whr.Filters[key] = value
	}

	return whr
}

// F is a convenience constructor for equality filters.
func F(kvs ...interface{}) *Options {
	return NewWhere().F(kvs...)
}

// O is a convenience constructor for an offset.
func O(offset int) *Options {
	return NewWhere().O(offset)
}

// L is a convenience constructor for a limit.
func L(limit int) *Options {
	return NewWhere().L(limit)
}

// P is a convenience constructor for page/size pagination.
func P(page, pageSize int) *Options {
	return NewWhere().P(page, pageSize)
}

// C is a convenience constructor for clauses.
func C(conds ...clause.Expression) *Options {
	return NewWhere().C(conds...)
}

// T is a convenience constructor for the tenant filter.
func T(ctx context.Context) *Options {
	return NewWhere().T(ctx)
}

// Where applies the assembled conditions to the given query.
func (whr *Options) Where(db *gorm.DB) *gorm.DB {
	for _, query := range whr.Queries {
		conds := db.Statement.BuildCondition(query.Query, query.Args...)
		whr.Clauses = append(whr.Clauses, conds...)
	}

	if len(whr.Filters) > 0 {
		conds := db.Statement.BuildCondition(whr.Filters)
		whr.Clauses = append(whr.Clauses, conds...)
	}

	if len(whr.Clauses) > 0 {
		db = db.Clauses(whr.Clauses...)
	}

	if whr.Offset > 0 {
		db = db.Offset(whr.Offset)
	}

	if whr.Limit > 0 {
		db = db.Limit(whr.Limit)
	}

	return db
}

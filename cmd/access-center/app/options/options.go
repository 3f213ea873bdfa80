// Package options contains flags and options for initializing the
// access center server.
package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	accesscenter "github.com/kart-io/access-center/internal/access-center"
	"github.com/kart-io/access-center/pkg/component/mysql"
	"github.com/kart-io/access-center/pkg/component/postgres"
	"github.com/kart-io/access-center/pkg/component/redis"
	httpopts "github.com/kart-io/access-center/pkg/options/http"
	logopts "github.com/kart-io/access-center/pkg/options/logger"
	"github.com/kart-io/access-center/pkg/security/auth/jwt"
)

// DBOptions selects the database backend.
type DBOptions struct {
	// Driver is one of mysql, postgres or sqlite.
	Driver string `json:"driver" mapstructure:"driver"`
	// Path is the database file path when Driver is sqlite.
	Path string `json:"path" mapstructure:"path"`
}

// RBACOptions tunes the authorization resolution cache.
type RBACOptions struct {
	CacheTTL        time.Duration `json:"cache-ttl" mapstructure:"cache-ttl"`
	CleanupInterval time.Duration `json:"cleanup-interval" mapstructure:"cleanup-interval"`
}

// ServerOptions contains the configuration options for the server.
type ServerOptions struct {
	// HTTPOptions contains HTTP server configuration.
	HTTPOptions *httpopts.Options `json:"http" mapstructure:"http"`

	// LogOptions contains logger configuration.
	LogOptions *logopts.Options `json:"log" mapstructure:"log"`

	// JWTOptions contains JWT authentication configuration.
	JWTOptions *jwt.Options `json:"jwt" mapstructure:"jwt"`

	// DBOptions selects and configures the database backend.
	DBOptions *DBOptions `json:"db" mapstructure:"db"`

	// MySQLOptions contains MySQL configuration.
	MySQLOptions *mysql.Options `json:"mysql" mapstructure:"mysql"`

	// PostgresOptions contains PostgreSQL configuration.
	PostgresOptions *postgres.Options `json:"postgres" mapstructure:"postgres"`

	// RedisOptions contains Redis configuration.
	RedisOptions *redis.Options `json:"redis" mapstructure:"redis"`

	// RBACOptions tunes the authorization resolution cache.
	RBACOptions *RBACOptions `json:"rbac" mapstructure:"rbac"`

	// TokenStore selects the revoked token store: memory or redis.
	TokenStore string `json:"token-store" mapstructure:"token-store"`

	// ShutdownTimeout is the timeout for graceful shutdown.
	ShutdownTimeout time.Duration `json:"shutdown-timeout" mapstructure:"shutdown-timeout"`
}

// NewServerOptions creates a ServerOptions instance with default values.
func NewServerOptions() *ServerOptions {
	return &ServerOptions{
		HTTPOptions: httpopts.NewOptions(),
		LogOptions:  logopts.NewOptions(),
		JWTOptions:  jwt.NewOptions(),
		DBOptions: &DBOptions{
			Driver: accesscenter.DriverSQLite,
			Path:   "access-center.db",
		},
		MySQLOptions:    mysql.NewOptions(),
		PostgresOptions: postgres.NewOptions(),
		RedisOptions:    redis.NewOptions(),
		RBACOptions: &RBACOptions{
			CacheTTL:        5 * time.Minute,
			CleanupInterval: time.Minute,
		},
		TokenStore:      accesscenter.TokenStoreMemory,
		ShutdownTimeout: 30 * time.Second,
	}
}

// AddFlags adds all server flags to the given flagset.
func (o *ServerOptions) AddFlags(fs *pflag.FlagSet) {
	o.HTTPOptions.AddFlags(fs)
	o.LogOptions.AddFlags(fs)
	o.JWTOptions.AddFlags(fs)
	o.MySQLOptions.AddFlags(fs, "mysql.")
	o.PostgresOptions.AddFlags(fs, "postgres.")
	o.RedisOptions.AddFlags(fs, "redis.")

	fs.StringVar(&o.DBOptions.Driver, "db.driver", o.DBOptions.Driver, "Database driver (mysql|postgres|sqlite)")
	fs.StringVar(&o.DBOptions.Path, "db.path", o.DBOptions.Path, "Database file path for the sqlite driver")
	fs.DurationVar(&o.RBACOptions.CacheTTL, "rbac.cache-ttl", o.RBACOptions.CacheTTL, "TTL for cached authorization resolutions")
	fs.DurationVar(&o.RBACOptions.CleanupInterval, "rbac.cleanup-interval", o.RBACOptions.CleanupInterval, "Sweep interval for expired cache entries")
	fs.StringVar(&o.TokenStore, "token-store", o.TokenStore, "Revoked token store (memory|redis)")
	fs.DurationVar(&o.ShutdownTimeout, "shutdown-timeout", o.ShutdownTimeout, "Graceful shutdown timeout")
}

// Complete completes all the required options.
func (o *ServerOptions) Complete() error {
	if err := o.HTTPOptions.Complete(); err != nil {
		return err
	}
	if err := o.JWTOptions.Complete(); err != nil {
		return fmt.Errorf("jwt: %w", err)
	}
	if err := o.MySQLOptions.Complete(); err != nil {
		return fmt.Errorf("mysql: %w", err)
	}
	if err := o.PostgresOptions.Complete(); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if err := o.RedisOptions.Complete(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

// Validate checks whether the options in ServerOptions are valid.
func (o *ServerOptions) Validate() error {
	if err := o.HTTPOptions.Validate(); err != nil {
		return err
	}
	if err := o.LogOptions.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := o.JWTOptions.Validate(); err != nil {
		return fmt.Errorf("jwt: %w", err)
	}

	switch o.DBOptions.Driver {
	case accesscenter.DriverMySQL:
		if err := o.MySQLOptions.Validate(); err != nil {
			return fmt.Errorf("mysql: %w", err)
		}
	case accesscenter.DriverPostgres:
		if err := o.PostgresOptions.Validate(); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	case accesscenter.DriverSQLite:
		if o.DBOptions.Path == "" {
			return fmt.Errorf("db.path cannot be empty for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported db.driver: %q", o.DBOptions.Driver)
	}

	switch o.TokenStore {
	case accesscenter.TokenStoreMemory, accesscenter.TokenStoreRedis:
	default:
		return fmt.Errorf("unsupported token-store: %q", o.TokenStore)
	}

	if o.RBACOptions.CacheTTL <= 0 {
		return fmt.Errorf("rbac.cache-ttl must be positive")
	}
	return nil
}

// Config builds an accesscenter.Config based on ServerOptions.
func (o *ServerOptions) Config() (*accesscenter.Config, error) {
	return &accesscenter.Config{
		HTTPOptions:          o.HTTPOptions,
		LogOptions:           o.LogOptions,
		JWTOptions:           o.JWTOptions,
		MySQLOptions:         o.MySQLOptions,
		PostgresOptions:      o.PostgresOptions,
		RedisOptions:         o.RedisOptions,
		DBDriver:             o.DBOptions.Driver,
		SQLitePath:           o.DBOptions.Path,
		TokenStore:           o.TokenStore,
		CacheTTL:             o.RBACOptions.CacheTTL,
		CacheCleanupInterval: o.RBACOptions.CleanupInterval,
		ShutdownTimeout:      o.ShutdownTimeout,
	}, nil
}

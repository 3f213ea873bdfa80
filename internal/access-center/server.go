// Package accesscenter assembles the access center service: storage,
// authentication, the authorization resolution cache, and the HTTP API.
package accesscenter

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/glebarez/sqlite"
	v10 "github.com/go-playground/validator/v10"
	"github.com/kart-io/logger"
	"gorm.io/gorm"

	"github.com/kart-io/access-center/internal/access-center/biz"
	"github.com/kart-io/access-center/internal/access-center/router"
	"github.com/kart-io/access-center/internal/access-center/store"
	"github.com/kart-io/access-center/pkg/app"
	"github.com/kart-io/access-center/pkg/authz/rbac"
	"github.com/kart-io/access-center/pkg/component/mysql"
	"github.com/kart-io/access-center/pkg/component/postgres"
	"github.com/kart-io/access-center/pkg/component/redis"
	"github.com/kart-io/access-center/pkg/component/storage"
	"github.com/kart-io/access-center/pkg/middleware"
	httpopts "github.com/kart-io/access-center/pkg/options/http"
	logopts "github.com/kart-io/access-center/pkg/options/logger"
	"github.com/kart-io/access-center/pkg/security/auth/jwt"
	"github.com/kart-io/access-center/pkg/utils/validator"
)

// Name is the name of the application.
const Name = "access-center"

// Database driver names accepted by Config.DBDriver.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Token store backends accepted by Config.TokenStore.
const (
	TokenStoreMemory = "memory"
	TokenStoreRedis  = "redis"
)

// Config contains application-related configurations.
type Config struct {
	HTTPOptions     *httpopts.Options
	LogOptions      *logopts.Options
	JWTOptions      *jwt.Options
	MySQLOptions    *mysql.Options
	PostgresOptions *postgres.Options
	RedisOptions    *redis.Options

	// DBDriver selects the database backend: mysql, postgres or sqlite.
	DBDriver string
	// SQLitePath is the database file path when DBDriver is sqlite.
	SQLitePath string
	// TokenStore selects the revoked token store: memory or redis.
	TokenStore string

	// CacheTTL bounds how long a resolved authorization stays served
	// without hitting the database again.
	CacheTTL             time.Duration
	CacheCleanupInterval time.Duration

	ShutdownTimeout time.Duration
}

// Server is the assembled access center service.
type Server struct {
	cfg      *Config
	http     *http.Server
	cache    *rbac.ContextCache
	store    store.Factory
	redis    *redis.Client
	storages *storage.Manager
}

// NewServer initializes and returns a new Server instance.
func (cfg *Config) NewServer(ctx context.Context) (*Server, error) {
	cfg.LogOptions.AddInitialField("service.name", Name)
	cfg.LogOptions.AddInitialField("service.version", app.GetVersion())
	if err := cfg.LogOptions.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Infow("Starting access center service", "version", app.GetVersion())

	db, dbClient, err := cfg.openDatabase(ctx)
	if err != nil {
		return nil, err
	}

	factory := store.NewFactory(db)
	if err := factory.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Infow("Database ready", "driver", cfg.DBDriver)

	srv := &Server{cfg: cfg, store: factory, storages: storage.NewManager()}
	if dbClient != nil {
		if err := srv.storages.Register(cfg.DBDriver, dbClient); err != nil {
			return nil, err
		}
	}

	tokenStore, err := srv.newTokenStore(ctx)
	if err != nil {
		return nil, err
	}
	if srv.redis != nil {
		if err := srv.storages.Register("redis", srv.redis); err != nil {
			return nil, err
		}
	}

	authn, err := jwt.New(jwt.WithOptions(cfg.JWTOptions), jwt.WithStore(tokenStore))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize jwt: %w", err)
	}

	authz := biz.NewAuthzService(factory)
	cache := rbac.NewContextCache(authz,
		rbac.WithTTL(cfg.CacheTTL),
		rbac.WithCleanupInterval(cfg.CacheCleanupInterval),
	)
	srv.cache = cache

	svcs := router.Services{
		Auth:     biz.NewAuthService(authn, factory, cache),
		Authz:    authz,
		Tenants:  biz.NewTenantService(factory, cache),
		Users:    biz.NewUserService(factory, cache),
		Roles:    biz.NewRoleService(factory, cache),
		Features: biz.NewFeatureService(factory, cache),
		Menus:    biz.NewMenuService(factory, cache),
	}

	registerBindingRules()

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
		middleware.Timeout(cfg.HTTPOptions.WriteTimeout),
	)
	engine.GET("/healthz", srv.healthz)

	router.Register(engine, authn, cache, svcs)

	srv.http = &http.Server{
		Addr:         cfg.HTTPOptions.Addr,
		Handler:      engine,
		ReadTimeout:  cfg.HTTPOptions.ReadTimeout,
		WriteTimeout: cfg.HTTPOptions.WriteTimeout,
		IdleTimeout:  cfg.HTTPOptions.IdleTimeout,
	}

	logger.Infow("Access center service is ready", "addr", cfg.HTTPOptions.Addr)
	return srv, nil
}

// healthz reports the health of every registered storage backend.
// Degraded backends turn the response into a 503 so load balancers can
// pull the instance.
func (s *Server) healthz(c *gin.Context) {
	statuses := s.storages.HealthCheckAll(c.Request.Context())

	healthy := true
	components := make(map[string]gin.H, len(statuses))
	for name, status := range statuses {
		entry := gin.H{"healthy": status.Healthy, "latency": status.Latency.String()}
		if status.Error != nil {
			entry["error"] = status.Error.Error()
		}
		if !status.Healthy {
			healthy = false
		}
		components[name] = entry
	}

	code := http.StatusOK
	state := "ok"
	if !healthy {
		code = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(code, gin.H{"status": state, "components": components})
}

// openDatabase opens the configured database backend. The returned
// storage client is nil for sqlite, which has no connection to probe.
func (cfg *Config) openDatabase(ctx context.Context) (*gorm.DB, storage.Client, error) {
	switch cfg.DBDriver {
	case DriverMySQL:
		client, err := mysql.NewWithContext(ctx, cfg.MySQLOptions)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize mysql: %w", err)
		}
		return client.DB(), client, nil
	case DriverPostgres:
		client, err := postgres.NewWithContext(ctx, cfg.PostgresOptions)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		return client.DB(), client, nil
	case DriverSQLite:
		db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{TranslateError: true})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite database %q: %w", cfg.SQLitePath, err)
		}
		return db, nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver: %q", cfg.DBDriver)
	}
}

// newTokenStore builds the revoked token store. Redis is used for
// multi-instance deployments, memory for single-instance and dev.
func (s *Server) newTokenStore(ctx context.Context) (jwt.Store, error) {
	switch s.cfg.TokenStore {
	case TokenStoreRedis:
		client, err := redis.NewWithContext(ctx, s.cfg.RedisOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		s.redis = client
		return jwt.NewRedisStore(client, Name+":revoked:"), nil
	case TokenStoreMemory, "":
		return jwt.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported token store: %q", s.cfg.TokenStore)
	}
}

// registerBindingRules installs the custom validation rules on gin's
// binding engine so request DTO tags resolve.
func registerBindingRules() {
	if v, ok := binding.Validator.Engine().(*v10.Validate); ok {
		validator.RegisterRules(v)
	}
}

// Run starts the HTTP server and blocks until ctx is canceled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Infow("HTTP server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Infow("Shutting down access center service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("HTTP server shutdown failed", "error", err)
	}
	if err := s.cache.Close(); err != nil {
		logger.Warnw("Authorization cache close failed", "error", err)
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			logger.Warnw("Redis close failed", "error", err)
		}
	}
	if err := s.store.Close(); err != nil {
		logger.Warnw("Database close failed", "error", err)
	}
	return nil
}

// Package router wires the access center's HTTP routes onto a gin
// engine: public auth endpoints, token-protected profile endpoints,
// and the permission-gated management API.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/kart-io/access-center/internal/access-center/biz"
	"github.com/kart-io/access-center/internal/access-center/handler"
	"github.com/kart-io/access-center/internal/pkg/known"
	"github.com/kart-io/access-center/pkg/authz/rbac"
	"github.com/kart-io/access-center/pkg/middleware"
	"github.com/kart-io/access-center/pkg/security/auth"
)

// Services bundles the biz services the routes dispatch to.
type Services struct {
	Auth     *biz.AuthService
	Authz    *biz.AuthzService
	Tenants  *biz.TenantService
	Users    *biz.UserService
	Roles    *biz.RoleService
	Features *biz.FeatureService
	Menus    *biz.MenuService
}

// Register registers all routes on the engine.
func Register(engine *gin.Engine, authn auth.Authenticator, cache *rbac.ContextCache, svcs Services) {
	authHandler := handler.NewAuthHandler(svcs.Auth)
	tenantHandler := handler.NewTenantHandler(svcs.Tenants)
	userHandler := handler.NewUserHandler(svcs.Users, svcs.Authz)
	roleHandler := handler.NewRoleHandler(svcs.Roles)
	featureHandler := handler.NewFeatureHandler(svcs.Features)
	menuHandler := handler.NewMenuHandler(svcs.Menus)

	requireToken := middleware.Auth(middleware.AuthWithAuthenticator(authn))
	perm := func(code string) gin.HandlerFunc {
		return middleware.RequirePermission(cache, rbac.Single(code))
	}

	authGroup := engine.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)

		protected := authGroup.Group("")
		protected.Use(requireToken)
		{
			protected.POST("/logout", authHandler.Logout)
			protected.POST("/refresh", authHandler.Refresh)
			protected.GET("/me", authHandler.Me)
		}
	}

	v1 := engine.Group("/v1")
	v1.Use(requireToken)
	{
		tenants := v1.Group("/tenants", perm(known.PermTenantManage))
		{
			tenants.POST("", tenantHandler.Create)
			tenants.GET("", tenantHandler.List)
			tenants.GET("/:id", tenantHandler.Get)
			tenants.PUT("/:id", tenantHandler.Update)
			tenants.DELETE("/:id", tenantHandler.Delete)
		}

		users := v1.Group("/users")
		{
			users.GET("", perm(known.PermUserView), userHandler.List)
			users.GET("/:id", perm(known.PermUserView), userHandler.Get)
			users.GET("/:id/roles", perm(known.PermUserView), userHandler.Roles)
			users.GET("/:id/authorization", perm(known.PermUserView), userHandler.Authorization)

			users.POST("", perm(known.PermUserManage), userHandler.Create)
			users.PUT("/:id", perm(known.PermUserManage), userHandler.Update)
			users.DELETE("/:id", perm(known.PermUserManage), userHandler.Delete)
			users.PUT("/:id/roles", perm(known.PermUserManage), userHandler.SetRoles)
		}

		roles := v1.Group("/roles", perm(known.PermRoleManage))
		{
			roles.POST("", roleHandler.Create)
			roles.GET("", roleHandler.List)
			roles.GET("/:id", roleHandler.Get)
			roles.PUT("/:id", roleHandler.Update)
			roles.DELETE("/:id", roleHandler.Delete)
			roles.GET("/:id/features", roleHandler.Features)
			roles.PUT("/:id/features", roleHandler.SetFeatures)
			roles.GET("/:id/menus", roleHandler.Menus)
			roles.PUT("/:id/menus", roleHandler.SetMenus)
		}

		features := v1.Group("/features", perm(known.PermFeatureManage))
		{
			features.POST("", featureHandler.Create)
			features.GET("", featureHandler.List)
			features.GET("/:id", featureHandler.Get)
			features.PUT("/:id", featureHandler.Update)
			features.DELETE("/:id", featureHandler.Delete)
		}

		menus := v1.Group("/menus", perm(known.PermMenuManage))
		{
			menus.POST("", menuHandler.Create)
			menus.GET("", menuHandler.List)
			menus.GET("/:id", menuHandler.Get)
			menus.PUT("/:id", menuHandler.Update)
			menus.DELETE("/:id", menuHandler.Delete)
			menus.PUT("/:id/features", menuHandler.SetFeatures)
		}

		v1.GET("/login-logs", perm(known.PermAuditView), authHandler.LoginLogs)
	}
}

// Package known holds shared constants used across layers.
package known

// Built-in permission codes gating the management API. These are
// feature codes like any other; deployments seed them and grant them
// to roles.
const (
	PermTenantManage  = "TENANT_MANAGE"
	PermUserView      = "USER_VIEW"
	PermUserManage    = "USER_MANAGE"
	PermRoleManage    = "ROLE_MANAGE"
	PermFeatureManage = "FEATURE_MANAGE"
	PermMenuManage    = "MENU_MANAGE"
	PermAuditView     = "AUDIT_VIEW"
)

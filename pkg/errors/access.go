package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// Errors specific to the access-center service (Service: 02).

var (
	// ErrTenantNotFound indicates the tenant does not exist.
	ErrTenantNotFound = Register(&Errno{
		Code:      MakeCode(ServiceAccess, CategoryResource, 1),
		HTTP:      http.StatusNotFound,
		GRPCCode:  codes.NotFound,
		MessageEN: "Tenant not found",
		MessageZH: "租户不存在",
	})

	// ErrRoleNotFound indicates the role does not exist.
	ErrRoleNotFound = Register(&Errno{
		Code:      MakeCode(ServiceAccess, CategoryResource, 2),
		HTTP:      http.StatusNotFound,
		GRPCCode:  codes.NotFound,
		MessageEN: "Role not found",
		MessageZH: "角色不存在",
	})

	// ErrFeatureNotFound indicates the feature does not exist.
	ErrFeatureNotFound = Register(&Errno{
		Code:      MakeCode(ServiceAccess, CategoryResource, 3),
		HTTP:      http.StatusNotFound,
		GRPCCode:  codes.NotFound,
		MessageEN: "Feature not found",
		MessageZH: "功能不存在",
	})

	// ErrMenuNotFound indicates the menu does not exist.
	ErrMenuNotFound = Register(&Errno{
		Code:      MakeCode(ServiceAccess, CategoryResource, 4),
		HTTP:      http.StatusNotFound,
		GRPCCode:  codes.NotFound,
		MessageEN: "Menu not found",
		MessageZH: "菜单不存在",
	})

	// ErrMenuLevelInvalid indicates a menu level outside the two-level contract.
	ErrMenuLevelInvalid = Register(&Errno{
		Code:      MakeCode(ServiceAccess, CategoryRequest, 1),
		HTTP:      http.StatusBadRequest,
		GRPCCode:  codes.InvalidArgument,
		MessageEN: "Menu level must be 1 or 2",
		MessageZH: "菜单层级必须为 1 或 2",
	})

	// ErrMenuParentInvalid indicates a broken parent reference: a level 1
	// menu naming a parent, or a level 2 menu without a valid level 1 parent.
	ErrMenuParentInvalid = Register(&Errno{
		Code:      MakeCode(ServiceAccess, CategoryRequest, 2),
		HTTP:      http.StatusBadRequest,
		GRPCCode:  codes.InvalidArgument,
		MessageEN: "Invalid menu parent",
		MessageZH: "菜单父级无效",
	})

	// ErrTenantDisabled indicates the tenant is disabled.
	ErrTenantDisabled = Register(&Errno{
		Code:      MakeCode(ServiceAccess, CategoryPermission, 1),
		HTTP:      http.StatusForbidden,
		GRPCCode:  codes.PermissionDenied,
		MessageEN: "Tenant disabled",
		MessageZH: "租户已禁用",
	})

	// ErrTenantMismatch indicates a cross-tenant reference in a write
	// request, e.g. assigning a foreign tenant's role to a user. At resolve
	// time the same condition is excluded and logged instead.
	ErrTenantMismatch = Register(&Errno{
		Code:      MakeCode(ServiceAccess, CategoryPermission, 2),
		HTTP:      http.StatusForbidden,
		GRPCCode:  codes.PermissionDenied,
		MessageEN: "Tenant mismatch",
		MessageZH: "租户不匹配",
	})
)

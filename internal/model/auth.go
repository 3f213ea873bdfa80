package model

import "github.com/kart-io/access-center/pkg/authz/rbac"

// LoginRequest represents the login request body.
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// LoginResponse represents the login response body. Authorization carries
// the caller's resolved roles, permission codes and menu tree.
type LoginResponse struct {
	Token         string        `json:"token"`
	ExpiresIn     int64         `json:"expires_in"`
	UserID        uint64        `json:"user_id"`
	Authorization *rbac.Context `json:"authorization,omitempty"`
}

// RegisterRequest represents the register request body.
type RegisterRequest struct {
	Username   string `json:"username" form:"username" binding:"required,username"`
	Password   string `json:"password" form:"password" binding:"required,strongpwd"`
	Email      string `json:"email" form:"email" binding:"required,email"`
	Mobile     string `json:"mobile" form:"mobile" binding:"omitempty,mobile"`
	TenantCode string `json:"tenant_code" form:"tenant_code" binding:"required"`
}

// ProfileResponse is the /auth/me payload.
type ProfileResponse struct {
	User          *User         `json:"user"`
	Authorization *rbac.Context `json:"authorization"`
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kart-io/access-center/internal/access-center/biz"
	"github.com/kart-io/access-center/internal/model"
	"github.com/kart-io/access-center/internal/pkg/httputils"
	"github.com/kart-io/access-center/pkg/errors"
)

// UserHandler handles user management requests.
type UserHandler struct {
	svc   *biz.UserService
	authz *biz.AuthzService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *biz.UserService, authz *biz.AuthzService) *UserHandler {
	return &UserHandler{svc: svc, authz: authz}
}

type createUserRequest struct {
	Username string  `json:"username" binding:"required,username"`
	Password string  `json:"password" binding:"required,strongpwd"`
	Email    string  `json:"email" binding:"required,email"`
	Nickname string  `json:"nickname"`
	Mobile   string  `json:"mobile" binding:"omitempty,mobile"`
	TenantID *uint64 `json:"tenant_id"`
}

type updateUserRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	Mobile   string `json:"mobile" binding:"omitempty,mobile"`
	Status   *int   `json:"status"`
}

// Create creates a user.
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBind(&req); err != nil {
		httputils.WriteResponse(c, errors.ErrValidationFailed.WithMessage(err.Error()), nil)
		return
	}

	user := &model.User{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		Nickname:  req.Nickname,
		Mobile:    req.Mobile,
		TenantID:  req.TenantID,
		Status:    model.StatusEnabled,
		CreatedBy: operatorID(c),
	}

	if err := h.svc.Create(c.Request.Context(), user); err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, user)
}

// Get retrieves a user.
func (h *UserHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	user, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, user)
}

// Update updates a user's profile fields.
func (h *UserHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	var req updateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		httputils.WriteResponse(c, errors.ErrValidationFailed.WithMessage(err.Error()), nil)
		return
	}

	user, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	user.Nickname = req.Nickname
	user.Avatar = req.Avatar
	user.Mobile = req.Mobile
	user.UpdatedBy = operatorID(c)
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Status != nil {
		user.Status = *req.Status
	}

	if err := h.svc.Update(c.Request.Context(), user); err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, user)
}

// Delete soft deletes a user.
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, gin.H{"id": id})
}

// List lists users with pagination.
func (h *UserHandler) List(c *gin.Context) {
	count, items, err := h.svc.List(c.Request.Context(), listOptions(c)...)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, &model.UserList{TotalCount: count, Items: items})
}

// SetRoles replaces the user's role set.
func (h *UserHandler) SetRoles(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	var req idsRequest
	if err := c.ShouldBind(&req); err != nil {
		httputils.WriteResponse(c, errors.ErrValidationFailed.WithMessage(err.Error()), nil)
		return
	}

	if err := h.svc.SetRoles(c.Request.Context(), id, req.IDs, operatorID(c)); err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, gin.H{"user_id": id, "role_ids": req.IDs})
}

// Roles returns the IDs of the user's live role assignments.
func (h *UserHandler) Roles(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	ids, err := h.svc.Roles(c.Request.Context(), id)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, gin.H{"user_id": id, "role_ids": ids})
}

// Authorization resolves a user's authorization context on demand,
// bypassing the cache. Meant for admin debugging.
func (h *UserHandler) Authorization(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	authCtx, err := h.authz.Resolve(c.Request.Context(), id)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, authCtx)
}

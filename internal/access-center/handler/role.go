package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kart-io/access-center/internal/access-center/biz"
	"github.com/kart-io/access-center/internal/model"
	"github.com/kart-io/access-center/internal/pkg/httputils"
	"github.com/kart-io/access-center/pkg/errors"
)

// RoleHandler handles role management requests.
type RoleHandler struct {
	svc *biz.RoleService
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(svc *biz.RoleService) *RoleHandler {
	return &RoleHandler{svc: svc}
}

type roleRequest struct {
	Code        string  `json:"code" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	TenantID    *uint64 `json:"tenant_id"`
	Status      *int    `json:"status"`
}

// Create creates a role.
func (h *RoleHandler) Create(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBind(&req); err != nil {
		httputils.WriteResponse(c, errors.ErrValidationFailed.WithMessage(err.Error()), nil)
		return
	}

	role := &model.Role{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		TenantID:    req.TenantID,
		Status:      model.StatusEnabled,
		CreatedBy:   operatorID(c),
	}
	if req.Status != nil {
		role.Status = *req.Status
	}

	if err := h.svc.Create(c.Request.Context(), role); err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, role)
}

// Get retrieves a role.
func (h *RoleHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	role, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, role)
}

// Update updates a role.
func (h *RoleHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	var req roleRequest
	if err := c.ShouldBind(&req); err != nil {
		httputils.WriteResponse(c, errors.ErrValidationFailed.WithMessage(err.Error()), nil)
		return
	}

	role, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	role.Code = req.Code
	role.Name = req.Name
	role.Description = req.Description
	role.UpdatedBy = operatorID(c)
	if req.Status != nil {
		role.Status = *req.Status
	}

	if err := h.svc.Update(c.Request.Context(), role); err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, role)
}

// Delete soft deletes a role.
func (h *RoleHandler) Delete(c *gin.Context) {
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

// List lists roles with pagination.
func (h *RoleHandler) List(c *gin.Context) {
	count, items, err := h.svc.List(c.Request.Context(), listOptions(c)...)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, &model.RoleList{TotalCount: count, Items: items})
}

// SetFeatures replaces the role's granted feature set.
func (h *RoleHandler) SetFeatures(c *gin.Context) {
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

	if err := h.svc.SetFeatures(c.Request.Context(), id, req.IDs, operatorID(c)); err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, gin.H{"role_id": id, "feature_ids": req.IDs})
}

// Features returns the IDs of the role's live feature grants.
func (h *RoleHandler) Features(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	ids, err := h.svc.Features(c.Request.Context(), id)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, gin.H{"role_id": id, "feature_ids": ids})
}

// SetMenus replaces the role's granted menu set.
func (h *RoleHandler) SetMenus(c *gin.Context) {
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

	if err := h.svc.SetMenus(c.Request.Context(), id, req.IDs, operatorID(c)); err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, gin.H{"role_id": id, "menu_ids": req.IDs})
}

// Menus returns the IDs of the role's live menu grants.
func (h *RoleHandler) Menus(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	ids, err := h.svc.Menus(c.Request.Context(), id)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, gin.H{"role_id": id, "menu_ids": ids})
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kart-io/access-center/internal/access-center/biz"
	"github.com/kart-io/access-center/internal/model"
	"github.com/kart-io/access-center/internal/pkg/httputils"
	"github.com/kart-io/access-center/pkg/errors"
)

// TenantHandler handles tenant management requests.
type TenantHandler struct {
	svc *biz.TenantService
}

// NewTenantHandler creates a new TenantHandler.
func NewTenantHandler(svc *biz.TenantService) *TenantHandler {
	return &TenantHandler{svc: svc}
}

type tenantRequest struct {
	Code        string `json:"code" binding:"required,slug"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Status      *int   `json:"status"`
}

// Create creates a tenant.
func (h *TenantHandler) Create(c *gin.Context) {
	var req tenantRequest
	if err := c.ShouldBind(&req); err != nil {
		httputils.WriteResponse(c, errors.ErrValidationFailed.WithMessage(err.Error()), nil)
		return
	}

	tenant := &model.Tenant{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Status:      model.StatusEnabled,
		CreatedBy:   operatorID(c),
	}
	if req.Status != nil {
		tenant.Status = *req.Status
	}

	if err := h.svc.Create(c.Request.Context(), tenant); err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, tenant)
}

// Get retrieves a tenant.
func (h *TenantHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	tenant, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, tenant)
}

// Update updates a tenant.
func (h *TenantHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	var req tenantRequest
	if err := c.ShouldBind(&req); err != nil {
		httputils.WriteResponse(c, errors.ErrValidationFailed.WithMessage(err.Error()), nil)
		return
	}

	tenant, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	tenant.Code = req.Code
	tenant.Name = req.Name
	tenant.Description = req.Description
	tenant.UpdatedBy = operatorID(c)
	if req.Status != nil {
		tenant.Status = *req.Status
	}

	if err := h.svc.Update(c.Request.Context(), tenant); err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, tenant)
}

// Delete soft deletes a tenant.
func (h *TenantHandler) Delete(c *gin.Context) {
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

// List lists tenants with pagination.
func (h *TenantHandler) List(c *gin.Context) {
	count, items, err := h.svc.List(c.Request.Context(), listOptions(c)...)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, &model.TenantList{TotalCount: count, Items: items})
}

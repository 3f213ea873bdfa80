package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kart-io/access-center/internal/access-center/biz"
	"github.com/kart-io/access-center/internal/model"
	"github.com/kart-io/access-center/internal/pkg/httputils"
	"github.com/kart-io/access-center/pkg/errors"
)

// FeatureHandler handles feature management requests.
type FeatureHandler struct {
	svc *biz.FeatureService
}

// NewFeatureHandler creates a new FeatureHandler.
func NewFeatureHandler(svc *biz.FeatureService) *FeatureHandler {
	return &FeatureHandler{svc: svc}
}

type featureRequest struct {
	Code        string  `json:"code" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	TenantID    *uint64 `json:"tenant_id"`
	Status      *int    `json:"status"`
}

// Create creates a feature.
func (h *FeatureHandler) Create(c *gin.Context) {
	var req featureRequest
	if err := c.ShouldBind(&req); err != nil {
		httputils.WriteResponse(c, errors.ErrValidationFailed.WithMessage(err.Error()), nil)
		return
	}

	feature := &model.Feature{
		Code:        req.Code,
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		TenantID:    req.TenantID,
		Status:      model.StatusEnabled,
		CreatedBy:   operatorID(c),
	}
	if req.Status != nil {
		feature.Status = *req.Status
	}

	if err := h.svc.Create(c.Request.Context(), feature); err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, feature)
}

// Get retrieves a feature.
func (h *FeatureHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	feature, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, feature)
}

// Update updates a feature.
func (h *FeatureHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	var req featureRequest
	if err := c.ShouldBind(&req); err != nil {
		httputils.WriteResponse(c, errors.ErrValidationFailed.WithMessage(err.Error()), nil)
		return
	}

	feature, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	feature.Code = req.Code
	feature.Name = req.Name
	feature.Category = req.Category
	feature.Description = req.Description
	feature.UpdatedBy = operatorID(c)
	if req.Status != nil {
		feature.Status = *req.Status
	}

	if err := h.svc.Update(c.Request.Context(), feature); err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, feature)
}

// Delete soft deletes a feature.
func (h *FeatureHandler) Delete(c *gin.Context) {
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

// List lists features with pagination.
func (h *FeatureHandler) List(c *gin.Context) {
	count, items, err := h.svc.List(c.Request.Context(), listOptions(c)...)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, &model.FeatureList{TotalCount: count, Items: items})
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kart-io/access-center/internal/access-center/biz"
	"github.com/kart-io/access-center/internal/model"
	"github.com/kart-io/access-center/internal/pkg/httputils"
	"github.com/kart-io/access-center/pkg/errors"
)

// MenuHandler handles menu management requests.
type MenuHandler struct {
	svc *biz.MenuService
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(svc *biz.MenuService) *MenuHandler {
	return &MenuHandler{svc: svc}
}

type menuRequest struct {
	Name      string  `json:"name" binding:"required"`
	Path      string  `json:"path"`
	Icon      string  `json:"icon"`
	SortOrder int     `json:"sort_order"`
	Level     int     `json:"level" binding:"required"`
	ParentID  *uint64 `json:"parent_id"`
	TenantID  *uint64 `json:"tenant_id"`
	Status    *int    `json:"status"`
}

// Create creates a menu.
func (h *MenuHandler) Create(c *gin.Context) {
	var req menuRequest
	if err := c.ShouldBind(&req); err != nil {
		httputils.WriteResponse(c, errors.ErrValidationFailed.WithMessage(err.Error()), nil)
		return
	}

	menu := &model.Menu{
		Name:      req.Name,
		Path:      req.Path,
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
		Level:     req.Level,
		ParentID:  req.ParentID,
		TenantID:  req.TenantID,
		Status:    model.StatusEnabled,
		CreatedBy: operatorID(c),
	}
	if req.Status != nil {
		menu.Status = *req.Status
	}

	if err := h.svc.Create(c.Request.Context(), menu); err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, menu)
}

// Get retrieves a menu.
func (h *MenuHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	menu, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, menu)
}

// Update updates a menu.
func (h *MenuHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	var req menuRequest
	if err := c.ShouldBind(&req); err != nil {
		httputils.WriteResponse(c, errors.ErrValidationFailed.WithMessage(err.Error()), nil)
		return
	}

	menu, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	menu.Name = req.Name
	menu.Path = req.Path
	menu.Icon = req.Icon
	menu.SortOrder = req.SortOrder
	menu.Level = req.Level
	menu.ParentID = req.ParentID
	menu.UpdatedBy = operatorID(c)
	if req.Status != nil {
		menu.Status = *req.Status
	}

	if err := h.svc.Update(c.Request.Context(), menu); err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, menu)
}

// Delete soft deletes a menu.
func (h *MenuHandler) Delete(c *gin.Context) {
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

// List lists menus with pagination.
func (h *MenuHandler) List(c *gin.Context) {
	count, items, err := h.svc.List(c.Request.Context(), listOptions(c)...)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, &model.MenuList{TotalCount: count, Items: items})
}

// SetFeatures replaces the menu's declared feature set.
func (h *MenuHandler) SetFeatures(c *gin.Context) {
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
	httputils.WriteResponse(c, nil, gin.H{"menu_id": id, "feature_ids": req.IDs})
}

package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/logger"

	"github.com/kart-io/access-center/internal/access-center/biz"
	"github.com/kart-io/access-center/internal/model"
	"github.com/kart-io/access-center/internal/pkg/httputils"
	"github.com/kart-io/access-center/pkg/errors"
)

// AuthHandler handles authentication requests.
type AuthHandler struct {
	svc *biz.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *biz.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login handles user login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		httputils.WriteResponse(c, errors.ErrValidationFailed.WithMessage(err.Error()), nil)
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), &req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		logger.Warnw("login failed", "username", req.Username, "error", err)
		httputils.WriteResponse(c, err, nil)
		return
	}

	httputils.WriteResponse(c, nil, resp)
}

// Register handles user registration.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		httputils.WriteResponse(c, errors.ErrValidationFailed.WithMessage(err.Error()), nil)
		return
	}

	user, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	httputils.WriteResponse(c, nil, user)
}

// Logout revokes the caller's token.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		httputils.WriteResponse(c, errors.ErrBadRequest.WithMessage("token required"), nil)
		return
	}

	if err := h.svc.Logout(c.Request.Context(), token); err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	httputils.WriteResponse(c, nil, gin.H{"message": "logged out"})
}

// Refresh exchanges a valid token for a fresh one.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		httputils.WriteResponse(c, errors.ErrBadRequest.WithMessage("token required"), nil)
		return
	}

	resp, err := h.svc.Refresh(c.Request.Context(), token)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	httputils.WriteResponse(c, nil, resp)
}

// Me returns the caller's profile and authorization context.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := operatorID(c)
	if userID == 0 {
		httputils.WriteResponse(c, errors.ErrUnauthorized, nil)
		return
	}

	profile, err := h.svc.Profile(c.Request.Context(), userID)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	httputils.WriteResponse(c, nil, profile)
}

// LoginLogs lists login audit entries.
func (h *AuthHandler) LoginLogs(c *gin.Context) {
	count, items, err := h.svc.LoginLogs(c.Request.Context(), listOptions(c)...)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}
	httputils.WriteResponse(c, nil, gin.H{"totalCount": count, "items": items})
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return header[7:]
	}
	return ""
}

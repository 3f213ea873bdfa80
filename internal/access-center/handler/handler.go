// Package handler exposes the HTTP surface of the access center.
// Handlers bind and validate requests, delegate to the biz layer, and
// write the shared response envelope.
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/access-center/pkg/errors"
	"github.com/kart-io/access-center/pkg/security/auth"
	storepkg "github.com/kart-io/access-center/pkg/store"
)

const defaultPageSize = 20

// pathID parses the :id path parameter.
func pathID(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.ErrInvalidParam.WithMessage("invalid id in path")
	}
	return id, nil
}

// listOptions translates offset/limit query parameters into store
// options.
func listOptions(c *gin.Context) []storepkg.Option {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return []storepkg.Option{storepkg.WithOffset(offset), storepkg.WithLimit(limit)}
}

// operatorID returns the authenticated caller's user ID, zero when the
// subject claim is absent or malformed.
func operatorID(c *gin.Context) uint64 {
	subject := auth.SubjectFromContext(c.Request.Context())
	id, _ := strconv.ParseUint(subject, 10, 64)
	return id
}

// idsRequest is the body of every replace-set assignment endpoint.
type idsRequest struct {
	IDs []uint64 `json:"ids"`
}

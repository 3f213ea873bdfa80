package response

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kart-io/access-center/pkg/errors"
)

func TestSuccess(t *testing.T) {
	resp := Success(map[string]string{"k": "v"})

	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, http.StatusOK, resp.HTTPCode)
	assert.True(t, resp.IsSuccess())
	assert.NotNil(t, resp.Data)
}

func TestErr(t *testing.T) {
	resp := Err(errors.ErrUserNotFound)

	assert.Equal(t, errors.ErrUserNotFound.Code, resp.Code)
	assert.Equal(t, http.StatusNotFound, resp.HTTPCode)
	assert.False(t, resp.IsSuccess())
	assert.Nil(t, resp.Data)

	assert.True(t, Err(nil).IsSuccess())
}

func TestErrWithLang(t *testing.T) {
	resp := ErrWithLang(errors.ErrNoPermission, "zh-CN")
	assert.Equal(t, "无权限", resp.Message)

	resp = ErrWithLang(errors.ErrNoPermission, "en")
	assert.Equal(t, "No permission", resp.Message)
}

func TestPage(t *testing.T) {
	resp := Page([]int{1, 2, 3}, 7, 1, 3)

	page, ok := resp.Data.(*PageData)
	assert.True(t, ok)
	assert.Equal(t, int64(7), page.Total)
	assert.Equal(t, 3, page.TotalPages)
}

func TestHTTPStatus_FallbackByCategory(t *testing.T) {
	tests := []struct {
		name string
		code int
		want int
	}{
		{"request category", errors.MakeCode(77, errors.CategoryRequest, 0), http.StatusBadRequest},
		{"auth category", errors.MakeCode(77, errors.CategoryAuth, 0), http.StatusUnauthorized},
		{"permission category", errors.MakeCode(77, errors.CategoryPermission, 0), http.StatusForbidden},
		{"resource category", errors.MakeCode(77, errors.CategoryResource, 0), http.StatusNotFound},
		{"unknown category", errors.MakeCode(77, 99, 0), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Response{Code: tt.code}
			assert.Equal(t, tt.want, r.HTTPStatus())
		})
	}
}

func TestWithRequestID(t *testing.T) {
	resp := Success(nil).WithRequestID("01ARZ3NDEKTSV4RRFFQ69G5FAV").WithTimestamp(123)
	assert.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", resp.RequestID)
	assert.Equal(t, int64(123), resp.Timestamp)
}

// Package httputils provides HTTP utility functions.
package httputils

import (
	"github.com/gin-gonic/gin"

	"github.com/kart-io/access-center/pkg/errors"
	"github.com/kart-io/access-center/pkg/utils/json"
	"github.com/kart-io/access-center/pkg/utils/response"
)

const jsonContentType = "application/json; charset=utf-8"

// WriteResponse writes the response to the client.
// It handles both success and error cases, ensuring consistent response format.
func WriteResponse(c *gin.Context, err error, data interface{}) {
	if err != nil {
		resp := response.Err(errors.FromError(err))
		writeJSON(c, resp)
		return
	}

	// data can be *response.Response (e.g. from response.Page) or raw data
	if resp, ok := data.(*response.Response); ok {
		writeJSON(c, resp)
		return
	}

	writeJSON(c, response.Success(data))
}

// writeJSON serializes through the sonic-backed json wrapper instead of
// gin's default encoder, and recycles the response object afterwards.
func writeJSON(c *gin.Context, resp *response.Response) {
	defer response.Release(resp)

	if requestID := c.GetString("request_id"); requestID != "" {
		resp.RequestID = requestID
	}

	body, err := json.Marshal(resp)
	if err != nil {
		c.JSON(resp.HTTPStatus(), resp)
		return
	}
	c.Data(resp.HTTPStatus(), jsonContentType, body)
}

package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Respond sends an APIResponse with its status, defaulting to 500.
func Respond(c *gin.Context, resp APIResponse) {
	status := resp.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, resp)
}

// RespondError converts a standard error to an APIResponse and responds.
func RespondError(c *gin.Context, err error) {
	var resp APIResponse
	if errors.As(err, &resp) {
		Respond(c, resp)
		return
	}
	Respond(c, ErrUnknown)
}

package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/spotpulse/internal/domain/dto"
)

// ErrorHandler turns errors attached with c.Error into a JSON response when
// no handler wrote one. A dto.ErrorResponse attached as the last error keeps
// its message; anything else becomes a 500.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	last := c.Errors.Last().Err
	status := c.Writer.Status()
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}

	var resp dto.ErrorResponse
	if errors.As(last, &resp) {
		c.JSON(status, resp)
		return
	}
	c.JSON(status, dto.NewErrorResponse("Internal server error", last))
}

// AbortWithError attaches err to the context and aborts with status and a
// dto.ErrorResponse carrying message.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	resp := dto.NewErrorResponse(message, err)
	_ = c.Error(resp)
	c.AbortWithStatusJSON(status, resp)
}

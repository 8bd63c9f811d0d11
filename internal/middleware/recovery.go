package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/spotpulse/internal/domain/dto"
	"github.com/guttosm/spotpulse/internal/logger"
)

// RecoveryMiddleware turns a panic in a later handler into a 500 carrying a
// dto.ErrorResponse. The panic value and stack are logged with the request id.
// If the handler already started the response, only the log line is written.
func RecoveryMiddleware() gin.HandlerFunc {
	log := logger.With("http")
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			log.Error().
				Str("request_id", requestID(c)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Str("panic", fmt.Sprint(r)).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewErrorResponse("Internal server error", fmt.Errorf("panic: %v", r)))
		}()

		c.Next()
	}
}

package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestID is a Gin middleware that tags every request with an identifier.
//
// Behavior:
//   - Reuses an incoming X-Request-ID when it parses as a UUID, so ids survive
//     a proxy hop; otherwise generates a new UUID (v4).
//   - Stores it in the Gin context under RequestIDKey.
//   - Echoes it in the X-Request-ID response header.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RequestID())
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Set(RequestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)

		c.Next()
	}
}

// requestID returns the id stored by RequestID, or "" when absent.
func requestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

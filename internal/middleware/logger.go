package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/guttosm/spotpulse/internal/logger"
)

// RequestLogger is a Gin middleware that emits one structured line per request.
//
// Fields: request_id, method, path, query, status, latency_ms, client_ip and,
// when handlers attached any, the joined gin errors. 5xx answers are logged
// at error level, 4xx at warn, everything else at info.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RequestID(), middleware.RequestLogger())
func RequestLogger() gin.HandlerFunc {
	log := logger.With("http")
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		ev := eventFor(&log, status)
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			ev = ev.Str("errors", errs.String())
		}
		ev.Str("request_id", requestID(c)).
			Str("method", method).
			Str("path", path).
			Str("query", query).
			Int("status", status).
			Int64("latency_ms", time.Since(start).Milliseconds()).
			Str("client_ip", c.ClientIP()).
			Msg("http_request")
	}
}

func eventFor(log *zerolog.Logger, status int) *zerolog.Event {
	switch {
	case status >= http.StatusInternalServerError:
		return log.Error()
	case status >= http.StatusBadRequest:
		return log.Warn()
	default:
		return log.Info()
	}
}

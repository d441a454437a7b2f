package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/maxviazov/shop-admin-console/internal/apiclient"
)

const requestIDKey = "request_id"

// RequestID accepts an upstream X-Request-ID or mints one, echoes it back and puts
// it on the request context so backend calls carry the same id.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(apiclient.HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Request = c.Request.WithContext(apiclient.WithRequestID(c.Request.Context(), id))
		c.Header(apiclient.HeaderRequestID, id)
		c.Next()
	}
}

// AccessLog writes one line per request; 5xx at error, 4xx at warn.
func AccessLog(logger zerolog.Logger) gin.HandlerFunc {
	log := logger.With().Str("module", "http").Logger()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			ev = log.Error()
		case status >= http.StatusBadRequest:
			ev = log.Warn()
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Str("request_id", c.GetString(requestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", c.FullPath()).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}

// Recovery turns a panic into a 500 and logs it with the request id.
func Recovery(logger zerolog.Logger) gin.HandlerFunc {
	log := logger.With().Str("module", "http").Logger()
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		log.Error().Interface("panic", rec).Str("request_id", c.GetString(requestIDKey)).Str("path", c.Request.URL.Path).Msg("panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	})
}

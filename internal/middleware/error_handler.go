package middleware

import (
	"net/http"
	"time"

	"flota/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrorHandler turns errors a handler left in c.Errors into a 500. The
// client only gets the request id to quote; the cause goes to the log.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		reqID := c.GetString(RequestIDKey)
		for _, e := range c.Errors {
			log.Error().
				Str("request_id", reqID).
				Str("route", c.FullPath()).
				Str("method", c.Request.Method).
				Err(e.Err).
				Msg("unhandled error")
		}

		// A handler that already answered keeps its response.
		if c.Writer.Written() {
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.Interno(reqID))
	}
}

// Recovery converts a panic into a 500 with the same body as ErrorHandler.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				reqID := c.GetString(RequestIDKey)
				log.Error().
					Str("request_id", reqID).
					Interface("panic", r).
					Stack().
					Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.Interno(reqID))
			}
		}()
		c.Next()
	}
}

// Logger writes one line per request. 5xx log at error level, 4xx at warn.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := zerolog.InfoLevel
		switch {
		case status >= http.StatusInternalServerError:
			level = zerolog.ErrorLevel
		case status >= http.StatusBadRequest:
			level = zerolog.WarnLevel
		}

		log.WithLevel(level).
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("client_ip", c.ClientIP()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

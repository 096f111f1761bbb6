package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"climatejobs/internal/logger"
	"climatejobs/internal/pkg/apperr"
	"climatejobs/internal/pkg/response"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger logs every request, recovers panics into a 500 envelope and
// reports errors handlers attached with c.Error.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	log = logger.OrNop(log)
	return func(c *gin.Context) {
		start := time.Now()
		rid := requestID(c)
		c.Set("request_id", rid)
		c.Writer.Header().Set(requestIDHeader, rid)

		defer func() {
			if recovered := recover(); recovered != nil {
				log.Error("request_panic",
					append(requestFields(c, start, rid),
						zap.String("panic", fmt.Sprintf("%v", recovered)),
						zap.ByteString("stack", debug.Stack()))...,
				)
				response.Abort(c, apperr.Internal, "Internal server error")
				return
			}

			fields := requestFields(c, start, rid)
			if len(c.Errors) > 0 {
				for _, err := range c.Errors {
					log.Error("request_error", append(fields, zap.Error(err.Err))...)
				}
				return
			}

			switch status := c.Writer.Status(); {
			case status >= http.StatusInternalServerError:
				log.Error("request_failed", fields...)
			case status >= http.StatusBadRequest:
				log.Info("request_rejected", fields...)
			default:
				log.Debug("request", fields...)
			}
		}()

		c.Next()
	}
}

func requestFields(c *gin.Context, start time.Time, rid string) []zap.Field {
	return []zap.Field{
		zap.Int("status", c.Writer.Status()),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("query", c.Request.URL.RawQuery),
		zap.String("client_ip", c.ClientIP()),
		zap.String("user_id", c.GetString("user_id")),
		zap.String("role", c.GetString("role")),
		zap.String("request_id", rid),
		zap.Duration("latency", time.Since(start)),
	}
}

func requestID(c *gin.Context) string {
	if id := c.GetHeader(requestIDHeader); id != "" {
		return id
	}
	return uuid.NewString()
}

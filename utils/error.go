package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every non-booking error.
type ErrorResponse struct {
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// requestLogger prefers the request-scoped logger set by the request logger
// middleware.
func requestLogger(c *gin.Context) *zap.Logger {
	if l, ok := c.Get("logger"); ok {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return GetLogger()
}

// ErrorHandler turns a panic in a later handler into a JSON 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestLogger(c).Error("Unhandled panic",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Message:   "Internal Server Error",
					Details:   "An unexpected error occurred. Please try again later.",
					RequestID: c.Writer.Header().Get("X-Request-ID"),
				})
			}
		}()
		c.Next()
	}
}

// JSONError aborts with the standard error body and logs a warning.
func JSONError(c *gin.Context, status int, message string, details string) {
	requestLogger(c).Warn(message,
		zap.String("details", details),
		zap.Int("status", status),
		zap.String("path", c.FullPath()),
	)
	c.AbortWithStatusJSON(status, ErrorResponse{
		Message:   message,
		Details:   details,
		RequestID: c.Writer.Header().Get("X-Request-ID"),
	})
}

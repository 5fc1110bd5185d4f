package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/youlserf/recipehub/internal/services"
)

// ErrorResponse mirrors the recipe envelope for errors raised by middleware
type ErrorResponse struct {
	StatusCode       int                   `json:"statusCode"`
	Message          string                `json:"message"`
	Error            string                `json:"error,omitempty"`
	ValidationErrors []services.FieldError `json:"validation_errors,omitempty"`
	RequestID        string                `json:"request_id,omitempty"`
	Timestamp        string                `json:"timestamp"`
}

func abortWithError(c *gin.Context, status int, message, detail string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		StatusCode: status,
		Message:    message,
		Error:      detail,
		RequestID:  c.GetString(RequestIDKey),
		Timestamp:  time.Now().Format(time.RFC3339),
	})
}

// CORS middleware for handling Cross-Origin Resource Sharing
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")
		c.Header("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// ErrorHandler turns errors attached to the gin context into an error
// envelope when the handler did not write a response itself.
func ErrorHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last()
		logger.WithFields(logrus.Fields{
			"request_id": c.GetString(RequestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"error":      err.Error(),
		}).Error("Request error")

		switch err.Type {
		case gin.ErrorTypeBind:
			abortWithError(c, http.StatusBadRequest, "Invalid request format", err.Error())
		case gin.ErrorTypePublic:
			abortWithError(c, http.StatusBadRequest, "Request failed", err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Internal server error", "")
		}
	}
}

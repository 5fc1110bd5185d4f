package middleware

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDKey is the key used to store request ID in context
const RequestIDKey = "request_id"

// responseWriter wraps gin.ResponseWriter to capture response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging with request context
func StructuredLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		// Only small bodies are captured
		var requestBody []byte
		if c.Request.Body != nil && c.Request.ContentLength > 0 && c.Request.ContentLength < 1024*10 {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		responseBodyWriter := &responseWriter{
			ResponseWriter: c.Writer,
			body:           bytes.NewBufferString(""),
		}
		c.Writer = responseBodyWriter

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		fields := logrus.Fields{
			"request_id":     c.GetString(RequestIDKey),
			"method":         c.Request.Method,
			"path":           path,
			"status_code":    status,
			"latency_ms":     float64(latency.Nanoseconds()) / 1000000,
			"client_ip":      c.ClientIP(),
			"user_agent":     c.Request.UserAgent(),
			"content_length": c.Request.ContentLength,
			"response_size":  c.Writer.Size(),
		}

		if raw != "" {
			fields["query"] = raw
		}

		if gin.Mode() == gin.DebugMode && len(requestBody) > 0 {
			fields["request_body"] = string(requestBody)
		}

		if gin.Mode() == gin.DebugMode && status >= 400 && responseBodyWriter.body.Len() < 1024 {
			fields["response_body"] = responseBodyWriter.body.String()
		}

		entry := logger.WithFields(fields)
		switch {
		case status >= 500:
			entry.Error("Server error")
		case status >= 400:
			entry.Warn("Client error")
		default:
			entry.Info("Request completed")
		}
	}
}

// AuditLogger logs recipe write operations
func AuditLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only audit write operations
		switch c.Request.Method {
		case "GET", "HEAD", "OPTIONS":
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		fields := logrus.Fields{
			"audit":          true,
			"request_id":     c.GetString(RequestIDKey),
			"method":         c.Request.Method,
			"path":           path,
			"status_code":    c.Writer.Status(),
			"client_ip":      c.ClientIP(),
			"operation_time": time.Since(start).Milliseconds(),
		}

		switch c.Request.Method {
		case "POST":
			fields["operation"] = "CREATE"
		case "PUT", "PATCH":
			fields["operation"] = "UPDATE"
		case "DELETE":
			fields["operation"] = "DELETE"
		}

		if strings.HasPrefix(path, "/recipe") {
			fields["resource_type"] = "recipe"
		}

		if resourceID := extractResourceID(path); resourceID != "" {
			fields["resource_id"] = resourceID
		}

		logger.WithFields(fields).Info("Audit log")
	}
}

// ErrorTracker logs errors attached to the context and HTTP error statuses
func ErrorTracker(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		requestID := c.GetString(RequestIDKey)

		for _, err := range c.Errors {
			fields := logrus.Fields{
				"error_tracking": true,
				"request_id":     requestID,
				"method":         c.Request.Method,
				"path":           c.Request.URL.Path,
				"error_type":     fmt.Sprintf("%d", err.Type),
				"error_message":  err.Error(),
				"status_code":    c.Writer.Status(),
			}

			if err.Type == gin.ErrorTypePrivate {
				fields["stack_trace"] = fmt.Sprintf("%+v", err.Err)
			}

			logger.WithFields(fields).Error("Error tracked")
		}

		if status := c.Writer.Status(); status >= 500 {
			logger.WithFields(logrus.Fields{
				"http_error":  true,
				"request_id":  requestID,
				"method":      c.Request.Method,
				"path":        c.Request.URL.Path,
				"status_code": status,
			}).Error("HTTP server error")
		}
	}
}

// extractResourceID returns the path segment following "recipe", if any
func extractResourceID(path string) string {
	parts := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	for i, part := range parts {
		if part == "recipe" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

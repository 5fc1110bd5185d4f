package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/youlserf/recipehub/internal/services"
	"github.com/youlserf/recipehub/pkg/metrics"
)

// RequestValidation rejects requests whose path id is blank or too long
func RequestValidation() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := validatePathParams(c); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
				StatusCode: http.StatusBadRequest,
				Message:    "Invalid request",
				Error:      err.Error(),
				ValidationErrors: []services.FieldError{{
					Field:   "id",
					Tag:     "max",
					Value:   c.Param("id"),
					Message: fmt.Sprintf("id must be between 1 and %d characters", services.MaxIDLength),
				}},
				RequestID: c.GetString(RequestIDKey),
				Timestamp: time.Now().Format(time.RFC3339),
			})
			return
		}

		c.Next()
	}
}

// RateLimiter implements a process-wide token bucket
func RateLimiter(logger *logrus.Logger, requestsPerSecond float64, burstSize int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			logger.WithFields(logrus.Fields{
				"client_ip":  c.ClientIP(),
				"path":       c.Request.URL.Path,
				"user_agent": c.Request.UserAgent(),
			}).Warn("Rate limit exceeded")

			metrics.RateLimitRejected.WithLabelValues("memory").Inc()
			c.Header("Retry-After", "1")
			abortWithError(c, http.StatusTooManyRequests, "Rate limit exceeded",
				fmt.Sprintf("Too many requests. Limit: %.1f requests per second", requestsPerSecond))
			return
		}

		metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
		c.Next()
	}
}

// SecurityHeaders adds security headers to responses
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// ContentTypeValidation validates request content types on write requests
func ContentTypeValidation(allowedTypes ...string) gin.HandlerFunc {
	if len(allowedTypes) == 0 {
		allowedTypes = []string{"application/json"}
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut {
			c.Next()
			return
		}

		contentType := c.GetHeader("Content-Type")
		if contentType == "" {
			abortWithError(c, http.StatusBadRequest, "Missing Content-Type header", "Content-Type header is required")
			return
		}

		// Ignore charset and other parameters
		mainType := strings.TrimSpace(strings.Split(contentType, ";")[0])

		for _, allowedType := range allowedTypes {
			if mainType == allowedType {
				c.Next()
				return
			}
		}

		abortWithError(c, http.StatusUnsupportedMediaType, "Unsupported Content-Type",
			fmt.Sprintf("Content-Type '%s' is not supported. Allowed types: %v", mainType, allowedTypes))
	}
}

// RequestSizeLimit limits the size of request bodies
func RequestSizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			abortWithError(c, http.StatusRequestEntityTooLarge, "Request too large",
				fmt.Sprintf("Request body size (%d bytes) exceeds maximum allowed size (%d bytes)", c.Request.ContentLength, maxSize))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}

func validatePathParams(c *gin.Context) error {
	for _, param := range c.Params {
		if param.Key != "id" {
			continue
		}
		if strings.TrimSpace(param.Value) == "" || len(param.Value) > services.MaxIDLength {
			return fmt.Errorf("invalid id parameter")
		}
	}
	return nil
}

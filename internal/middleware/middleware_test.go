package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youlserf/recipehub/pkg/metrics"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/recipe", ok)
	r.POST("/recipe", ok)
	r.GET("/recipe/:id", RequestValidation(), ok)
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	allowedBefore := testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory"))
	rejectedBefore := testutil.ToFloat64(metrics.RateLimitRejected.WithLabelValues("memory"))

	r := newEngine(RateLimiter(quietLogger(), 1, 2))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/recipe", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, allowedBefore+2, testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory")))
	assert.Equal(t, rejectedBefore+1, testutil.ToFloat64(metrics.RateLimitRejected.WithLabelValues("memory")))
}

func TestRequestValidation(t *testing.T) {
	r := newEngine(RequestID())

	for _, id := range []string{uuid.NewString(), "not-a-uuid", "recipe-42"} {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/recipe/"+id, nil))
		assert.Equal(t, http.StatusOK, w.Code, id)
	}

	w := serve(r, httptest.NewRequest(http.MethodGet, "/recipe/"+strings.Repeat("a", 1025), nil))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid request", resp.Message)
	require.Len(t, resp.ValidationErrors, 1)
	assert.Equal(t, "id", resp.ValidationErrors[0].Field)
	assert.Equal(t, w.Header().Get("X-Request-ID"), resp.RequestID)
}

func TestContentTypeValidation(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		want        int
	}{
		{"json", "application/json", http.StatusOK},
		{"json with charset", "application/json; charset=utf-8", http.StatusOK},
		{"missing", "", http.StatusBadRequest},
		{"form", "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
	}

	r := newEngine(ContentTypeValidation())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/recipe", bytes.NewBufferString("{}"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			assert.Equal(t, tt.want, serve(r, req).Code)
		})
	}
}

func TestRequestSizeLimit(t *testing.T) {
	r := newEngine(RequestSizeLimit(8))

	req := httptest.NewRequest(http.MethodPost, "/recipe", bytes.NewBufferString(`{"name":"too long"}`))
	assert.Equal(t, http.StatusRequestEntityTooLarge, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/recipe", bytes.NewBufferString(`{}`))
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestRequestIDAndCORS(t *testing.T) {
	r := newEngine(RequestID(), CORS(), SecurityHeaders())

	req := httptest.NewRequest(http.MethodGet, "/recipe", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := serve(r, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/recipe", nil))
	_, err := uuid.Parse(w.Header().Get("X-Request-ID"))
	assert.NoError(t, err)

	w = serve(r, httptest.NewRequest(http.MethodOptions, "/recipe", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler(quietLogger()))
	r.GET("/bind", func(c *gin.Context) { _ = c.Error(assert.AnError).SetType(gin.ErrorTypeBind) })
	r.GET("/private", func(c *gin.Context) { _ = c.Error(assert.AnError) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/bind", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Error)
}

func TestExtractResourceID(t *testing.T) {
	assert.Equal(t, "abc", extractResourceID("/recipe/abc"))
	assert.Equal(t, "", extractResourceID("/recipe"))
	assert.Equal(t, "", extractResourceID("/health"))
}

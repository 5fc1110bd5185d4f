package handlers

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
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youlserf/recipehub/internal/config"
	"github.com/youlserf/recipehub/internal/models"
	"github.com/youlserf/recipehub/internal/repositories"
	"github.com/youlserf/recipehub/internal/repositories/memory"
	"github.com/youlserf/recipehub/internal/services"
)

type envelopeBody struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestHandler(t *testing.T) (*RecipeHandler, *memory.RecipeRepository) {
	t.Helper()
	repo := memory.NewRecipeRepository()
	logger := quietLogger()
	svc := services.NewRecipeService(repo, repositories.BackendMemory, logger)
	return NewRecipeHandler(svc, logger), repo
}

func newTestRouter(t *testing.T) (*gin.Engine, *memory.RecipeRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := memory.NewRecipeRepository()
	logger := quietLogger()
	router := NewRouter(&RouterConfig{
		RecipeService: services.NewRecipeService(repo, repositories.BackendMemory, logger),
		Logger:        logger,
		Server:        config.ServerConfig{MaxBodyBytes: 1 << 20},
	})
	return router, repo
}

func perform(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, _ := json.Marshal(b)
			reader = bytes.NewBuffer(data)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, data []byte) envelopeBody {
	t.Helper()
	var env envelopeBody
	require.NoError(t, json.Unmarshal(data, &env))
	return env
}

func decodeRecipe(t *testing.T, env envelopeBody) models.Recipe {
	t.Helper()
	var recipe models.Recipe
	require.NoError(t, json.Unmarshal(env.Data, &recipe))
	return recipe
}

var pancakes = map[string]interface{}{
	"name":         "Pancakes",
	"ingredients":  []string{"flour", "milk", "eggs"},
	"instructions": "Mix and fry.",
}

func TestRecipeLifecycleOverHTTP(t *testing.T) {
	router, _ := newTestRouter(t)

	body := map[string]interface{}{"id": "ignored"}
	for k, v := range pancakes {
		body[k] = v
	}

	w := perform(router, http.MethodPost, "/recipe", body)
	require.Equal(t, http.StatusCreated, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, http.StatusCreated, env.StatusCode)
	assert.Equal(t, msgCreated, env.Message)
	created := decodeRecipe(t, env)
	_, err := uuid.Parse(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", created.Name)
	assert.Equal(t, []interface{}{"flour", "milk", "eggs"}, created.Ingredients)

	w = perform(router, http.MethodGet, "/recipe/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	env = decodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, msgRetrieved, env.Message)
	assert.Equal(t, created, decodeRecipe(t, env))

	w = perform(router, http.MethodPut, "/recipe/"+created.ID, map[string]interface{}{
		"name":         "Crepes",
		"ingredients":  []string{"flour", "milk"},
		"instructions": "Thin batter.",
	})
	require.Equal(t, http.StatusOK, w.Code)
	env = decodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, msgUpdated, env.Message)
	updated := decodeRecipe(t, env)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Crepes", updated.Name)

	w = perform(router, http.MethodGet, "/recipe", nil)
	require.Equal(t, http.StatusOK, w.Code)
	env = decodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, msgListed, env.Message)
	var listed []models.Recipe
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, updated, listed[0])

	w = perform(router, http.MethodDelete, "/recipe/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	env = decodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, msgDeleted, env.Message)
	assert.Equal(t, updated, decodeRecipe(t, env))

	w = perform(router, http.MethodGet, "/recipe/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	env = decodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, msgNotFound, env.Message)

	w = perform(router, http.MethodDelete, "/recipe/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecipeErrorsOverHTTP(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       interface{}
		wantStatus int
		wantMsg    string
	}{
		{"create missing name", http.MethodPost, "/recipe", map[string]interface{}{"ingredients": []string{"a"}, "instructions": "x"}, http.StatusBadRequest, msgInvalidRequest},
		{"create missing ingredients", http.MethodPost, "/recipe", map[string]interface{}{"name": "a", "instructions": "x"}, http.StatusBadRequest, msgInvalidRequest},
		{"create malformed json", http.MethodPost, "/recipe", `{"name":`, http.StatusBadRequest, msgInvalidRequest},
		{"update malformed json", http.MethodPut, "/recipe/" + uuid.NewString(), `[1,2`, http.StatusBadRequest, msgInvalidRequest},
		{"get unknown id", http.MethodGet, "/recipe/" + uuid.NewString(), nil, http.StatusNotFound, msgNotFound},
		{"get non-uuid id", http.MethodGet, "/recipe/not-a-uuid", nil, http.StatusNotFound, msgNotFound},
		{"delete non-uuid id", http.MethodDelete, "/recipe/recipe-42", nil, http.StatusNotFound, msgNotFound},
		{"get blank id", http.MethodGet, "/recipe/%20", nil, http.StatusBadRequest, "Invalid request"},
		{"get oversized id", http.MethodGet, "/recipe/" + strings.Repeat("a", 1025), nil, http.StatusBadRequest, "Invalid request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newTestRouter(t)
			w := perform(router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			env := decodeEnvelope(t, w.Body.Bytes())
			assert.Equal(t, tt.wantStatus, env.StatusCode)
			assert.Equal(t, tt.wantMsg, env.Message)
			assert.NotEmpty(t, env.Error)
		})
	}
}

func TestUpdateCreatesMissingRecipe(t *testing.T) {
	router, repo := newTestRouter(t)
	id := uuid.NewString()

	w := perform(router, http.MethodPut, "/recipe/"+id, pancakes)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := repo.Get(t.Context(), id)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", stored.Name)
}

func TestOpaqueIDs(t *testing.T) {
	router, _ := newTestRouter(t)

	w := perform(router, http.MethodPut, "/recipe/recipe-42", pancakes)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "recipe-42", decodeRecipe(t, decodeEnvelope(t, w.Body.Bytes())).ID)

	w = perform(router, http.MethodGet, "/recipe/recipe-42", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(router, http.MethodDelete, "/recipe/recipe-42", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(router, http.MethodDelete, "/recipe/recipe-42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, msgNotFound, decodeEnvelope(t, w.Body.Bytes()).Message)
}

func TestStoreFailureReturnsServerError(t *testing.T) {
	router, repo := newTestRouter(t)
	require.NoError(t, repo.Close())

	w := perform(router, http.MethodGet, "/recipe", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, msgListFailed, env.Message)
	assert.NotEmpty(t, env.Error)

	w = perform(router, http.MethodPost, "/recipe", pancakes)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env = decodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, msgCreateFailed, env.Message)

	w = perform(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestEmptyListReturnsEmptyArray(t *testing.T) {
	router, _ := newTestRouter(t)

	w := perform(router, http.MethodGet, "/recipe", nil)
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestHealthAndCORS(t *testing.T) {
	router, _ := newTestRouter(t)

	w := perform(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var status repositories.HealthStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.Healthy)
	assert.Equal(t, "memory", status.Details["backend"])

	w = perform(router, http.MethodOptions, "/recipe", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", repositories.NotFoundError("recipe", "x"), http.StatusNotFound},
		{"validation", repositories.ValidationError("recipe", "", assert.AnError), http.StatusBadRequest},
		{"unavailable", repositories.UnavailableError("get", "recipe", "x", assert.AnError), http.StatusInternalServerError},
		{"plain", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestFailureReportsDriverMessage(t *testing.T) {
	status, env := failure(repositories.UnavailableError("put", "recipe", "x", assert.AnError), msgCreateFailed)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, msgCreateFailed, env.Message)
	assert.Equal(t, assert.AnError.Error(), env.Error)
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/youlserf/recipehub/internal/repositories"
	"github.com/youlserf/recipehub/internal/services"
	"github.com/youlserf/recipehub/pkg/lambda"
)

// RecipeHandler handles recipe-related HTTP requests for both gin and Lambda
type RecipeHandler struct {
	recipeService services.RecipeService
	logger        *logrus.Logger
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(recipeService services.RecipeService, logger *logrus.Logger) *RecipeHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &RecipeHandler{
		recipeService: recipeService,
		logger:        logger,
	}
}

func (h *RecipeHandler) create(ctx context.Context, req *services.CreateRecipeRequest) (int, Envelope) {
	recipe, err := h.recipeService.CreateRecipe(ctx, req)
	if err != nil {
		return failure(err, msgCreateFailed)
	}
	return success(http.StatusCreated, msgCreated, recipe)
}

func (h *RecipeHandler) get(ctx context.Context, id string) (int, Envelope) {
	recipe, err := h.recipeService.GetRecipe(ctx, id)
	if err != nil {
		return failure(err, msgGetFailed)
	}
	return success(http.StatusOK, msgRetrieved, recipe)
}

func (h *RecipeHandler) list(ctx context.Context) (int, Envelope) {
	recipes, err := h.recipeService.ListRecipes(ctx)
	if err != nil {
		return failure(err, msgListFailed)
	}
	return success(http.StatusOK, msgListed, recipes)
}

func (h *RecipeHandler) update(ctx context.Context, id string, req *services.UpdateRecipeRequest) (int, Envelope) {
	recipe, err := h.recipeService.UpdateRecipe(ctx, id, req)
	if err != nil {
		return failure(err, msgUpdateFailed)
	}
	return success(http.StatusOK, msgUpdated, recipe)
}

func (h *RecipeHandler) delete(ctx context.Context, id string) (int, Envelope) {
	recipe, err := h.recipeService.DeleteRecipe(ctx, id)
	if err != nil {
		return failure(err, msgDeleteFailed)
	}
	return success(http.StatusOK, msgDeleted, recipe)
}

func malformedBody(err error, failedMessage string) (int, Envelope) {
	return failure(repositories.ValidationError("recipe", "", err), failedMessage)
}

// @Summary Create a recipe
// @Description Store a new recipe under a generated ID. Any id in the body is ignored.
// @Tags recipes
// @Accept json
// @Produce json
// @Param recipe body services.CreateRecipeRequest true "Recipe data"
// @Success 201 {object} Envelope{data=models.Recipe}
// @Failure 400 {object} Envelope
// @Failure 500 {object} Envelope
// @Router /recipe [post]
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req services.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(malformedBody(err, msgCreateFailed))
		return
	}
	c.JSON(h.create(c.Request.Context(), &req))
}

// @Summary List recipes
// @Description Return every stored recipe
// @Tags recipes
// @Produce json
// @Success 200 {object} Envelope{data=[]models.Recipe}
// @Failure 500 {object} Envelope
// @Router /recipe [get]
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	c.JSON(h.list(c.Request.Context()))
}

// @Summary Get a recipe
// @Tags recipes
// @Produce json
// @Param id path string true "Recipe ID"
// @Success 200 {object} Envelope{data=models.Recipe}
// @Failure 400 {object} Envelope
// @Failure 404 {object} Envelope
// @Failure 500 {object} Envelope
// @Router /recipe/{id} [get]
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	c.JSON(h.get(c.Request.Context(), c.Param("id")))
}

// @Summary Update a recipe
// @Description Overwrite name, ingredients and instructions of the recipe at id
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path string true "Recipe ID"
// @Param recipe body services.UpdateRecipeRequest true "Recipe data"
// @Success 200 {object} Envelope{data=models.Recipe}
// @Failure 400 {object} Envelope
// @Failure 500 {object} Envelope
// @Router /recipe/{id} [put]
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	var req services.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(malformedBody(err, msgUpdateFailed))
		return
	}
	c.JSON(h.update(c.Request.Context(), c.Param("id"), &req))
}

// @Summary Delete a recipe
// @Description Delete the recipe at id and return it as it was before deletion
// @Tags recipes
// @Produce json
// @Param id path string true "Recipe ID"
// @Success 200 {object} Envelope{data=models.Recipe}
// @Failure 400 {object} Envelope
// @Failure 404 {object} Envelope
// @Failure 500 {object} Envelope
// @Router /recipe/{id} [delete]
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	c.JSON(h.delete(c.Request.Context(), c.Param("id")))
}

// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} repositories.HealthStatus
// @Failure 503 {object} repositories.HealthStatus
// @Router /health [get]
func (h *RecipeHandler) Health(c *gin.Context) {
	status := h.recipeService.Health(c.Request.Context())
	if !status.Healthy {
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}
	c.JSON(http.StatusOK, status)
}

// Lambda-compatible handler methods

// HandleCreate handles recipe creation for Lambda
func (h *RecipeHandler) HandleCreate(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var createReq services.CreateRecipeRequest
	if err := json.Unmarshal(req.Body, &createReq); err != nil {
		return lambda.JSON(malformedBody(err, msgCreateFailed)), nil
	}
	return lambda.JSON(h.create(ctx, &createReq)), nil
}

// HandleList handles recipe listing for Lambda
func (h *RecipeHandler) HandleList(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	return lambda.JSON(h.list(ctx)), nil
}

// HandleGet handles recipe retrieval for Lambda
func (h *RecipeHandler) HandleGet(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	return lambda.JSON(h.get(ctx, req.PathParams["id"])), nil
}

// HandleUpdate handles recipe updates for Lambda
func (h *RecipeHandler) HandleUpdate(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var updateReq services.UpdateRecipeRequest
	if err := json.Unmarshal(req.Body, &updateReq); err != nil {
		return lambda.JSON(malformedBody(err, msgUpdateFailed)), nil
	}
	return lambda.JSON(h.update(ctx, req.PathParams["id"], &updateReq)), nil
}

// HandleDelete handles recipe deletion for Lambda
func (h *RecipeHandler) HandleDelete(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	return lambda.JSON(h.delete(ctx, req.PathParams["id"])), nil
}

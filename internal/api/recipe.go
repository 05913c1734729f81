package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/cookbook/backend/internal/apperrors"
	"github.com/pageza/cookbook/backend/internal/middleware"
	"github.com/pageza/cookbook/backend/internal/service"
	"github.com/pageza/cookbook/backend/internal/types"
)

type RecipeHandler struct {
	recipes service.IRecipeService
	limiter *middleware.RateLimiter
}

// NewRecipeHandler wires the recipe endpoints. limiter may be nil, in which
// case creates are not rate limited.
func NewRecipeHandler(recipes service.IRecipeService, limiter *middleware.RateLimiter) *RecipeHandler {
	useWireFieldNames()
	return &RecipeHandler{
		recipes: recipes,
		limiter: limiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router gin.IRouter) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", h.limiter.Middleware(), h.CreateRecipe)
	}
}

// ListRecipes handles GET /recipes?skip=&limit=
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var params types.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	items, err := h.recipes.ListRecipes(c.Request.Context(), params.Skip, params.Limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if items == nil {
		items = []types.RecipeListItem{}
	}

	c.JSON(http.StatusOK, items)
}

// GetRecipe handles GET /recipes/:id and counts the view.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.Error(apperrors.Validation("invalid request", map[string]any{"id": "integer"}))
		return
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// CreateRecipe handles POST /recipes
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var in types.RecipeIn
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kisy34/foodgram-project-react3/internal/middleware"
	"github.com/kisy34/foodgram-project-react3/internal/models"
	"github.com/kisy34/foodgram-project-react3/internal/service"
)

// RecipeHandler serves recipe CRUD, the favorite and shopping-cart toggles
// and the shopping-list export
type RecipeHandler struct {
	recipes    *service.RecipeService
	carts      *service.CartService
	serializer *Serializer
	auth       *service.AuthService
}

func NewRecipeHandler(recipes *service.RecipeService, carts *service.CartService, serializer *Serializer, auth *service.AuthService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, carts: carts, serializer: serializer, auth: auth}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.OptionalAuthMiddleware(h.auth), h.List)
		recipes.GET("/download_shopping_cart", middleware.AuthMiddleware(h.auth), h.DownloadShoppingCart)
		recipes.GET("/:id", middleware.OptionalAuthMiddleware(h.auth), h.Get)
		recipes.POST("", middleware.AuthMiddleware(h.auth), h.Create)
		recipes.PUT("/:id", middleware.AuthMiddleware(h.auth), h.Update)
		recipes.PATCH("/:id", middleware.AuthMiddleware(h.auth), h.Update)
		recipes.DELETE("/:id", middleware.AuthMiddleware(h.auth), h.Delete)
		recipes.POST("/:id/favorite", middleware.AuthMiddleware(h.auth), h.Favorite)
		recipes.DELETE("/:id/favorite", middleware.AuthMiddleware(h.auth), h.Unfavorite)
		recipes.POST("/:id/shopping_cart", middleware.AuthMiddleware(h.auth), h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", middleware.AuthMiddleware(h.auth), h.RemoveFromCart)
	}
}

func (h *RecipeHandler) List(c *gin.Context) {
	viewer := viewerPtr(c)
	filter := service.RecipeFilter{
		TagSlugs: c.QueryArray("tags"),
		Viewer:   viewer,
	}

	if author := c.Query("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.Author = &authorID
	}
	filter.IsFavorited = boolQuery(c, "is_favorited")
	filter.IsInCart = boolQuery(c, "is_in_shopping_cart")

	page, limit := pageParams(c)
	recipes, total, err := h.recipes.List(c.Request.Context(), filter, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		resp, err := h.serializer.Recipe(c.Request.Context(), recipe, viewer)
		if err != nil {
			respondError(c, err)
			return
		}
		responses = append(responses, resp)
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(responses, total, page, limit))
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.serializer.Recipe(c.Request.Context(), *recipe, viewerPtr(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) Create(c *gin.Context) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	viewerID, _ := middleware.ViewerID(c)
	recipe, err := h.recipes.Create(c.Request.Context(), viewerID, toRecipeInput(req))
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.serializer.Recipe(c.Request.Context(), *recipe, &viewerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RecipeHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	viewerID, _ := middleware.ViewerID(c)
	if err := h.checkOwnership(c, id, viewerID); err != nil {
		respondError(c, err)
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), id, toRecipeInput(req))
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.serializer.Recipe(c.Request.Context(), *recipe, &viewerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	viewerID, _ := middleware.ViewerID(c)
	if err := h.checkOwnership(c, id, viewerID); err != nil {
		respondError(c, err)
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) Favorite(c *gin.Context) {
	h.addEdge(c, h.carts.Favorite)
}

func (h *RecipeHandler) Unfavorite(c *gin.Context) {
	h.removeEdge(c, h.carts.Unfavorite)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addEdge(c, h.carts.AddToCart)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeEdge(c, h.carts.RemoveFromCart)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	viewerID, _ := middleware.ViewerID(c)
	totals, err := h.carts.Aggregate(c.Request.Context(), viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", service.RenderShoppingList(totals))
}

func (h *RecipeHandler) addEdge(c *gin.Context, add func(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	viewerID, _ := middleware.ViewerID(c)
	recipe, err := add(c.Request.Context(), viewerID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.serializer.CompactRecipe(*recipe))
}

func (h *RecipeHandler) removeEdge(c *gin.Context, remove func(ctx context.Context, userID, recipeID uuid.UUID) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	viewerID, _ := middleware.ViewerID(c)
	if err := remove(c.Request.Context(), viewerID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// checkOwnership enforces author-or-read-only before the write pipeline runs
func (h *RecipeHandler) checkOwnership(c *gin.Context, recipeID, viewerID uuid.UUID) error {
	recipe, err := h.recipes.Get(c.Request.Context(), recipeID)
	if err != nil {
		return err
	}
	if recipe.AuthorID != viewerID {
		return service.ErrNotOwner
	}
	return nil
}

func toRecipeInput(req RecipeRequest) service.RecipeInput {
	ingredients := make([]service.IngredientAmount, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		ingredients = append(ingredients, service.IngredientAmount{ID: ing.ID, Amount: ing.Amount})
	}
	return service.RecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Image:       req.Image,
		TagIDs:      req.Tags,
		Ingredients: ingredients,
	}
}

func boolQuery(c *gin.Context, key string) bool {
	value := c.Query(key)
	if value == "" {
		return false
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false
	}
	return parsed
}

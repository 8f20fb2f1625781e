package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kisy34/foodgram-project-react3/internal/middleware"
	"github.com/kisy34/foodgram-project-react3/internal/service"
)

// FollowHandler serves the subscription endpoints under /users
type FollowHandler struct {
	follows    *service.FollowService
	serializer *Serializer
	auth       *service.AuthService
}

func NewFollowHandler(follows *service.FollowService, serializer *Serializer, auth *service.AuthService) *FollowHandler {
	return &FollowHandler{follows: follows, serializer: serializer, auth: auth}
}

func (h *FollowHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users", middleware.AuthMiddleware(h.auth))
	{
		users.GET("/subscriptions", h.List)
		users.POST("/:id/subscribe", h.Subscribe)
		users.DELETE("/:id/subscribe", h.Unsubscribe)
	}
}

func (h *FollowHandler) List(c *gin.Context) {
	viewerID, _ := middleware.ViewerID(c)
	page, limit := pageParams(c)
	recipeLimit, _ := strconv.Atoi(c.Query("recipe_limit"))

	follows, total, err := h.follows.List(c.Request.Context(), viewerID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]FollowResponse, 0, len(follows))
	for _, follow := range follows {
		resp, err := h.serializer.Follow(c.Request.Context(), follow, viewerID, recipeLimit)
		if err != nil {
			respondError(c, err)
			return
		}
		responses = append(responses, resp)
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(responses, total, page, limit))
}

func (h *FollowHandler) Subscribe(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
		return
	}

	viewerID, _ := middleware.ViewerID(c)
	follow, err := h.follows.Subscribe(c.Request.Context(), viewerID, authorID)
	if err != nil {
		respondError(c, err)
		return
	}

	recipeLimit, _ := strconv.Atoi(c.Query("recipe_limit"))
	resp, err := h.serializer.Follow(c.Request.Context(), *follow, viewerID, recipeLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *FollowHandler) Unsubscribe(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
		return
	}

	viewerID, _ := middleware.ViewerID(c)
	if err := h.follows.Unsubscribe(c.Request.Context(), viewerID, authorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

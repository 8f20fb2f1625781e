package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kisy34/foodgram-project-react3/internal/middleware"
	"github.com/kisy34/foodgram-project-react3/internal/service"
)

// UserHandler serves registration, profile and password endpoints
type UserHandler struct {
	users      *service.UserService
	serializer *Serializer
	auth       *service.AuthService
}

func NewUserHandler(users *service.UserService, serializer *Serializer, auth *service.AuthService) *UserHandler {
	return &UserHandler{users: users, serializer: serializer, auth: auth}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.POST("", h.Register)
		users.GET("", middleware.OptionalAuthMiddleware(h.auth), h.List)
		users.GET("/me", middleware.AuthMiddleware(h.auth), h.Me)
		users.POST("/set_password", middleware.AuthMiddleware(h.auth), h.SetPassword)
		users.GET("/:id", middleware.OptionalAuthMiddleware(h.auth), h.Get)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Email, req.Username, req.FirstName, req.LastName, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreatedUserResponse{
		Email:     user.Email,
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
}

func (h *UserHandler) List(c *gin.Context) {
	page, limit := pageParams(c)
	users, total, err := h.users.List(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	viewer := viewerPtr(c)
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		resp, err := h.serializer.User(c.Request.Context(), user, viewer)
		if err != nil {
			respondError(c, err)
			return
		}
		responses = append(responses, resp)
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(responses, total, page, limit))
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.serializer.User(c.Request.Context(), *user, viewerPtr(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) Me(c *gin.Context) {
	viewerID, _ := middleware.ViewerID(c)
	user, err := h.users.Get(c.Request.Context(), viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.serializer.User(c.Request.Context(), *user, &viewerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	var req SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	viewerID, _ := middleware.ViewerID(c)
	if err := h.users.SetPassword(c.Request.Context(), viewerID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "Done!"})
}

// viewerPtr returns the authenticated user id or nil for anonymous callers
func viewerPtr(c *gin.Context) *uuid.UUID {
	if id, ok := middleware.ViewerID(c); ok {
		return &id
	}
	return nil
}

package server

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/kisy34/foodgram-project-react3/config"
	"github.com/kisy34/foodgram-project-react3/internal/api"
	"github.com/kisy34/foodgram-project-react3/internal/router"
	"github.com/kisy34/foodgram-project-react3/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
}

// New wires the services, handlers and routes into a runnable server
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, images service.ImageStore) *Server {
	authService := service.NewAuthService(db, redisClient, cfg.JWTSecret)
	userService := service.NewUserService(db)
	followService := service.NewFollowService(db)
	recipeService := service.NewRecipeService(db, images)
	cartService := service.NewCartService(db)
	tagService := service.NewTagService(db)
	ingredientService := service.NewIngredientService(db)

	serializer := api.NewSerializer(followService, cartService, recipeService)

	engine := router.SetupRouter(
		api.NewAuthHandler(authService),
		api.NewUserHandler(userService, serializer, authService),
		api.NewFollowHandler(followService, serializer, authService),
		api.NewTagHandler(tagService),
		api.NewIngredientHandler(ingredientService),
		api.NewRecipeHandler(recipeService, cartService, serializer, authService),
	)

	return &Server{
		router: engine,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: engine,
		},
		db: db,
	}
}

// Start starts the server
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

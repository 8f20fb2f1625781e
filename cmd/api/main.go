package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kisy34/foodgram-project-react3/config"
	"github.com/kisy34/foodgram-project-react3/internal/database"
	"github.com/kisy34/foodgram-project-react3/internal/server"
	"github.com/kisy34/foodgram-project-react3/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	var images service.ImageStore
	if cfg.S3.Bucket != "" {
		images, err = service.NewS3ImageStore(context.Background(), cfg.S3)
		if err != nil {
			log.Fatalf("Failed to configure S3 image storage: %v", err)
		}
		log.Printf("Storing recipe images in S3 bucket %s", cfg.S3.Bucket)
	} else {
		images = service.NewLocalImageStore(cfg.MediaDir)
		log.Printf("Storing recipe images under %s", cfg.MediaDir)
	}

	srv := server.New(cfg, db, redisClient, images)

	errChan := make(chan error, 1)
	go func() {
		log.Println("Starting server...")
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}

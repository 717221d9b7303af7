package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/blogi/backend/internal/config"
	"github.com/blogi/backend/internal/db"
	"github.com/blogi/backend/internal/handler"
	"github.com/blogi/backend/internal/service"
)

// @title Blogi API
// @version 1.0
// @description Blogging backend with JWT authentication and owner-scoped post mutation.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("service", "blogi-backend")
	slog.SetDefault(logger)

	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx)
	if err != nil {
		logger.Error("postgres init failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := &db.Postgres{Pool: pool}
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("schema init failed", "error", err)
		os.Exit(1)
	}

	authService, err := service.NewAuthService(repo, cfg.Auth, logger)
	if err != nil {
		logger.Error("auth init failed", "error", err)
		os.Exit(1)
	}
	postService := service.NewPostService(repo)

	authHandler := handler.NewAuthHandler(authService)
	postHandler := handler.NewPostHandler(postService)

	router := gin.Default()
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowCredentials))
	router.Use(handler.RequestIDMiddleware())

	router.GET("/", handler.Root)
	router.GET("/ping", handler.Ping)
	router.GET("/openapi.json", handler.OpenAPIDoc)

	router.POST("/register", authHandler.Register)
	router.POST("/login", authHandler.Login)

	router.GET("/posts", postHandler.List)
	router.GET("/posts/:post_id", postHandler.Get)

	authed := router.Group("/", handler.AuthMiddleware(authService))
	authed.POST("/posts", postHandler.Create)
	authed.PUT("/posts/:post_id", postHandler.Update)
	authed.DELETE("/posts/:post_id", postHandler.Delete)

	logger.Info("listening", "port", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

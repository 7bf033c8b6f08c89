package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"picstream/docs"

	"picstream/internal/auth"
	"picstream/internal/cache"
	"picstream/internal/config"
	"picstream/internal/db"
	"picstream/internal/handler"
	"picstream/internal/mailer"
	"picstream/internal/repository"
	"picstream/internal/router"
	"picstream/internal/service"
	"picstream/internal/storage"
)

// @title Picstream API
// @version 1.0
// @description Social media backend: accounts with email OTP verification, posts with images, likes, comments and follows.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}
	cfg := config.Load()

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("mongodb init: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("mongodb disconnect: %v", err)
		}
	}()

	database := client.Database(cfg.MongoDB)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatalf("ensure indexes: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	imageStore, err := storage.NewS3Store(ctx, cfg.S3Endpoint, cfg.S3Region, cfg.S3Bucket, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3PublicBaseURL)
	if err != nil {
		log.Fatalf("image store init: %v", err)
	}

	mail, err := mailer.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	if err != nil {
		log.Fatalf("mailer init: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(database)
	postRepo := repository.NewPostRepository(database)
	commentRepo := repository.NewCommentRepository(database)

	// Services
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	authService := service.NewAuthService(userRepo, jwtService, mail, cfg.VerificationOTPExpiry, cfg.PasswordResetOTPExpiry)
	userService := service.NewUserService(userRepo, postRepo, imageStore)
	postService := service.NewPostService(postRepo, commentRepo, userRepo, imageStore, cacheClient)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, cfg.JWTExpiry, cfg.CookieSecure)
	userHandler := handler.NewUserHandler(userService)
	postHandler := handler.NewPostHandler(postService)

	e := echo.New()
	e.Use(middleware.RequestID())

	router.Register(e, cfg, userRepo, authHandler, userHandler, postHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

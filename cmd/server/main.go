package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ycelik/miniblog/internal/config"
	"github.com/ycelik/miniblog/internal/database"
	"github.com/ycelik/miniblog/internal/handler"
	"github.com/ycelik/miniblog/internal/middleware"
	"github.com/ycelik/miniblog/internal/repository"
	"github.com/ycelik/miniblog/internal/service"
	"github.com/ycelik/miniblog/internal/session"
	"github.com/ycelik/miniblog/pkg/logger"
)

func main() {
	cfg := config.Load()
	log.Println("Config loaded successfully")

	if err := logger.Init(!cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Database migration completed")

	// Session store (Redis)
	sessions, err := session.NewStore(cfg.RedisURL, cfg.SessionTTL)
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}
	defer sessions.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, sessions)
	postService := service.NewPostService(postRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, int(cfg.SessionTTL.Seconds()), cfg.IsProduction())
	postHandler := handler.NewPostHandler(postService)

	// Setup Gin router
	router := gin.Default()
	router.Use(cors.Default())

	// Public routes
	router.POST("/api/auth/register", authHandler.Register)
	router.POST("/api/auth/login", authHandler.Login)
	router.GET("/api/posts", postHandler.List)
	router.GET("/api/posts/:id", postHandler.GetByID)

	// Protected routes (require a session)
	protected := router.Group("/api")
	protected.Use(middleware.SessionAuth(sessions))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.POST("/posts", postHandler.Create)

		admin := protected.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.DELETE("/posts/:id", postHandler.Delete)
		}
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

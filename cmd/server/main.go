package main

import (
	"log"

	"github.com/dkrasnov/project-tracker-api/internal/auth"
	"github.com/dkrasnov/project-tracker-api/internal/config"
	"github.com/dkrasnov/project-tracker-api/internal/database"
	"github.com/dkrasnov/project-tracker-api/internal/handlers"
	"github.com/dkrasnov/project-tracker-api/internal/middleware"
	"github.com/dkrasnov/project-tracker-api/internal/repository"
	"github.com/dkrasnov/project-tracker-api/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	logger, err := newLogger(cfg.GinMode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Wire repositories and services
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		SecretKey:           cfg.JWTSecret,
		AccessTokenDuration: cfg.JWTTTL,
		Issuer:              "project-tracker-api",
	})

	authService := services.NewAuthService(userRepo, jwtManager)
	projectService := services.NewProjectService(projectRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)

	requireAuth := middleware.RequireAuth(jwtManager, userRepo)

	// The route table is built once here and never mutated afterwards.
	r := gin.New()
	r.Use(middleware.RequestLogger(logger))
	r.Use(gin.Recovery())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Auth routes (public)
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
	}

	// User routes
	users := r.Group("/users")
	{
		users.POST("/", userHandler.Register)
		users.GET("/", userHandler.ListUsers)
		users.GET("/me", requireAuth, userHandler.GetCurrentUser)
	}

	// Project routes (protected)
	projects := r.Group("/projects")
	projects.Use(requireAuth)
	{
		projects.GET("/", projectHandler.ListProjects)
		projects.POST("/", projectHandler.CreateProject)
		projects.GET("/:id", projectHandler.GetProject)
		projects.DELETE("/:id", projectHandler.DeleteProject)
	}

	// Task routes (protected)
	tasks := r.Group("/tasks")
	tasks.Use(requireAuth)
	{
		tasks.GET("/", taskHandler.ListTasks)
		tasks.POST("/", taskHandler.CreateTask)
		tasks.GET("/:id", taskHandler.GetTask)
		tasks.PATCH("/:id", taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
	}

	// Start server
	logger.Info("Server starting", zap.String("port", cfg.ServerPort))
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func newLogger(mode string) (*zap.Logger, error) {
	if mode == "release" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dkrasnov/project-tracker-api/internal/auth"
	"github.com/dkrasnov/project-tracker-api/internal/database"
	"github.com/dkrasnov/project-tracker-api/internal/middleware"
	"github.com/dkrasnov/project-tracker-api/internal/models"
	"github.com/dkrasnov/project-tracker-api/internal/repository"
	"github.com/dkrasnov/project-tracker-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	authService *services.AuthService
	jwtManager  *auth.JWTManager
}

// setupTestEnv builds the full route table against an in-memory database,
// mirroring the wiring in cmd/server.
func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		SecretKey:           "test-secret",
		AccessTokenDuration: time.Hour,
		Issuer:              "test",
	})

	authService := services.NewAuthService(userRepo, jwtManager)
	projectService := services.NewProjectService(projectRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo)

	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(authService)
	projectHandler := NewProjectHandler(projectService)
	taskHandler := NewTaskHandler(taskService)

	requireAuth := middleware.RequireAuth(jwtManager, userRepo)

	r := gin.New()
	r.POST("/auth/login", authHandler.Login)

	users := r.Group("/users")
	users.POST("/", userHandler.Register)
	users.GET("/", userHandler.ListUsers)
	users.GET("/me", requireAuth, userHandler.GetCurrentUser)

	projects := r.Group("/projects")
	projects.Use(requireAuth)
	projects.GET("/", projectHandler.ListProjects)
	projects.POST("/", projectHandler.CreateProject)
	projects.GET("/:id", projectHandler.GetProject)
	projects.DELETE("/:id", projectHandler.DeleteProject)

	tasks := r.Group("/tasks")
	tasks.Use(requireAuth)
	tasks.GET("/", taskHandler.ListTasks)
	tasks.POST("/", taskHandler.CreateTask)
	tasks.GET("/:id", taskHandler.GetTask)
	tasks.PATCH("/:id", taskHandler.UpdateTask)
	tasks.DELETE("/:id", taskHandler.DeleteTask)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return testEnv{
		db:          db,
		router:      r,
		authService: authService,
		jwtManager:  jwtManager,
	}
}

// registerUser creates a user through the service and returns it with a
// valid bearer token.
func (env testEnv) registerUser(t *testing.T, username, email string) (*models.User, string) {
	t.Helper()

	user, err := env.authService.Register(services.RegisterInput{
		Username: username,
		Email:    email,
		Password: "Pass1234",
	})
	require.NoError(t, err)

	token, err := env.jwtManager.Issue(user.ID)
	require.NoError(t, err)

	return user, token
}

// doJSON performs a request against the test router, optionally authorized.
func (env testEnv) doJSON(t *testing.T, method, url, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

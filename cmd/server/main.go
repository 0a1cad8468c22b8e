package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/trajectory-pm/trajectory/internal/config"
	"github.com/trajectory-pm/trajectory/internal/handler"
	"github.com/trajectory-pm/trajectory/internal/repository"
	"github.com/trajectory-pm/trajectory/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := sqlx.Connect("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := repository.Migrate(context.Background(), db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	slog.Info("database connected")

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	sprintRepo := repository.NewSprintRepository(db)
	featureRepo := repository.NewFeatureRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authz := service.NewAuthorizer(projectRepo)

	authSvc := service.NewAuthService(userRepo, service.AuthConfig{
		JWTSecret:          cfg.JWTSecret,
		AccessTTL:          cfg.AccessTTL,
		RefreshTTL:         cfg.RefreshTTL,
		BcryptCost:         cfg.BcryptCost,
		GoogleClientID:     cfg.GoogleClientID,
		GoogleClientSecret: cfg.GoogleClientSecret,
		GitHubClientID:     cfg.GitHubClientID,
		GitHubClientSecret: cfg.GitHubClientSecret,
		FrontendURL:        cfg.FrontendURL,
	})
	projectSvc := service.NewProjectService(projectRepo, userRepo, authz)
	sprintSvc := service.NewSprintService(sprintRepo, authz)
	featureSvc := service.NewFeatureService(featureRepo, authz)
	taskSvc := service.NewTaskService(taskRepo, featureRepo, authz)
	userSvc := service.NewUserService(userRepo, authz)

	authHandler := handler.NewAuthHandler(authSvc)
	projectHandler := handler.NewProjectHandler(projectSvc)
	sprintHandler := handler.NewSprintHandler(sprintSvc)
	featureHandler := handler.NewFeatureHandler(featureSvc)
	taskHandler := handler.NewTaskHandler(taskSvc)
	userHandler := handler.NewUserHandler(userSvc)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	e.Validator = handler.NewAppValidator()

	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(handler.RequestLogger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderContentType},
		ExposeHeaders:    []string{echo.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api/v1")

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.GET("/google", authHandler.GoogleRedirect)
	auth.GET("/google/callback", authHandler.GoogleCallback)
	auth.GET("/github", authHandler.GitHubRedirect)
	auth.GET("/github/callback", authHandler.GitHubCallback)

	// Protected routes
	protected := api.Group("", handler.JWTAuth(authSvc))

	protected.GET("/auth/me", authHandler.Me)

	protected.GET("/projects", projectHandler.List)
	protected.POST("/projects", projectHandler.Create)
	protected.GET("/projects/:projectID", projectHandler.Get)
	protected.PUT("/projects/:projectID", projectHandler.Update)
	protected.DELETE("/projects/:projectID", projectHandler.Delete)
	protected.POST("/projects/:projectID/members/:userID", projectHandler.AddMember)
	protected.DELETE("/projects/:projectID/members/:userID", projectHandler.RemoveMember)

	protected.GET("/projects/:projectID/sprints", sprintHandler.List)
	protected.POST("/projects/:projectID/sprints", sprintHandler.Create)
	protected.PUT("/projects/:projectID/sprints/:sprintID", sprintHandler.Update)
	protected.DELETE("/projects/:projectID/sprints/:sprintID", sprintHandler.Delete)

	protected.GET("/projects/:projectID/features", featureHandler.List)
	protected.POST("/projects/:projectID/features", featureHandler.Create)
	protected.GET("/projects/:projectID/features/:featureID", featureHandler.Get)
	protected.PUT("/projects/:projectID/features/:featureID", featureHandler.Update)
	protected.DELETE("/projects/:projectID/features/:featureID", featureHandler.Delete)

	protected.GET("/projects/:projectID/features/:featureID/tasks", taskHandler.ListForFeature)
	protected.POST("/projects/:projectID/features/:featureID/tasks", taskHandler.Create)
	protected.GET("/projects/:projectID/features/:featureID/tasks/:taskID", taskHandler.Get)
	protected.PUT("/projects/:projectID/features/:featureID/tasks/:taskID", taskHandler.Update)
	protected.DELETE("/projects/:projectID/features/:featureID/tasks/:taskID", taskHandler.Delete)
	protected.GET("/tasks", taskHandler.ListAssigned)
	protected.GET("/tasks/accessible", taskHandler.ListAccessible)
	protected.PATCH("/tasks/:taskID/toggle", taskHandler.Toggle)

	protected.GET("/users", userHandler.List)
	protected.GET("/users/:userID", userHandler.Get)
	protected.GET("/projects/:projectID/users", userHandler.ListForProject)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

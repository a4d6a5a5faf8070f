package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/erickaser0011-byte/royal-fox-admin/config"
	"github.com/erickaser0011-byte/royal-fox-admin/handler"
	"github.com/erickaser0011-byte/royal-fox-admin/middleware"
	"github.com/erickaser0011-byte/royal-fox-admin/pkg/logger"
	"github.com/erickaser0011-byte/royal-fox-admin/service"
	"github.com/erickaser0011-byte/royal-fox-admin/web"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional and only used for bootstrap overrides
	_ = godotenv.Load()

	configPath := os.Getenv("ROYAL_FOX_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("failed to load config", "path", configPath, "error", err)
			os.Exit(1)
		}
		cfg = config.Default()
	}

	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded", "path", configPath)

	if cfg.Auth.SessionSecret == "" {
		cfg.Auth.SessionSecret = uuid.NewString()
		slog.Warn("no session secret configured, session cookies will not survive restarts")
	}

	// Initialize services
	sessions, err := service.OpenSessionStore(cfg.Store.Path)
	if err != nil {
		slog.Error("failed to open session store", "path", cfg.Store.Path, "error", err)
		os.Exit(1)
	}
	defer sessions.Close()

	backend := service.NewBackendClient(&cfg.Backend)

	// Restore the persisted API URL from the last successful login
	if _, savedURL, err := sessions.Load(context.Background()); err != nil {
		slog.Error("failed to load persisted session", "error", err)
	} else if savedURL != "" {
		backend.SetBaseURL(savedURL)
		slog.Info("restored persisted API URL", "api_url", savedURL)
	}

	console := service.NewConsole(backend)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(cfg, sessions, backend, console)
	dashboardHandler := handler.NewDashboardHandler(backend, console)
	applicationHandler := handler.NewApplicationHandler(backend, console)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(noStoreMiddleware())

	router.SetHTMLTemplate(web.Templates())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Public routes
	router.GET("/login", authHandler.ShowLogin)
	router.POST("/login", authHandler.Login)
	router.POST("/logout", authHandler.Logout)

	// Protected routes
	protected := router.Group("/")
	protected.Use(middleware.SessionAuth(&cfg.Auth, sessions))
	{
		protected.GET("/", dashboardHandler.Show)
		protected.POST("/applications/:id/delete", applicationHandler.Delete)
		protected.GET("/applications/:id/files/:kind", applicationHandler.Download)
	}

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// noStoreMiddleware keeps the browser from caching console pages; the
// dashboard reflects mutable state and must always re-render.
func noStoreMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}

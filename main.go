package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/arjunkapoor/chatbot-lead-service/environments"
	"github.com/arjunkapoor/chatbot-lead-service/handlers"
	"github.com/arjunkapoor/chatbot-lead-service/internal/conversation"
	"github.com/arjunkapoor/chatbot-lead-service/internal/repository"
	"github.com/arjunkapoor/chatbot-lead-service/internal/scheduler"
	"github.com/arjunkapoor/chatbot-lead-service/internal/service"
	"github.com/arjunkapoor/chatbot-lead-service/pkg/crm"
	"github.com/arjunkapoor/chatbot-lead-service/pkg/database"
	"github.com/arjunkapoor/chatbot-lead-service/pkg/logger"
	"github.com/arjunkapoor/chatbot-lead-service/pkg/notify"
	"github.com/arjunkapoor/chatbot-lead-service/pkg/redis"
	"github.com/arjunkapoor/chatbot-lead-service/pkg/validator"
	"github.com/arjunkapoor/chatbot-lead-service/routes"

	_ "github.com/arjunkapoor/chatbot-lead-service/docs" // swagger docs
)

// @title Chatbot Lead Service API
// @version 1.0
// @description Guided lead-capture chat backend with resilient multi-channel submission

// @contact.name API Support
// @contact.email arjun.kapoor@adleadworks.in

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @schemes http https
func main() {
	logger.Init()
	godotenv.Load()

	cfg := environments.Load()

	// Hard-fail if required secrets are missing
	if cfg.CRM.APIToken == "" {
		logger.Fatalf("CRM_API_TOKEN is required but not set")
	}
	if cfg.Auth.LeadsAPIKey == "" {
		logger.Fatalf("LEADS_API_KEY is required but not set")
	}
	if cfg.Auth.ReconcilerAPIKey == "" {
		logger.Fatalf("RECONCILER_API_KEY is required but not set")
	}

	logger.Infof("Starting Chatbot Lead Service...")

	// Init DB (fallback store)
	db, err := database.NewMySQLDB(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	if os.Getenv("SEED_DATA") == "true" {
		if err := database.SeedDemoData(db); err != nil {
			logger.Warnf("Failed to seed demo data: %v", err)
		}
	}

	// Init redis (submitted-lead bookkeeping cache, optional)
	var redisClient *redis.Client
	redisClient, err = redis.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Warnf("Redis not available, lead cache disabled: %v", err)
		redisClient = nil
	}

	// Channel 1: primary store
	crmClient := crm.NewClient(cfg.CRM)
	logger.Infof("CRM configured: %s", crmClient.GetURL())

	// Channel 2: notification
	leadNotifier, err := notify.NewFromConfig(cfg.Notify)
	if err != nil {
		logger.Fatalf("Failed to configure notifier: %v", err)
	}
	logger.Infof("Notifier configured: %s", cfg.Notify.Driver)

	// Channel 3: fallback store
	fallbackRepo := repository.NewFallbackLeadRepository(db)

	pipeline := service.NewPipeline(
		crmClient,
		leadNotifier,
		fallbackRepo,
		leadCacheOrNil(redisClient),
		service.RetryPolicy{
			MaxAttempts: cfg.Chat.RetryAttempts,
			Delay:       cfg.Chat.RetryDelay,
		},
	)

	sessionStore := conversation.NewStore(cfg.Chat.SessionTTL)
	defer sessionStore.Close()

	dialogService := service.NewDialogService(
		sessionStore,
		pipeline,
		conversation.DefaultCatalog(),
		cfg.Chat,
	)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Reconciler: replays fallback rows whose primary submission failed
	reconcileService := service.NewReconcileService(fallbackRepo, crmClient, cfg.Reconcile.BatchSize)
	sched := scheduler.NewScheduler(reconcileService, cfg.Reconcile.Interval)

	healthHandler := handlers.NewHealthHandler(db, redisClient, sessionStore)
	chatHandler := handlers.NewChatHandler(dialogService)
	leadHandler := handlers.NewLeadHandler(fallbackRepo, redisClient)
	reconcilerHandler := handlers.NewReconcilerHandler(sched, ctx, cfg)

	if os.Getenv("AUTO_START_RECONCILER") != "false" {
		logger.Infof("Auto-starting reconciler...")
		if err := sched.Start(ctx); err != nil {
			logger.Warnf("Failed to auto-start reconciler: %v", err)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()

	e.Use(middleware.Logger())
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			"x-lead-auth-key",
		},
	}))

	routes.RegisterRoutes(e, healthHandler, chatHandler, leadHandler, reconcilerHandler, cfg)

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Infof("Server starting on http://localhost%s", addr)
		logger.Infof("Swagger docs available at http://localhost%s/swagger/index.html", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down gracefully...")

	cancel()

	if sched.IsRunning() {
		logger.Infof("Stopping reconciler...")
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()

		done := make(chan error, 1)
		go func() {
			done <- sched.Stop()
		}()

		select {
		case err := <-done:
			if err != nil {
				logger.Errorf("Error stopping reconciler: %v", err)
			} else {
				logger.Infof("Reconciler stopped successfully")
			}
		case <-stopCtx.Done():
			logger.Warnf("Reconciler stop timeout, forcing shutdown")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	logger.Infof("Shutting down HTTP server...")
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	} else {
		logger.Infof("HTTP server stopped successfully")
	}

	if closer, ok := leadNotifier.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Errorf("Error closing notifier: %v", err)
		}
	}

	logger.Infof("Closing database connection...")
	if err := db.Close(); err != nil {
		logger.Errorf("Error closing database: %v", err)
	}

	if redisClient != nil {
		logger.Infof("Closing Redis connection...")
		if err := redisClient.Close(); err != nil {
			logger.Errorf("Error closing Redis: %v", err)
		}
	}

	logger.Infof("Graceful shutdown completed")
}

// leadCacheOrNil avoids handing the pipeline a typed-nil interface when Redis
// is not available.
func leadCacheOrNil(client *redis.Client) service.LeadCache {
	if client == nil {
		return nil
	}
	return client
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pizzastack/pizzastack-backend/config"
	"github.com/pizzastack/pizzastack-backend/internal/app/controller"
	"github.com/pizzastack/pizzastack-backend/internal/app/repository"
	"github.com/pizzastack/pizzastack-backend/internal/app/service"
	"github.com/pizzastack/pizzastack-backend/internal/db"
	"github.com/pizzastack/pizzastack-backend/internal/middleware"
	"github.com/pizzastack/pizzastack-backend/internal/router"
	"github.com/pizzastack/pizzastack-backend/internal/scheduler"
	"github.com/pizzastack/pizzastack-backend/internal/session"
	"github.com/pizzastack/pizzastack-backend/pkg/factory"
	"github.com/pizzastack/pizzastack-backend/pkg/logger"
	"github.com/pizzastack/pizzastack-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting pizzastack Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Bootstrap the default admin when none exists yet
	if err := db.Seed(&cfg.Admin); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Initialize Redis (session store backend)
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to initialize Redis", err)
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	sessions := session.NewStore(redis.GetClient(), cfg.JWT.TokenExpiry)

	// Outbound factory client
	factoryClient, err := factory.NewClient(factory.Config{
		BaseURL: cfg.Factory.BaseURL,
		APIKey:  cfg.Factory.APIKey,
	})
	if err != nil {
		logger.Fatal("Failed to create factory client", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	franchiseRepo := repository.NewFranchiseRepository(db.GetDB())
	menuRepo := repository.NewMenuRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(userRepo, sessions, cfg.JWT.Secret, cfg.JWT.TokenExpiry)
	userService := service.NewUserService(userRepo, authService)
	franchiseService := service.NewFranchiseService(franchiseRepo, userRepo)
	orderService := service.NewOrderService(orderRepo, menuRepo, franchiseRepo, factoryClient)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	userController := controller.NewUserController(userService)
	franchiseController := controller.NewFranchiseController(franchiseService)
	orderController := controller.NewOrderController(orderService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, sessions, userRepo)

	// Setup router
	r := router.NewRouter(
		authController,
		userController,
		franchiseController,
		orderController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start the factory health probe
	healthScheduler := scheduler.NewFactoryHealthScheduler(factoryClient)
	if err := healthScheduler.Start(); err != nil {
		logger.Warn("Failed to start factory health scheduler", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer healthScheduler.Stop()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}

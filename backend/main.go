package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"esiksha/backend/authz"
	"esiksha/backend/config"
	"esiksha/backend/routes"
	"esiksha/backend/services"
	"esiksha/backend/storage"
	"esiksha/backend/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		logger.Fatal("Error initializing database", "error", err)
	}
	if err := utils.Migrate(db); err != nil {
		logger.Fatal("Error migrating database", "error", err)
	}

	enforcer, err := authz.NewEnforcer()
	if err != nil {
		logger.Fatal("Error loading authorization policy", "error", err)
	}

	store, err := storage.NewLocalStore(cfg.UploadDir, cfg.MaxUploadSize)
	if err != nil {
		logger.Fatal("Error preparing upload directory", "error", err)
	}

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		auth := services.NewAuthService(db, logger, cfg)
		if _, created, err := auth.EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
			logger.Error("Admin bootstrap failed", "error", err)
		} else if created {
			logger.Info("Admin account created", "email", cfg.AdminEmail)
		}
	}

	app := routes.NewApp(cfg, logger)
	routes.SetupRoutes(app, db, cfg, logger, store, enforcer)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("Server shutdown failed", "error", err)
		}
	}()

	logger.Info("Server starting", "port", cfg.ServerPort, "env", cfg.Env, "db", cfg.DBDriver)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logger.Fatal("Server stopped", "error", err)
	}
	if err := utils.CloseDB(db); err != nil {
		logger.Warn("Error closing database", "error", err)
	}
}

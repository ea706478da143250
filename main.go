// main.go
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"lodging-booking/cmd"
	"lodging-booking/internal/data/repository"
	"lodging-booking/internal/notify"
	"lodging-booking/internal/wire"
	"lodging-booking/pkg/database"
	"lodging-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	// Connect to database and apply migrations
	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Outbound reservation events (webhook or log-only)
	notifier := notify.NewNotifier(config.Notify.WebhookURL, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, config, notifier, logger)

	// Background auto-confirm sweep
	app.Service.Sweep.Start(ctx)
	defer app.Service.Sweep.Stop()

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(ctx, app.Router, config.App.Port); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}

	logger.Info("Server stopped")
}

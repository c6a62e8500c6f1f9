package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mediadeck/internal/api"
	"mediadeck/internal/config"
	"mediadeck/internal/controllers"
	"mediadeck/internal/models"
	"mediadeck/internal/scheduler"
	"mediadeck/internal/services/catalog"
	"mediadeck/internal/session"
	"mediadeck/internal/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel)
	logger.Info("Starting mediadeck")
	logger.WithField("api", cfg.APIBaseURL).Info("Configuration loaded")

	// 3. Initialize local database
	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info("Local storage initialized")

	// 4. Initialize catalog client
	client, err := catalog.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize catalog client: %w", err)
	}
	logger.Info("Catalog client initialized")

	// 5. Initialize session store and re-validate any persisted token
	sess, err := session.NewStore(client, db, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sess.IsAuthenticated() {
		if err := sess.CheckAuth(ctx); err != nil {
			logger.WithError(err).Warn("Stored session rejected, starting unauthenticated")
		}
	}

	// 6. Initialize controllers
	// Deletion confirmation is collected by the view layer (the HTTP
	// surface requires an explicit confirm parameter), so the
	// controller-level prompt accepts.
	confirmed := func(models.Media) bool { return true }
	listCtrl := controllers.NewListController(client, sess, cfg.PageSize, cfg.DeleteRollback, confirmed, logger)
	formEditor := controllers.NewFormEditor(client, sess, listCtrl, logger)
	logger.Info("Controllers initialized")

	// Warm the cache with the first page when a session exists
	if sess.IsAuthenticated() {
		if err := listCtrl.Refresh(ctx); err != nil {
			logger.WithError(err).Warn("Failed to load initial media page")
		}
	}

	// 7. Initialize scheduler
	sched := scheduler.NewScheduler(sess, cfg.AuthRecheckSpec, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 8. Initialize HTTP server
	server := api.NewServer(cfg, sess, listCtrl, formEditor, logger)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 9. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("mediadeck is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("mediadeck stopped")
	return nil
}

// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/campaign-wizard/internal/config"
	"github.com/javajoker/campaign-wizard/internal/database"
	"github.com/javajoker/campaign-wizard/internal/i18n"
	"github.com/javajoker/campaign-wizard/internal/indexsync"
	"github.com/javajoker/campaign-wizard/internal/logger"
	"github.com/javajoker/campaign-wizard/internal/router"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize logger")
	}

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db); err != nil {
			logrus.WithError(err).Fatal("Failed to run migrations")
		}
	}

	// Initialize i18n
	if err := i18n.Initialize(cfg.I18n.LocalesPath, cfg.I18n.DefaultLocale); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize i18n")
	}

	// Search index: Postgres always, NATS when configured
	postgresIndex := indexsync.NewPostgresIndexer(db)
	indexers := []indexsync.Indexer{postgresIndex}
	if cfg.Index.NATSURL != "" {
		natsIndex, err := indexsync.NewNATSIndexer(ctx, indexsync.NATSConfig{
			URL:           cfg.Index.NATSURL,
			Stream:        cfg.Index.NATSStream,
			SubjectPrefix: cfg.Index.NATSSubjectPrefix,
		})
		if err != nil {
			logrus.WithError(err).Fatal("Failed to connect search index to NATS")
		}
		defer natsIndex.Close()
		indexers = append(indexers, natsIndex)
	}

	synchronizer := indexsync.NewSynchronizer(indexsync.Options{
		Workers:         cfg.Index.Workers,
		QueueSize:       cfg.Index.QueueSize,
		MaxAttempts:     cfg.Index.MaxAttempts,
		InitialInterval: cfg.Index.InitialInterval,
		MaxInterval:     cfg.Index.MaxInterval,
		AttemptTimeout:  cfg.Index.AttemptTimeout,
	}, indexers...)
	synchronizer.Start(ctx)

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := router.Initialize(db, cfg, synchronizer, postgresIndex)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize router")
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithField("addr", srv.Addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server")

	timeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	}

	// Drain pending index work after HTTP traffic has stopped
	if err := synchronizer.Stop(timeout); err != nil {
		logrus.WithError(err).Warn("Index synchronizer did not drain in time")
	}

	logrus.Info("Server exited")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"laundry-status-monitor/config"
	"laundry-status-monitor/internal/api"
	"laundry-status-monitor/internal/collector"
	"laundry-status-monitor/internal/db"
	"laundry-status-monitor/internal/logging"
	"laundry-status-monitor/internal/metrics"
	"laundry-status-monitor/internal/notification"
	"laundry-status-monitor/internal/scraper"
	"laundry-status-monitor/internal/store"
)

func main() {
	if err := godotenv.Load(); err == nil {
		logrus.Debug("loaded .env")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		logrus.WithError(err).WithField("path", configPath).Fatal("Failed to load configuration")
	}
	if err := logging.Setup(cfg.Log); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}
	logrus.WithField("path", configPath).Info("Configuration loaded")

	// The database backs both the database store and push subscriptions.
	var gormDB *gorm.DB
	if cfg.Storage.Driver == "database" || cfg.Database.DSN != "" {
		gormDB, err = db.Init(&cfg.Database)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to initialize database")
		}
		defer func() {
			if err := db.Close(gormDB); err != nil {
				logrus.WithError(err).Warn("Failed to close database")
			}
		}()
		logrus.Info("Database initialized")
	}

	snapshots, err := store.New(cfg.Storage, gormDB)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize snapshot store")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()
	client := scraper.NewClient(cfg.Scraper)
	opts := []collector.Option{collector.WithMetrics(m)}

	var webpushOptions *webpush.Options
	if cfg.Push.Enabled() && gormDB != nil {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions)
		pool.Start(ctx)
		opts = append(opts, collector.WithAlerts(notification.NewWatcher(3*cfg.Collector.Interval), pool))
		logrus.WithField("workers", cfg.WorkerPool.Size).Info("Push notifications enabled")
	} else {
		logrus.Info("Push notifications disabled: VAPID keys or database not configured")
	}

	recorder := collector.NewRecorder(client, snapshots, cfg.Collector, opts...)
	go recorder.Run(ctx)

	handler, err := api.NewHandler(client, snapshots, gormDB, webpushOptions)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize API handler")
	}
	router := api.NewRouter(handler, cfg.Server, m)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logrus.WithField("port", cfg.Server.Port).Info("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("HTTP server ListenAndServe")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logrus.Info("Shutdown signal received, stopping services...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("HTTP server Shutdown")
	}

	logrus.Info("Server gracefully stopped")
}

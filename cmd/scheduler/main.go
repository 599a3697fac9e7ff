package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"post_scheduler/internal/api"
	"post_scheduler/internal/comment"
	"post_scheduler/internal/config"
	"post_scheduler/internal/facebook"
	"post_scheduler/internal/publisher"
	"post_scheduler/internal/scheduler"
	"post_scheduler/internal/service"
	"post_scheduler/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Outcome events are optional: without a broker URL the dispatcher
	// runs with reconciliation only.
	var events service.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		events = rabbitMQ
	}

	// Initialize stores
	contentStore := postgres.NewContentStore(db)
	pageStore := postgres.NewPageStore(db)
	templateStore := postgres.NewTemplateStore(db)
	txManager := postgres.NewTransactionManager(db)

	// Initialize Graph client
	graph := facebook.New(facebook.Config{
		BaseURL:      cfg.Graph.BaseURL,
		VideoBaseURL: cfg.Graph.VideoBaseURL,
		APIVersion:   cfg.Graph.APIVersion,
		Timeout:      cfg.Graph.Timeout,
		VideoTimeout: cfg.Graph.VideoTimeout,
	}, logger)

	splitter := comment.NewSplitter(comment.WithThreshold(cfg.Scheduler.ShuffleThreshold))

	executor := service.NewPublishExecutor(graph, splitter, logger)
	dispatchService := service.NewDispatchService(
		executor,
		pageStore,
		contentStore,
		templateStore,
		events,
		logger,
	)
	scanService := service.NewScanService(contentStore, dispatchService, cfg.Scheduler.UTCOffsetHours, logger)
	pageSyncService := service.NewPageSyncService(graph, pageStore, txManager, logger)

	sched := scheduler.NewScheduler(scanService, cfg.Scheduler.ScanTimeout, logger)

	server := api.NewServer(
		contentStore,
		templateStore,
		pageStore,
		dispatchService,
		scanService,
		sched,
		pageSyncService,
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	go func() {
		logger.Info("api listening", "addr", cfg.Server.Addr)
		if err := server.Listen(cfg.Server.Addr); err != nil {
			logger.Error("api server error", "error", err)
			cancel()
		}
	}()
	defer server.Shutdown()

	logger.Info("starting post scheduler",
		"utc_offset_hours", cfg.Scheduler.UTCOffsetHours,
		"scan_timeout", cfg.Scheduler.ScanTimeout,
	)

	if err := sched.Start(ctx); err != nil && err != context.Canceled {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}

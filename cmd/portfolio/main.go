package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"genai_portfolio/internal/api"
	"genai_portfolio/internal/config"
	"genai_portfolio/internal/publisher"
	"genai_portfolio/internal/scheduler"
	"genai_portfolio/internal/seed"
	"genai_portfolio/internal/service"
	"genai_portfolio/internal/storage/memory"
	"genai_portfolio/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	dataset, err := seed.Load(cfg.Content.SeedFile)
	if err != nil {
		logger.Error("failed to load content", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var pub service.Publisher
	if cfg.RabbitMQ.Enabled() {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			BindingKey: cfg.RabbitMQ.BindingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	var (
		repo        service.ContentRepository
		subscribers service.SubscriberStore
		contacts    service.ContactStore
		txManager   service.TransactionManager
		cache       *memory.Cache
		health      func(ctx context.Context) error
	)

	if cfg.Database.Enabled() {
		db, err := sqlx.Connect("postgres", cfg.Database.DSN())
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		logger.Info("connected to database")

		contentStore := postgres.NewContentStore(db)
		txManager = postgres.NewTransactionManager(db)

		seeder := service.NewSeedService(
			cfg.Content.Dataset,
			contentStore,
			postgres.NewCategoryStore(db),
			postgres.NewSeedStateStore(db),
			txManager,
			logger,
		)
		if _, err := seeder.Seed(ctx, dataset); err != nil {
			logger.Error("failed to seed content", "error", err)
			os.Exit(1)
		}

		cache = memory.NewCache(contentStore, logger)
		repo = cache
		subscribers = postgres.NewSubscriberStore(db)
		contacts = postgres.NewContactStore(db)
		health = db.PingContext
	} else {
		logger.Info("no database configured, serving content from memory")
		repo = memory.NewContentStore(dataset)
		subscribers = memory.NewSubscriberStore()
		contacts = memory.NewContactStore()
		txManager = memory.NewTransactionManager()
	}

	contentService := service.NewContentService(
		repo,
		pub,
		service.NewLikeGuard(cfg.Sessions.LikeTTL, cfg.Sessions.CleanupInterval),
		logger,
	)
	submissionService := service.NewSubmissionService(subscribers, contacts, txManager, pub, logger)

	router := api.NewRouter(api.Deps{
		Content:     contentService,
		Submissions: submissionService,
		Metrics:     api.NewMetrics(),
		Limiter:     api.NewIPRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst),
		CORSOrigins: cfg.Server.CORSOrigins,
		Health:      health,
		Logger:      logger,
	})
	server := api.NewServer(cfg.Server, router, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if cache != nil {
		sched := scheduler.NewScheduler(cache, cfg.Content.RefreshInterval, logger)
		g.Go(func() error {
			if err := sched.Start(gctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("server error", "error", err)
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

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"filetrack/internal/directory"
	"filetrack/internal/file"
	"filetrack/internal/history"
	"filetrack/internal/ledger"
	"filetrack/internal/notify"
	"filetrack/internal/platform/config"
	"filetrack/internal/platform/httpserver"
	"filetrack/internal/platform/logger"
	"filetrack/internal/platform/metrics"
	"filetrack/internal/platform/postgres"
	platformredis "filetrack/internal/platform/redis"
	"filetrack/internal/platform/token"
	"filetrack/internal/routing"
	httptransport "filetrack/internal/transport/http"
)

// main wires storage, cache, notification sink and the HTTP surface, then
// runs everything under one errgroup so a single failure tears the process
// down cleanly. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Storage: Postgres when configured, in-memory otherwise.
	var (
		fileStore  file.Store
		eventStore ledger.Store
		dirStore   directory.Store
		applier    routing.Applier
	)
	if cfg.PostgresDSN != "" {
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.Migrate(db); err != nil {
			return err
		}
		fileStore = file.NewPostgres(db)
		eventStore = ledger.NewPostgres(db)
		dirStore = directory.NewPostgres(db)
		applier = routing.NewPostgresApplier(db)
		log.Info("using postgres storage")
	} else {
		fileStore = file.NewInMemoryStore()
		eventStore = ledger.NewInMemoryStore()
		dirStore = directory.NewInMemoryStore()
		log.Warn("no postgres DSN configured, using in-memory storage")
	}

	// Directory lookups are hot on every transfer; cache them when Redis is
	// available.
	if cfg.RedisURL != "" {
		redisClient, err := platformredis.New(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		dirStore = directory.NewCachedStore(dirStore, redisClient, log)
		log.Info("directory cache enabled")
	}

	// Notifications: Kafka when brokers are configured, otherwise an
	// in-process queue drained by a logging worker.
	var notifier notify.Notifier
	var worker *notify.Worker
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := notify.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return err
		}
		defer publisher.Close()
		notifier = publisher
		log.Info("kafka notifications enabled", "topic", cfg.KafkaTopic)
	} else {
		queue := notify.NewQueue(256)
		worker = notify.NewWorker(notify.NewLogSink(log), queue.Events(), log)
		notifier = queue
	}

	resolver := directory.NewResolver(dirStore)
	engineOpts := []routing.Option{
		routing.WithLockWait(cfg.LockWait),
		routing.WithConflictRetries(cfg.ConflictRetries),
	}
	if applier != nil {
		engineOpts = append(engineOpts, routing.WithApplier(applier))
	}
	engine := routing.NewEngine(fileStore, eventStore, resolver, notifier, m, log, engineOpts...)
	fileService := file.NewService(fileStore, eventStore, resolver, log)
	builder := history.NewBuilder(eventStore)
	tokenService := token.NewService(cfg.JWTSigningKey, "filetrack")

	router := httptransport.NewRouter(httptransport.Deps{
		Files:     httptransport.NewFilesHandler(fileService, builder, log, m),
		Routing:   httptransport.NewRoutingHandler(engine, log),
		Directory: httptransport.NewDirectoryHandler(dirStore, log),
		Validator: tokenService,
		Gatherer:  prometheus.DefaultGatherer,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting filetrack server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if worker != nil {
		g.Go(func() error {
			return worker.Run(ctx)
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("server stopped")
	return nil
}

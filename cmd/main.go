package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"rideconnect/internal/config"
	"rideconnect/internal/domain"
	"rideconnect/internal/events"
	"rideconnect/internal/identity"
	"rideconnect/internal/server"
	"rideconnect/internal/stats"
	"rideconnect/internal/store/memory"
	"rideconnect/internal/store/postgres"
	"rideconnect/migrations"
	"rideconnect/pkg/db"
	"rideconnect/pkg/kafka"
	"rideconnect/pkg/logger"
	rredis "rideconnect/pkg/redis"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── 1. Config + logger ──
	cfg := config.Load()
	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Dev: cfg.LogDev})
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// ── 2. Store ──
	store, closeStore := openStore(ctx, cfg, log)
	defer closeStore()

	deps := server.Deps{Store: store}

	// ── 3. Redis ──
	var redisClient *rredis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = rredis.NewClient(ctx, cfg.RedisAddr, log)
		if err != nil {
			log.Fatalw("redis unavailable", "addr", cfg.RedisAddr, "err", err)
		}
		defer redisClient.Close()
		deps.SessionCache = redisClient
		deps.Guests = redisClient
	}

	// ── 4. Kafka ──
	if len(cfg.KafkaBrokers) > 0 {
		kafkaClient := kafka.NewClient(cfg.KafkaBrokers, log)
		defer kafkaClient.Close()

		if err := kafkaClient.EnsureTopics(ctx, events.All...); err != nil {
			log.Fatalw("kafka topics", "err", err)
		}
		deps.Events = kafkaClient

		// stats are only cached when something evicts them
		if redisClient != nil {
			deps.StatsCache = redisClient
			stats.NewInvalidator(kafkaClient, redisClient, log).Start(ctx)
		}
	}

	// ── 5. External identity ──
	if cfg.IdentityURL != "" {
		deps.Identity = identity.NewClient(cfg.IdentityURL)
	}

	// ── 6. HTTP router ──
	svc := server.NewServices(deps, cfg.SessionTTL, log)
	r := server.NewRouter(svc, server.Options{
		CORSOrigins:   cfg.CORSOrigins,
		CookieSecure:  cfg.CookieSecure,
		AuthRateLimit: cfg.AuthRateLimit,
		AuthRateBurst: cfg.AuthRateBurst,
	}, log)

	// ── 7. Start server ──
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		log.Infow("rideconnect listening", "port", cfg.Port, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "err", err)
		}
	}()

	// ── 8. Graceful shutdown ──
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down...")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Warnw("shutdown", "err", err)
	}
	cancel() // stop consumers
}

func openStore(ctx context.Context, cfg config.Config, log *zap.SugaredLogger) (domain.Store, func()) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn("using in-memory store; data is lost on restart")
		return memory.New(), func() {}
	case config.DriverPostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL, log)
		if err != nil {
			log.Fatalw("postgres unavailable", "err", err)
		}
		if err := database.RunMigrations(ctx, migrations.FS); err != nil {
			log.Fatalw("migrations failed", "err", err)
		}
		return postgres.New(database.Pool), database.Close
	default:
		log.Fatalw("unknown STORE_DRIVER", "driver", cfg.StoreDriver)
		return nil, nil
	}
}

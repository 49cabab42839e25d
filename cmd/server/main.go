package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/subosito/gotenv"

	"github.com/Spok95/contracts-hub/internal/config"
	"github.com/Spok95/contracts-hub/internal/domain/catalog"
	"github.com/Spok95/contracts-hub/internal/domain/contracts"
	"github.com/Spok95/contracts-hub/internal/domain/policy"
	"github.com/Spok95/contracts-hub/internal/domain/views"
	"github.com/Spok95/contracts-hub/internal/infra/db"
	httpx "github.com/Spok95/contracts-hub/internal/infra/http"
	"github.com/Spok95/contracts-hub/internal/infra/logger"
	"github.com/Spok95/contracts-hub/internal/infra/notify"
)

func runMigrations(dsn string, log *slog.Logger) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN, log); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	contractsRepo := contracts.NewRepo(pool)
	catalogRepo := catalog.NewRepo(pool)

	var buildOpts []views.Option
	if cfg.Views.DedupeTrialRenewals {
		buildOpts = append(buildOpts, views.WithDedupeTrialRenewals())
	}
	builder := views.NewBuilder(policy.Defaults(nil), buildOpts...)

	h := httpx.NewHandler(log, contractsRepo, catalogRepo, builder, cfg.Shop.Marketplace)
	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, h)
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	if cfg.Notify.Enabled && cfg.Telegram.Token != "" {
		notifier, err := notify.NewNotifier(log, cfg.Telegram.Token, cfg.Telegram.AdminChatID)
		if err != nil {
			log.Error("telegram notifier init failed", "err", err)
			return
		}
		interval, err := time.ParseDuration(cfg.Notify.Interval)
		if err != nil {
			log.Error("bad notify interval", "interval", cfg.Notify.Interval, "err", err)
			return
		}
		sweeper := notify.NewSweeper(log, contractsRepo, catalogRepo, builder, notifier,
			cfg.Shop.Marketplace, cfg.Notify.WindowDays, interval)
		go sweeper.Run(ctx)
		log.Info("expiry notifier started", "window_days", cfg.Notify.WindowDays, "interval", cfg.Notify.Interval)
	}

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}

package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m3r1v3/Cryptifica/internal/alarm"
	"github.com/m3r1v3/Cryptifica/internal/bot"
	"github.com/m3r1v3/Cryptifica/internal/chart"
	"github.com/m3r1v3/Cryptifica/internal/database"
	errs "github.com/m3r1v3/Cryptifica/internal/errors"
	"github.com/m3r1v3/Cryptifica/internal/favorites"
	"github.com/m3r1v3/Cryptifica/internal/health"
	"github.com/m3r1v3/Cryptifica/internal/market"
	"github.com/m3r1v3/Cryptifica/internal/session"
	"github.com/m3r1v3/Cryptifica/pkg/config"
	"github.com/m3r1v3/Cryptifica/pkg/graceful"
	"github.com/m3r1v3/Cryptifica/pkg/logger"
	appredis "github.com/m3r1v3/Cryptifica/pkg/redis"
)

const (
	migrationsDir   = "migrations"
	startupTimeout  = 30 * time.Second
	defaultHTTPPort = ":8080"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(*cfg)
	slog.SetDefault(log)
	config.Watch(v, log)

	log.Info("starting Cryptifica",
		slog.String("env", cfg.AppEnv),
		slog.String("provider", cfg.Provider.BaseURL),
	)

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.AppEnv,
		}); err != nil {
			return err
		}
		defer sentry.Flush(2 * time.Second)
	}

	errHandler := errs.NewHandler(log, cfg.Sentry.Enabled)

	startupCtx, cancelStartup := context.WithTimeout(ctx, startupTimeout)
	defer cancelStartup()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Error("error closing database", slog.Any("error", cerr))
		}
	}()

	if err := db.PingContext(startupCtx); err != nil {
		return err
	}

	migrator := database.NewMigrator(db, log)
	if err := migrator.ApplyDir(startupCtx, migrationsDir); err != nil {
		return err
	}

	redisClient, err := appredis.New(startupCtx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := redisClient.Close(); cerr != nil {
			log.Error("error closing redis", slog.Any("error", cerr))
		}
	}()

	marketClient := market.NewClient(cfg.Provider.BaseURL, cfg.Provider.Timeout, log)
	catalog := market.NewCatalog(marketClient, cfg.Provider.RefreshInterval, log)
	if err := catalog.Refresh(startupCtx); err != nil {
		// The bot can start with an empty catalog; the refresh loop will fill
		// it once the provider is back.
		log.Error("initial catalog refresh failed", slog.Any("error", err))
	}
	go catalog.Run(ctx)

	renderer := chart.NewRenderer(log)
	favStore := favorites.NewPostgresStore(db, log)
	sessions := session.NewRedisStorage(redisClient, session.DefaultTTL, log)
	alarmRepo := alarm.NewPostgresRepository(db, log)

	var scheduler *alarm.Scheduler

	tgBot, err := bot.New(cfg.Bot, func(p bot.Presenter) *bot.Router {
		scheduler = alarm.NewScheduler(favStore, marketClient, bot.NotifierFromPresenter(p), alarmRepo, log)
		return bot.NewRouter(p, catalog, marketClient, renderer, scheduler, favStore, sessions, errHandler, log)
	}, errHandler, log)
	if err != nil {
		return err
	}

	if err := scheduler.Restore(startupCtx); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	checker := health.NewChecker(log)
	checker.AddCheck("database", health.NewDBChecker(db))
	checker.AddCheck("redis", health.NewRedisChecker(redisClient.Client))
	checker.AddCheck("catalog", health.NewCatalogChecker(func() int { return len(catalog.List()) }))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", checker.Handler())

	port := cfg.Server.Port
	if port == "" {
		port = defaultHTTPPort
	}

	httpServer := graceful.NewServer(log, &http.Server{
		Addr:              port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}, cfg.Server.ShutdownTimeout)

	go func() {
		if err := httpServer.ListenAndServe(ctx); err != nil {
			log.Error("http server stopped", slog.Any("error", err))
		}
	}()

	go tgBot.Start()
	defer tgBot.Stop()

	<-ctx.Done()
	log.Info("shutting down")
	return nil
}

package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/evcraddock/invest-compare/internal/auth"
	"github.com/evcraddock/invest-compare/internal/comparison"
	"github.com/evcraddock/invest-compare/internal/config"
	"github.com/evcraddock/invest-compare/internal/db"
	"github.com/evcraddock/invest-compare/internal/logging"
	"github.com/evcraddock/invest-compare/internal/metrics"
	"github.com/evcraddock/invest-compare/internal/web"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the HTTP API that computes and stores comparisons.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if flagDB != "" {
				cfg.Database.Driver = string(db.SQLite)
				cfg.Database.DSN = flagDB
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on (overrides config)")

	return cmd
}

// app is a fully wired server and the resources it holds.
type app struct {
	server  *http.Server
	handler *web.Server
	db      *sql.DB
	redis   *redis.Client
	log     *zap.Logger
}

// newApp opens the database and optional cache and builds the HTTP server.
func newApp(cfg *config.Config, log *zap.Logger) (*app, error) {
	dialect, err := cfg.Database.Dialect()
	if err != nil {
		return nil, err
	}
	database, err := db.Connect(dialect, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	a := &app{db: database, log: log}

	var cache comparison.Cache
	if cfg.Redis.Address != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.redis.Ping(ctx).Err(); err != nil {
			log.Warn("redis unavailable, comparisons will be read from the database",
				zap.String("address", cfg.Redis.Address), zap.Error(err))
		}
		cache = comparison.NewRedisCache(a.redis, cfg.Redis.TTL)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc := comparison.NewService(comparison.NewRepository(database, dialect), cache, metrics.New(reg), log)

	webCfg := web.Config{
		Gatherer:        reg,
		Logger:          log,
		CreatePerMinute: cfg.RateLimit.PerMinute,
		CreateBurst:     cfg.RateLimit.Burst,
	}
	if cfg.Auth.Enabled {
		webCfg.APIKeys = auth.NewAPIKeyStore(database, dialect)
	}
	a.handler = web.NewServer(svc, webCfg)

	a.server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      a.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return a, nil
}

// Close releases everything newApp opened.
func (a *app) Close() {
	a.handler.Close()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("closing redis", zap.Error(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.log.Warn("closing database", zap.Error(err))
	}
}

func runServe(cfg *config.Config) error {
	log, err := logging.Setup(cfg.Log.Dev)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	a, err := newApp(cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server starting",
			zap.String("addr", a.server.Addr),
			zap.String("database", cfg.Database.Driver),
			zap.Bool("auth", cfg.Auth.Enabled),
			zap.Bool("cache", a.redis != nil),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

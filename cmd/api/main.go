package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mymoneyapp/backend/internal/cache"
	"github.com/mymoneyapp/backend/internal/config"
	"github.com/mymoneyapp/backend/internal/db"
	httpx "github.com/mymoneyapp/backend/internal/http"
	"github.com/mymoneyapp/backend/internal/observability"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env, cfg.OTelEnabled)

	// optional tracing
	var shutdownTracer func(context.Context) error

	if cfg.OTelEnabled {
		var err error

		shutdownTracer, err = observability.InitTracer(context.Background(), "moneyapp", cfg.OTLPEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}
	}

	// database pool + schema
	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db connection failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	ctx, cancel := config.WithTimeout(10 * time.Second)

	err = db.EnsureSchema(ctx, pool)

	cancel()

	if err != nil {
		log.Error("schema setup failed", "err", err)
		os.Exit(1)
	}

	// redis summary cache is optional; the service runs without it
	var redisCache *cache.Client

	if cfg.RedisAddr != "" {
		redisCache = cache.New(cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.SummaryCacheTTL(),
		})

		pingCtx, pingCancel := config.WithTimeout(2 * time.Second)

		err = redisCache.Ping(pingCtx)

		pingCancel()

		if err != nil {
			log.Warn("redis unreachable, summary cache disabled", "err", err)
			_ = redisCache.Close()
			redisCache = nil
		}
	}

	// set up routers with the log
	router := httpx.NewRouter(log, pool, redisCache, cfg)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// start server using a concurrent go-routine driven anonymous function.

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctxTimeOut := 10 * time.Second

		ctx, cancel := config.WithTimeout(ctxTimeOut)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}

		if shutdownTracer != nil {
			_ = shutdownTracer(ctx)
		}

		if redisCache != nil {
			_ = redisCache.Close()
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}

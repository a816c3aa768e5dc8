package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mymoneyapp/backend/internal/auth"
	"github.com/mymoneyapp/backend/internal/cache"
	"github.com/mymoneyapp/backend/internal/config"
	"github.com/mymoneyapp/backend/internal/http/handlers"
	"github.com/mymoneyapp/backend/internal/http/middlewares"
	"github.com/mymoneyapp/backend/internal/observability"
	"github.com/mymoneyapp/backend/internal/repo/postgres"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, redisCache *cache.Client, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())

	if cfg.OTelEnabled {
		r.Use(otelgin.Middleware("moneyapp"))
	}

	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middlewares.MaxBodyBytes(1 << 20))

	// metrics

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	r.Use(prom.GinHandleMiddleware())
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// health

	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	// wire up repositories and the token manager

	usersRepo := postgres.NewUsersRepo(pool, prom)
	billingRepo := postgres.NewBillingCyclesRepo(pool, prom)
	tokenManager := auth.NewManager(cfg.AuthSecret, cfg.TokenTTL())

	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, tokenManager, prom)

	var summaryCache handlers.SummaryCache

	if redisCache != nil {
		summaryCache = redisCache
	}

	billingHandler := handlers.NewBillingCyclesHandler(billingRepo, summaryCache)

	requireAuth := middlewares.NewAuthMiddleware(tokenManager).RequireAuth()

	// all application routes live under /api

	api := r.Group("/api", middlewares.RequireJSON())

	api.POST("/signup", authHandler.SignUp)
	api.POST("/login", authHandler.Login)
	api.POST("/validate-token", authHandler.ValidateToken)

	billing := api.Group("/billingCycles", requireAuth)

	billing.GET("", billingHandler.ListBillingCycles)
	billing.POST("", billingHandler.CreateBillingCycle)
	billing.GET("/count", billingHandler.CountBillingCycles)
	billing.GET("/summary", billingHandler.GetSummary)
	billing.GET("/:id", billingHandler.GetBillingCycleById)
	billing.PUT("/:id", billingHandler.UpdateBillingCycle)
	billing.DELETE("/:id", billingHandler.DeleteBillingCycle)

	return r
}

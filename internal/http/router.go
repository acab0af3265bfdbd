package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/calloway/itemvault/internal/auth"
	"github.com/calloway/itemvault/internal/config"
	"github.com/calloway/itemvault/internal/http/handlers"
	"github.com/calloway/itemvault/internal/http/middlewares"
	"github.com/calloway/itemvault/internal/observability"
	"github.com/calloway/itemvault/internal/ratelimit"
	"github.com/calloway/itemvault/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// metrics registry
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	prom := observability.NewProm(reg)

	// middleware
	r.Use(Recovery(log))
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Use(prom.GinHandleMiddleware())
	r.Use(otelgin.Middleware("itemvault"))

	// consistent envelopes for unrouted paths and wrong methods
	r.HandleMethodNotAllowed = true
	r.NoRoute(func(ctx *gin.Context) {
		handlers.RespondStatus(ctx, http.StatusNotFound, "Not found.", nil)
	})
	r.NoMethod(func(ctx *gin.Context) {
		handlers.RespondStatus(ctx, http.StatusMethodNotAllowed, "Method not allowed.", nil)
	})

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
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool, prom)
	itemsRepo := postgres.NewItemsRepo(pool, prom)

	// token manager + auth middleware
	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL(), cfg.RefreshTTL())
	authMw := middlewares.NewAuthMiddleware(jwtManager)

	// brute-force guard on the credential endpoints
	var limiter ratelimit.Limiter

	if cfg.RedisAddr != "" {
		limiter = ratelimit.NewRedisLimiter(cfg.RedisAddr, cfg.RateLimit, cfg.RateWindow())
	} else {
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit, cfg.RateWindow())
	}

	// handlers
	authHandler := handlers.NewAuthHandler(usersRepo, jwtManager, log)
	itemsHandler := handlers.NewItemsHandler(itemsRepo, log)

	RegisterRoutes(r, authHandler, itemsHandler, authMw, limiter)

	return r
}

// RegisterRoutes mounts the route table; tests reuse it with fake stores.
func RegisterRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	itemsHandler *handlers.ItemsHandler,
	authMw *middlewares.AuthMiddleware,
	limiter ratelimit.Limiter,
) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", middlewares.RateLimit(limiter), authHandler.Register)
		authGroup.POST("/login", middlewares.RateLimit(limiter), authHandler.Login)
		authGroup.POST("/token/refresh", authHandler.Refresh)

		profile := authGroup.Group("", authMw.RequireAuth())
		profile.GET("/profile", authHandler.GetProfile)
		profile.PUT("/profile", authHandler.UpdateProfile)
		profile.PATCH("/profile", authHandler.UpdateProfile)
	}

	items := r.Group("/items", authMw.RequireAuth())
	{
		items.GET("", itemsHandler.List)
		items.POST("", itemsHandler.Create)
		items.GET("/analytics/category-density", itemsHandler.CategoryDensity)
		items.GET("/:id", itemsHandler.Get)
		items.PUT("/:id", itemsHandler.Update)
		items.DELETE("/:id", itemsHandler.Delete)
	}
}

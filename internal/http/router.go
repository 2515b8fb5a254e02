package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/geocoder89/contacthub/docs"
	"github.com/geocoder89/contacthub/internal/auth"
	"github.com/geocoder89/contacthub/internal/config"
	"github.com/geocoder89/contacthub/internal/http/handlers"
	"github.com/geocoder89/contacthub/internal/http/middlewares"
	"github.com/geocoder89/contacthub/internal/observability"
	"github.com/geocoder89/contacthub/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" && cfg.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// own registry so tests can build routers independently
	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(otelgin.Middleware("contacthub"))
	r.Use(prom.GinHandleMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))

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

	// static API docs
	r.GET("/swagger", handlers.SwaggerUI)
	r.GET("/docs/openapi.yaml", func(ctx *gin.Context) {
		ctx.Data(200, "application/yaml", docs.OpenAPI)
	})

	// wire up the token service once; register/login issue with the same
	// manager the guard verifies with
	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	authMW := middlewares.NewAuthMiddleware(jwtManager)

	usersRepo := postgres.NewUsersRepo(pool, prom)
	contactsRepo := postgres.NewContactsRepo(pool, prom)

	authHandler := handlers.NewAuthHandler(usersRepo, jwtManager)
	contactsHandler := handlers.NewContactsHandler(contactsRepo)

	authGroup := r.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	contacts := r.Group("/contacts", authMW.RequireAuth())
	contacts.POST("", contactsHandler.AddContact)
	contacts.GET("", contactsHandler.ListContacts)
	contacts.GET("/:id", contactsHandler.GetContact)
	contacts.DELETE("/:id", contactsHandler.DeleteContact)

	return r
}

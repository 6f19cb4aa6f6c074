package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	cataloghttp "github.com/DanielPerezVapo/panaderia-api/internal/domains/catalog/adapters/http"
	catalogmemory "github.com/DanielPerezVapo/panaderia-api/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/DanielPerezVapo/panaderia-api/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/DanielPerezVapo/panaderia-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/DanielPerezVapo/panaderia-api/internal/domains/catalog/application"

	ordershttp "github.com/DanielPerezVapo/panaderia-api/internal/domains/orders/adapters/http"
	ordersmemory "github.com/DanielPerezVapo/panaderia-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/DanielPerezVapo/panaderia-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/DanielPerezVapo/panaderia-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/DanielPerezVapo/panaderia-api/internal/domains/orders/application"
	ordersports "github.com/DanielPerezVapo/panaderia-api/internal/domains/orders/ports"

	userhttp "github.com/DanielPerezVapo/panaderia-api/internal/domains/users/adapters/http"
	usermemory "github.com/DanielPerezVapo/panaderia-api/internal/domains/users/adapters/memory"
	userobs "github.com/DanielPerezVapo/panaderia-api/internal/domains/users/adapters/observability"
	userpostgres "github.com/DanielPerezVapo/panaderia-api/internal/domains/users/adapters/persistence/postgres"
	userapp "github.com/DanielPerezVapo/panaderia-api/internal/domains/users/application"
	userports "github.com/DanielPerezVapo/panaderia-api/internal/domains/users/ports"

	catalogports "github.com/DanielPerezVapo/panaderia-api/internal/domains/catalog/ports"
	"github.com/DanielPerezVapo/panaderia-api/internal/platform/migrations"
	platformobservability "github.com/DanielPerezVapo/panaderia-api/internal/platform/observability"
	platformpostgres "github.com/DanielPerezVapo/panaderia-api/internal/platform/postgres"
)

// Run boots the storefront HTTP API with observability, repositories,
// and the reservation engine wired.
func Run(ctx context.Context) error {
	const serviceName = "panaderia-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanup()
	catalogRepo, uow, userRepo, sessions := buildRepositories(db, logger)

	catalogService := catalogobs.New(
		catalogapp.NewService(catalogRepo),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	orderService := ordersobs.New(
		ordersapp.NewService(uow),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	userService := userobs.New(
		userapp.NewService(userRepo, sessions, userapp.WithSessionTTL(cfg.SessionTTL)),
		userobs.WithLogger(logger),
		userobs.WithTracer(instruments.Tracer("internal.users.application")),
		userobs.WithMeter(instruments.Meter("internal.users.application")),
	)

	userHandler := userhttp.NewHandler(userService, cfg.SessionTTL)
	catalogHandler := cataloghttp.NewHandler(catalogService, logger)
	orderHandler := ordershttp.NewHandler(orderService)

	router := gin.Default()
	router.Use(otelgin.Middleware(serviceName))
	router.Use(userHandler.Resolve())

	userHandler.Register(router)
	orderHandler.Register(router)
	admin := router.Group("/", userHandler.RequireAuth(), userHandler.RequireAdmin())
	catalogHandler.Register(router, admin)

	registerPages(router, userHandler, cfg.StaticDir)

	addr := ":" + cfg.Port
	logger.Info("Panaderia API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("Panaderia API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// registerPages wires the landing page, the admin-only page, and static
// asset serving.
func registerPages(router *gin.Engine, userHandler *userhttp.Handler, staticDir string) {
	router.GET("/", func(c *gin.Context) {
		c.File(filepath.Join(staticDir, "index.html"))
	})
	router.GET("/index2.html", userHandler.RedirectGuests(), userHandler.RequireAdmin(), func(c *gin.Context) {
		c.File(filepath.Join(staticDir, "index2.html"))
	})
	router.NoRoute(func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			c.FileFromFS(c.Request.URL.Path, http.Dir(staticDir))
			return
		}
		c.Status(http.StatusNotFound)
	})
}

func buildRepositories(db *gorm.DB, logger *slog.Logger) (catalogports.Repository, ordersports.UnitOfWork, userports.Repository, userports.SessionStore) {
	if db == nil {
		// Single shared product map so reservations and catalog reads agree.
		catalogRepo := catalogmemory.NewRepository()
		return catalogRepo,
			ordersmemory.NewUnitOfWork(catalogRepo),
			usermemory.NewRepository(),
			usermemory.NewSessionStore()
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("schema migration failed", slog.String("error", err.Error()))
	}
	return catalogpostgres.NewRepository(db),
		orderspostgres.NewUnitOfWork(db),
		userpostgres.NewRepository(db),
		userpostgres.NewSessionStore(db)
}

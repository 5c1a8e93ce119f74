package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/quoteforge/quoteforge/internal/api"
	v1 "github.com/quoteforge/quoteforge/internal/api/v1"
	"github.com/quoteforge/quoteforge/internal/cache"
	"github.com/quoteforge/quoteforge/internal/catalog"
	"github.com/quoteforge/quoteforge/internal/config"
	"github.com/quoteforge/quoteforge/internal/engine"
	"github.com/quoteforge/quoteforge/internal/logger"
	"github.com/quoteforge/quoteforge/internal/repository"
	"github.com/quoteforge/quoteforge/internal/service"
	"github.com/quoteforge/quoteforge/internal/types"
	"github.com/quoteforge/quoteforge/internal/validator"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.Initialize,

			// Repositories
			repository.NewProductRepository,
			repository.NewFieldRepository,
			repository.NewRuleRepository,
			repository.NewQuoteRepository,

			// Rule engine
			engine.New,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,
			service.NewCatalogService,
			service.NewQuoteService,
		),
	)

	// Catalog seed and API
	opts = append(opts,
		fx.Provide(
			catalog.NewLoader,
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			seedCatalog,
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	catalogService service.CatalogService,
	quoteService service.QuoteService,
) api.Handlers {
	return api.Handlers{
		Product: v1.NewProductHandler(catalogService, logger),
		Form:    v1.NewFormHandler(quoteService, logger),
		Quote:   v1.NewQuoteHandler(quoteService, logger),
	}
}

func provideRouter(handlers api.Handlers) *gin.Engine {
	return api.NewRouter(handlers)
}

func seedCatalog(loader *catalog.Loader, log *logger.Logger) error {
	if err := loader.Load(context.Background()); err != nil {
		log.Errorw("catalog seed failed", "error", err)
		return err
	}
	return nil
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}

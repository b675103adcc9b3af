package main

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/totegamma/saucebox/internal/config"
	"github.com/totegamma/saucebox/internal/infra/cache"
	"github.com/totegamma/saucebox/internal/infra/database"
	"github.com/totegamma/saucebox/internal/infra/repository"
	"github.com/totegamma/saucebox/internal/infra/storage"
	"github.com/totegamma/saucebox/internal/present/rest"
	authmw "github.com/totegamma/saucebox/internal/present/rest/middleware"
	"github.com/totegamma/saucebox/internal/service"
	"github.com/totegamma/saucebox/internal/usecase"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the api server",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(path)
			if err != nil {
				return errors.Wrap(err, "failed to load configuration")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	setupLogger(cfg.Server.Log)

	if cfg.Server.EnableTrace {
		shutdown, err := setupTraceProvider(ctx, cfg.Server.TraceEndpoint)
		if err != nil {
			return errors.Wrap(err, "failed to set up tracing")
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(shutdownCtx)
		}()
	}

	db, err := database.NewPostgres(cfg.Server.PostgresDsn)
	if err != nil {
		return errors.Wrap(err, "failed to connect database")
	}
	err = database.Migrate(db)
	if err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}

	images, err := storage.NewImageStore(cfg.Server.ImageDir)
	if err != nil {
		return errors.Wrap(err, "failed to prepare image directory")
	}

	var sauceCache usecase.SauceCache
	if cfg.Server.MemcachedAddr != "" {
		sauceCache = cache.NewMemcacheSauceCache(database.NewMemcached(cfg.Server.MemcachedAddr))
	} else {
		sauceCache = cache.NewLocalSauceCache()
	}

	var publisher usecase.EventPublisher = service.NopPublisher{}
	var stream rest.EventStream
	if cfg.Server.RedisAddr != "" {
		rdb, err := database.NewRedis(ctx, cfg.Server.RedisAddr, cfg.Server.RedisPassword, cfg.Server.RedisDB)
		if err != nil {
			return errors.Wrap(err, "failed to connect redis")
		}
		defer rdb.Close()

		signalService := service.NewSignalService(rdb)
		publisher = signalService
		stream = signalService
	}

	domainConfig := cfg.ToDomain()

	sauceUsecase := usecase.NewSauceUsecase(repository.NewSauceRepository(db), images, sauceCache, publisher)
	userUsecase := usecase.NewUserUsecase(repository.NewUserRepository(db), domainConfig)
	authMiddleware := authmw.NewAuthMiddleware(service.NewAuthService(domainConfig))

	e := echo.New()
	e.HideBanner = true
	if cfg.Server.EnableTrace {
		e.Use(otelecho.Middleware("saucebox"))
	}
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	rest.NewHandler(sauceUsecase, userUsecase, stream, images.Dir()).RegisterRoutes(e, authMiddleware)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", slog.String("listen", cfg.Server.Listen), slog.String("module", "cli"))
		errCh <- e.Start(cfg.Server.Listen)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	slog.Info("server shutting down", slog.String("module", "cli"))
	return e.Shutdown(shutdownCtx)
}

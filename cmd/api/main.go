package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"invdash/docs"
	"invdash/internal/config"
	"invdash/internal/database"
	"invdash/internal/database/migration"
	handlers "invdash/internal/http/handler"
	"invdash/internal/http/middleware"
	"invdash/internal/logging"
	"invdash/internal/metrics"
	"invdash/internal/otel"
	"invdash/internal/repository"
	"invdash/internal/service"
	"invdash/internal/storage"
	"invdash/internal/store"
	"invdash/internal/store/jsonfile"
	"invdash/internal/store/kv"
	"invdash/internal/store/memory"
	"invdash/internal/store/postgres"
)

const maxUploadBytes = 50 << 20

// @title Inventory Dashboard API
// @version 1.0
// @BasePath /
func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}

// run serves the API until SIGINT or SIGTERM. Resources opened here are
// released on every return path.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logger := logging.Setup(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		return fmt.Errorf("initialize tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.WithError(err).Warn("tracing shutdown failed")
		}
	}()

	docStore, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	defer closeStore()

	repo := repository.NewDocumentRepository(docStore, repository.WithLogger(logger))
	if err := repo.Initialize(ctx); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	inventory, err := metrics.NewInventory(reg)
	if err != nil {
		return fmt.Errorf("register inventory metrics: %w", err)
	}
	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}

	var blobs storage.Storage
	if cfg.MinIO.Enabled() {
		blobs, err = storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return fmt.Errorf("initialize object storage: %w", err)
		}
	} else {
		logger.Info("object storage disabled, keeping file metadata only")
	}
	previews := storage.NewPreviews(cfg.Files.PreviewMaxBytes, inventory)

	svcs := handlers.Services{
		Files: service.NewFileService(repo, blobs, previews, service.FileServiceConfig{
			BaseURL:       cfg.Files.BaseURL,
			PresignExpiry: time.Duration(cfg.Files.PresignExpiry) * time.Second,
		}, logger),
		Products: service.NewProductService(repo, inventory, logger),
		Orders:   service.NewOrderService(repo, inventory, logger),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    maxUploadBytes,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger))
	app.Use(promMW.Handler())
	app.Use(otelfiber.Middleware())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	handlers.RegisterRoutes(app, func(ctx context.Context) error {
		_, err := repo.GetDocument(ctx)
		return err
	}, svcs)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(sctx); err != nil {
			logger.WithError(err).Warn("server shutdown failed")
		}
	}()

	addr := ":" + cfg.Port
	logger.WithFields(logrus.Fields{"addr": addr, "backend": cfg.Store.Backend}).Info("starting server")
	if err := app.Listen(addr); err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return nil
}

// openStore builds the document store selected by STORE_BACKEND. The
// returned func releases whatever the backend holds open.
func openStore(ctx context.Context, cfg *config.AppConfig, logger logrus.FieldLogger) (store.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendFile:
		s, err := jsonfile.New(cfg.Store.FilePath, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil

	case config.BackendBadger:
		s, err := kv.Open(cfg.Store.BadgerDir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			if err := s.Close(); err != nil {
				logger.WithError(err).Warn("badger close failed")
			}
		}, nil

	case config.BackendPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrate database: %w", err)
		}
		return postgres.NewDocumentPostgres(db), func() { _ = db.Close() }, nil

	case config.BackendMemory:
		logger.Warn("memory store selected, data is lost on exit")
		return memory.New(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

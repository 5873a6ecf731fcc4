package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/employee-directory/internal/api/http"
	"github.com/spec-kit/employee-directory/internal/api/http/handlers"
	"github.com/spec-kit/employee-directory/internal/catalog"
	"github.com/spec-kit/employee-directory/internal/config"
	"github.com/spec-kit/employee-directory/internal/events"
	"github.com/spec-kit/employee-directory/internal/observability"
	"github.com/spec-kit/employee-directory/internal/persistence"
	"github.com/spec-kit/employee-directory/internal/repository"
	"github.com/spec-kit/employee-directory/internal/service"
	"github.com/spec-kit/employee-directory/internal/storage"
)

// multipart framing and text fields on top of the image itself
const formOverheadBytes = 1 << 20

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(cfg.Postgres.MigrationsDir, cfg.Postgres.DSN, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()
	var publisher service.EventPublisher
	var redisPinger handlers.Pinger
	if redis != nil {
		publisher = redis.Client
		redisPinger = redis
	}
	service.NewNotificationService(dispatcher, publisher, cfg.Redis.EventsChannel, logger).RegisterHandlers()

	store, uploadsDir, err := newImageStore(cfg.Images)
	if err != nil {
		logger.Fatal("failed to init image storage", zap.Error(err))
	}
	attachments := storage.NewAttachmentService(store, cfg.Images.MaxBytes, logger)

	employeeService := service.NewEmployeeService(service.EmployeeDependencies{
		EmployeeRepo: repository.NewEmployeeRepository(pg.PoolHandle()),
		Images:       attachments,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})

	departments, err := catalog.Load()
	if err != nil {
		logger.Fatal("failed to load department catalog", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	app := httptransport.NewApp(logger, metrics, httptransport.ServerOptions{
		AppName:        cfg.App.Name,
		BodyLimit:      int(cfg.Images.MaxBytes) + formOverheadBytes,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redisPinger, metrics),
		Employees:   handlers.NewEmployeeHandler(employeeService),
		Departments: handlers.NewDepartmentHandler(departments),
		UploadsDir:  uploadsDir,
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(cfg.HTTP.ShutdownTimeout); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
}

// newImageStore returns the configured backend and, for the local driver, the directory to
// serve under /uploads.
func newImageStore(cfg config.ImageConfig) (storage.ImageStore, string, error) {
	if cfg.Driver == config.ImageDriverCloudinary {
		store, err := storage.NewCloudinaryStore(cfg.Cloudinary)
		return store, "", err
	}
	store, err := storage.NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL)
	if err != nil {
		return nil, "", err
	}
	return store, store.Dir(), nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

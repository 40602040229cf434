// @title Syllabus Buddy API
// @version 1.0
// @description Study aid API: upload a syllabus, generate practice questions per topic and track practice history.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8090
// @BasePath /api
// @schemes http
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"syllabus-buddy/internal/adapter"
	"syllabus-buddy/internal/adapter/aigen"
	"syllabus-buddy/internal/adapter/appearance"
	"syllabus-buddy/internal/cache"
	"syllabus-buddy/internal/config"
	"syllabus-buddy/internal/database"
	"syllabus-buddy/internal/domain"
	"syllabus-buddy/internal/handler"
	"syllabus-buddy/internal/logger"
	"syllabus-buddy/internal/middleware"
	"syllabus-buddy/internal/service"

	_ "syllabus-buddy/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		// Process request
		err := c.Next()

		// Log request details
		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
		)

		return err
	}
}

// openStore connects the configured state backend. The returned func releases it.
func openStore(ctx context.Context, cfg config.StoreConfig) (domain.KeyValueStore, func(), error) {
	switch cfg.Backend {
	case "redis":
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return adapter.NewRedisStoreAdapter(client), func() { _ = client.Close() }, nil
	case "sql":
		db, err := database.NewSQLXDB(ctx, cfg.SQL)
		if err != nil {
			return nil, nil, err
		}
		return adapter.NewSQLStoreAdapter(db), func() { _ = db.Close() }, nil
	case "file":
		store, err := adapter.NewFileStoreAdapter(afero.NewOsFs(), cfg.File.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store backend: %s", cfg.Backend)
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx := context.Background()

	kv, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		appLogger.Fatal("Failed to open state store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer closeStore()
	appLogger.Info("State store initialized", zap.String("backend", cfg.Store.Backend))
	stateStore := service.NewStateStore(kv, cache.NewStateKeys(cfg.Store.KeyPrefix))

	aiClient, err := aigen.NewFromConfig(ctx, cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	// OS appearance: relayed by the browser, or read from a watched file
	var (
		appearanceSource domain.AppearanceSource
		appearanceRelay  handler.AppearanceRelay
	)
	switch cfg.Appearance.Source {
	case "file":
		fileSource, err := appearance.NewFileSource(cfg.Appearance.FilePath)
		if err != nil {
			appLogger.Fatal("Failed to watch appearance file", zap.String("path", cfg.Appearance.FilePath), zap.Error(err))
		}
		defer fileSource.Close()
		appearanceSource = fileSource
	default:
		manual := appearance.NewManualSource(false)
		appearanceSource = manual
		appearanceRelay = manual
	}

	// Initialize services
	sessionService := service.NewSessionService(stateStore, aiClient, aiClient,
		service.WithDefaultQuestionCount(cfg.Practice.DefaultQuestionCount),
		service.WithCallTimeout(cfg.LLM.Timeout),
	)
	sessionService.Start(ctx)

	preferenceService := service.NewPreferenceService(stateStore, appearanceSource, cfg.Preferences.DefaultRegion)
	preferenceService.Start(ctx)
	defer preferenceService.Close()
	preferenceService.Observe(func(mode domain.DisplayMode) {
		appLogger.Info("Display mode changed", zap.String("mode", string(mode)))
	})

	// Initialize handlers
	studyHandler := handler.NewStudyHandler(sessionService, preferenceService)
	preferenceHandler := handler.NewPreferenceHandler(preferenceService, appearanceRelay)
	healthHandler := handler.NewHealthHandler(sessionService)
	validationMiddleware := middleware.NewValidationMiddleware(int64(cfg.Server.BodyLimit))

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	handler.RegisterRoutes(app.Group("/api"), validationMiddleware, studyHandler, preferenceHandler, healthHandler)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Let in-flight classification and generation persist their results.
	sessionService.Wait()
	appLogger.Info("Server exited gracefully")
}

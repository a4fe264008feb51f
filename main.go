package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"authapi/internal/config"
	"authapi/internal/handlers"
	"authapi/internal/logging"
	"authapi/internal/middleware"
	"authapi/internal/models"
	"authapi/internal/repositories"
	"authapi/internal/services"
	"authapi/pkg/rabbitmq"
)

func main() {
	// The logger is constructed exactly once and injected everywhere.
	log := logging.NewDefault()

	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := openDatabase(cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		log.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}
	userRepo := repositories.NewGORMUserRepository(db)

	// Auth events are optional: without a broker URL the service runs with
	// publishing disabled.
	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
		if err != nil {
			log.Error("failed to initialize RabbitMQ client", "error", err)
			os.Exit(1)
		}
		defer mqClient.Close()
		events = mqClient

		// Audit consumer: drains the auth-events queue into the log.
		if err := mqClient.ConsumeAuthEvents(func(msg amqp.Delivery) error {
			log.Info("auth event", "body", string(msg.Body))
			return nil
		}); err != nil {
			log.Warn("failed to start auth-event consumer", "error", err)
		}
	}

	app, err := NewApp(cfg, userRepo, events, log)
	if err != nil {
		log.Error("failed to assemble application", "error", err)
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("starting server", "port", cfg.AppPort)
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error("error during shutdown", "error", err)
	}
	log.Info("server stopped")
}

// NewApp wires repositories, services, handlers and middleware into a Fiber
// application. events may be nil.
func NewApp(cfg *config.Config, userRepo repositories.UserRepository, events services.EventPublisher, log logging.Logger) (*fiber.App, error) {
	hasher := services.NewPasswordHasher()
	tokens := services.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	authService, err := services.NewAuthService(userRepo, hasher, tokens, events, log, cfg.LoginField)
	if err != nil {
		return nil, err
	}
	authHandler := handlers.NewAuthHandler(authService, cfg, log)

	app := fiber.New(fiber.Config{
		BodyLimit: cfg.BodyLimitBytes,
	})

	// The request logger is a pipeline stage wrapping the handler call; it
	// sees both the request and the produced response.
	app.Use(fiberrecover.New())
	app.Use(helmet.New())
	app.Use(cors.New())
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	apiV1 := app.Group("/api/v1", limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: cfg.RateLimitWindow,
	}))
	authHandler.RegisterRoutes(apiV1, middleware.AuthRequired(tokens, userRepo, log))

	// Catch-all for unmatched routes.
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": fiber.Map{"message": "Route not found"},
		})
	})

	return app, nil
}

// openDatabase connects to PostgreSQL when a DSN is configured and falls
// back to a local SQLite file otherwise.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{TranslateError: true}
	if cfg.DatabaseDSN != "" {
		return gorm.Open(postgres.Open(cfg.DatabaseDSN), gormCfg)
	}
	return gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
}

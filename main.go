package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	amqp "github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"bookbazaar/internal/config"
	"bookbazaar/internal/handlers"
	"bookbazaar/internal/middleware"
	"bookbazaar/internal/models"
	"bookbazaar/internal/repositories"
	"bookbazaar/internal/services"
	"bookbazaar/pkg/logger"
	"bookbazaar/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Config{Env: cfg.AppEnv, Level: cfg.LogLevel})

	// --- Database ---
	// TranslateError maps driver duplicate-key errors onto
	// gorm.ErrDuplicatedKey so repositories can translate them.
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Book{},
		&models.Note{},
		&models.Image{},
		&models.Review{},
		&models.Transaction{},
		&models.Payment{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// --- Event publisher ---
	// The broker is optional: without RABBITMQ_URL (or when unreachable)
	// the app runs with a no-op publisher.
	var events rabbitmq.Publisher = rabbitmq.NoopPublisher{}
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ unavailable, events disabled")
		} else {
			events = mqClient
			defer mqClient.Close()
		}
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	bookRepo := repositories.NewGORMBookRepository(db)
	noteRepo := repositories.NewGORMNoteRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	reviewRepo := repositories.NewGORMReviewRepository(db)
	transactionRepo := repositories.NewGORMTransactionRepository(db)
	paymentRepo := repositories.NewGORMPaymentRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpire)
	bookService := services.NewBookService(bookRepo, events, log)
	noteService := services.NewNoteService(noteRepo, events, log)
	categoryService := services.NewCategoryService(categoryRepo)
	reviewService := services.NewReviewService(reviewRepo, bookRepo, noteRepo)
	transactionService := services.NewTransactionService(transactionRepo, paymentRepo, bookRepo, noteRepo, events, log)
	userService := services.NewUserService(userRepo)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	bookHandler := handlers.NewBookHandler(bookService)
	noteHandler := handlers.NewNoteHandler(noteService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	userHandler := handlers.NewUserHandler(userService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(fiberlogger.New())

	protect := middleware.AuthRequired(authService)

	api := app.Group("/api")
	authHandler.RegisterRoutes(api, protect)
	bookHandler.RegisterRoutes(api, protect)
	noteHandler.RegisterRoutes(api, protect)
	categoryHandler.RegisterRoutes(api, protect)
	reviewHandler.RegisterRoutes(api, protect)
	transactionHandler.RegisterRoutes(api, protect)
	userHandler.RegisterRoutes(api, protect)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Event consumer ---
	if mqClient != nil {
		err := mqClient.ConsumeEvents(func(msg amqp.Delivery) error {
			log.Info().Str("event", msg.Type).RawJSON("body", msg.Body).Msg("marketplace event")
			return nil
		})
		if err != nil {
			log.Warn().Err(err).Msg("failed to start event consumer")
		}
	}

	// --- Start server with graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.AppPort).Msg("starting server")
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server stopped")
}

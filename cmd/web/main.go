package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"data-validation/internal/config"
	"data-validation/internal/database"
	"data-validation/internal/router"
	"data-validation/internal/service"
	"data-validation/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

func main() {
	log := utils.GetLogger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	log = utils.NewLogger(cfg.LogLevel, os.Stdout)

	// Run history is optional
	var db *sqlx.DB
	if cfg.DBEnabled {
		db, err = database.NewMySQL(cfg)
		if err != nil {
			log.WithError(err).Warn("Failed to connect to database, run history disabled")
			db = nil
		} else {
			defer db.Close()
		}
	}

	// Redis is optional (report cache and background runs)
	var redisClient *redis.Client
	if cfg.RedisEnabled {
		redisClient, err = database.NewRedis(cfg)
		if err != nil {
			log.WithError(err).Warn("Failed to connect to Redis, caching and background runs disabled")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	// Background runs need the queue, which lives in Redis
	var queue *asynq.Client
	if redisClient != nil {
		queue = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		})
		defer queue.Close()
	}

	validationService, err := service.NewValidationServiceFromConfig(cfg, db, redisClient, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize validator")
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	// Setup routes
	router.Setup(app, router.Deps{
		DB:                db,
		Redis:             redisClient,
		Queue:             queue,
		ValidationService: validationService,
		Logger:            log,
	}, cfg)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := fmt.Sprintf(":%s", cfg.AppPort)
	log.WithField("port", port).Info("Server starting")
	if err := app.Listen(port); err != nil {
		log.WithError(err).Fatal("Failed to start server")
	}

	log.Info("Server exited")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return utils.ErrorResponse(c, code, message, err)
}

package router

import (
	"data-validation/internal/config"
	"data-validation/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Deps carries the optional infrastructure the routes are wired against.
// DB, Redis and Queue may be nil. The caller owns and closes them.
type Deps struct {
	DB                *sqlx.DB
	Redis             *redis.Client
	Queue             *asynq.Client
	ValidationService *service.ValidationService
	Logger            *logrus.Logger
}

func Setup(app *fiber.App, deps Deps, cfg *config.Config) {
	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"app":      cfg.AppName,
			"database": deps.DB != nil,
			"redis":    deps.Redis != nil,
		})
	})

	// API routes (JSON)
	api := app.Group("/api/v1")
	SetupAPIRoutes(api, deps, cfg)
}

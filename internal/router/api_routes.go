package router

import (
	"data-validation/internal/config"
	"data-validation/internal/handler"
	"data-validation/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAPIRoutes(
	router fiber.Router,
	deps Deps,
	cfg *config.Config,
) {
	// A nil *asynq.Client must stay a nil interface
	var enqueuer handler.TaskEnqueuer
	if deps.Queue != nil {
		enqueuer = deps.Queue
	}

	validationHandler := handler.NewValidationHandler(deps.ValidationService, enqueuer, cfg, deps.Logger)

	// Protected routes
	protected := router.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/schema", validationHandler.GetSchema)

	// Validation routes
	validations := protected.Group("/validations")
	validations.Get("/", validationHandler.GetValidations)
	validations.Get("/latest", validationHandler.GetLatestValidation)
	validations.Get("/:run_code", validationHandler.GetValidation)
	validations.Post("/", middleware.RequireRole("admin", "runner"), validationHandler.CreateValidation)
}

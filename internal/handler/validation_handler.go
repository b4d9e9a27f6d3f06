package handler

import (
	"errors"
	"path/filepath"
	"strings"

	"data-validation/internal/config"
	"data-validation/internal/models"
	"data-validation/internal/service"
	"data-validation/internal/utils"
	"data-validation/internal/worker"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type ValidationHandler struct {
	validationService *service.ValidationService
	enqueuer          TaskEnqueuer
	cfg               *config.Config
	logger            *logrus.Logger
}

func NewValidationHandler(
	validationService *service.ValidationService,
	enqueuer TaskEnqueuer,
	cfg *config.Config,
	logger *logrus.Logger,
) *ValidationHandler {
	return &ValidationHandler{
		validationService: validationService,
		enqueuer:          enqueuer,
		cfg:               cfg,
		logger:            logger,
	}
}

type createValidationRequest struct {
	TrainFilePath string `json:"train_file_path"`
	TestFilePath  string `json:"test_file_path"`
	Async         bool   `json:"async"`
}

func (h *ValidationHandler) CreateValidation(c *fiber.Ctx) error {
	var req createValidationRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
		}
	}

	// Fall back to the configured ingestion output
	if req.TrainFilePath == "" {
		req.TrainFilePath = h.cfg.TrainFilePath
	}
	if req.TestFilePath == "" {
		req.TestFilePath = h.cfg.TestFilePath
	}
	if !h.withinArtifactDir(req.TrainFilePath) || !h.withinArtifactDir(req.TestFilePath) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File paths must be inside the artifact directory", nil)
	}

	if req.Async {
		return h.enqueueValidation(c, req)
	}

	run, err := h.validationService.Validate(c.UserContext(), models.DataIngestionArtifact{
		TrainedFilePath: req.TrainFilePath,
		TestFilePath:    req.TestFilePath,
	})
	if err != nil {
		return h.validationError(c, err)
	}

	return utils.SuccessResponse(c, "Validation completed", run)
}

func (h *ValidationHandler) enqueueValidation(c *fiber.Ctx, req createValidationRequest) error {
	if h.enqueuer == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Background job processing is not available (Redis not connected)", nil)
	}

	runCode := service.NewRunCode()
	task, err := worker.NewValidationTask(worker.ValidationTaskPayload{
		RunCode:       runCode,
		TrainFilePath: req.TrainFilePath,
		TestFilePath:  req.TestFilePath,
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to build validation task", err)
	}

	info, err := h.enqueuer.Enqueue(task)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to queue validation task", err)
	}

	h.logger.WithFields(logrus.Fields{"run_code": runCode, "job_id": info.ID}).Info("Validation task queued")
	return utils.AcceptedResponse(c, "Validation queued", fiber.Map{
		"run_code": runCode,
		"job_id":   info.ID,
	})
}

func (h *ValidationHandler) GetValidations(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)

	runs, total, err := h.validationService.List(params.Limit, params.Offset())
	if errors.Is(err, service.ErrHistoryUnavailable) {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Validation history is not available", err)
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve validation runs", err)
	}

	if runs == nil {
		runs = []models.ValidationRun{}
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Validation runs retrieved successfully", runs, pagination)
}

func (h *ValidationHandler) GetLatestValidation(c *fiber.Ctx) error {
	run, err := h.validationService.Latest(c.UserContext())
	if errors.Is(err, service.ErrRunNotFound) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "No validation has run yet", err)
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve validation run", err)
	}
	return utils.SuccessResponse(c, "Validation run retrieved successfully", run)
}

func (h *ValidationHandler) GetValidation(c *fiber.Ctx) error {
	runCode := c.Params("run_code")

	run, err := h.validationService.Get(c.UserContext(), runCode)
	if errors.Is(err, service.ErrRunNotFound) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Validation run not found", err)
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve validation run", err)
	}
	return utils.SuccessResponse(c, "Validation run retrieved successfully", run)
}

func (h *ValidationHandler) GetSchema(c *fiber.Ctx) error {
	s := h.validationService.Schema()
	return utils.SuccessResponse(c, "Schema retrieved successfully", fiber.Map{
		"schema":        s,
		"total_columns": s.TotalColumns(),
	})
}

func (h *ValidationHandler) validationError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrInvalidIngestionArg) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Train and test file paths are required", err)
	}

	var pipelineErr *utils.PipelineError
	if errors.As(err, &pipelineErr) {
		h.logger.WithError(err).WithField("op", pipelineErr.Op).Error("Validation could not be completed")
		return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Validation could not be completed", err)
	}

	return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Validation failed unexpectedly", err)
}

// withinArtifactDir reports whether path resolves inside cfg.ArtifactDir.
func (h *ValidationHandler) withinArtifactDir(path string) bool {
	root := h.cfg.ArtifactDir
	if root == "" {
		root = "."
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	rel, err := filepath.Rel(rootAbs, abs)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

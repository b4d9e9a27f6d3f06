package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"data-validation/internal/models"
	"data-validation/internal/service"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

const TypeValidationRun = "validation:run"

type ValidationTaskPayload struct {
	RunCode       string `json:"run_code"`
	TrainFilePath string `json:"train_file_path"`
	TestFilePath  string `json:"test_file_path"`
}

// NewValidationTask builds a validation task. Runs are never retried.
func NewValidationTask(payload ValidationTaskPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeValidationRun, data, asynq.MaxRetry(0)), nil
}

type ValidationTaskHandler struct {
	validationService *service.ValidationService
	logger            *logrus.Logger
}

func NewValidationTaskHandler(validationService *service.ValidationService, logger *logrus.Logger) *ValidationTaskHandler {
	return &ValidationTaskHandler{
		validationService: validationService,
		logger:            logger,
	}
}

func (h *ValidationTaskHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload ValidationTaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}
	if payload.RunCode == "" {
		payload.RunCode = service.NewRunCode()
	}

	log := h.logger.WithField("run_code", payload.RunCode)
	log.Info("Starting validation task")

	run, err := h.validationService.ValidateWithCode(ctx, payload.RunCode, models.DataIngestionArtifact{
		TrainedFilePath: payload.TrainFilePath,
		TestFilePath:    payload.TestFilePath,
	})
	if err != nil {
		return fmt.Errorf("validation run %s: %w: %w", payload.RunCode, err, asynq.SkipRetry)
	}

	if w := task.ResultWriter(); w != nil {
		result, err := json.Marshal(run)
		if err != nil {
			log.WithError(err).Warn("Failed to encode task result")
		} else if _, err := w.Write(result); err != nil {
			log.WithError(err).Warn("Failed to write task result")
		}
	}

	log.WithField("validation_status", run.ValidationStatus).Info("Validation task completed")
	return nil
}

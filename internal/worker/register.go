package worker

import (
	"data-validation/internal/service"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

func RegisterHandlers(mux *asynq.ServeMux, validationService *service.ValidationService, logger *logrus.Logger) {
	validationHandler := NewValidationTaskHandler(validationService, logger)
	mux.HandleFunc(TypeValidationRun, validationHandler.Handle)
}

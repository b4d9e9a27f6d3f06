package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"data-validation/internal/cache"
	"data-validation/internal/config"
	"data-validation/internal/models"
	"data-validation/internal/repository"
	"data-validation/internal/utils"
	"data-validation/internal/validation"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var (
	ErrRunNotFound         = errors.New("validation run not found")
	ErrHistoryUnavailable  = errors.New("validation history is not available (database not connected)")
	ErrInvalidIngestionArg = errors.New("train and test file paths are required")
)

// RunLocker serialises runs across processes. *cache.RunLock implements it.
type RunLocker interface {
	Acquire(ctx context.Context) (release func(context.Context) error, err error)
}

type Option func(*ValidationService)

// WithRunLock makes every run hold lock for its whole duration.
func WithRunLock(lock RunLocker) Option {
	return func(s *ValidationService) {
		s.runLock = lock
	}
}

// ValidationService runs validations one at a time and records them in the
// optional MySQL history and Redis cache.
type ValidationService struct {
	validator *validation.Validator
	repo      *repository.ValidationRepository
	cache     *cache.ReportCache
	runLock   RunLocker
	logger    *logrus.Logger

	mu   sync.Mutex
	last *models.ValidationRun
}

// NewValidationService wires the service. repo and reportCache may be nil.
func NewValidationService(validator *validation.Validator, repo *repository.ValidationRepository, reportCache *cache.ReportCache, logger *logrus.Logger, opts ...Option) *ValidationService {
	s := &ValidationService{
		validator: validator,
		repo:      repo,
		cache:     reportCache,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewValidationServiceFromConfig loads the schema named by cfg and wires the
// history and cache when db and redisClient are non-nil.
func NewValidationServiceFromConfig(cfg *config.Config, db *sqlx.DB, redisClient *redis.Client, logger *logrus.Logger) (*ValidationService, error) {
	validator, err := validation.NewFromFile(cfg.SchemaFilePath, models.DataValidationConfig{
		ValidationReportFilePath: cfg.ValidationReportFilePath,
	}, logger)
	if err != nil {
		return nil, err
	}

	var repo *repository.ValidationRepository
	if db != nil {
		repo = repository.NewValidationRepository(db)
	}
	var (
		reportCache *cache.ReportCache
		opts        []Option
	)
	if redisClient != nil {
		reportCache = cache.NewReportCache(redisClient, cfg.ReportCacheTTL)
		opts = append(opts, WithRunLock(cache.NewRunLock(redisClient, cfg.RunLockTTL)))
	}

	return NewValidationService(validator, repo, reportCache, logger, opts...), nil
}

// NewRunCode returns a fresh run identifier.
func NewRunCode() string {
	return fmt.Sprintf("VALIDATION-%s", uuid.New().String()[:8])
}

// HasHistory reports whether runs are persisted to MySQL.
func (s *ValidationService) HasHistory() bool {
	return s.repo != nil
}

// Validate runs a validation under a new run code.
func (s *ValidationService) Validate(ctx context.Context, ingestion models.DataIngestionArtifact) (*models.ValidationRun, error) {
	return s.ValidateWithCode(ctx, NewRunCode(), ingestion)
}

// ValidateWithCode runs a validation under the given run code. Runs are
// serialised within the process, and across processes when a run lock is
// configured. Failing to record a finished run is logged, not returned.
func (s *ValidationService) ValidateWithCode(ctx context.Context, code string, ingestion models.DataIngestionArtifact) (*models.ValidationRun, error) {
	if ingestion.TrainedFilePath == "" || ingestion.TestFilePath == "" {
		return nil, ErrInvalidIngestionArg
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.logger.WithField("run_code", code)

	if s.runLock != nil {
		release, err := s.runLock.Acquire(ctx)
		if err != nil {
			log.WithError(err).Error("Failed to acquire run lock")
			return nil, utils.WrapError("service.validate", err)
		}
		defer func() {
			if err := release(context.Background()); err != nil {
				log.WithError(err).Warn("Failed to release run lock")
			}
		}()
	}
	log.WithFields(logrus.Fields{
		"train_file_path": ingestion.TrainedFilePath,
		"test_file_path":  ingestion.TestFilePath,
	}).Info("Validation run started")

	artifact, err := s.validator.Run(ingestion)
	if err != nil {
		log.WithError(err).Error("Validation run failed")
		return nil, err
	}

	run := &models.ValidationRun{
		RunCode:                  code,
		TrainFilePath:            ingestion.TrainedFilePath,
		TestFilePath:             ingestion.TestFilePath,
		ValidationReportFilePath: artifact.ValidationReportFilePath,
		ValidationStatus:         artifact.ValidationStatus,
		Message:                  artifact.Message,
		Failures:                 artifact.Failures,
		CreatedAt:                time.Now(),
	}

	if s.repo != nil {
		if err := s.repo.CreateRun(run); err != nil {
			log.WithError(err).Warn("Failed to record validation run")
		}
	}
	if s.cache != nil {
		if err := s.cache.Store(ctx, run); err != nil {
			log.WithError(err).Warn("Failed to cache validation run")
		}
	}
	s.last = run

	log.WithField("validation_status", run.ValidationStatus).Info("Validation run completed")
	return run, nil
}

// Get looks a run up in memory, then Redis, then MySQL.
func (s *ValidationService) Get(ctx context.Context, code string) (*models.ValidationRun, error) {
	s.mu.Lock()
	last := s.last
	s.mu.Unlock()
	if last != nil && last.RunCode == code {
		return last, nil
	}

	if s.cache != nil {
		run, err := s.cache.Get(ctx, code)
		if err == nil {
			return run, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.WithError(err).WithField("run_code", code).Warn("Failed to read cached validation run")
		}
	}

	if s.repo == nil {
		return nil, ErrRunNotFound
	}
	run, err := s.repo.GetRunByCode(code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	return run, err
}

// Latest returns the most recent run. Redis and MySQL see runs from every
// process; the in-memory run only covers this one.
func (s *ValidationService) Latest(ctx context.Context) (*models.ValidationRun, error) {
	if s.cache != nil {
		if run, err := s.cache.Latest(ctx); err == nil {
			return run, nil
		}
	}

	if s.repo != nil {
		run, err := s.repo.GetLatestRun()
		if err == nil {
			return run, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil, ErrRunNotFound
	}
	return s.last, nil
}

// List pages through recorded runs, newest first.
func (s *ValidationService) List(limit, offset int) ([]models.ValidationRun, int, error) {
	if s.repo == nil {
		return nil, 0, ErrHistoryUnavailable
	}
	return s.repo.GetRuns(limit, offset)
}

// Schema returns the schema runs are checked against.
func (s *ValidationService) Schema() models.Schema {
	return s.validator.Schema()
}

package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"data-validation/internal/models"

	"github.com/jmoiron/sqlx"
)

const validationRunColumns = "id, run_code, train_file_path, test_file_path, report_file_path, validation_status, message, failures, created_at"

type ValidationRepository struct {
	db *sqlx.DB
}

func NewValidationRepository(db *sqlx.DB) *ValidationRepository {
	return &ValidationRepository{db: db}
}

// CreateRun stores a finished run and sets its ID. A zero CreatedAt is
// stamped with the current time.
func (r *ValidationRepository) CreateRun(run *models.ValidationRun) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	failures, err := json.Marshal(nonNilFailures(run.Failures))
	if err != nil {
		return fmt.Errorf("encode failures: %w", err)
	}
	run.FailuresJSON = string(failures)

	query := `INSERT INTO validation_runs (run_code, train_file_path, test_file_path, report_file_path,
	          validation_status, message, failures, created_at) VALUES (:run_code, :train_file_path, :test_file_path,
	          :report_file_path, :validation_status, :message, :failures, :created_at)`
	result, err := r.db.NamedExec(query, run)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	run.ID = id
	return nil
}

func (r *ValidationRepository) GetRunByCode(code string) (*models.ValidationRun, error) {
	var run models.ValidationRun
	query := "SELECT " + validationRunColumns + " FROM validation_runs WHERE run_code = ? LIMIT 1"
	if err := r.db.Get(&run, query, code); err != nil {
		return nil, err
	}
	if err := decodeFailures(&run); err != nil {
		return nil, err
	}
	return &run, nil
}

// GetLatestRun returns the most recently recorded run.
func (r *ValidationRepository) GetLatestRun() (*models.ValidationRun, error) {
	var run models.ValidationRun
	query := "SELECT " + validationRunColumns + " FROM validation_runs ORDER BY created_at DESC, id DESC LIMIT 1"
	if err := r.db.Get(&run, query); err != nil {
		return nil, err
	}
	if err := decodeFailures(&run); err != nil {
		return nil, err
	}
	return &run, nil
}

// GetRuns lists runs newest first together with the total count.
func (r *ValidationRepository) GetRuns(limit, offset int) ([]models.ValidationRun, int, error) {
	var runs []models.ValidationRun
	var total int

	if err := r.db.Get(&total, "SELECT COUNT(*) FROM validation_runs"); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + validationRunColumns + " FROM validation_runs ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	if err := r.db.Select(&runs, query, limit, offset); err != nil {
		return nil, 0, err
	}
	for i := range runs {
		if err := decodeFailures(&runs[i]); err != nil {
			return nil, 0, err
		}
	}

	return runs, total, nil
}

func decodeFailures(run *models.ValidationRun) error {
	run.Failures = []models.Failure{}
	if run.FailuresJSON == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(run.FailuresJSON), &run.Failures); err != nil {
		return fmt.Errorf("decode failures for run %s: %w", run.RunCode, err)
	}
	return nil
}

func nonNilFailures(failures []models.Failure) []models.Failure {
	if failures == nil {
		return []models.Failure{}
	}
	return failures
}

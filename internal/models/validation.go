package models

import (
	"strings"
	"time"
)

const (
	DatasetTrain = "training dataset"
	DatasetTest  = "test dataset"

	CheckColumnCount     = "column_count"
	CheckRequiredColumns = "required_columns"

	// FailureSeparator joins failure descriptions into a report message.
	FailureSeparator = "; "
)

// DataIngestionArtifact locates the tables produced by the ingestion stage.
type DataIngestionArtifact struct {
	TrainedFilePath string `json:"train_file_path"`
	TestFilePath    string `json:"test_file_path"`
}

// DataValidationConfig tells the validator where to persist its report.
type DataValidationConfig struct {
	ValidationReportFilePath string `json:"validation_report_file_path"`
}

// Failure describes one failed check against one dataset.
type Failure struct {
	Dataset        string   `json:"dataset"`
	Check          string   `json:"check"`
	Message        string   `json:"message"`
	MissingColumns []string `json:"missing_columns,omitempty"`
}

// ValidationReport is the document written to the report file.
type ValidationReport struct {
	ValidationStatus bool   `json:"validation_status"`
	Message          string `json:"message"`
}

// NewValidationReport derives the report from the ordered failures.
func NewValidationReport(failures []Failure) ValidationReport {
	return ValidationReport{
		ValidationStatus: len(failures) == 0,
		Message:          JoinFailures(failures),
	}
}

// JoinFailures concatenates failure messages with FailureSeparator.
func JoinFailures(failures []Failure) string {
	messages := make([]string, 0, len(failures))
	for _, f := range failures {
		messages = append(messages, f.Message)
	}
	return strings.Join(messages, FailureSeparator)
}

// DataValidationArtifact is handed to the next pipeline stage.
type DataValidationArtifact struct {
	ValidationStatus         bool      `json:"validation_status"`
	ValidationReportFilePath string    `json:"validation_report_file_path"`
	Message                  string    `json:"message"`
	Failures                 []Failure `json:"failures"`
}

// Report returns the persisted form of the artifact.
func (a *DataValidationArtifact) Report() ValidationReport {
	return ValidationReport{
		ValidationStatus: a.ValidationStatus,
		Message:          a.Message,
	}
}

// ValidationRun is one recorded validation, as stored in validation_runs.
type ValidationRun struct {
	ID                       int64     `db:"id" json:"id"`
	RunCode                  string    `db:"run_code" json:"run_code"`
	TrainFilePath            string    `db:"train_file_path" json:"train_file_path"`
	TestFilePath             string    `db:"test_file_path" json:"test_file_path"`
	ValidationReportFilePath string    `db:"report_file_path" json:"validation_report_file_path"`
	ValidationStatus         bool      `db:"validation_status" json:"validation_status"`
	Message                  string    `db:"message" json:"message"`
	FailuresJSON             string    `db:"failures" json:"-"`
	Failures                 []Failure `db:"-" json:"failures"`
	CreatedAt                time.Time `db:"created_at" json:"created_at"`
}

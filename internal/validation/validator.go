// Package validation checks ingested train/test tables against the column
// schema and persists a pass/fail report.
package validation

import (
	"fmt"
	"strings"

	"data-validation/internal/dataset"
	"data-validation/internal/models"
	"data-validation/internal/report"
	"data-validation/internal/schema"
	"data-validation/internal/utils"

	"github.com/sirupsen/logrus"
)

// Option customises a Validator.
type Option func(*Validator)

// WithReader replaces the table reader used by Run.
func WithReader(reader dataset.Reader) Option {
	return func(v *Validator) {
		if reader != nil {
			v.reader = reader
		}
	}
}

// Validator applies the column-count and required-column checks. The schema
// is fixed at construction.
type Validator struct {
	schema models.Schema
	config models.DataValidationConfig
	reader dataset.Reader
	logger logrus.FieldLogger
}

// New builds a Validator around an already loaded schema.
func New(s models.Schema, cfg models.DataValidationConfig, logger logrus.FieldLogger, options ...Option) *Validator {
	v := &Validator{
		schema: models.Schema{
			Columns:            append([]string(nil), s.Columns...),
			NumericalColumns:   append([]string(nil), s.NumericalColumns...),
			CategoricalColumns: append([]string(nil), s.CategoricalColumns...),
		},
		config: cfg,
		reader: dataset.NewFileReader(),
		logger: logger,
	}
	if v.logger == nil {
		v.logger = logrus.StandardLogger()
	}
	for _, opt := range options {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// NewFromFile loads the schema file once and builds a Validator.
func NewFromFile(schemaPath string, cfg models.DataValidationConfig, logger logrus.FieldLogger, options ...Option) (*Validator, error) {
	s, err := schema.Load(schemaPath)
	if err != nil {
		return nil, utils.WrapError("validation.new", err)
	}
	return New(*s, cfg, logger, options...), nil
}

// Schema returns the schema the validator checks against.
func (v *Validator) Schema() models.Schema {
	return v.schema
}

// ValidateColumnCount reports whether ds has exactly the expected number of
// columns.
func (v *Validator) ValidateColumnCount(ds *models.Dataset) bool {
	columns := columnsOf(ds)
	status := len(columns) == v.schema.TotalColumns()

	v.logger.WithFields(logrus.Fields{
		"dataset":  nameOf(ds),
		"columns":  len(columns),
		"expected": v.schema.TotalColumns(),
		"status":   status,
	}).Info("Column count check")

	return status
}

// MissingColumns lists the numerical and categorical columns absent from ds,
// in schema order.
func (v *Validator) MissingColumns(ds *models.Dataset) (numerical, categorical []string) {
	for _, column := range v.schema.NumericalColumns {
		if !ds.HasColumn(column) {
			numerical = append(numerical, column)
		}
	}
	for _, column := range v.schema.CategoricalColumns {
		if !ds.HasColumn(column) {
			categorical = append(categorical, column)
		}
	}
	return numerical, categorical
}

// CheckRequiredColumnsPresent reports whether every numerical and categorical
// column appears in ds. Both groups are always scanned in full and each
// non-empty missing list is logged.
func (v *Validator) CheckRequiredColumnsPresent(ds *models.Dataset) bool {
	numerical, categorical := v.MissingColumns(ds)

	if len(numerical) > 0 {
		v.logger.WithFields(logrus.Fields{
			"dataset":                   nameOf(ds),
			"missing_numerical_columns": numerical,
		}).Info("Missing numerical columns")
	}
	if len(categorical) > 0 {
		v.logger.WithFields(logrus.Fields{
			"dataset":                     nameOf(ds),
			"missing_categorical_columns": categorical,
		}).Info("Missing categorical columns")
	}

	return len(numerical) == 0 && len(categorical) == 0
}

// Run reads both ingested tables, checks them and writes the report file.
// Failed checks are reported through the artifact; only faults (unreadable
// table, unwritable report) return an error.
func (v *Validator) Run(ingestion models.DataIngestionArtifact) (*models.DataValidationArtifact, error) {
	v.logger.Info("Starting data validation")

	train, err := v.reader.ReadTable(ingestion.TrainedFilePath)
	if err != nil {
		return nil, utils.WrapError("validation.run", err)
	}
	test, err := v.reader.ReadTable(ingestion.TestFilePath)
	if err != nil {
		return nil, utils.WrapError("validation.run", err)
	}

	failures := v.Check(train, test)
	rep := models.NewValidationReport(failures)
	artifact := &models.DataValidationArtifact{
		ValidationStatus:         rep.ValidationStatus,
		ValidationReportFilePath: v.config.ValidationReportFilePath,
		Message:                  rep.Message,
		Failures:                 failures,
	}

	if err := report.Write(v.config.ValidationReportFilePath, rep); err != nil {
		return nil, utils.WrapError("validation.run", err)
	}

	v.logger.WithFields(logrus.Fields{
		"validation_status": artifact.ValidationStatus,
		"report_file_path":  artifact.ValidationReportFilePath,
		"failures":          len(failures),
	}).Info("Data validation artifact created and saved to JSON file")

	return artifact, nil
}

// Check applies the count gates, then the existence gates, to the training
// and test tables and returns the failures in that order.
func (v *Validator) Check(train, test *models.Dataset) []models.Failure {
	failures := []models.Failure{}
	targets := []roleDataset{{models.DatasetTrain, train}, {models.DatasetTest, test}}

	for _, target := range targets {
		if v.ValidateColumnCount(target.ds) {
			v.logger.WithField("dataset", target.role).Info("Column count matches schema")
			continue
		}
		failures = append(failures, models.Failure{
			Dataset: target.role,
			Check:   models.CheckColumnCount,
			Message: fmt.Sprintf("%s has %d columns, expected %d", target.role, len(columnsOf(target.ds)), v.schema.TotalColumns()),
		})
	}

	for _, target := range targets {
		if v.CheckRequiredColumnsPresent(target.ds) {
			v.logger.WithField("dataset", target.role).Info("All numerical and categorical columns present")
			continue
		}
		numerical, categorical := v.MissingColumns(target.ds)
		missing := append(numerical, categorical...)
		failures = append(failures, models.Failure{
			Dataset:        target.role,
			Check:          models.CheckRequiredColumns,
			Message:        fmt.Sprintf("%s is missing required columns: %s", target.role, strings.Join(missing, ", ")),
			MissingColumns: missing,
		})
	}

	return failures
}

type roleDataset struct {
	role string
	ds   *models.Dataset
}

func columnsOf(ds *models.Dataset) []string {
	if ds == nil {
		return nil
	}
	return ds.Columns
}

func nameOf(ds *models.Dataset) string {
	if ds == nil {
		return ""
	}
	return ds.Name
}

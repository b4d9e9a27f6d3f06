package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"data-validation/internal/models"
	"data-validation/internal/utils"
)

// Write persists the report as indented JSON, creating parent directories.
// The file is replaced by rename, so readers see either the previous report
// or the new one in full.
func Write(path string, report models.ValidationReport) error {
	if path == "" {
		return utils.NewError("report.write", "report file path is required")
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return utils.WrapError("report.write", fmt.Errorf("create report directory: %w", err))
		}
	}

	data, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		return utils.WrapError("report.write", err)
	}

	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return utils.WrapError("report.write", err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp report: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp report: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("chmod temp report: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Read loads a report previously written by Write.
func Read(path string) (*models.ValidationReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, utils.WrapError("report.read", err)
	}

	var rep models.ValidationReport
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, utils.WrapError("report.read", fmt.Errorf("decode %s: %w", path, err))
	}
	return &rep, nil
}

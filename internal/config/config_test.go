package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ARTIFACT_DIR", "out")
	t.Setenv("SCHEMA_FILE_PATH", "")
	t.Setenv("VALIDATION_REPORT_FILE_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("config", "schema.yaml"), cfg.SchemaFilePath)
	assert.Equal(t, filepath.Join("out", "data_validation", "report.json"), cfg.ValidationReportFilePath)
	assert.Equal(t, filepath.Join("out", "data_ingestion", "ingested", "train.csv"), cfg.TrainFilePath)
	assert.False(t, cfg.DBEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SCHEMA_FILE_PATH", "/etc/schema.yaml")
	t.Setenv("DB_ENABLED", "true")
	t.Setenv("DB_MAX_OPEN_CONNS", "3")
	t.Setenv("REPORT_CACHE_TTL", "90s")
	t.Setenv("DB_MAX_IDLE_CONNS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/etc/schema.yaml", cfg.SchemaFilePath)
	assert.True(t, cfg.DBEnabled)
	assert.Equal(t, 3, cfg.DBMaxOpenConns)
	assert.Equal(t, 10, cfg.DBMaxIdleConns)
	assert.Equal(t, 90*time.Second, cfg.ReportCacheTTL)
}

func TestConfig_GetDSN(t *testing.T) {
	cfg := &Config{DBUsername: "u", DBPassword: "p", DBHost: "h", DBPort: "1", DBDatabase: "d"}
	assert.Equal(t, "u:p@tcp(h:1)/d?parseTime=true&loc=Local", cfg.GetDSN())
}

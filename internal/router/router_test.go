package router

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"data-validation/internal/config"
	"data-validation/internal/models"
	"data-validation/internal/service"
	"data-validation/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T) *fiber.App {
	return newAppWithQueue(t, nil)
}

func newAppWithQueue(t *testing.T, queue *asynq.Client) *fiber.App {
	t.Helper()
	dir := t.TempDir()
	train := filepath.Join(dir, "train.csv")
	test := filepath.Join(dir, "test.csv")
	require.NoError(t, os.WriteFile(train, []byte("age,city\n"), 0o644))
	require.NoError(t, os.WriteFile(test, []byte("age,city\n"), 0o644))

	logger, _ := logtest.NewNullLogger()
	cfg := &config.Config{
		AppName:                  "Data Validation",
		AppEnv:                   "development",
		ArtifactDir:              dir,
		JWTSecret:                "secret",
		TrainFilePath:            train,
		TestFilePath:             test,
		ValidationReportFilePath: filepath.Join(dir, "report.json"),
	}
	v := validation.New(models.Schema{Columns: []string{"age", "city"}, NumericalColumns: []string{"age"}},
		models.DataValidationConfig{ValidationReportFilePath: cfg.ValidationReportFilePath}, logger)

	app := fiber.New()
	Setup(app, Deps{
		Queue:             queue,
		ValidationService: service.NewValidationService(v, nil, nil, logger),
		Logger:            logger,
	}, cfg)
	return app
}

func TestSetup_Health(t *testing.T) {
	app := newApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["database"])
}

func TestSetup_ValidationRoutesRequireAuth(t *testing.T) {
	app := newApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/validations", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("POST", "/api/v1/validations", nil)
	req.Header.Set("Authorization", "Bearer dev-token-ci")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/api/v1/validations/latest", nil)
	req.Header.Set("Authorization", "Bearer dev-token-ci")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func asyncRun(t *testing.T, app *fiber.App) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/validations", strings.NewReader(`{"async": true}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer dev-token-ci")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestSetup_AsyncRunsUseTheGivenQueue(t *testing.T) {
	assert.Equal(t, fiber.StatusServiceUnavailable, asyncRun(t, newApp(t)))

	// nothing listens on port 1, so the enqueue itself fails
	queue := asynq.NewClient(asynq.RedisClientOpt{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = queue.Close() })
	assert.Equal(t, fiber.StatusInternalServerError, asyncRun(t, newAppWithQueue(t, queue)))
}

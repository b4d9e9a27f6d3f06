package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"data-validation/internal/models"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun() *models.ValidationRun {
	return &models.ValidationRun{
		RunCode:          "VALIDATION-abc",
		TrainFilePath:    "train.csv",
		TestFilePath:     "test.csv",
		ValidationStatus: false,
		Message:          "training dataset has 2 columns, expected 3",
		Failures: []models.Failure{{
			Dataset: models.DatasetTrain,
			Check:   models.CheckColumnCount,
			Message: "training dataset has 2 columns, expected 3",
		}},
	}
}

func TestReportCache_Store(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewReportCache(client, time.Hour)
	run := sampleRun()

	data, err := json.Marshal(run)
	require.NoError(t, err)

	mock.ExpectSet("validation:run:VALIDATION-abc", string(data), time.Hour).SetVal("OK")
	mock.ExpectSet("validation:latest", "VALIDATION-abc", time.Hour).SetVal("OK")

	require.NoError(t, c.Store(context.Background(), run))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportCache_StoreError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewReportCache(client, time.Minute)
	run := sampleRun()
	data, _ := json.Marshal(run)

	mock.ExpectSet(RunKey(run.RunCode), string(data), time.Minute).SetErr(errors.New("connection refused"))

	err := c.Store(context.Background(), run)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestReportCache_GetAndLatest(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewReportCache(client, time.Hour)
	data, _ := json.Marshal(sampleRun())

	mock.ExpectGet("validation:latest").SetVal("VALIDATION-abc")
	mock.ExpectGet("validation:run:VALIDATION-abc").SetVal(string(data))

	run, err := c.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "VALIDATION-abc", run.RunCode)
	require.Len(t, run.Failures, 1)
	assert.Equal(t, models.CheckColumnCount, run.Failures[0].Check)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportCache_Miss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewReportCache(client, time.Hour)

	mock.ExpectGet("validation:run:nope").RedisNil()
	_, err := c.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrCacheMiss)

	mock.ExpectGet("validation:latest").RedisNil()
	_, err = c.Latest(context.Background())
	assert.ErrorIs(t, err, ErrCacheMiss)
}

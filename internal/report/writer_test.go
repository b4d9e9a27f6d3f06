package report

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"data-validation/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite_CreatesDirectoriesAndIndents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifact", "data_validation", "report.json")

	err := Write(path, models.ValidationReport{ValidationStatus: false, Message: "test dataset is missing required columns: age"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"validation_status\": false,\n    \"message\": \"test dataset is missing required columns: age\"\n}", string(data))

	rep, err := Read(path)
	require.NoError(t, err)
	assert.False(t, rep.ValidationStatus)
}

func TestWrite_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, Write(path, models.ValidationReport{Message: "first"}))
	require.NoError(t, Write(path, models.ValidationReport{ValidationStatus: true}))

	rep, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, models.ValidationReport{ValidationStatus: true}, *rep)
}

func TestWrite_Faults(t *testing.T) {
	assert.Error(t, Write("", models.ValidationReport{}))

	// a regular file where a directory is needed
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	err := Write(filepath.Join(blocker, "report.json"), models.ValidationReport{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report.write")
}

func TestRead_Faults(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = Read(bad)
	assert.Error(t, err)
}

func TestWrite_ConcurrentWritersNeverTearTheFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")

	reports := []models.ValidationReport{
		{ValidationStatus: true},
		{ValidationStatus: false, Message: strings.Repeat("training dataset is missing required columns: city; ", 200)},
	}
	require.NoError(t, Write(path, reports[0]))

	var (
		wg      sync.WaitGroup
		done    = make(chan struct{})
		badRead atomic.Int64
	)

	for i := range reports {
		wg.Add(1)
		go func(rep models.ValidationReport) {
			defer wg.Done()
			for n := 0; n < 200; n++ {
				assert.NoError(t, Write(path, rep))
			}
		}(reports[i])
	}

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			select {
			case <-done:
				return
			default:
			}
			rep, err := Read(path)
			if err != nil || (*rep != reports[0] && *rep != reports[1]) {
				badRead.Add(1)
			}
		}
	}()

	wg.Wait()
	close(done)
	<-readerDone

	assert.Zero(t, badRead.Load())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

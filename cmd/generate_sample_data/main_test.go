package main

import (
	"path/filepath"
	"testing"

	"data-validation/internal/dataset"
	"data-validation/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleSchema = models.Schema{
	Columns:            []string{"id", "age", "city"},
	NumericalColumns:   []string{"age"},
	CategoricalColumns: []string{"city"},
}

func TestGenerate_RoundTripsThroughReader(t *testing.T) {
	reader := dataset.NewFileReader()

	for _, format := range []string{"csv", "xlsx"} {
		t.Run(format, func(t *testing.T) {
			dir := t.TempDir()
			paths, err := generate(sampleSchema, options{OutDir: dir, Format: format, Rows: 5, Seed: 1})
			require.NoError(t, err)
			require.Equal(t, []string{
				filepath.Join(dir, "train."+format),
				filepath.Join(dir, "test."+format),
			}, paths)

			for _, p := range paths {
				ds, err := reader.ReadTable(p)
				require.NoError(t, err)
				assert.Equal(t, sampleSchema.Columns, ds.Columns)
				assert.Len(t, ds.Rows, 5)
			}
		})
	}
}

func TestGenerate_DropsColumn(t *testing.T) {
	dir := t.TempDir()
	paths, err := generate(sampleSchema, options{OutDir: dir, Format: "csv", Rows: 1, Drop: "age", DropFrom: "test"})
	require.NoError(t, err)

	reader := dataset.NewFileReader()
	train, err := reader.ReadTable(paths[0])
	require.NoError(t, err)
	test, err := reader.ReadTable(paths[1])
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "age", "city"}, train.Columns)
	assert.Equal(t, []string{"id", "city"}, test.Columns)
}

func TestGenerate_RejectsUnknownFormat(t *testing.T) {
	_, err := generate(sampleSchema, options{OutDir: t.TempDir(), Format: "parquet"})
	assert.Error(t, err)
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"data-validation/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schemaYAML = `columns:
  - age: int
  - city: category
  - label: int
numerical_columns: [age]
categorical_columns: [city]
`

type paths struct {
	schema, train, test, report string
}

func setup(t *testing.T, trainHeader, testHeader string) paths {
	t.Helper()
	dir := t.TempDir()
	p := paths{
		schema: filepath.Join(dir, "schema.yaml"),
		train:  filepath.Join(dir, "train.csv"),
		test:   filepath.Join(dir, "test.csv"),
		report: filepath.Join(dir, "out", "report.json"),
	}
	require.NoError(t, os.WriteFile(p.schema, []byte(schemaYAML), 0o644))
	require.NoError(t, os.WriteFile(p.train, []byte(trainHeader+"\n"), 0o644))
	require.NoError(t, os.WriteFile(p.test, []byte(testHeader+"\n"), 0o644))
	return p
}

func (p paths) args() []string {
	return []string{"-schema", p.schema, "-train", p.train, "-test", p.test, "-report", p.report}
}

func TestRun_Passes(t *testing.T) {
	p := setup(t, "age,city,label", "age,city,label")
	var stdout, stderr bytes.Buffer

	code := run(p.args(), &stdout, &stderr)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout.String(), "PASSED")

	r, err := report.Read(p.report)
	require.NoError(t, err)
	assert.True(t, r.ValidationStatus)
}

func TestRun_FailedValidationExitsOne(t *testing.T) {
	p := setup(t, "age,label", "age,city,label")
	var stdout, stderr bytes.Buffer

	code := run(p.args(), &stdout, &stderr)
	assert.Equal(t, exitFailed, code)
	assert.Contains(t, stdout.String(), "FAILED")
	assert.Contains(t, stdout.String(), "column_count")
	assert.Contains(t, stdout.String(), "required_columns")
}

func TestRun_FaultExitsTwo(t *testing.T) {
	p := setup(t, "age,city,label", "age,city,label")
	p.test = filepath.Join(filepath.Dir(p.test), "missing.csv")
	var stdout, stderr bytes.Buffer

	assert.Equal(t, exitFault, run(p.args(), &stdout, &stderr))
	assert.Contains(t, stderr.String(), "dataset.read_table")
	assert.Empty(t, stdout.String())
}

func TestRun_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitFault, run([]string{"-nope"}, &stdout, &stderr))
}

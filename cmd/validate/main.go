package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"data-validation/internal/config"
	"data-validation/internal/models"
	"data-validation/internal/utils"
	"data-validation/internal/validation"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitFault  = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return exitFault
	}

	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	trainPath := fs.String("train", cfg.TrainFilePath, "training table (.csv, .tsv or .xlsx)")
	testPath := fs.String("test", cfg.TestFilePath, "test table (.csv, .tsv or .xlsx)")
	schemaPath := fs.String("schema", cfg.SchemaFilePath, "schema YAML file")
	reportPath := fs.String("report", cfg.ValidationReportFilePath, "where to write the JSON report")
	if err := fs.Parse(args); err != nil {
		return exitFault
	}

	// Logs go to stderr so stdout carries only the result table
	logger := utils.NewLogger(cfg.LogLevel, stderr)

	validator, err := validation.NewFromFile(*schemaPath, models.DataValidationConfig{
		ValidationReportFilePath: *reportPath,
	}, logger)
	if err != nil {
		fmt.Fprintf(stderr, "%+v\n", err)
		return exitFault
	}

	artifact, err := validator.Run(models.DataIngestionArtifact{
		TrainedFilePath: *trainPath,
		TestFilePath:    *testPath,
	})
	if err != nil {
		fmt.Fprintf(stderr, "%+v\n", err)
		return exitFault
	}

	if err := renderArtifact(stdout, artifact); err != nil {
		fmt.Fprintf(stderr, "Failed to print result: %v\n", err)
		return exitFault
	}

	if !artifact.ValidationStatus {
		return exitFailed
	}
	return exitOK
}

func renderArtifact(w io.Writer, artifact *models.DataValidationArtifact) error {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Dataset", "Check", "Missing columns", "Message"})
	for _, f := range artifact.Failures {
		t.AppendRow(table.Row{f.Dataset, f.Check, strings.Join(f.MissingColumns, ", "), f.Message})
	}
	t.AppendSeparator()
	t.AppendFooter(table.Row{"Status", statusLabel(artifact.ValidationStatus), "Report", artifact.ValidationReportFilePath})
	t.SetStyle(table.StyleLight)
	t.Style().Format = table.FormatOptions{
		Footer: text.FormatDefault,
		Header: text.FormatDefault,
		Row:    text.FormatDefault,
	}
	t.Style().Options.DrawBorder = false

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func statusLabel(ok bool) string {
	if ok {
		return "PASSED"
	}
	return "FAILED"
}

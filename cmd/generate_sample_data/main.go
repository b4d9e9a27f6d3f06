package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"data-validation/internal/models"
	"data-validation/internal/schema"
	"data-validation/internal/utils"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

var categories = []string{"north", "south", "east", "west"}

type options struct {
	SchemaPath string
	OutDir     string
	Format     string
	Rows       int
	Drop       string
	DropFrom   string
	Seed       int64
}

func main() {
	var opts options
	flag.StringVar(&opts.SchemaPath, "schema", filepath.Join("config", "schema.yaml"), "schema YAML file")
	flag.StringVar(&opts.OutDir, "out", filepath.Join("artifact", "data_ingestion", "ingested"), "output directory")
	flag.StringVar(&opts.Format, "format", "csv", "csv or xlsx")
	flag.IntVar(&opts.Rows, "rows", 20, "rows per table")
	flag.StringVar(&opts.Drop, "drop", "", "column to leave out")
	flag.StringVar(&opts.DropFrom, "drop-from", "test", "table the column is dropped from: train, test or both")
	flag.Int64Var(&opts.Seed, "seed", 42, "random seed")
	flag.Parse()

	log := utils.GetLogger()

	s, err := schema.Load(opts.SchemaPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load schema")
	}

	paths, err := generate(*s, opts)
	if err != nil {
		log.WithError(err).Fatal("Failed to generate sample data")
	}

	for _, p := range paths {
		log.WithFields(logrus.Fields{"path": p, "rows": opts.Rows}).Info("Sample table created")
	}
}

// generate writes train and test tables for s and returns their paths.
func generate(s models.Schema, opts options) ([]string, error) {
	if opts.Format != "csv" && opts.Format != "xlsx" {
		return nil, fmt.Errorf("unsupported format %q", opts.Format)
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	var paths []string
	for _, name := range []string{"train", "test"} {
		header := s.Columns
		if opts.Drop != "" && (opts.DropFrom == name || opts.DropFrom == "both") {
			header = without(header, opts.Drop)
		}
		rows := sampleRows(s, header, opts.Rows, rng)

		path := filepath.Join(opts.OutDir, name+"."+opts.Format)
		var err error
		if opts.Format == "xlsx" {
			err = writeExcel(path, header, rows)
		} else {
			err = writeCSV(path, header, rows)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func without(columns []string, drop string) []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if c != drop {
			out = append(out, c)
		}
	}
	return out
}

func sampleRows(s models.Schema, header []string, n int, rng *rand.Rand) [][]interface{} {
	categorical := make(map[string]bool, len(s.CategoricalColumns))
	for _, c := range s.CategoricalColumns {
		categorical[c] = true
	}

	rows := make([][]interface{}, n)
	for i := range rows {
		row := make([]interface{}, len(header))
		for j, col := range header {
			if categorical[col] {
				row[j] = categories[rng.Intn(len(categories))]
			} else {
				row[j] = rng.Intn(1000)
			}
		}
		rows[i] = row
	}
	return rows
}

func writeCSV(path string, header []string, rows [][]interface{}) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = fmt.Sprint(v)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeExcel(path string, header []string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	// The reader picks the first sheet
	sheetName := "Data"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		return err
	}

	if len(header) > 0 {
		headerStyle, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true},
			Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
		})
		if err != nil {
			return err
		}
		lastCell, _ := excelize.CoordinatesToCellName(len(header), 1)
		if err := f.SetCellStyle(sheetName, "A1", lastCell, headerStyle); err != nil {
			return err
		}
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		r := row
		if err := f.SetSheetRow(sheetName, cell, &r); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"data-validation/internal/models"
	"data-validation/internal/utils"

	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\ufeff"

// Reader loads ingested tables from disk.
type Reader interface {
	ReadTable(path string) (*models.Dataset, error)
}

// FileReader reads delimited text (.csv, .tsv) and Excel (.xlsx) tables. The
// first row is the header.
type FileReader struct {
	// Sheet selects the Excel sheet. Empty means the first sheet.
	Sheet string
}

func NewFileReader() *FileReader {
	return &FileReader{}
}

// ReadTable loads the table at path. Any failure is returned as a
// utils.PipelineError.
func (r *FileReader) ReadTable(path string) (*models.Dataset, error) {
	var (
		header []string
		rows   [][]string
		err    error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		header, rows, err = readDelimited(path, ',')
	case ".tsv":
		header, rows, err = readDelimited(path, '\t')
	case ".xlsx", ".xlsm":
		header, rows, err = r.readExcel(path)
	default:
		err = fmt.Errorf("unsupported table format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, utils.WrapError("dataset.read_table", fmt.Errorf("%s: %w", path, err))
	}

	return &models.Dataset{
		Name:    filepath.Base(path),
		Path:    path,
		Columns: header,
		Rows:    rows,
	}, nil
}

func readDelimited(path string, comma rune) ([]string, [][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = comma
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, errors.New("file has no header row")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	header = normalizeHeader(header)

	var rows [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read rows: %w", err)
		}
		rows = append(rows, rec)
	}

	return header, rows, nil
}

func (r *FileReader) readExcel(path string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := r.Sheet
	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, errors.New("no sheets found in Excel file")
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, errors.New("file has no header row")
	}

	return normalizeHeader(rows[0]), rows[1:], nil
}

// normalizeHeader strips a leading byte order mark. Labels are otherwise kept
// verbatim, duplicates included.
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	copy(out, header)
	if len(out) > 0 {
		out[0] = strings.TrimPrefix(out[0], utf8BOM)
	}
	return out
}

package schema

import (
	"fmt"
	"os"
	"strings"

	"data-validation/internal/models"
	"data-validation/internal/utils"

	"gopkg.in/yaml.v3"
)

type documentFile struct {
	Columns            []interface{} `yaml:"columns"`
	NumericalColumns   []string      `yaml:"numerical_columns"`
	CategoricalColumns []string      `yaml:"categorical_columns"`
}

// Load reads and parses the schema file at path.
func Load(path string) (*models.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, utils.WrapError("schema.load", err)
	}
	return Parse(data, path)
}

// Parse decodes a YAML schema document. Entries of columns may be plain names
// or single-key maps such as "- age: int".
func Parse(data []byte, source string) (*models.Schema, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, utils.NewError("schema.parse", fmt.Sprintf("schema file %s is empty", source))
	}

	var doc documentFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, utils.WrapError("schema.parse", fmt.Errorf("parse %s: %w", source, err))
	}

	columns := make([]string, 0, len(doc.Columns))
	for idx, entry := range doc.Columns {
		name, err := columnName(entry)
		if err != nil {
			return nil, utils.WrapError("schema.parse", fmt.Errorf("%s: columns[%d]: %w", source, idx, err))
		}
		columns = append(columns, name)
	}

	return &models.Schema{
		Columns:            columns,
		NumericalColumns:   cloneNames(doc.NumericalColumns),
		CategoricalColumns: cloneNames(doc.CategoricalColumns),
	}, nil
}

func columnName(entry interface{}) (string, error) {
	switch v := entry.(type) {
	case string:
		return v, nil
	case map[string]interface{}:
		if len(v) != 1 {
			return "", fmt.Errorf("expected a single name, got %d keys", len(v))
		}
		for name := range v {
			return name, nil
		}
	case nil:
		return "", fmt.Errorf("empty column entry")
	}
	return fmt.Sprint(entry), nil
}

func cloneNames(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

package models

// Schema is the column contract every ingested table must satisfy. Columns
// holds the full expected column list; its length is the expected total and
// may exceed the numerical and categorical groups combined.
type Schema struct {
	Columns            []string `json:"columns" yaml:"-"`
	NumericalColumns   []string `json:"numerical_columns" yaml:"numerical_columns"`
	CategoricalColumns []string `json:"categorical_columns" yaml:"categorical_columns"`
}

// TotalColumns returns the expected number of columns.
func (s Schema) TotalColumns() int {
	return len(s.Columns)
}

package models

// Dataset is a table loaded from an ingested file. Only Columns take part in
// schema checks; Rows are kept for callers that need a preview.
type Dataset struct {
	Name    string     `json:"name"`
	Path    string     `json:"path"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"-"`
}

// HasColumn reports whether label is one of the dataset's columns. A nil
// dataset has none.
func (d *Dataset) HasColumn(label string) bool {
	if d == nil {
		return false
	}
	for _, column := range d.Columns {
		if column == label {
			return true
		}
	}
	return false
}

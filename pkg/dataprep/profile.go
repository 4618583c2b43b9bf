package dataprep

import (
	"github.com/alfiobonanno/Data-Science-Projects/pkg/frame"
)

const bytesPerMB = 1024 * 1024

// Profile summarises a table.
type Profile struct {
	Rows     int     `yaml:"rows" json:"rows"`
	Columns  int     `yaml:"columns" json:"columns"`
	MemoryMB float64 `yaml:"memory_usage_mb" json:"memory_usage_mb"`

	NullCounts map[string]int        `yaml:"null_counts" json:"null_counts"`
	Kinds      map[string]frame.Kind `yaml:"dtypes" json:"dtypes"`

	// NumericColumns holds int and float columns, CategoricalColumns text
	// columns. Bool and time columns belong to neither and are listed in
	// OtherColumns.
	NumericColumns     []string `yaml:"numeric_columns" json:"numeric_columns"`
	CategoricalColumns []string `yaml:"categorical_columns" json:"categorical_columns"`
	OtherColumns       []string `yaml:"other_columns" json:"other_columns"`
}

// ProfileTable computes shape, memory footprint, null counts and kinds of t.
func ProfileTable(t *frame.Table) Profile {
	rows, cols := t.Shape()
	p := Profile{
		Rows:               rows,
		Columns:            cols,
		NullCounts:         make(map[string]int, cols),
		Kinds:              make(map[string]frame.Kind, cols),
		NumericColumns:     []string{},
		CategoricalColumns: []string{},
		OtherColumns:       []string{},
	}

	var size int64
	for _, c := range t.Columns() {
		size += c.MemoryBytes()
		p.NullCounts[c.Name()] = c.NullCount()
		p.Kinds[c.Name()] = c.Kind()
		switch {
		case c.Kind().Numeric():
			p.NumericColumns = append(p.NumericColumns, c.Name())
		case c.Kind().Categorical():
			p.CategoricalColumns = append(p.CategoricalColumns, c.Name())
		default:
			p.OtherColumns = append(p.OtherColumns, c.Name())
		}
	}
	p.MemoryMB = float64(size) / bytesPerMB
	return p
}

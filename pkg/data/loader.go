package data

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/alfiobonanno/Data-Science-Projects/pkg/apperrors"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/frame"
)

// DefaultNullValues are the cell values read as missing.
var DefaultNullValues = []string{"", "NA", "NaN", "null", "<nil>"}

type loadConfig struct {
	delimiter  rune
	nullValues []string
}

// LoadOption configures how a delimited file is read.
type LoadOption func(*loadConfig)

// WithDelimiter sets the field delimiter. The default is ','.
func WithDelimiter(r rune) LoadOption { return func(c *loadConfig) { c.delimiter = r } }

// WithNullValues replaces the set of cell values read as missing.
func WithNullValues(values ...string) LoadOption {
	return func(c *loadConfig) { c.nullValues = append([]string(nil), values...) }
}

func newLoadConfig(opts []LoadOption) loadConfig {
	cfg := loadConfig{delimiter: ',', nullValues: DefaultNullValues}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// ReadCSV reads a delimited table with a header row. Column kinds are
// detected from the values: int, then float, then bool, otherwise string.
// A column whose cells are all missing is a float column of nulls. A file
// holding only the header yields a table with zero rows of string columns.
//
// Header names are kept as written. An empty name becomes "Unnamed: <i>",
// where i is the column position, and a repeated name is an error.
func ReadCSV(r io.Reader, opts ...LoadOption) (*frame.Table, error) {
	cfg := newLoadConfig(opts)
	cr := csv.NewReader(r)
	cr.Comma = cfg.delimiter
	records, err := cr.ReadAll()
	if err != nil {
		return nil, &apperrors.IOError{Op: "parse csv", Err: err}
	}
	if len(records) == 0 {
		return nil, &apperrors.IOError{Op: "parse csv", Err: errNoHeader}
	}
	header, err := headerNames(records[0])
	if err != nil {
		return nil, err
	}

	var cols []*frame.Column
	if len(records) == 1 {
		for _, name := range header {
			cols = append(cols, frame.NewStrings(name, nil, nil))
		}
	} else {
		df := dataframe.LoadRecords(records,
			dataframe.HasHeader(true),
			dataframe.DetectTypes(true),
			dataframe.NaNValues(cfg.nullValues),
		)
		t, err := frame.FromDataFrame(df)
		if err != nil {
			return nil, &apperrors.IOError{Op: "parse csv", Err: err}
		}
		// gota renames empty and repeated headers; columns keep their order.
		for i, c := range t.Columns() {
			if c.Len() > 0 && c.NullCount() == c.Len() {
				c = frame.NewFloats(c.Name(), nullFloats(c.Len()))
			}
			cols = append(cols, c.Rename(header[i]))
		}
	}
	t, err := frame.New(cols...)
	if err != nil {
		return nil, &apperrors.IOError{Op: "parse csv", Err: err}
	}
	return t, nil
}

var errNoHeader = errors.New("no header row")

func headerNames(raw []string) ([]string, error) {
	names := make([]string, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for i, name := range raw {
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if _, dup := seen[name]; dup {
			return nil, apperrors.Validation("parse csv", "duplicate column %q in header", name)
		}
		seen[name] = struct{}{}
		names[i] = name
	}
	return names, nil
}

func nullFloats(n int) []float64 {
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = math.NaN()
	}
	return vals
}

// LoadCSV reads the whole file at path into memory. Errors opening the
// file are returned unchanged; malformed content yields an *apperrors.IOError.
func LoadCSV(path string, opts ...LoadOption) (*frame.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	t, err := ReadCSV(bufio.NewReader(file), opts...)
	if err != nil {
		if ioErr, ok := err.(*apperrors.IOError); ok {
			ioErr.Path = path
		}
		return nil, err
	}
	return t, nil
}

// LoadAndValidate loads the file at path and checks that every expected
// column is present. The returned ValidationError lists exactly the missing
// names, sorted.
func LoadAndValidate(path string, expected []string, opts ...LoadOption) (*frame.Table, error) {
	t, err := LoadCSV(path, opts...)
	if err != nil {
		return nil, err
	}
	if missing := MissingColumns(t, expected); len(missing) > 0 {
		return nil, &apperrors.ValidationError{
			Op:      "load " + path,
			Msg:     "missing expected columns",
			Missing: missing,
		}
	}
	return t, nil
}

// MissingColumns returns the set difference expected − t.Names(), sorted
// and without duplicates.
func MissingColumns(t *frame.Table, expected []string) []string {
	seen := make(map[string]struct{}, len(expected))
	var missing []string
	for _, name := range expected {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if !t.Has(name) {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

// WriteCSV writes t with a header row. Floats keep every significant
// digit and always carry a decimal point or an exponent, so ReadCSV reads
// them back as floats. Nulls are written as NaN, which ReadCSV reads back
// as missing.
func WriteCSV(w io.Writer, t *frame.Table) error {
	if t.NumCols() == 0 {
		return nil
	}
	ss := make([]series.Series, 0, t.NumCols())
	for _, c := range t.Columns() {
		cells := make([]string, c.Len())
		for i := range cells {
			cells[i] = formatCell(c, i)
		}
		ss = append(ss, series.New(cells, series.String, c.Name()))
	}
	if err := dataframe.New(ss...).WriteCSV(w); err != nil {
		return &apperrors.IOError{Op: "write csv", Err: err}
	}
	return nil
}

func formatCell(c *frame.Column, i int) string {
	if c.IsNull(i) {
		return nullCell
	}
	s := c.Format(i)
	if c.Kind() == frame.KindFloat && !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return s
}

// nullCell is the text gota reads as a missing element.
const nullCell = "NaN"

// SaveCSV writes t to the file at path, replacing it if it exists.
func SaveCSV(path string, t *frame.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(file)
	if err := WriteCSV(w, t); err != nil {
		file.Close()
		if ioErr, ok := err.(*apperrors.IOError); ok {
			ioErr.Path = path
		}
		return err
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

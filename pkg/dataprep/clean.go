package dataprep

import (
	"math"
	"strconv"
	"strings"

	"github.com/alfiobonanno/Data-Science-Projects/pkg/apperrors"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/frame"
)

// DropSparseColumns removes every column whose null ratio is above
// threshold and returns the dropped names in column order. threshold must
// be within [0, 1]. An empty table keeps all its columns.
func DropSparseColumns(t *frame.Table, threshold float64) (*frame.Table, []string, error) {
	if threshold < 0 || threshold > 1 || math.IsNaN(threshold) {
		return nil, nil, apperrors.Validation("drop sparse columns", "threshold must be within [0, 1], got %v", threshold)
	}
	rows := t.NumRows()
	if rows == 0 {
		return t, nil, nil
	}
	var dropped []string
	for _, c := range t.Columns() {
		if float64(c.NullCount())/float64(rows) > threshold {
			dropped = append(dropped, c.Name())
		}
	}
	if len(dropped) == 0 {
		return t, nil, nil
	}
	out, err := t.Drop(dropped...)
	if err != nil {
		return nil, nil, err
	}
	return out, dropped, nil
}

// DropDuplicates keeps the first occurrence of every distinct row. Two
// nulls in the same column compare equal.
func DropDuplicates(t *frame.Table) *frame.Table {
	cols := t.Columns()
	seen := make(map[string]struct{}, t.NumRows())
	keep := make([]int, 0, t.NumRows())

	var key strings.Builder
	for i := 0; i < t.NumRows(); i++ {
		key.Reset()
		for _, c := range cols {
			// A null is "-"; a value is its byte length, ':' and its text.
			if c.IsNull(i) {
				key.WriteByte('-')
				continue
			}
			s := c.Format(i)
			key.WriteString(strconv.Itoa(len(s)))
			key.WriteByte(':')
			key.WriteString(s)
		}
		if _, dup := seen[key.String()]; dup {
			continue
		}
		seen[key.String()] = struct{}{}
		keep = append(keep, i)
	}
	if len(keep) == t.NumRows() {
		return t
	}
	return t.Take(keep)
}

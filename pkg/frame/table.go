// Package frame holds the in-memory, column-oriented table that every
// dataset utility in this module consumes and returns.
//
// Tables and columns are immutable. Operations that change the shape of a
// table return a new Table and leave the receiver untouched; unchanged
// columns are shared between the two.
package frame

import (
	"github.com/alfiobonanno/Data-Science-Projects/pkg/apperrors"
)

// Table is an ordered collection of uniquely named columns of equal length.
type Table struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// New builds a table from columns. It fails when two columns share a name
// or when column lengths differ.
func New(cols ...*Column) (*Table, error) {
	t := &Table{cols: make([]*Column, len(cols)), index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if c == nil {
			return nil, apperrors.Validation("frame", "column %d is nil", i)
		}
		if _, dup := t.index[c.Name()]; dup {
			return nil, apperrors.Validation("frame", "duplicate column %q", c.Name())
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, apperrors.Validation("frame", "column %q has %d rows, want %d", c.Name(), c.Len(), t.rows)
		}
		t.index[c.Name()] = i
		t.cols[i] = c
	}
	return t, nil
}

// MustNew is like New but panics on error. It is meant for literals in
// tests and examples.
func MustNew(cols ...*Column) *Table {
	t, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// Shape returns the number of rows and columns.
func (t *Table) Shape() (rows, cols int) { return t.rows, len(t.cols) }

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return t.rows }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.cols) }

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name()
	}
	return names
}

// Has reports whether the table has a column called name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, &apperrors.ColumnNotFoundError{Column: name}
	}
	return t.cols[i], nil
}

// Columns returns the columns in order.
func (t *Table) Columns() []*Column { return append([]*Column(nil), t.cols...) }

// Drop returns the table without the named columns.
func (t *Table) Drop(names ...string) (*Table, error) {
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		if !t.Has(name) {
			return nil, &apperrors.ColumnNotFoundError{Column: name}
		}
		drop[name] = struct{}{}
	}
	kept := make([]*Column, 0, len(t.cols))
	for _, c := range t.cols {
		if _, ok := drop[c.Name()]; !ok {
			kept = append(kept, c)
		}
	}
	return t.derive(kept), nil
}

// Select returns a table with only the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return New(cols...)
}

// WithColumn replaces the column of the same name in place, or appends c
// when no such column exists.
func (t *Table) WithColumn(c *Column) (*Table, error) {
	if i, ok := t.index[c.Name()]; ok {
		cols := t.Columns()
		cols[i] = c
		return New(cols...)
	}
	return t.Insert(len(t.cols), c)
}

// Insert places c at position i, shifting later columns right.
func (t *Table) Insert(i int, c *Column) (*Table, error) {
	if i < 0 || i > len(t.cols) {
		return nil, apperrors.Validation("frame", "insert position %d out of range [0, %d]", i, len(t.cols))
	}
	cols := make([]*Column, 0, len(t.cols)+1)
	cols = append(cols, t.cols[:i]...)
	cols = append(cols, c)
	cols = append(cols, t.cols[i:]...)
	return New(cols...)
}

// Take returns a table holding the given rows, in the given order.
func (t *Table) Take(rows []int) *Table {
	cols := make([]*Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.Take(rows)
	}
	out := t.derive(cols)
	out.rows = len(rows)
	return out
}

// Equal reports whether both tables hold equal columns in the same order.
func (t *Table) Equal(o *Table) bool {
	if t.rows != o.rows || len(t.cols) != len(o.cols) {
		return false
	}
	for i := range t.cols {
		if !t.cols[i].Equal(o.cols[i]) {
			return false
		}
	}
	return true
}

// derive builds a table from columns already known to be consistent
// with the receiver.
func (t *Table) derive(cols []*Column) *Table {
	out := &Table{cols: cols, index: make(map[string]int, len(cols)), rows: t.rows}
	for i, c := range cols {
		out.index[c.Name()] = i
	}
	return out
}

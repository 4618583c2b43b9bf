package frame

import (
	"math"
	"strconv"
	"time"

	"github.com/alfiobonanno/Data-Science-Projects/pkg/apperrors"
)

// Column is an immutable named sequence of values of a single Kind.
// Constructors copy their inputs, so a Column may be shared by any number
// of tables.
type Column struct {
	name   string
	kind   Kind
	n      int
	ints   []int64
	floats []float64
	bools  []bool
	strs   []string
	times  []time.Time
	nulls  []bool // nil when no value is null
}

// Byte sizes used by MemoryBytes. A string cell is its header plus its bytes.
const (
	numericCellBytes = 8
	boolCellBytes    = 1
	timeCellBytes    = 24
	stringCellBytes  = 16
	nullMaskBytes    = 1
)

// NewInts creates an integer column. nulls may be nil; it panics if nulls
// is non-nil and its length differs from values.
func NewInts(name string, values []int64, nulls []bool) *Column {
	c := &Column{name: name, kind: KindInt, n: len(values)}
	c.ints = append([]int64(nil), values...)
	c.nulls = copyNulls(nulls, c.n)
	return c
}

// NewFloats creates a floating-point column. NaN values are nulls.
func NewFloats(name string, values []float64) *Column {
	c := &Column{name: name, kind: KindFloat, n: len(values)}
	c.floats = append([]float64(nil), values...)
	nulls := make([]bool, c.n)
	for i, v := range values {
		nulls[i] = math.IsNaN(v)
	}
	c.nulls = copyNulls(nulls, c.n)
	return c
}

// NewBools creates a boolean column.
func NewBools(name string, values []bool, nulls []bool) *Column {
	c := &Column{name: name, kind: KindBool, n: len(values)}
	c.bools = append([]bool(nil), values...)
	c.nulls = copyNulls(nulls, c.n)
	return c
}

// NewStrings creates a text column.
func NewStrings(name string, values []string, nulls []bool) *Column {
	c := &Column{name: name, kind: KindString, n: len(values)}
	c.strs = append([]string(nil), values...)
	c.nulls = copyNulls(nulls, c.n)
	return c
}

// NewTimes creates a timestamp column.
func NewTimes(name string, values []time.Time, nulls []bool) *Column {
	c := &Column{name: name, kind: KindTime, n: len(values)}
	c.times = append([]time.Time(nil), values...)
	c.nulls = copyNulls(nulls, c.n)
	return c
}

func copyNulls(nulls []bool, n int) []bool {
	if nulls == nil {
		return nil
	}
	if len(nulls) != n {
		panic("frame: null mask length does not match values")
	}
	for _, null := range nulls {
		if null {
			return append([]bool(nil), nulls...)
		}
	}
	return nil
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Kind returns the kind shared by every value.
func (c *Column) Kind() Kind { return c.kind }

// Len returns the number of rows, nulls included.
func (c *Column) Len() int { return c.n }

// IsNull reports whether row i is missing.
func (c *Column) IsNull(i int) bool { return c.nulls != nil && c.nulls[i] }

// NullCount returns the number of null values.
func (c *Column) NullCount() int {
	count := 0
	for _, null := range c.nulls {
		if null {
			count++
		}
	}
	return count
}

// Value returns the value at row i as int64, float64, bool, string or
// time.Time, or nil when it is null.
func (c *Column) Value(i int) any {
	if c.IsNull(i) {
		return nil
	}
	switch c.kind {
	case KindInt:
		return c.ints[i]
	case KindFloat:
		return c.floats[i]
	case KindBool:
		return c.bools[i]
	case KindString:
		return c.strs[i]
	case KindTime:
		return c.times[i]
	}
	return nil
}

// Float returns row i of a numeric column as float64. ok is false for
// nulls and for non-numeric columns.
func (c *Column) Float(i int) (v float64, ok bool) {
	if c.IsNull(i) {
		return 0, false
	}
	switch c.kind {
	case KindInt:
		return float64(c.ints[i]), true
	case KindFloat:
		return c.floats[i], true
	}
	return 0, false
}

// Format returns the textual form of row i, or "" when it is null.
func (c *Column) Format(i int) string {
	if c.IsNull(i) {
		return ""
	}
	switch c.kind {
	case KindInt:
		return strconv.FormatInt(c.ints[i], 10)
	case KindFloat:
		return strconv.FormatFloat(c.floats[i], 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(c.bools[i])
	case KindString:
		return c.strs[i]
	case KindTime:
		return c.times[i].Format(time.RFC3339Nano)
	}
	return ""
}

// Floats returns the non-null values of a numeric column in row order.
func (c *Column) Floats() []float64 {
	out := make([]float64, 0, c.n)
	for i := 0; i < c.n; i++ {
		if v, ok := c.Float(i); ok {
			out = append(out, v)
		}
	}
	return out
}

// Ints returns a copy of the integer values; null slots hold zero.
func (c *Column) Ints() []int64 { return append([]int64(nil), c.ints...) }

// Bools returns a copy of the boolean values; null slots hold false.
func (c *Column) Bools() []bool { return append([]bool(nil), c.bools...) }

// Strings returns a copy of the text values; null slots hold "".
func (c *Column) Strings() []string { return append([]string(nil), c.strs...) }

// Nulls returns a copy of the null mask, one entry per row.
func (c *Column) Nulls() []bool {
	out := make([]bool, c.n)
	copy(out, c.nulls)
	return out
}

// FillNulls returns a copy of c with every null replaced by v, which must
// have the Go type Value returns for c's kind. An int64 is accepted for a
// float column.
func (c *Column) FillNulls(v any) (*Column, error) {
	if c.nulls == nil {
		return c, nil
	}
	out := *c
	out.nulls = nil
	ok := false
	switch c.kind {
	case KindInt:
		var x int64
		if x, ok = v.(int64); ok {
			out.ints = fill(c.ints, c.nulls, x)
		}
	case KindFloat:
		var x float64
		switch n := v.(type) {
		case float64:
			x, ok = n, !math.IsNaN(n)
		case int64:
			x, ok = float64(n), true
		}
		if ok {
			out.floats = fill(c.floats, c.nulls, x)
		}
	case KindBool:
		var x bool
		if x, ok = v.(bool); ok {
			out.bools = fill(c.bools, c.nulls, x)
		}
	case KindString:
		var x string
		if x, ok = v.(string); ok {
			out.strs = fill(c.strs, c.nulls, x)
		}
	case KindTime:
		var x time.Time
		if x, ok = v.(time.Time); ok {
			out.times = fill(c.times, c.nulls, x)
		}
	}
	if !ok {
		return nil, apperrors.Validation("fill nulls", "cannot fill %s column %q with %T(%v)", c.kind, c.name, v, v)
	}
	return &out, nil
}

func fill[T any](values []T, nulls []bool, v T) []T {
	out := append([]T(nil), values...)
	for i, null := range nulls {
		if null {
			out[i] = v
		}
	}
	return out
}

// Rename returns the same values under another name.
func (c *Column) Rename(name string) *Column {
	cp := *c
	cp.name = name
	return &cp
}

// Take returns a column holding the given rows, in the given order.
func (c *Column) Take(rows []int) *Column {
	out := &Column{name: c.name, kind: c.kind, n: len(rows)}
	var nulls []bool
	if c.nulls != nil {
		nulls = make([]bool, len(rows))
	}
	switch c.kind {
	case KindInt:
		out.ints = make([]int64, len(rows))
	case KindFloat:
		out.floats = make([]float64, len(rows))
	case KindBool:
		out.bools = make([]bool, len(rows))
	case KindString:
		out.strs = make([]string, len(rows))
	case KindTime:
		out.times = make([]time.Time, len(rows))
	}
	for j, i := range rows {
		if nulls != nil {
			nulls[j] = c.nulls[i]
		}
		switch c.kind {
		case KindInt:
			out.ints[j] = c.ints[i]
		case KindFloat:
			out.floats[j] = c.floats[i]
		case KindBool:
			out.bools[j] = c.bools[i]
		case KindString:
			out.strs[j] = c.strs[i]
		case KindTime:
			out.times[j] = c.times[i]
		}
	}
	out.nulls = copyNulls(nulls, len(rows))
	return out
}

// MemoryBytes estimates the in-memory size of every cell, counting the
// bytes of each string.
func (c *Column) MemoryBytes() int64 {
	var size int64
	switch c.kind {
	case KindInt, KindFloat:
		size = int64(c.n) * numericCellBytes
	case KindBool:
		size = int64(c.n) * boolCellBytes
	case KindTime:
		size = int64(c.n) * timeCellBytes
	case KindString:
		for _, s := range c.strs {
			size += stringCellBytes + int64(len(s))
		}
	}
	if c.nulls != nil {
		size += int64(c.n) * nullMaskBytes
	}
	return size
}

// Equal reports whether both columns have the same name, kind, nulls and values.
func (c *Column) Equal(o *Column) bool {
	if c == o {
		return true
	}
	if o == nil || c.name != o.name || c.kind != o.kind || c.n != o.n {
		return false
	}
	for i := 0; i < c.n; i++ {
		if c.IsNull(i) != o.IsNull(i) {
			return false
		}
		if c.IsNull(i) {
			continue
		}
		if c.kind == KindTime {
			if !c.times[i].Equal(o.times[i]) {
				return false
			}
			continue
		}
		if c.Value(i) != o.Value(i) {
			return false
		}
	}
	return true
}

package dataprep

import (
	"sort"
	"strings"
	"time"

	"github.com/alfiobonanno/Data-Science-Projects/pkg/apperrors"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/frame"
)

// Method selects how categorical columns are turned into numbers.
type Method string

const (
	MethodOneHot Method = "onehot"
	MethodLabel  Method = "label"
)

// ParseMethod validates an encoding method name.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case MethodOneHot, MethodLabel:
		return m, nil
	}
	return "", apperrors.Validation("encode", "method must be 'onehot' or 'label', got %q", s)
}

// Selection chooses the columns to encode: AutoDetect or Specified.
type Selection interface {
	resolve(t *frame.Table) ([]*frame.Column, error)
}

// AutoDetect selects every text column.
type AutoDetect struct{}

func (AutoDetect) resolve(t *frame.Table) ([]*frame.Column, error) {
	var cols []*frame.Column
	for _, c := range t.Columns() {
		if c.Kind().Categorical() {
			cols = append(cols, c)
		}
	}
	return cols, nil
}

// Specified selects the named columns, whatever their kind.
type Specified []string

func (s Specified) resolve(t *frame.Table) ([]*frame.Column, error) {
	seen := make(map[string]struct{}, len(s))
	cols := make([]*frame.Column, 0, len(s))
	for _, name := range s {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, nil
}

// EncodeCategorical returns a copy of t with the selected columns encoded.
// A nil selection means AutoDetect.
//
// MethodOneHot drops each selected column and appends, after the remaining
// columns, one bool column per distinct non-null value named
// "<column>_<value>", values in sorted order. A null row is false in every
// indicator.
//
// MethodLabel replaces each selected column in place with int codes
// 0..k-1 assigned to the distinct non-null values in sorted order. Nulls
// stay null.
func EncodeCategorical(t *frame.Table, sel Selection, method Method) (*frame.Table, error) {
	if method != MethodOneHot && method != MethodLabel {
		return nil, apperrors.Validation("encode", "method must be 'onehot' or 'label', got %q", string(method))
	}
	if sel == nil {
		sel = AutoDetect{}
	}
	cols, err := sel.resolve(t)
	if err != nil {
		return nil, err
	}
	if method == MethodLabel {
		return labelEncode(t, cols)
	}
	return oneHotEncode(t, cols)
}

func oneHotEncode(t *frame.Table, cols []*frame.Column) (*frame.Table, error) {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name()
	}
	out, err := t.Drop(names...)
	if err != nil {
		return nil, err
	}
	for _, c := range cols {
		lv := levelsOf(c)
		indicators := make([][]bool, len(lv.labels))
		for j := range indicators {
			indicators[j] = make([]bool, c.Len())
		}
		for i, code := range lv.codes {
			if code >= 0 {
				indicators[code][i] = true
			}
		}
		for j, label := range lv.labels {
			name := c.Name() + "_" + label
			if out.Has(name) {
				return nil, apperrors.Validation("encode", "indicator column %q already exists", name)
			}
			if out, err = out.WithColumn(frame.NewBools(name, indicators[j], nil)); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func labelEncode(t *frame.Table, cols []*frame.Column) (*frame.Table, error) {
	out := t
	for _, c := range cols {
		lv := levelsOf(c)
		codes := make([]int64, c.Len())
		nulls := make([]bool, c.Len())
		for i, code := range lv.codes {
			if code < 0 {
				nulls[i] = true
				continue
			}
			codes[i] = int64(code)
		}
		var err error
		if out, err = out.WithColumn(frame.NewInts(c.Name(), codes, nulls)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// levels holds the sorted distinct values of a column and, per row, the
// index of the row's value in labels (-1 for nulls).
type levels struct {
	labels []string
	codes  []int
}

func levelsOf(c *frame.Column) levels {
	first := make(map[any]int)
	var distinct []int
	for i := 0; i < c.Len(); i++ {
		v := c.Value(i)
		if v == nil {
			continue
		}
		if ts, ok := v.(time.Time); ok {
			v = ts.UnixNano()
		}
		if _, ok := first[v]; !ok {
			first[v] = i
			distinct = append(distinct, i)
		}
	}
	sort.Slice(distinct, func(a, b int) bool { return less(c.Value(distinct[a]), c.Value(distinct[b])) })

	rank := make(map[int]int, len(distinct))
	lv := levels{labels: make([]string, len(distinct)), codes: make([]int, c.Len())}
	for code, row := range distinct {
		rank[row] = code
		lv.labels[code] = c.Format(row)
	}
	for i := range lv.codes {
		v := c.Value(i)
		if v == nil {
			lv.codes[i] = -1
			continue
		}
		if ts, ok := v.(time.Time); ok {
			v = ts.UnixNano()
		}
		lv.codes[i] = rank[first[v]]
	}
	return lv
}

func less(a, b any) bool {
	switch x := a.(type) {
	case int64:
		return x < b.(int64)
	case float64:
		return x < b.(float64)
	case bool:
		return !x && b.(bool)
	case string:
		return x < b.(string)
	case time.Time:
		return x.Before(b.(time.Time))
	}
	return false
}

package frame

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// gotaNull is the record gota parses as a missing element for every type.
const gotaNull = "NaN"

// FromDataFrame converts a gota DataFrame. Int, Float and Bool series keep
// their kind; every other series becomes a String column.
func FromDataFrame(df dataframe.DataFrame) (*Table, error) {
	if df.Err != nil {
		return nil, df.Err
	}
	names := df.Names()
	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		c, err := fromSeries(df.Col(name))
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		cols = append(cols, c)
	}
	return New(cols...)
}

func fromSeries(s series.Series) (*Column, error) {
	n := s.Len()
	nulls := make([]bool, n)
	switch s.Type() {
	case series.Int:
		vals := make([]int64, n)
		for i := 0; i < n; i++ {
			e := s.Elem(i)
			if e.IsNA() {
				nulls[i] = true
				continue
			}
			v, err := e.Int()
			if err != nil {
				return nil, err
			}
			vals[i] = int64(v)
		}
		return NewInts(s.Name, vals, nulls), nil
	case series.Float:
		// Float() yields NaN for missing elements, which NewFloats treats as null.
		vals := make([]float64, n)
		for i := 0; i < n; i++ {
			vals[i] = s.Elem(i).Float()
		}
		return NewFloats(s.Name, vals), nil
	case series.Bool:
		vals := make([]bool, n)
		for i := 0; i < n; i++ {
			e := s.Elem(i)
			if e.IsNA() {
				nulls[i] = true
				continue
			}
			v, err := e.Bool()
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		return NewBools(s.Name, vals, nulls), nil
	default:
		vals := make([]string, n)
		for i := 0; i < n; i++ {
			e := s.Elem(i)
			if e.IsNA() {
				nulls[i] = true
				continue
			}
			vals[i] = e.String()
		}
		return NewStrings(s.Name, vals, nulls), nil
	}
}

// DataFrame converts the table to a gota DataFrame. Time columns become
// String series holding RFC 3339 timestamps.
func (t *Table) DataFrame() dataframe.DataFrame {
	ss := make([]series.Series, len(t.cols))
	for i, c := range t.cols {
		ss[i] = c.series()
	}
	return dataframe.New(ss...)
}

func (c *Column) series() series.Series {
	records := make([]string, c.n)
	for i := range records {
		if c.IsNull(i) {
			records[i] = gotaNull
			continue
		}
		records[i] = c.Format(i)
	}
	return series.New(records, gotaType(c.kind), c.name)
}

func gotaType(k Kind) series.Type {
	switch k {
	case KindInt:
		return series.Int
	case KindFloat:
		return series.Float
	case KindBool:
		return series.Bool
	}
	return series.String
}

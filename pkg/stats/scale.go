package stats

import (
	"math"

	"github.com/alfiobonanno/Data-Science-Projects/pkg/apperrors"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/frame"
)

// StandardScaler rescales numeric columns to zero mean and unit variance.
// Fit learns the statistics on one table so Transform can apply them to
// another, e.g. fit on the training split and transform both splits.
type StandardScaler struct {
	Columns []string
	Mean    map[string]float64
	Std     map[string]float64
	fit     bool
}

// NewStandardScaler scales the named columns, or every numeric column of
// the fitted table when none are given.
func NewStandardScaler(columns ...string) *StandardScaler {
	return &StandardScaler{Columns: columns}
}

func (s *StandardScaler) Fit(t *frame.Table) error {
	cols, err := numericColumns(t, "standard scaler", s.Columns)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(cols))
	s.Mean = make(map[string]float64, len(cols))
	s.Std = make(map[string]float64, len(cols))
	for _, c := range cols {
		vals := c.Floats()
		std := Std(vals)
		if std == 0 {
			std = 1
		}
		names = append(names, c.Name())
		s.Mean[c.Name()] = Mean(vals)
		s.Std[c.Name()] = std
	}
	s.Columns = names
	s.fit = true
	return nil
}

func (s *StandardScaler) Transform(t *frame.Table) (*frame.Table, error) {
	if !s.fit {
		return nil, apperrors.Validation("standard scaler", "transform called before fit")
	}
	if len(s.Columns) == 0 {
		return t, nil
	}
	cols, err := numericColumns(t, "standard scaler", s.Columns)
	if err != nil {
		return nil, err
	}
	out := t
	for _, c := range cols {
		mean, std := s.Mean[c.Name()], s.Std[c.Name()]
		out, err = out.WithColumn(mapFloats(c, func(v float64) float64 { return (v - mean) / std }))
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *StandardScaler) FitTransform(t *frame.Table) (*frame.Table, error) {
	if err := s.Fit(t); err != nil {
		return nil, err
	}
	return s.Transform(t)
}

// Standardize rescales the named numeric columns (all numeric columns when
// none are given) to zero mean and unit population std, fitting on t.
func Standardize(t *frame.Table, columns ...string) (*frame.Table, error) {
	return NewStandardScaler(columns...).FitTransform(t)
}

// MinMaxScale maps each named numeric column (all numeric columns when
// none are given) to [0, 1]. Constant columns become 0.
func MinMaxScale(t *frame.Table, columns ...string) (*frame.Table, error) {
	cols, err := numericColumns(t, "min max scale", columns)
	if err != nil {
		return nil, err
	}
	out := t
	for _, c := range cols {
		min, max := MinMax(c.Floats())
		out, err = out.WithColumn(mapFloats(c, func(v float64) float64 {
			if max == min {
				return 0
			}
			return (v - min) / (max - min)
		}))
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func numericColumns(t *frame.Table, op string, names []string) ([]*frame.Column, error) {
	if len(names) == 0 {
		var cols []*frame.Column
		for _, c := range t.Columns() {
			if c.Kind().Numeric() {
				cols = append(cols, c)
			}
		}
		return cols, nil
	}
	cols := make([]*frame.Column, 0, len(names))
	for _, name := range names {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		if !c.Kind().Numeric() {
			return nil, apperrors.Validation(op, "column %q is %s, want a numeric column", name, c.Kind())
		}
		cols = append(cols, c)
	}
	return cols, nil
}

// mapFloats applies f to every non-null value, producing a float column.
func mapFloats(c *frame.Column, f func(float64) float64) *frame.Column {
	out := make([]float64, c.Len())
	for i := range out {
		if v, ok := c.Float(i); ok {
			out[i] = f(v)
		} else {
			out[i] = math.NaN()
		}
	}
	return frame.NewFloats(c.Name(), out)
}

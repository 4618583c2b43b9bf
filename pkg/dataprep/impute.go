package dataprep

import (
	"math"
	"strings"

	"github.com/alfiobonanno/Data-Science-Projects/pkg/apperrors"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/frame"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/stats"
)

// Strategy selects the value used to fill nulls.
type Strategy string

const (
	StrategyMean     Strategy = "mean"
	StrategyMedian   Strategy = "median"
	StrategyMode     Strategy = "mode"
	StrategyConstant Strategy = "constant"
)

// ParseStrategy validates an imputation strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case StrategyMean, StrategyMedian, StrategyMode, StrategyConstant:
		return st, nil
	}
	return "", apperrors.Validation("impute", "strategy must be one of mean, median, mode, constant, got %q", s)
}

// Impute returns a copy of t with the nulls of the named columns filled.
// With no names every column holding nulls is filled; mean and median then
// skip non-numeric columns instead of failing.
//
// Mean and median fill numeric columns and turn them into float columns.
// Mode uses the most frequent value, the smallest one on ties, and keeps
// the kind. Constant parses fill into each column's kind. A column with no
// values at all is left as it is.
func Impute(t *frame.Table, strategy Strategy, fill string, columns ...string) (*frame.Table, error) {
	strategy, err := ParseStrategy(string(strategy))
	if err != nil {
		return nil, err
	}
	auto := len(columns) == 0
	var cols []*frame.Column
	if auto {
		for _, c := range t.Columns() {
			if c.NullCount() == 0 {
				continue
			}
			if (strategy == StrategyMean || strategy == StrategyMedian) && !c.Kind().Numeric() {
				continue
			}
			cols = append(cols, c)
		}
	} else if cols, err = Specified(columns).resolve(t); err != nil {
		return nil, err
	}

	out := t
	for _, c := range cols {
		filled, err := imputeColumn(c, strategy, fill)
		if err != nil {
			return nil, err
		}
		if out, err = out.WithColumn(filled); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func imputeColumn(c *frame.Column, strategy Strategy, fill string) (*frame.Column, error) {
	if c.NullCount() == 0 {
		return c, nil
	}
	switch strategy {
	case StrategyMean, StrategyMedian:
		if !c.Kind().Numeric() {
			return nil, apperrors.Validation("impute", "%s needs a numeric column, %q is %s", strategy, c.Name(), c.Kind())
		}
		vals := c.Floats()
		if len(vals) == 0 {
			return c, nil
		}
		v := stats.Mean(vals)
		if strategy == StrategyMedian {
			v = stats.Median(vals)
		}
		return asFloats(c).FillNulls(v)
	case StrategyMode:
		v, ok := mode(c)
		if !ok {
			return c, nil
		}
		return c.FillNulls(v)
	default:
		v, err := c.Kind().Parse(fill)
		if err != nil {
			return nil, apperrors.Validation("impute", "fill value %q does not fit %s column %q", fill, c.Kind(), c.Name())
		}
		return c.FillNulls(v)
	}
}

// mode returns the most frequent non-null value of c.
func mode(c *frame.Column) (any, bool) {
	lv := levelsOf(c)
	if len(lv.labels) == 0 {
		return nil, false
	}
	counts := make([]int, len(lv.labels))
	first := make([]int, len(lv.labels))
	for i := len(lv.codes) - 1; i >= 0; i-- {
		if code := lv.codes[i]; code >= 0 {
			counts[code]++
			first[code] = i
		}
	}
	best := 0
	for code, n := range counts {
		if n > counts[best] {
			best = code
		}
	}
	return c.Value(first[best]), true
}

func asFloats(c *frame.Column) *frame.Column {
	if c.Kind() == frame.KindFloat {
		return c
	}
	vals := make([]float64, c.Len())
	for i := range vals {
		if v, ok := c.Float(i); ok {
			vals[i] = v
		} else {
			vals[i] = math.NaN()
		}
	}
	return frame.NewFloats(c.Name(), vals)
}

package stats

import (
	"math"

	"github.com/alfiobonanno/Data-Science-Projects/pkg/apperrors"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/frame"
)

// DefaultIQRFactor is the conventional Tukey fence multiplier.
const DefaultIQRFactor = 1.5

// IQRBounds returns Q1 - factor*IQR and Q3 + factor*IQR for x.
func IQRBounds(x []float64, factor float64) (lower, upper float64) {
	q1 := Percentile(x, 25)
	q3 := Percentile(x, 75)
	iqr := q3 - q1
	return q1 - factor*iqr, q3 + factor*iqr
}

// RemoveOutliersIQR drops the rows of t whose value in column falls outside
// the IQR bounds. Quartiles are computed over non-null values and null rows
// are dropped. Surviving rows keep their order.
//
// A negative or NaN factor and a non-numeric column are rejected with a
// ValidationError; an absent column yields a ColumnNotFoundError.
func RemoveOutliersIQR(t *frame.Table, column string, factor float64) (*frame.Table, error) {
	if factor < 0 || math.IsNaN(factor) {
		return nil, apperrors.Validation("remove outliers", "factor must be non-negative, got %v", factor)
	}
	col, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	if !col.Kind().Numeric() {
		return nil, apperrors.Validation("remove outliers", "column %q is %s, want a numeric column", column, col.Kind())
	}

	lower, upper := IQRBounds(col.Floats(), factor)
	keep := make([]int, 0, col.Len())
	for i := 0; i < col.Len(); i++ {
		v, ok := col.Float(i)
		if ok && v >= lower && v <= upper {
			keep = append(keep, i)
		}
	}
	return t.Take(keep), nil
}

// ClipOutliersIQR clamps the values of column to the IQR bounds instead of
// dropping rows. The column becomes a float column; nulls stay null.
func ClipOutliersIQR(t *frame.Table, column string, factor float64) (*frame.Table, error) {
	if factor < 0 || math.IsNaN(factor) {
		return nil, apperrors.Validation("clip outliers", "factor must be non-negative, got %v", factor)
	}
	col, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	if !col.Kind().Numeric() {
		return nil, apperrors.Validation("clip outliers", "column %q is %s, want a numeric column", column, col.Kind())
	}

	lower, upper := IQRBounds(col.Floats(), factor)
	out := make([]float64, col.Len())
	for i := range out {
		v, ok := col.Float(i)
		switch {
		case !ok:
			out[i] = math.NaN()
		case v < lower:
			out[i] = lower
		case v > upper:
			out[i] = upper
		default:
			out[i] = v
		}
	}
	return t.WithColumn(frame.NewFloats(column, out))
}

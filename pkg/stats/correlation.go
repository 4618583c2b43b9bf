package stats

import (
	"math"

	"github.com/alfiobonanno/Data-Science-Projects/pkg/frame"
)

// Covariance computes the population covariance of two equal-length slices.
// It returns NaN when they are empty or their lengths differ.
func Covariance(x, y []float64) float64 {
	n := len(x)
	if n == 0 || len(y) != n {
		return math.NaN()
	}
	mx, my := Mean(x), Mean(y)
	var sum float64
	for i := range x {
		sum += (x[i] - mx) * (y[i] - my)
	}
	return sum / float64(n)
}

// Correlation computes the Pearson correlation coefficient. It is NaN for
// fewer than two pairs and when either slice is constant.
func Correlation(x, y []float64) float64 {
	if len(x) < 2 || len(y) != len(x) {
		return math.NaN()
	}
	mx, my := Mean(x), Mean(y)
	var sxy, sxx, syy float64
	for i := range x {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return math.NaN()
	}
	r := sxy / math.Sqrt(sxx*syy)
	return math.Max(-1, math.Min(1, r))
}

// CorrMatrix holds pairwise correlations; Values[i][j] pairs Columns[i]
// with Columns[j].
type CorrMatrix struct {
	Columns []string
	Values  [][]float64
}

// At returns the correlation between the named columns.
func (m CorrMatrix) At(a, b string) (float64, bool) {
	i, j := -1, -1
	for k, name := range m.Columns {
		if name == a {
			i = k
		}
		if name == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

// CorrelationMatrix correlates the named numeric columns, or every numeric
// column when none are given. Each pair uses only the rows where both
// values are present. The diagonal is 1 unless the column is constant.
func CorrelationMatrix(t *frame.Table, columns ...string) (CorrMatrix, error) {
	cols, err := numericColumns(t, "correlation", columns)
	if err != nil {
		return CorrMatrix{}, err
	}
	m := CorrMatrix{Columns: make([]string, len(cols)), Values: make([][]float64, len(cols))}
	for i, c := range cols {
		m.Columns[i] = c.Name()
		m.Values[i] = make([]float64, len(cols))
	}
	for i, a := range cols {
		for j := i; j < len(cols); j++ {
			x, y := pairwise(a, cols[j])
			r := Correlation(x, y)
			m.Values[i][j], m.Values[j][i] = r, r
		}
	}
	return m, nil
}

// pairwise returns the values of rows where neither column is null.
func pairwise(a, b *frame.Column) (x, y []float64) {
	for i := 0; i < a.Len(); i++ {
		va, okA := a.Float(i)
		vb, okB := b.Float(i)
		if okA && okB {
			x = append(x, va)
			y = append(y, vb)
		}
	}
	return x, y
}

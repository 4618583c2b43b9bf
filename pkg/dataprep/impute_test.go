package dataprep

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfiobonanno/Data-Science-Projects/pkg/apperrors"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/frame"
)

func missingTable() *frame.Table {
	return frame.MustNew(
		frame.NewInts("age", []int64{20, 0, 40, 30}, []bool{false, true, false, false}),
		frame.NewFloats("income", []float64{1, math.NaN(), 2, 10}),
		frame.NewStrings("city", []string{"b", "a", "", "b"}, []bool{false, false, true, false}),
		frame.NewFloats("blank", []float64{math.NaN(), math.NaN(), math.NaN(), math.NaN()}),
	)
}

func TestImpute(t *testing.T) {
	tests := []struct {
		name     string
		strategy Strategy
		fill     string
		columns  []string
		column   string
		want     []any
	}{
		{name: "mean int becomes float", strategy: StrategyMean, columns: []string{"age"}, column: "age", want: []any{20.0, 30.0, 40.0, 30.0}},
		{name: "median", strategy: StrategyMedian, columns: []string{"income"}, column: "income", want: []any{1.0, 2.0, 2.0, 10.0}},
		{name: "mode keeps kind", strategy: StrategyMode, columns: []string{"city"}, column: "city", want: []any{"b", "a", "b", "b"}},
		{name: "constant int", strategy: StrategyConstant, fill: "0", columns: []string{"age"}, column: "age", want: []any{int64(20), int64(0), int64(40), int64(30)}},
		{name: "constant string", strategy: StrategyConstant, fill: "Unknown", columns: []string{"city"}, column: "city", want: []any{"b", "a", "Unknown", "b"}},
		{name: "auto mean skips text", strategy: StrategyMean, column: "city", want: []any{"b", "a", nil, "b"}},
		{name: "no values to average", strategy: StrategyMean, column: "blank", want: []any{nil, nil, nil, nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := missingTable()
			out, err := Impute(in, tt.strategy, tt.fill, tt.columns...)
			require.NoError(t, err)

			c, err := out.Column(tt.column)
			require.NoError(t, err)
			got := make([]any, c.Len())
			for i := range got {
				got[i] = c.Value(i)
			}
			assert.Equal(t, tt.want, got)
			assert.True(t, in.Equal(missingTable()), "input is left untouched")
		})
	}
}

func TestImpute_ModeTieTakesSmallest(t *testing.T) {
	tbl := frame.MustNew(frame.NewInts("n", []int64{3, 1, 0, 3, 1}, []bool{false, false, true, false, false}))
	out, err := Impute(tbl, StrategyMode, "")
	require.NoError(t, err)
	n, _ := out.Column("n")
	assert.Equal(t, []int64{3, 1, 1, 3, 1}, n.Ints())
}

func TestImpute_Errors(t *testing.T) {
	tbl := missingTable()

	_, err := Impute(tbl, StrategyMean, "", "city")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = Impute(tbl, StrategyConstant, "many", "age")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = Impute(tbl, Strategy("knn"), "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = Impute(tbl, StrategyMode, "", "missing")
	assert.ErrorIs(t, err, apperrors.ErrColumnNotFound)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy(" Median ")
	require.NoError(t, err)
	assert.Equal(t, StrategyMedian, s)

	_, err = ParseStrategy("interpolate")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

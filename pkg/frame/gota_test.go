package frame

import (
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataFrameRoundTrip(t *testing.T) {
	tbl := MustNew(
		NewInts("i", []int64{1, 2, 3}, []bool{false, true, false}),
		NewFloats("f", []float64{0.5, math.NaN(), 2.25}),
		NewBools("b", []bool{true, false, true}, nil),
		NewStrings("s", []string{"x", "", "z"}, []bool{false, true, false}),
	)

	df := tbl.DataFrame()
	require.NoError(t, df.Err)
	assert.Equal(t, []string{"i", "f", "b", "s"}, df.Names())
	assert.Equal(t, []series.Type{series.Int, series.Float, series.Bool, series.String}, df.Types())

	back, err := FromDataFrame(df)
	require.NoError(t, err)
	assert.True(t, tbl.Equal(back))
}

func TestFromDataFrameError(t *testing.T) {
	df := dataframe.DataFrame{Err: assert.AnError}
	_, err := FromDataFrame(df)
	assert.ErrorIs(t, err, assert.AnError)
}

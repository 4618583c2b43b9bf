package stats

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfiobonanno/Data-Science-Projects/pkg/apperrors"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/frame"
)

func TestIQRBounds(t *testing.T) {
	lower, upper := IQRBounds([]float64{1, 2, 3, 4, 5}, 1.5)
	assert.Equal(t, -1.0, lower)
	assert.Equal(t, 7.0, upper)

	lower, upper = IQRBounds([]float64{1, 2, 3, 4, 5}, 0)
	assert.Equal(t, 2.0, lower)
	assert.Equal(t, 4.0, upper)
}

func TestRemoveOutliersIQR(t *testing.T) {
	tbl := frame.MustNew(
		frame.NewInts("id", []int64{0, 1, 2, 3, 4, 5}, nil),
		frame.NewFloats("value", []float64{1, 2, 100, 3, math.NaN(), 4}),
	)

	out, err := RemoveOutliersIQR(tbl, "value", DefaultIQRFactor)
	require.NoError(t, err)

	ids, _ := out.Column("id")
	assert.Equal(t, []int64{0, 1, 3, 5}, ids.Ints(), "outlier and null rows dropped, order kept")
	assert.Equal(t, 6, tbl.NumRows(), "input must not change")
}

func TestRemoveOutliersIQR_IntColumn(t *testing.T) {
	tbl := frame.MustNew(frame.NewInts("v", []int64{-50, 1, 2, 3, 4, 5, 60}, nil))

	out, err := RemoveOutliersIQR(tbl, "v", 1.5)
	require.NoError(t, err)
	v, _ := out.Column("v")
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, v.Ints())
}

func TestRemoveOutliersIQR_Errors(t *testing.T) {
	tbl := frame.MustNew(
		frame.NewFloats("value", []float64{1, 2, 3}),
		frame.NewStrings("label", []string{"a", "b", "c"}, nil),
	)

	tests := []struct {
		name    string
		column  string
		factor  float64
		wantErr error
	}{
		{name: "missing column", column: "nope", factor: 1.5, wantErr: apperrors.ErrColumnNotFound},
		{name: "text column", column: "label", factor: 1.5, wantErr: apperrors.ErrValidation},
		{name: "negative factor", column: "value", factor: -1, wantErr: apperrors.ErrValidation},
		{name: "nan factor", column: "value", factor: math.NaN(), wantErr: apperrors.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RemoveOutliersIQR(tbl, tt.column, tt.factor)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRemoveOutliersIQR_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 50; trial++ {
		n := 1 + rng.Intn(40)
		vals := make([]float64, n)
		ids := make([]int64, n)
		for i := range vals {
			vals[i] = rng.NormFloat64() * 10
			if rng.Intn(10) == 0 {
				vals[i] *= 20
			}
			ids[i] = int64(i)
		}
		factor := rng.Float64() * 3
		tbl := frame.MustNew(frame.NewInts("id", ids, nil), frame.NewFloats("v", vals))

		out, err := RemoveOutliersIQR(tbl, "v", factor)
		require.NoError(t, err)

		lower, upper := IQRBounds(vals, factor)
		kept, _ := out.Column("id")
		keptIDs := kept.Ints()
		isKept := make(map[int64]bool, len(keptIDs))
		for i, id := range keptIDs {
			if i > 0 {
				assert.Less(t, keptIDs[i-1], id, "row order must be preserved")
			}
			isKept[id] = true
		}
		for i, v := range vals {
			inside := v >= lower && v <= upper
			assert.Equal(t, inside, isKept[int64(i)], "trial %d row %d value %v bounds [%v, %v]", trial, i, v, lower, upper)
		}
	}
}

func TestClipOutliersIQR(t *testing.T) {
	tbl := frame.MustNew(frame.NewInts("v", []int64{-50, 1, 2, 3, 4, 5, 60}, nil))

	out, err := ClipOutliersIQR(tbl, "v", 1.5)
	require.NoError(t, err)

	v, _ := out.Column("v")
	assert.Equal(t, frame.KindFloat, v.Kind())
	assert.Equal(t, 7, v.Len())
	assert.Equal(t, []float64{-3, 1, 2, 3, 4, 5, 9}, v.Floats())

	_, err = ClipOutliersIQR(tbl, "v", -2)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

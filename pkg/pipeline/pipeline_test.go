package pipeline

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/alfiobonanno/Data-Science-Projects/pkg/apperrors"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/dataprep"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/frame"
)

func sample() *frame.Table {
	return frame.MustNew(
		frame.NewInts("id", []int64{1, 2, 3, 4, 5, 6}, nil),
		frame.NewFloats("x", []float64{1, 2, 3, 4, 5, 100}),
		frame.NewStrings("color", []string{"red", "blue", "red", "green", "blue", "red"}, nil),
	)
}

func TestRun(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := New(zap.New(core),
		DropColumns("id"),
		RemoveOutliers("x", 1.5),
		Encode(dataprep.AutoDetect{}, dataprep.MethodOneHot),
		Standardize("x"),
	)
	assert.Equal(t, []string{"drop", "outliers:x", "encode:onehot", "standardize"}, p.Steps())

	in := sample()
	out, err := p.Run(in)
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "color_blue", "color_green", "color_red"}, out.Names())
	assert.Equal(t, 5, out.NumRows())

	x, err := out.Column("x")
	require.NoError(t, err)
	assert.Equal(t, frame.KindFloat, x.Kind())
	// 1..5 standardised: mean 3, population std sqrt(2)
	assert.InDelta(t, -1.41421356, x.Value(0), 1e-6)
	assert.InDelta(t, 0, x.Value(2), 1e-9)

	assert.Equal(t, 6, in.NumRows(), "input is left untouched")
	assert.True(t, in.Has("id"))

	assert.Len(t, logs.FilterMessage("Pipeline step done").All(), 4)
}

func TestRun_StopsAtFirstError(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	called := false
	p := New(zap.New(core),
		DropColumns("missing"),
		StepFunc{Label: "never", Fn: func(t *frame.Table) (*frame.Table, error) {
			called = true
			return t, nil
		}},
	)

	_, err := p.Run(sample())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrColumnNotFound)
	assert.Contains(t, err.Error(), "step drop")
	assert.False(t, called)

	entries := logs.FilterMessage("Pipeline step failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "drop", entries[0].ContextMap()["name"])
}

func TestRun_Empty(t *testing.T) {
	in := sample()
	out, err := New(nil).Run(in)
	require.NoError(t, err)
	assert.Same(t, in, out)
}

func TestAdd(t *testing.T) {
	boom := errors.New("boom")
	p := New(nil).Add(StepFunc{Label: "fail", Fn: func(*frame.Table) (*frame.Table, error) { return nil, boom }})

	_, err := p.Run(sample())
	assert.ErrorIs(t, err, boom)
	assert.EqualError(t, err, "step fail: boom")
}

func TestEncodeLabelStep(t *testing.T) {
	out, err := New(nil, Encode(dataprep.Specified{"color"}, dataprep.MethodLabel)).Run(sample())
	require.NoError(t, err)

	color, err := out.Column("color")
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 0, 2, 1, 0, 2}, color.Ints())
}

func TestCleaningSteps(t *testing.T) {
	in := frame.MustNew(
		frame.NewInts("a", []int64{1, 1, 0, 2}, []bool{false, false, true, false}),
		frame.NewFloats("sparse", []float64{math.NaN(), math.NaN(), math.NaN(), 1}),
	)
	p := New(nil,
		DropSparseColumns(0.5),
		DropDuplicates(),
		Impute(dataprep.StrategyConstant, "9"),
	)
	assert.Equal(t, []string{"drop-sparse", "dedupe", "impute:constant"}, p.Steps())

	out, err := p.Run(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, out.Names())

	a, _ := out.Column("a")
	assert.Equal(t, []int64{1, 9, 2}, a.Ints())
	assert.Zero(t, a.NullCount())
}

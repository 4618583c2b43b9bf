package frame

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfiobonanno/Data-Science-Projects/pkg/apperrors"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New(
		NewInts("feature1", []int64{1, 2, 3, 4, 5}, nil),
		NewStrings("feature2", []string{"A", "B", "C", "D", "E"}, nil),
		NewInts("target", []int64{0, 1, 0, 1, 0}, nil),
	)
	require.NoError(t, err)
	return tbl
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cols    []*Column
		rows    int
		wantErr bool
	}{
		{name: "empty", rows: 0},
		{
			name: "two columns",
			cols: []*Column{NewInts("a", []int64{1, 2}, nil), NewStrings("b", []string{"x", "y"}, nil)},
			rows: 2,
		},
		{
			name:    "duplicate names",
			cols:    []*Column{NewInts("a", []int64{1}, nil), NewBools("a", []bool{true}, nil)},
			wantErr: true,
		},
		{
			name:    "ragged lengths",
			cols:    []*Column{NewInts("a", []int64{1, 2}, nil), NewFloats("b", []float64{1})},
			wantErr: true,
		},
		{
			name:    "nil column",
			cols:    []*Column{nil},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := New(tt.cols...)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			require.NoError(t, err)
			rows, cols := tbl.Shape()
			assert.Equal(t, tt.rows, rows)
			assert.Equal(t, len(tt.cols), cols)
		})
	}
}

func TestColumnLookup(t *testing.T) {
	tbl := sampleTable(t)

	c, err := tbl.Column("feature2")
	require.NoError(t, err)
	assert.Equal(t, KindString, c.Kind())
	assert.Equal(t, "C", c.Value(2))

	_, err = tbl.Column("missing")
	assert.ErrorIs(t, err, apperrors.ErrColumnNotFound)
	assert.True(t, tbl.Has("target"))
	assert.False(t, tbl.Has("missing"))
}

func TestDropAndSelect(t *testing.T) {
	tbl := sampleTable(t)

	dropped, err := tbl.Drop("target")
	require.NoError(t, err)
	assert.Equal(t, []string{"feature1", "feature2"}, dropped.Names())
	assert.Equal(t, []string{"feature1", "feature2", "target"}, tbl.Names(), "receiver must not change")

	_, err = tbl.Drop("nope")
	assert.ErrorIs(t, err, apperrors.ErrColumnNotFound)

	selected, err := tbl.Select("target", "feature1")
	require.NoError(t, err)
	assert.Equal(t, []string{"target", "feature1"}, selected.Names())
}

func TestWithColumnAndInsert(t *testing.T) {
	tbl := sampleTable(t)

	replaced, err := tbl.WithColumn(NewFloats("feature1", []float64{9, 8, 7, 6, 5}))
	require.NoError(t, err)
	assert.Equal(t, []string{"feature1", "feature2", "target"}, replaced.Names())
	c, _ := replaced.Column("feature1")
	assert.Equal(t, KindFloat, c.Kind())

	appended, err := tbl.WithColumn(NewBools("flag", make([]bool, 5), nil))
	require.NoError(t, err)
	assert.Equal(t, "flag", appended.Names()[3])

	_, err = tbl.WithColumn(NewBools("short", []bool{true}, nil))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	inserted, err := tbl.Insert(0, NewInts("id", []int64{10, 11, 12, 13, 14}, nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "feature1", "feature2", "target"}, inserted.Names())

	_, err = tbl.Insert(7, NewInts("id", []int64{10, 11, 12, 13, 14}, nil))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestTake(t *testing.T) {
	nulls := []bool{false, true, false, false, false}
	tbl := MustNew(
		NewInts("a", []int64{1, 2, 3, 4, 5}, nulls),
		NewStrings("b", []string{"v", "w", "x", "y", "z"}, nil),
	)

	sub := tbl.Take([]int{4, 1, 0})
	assert.Equal(t, 3, sub.NumRows())
	a, _ := sub.Column("a")
	assert.Equal(t, int64(5), a.Value(0))
	assert.Nil(t, a.Value(1))
	assert.Equal(t, int64(1), a.Value(2))
	b, _ := sub.Column("b")
	assert.Equal(t, []string{"z", "w", "v"}, b.Strings())

	empty := tbl.Take(nil)
	assert.Equal(t, 0, empty.NumRows())
	assert.Equal(t, 2, empty.NumCols())
}

func TestColumnNulls(t *testing.T) {
	f := NewFloats("f", []float64{1.5, math.NaN(), 3})
	assert.Equal(t, 1, f.NullCount())
	assert.True(t, f.IsNull(1))
	assert.Equal(t, []float64{1.5, 3}, f.Floats())
	assert.Equal(t, "", f.Format(1))
	assert.Equal(t, "1.5", f.Format(0))

	noNulls := NewInts("i", []int64{1, 2}, []bool{false, false})
	assert.Equal(t, 0, noNulls.NullCount())
	assert.Equal(t, []bool{false, false}, noNulls.Nulls())

	assert.Panics(t, func() { NewInts("i", []int64{1, 2}, []bool{true}) })
}

func TestColumnFloat(t *testing.T) {
	i := NewInts("i", []int64{7}, nil)
	v, ok := i.Float(0)
	assert.True(t, ok)
	assert.Equal(t, 7.0, v)

	s := NewStrings("s", []string{"7"}, nil)
	_, ok = s.Float(0)
	assert.False(t, ok)
}

func TestColumnMemoryBytes(t *testing.T) {
	tests := []struct {
		name string
		col  *Column
		want int64
	}{
		{name: "ints", col: NewInts("i", []int64{1, 2, 3}, nil), want: 24},
		{name: "floats with null", col: NewFloats("f", []float64{1, math.NaN()}), want: 16 + 2},
		{name: "bools", col: NewBools("b", []bool{true, false}, nil), want: 2},
		{name: "strings", col: NewStrings("s", []string{"ab", "cde"}, nil), want: 16 + 2 + 16 + 3},
		{name: "times", col: NewTimes("t", []time.Time{time.Unix(0, 0)}, nil), want: 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.col.MemoryBytes())
		})
	}
}

func TestEqual(t *testing.T) {
	a := sampleTable(t)
	b := sampleTable(t)
	assert.True(t, a.Equal(b))

	c, err := a.WithColumn(NewInts("target", []int64{0, 1, 0, 1, 1}, nil))
	require.NoError(t, err)
	assert.False(t, a.Equal(c))

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	t1 := NewTimes("ts", []time.Time{ts}, nil)
	t2 := NewTimes("ts", []time.Time{ts.In(time.FixedZone("x", 3600))}, nil)
	assert.True(t, t1.Equal(t2))
	assert.False(t, t1.Equal(t1.Rename("other")))
}

func TestSchema(t *testing.T) {
	s := sampleTable(t).Schema()
	assert.Equal(t, []string{"feature1", "feature2", "target"}, s.Names)
	assert.Equal(t, []Kind{KindInt, KindString, KindInt}, s.Kinds)
	assert.Equal(t, KindString, s.Kind("feature2"))
	assert.Equal(t, KindInvalid, s.Kind("missing"))
}

func TestKind(t *testing.T) {
	assert.True(t, KindInt.Numeric())
	assert.True(t, KindFloat.Numeric())
	assert.False(t, KindBool.Numeric())
	assert.True(t, KindString.Categorical())
	assert.False(t, KindTime.Categorical())
	assert.Equal(t, "float64", KindFloat.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())

	text, err := KindString.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "string", string(text))
}

func TestKindParse(t *testing.T) {
	tests := []struct {
		kind    Kind
		in      string
		want    any
		wantErr bool
	}{
		{kind: KindInt, in: " 42 ", want: int64(42)},
		{kind: KindFloat, in: "2.5", want: 2.5},
		{kind: KindBool, in: "true", want: true},
		{kind: KindString, in: "Unknown", want: "Unknown"},
		{kind: KindTime, in: "2024-03-01", want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{kind: KindInt, in: "x", wantErr: true},
		{kind: KindInvalid, in: "1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String()+"/"+tt.in, func(t *testing.T) {
			got, err := tt.kind.Parse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFillNulls(t *testing.T) {
	ints := NewInts("a", []int64{1, 0, 3}, []bool{false, true, false})
	filled, err := ints.FillNulls(int64(7))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 7, 3}, filled.Ints())
	assert.Zero(t, filled.NullCount())
	assert.Equal(t, 1, ints.NullCount(), "receiver is unchanged")

	floats := NewFloats("f", []float64{math.NaN(), 2})
	filled, err = floats.FillNulls(int64(1))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, filled.Floats())

	_, err = ints.FillNulls("seven")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = floats.FillNulls(math.NaN())
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	full := NewStrings("s", []string{"x"}, nil)
	same, err := full.FillNulls(42)
	require.NoError(t, err)
	assert.Same(t, full, same)
}

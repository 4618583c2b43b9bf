package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccuracy(t *testing.T) {
	assert.InDelta(t, 0.75, Accuracy([]int{0, 1, 1, 0}, []int{0, 1, 0, 0}), 1e-12)
	assert.Zero(t, Accuracy(nil, nil))
}

func TestPrecisionRecallF1(t *testing.T) {
	yTrue := []int{1, 1, 0, 0, 1}
	yPred := []int{1, 0, 1, 0, 1}

	prec, rec, f1 := PrecisionRecallF1(yTrue, yPred, 1)
	assert.InDelta(t, 2.0/3, prec, 1e-12)
	assert.InDelta(t, 2.0/3, rec, 1e-12)
	assert.InDelta(t, 2.0/3, f1, 1e-12)

	prec, rec, f1 = PrecisionRecallF1(yTrue, yPred, 7)
	assert.Zero(t, prec)
	assert.Zero(t, rec)
	assert.Zero(t, f1)
}

func TestConfusionMatrix(t *testing.T) {
	m := ConfusionMatrix([]int{0, 0, 1, 1, 2}, []int{0, 1, 1, 1, 0}, 3)
	assert.Equal(t, [][]int{{1, 1, 0}, {0, 2, 0}, {1, 0, 0}}, m)
}

func TestClassificationReport(t *testing.T) {
	r := ClassificationReport([]string{"a", "b", "c"}, []int{0, 0, 1, 1, 2}, []int{0, 1, 1, 1, 0})

	assert.InDelta(t, 0.6, r.Accuracy, 1e-12)
	assert.Equal(t, 5, r.Support)
	scores := []struct {
		prec, rec, f1 float64
		support       int
	}{
		{0.5, 0.5, 0.5, 2},
		{2.0 / 3, 1, 0.8, 2},
		{0, 0, 0, 1},
	}
	a := assert.New(t)
	for i, want := range scores {
		got := r.Classes[i]
		a.InDelta(want.prec, got.Precision, 1e-12, got.Label)
		a.InDelta(want.rec, got.Recall, 1e-12, got.Label)
		a.InDelta(want.f1, got.F1, 1e-12, got.Label)
		a.Equal(want.support, got.Support, got.Label)
	}

	a.InDelta((0.5+2.0/3)/3, r.MacroAvg.Precision, 1e-12)
	a.InDelta(0.5, r.MacroAvg.Recall, 1e-12)
	a.InDelta(1.3/3, r.MacroAvg.F1, 1e-12)
	a.InDelta((1+4.0/3)/5, r.WeightedAvg.Precision, 1e-12)
	a.InDelta(0.6, r.WeightedAvg.Recall, 1e-12)
	a.InDelta(0.52, r.WeightedAvg.F1, 1e-12)

	text := r.String()
	a.Contains(text, "precision    recall  f1-score   support")
	a.Contains(text, "a      0.50      0.50      0.50         2\n")
	a.Contains(text, "accuracy                          0.60         5\n")
	a.Contains(text, "weighted avg      0.47      0.60      0.52         5\n")
}

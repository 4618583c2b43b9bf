package model

import (
	"fmt"
	"strings"
)

// Accuracy is the fraction of matching labels, 0 for empty input.
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 || len(yTrue) != len(yPred) {
		return 0
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}

// PrecisionRecallF1 scores class against every other class. A ratio with
// a zero denominator is 0.
func PrecisionRecallF1(yTrue, yPred []int, class int) (prec, rec, f1 float64) {
	tp, fp, fn := 0, 0, 0
	for i := range yTrue {
		switch {
		case yPred[i] == class && yTrue[i] == class:
			tp++
		case yPred[i] == class:
			fp++
		case yTrue[i] == class:
			fn++
		}
	}
	if tp+fp > 0 {
		prec = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		rec = float64(tp) / float64(tp+fn)
	}
	if prec+rec > 0 {
		f1 = 2 * prec * rec / (prec + rec)
	}
	return prec, rec, f1
}

// ConfusionMatrix counts rows of actual class i predicted as class j in
// cell [i][j]. Codes outside 0..k-1 are ignored.
func ConfusionMatrix(yTrue, yPred []int, k int) [][]int {
	m := make([][]int, k)
	for i := range m {
		m[i] = make([]int, k)
	}
	for i := range yTrue {
		a, p := yTrue[i], yPred[i]
		if a >= 0 && a < k && p >= 0 && p < k {
			m[a][p]++
		}
	}
	return m
}

// ClassScore holds the one-vs-rest scores of a class, or an average.
type ClassScore struct {
	Label     string  `yaml:"label"`
	Precision float64 `yaml:"precision"`
	Recall    float64 `yaml:"recall"`
	F1        float64 `yaml:"f1"`
	Support   int     `yaml:"support"`
}

// Report is a per-class classification summary.
type Report struct {
	Classes     []ClassScore `yaml:"classes"`
	Accuracy    float64      `yaml:"accuracy"`
	MacroAvg    ClassScore   `yaml:"macro_avg"`
	WeightedAvg ClassScore   `yaml:"weighted_avg"`
	Support     int          `yaml:"support"`
}

// ClassificationReport scores each class code 0..len(labels)-1. Support is
// the number of rows whose actual class it is. The macro average weighs
// every class equally; the weighted average weighs by support.
func ClassificationReport(labels []string, yTrue, yPred []int) Report {
	r := Report{Accuracy: Accuracy(yTrue, yPred), Support: len(yTrue)}
	support := make([]int, len(labels))
	for _, c := range yTrue {
		if c >= 0 && c < len(labels) {
			support[c]++
		}
	}
	r.MacroAvg.Label, r.WeightedAvg.Label = "macro avg", "weighted avg"
	for c, label := range labels {
		prec, rec, f1 := PrecisionRecallF1(yTrue, yPred, c)
		s := ClassScore{Label: label, Precision: prec, Recall: rec, F1: f1, Support: support[c]}
		r.Classes = append(r.Classes, s)

		r.MacroAvg.Precision += prec
		r.MacroAvg.Recall += rec
		r.MacroAvg.F1 += f1
		w := float64(s.Support)
		r.WeightedAvg.Precision += w * prec
		r.WeightedAvg.Recall += w * rec
		r.WeightedAvg.F1 += w * f1
	}
	if n := float64(len(labels)); n > 0 {
		r.MacroAvg.Precision /= n
		r.MacroAvg.Recall /= n
		r.MacroAvg.F1 /= n
	}
	if n := float64(r.Support); n > 0 {
		r.WeightedAvg.Precision /= n
		r.WeightedAvg.Recall /= n
		r.WeightedAvg.F1 /= n
	}
	r.MacroAvg.Support, r.WeightedAvg.Support = r.Support, r.Support
	return r
}

// String lays the report out as a text table, scores with two decimals.
func (r Report) String() string {
	width := len("weighted avg")
	for _, c := range r.Classes {
		width = max(width, len(c.Label))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%*s %9s %9s %9s %9s\n\n", width, "", "precision", "recall", "f1-score", "support")
	row := func(s ClassScore) {
		fmt.Fprintf(&b, "%*s %9.2f %9.2f %9.2f %9d\n", width, s.Label, s.Precision, s.Recall, s.F1, s.Support)
	}
	for _, c := range r.Classes {
		row(c)
	}
	b.WriteByte('\n')
	fmt.Fprintf(&b, "%*s %9s %9s %9.2f %9d\n", width, "accuracy", "", "", r.Accuracy, r.Support)
	row(r.MacroAvg)
	row(r.WeightedAvg)
	return b.String()
}

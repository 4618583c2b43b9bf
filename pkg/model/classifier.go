package model

import (
	"sort"

	"github.com/alfiobonanno/Data-Science-Projects/pkg/apperrors"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/frame"
)

// Classifier fits a RandomForest on the columns of a table. Features must
// be numeric or bool without nulls; the target may be of any kind but must
// not hold nulls. Predictions keep the kind of the target.
type Classifier struct {
	Forest *RandomForest

	features []string
	classes  *frame.Column // one row per class, sorted
	labels   []string
}

// NewClassifier returns a classifier backed by NewRandomForest(opts...).
func NewClassifier(opts ...RandomForestOption) *Classifier {
	return &Classifier{Forest: NewRandomForest(opts...)}
}

// Fit trains on every column of X against y.
func (c *Classifier) Fit(X *frame.Table, y *frame.Column) error {
	if X.NumCols() == 0 {
		return apperrors.Validation("train", "no feature columns")
	}
	if y.Len() != X.NumRows() {
		return apperrors.Validation("train", "target %q has %d rows, features have %d", y.Name(), y.Len(), X.NumRows())
	}
	if n := y.NullCount(); n > 0 {
		return apperrors.Validation("train", "target %q has %d nulls", y.Name(), n)
	}
	matrix, err := featureMatrix(X)
	if err != nil {
		return err
	}

	classes := distinct(y)
	rows := make([]int, len(classes))
	labels := make([]string, len(classes))
	codeOf := make(map[string]int, len(classes))
	for i, cl := range classes {
		rows[i] = cl.row
		labels[i] = cl.label
		codeOf[cl.label] = i
	}
	codes := make([]int, y.Len())
	for i := range codes {
		codes[i] = codeOf[y.Format(i)]
	}

	if err := c.Forest.Fit(matrix, codes); err != nil {
		return err
	}
	c.features = X.Names()
	c.classes = y.Take(rows)
	c.labels = labels
	return nil
}

// Features returns the feature names seen by Fit, in order.
func (c *Classifier) Features() []string { return append([]string(nil), c.features...) }

// Classes returns the class labels in code order.
func (c *Classifier) Classes() []string { return append([]string(nil), c.labels...) }

// Predict returns one predicted class per row of X, as a column named
// after the target. X must hold every feature seen by Fit; other columns
// are ignored.
func (c *Classifier) Predict(X *frame.Table) (*frame.Column, error) {
	codes, err := c.predictCodes(X)
	if err != nil {
		return nil, err
	}
	return c.classes.Take(codes), nil
}

func (c *Classifier) predictCodes(X *frame.Table) ([]int, error) {
	if c.classes == nil {
		return nil, apperrors.Validation("predict", "classifier is not fitted")
	}
	sel, err := X.Select(c.features...)
	if err != nil {
		return nil, err
	}
	matrix, err := featureMatrix(sel)
	if err != nil {
		return nil, err
	}
	return c.Forest.Predict(matrix)
}

// Evaluation scores predictions against known labels.
type Evaluation struct {
	Labels    []string
	Accuracy  float64
	Report    Report
	Confusion [][]int // Confusion[i][j]: actual Labels[i], predicted Labels[j]
	Predicted *frame.Column
}

// Evaluate predicts X and scores the result against y. Labels present in y
// but never seen by Fit are added to the report with zero precision.
func (c *Classifier) Evaluate(X *frame.Table, y *frame.Column) (*Evaluation, error) {
	if X.NumRows() == 0 {
		return nil, apperrors.Validation("evaluate", "no rows to evaluate")
	}
	if y.Len() != X.NumRows() {
		return nil, apperrors.Validation("evaluate", "target %q has %d rows, features have %d", y.Name(), y.Len(), X.NumRows())
	}
	if n := y.NullCount(); n > 0 {
		return nil, apperrors.Validation("evaluate", "target %q has %d nulls", y.Name(), n)
	}
	if c.classes != nil && y.Kind() != c.classes.Kind() {
		return nil, apperrors.Validation("evaluate", "target %q is %s, trained on %s", y.Name(), y.Kind(), c.classes.Kind())
	}
	codes, err := c.predictCodes(X)
	if err != nil {
		return nil, err
	}

	// Merge the trained classes with the labels of y, keeping class order.
	all := distinct(c.classes)
	known := make(map[string]bool, len(all))
	for _, cl := range all {
		known[cl.label] = true
	}
	for _, cl := range distinct(y) {
		if !known[cl.label] {
			all = append(all, cl)
		}
	}
	sortClasses(all, y.Kind().Numeric())
	labels := make([]string, len(all))
	codeOf := make(map[string]int, len(all))
	for i, cl := range all {
		labels[i] = cl.label
		codeOf[cl.label] = i
	}

	yTrue := make([]int, y.Len())
	yPred := make([]int, len(codes))
	for i := range yTrue {
		yTrue[i] = codeOf[y.Format(i)]
		yPred[i] = codeOf[c.labels[codes[i]]]
	}
	return &Evaluation{
		Labels:    labels,
		Accuracy:  Accuracy(yTrue, yPred),
		Report:    ClassificationReport(labels, yTrue, yPred),
		Confusion: ConfusionMatrix(yTrue, yPred, len(labels)),
		Predicted: c.classes.Take(codes),
	}, nil
}

// featureMatrix turns X into rows of floats. Bool cells become 0 or 1.
func featureMatrix(X *frame.Table) ([][]float64, error) {
	cols := X.Columns()
	for _, c := range cols {
		if !c.Kind().Numeric() && c.Kind() != frame.KindBool {
			return nil, apperrors.Validation("train", "feature %q is %s, want numeric or bool; encode it first", c.Name(), c.Kind())
		}
		if n := c.NullCount(); n > 0 {
			return nil, apperrors.Validation("train", "feature %q has %d nulls; impute it first", c.Name(), n)
		}
	}
	matrix := make([][]float64, X.NumRows())
	for i := range matrix {
		row := make([]float64, len(cols))
		for j, c := range cols {
			if c.Kind() == frame.KindBool {
				if c.Value(i).(bool) {
					row[j] = 1
				}
				continue
			}
			row[j], _ = c.Float(i)
		}
		matrix[i] = row
	}
	return matrix, nil
}

type class struct {
	label string
	num   float64
	row   int
}

// distinct returns the non-null values of c once each, at their first row,
// sorted numerically for numeric columns and by text otherwise.
func distinct(c *frame.Column) []class {
	seen := make(map[string]bool)
	var out []class
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		label := c.Format(i)
		if seen[label] {
			continue
		}
		seen[label] = true
		cl := class{label: label, row: i}
		if v, ok := c.Float(i); ok {
			cl.num = v
		}
		out = append(out, cl)
	}
	sortClasses(out, c.Kind().Numeric())
	return out
}

func sortClasses(cs []class, numeric bool) {
	sort.SliceStable(cs, func(a, b int) bool {
		if numeric && cs[a].num != cs[b].num {
			return cs[a].num < cs[b].num
		}
		return cs[a].label < cs[b].label
	})
}

package pipeline

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/alfiobonanno/Data-Science-Projects/pkg/dataprep"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/frame"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/stats"
)

// Step is one table transformation.
type Step interface {
	Name() string
	Apply(t *frame.Table) (*frame.Table, error)
}

// StepFunc adapts a function to Step.
type StepFunc struct {
	Label string
	Fn    func(*frame.Table) (*frame.Table, error)
}

func (s StepFunc) Name() string { return s.Label }

func (s StepFunc) Apply(t *frame.Table) (*frame.Table, error) { return s.Fn(t) }

// Pipeline chains steps. Each step receives the previous step's output.
type Pipeline struct {
	steps  []Step
	logger *zap.Logger
}

func New(logger *zap.Logger, steps ...Step) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{steps: steps, logger: logger}
}

// Add appends steps and returns p.
func (p *Pipeline) Add(steps ...Step) *Pipeline {
	p.steps = append(p.steps, steps...)
	return p
}

// Steps returns the step names in order.
func (p *Pipeline) Steps() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name()
	}
	return names
}

// Run applies the steps in order. It stops at the first failing step and
// returns its error prefixed with the step name. The input table is never
// modified.
func (p *Pipeline) Run(t *frame.Table) (*frame.Table, error) {
	for i, step := range p.steps {
		start := time.Now()
		rowsIn := t.NumRows()

		out, err := step.Apply(t)
		if err != nil {
			p.logger.Error("Pipeline step failed",
				zap.Int("step", i),
				zap.String("name", step.Name()),
				zap.Error(err))
			return nil, fmt.Errorf("step %s: %w", step.Name(), err)
		}
		t = out

		p.logger.Debug("Pipeline step done",
			zap.Int("step", i),
			zap.String("name", step.Name()),
			zap.Int("rows_in", rowsIn),
			zap.Int("rows_out", t.NumRows()),
			zap.Int("cols_out", t.NumCols()),
			zap.Duration("elapsed", time.Since(start)))
	}
	return t, nil
}

// DropColumns removes the named columns.
func DropColumns(names ...string) Step {
	return StepFunc{
		Label: "drop",
		Fn:    func(t *frame.Table) (*frame.Table, error) { return t.Drop(names...) },
	}
}

// DropSparseColumns removes columns whose null ratio is above threshold.
func DropSparseColumns(threshold float64) Step {
	return StepFunc{
		Label: "drop-sparse",
		Fn: func(t *frame.Table) (*frame.Table, error) {
			out, _, err := dataprep.DropSparseColumns(t, threshold)
			return out, err
		},
	}
}

// DropDuplicates keeps the first occurrence of each distinct row.
func DropDuplicates() Step {
	return StepFunc{
		Label: "dedupe",
		Fn: func(t *frame.Table) (*frame.Table, error) {
			return dataprep.DropDuplicates(t), nil
		},
	}
}

// Impute fills nulls with the given strategy.
func Impute(strategy dataprep.Strategy, fill string, columns ...string) Step {
	return StepFunc{
		Label: "impute:" + string(strategy),
		Fn: func(t *frame.Table) (*frame.Table, error) {
			return dataprep.Impute(t, strategy, fill, columns...)
		},
	}
}

// RemoveOutliers drops the IQR outlier rows of column.
func RemoveOutliers(column string, factor float64) Step {
	return StepFunc{
		Label: "outliers:" + column,
		Fn: func(t *frame.Table) (*frame.Table, error) {
			return stats.RemoveOutliersIQR(t, column, factor)
		},
	}
}

// Encode encodes the selected categorical columns.
func Encode(sel dataprep.Selection, method dataprep.Method) Step {
	return StepFunc{
		Label: "encode:" + string(method),
		Fn: func(t *frame.Table) (*frame.Table, error) {
			return dataprep.EncodeCategorical(t, sel, method)
		},
	}
}

// Standardize scales columns to zero mean and unit variance using the
// statistics of the table it receives. With no columns every numeric
// column is scaled.
func Standardize(columns ...string) Step {
	return StepFunc{
		Label: "standardize",
		Fn: func(t *frame.Table) (*frame.Table, error) {
			return stats.Standardize(t, columns...)
		},
	}
}

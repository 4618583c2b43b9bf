// Package report draws exploratory figures for a table.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/alfiobonanno/Data-Science-Projects/pkg/apperrors"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/frame"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/stats"
)

const (
	figureWidth  = 6 * vg.Inch
	figureHeight = 4 * vg.Inch
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// DistributionPlots writes one histogram per numeric column that has at
// least one value, a correlation heat map when at least two numeric
// columns have values, and, when target is not empty, a bar chart of the
// target value counts. The heat map includes a numeric target. Figures are
// PNG files in dir, which is created if needed. It returns the written
// paths: histograms in column order, then the heat map, then the target
// chart.
func DistributionPlots(t *frame.Table, target, dir string, bins int) ([]string, error) {
	if bins <= 0 {
		return nil, apperrors.Validation("plot", "bins must be positive, got %d", bins)
	}
	var targetCol *frame.Column
	if target != "" {
		c, err := t.Column(target)
		if err != nil {
			return nil, err
		}
		targetCol = c
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var (
		paths      []string
		correlated []string
	)
	for _, c := range t.Columns() {
		if !c.Kind().Numeric() {
			continue
		}
		vals := c.Floats()
		if len(vals) == 0 {
			continue
		}
		correlated = append(correlated, c.Name())
		if c.Name() == target {
			continue
		}
		path := filepath.Join(dir, fileName(c.Name())+"_hist.png")
		if err := histogram(c.Name(), vals, bins, path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	if len(correlated) >= 2 {
		m, err := stats.CorrelationMatrix(t, correlated...)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, "correlation_heatmap.png")
		if err := CorrelationHeatmap(m, path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	if targetCol != nil {
		path := filepath.Join(dir, fileName(target)+"_counts.png")
		if err := valueCounts(targetCol, path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func histogram(name string, vals []float64, bins int, path string) error {
	p := plot.New()
	p.Title.Text = name + " distribution"
	p.X.Label.Text = name
	p.Y.Label.Text = "count"

	h, err := plotter.NewHist(plotter.Values(vals), bins)
	if err != nil {
		return fmt.Errorf("histogram %s: %w", name, err)
	}
	p.Add(h)

	if err := p.Save(figureWidth, figureHeight, path); err != nil {
		return &apperrors.IOError{Op: "save figure", Path: path, Err: err}
	}
	return nil
}

// Count is the number of rows holding one value of a column.
type Count struct {
	Label string
	N     int
}

// ValueCounts counts the non-null values of c, most frequent first and
// ties in label order.
func ValueCounts(c *frame.Column) []Count {
	index := make(map[string]int)
	var counts []Count
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		label := c.Format(i)
		j, ok := index[label]
		if !ok {
			j = len(counts)
			index[label] = j
			counts = append(counts, Count{Label: label})
		}
		counts[j].N++
	}
	sort.Slice(counts, func(a, b int) bool {
		if counts[a].N != counts[b].N {
			return counts[a].N > counts[b].N
		}
		return counts[a].Label < counts[b].Label
	})
	return counts
}

func valueCounts(c *frame.Column, path string) error {
	counts := ValueCounts(c)
	if len(counts) == 0 {
		return apperrors.Validation("plot", "column %q has no values to count", c.Name())
	}
	vals := make(plotter.Values, len(counts))
	labels := make([]string, len(counts))
	for i, cnt := range counts {
		vals[i] = float64(cnt.N)
		labels[i] = cnt.Label
	}

	p := plot.New()
	p.Title.Text = c.Name() + " distribution"
	p.Y.Label.Text = "count"

	bars, err := plotter.NewBarChart(vals, vg.Points(20))
	if err != nil {
		return fmt.Errorf("bar chart %s: %w", c.Name(), err)
	}
	p.Add(bars)
	p.NominalX(labels...)

	if err := p.Save(figureWidth, figureHeight, path); err != nil {
		return &apperrors.IOError{Op: "save figure", Path: path, Err: err}
	}
	return nil
}

func fileName(column string) string {
	name := unsafeChars.ReplaceAllString(column, "_")
	if name == "" || name == "." || name == ".." {
		return "column"
	}
	return name
}

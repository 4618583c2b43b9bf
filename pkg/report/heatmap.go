package report

import (
	"fmt"
	"image/color"
	"math"
	"slices"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/alfiobonanno/Data-Science-Projects/pkg/apperrors"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/stats"
)

const paletteSize = 255

var nanColor = color.Gray{Y: 0xcc}

// grid lays a square matrix out for plotter.HeatMap: row 0 of the matrix is
// drawn at the top.
type grid struct {
	values [][]float64
}

func (g grid) Dims() (c, r int)   { return len(g.values), len(g.values) }
func (g grid) Z(c, r int) float64 { return g.values[len(g.values)-1-r][c] }
func (g grid) X(c int) float64    { return float64(c) }
func (g grid) Y(r int) float64    { return float64(r) }

// CorrelationHeatmap draws m as an annotated heat map on a blue to red
// scale fixed at [-1, 1]. Undefined correlations are grey. m needs at least
// two columns.
func CorrelationHeatmap(m stats.CorrMatrix, path string) error {
	if len(m.Columns) < 2 {
		return apperrors.Validation("plot", "correlation needs at least 2 numeric columns, got %d", len(m.Columns))
	}
	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)

	p, err := heatmap(m.Values, cm.Palette(paletteSize), -1, 1, m.Columns, func(v float64) string {
		if math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', 2, 64)
	})
	if err != nil {
		return fmt.Errorf("correlation heatmap: %w", err)
	}
	p.Title.Text = "Correlation matrix"
	return save(p, squareSide(len(m.Columns)), path)
}

// ConfusionMatrixPlot draws counts[i][j], the rows of class labels[i]
// predicted as labels[j], with actual classes down the side and predicted
// classes along the bottom.
func ConfusionMatrixPlot(labels []string, counts [][]int, title, path string) error {
	if len(labels) < 2 {
		return apperrors.Validation("plot", "confusion matrix needs at least 2 classes, got %d", len(labels))
	}
	if len(counts) != len(labels) {
		return apperrors.Validation("plot", "confusion matrix must be %dx%d", len(labels), len(labels))
	}
	values := make([][]float64, len(labels))
	var most float64
	for i, row := range counts {
		if len(row) != len(labels) {
			return apperrors.Validation("plot", "confusion matrix must be %dx%d", len(labels), len(labels))
		}
		values[i] = make([]float64, len(row))
		for j, n := range row {
			values[i][j] = float64(n)
			most = math.Max(most, float64(n))
		}
	}

	pal := palette.Heat(paletteSize, 1)
	p, err := heatmap(values, reversed(pal), 0, math.Max(most, 1), labels, func(v float64) string {
		return strconv.Itoa(int(v))
	})
	if err != nil {
		return fmt.Errorf("confusion matrix: %w", err)
	}
	p.Title.Text = title
	p.X.Label.Text = "Predicted"
	p.Y.Label.Text = "Actual"
	return save(p, squareSide(len(labels)), path)
}

func heatmap(values [][]float64, pal palette.Palette, lo, hi float64, names []string, label func(float64) string) (*plot.Plot, error) {
	g := grid{values: values}
	h := plotter.NewHeatMap(g, pal)
	h.Min, h.Max = lo, hi
	h.NaN = nanColor

	n := len(values)
	xys := make(plotter.XYs, 0, n*n)
	texts := make([]string, 0, n*n)
	for c := 0; c < n; c++ {
		for r := 0; r < n; r++ {
			xys = append(xys, plotter.XY{X: g.X(c), Y: g.Y(r)})
			texts = append(texts, label(g.Z(c, r)))
		}
	}
	annotations, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, err
	}
	for i := range annotations.TextStyle {
		annotations.TextStyle[i].XAlign = draw.XCenter
		annotations.TextStyle[i].YAlign = draw.YCenter
	}

	p := plot.New()
	p.Add(h, annotations)
	p.NominalX(names...)
	top := slices.Clone(names)
	slices.Reverse(top)
	p.NominalY(top...)
	return p, nil
}

type reversedPalette []color.Color

func (p reversedPalette) Colors() []color.Color { return p }

// reversed runs pal from its last color to its first. palette.Heat then
// goes from near white to red.
func reversed(pal palette.Palette) palette.Palette {
	colors := slices.Clone(pal.Colors())
	slices.Reverse(colors)
	return reversedPalette(colors)
}

func squareSide(n int) vg.Length {
	side := vg.Length(n) * vg.Inch
	return max(figureHeight, min(side, 12*vg.Inch))
}

func save(p *plot.Plot, side vg.Length, path string) error {
	if err := p.Save(side, side, path); err != nil {
		return &apperrors.IOError{Op: "save figure", Path: path, Err: err}
	}
	return nil
}

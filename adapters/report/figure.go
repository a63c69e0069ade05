package report

import (
	"fmt"
	"image/color"
	"strconv"

	"toothlab/domain/dataset"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Okabe-Ito palette: distinguishable in print and for color-blind readers.
var seriesPalette = []color.RGBA{
	{R: 230, G: 159, B: 0, A: 255},
	{R: 0, G: 114, B: 178, A: 255},
	{R: 0, G: 158, B: 115, A: 255},
	{R: 204, G: 121, B: 167, A: 255},
}

// renderScatter draws response against the x factor, one colored series per
// level of the color factor. Series are offset slightly along x so points
// from different series do not cover each other.
func renderScatter(data *dataset.Dataset, xField, colorField dataset.FieldName, path string) error {
	p := plot.New()
	p.Title.Text = "Tooth growth by dose and supplement"
	p.X.Label.Text = string(xField)
	p.Y.Label.Text = "response"
	p.Legend.Top = true

	levels := data.Levels(colorField)
	if len(levels) == 0 {
		return fmt.Errorf("factor %s has no levels to plot", colorField)
	}

	xLevels := data.Levels(xField)
	for i, level := range levels {
		subset := data.Where(colorField, level)
		offset := seriesOffset(i, len(levels))

		points := make(plotter.XYs, 0, subset.Len())
		for _, obs := range subset.Observations {
			x, ok := xPosition(obs.Factors[xField], xLevels)
			if !ok {
				continue
			}
			points = append(points, plotter.XY{X: x + offset, Y: obs.Response})
		}

		scatter, err := plotter.NewScatter(points)
		if err != nil {
			return fmt.Errorf("failed to build scatter series %s: %w", level, err)
		}
		scatter.GlyphStyle.Color = seriesPalette[i%len(seriesPalette)]
		scatter.GlyphStyle.Radius = vg.Points(3)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}

		p.Add(scatter)
		p.Legend.Add(string(level), scatter)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save figure: %w", err)
	}
	return nil
}

// xPosition maps a factor level to an x coordinate: numeric labels plot at
// their value, anything else at its level index.
func xPosition(value dataset.FactorValue, levels []dataset.FactorValue) (float64, bool) {
	if v, err := strconv.ParseFloat(string(value), 64); err == nil {
		return v, true
	}
	for i, l := range levels {
		if l == value {
			return float64(i), true
		}
	}
	return 0, false
}

func seriesOffset(index, total int) float64 {
	if total < 2 {
		return 0
	}
	return (float64(index) - float64(total-1)/2) * 0.05
}

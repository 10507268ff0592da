package chart

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/drakos74/edu-indicators/internal/math/ml"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Elbow draws the inertia for each cluster count as a line with markers.
func (r *Renderer) Elbow(points []ml.ElbowPoint, labels Labels) (string, error) {
	if len(points) == 0 {
		return "", fmt.Errorf("no elbow points: %w", RenderErr)
	}
	p := plot.New()
	p.Title.Text = labels.Title
	p.X.Label.Text = labels.X
	p.Y.Label.Text = labels.Y

	xys := make(plotter.XYs, len(points))
	ticks := make(plot.ConstantTicks, len(points))
	for i, e := range points {
		xys[i] = plotter.XY{X: float64(e.K), Y: e.Inertia}
		ticks[i] = plot.Tick{Value: float64(e.K), Label: strconv.Itoa(e.K)}
	}
	line, markers, err := plotter.NewLinePoints(xys)
	if err != nil {
		return "", fmt.Errorf("could not create elbow line: %s: %w", err.Error(), RenderErr)
	}
	line.LineStyle.Color = color.RGBA{B: 200, A: 255}
	line.LineStyle.Width = vg.Points(2)
	markers.GlyphStyle.Shape = draw.CircleGlyph{}
	markers.GlyphStyle.Radius = vg.Points(3)
	markers.GlyphStyle.Color = color.RGBA{B: 200, A: 255}

	p.Add(plotter.NewGrid(), line, markers)
	p.X.Tick.Marker = ticks
	p.Y.Min = 0
	return r.save(p, "elbow")
}

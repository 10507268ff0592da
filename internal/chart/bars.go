package chart

import (
	"fmt"

	"github.com/drakos74/edu-indicators/internal/math"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Bars draws the mean value of each cluster with its range below the bar.
func (r *Renderer) Bars(groups []Group, palette Palette, labels Labels) (string, error) {
	if len(groups) == 0 {
		return "", fmt.Errorf("no clusters to draw: %w", RenderErr)
	}
	p := plot.New()
	p.Title.Text = labels.Title
	p.Y.Label.Text = labels.Y

	names := make([]string, len(groups))
	tops := make(plotter.XYs, len(groups))
	texts := make([]string, len(groups))
	for i, g := range groups {
		s := g.Summary
		b, err := plotter.NewBarChart(plotter.Values{s.YMean}, vg.Points(40))
		if err != nil {
			return "", fmt.Errorf("could not create bar for cluster %d: %s: %w", s.Cluster, err.Error(), RenderErr)
		}
		b.XMin = float64(i)
		b.Color = palette.Color(s.Cluster)
		b.LineStyle.Width = vg.Length(0)
		p.Add(b)

		names[i] = fmt.Sprintf("Cluster %d\nmin %s\nmax %s", s.Cluster, math.Format(s.YMin), math.Format(s.YMax))
		tops[i] = plotter.XY{X: float64(i), Y: s.YMean}
		texts[i] = math.Format(s.YMean)
	}
	means, err := plotter.NewLabels(plotter.XYLabels{XYs: tops, Labels: texts})
	if err != nil {
		return "", fmt.Errorf("could not create bar labels: %s: %w", err.Error(), RenderErr)
	}
	means.Offset = vg.Point{X: -vg.Points(8), Y: vg.Points(4)}
	p.Add(means)

	p.NominalX(names...)
	p.Y.Min = 0
	return r.save(p, "cluster-means")
}

package chart

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Detail draws one panel per cluster with its rows, its centroid
// and the year and value range as text.
func (r *Renderer) Detail(groups []Group, palette Palette, bounds Bounds, labels Labels) (string, error) {
	if len(groups) == 0 {
		return "", fmt.Errorf("no clusters to draw: %w", RenderErr)
	}
	row := make([]*plot.Plot, len(groups))
	for i, g := range groups {
		p := plot.New()
		p.Title.Text = PanelText(g, labels)
		p.X.Label.Text = labels.X
		p.Y.Label.Text = labels.Y
		p.Add(plotter.NewGrid())

		s, err := points(g, palette)
		if err != nil {
			return "", err
		}
		c, err := centroidMarkers(plotter.XYs{g.Centroid})
		if err != nil {
			return "", err
		}
		p.Add(s, c)
		fix(p, bounds)
		row[i] = p
	}

	width := r.Width
	if w := vg.Length(len(groups)) * 3 * vg.Inch; w > width {
		width = w
	}
	wide := &Renderer{Dir: r.Dir, Width: width, Height: r.Height}
	c, dc, err := wide.canvas()
	if err != nil {
		return "", err
	}
	tiles := draw.Tiles{
		Rows:      1,
		Cols:      len(groups),
		PadX:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align([][]*plot.Plot{row}, tiles, dc)
	for i, p := range row {
		p.Draw(canvases[0][i])
	}
	return wide.write(c, "clusters-detail")
}

// PanelText is the description of a cluster shown on its panel.
func PanelText(g Group, labels Labels) string {
	s := g.Summary
	return fmt.Sprintf("Cluster %d (%d rows)\n%s %.0f - %.0f\n%s %.1f - %.1f",
		s.Cluster, s.Size,
		labels.X, s.XMin, s.XMax,
		labels.Y, s.YMin, s.YMax)
}

package chart

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Scatter draws the rows colored by cluster with the centroids on top.
func (r *Renderer) Scatter(groups []Group, palette Palette, bounds Bounds, labels Labels) (string, error) {
	if len(groups) == 0 {
		return "", fmt.Errorf("no clusters to draw: %w", RenderErr)
	}
	p := plot.New()
	p.Title.Text = labels.Title
	p.X.Label.Text = labels.X
	p.Y.Label.Text = labels.Y
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	centroids := make(plotter.XYs, 0, len(groups))
	for _, g := range groups {
		s, err := points(g, palette)
		if err != nil {
			return "", err
		}
		p.Add(s)
		p.Legend.Add(fmt.Sprintf("Cluster %d", g.Summary.Cluster), s)
		centroids = append(centroids, g.Centroid)
	}

	c, err := centroidMarkers(centroids)
	if err != nil {
		return "", err
	}
	p.Add(c)
	p.Legend.Add("Centroids", c)

	fix(p, bounds)
	return r.save(p, "clusters")
}

func points(g Group, palette Palette) (*plotter.Scatter, error) {
	s, err := plotter.NewScatter(g.Points)
	if err != nil {
		return nil, fmt.Errorf("could not create scatter for cluster %d: %s: %w", g.Summary.Cluster, err.Error(), RenderErr)
	}
	s.GlyphStyle.Color = palette.Color(g.Summary.Cluster)
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(3)
	return s, nil
}

func centroidMarkers(centroids plotter.XYs) (*plotter.Scatter, error) {
	c, err := plotter.NewScatter(centroids)
	if err != nil {
		return nil, fmt.Errorf("could not create centroids: %s: %w", err.Error(), RenderErr)
	}
	c.GlyphStyle.Color = color.Black
	c.GlyphStyle.Shape = draw.CrossGlyph{}
	c.GlyphStyle.Radius = vg.Points(7)
	return c, nil
}

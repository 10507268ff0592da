package chart

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/drakos74/edu-indicators/internal/math/ml"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var RenderErr = errors.New("could not render")

// Palette is the set of cluster colors shared by all charts of a run.
type Palette []color.Color

// NewPalette creates a palette with k colors.
func NewPalette(k int) Palette {
	p := make(Palette, k)
	for i := 0; i < k; i++ {
		p[i] = plotutil.Color(i)
	}
	return p
}

// Color returns the color for the given cluster.
func (p Palette) Color(c int) color.Color {
	if len(p) == 0 {
		return color.Black
	}
	return p[c%len(p)]
}

// Bounds are the fixed axis ranges of the domain.
type Bounds struct {
	XMin float64
	XMax float64
	YMin float64
	YMax float64
}

// Labels are the texts of a chart.
type Labels struct {
	Title string
	X     string
	Y     string
}

// Group is a cluster ready to be drawn in the original units.
type Group struct {
	Summary  ml.Summary
	Points   plotter.XYs
	Centroid plotter.XY
}

// Renderer writes charts as png files into a directory.
type Renderer struct {
	Dir    string
	Width  vg.Length
	Height vg.Length
}

// NewRenderer creates a renderer for the given output directory.
func NewRenderer(dir string) (*Renderer, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("could not make dir '%s': %s: %w", dir, err.Error(), RenderErr)
	}
	return &Renderer{
		Dir:    dir,
		Width:  8 * vg.Inch,
		Height: 5 * vg.Inch,
	}, nil
}

func (r *Renderer) path(name string) string {
	return filepath.Join(r.Dir, name+".png")
}

func (r *Renderer) save(p *plot.Plot, name string) (string, error) {
	file := r.path(name)
	if err := p.Save(r.Width, r.Height, file); err != nil {
		return "", fmt.Errorf("could not save '%s': %s: %w", file, err.Error(), RenderErr)
	}
	return file, nil
}

// write stores a canvas that was drawn by hand.
func (r *Renderer) write(c vg.CanvasWriterTo, name string) (string, error) {
	file := r.path(name)
	f, err := os.Create(file)
	if err != nil {
		return "", fmt.Errorf("could not create '%s': %s: %w", file, err.Error(), RenderErr)
	}
	defer f.Close()
	if _, err := c.WriteTo(f); err != nil {
		return "", fmt.Errorf("could not write '%s': %s: %w", file, err.Error(), RenderErr)
	}
	return file, nil
}

func (r *Renderer) canvas() (vg.CanvasWriterTo, draw.Canvas, error) {
	c, err := draw.NewFormattedCanvas(r.Width, r.Height, "png")
	if err != nil {
		return nil, draw.Canvas{}, fmt.Errorf("could not create canvas: %s: %w", err.Error(), RenderErr)
	}
	return c, draw.New(c), nil
}

// Safe runs the chart function and turns a panic into an error.
func Safe(name string, render func() (string, error)) (file string, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("chart", name).
				Interface("panic", r).
				Msg("chart panicked")
			file = ""
			err = fmt.Errorf("chart '%s' panicked: %v: %w", name, r, RenderErr)
		}
	}()
	return render()
}

func fix(p *plot.Plot, b Bounds) {
	// ranges are set after adding the data, otherwise they would grow to fit it
	p.X.Min, p.X.Max = b.XMin, b.XMax
	p.Y.Min, p.Y.Max = b.YMin, b.YMax
}

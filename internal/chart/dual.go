package chart

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const rightMargin = 60

// Series is a named line of a time series chart.
type Series struct {
	Name string
	XYs  plotter.XYs
}

// Dual is a time series chart with a left and a right value axis.
type Dual struct {
	Labels Labels
	// Right is the label of the right axis.
	Right string
	// Left series share the left axis range.
	Left    []Series
	LeftMin float64
	LeftMax float64
	// Other is drawn against the right axis with its own range.
	Other Series
}

// DualAxis draws the left series and the right series against the same x axis.
// The right series is mapped into the left range and its own axis is drawn on the right edge.
func (r *Renderer) DualAxis(d Dual, palette Palette) (string, error) {
	if len(d.Left) == 0 || len(d.Other.XYs) == 0 {
		return "", fmt.Errorf("dual axis chart needs left and right series: %w", RenderErr)
	}
	p := plot.New()
	p.Title.Text = d.Labels.Title
	p.X.Label.Text = d.Labels.X
	p.Y.Label.Text = d.Labels.Y
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	for i, s := range d.Left {
		line, markers, err := plotter.NewLinePoints(s.XYs)
		if err != nil {
			return "", fmt.Errorf("could not create series '%s': %s: %w", s.Name, err.Error(), RenderErr)
		}
		line.LineStyle.Color = palette.Color(i)
		line.LineStyle.Width = vg.Points(2)
		markers.GlyphStyle.Color = palette.Color(i)
		markers.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(line, markers)
		p.Legend.Add(s.Name, line, markers)
	}

	rmin, rmax := extent(d.Other.XYs)
	lmin, lmax := d.LeftMin, d.LeftMax
	if lmax <= lmin {
		var all plotter.XYs
		for _, s := range d.Left {
			all = append(all, s.XYs...)
		}
		lmin, lmax = extent(all)
	}
	mapped := make(plotter.XYs, len(d.Other.XYs))
	for i, xy := range d.Other.XYs {
		mapped[i] = plotter.XY{X: xy.X, Y: lmin + (xy.Y-rmin)/(rmax-rmin)*(lmax-lmin)}
	}
	line, markers, err := plotter.NewLinePoints(mapped)
	if err != nil {
		return "", fmt.Errorf("could not create series '%s': %s: %w", d.Other.Name, err.Error(), RenderErr)
	}
	other := palette.Color(len(d.Left))
	line.LineStyle.Color = other
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
	markers.GlyphStyle.Color = other
	markers.GlyphStyle.Shape = draw.SquareGlyph{}
	p.Add(line, markers)
	p.Legend.Add(d.Other.Name+" (right axis)", line, markers)

	p.Y.Min, p.Y.Max = lmin, lmax

	c, dc, err := r.canvas()
	if err != nil {
		return "", err
	}
	inner := draw.Crop(dc, 0, -vg.Points(rightMargin), 0, 0)
	p.Draw(inner)
	da := p.DataCanvas(inner)
	rightAxis(dc, da, p.Y, rmin, rmax, d.Right)
	return r.write(c, "comparison")
}

// rightAxis draws an axis for the [min, max] range along the right edge of the data area.
func rightAxis(dc draw.Canvas, da draw.Canvas, left plot.Axis, lo, hi float64, label string) {
	x := da.Max.X
	dc.StrokeLine2(left.LineStyle, x, da.Min.Y, x, da.Max.Y)

	sty := left.Tick.Label
	sty.XAlign = text.XLeft
	sty.YAlign = text.YCenter
	for _, t := range (plot.DefaultTicks{}).Ticks(lo, hi) {
		if t.Value < lo || t.Value > hi {
			continue
		}
		y := da.Y((t.Value - lo) / (hi - lo))
		length := left.Tick.Length
		if t.IsMinor() {
			length /= 2
		}
		dc.StrokeLine2(left.Tick.LineStyle, x, y, x+length, y)
		if t.Label != "" {
			dc.FillText(sty, vg.Point{X: x + left.Tick.Length + vg.Points(2), Y: y}, t.Label)
		}
	}

	lbl := left.Label.TextStyle
	lbl.Rotation = -math.Pi / 2
	lbl.XAlign = text.XCenter
	lbl.YAlign = text.YTop
	dc.FillText(lbl, vg.Point{X: dc.Max.X - vg.Points(4), Y: (da.Min.Y + da.Max.Y) / 2}, label)
}

// extent returns the padded y range of the series.
func extent(xys plotter.XYs) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, xy := range xys {
		lo = math.Min(lo, xy.Y)
		hi = math.Max(hi, xy.Y)
	}
	if lo == hi {
		return lo - 1, hi + 1
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad
}

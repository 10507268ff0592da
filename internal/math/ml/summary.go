package ml

import (
	xmath "github.com/drakos74/edu-indicators/internal/math"
)

// Summary describes the rows of one cluster in the original units.
type Summary struct {
	Cluster int     `json:"cluster"`
	Size    int     `json:"size"`
	XMin    float64 `json:"x_min"`
	XMax    float64 `json:"x_max"`
	XMean   float64 `json:"x_mean"`
	YMin    float64 `json:"y_min"`
	YMax    float64 `json:"y_max"`
	YMean   float64 `json:"y_mean"`
}

// Summarize collects the range and mean of the two display features per cluster.
func Summarize(k int, labels []int, x, y []float64) []Summary {
	xs := make([]*xmath.Stats, k)
	ys := make([]*xmath.Stats, k)
	for c := 0; c < k; c++ {
		xs[c] = xmath.NewStats()
		ys[c] = xmath.NewStats()
	}
	for i, l := range labels {
		xs[l].Push(x[i])
		ys[l].Push(y[i])
	}
	summaries := make([]Summary, k)
	for c := 0; c < k; c++ {
		summaries[c] = Summary{
			Cluster: c,
			Size:    xs[c].Count(),
			XMin:    xs[c].Min(),
			XMax:    xs[c].Max(),
			XMean:   xs[c].Avg(),
			YMin:    ys[c].Min(),
			YMax:    ys[c].Max(),
			YMean:   ys[c].Avg(),
		}
	}
	return summaries
}

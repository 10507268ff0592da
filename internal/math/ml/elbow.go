package ml

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ElbowPoint is the inertia of the best fit for a cluster count.
type ElbowPoint struct {
	K       int     `json:"k"`
	Inertia float64 `json:"inertia"`
	// Model is the fit behind the inertia.
	Model *Model `json:"-"`
}

// ModelFor returns the elbow fit for k if it was part of the range.
// It is never worse than KMeans.Fit for the same seed, as each elbow fit runs
// the same initializations plus the warm start.
func ModelFor(points []ElbowPoint, k int) (*Model, bool) {
	for _, p := range points {
		if p.K == k && p.Model != nil {
			return p.Model, true
		}
	}
	return nil, false
}

// Elbow fits the data for k = 1..maxK and reports the inertia of each fit.
// Cluster counts above the number of rows are skipped.
// Every fit is also started from the previous solution split at its worst row,
// which keeps the inertia from increasing with k.
func Elbow(x *mat.Dense, maxK int, km KMeans) ([]ElbowPoint, error) {
	if maxK < 1 {
		return nil, fmt.Errorf("invalid elbow range 1..%d: %w", maxK, ClusterErr)
	}
	n, _ := x.Dims()
	points := make([]ElbowPoint, 0, maxK)
	var prev *Model
	for k := 1; k <= maxK; k++ {
		if k > n {
			log.Warn().
				Int("k", k).
				Int("rows", n).
				Msg("skipping elbow for cluster count above rows")
			break
		}
		km.K = k
		var warm *mat.Dense
		if prev != nil {
			warm = split(x, prev)
		}
		m, err := km.fit(x, warm)
		if err != nil {
			return nil, fmt.Errorf("could not fit k=%d: %w", k, err)
		}
		points = append(points, ElbowPoint{K: k, Inertia: m.Inertia, Model: m})
		prev = m
	}
	return points, nil
}

// split adds the row farthest from its centroid as an extra centroid.
func split(x *mat.Dense, m *Model) *mat.Dense {
	n, d := x.Dims()
	dist := make([]float64, n)
	for i := 0; i < n; i++ {
		dist[i] = sqDist(x.RawRowView(i), m.Centroids.RawRowView(m.Labels[i]))
	}
	k := m.K()
	warm := mat.NewDense(k+1, d, nil)
	for c := 0; c < k; c++ {
		warm.SetRow(c, m.Centroids.RawRowView(c))
	}
	warm.SetRow(k, x.RawRowView(floats.MaxIdx(dist)))
	return warm
}

package ml

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	// MinInits is the least number of random initializations for a fit.
	MinInits = 10
	// DefaultMaxIterations bounds the lloyd iterations of a single initialization.
	DefaultMaxIterations = 300
	// DefaultTolerance is the relative centroid shift under which a run has converged.
	DefaultTolerance = 1e-4
)

// KMeans partitions rows into K groups minimizing the within-group squared distance.
type KMeans struct {
	K             int
	Seed          int64
	Inits         int
	MaxIterations int
	Tolerance     float64
}

// Model is the result of a k-means fit.
type Model struct {
	// Labels holds the cluster of each row in [0, K).
	Labels []int
	// Centroids is a K x features matrix in the fitted space.
	Centroids *mat.Dense
	// Inertia is the sum of squared distances of the rows to their centroid.
	Inertia    float64
	Iterations int
}

// K returns the number of clusters of the model.
func (m *Model) K() int {
	r, _ := m.Centroids.Dims()
	return r
}

// Centroid returns a copy of the centroid of the given cluster.
func (m *Model) Centroid(c int) []float64 {
	return mat.Row(nil, c, m.Centroids)
}

// Sizes returns the number of rows in each cluster.
func (m *Model) Sizes() []int {
	sizes := make([]int, m.K())
	for _, l := range m.Labels {
		sizes[l]++
	}
	return sizes
}

// Predict returns the closest cluster for the given row.
func (m *Model) Predict(row []float64) int {
	c, _ := closest(row, m.Centroids)
	return c
}

// Fit runs k-means over the rows of x and keeps the initialization with the lowest inertia.
// The result only depends on the data and the seed.
// K may equal the number of rows, every row is then its own cluster.
// K below 1 or above the number of rows is a ClusterErr.
func (km KMeans) Fit(x *mat.Dense) (*Model, error) {
	return km.fit(x, nil)
}

func (km KMeans) fit(x *mat.Dense, warm *mat.Dense) (*Model, error) {
	n, _ := x.Dims()
	if km.K < 1 {
		return nil, fmt.Errorf("invalid cluster count %d: %w", km.K, ClusterErr)
	}
	if km.K > n {
		return nil, fmt.Errorf("cluster count %d exceeds %d rows: %w", km.K, n, ClusterErr)
	}
	inits := km.Inits
	if inits < MinInits {
		inits = MinInits
	}
	iterations := km.MaxIterations
	if iterations <= 0 {
		iterations = DefaultMaxIterations
	}
	tolerance := km.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	// shift threshold relative to the data spread
	tol := tolerance * meanVariance(x)

	var best *Model
	if warm != nil {
		best = lloyd(x, warm, iterations, tol)
	}
	rng := rand.New(rand.NewSource(uint64(km.Seed)))
	for i := 0; i < inits; i++ {
		m := lloyd(x, plusPlus(x, km.K, rng), iterations, tol)
		if best == nil || m.Inertia < best.Inertia {
			best = m
		}
	}
	if hasEmpty(best.Labels, km.K) {
		log.Warn().
			Int("k", km.K).
			Ints("sizes", best.Sizes()).
			Msg("fewer distinct rows than clusters, some clusters are empty")
	}
	log.Debug().
		Int("k", km.K).
		Int("rows", n).
		Int("inits", inits).
		Int64("seed", km.Seed).
		Float64("inertia", best.Inertia).
		Int("iterations", best.Iterations).
		Msg("fitted k-means")
	return best, nil
}

// plusPlus picks the initial centroids with the k-means++ sampling.
func plusPlus(x *mat.Dense, k int, rng *rand.Rand) *mat.Dense {
	n, d := x.Dims()
	centroids := mat.NewDense(k, d, nil)
	centroids.SetRow(0, x.RawRowView(rng.Intn(n)))

	dist := make([]float64, n)
	for i := range dist {
		dist[i] = sqDist(x.RawRowView(i), centroids.RawRowView(0))
	}
	for c := 1; c < k; c++ {
		total := floats.Sum(dist)
		if total == 0 {
			// all rows coincide with the chosen centroids
			centroids.SetRow(c, x.RawRowView(rng.Intn(n)))
			continue
		}
		next := floats.MaxIdx(dist)
		r := rng.Float64() * total
		for i, w := range dist {
			r -= w
			if r <= 0 && w > 0 {
				next = i
				break
			}
		}
		centroids.SetRow(c, x.RawRowView(next))
		for i := range dist {
			dist[i] = math.Min(dist[i], sqDist(x.RawRowView(i), centroids.RawRowView(c)))
		}
	}
	return centroids
}

// lloyd alternates between the update and assignment steps starting from the given centroids.
// Neither step can increase the inertia.
func lloyd(x *mat.Dense, init *mat.Dense, iterations int, tol float64) *Model {
	centroids := mat.DenseCopyOf(init)
	k, _ := centroids.Dims()
	labels, dist := assign(x, centroids)

	it := 0
	for it < iterations {
		it++
		next := update(x, labels, dist, k)
		shift := 0.0
		for c := 0; c < k; c++ {
			shift += sqDist(centroids.RawRowView(c), next.RawRowView(c))
		}
		centroids = next
		labels, dist = assign(x, centroids)
		if shift <= tol && !hasEmpty(labels, k) {
			break
		}
		// re-seeding lands on coinciding rows, nothing can move anymore
		if shift == 0 {
			break
		}
	}
	return &Model{
		Labels:     labels,
		Centroids:  centroids,
		Inertia:    floats.Sum(dist),
		Iterations: it,
	}
}

// assign labels every row with its closest centroid.
func assign(x *mat.Dense, centroids *mat.Dense) ([]int, []float64) {
	n, _ := x.Dims()
	labels := make([]int, n)
	dist := make([]float64, n)
	for i := 0; i < n; i++ {
		labels[i], dist[i] = closest(x.RawRowView(i), centroids)
	}
	return labels, dist
}

// update moves every centroid to the mean of its rows.
// Empty clusters are re-seeded with the rows farthest from their centroid.
func update(x *mat.Dense, labels []int, dist []float64, k int) *mat.Dense {
	_, d := x.Dims()
	next := mat.NewDense(k, d, nil)
	counts := make([]int, k)
	for i, l := range labels {
		counts[l]++
		floats.Add(next.RawRowView(l), x.RawRowView(i))
	}
	var remaining []float64
	for c := 0; c < k; c++ {
		if counts[c] > 0 {
			floats.Scale(1/float64(counts[c]), next.RawRowView(c))
			continue
		}
		if remaining == nil {
			remaining = append([]float64{}, dist...)
		}
		far := floats.MaxIdx(remaining)
		remaining[far] = -1
		next.SetRow(c, x.RawRowView(far))
	}
	return next
}

func closest(row []float64, centroids *mat.Dense) (int, float64) {
	k, _ := centroids.Dims()
	nearest, dist := 0, math.Inf(1)
	for c := 0; c < k; c++ {
		if d := sqDist(row, centroids.RawRowView(c)); d < dist {
			nearest, dist = c, d
		}
	}
	return nearest, dist
}

func hasEmpty(labels []int, k int) bool {
	seen := make([]bool, k)
	count := 0
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			count++
		}
	}
	return count < k
}

func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

func meanVariance(x *mat.Dense) float64 {
	_, d := x.Dims()
	total := 0.0
	for j := 0; j < d; j++ {
		total += stat.PopVariance(mat.Col(nil, j, x), nil)
	}
	return total / float64(d)
}

package ml

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// blobs generates size points around each of the centers.
func blobs(seed int64, size int, spread float64, centers ...[2]float64) *mat.Dense {
	rng := rand.New(rand.NewSource(uint64(seed)))
	data := make([]float64, 0, 2*size*len(centers))
	for _, c := range centers {
		for i := 0; i < size; i++ {
			data = append(data, c[0]+rng.NormFloat64()*spread, c[1]+rng.NormFloat64()*spread)
		}
	}
	return mat.NewDense(size*len(centers), 2, data)
}

func TestKMeans_Fit(t *testing.T) {

	type test struct {
		x *mat.Dense
		k int
	}

	tests := map[string]test{
		"three-rows": {
			x: mat.NewDense(3, 2, []float64{0, 0, 5, 5, 10, 10}),
			k: 3,
		},
		"three-blobs": {
			x: blobs(1, 20, 0.3, [2]float64{-5, -5}, [2]float64{0, 5}, [2]float64{5, -5}),
			k: 3,
		},
		"duplicates": {
			x: mat.NewDense(4, 2, []float64{1, 1, 1, 1, 1, 1, 2, 2}),
			k: 2,
		},
		"single-cluster": {
			x: blobs(2, 10, 1, [2]float64{0, 0}),
			k: 1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m, err := KMeans{K: tt.k, Seed: 42}.Fit(tt.x)
			require.NoError(t, err)
			n, _ := tt.x.Dims()
			require.Len(t, m.Labels, n)
			for _, l := range m.Labels {
				assert.GreaterOrEqual(t, l, 0)
				assert.Less(t, l, tt.k)
			}
			assert.Equal(t, tt.k, m.K())
			sizes := m.Sizes()
			total := 0
			for c, s := range sizes {
				assert.Greater(t, s, 0, "cluster %d is empty", c)
				total += s
			}
			assert.Equal(t, n, total)
			assert.GreaterOrEqual(t, m.Inertia, 0.0)
		})
	}
}

func TestKMeans_Determinism(t *testing.T) {
	x := blobs(7, 30, 1.5, [2]float64{-2, 0}, [2]float64{2, 0}, [2]float64{0, 3})
	for _, seed := range []int64{0, 42, 1234} {
		t.Run(fmt.Sprintf("seed-%d", seed), func(t *testing.T) {
			km := KMeans{K: 3, Seed: seed, Inits: 10}
			m1, err := km.Fit(x)
			require.NoError(t, err)
			m2, err := km.Fit(x)
			require.NoError(t, err)
			assert.Equal(t, m1.Labels, m2.Labels)
			assert.True(t, mat.Equal(m1.Centroids, m2.Centroids))
			assert.Equal(t, m1.Inertia, m2.Inertia)
		})
	}
}

func TestKMeans_Separation(t *testing.T) {
	centers := [][2]float64{{-10, -10}, {0, 10}, {10, -10}}
	size := 15
	x := blobs(3, size, 0.5, centers...)
	m, err := KMeans{K: 3, Seed: 42}.Fit(x)
	require.NoError(t, err)

	// each blob ends up in its own cluster
	seen := make(map[int]bool)
	for b := range centers {
		label := m.Labels[b*size]
		for i := b * size; i < (b+1)*size; i++ {
			assert.Equal(t, label, m.Labels[i])
		}
		assert.False(t, seen[label])
		seen[label] = true
		assert.Equal(t, label, m.Predict(centers[b][:]))

		c := m.Centroid(label)
		assert.InDelta(t, centers[b][0], c[0], 0.5)
		assert.InDelta(t, centers[b][1], c[1], 0.5)
	}
}

func TestKMeans_FewDistinctRows(t *testing.T) {
	x := mat.NewDense(5, 2, []float64{3, 3, 3, 3, 3, 3, 3, 3, 3, 3})
	m, err := KMeans{K: 3, Seed: 42}.Fit(x)
	require.NoError(t, err)
	assert.Less(t, m.Iterations, DefaultMaxIterations)
	assert.Equal(t, 0.0, m.Inertia)
	require.Len(t, m.Labels, 5)
	for _, l := range m.Labels {
		assert.GreaterOrEqual(t, l, 0)
		assert.Less(t, l, 3)
	}
	assert.Contains(t, m.Sizes(), 0)
}

func TestKMeans_RowsAsClusters(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{1, 5, 9})
	m, err := KMeans{K: 3, Seed: 42}.Fit(x)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 1}, m.Sizes())
	assert.InDelta(t, 0, m.Inertia, 1e-12)
}

func TestKMeans_InvalidK(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{1, 2, 3})

	tests := map[string]int{
		"zero":     0,
		"negative": -1,
		"too-many": 4,
	}

	for name, k := range tests {
		t.Run(name, func(t *testing.T) {
			m, err := KMeans{K: k}.Fit(x)
			assert.ErrorIs(t, err, ClusterErr)
			assert.Nil(t, m)
		})
	}
}

func TestElbow(t *testing.T) {
	x := blobs(11, 12, 2, [2]float64{-3, 0}, [2]float64{3, 1}, [2]float64{0, 4}, [2]float64{1, -4})
	points, err := Elbow(x, 7, KMeans{Seed: 42})
	require.NoError(t, err)
	require.Len(t, points, 7)
	for i, p := range points {
		assert.Equal(t, i+1, p.K)
		if i > 0 {
			assert.LessOrEqual(t, p.Inertia, points[i-1].Inertia+1e-9, "inertia increased at k=%d", p.K)
		}
	}

	// k = 1 inertia is the total squared deviation
	n, _ := x.Dims()
	assert.InDelta(t, float64(n)*2*meanVariance(x), points[0].Inertia, 1e-6)
}

func TestModelFor(t *testing.T) {
	x := blobs(3, 15, 1.2, [2]float64{-2, 0}, [2]float64{2, 0}, [2]float64{0, 3})
	km := KMeans{Seed: 42}
	points, err := Elbow(x, 5, km)
	require.NoError(t, err)

	for k := 1; k <= 5; k++ {
		m, ok := ModelFor(points, k)
		require.True(t, ok, "k=%d", k)
		assert.Equal(t, k, m.K())
		assert.Equal(t, points[k-1].Inertia, m.Inertia)

		km.K = k
		fit, err := km.Fit(x)
		require.NoError(t, err)
		assert.LessOrEqual(t, m.Inertia, fit.Inertia+1e-9, "k=%d", k)
	}

	_, ok := ModelFor(points, 6)
	assert.False(t, ok)
}

func TestElbow_FewRows(t *testing.T) {
	x := mat.NewDense(4, 1, []float64{1, 2, 8, 9})
	points, err := Elbow(x, 7, KMeans{Seed: 1})
	require.NoError(t, err)
	require.Len(t, points, 4)
	assert.InDelta(t, 0, points[3].Inertia, 1e-12)

	_, err = Elbow(x, 0, KMeans{})
	assert.ErrorIs(t, err, ClusterErr)
}

func TestSummarize(t *testing.T) {
	years := []float64{2015, 2016, 2020, 2019}
	pct := []float64{10, 30, 90, 70}
	s := Summarize(2, []int{0, 0, 1, 1}, years, pct)
	require.Len(t, s, 2)
	assert.Equal(t, Summary{Cluster: 0, Size: 2, XMin: 2015, XMax: 2016, XMean: 2015.5, YMin: 10, YMax: 30, YMean: 20}, s[0])
	assert.Equal(t, Summary{Cluster: 1, Size: 2, XMin: 2019, XMax: 2020, XMean: 2019.5, YMin: 70, YMax: 90, YMean: 80}, s[1])
}

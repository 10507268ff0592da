package ml

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Silhouette returns the mean silhouette coefficient of the labelled rows.
// It needs at least two clusters and fewer clusters than rows.
func Silhouette(x *mat.Dense, labels []int) (float64, error) {
	n, _ := x.Dims()
	if len(labels) != n {
		return 0, fmt.Errorf("%d labels for %d rows: %w", len(labels), n, ClusterErr)
	}
	index := make(map[int]int)
	for _, l := range labels {
		if _, ok := index[l]; !ok {
			index[l] = len(index)
		}
	}
	k := len(index)
	if k < 2 || k > n-1 {
		return 0, fmt.Errorf("silhouette needs 2..%d clusters, got %d: %w", n-1, k, ClusterErr)
	}

	counts := make([]int, k)
	for _, l := range labels {
		counts[index[l]]++
	}

	total := 0.0
	sums := make([]float64, k)
	for i := 0; i < n; i++ {
		for c := range sums {
			sums[c] = 0
		}
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			sums[index[labels[j]]] += floats.Distance(x.RawRowView(i), x.RawRowView(j), 2)
		}
		own := index[labels[i]]
		if counts[own] == 1 {
			// singletons score 0
			continue
		}
		a := sums[own] / float64(counts[own]-1)
		b := -1.0
		for c := 0; c < k; c++ {
			if c == own {
				continue
			}
			if mean := sums[c] / float64(counts[c]); b < 0 || mean < b {
				b = mean
			}
		}
		if d := max(a, b); d > 0 {
			total += (b - a) / d
		}
	}
	return total / float64(n), nil
}

package math

import (
	"math"
	"strconv"
)

// Stats is a set of statistical properties of a stream of numbers.
type Stats struct {
	count          int
	sum            float64
	min, max       float64
	mean, dSquared float64
}

// NewStats creates a new Stats.
func NewStats() *Stats {
	return &Stats{
		min: math.MaxFloat64,
		max: -math.MaxFloat64,
	}
}

// Push adds another element to the set.
func (s *Stats) Push(v ...float64) {
	for _, f := range v {
		s.count++
		s.sum += f
		diff := (f - s.mean) / float64(s.count)
		mean := s.mean + diff
		s.dSquared += (f - mean) * (f - s.mean)
		s.mean = mean
		if s.min > f {
			s.min = f
		}
		if s.max < f {
			s.max = f
		}
	}
}

// Count returns the number of elements.
func (s Stats) Count() int {
	return s.count
}

// Sum returns the sum of all elements.
func (s Stats) Sum() float64 {
	return s.sum
}

// Avg returns the average value of the set.
func (s Stats) Avg() float64 {
	return s.mean
}

// Min returns the smallest element, 0 for an empty set.
func (s Stats) Min() float64 {
	if s.count == 0 {
		return 0
	}
	return s.min
}

// Max returns the largest element, 0 for an empty set.
func (s Stats) Max() float64 {
	if s.count == 0 {
		return 0
	}
	return s.max
}

// Variance is the population variance of the set.
func (s Stats) Variance() float64 {
	if s.count == 0 {
		return 0
	}
	return s.dSquared / float64(s.count)
}

// StDev is the population standard deviation of the set.
func (s Stats) StDev() float64 {
	return math.Sqrt(s.Variance())
}

// Format formats a float with two decimals.
func Format(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

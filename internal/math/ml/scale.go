package ml

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	PreprocessErr = errors.New("could not preprocess")
	ClusterErr    = errors.New("could not cluster")
)

// Source provides numeric columns by name.
type Source interface {
	Floats(column string) ([]float64, error)
}

// Scaler standardizes features to zero mean and unit variance.
type Scaler struct {
	Columns []string  `json:"columns"`
	Mean    []float64 `json:"mean"`
	Scale   []float64 `json:"scale"`
}

// Fit computes the column statistics of the given matrix.
// Columns with zero variance keep a scale of 1.
func Fit(x mat.Matrix, columns ...string) *Scaler {
	_, c := x.Dims()
	s := &Scaler{
		Columns: columns,
		Mean:    make([]float64, c),
		Scale:   make([]float64, c),
	}
	for j := 0; j < c; j++ {
		col := mat.Col(nil, j, x)
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 {
			std = 1
		}
		s.Mean[j] = mean
		s.Scale[j] = std
	}
	return s
}

// Transform returns the standardized copy of the given matrix.
func (s *Scaler) Transform(x mat.Matrix) *mat.Dense {
	r, c := x.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(i, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}, x)
	return out
}

// Inverse maps a standardized row back to the original units.
func (s *Scaler) Inverse(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = v*s.Scale[j] + s.Mean[j]
	}
	return out
}

// Preprocess extracts the given numeric columns from the source and standardizes them
// with statistics computed on the same data.
// It returns the scaled matrix together with the fitted scaler.
func Preprocess(src Source, columns ...string) (*mat.Dense, *Scaler, error) {
	if len(columns) == 0 {
		return nil, nil, fmt.Errorf("no feature columns: %w", PreprocessErr)
	}
	features := make([][]float64, len(columns))
	for j, c := range columns {
		values, err := src.Floats(c)
		if err != nil {
			return nil, nil, fmt.Errorf("feature '%s': %s: %w", c, err.Error(), PreprocessErr)
		}
		features[j] = values
	}
	rows := len(features[0])
	if rows == 0 {
		return nil, nil, fmt.Errorf("no rows to scale: %w", PreprocessErr)
	}

	raw := mat.NewDense(rows, len(columns), nil)
	for j, values := range features {
		raw.SetCol(j, values)
	}
	scaler := Fit(raw, columns...)
	scaled := scaler.Transform(raw)
	log.Debug().
		Strs("columns", columns).
		Int("rows", rows).
		Floats64("mean", scaler.Mean).
		Floats64("scale", scaler.Scale).
		Msg("standardized features")
	return scaled, scaler, nil
}

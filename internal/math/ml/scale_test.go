package ml

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// columns is a minimal Source for tests.
type columns map[string][]float64

func (c columns) Floats(name string) ([]float64, error) {
	v, ok := c[name]
	if !ok {
		return nil, fmt.Errorf("no column '%s'", name)
	}
	return v, nil
}

func TestPreprocess(t *testing.T) {

	type test struct {
		src     columns
		columns []string
		err     error
	}

	tests := map[string]test{
		"year-percentage": {
			src: columns{
				"Year":       {2015, 2016, 2017, 2018, 2019, 2020},
				"Percentage": {10, 25, 40, 55, 70, 90},
			},
			columns: []string{"Year", "Percentage"},
		},
		"constant-column": {
			src: columns{
				"Year":       {2015, 2015, 2015},
				"Percentage": {10, 20, 30},
			},
			columns: []string{"Year", "Percentage"},
		},
		"missing-column": {
			src:     columns{"Year": {2015}},
			columns: []string{"Year", "Percentage"},
			err:     PreprocessErr,
		},
		"no-columns": {
			src: columns{"Year": {2015}},
			err: PreprocessErr,
		},
		"no-rows": {
			src:     columns{"Year": {}},
			columns: []string{"Year"},
			err:     PreprocessErr,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			x, scaler, err := Preprocess(tt.src, tt.columns...)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			r, c := x.Dims()
			assert.Equal(t, len(tt.src[tt.columns[0]]), r)
			assert.Equal(t, len(tt.columns), c)
			assert.Equal(t, tt.columns, scaler.Columns)

			for j, column := range tt.columns {
				col := mat.Col(nil, j, x)
				mean, std := stat.PopMeanStdDev(col, nil)
				assert.InDelta(t, 0, mean, 1e-9)
				if scaler.Scale[j] == 1 && std == 0 {
					// constant features collapse to zero
					continue
				}
				assert.InDelta(t, 1, std, 1e-9, "column %s", column)
			}

			// inverting the scaled rows gives back the input
			for i := 0; i < r; i++ {
				row := scaler.Inverse(x.RawRowView(i))
				for j, column := range tt.columns {
					assert.InDelta(t, tt.src[column][i], row[j], 1e-9)
				}
			}
		})
	}
}

func TestScaler_Transform(t *testing.T) {
	raw := mat.NewDense(2, 1, []float64{0, 10})
	s := Fit(raw, "v")
	assert.Equal(t, []float64{5}, s.Mean)
	assert.Equal(t, []float64{5}, s.Scale)
	out := s.Transform(mat.NewDense(1, 1, []float64{15}))
	assert.Equal(t, 2.0, out.At(0, 0))
}

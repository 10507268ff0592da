package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drakos74/edu-indicators/infra/config"
	"github.com/drakos74/edu-indicators/internal/metrics"
	"github.com/drakos74/edu-indicators/internal/storage"
	"github.com/drakos74/edu-indicators/internal/storage/file/json"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const runID = "test-run"

func writeFile(t *testing.T, dir, name string, lines ...string) string {
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return p
}

func testEnv() (Env, *storage.MockStorage) {
	store := storage.NewMockStorage()
	return Env{
		RunID:   runID,
		Metrics: metrics.New(),
		Store:   store,
		Out:     io.Discard,
	}, store
}

func failures(t *testing.T, env Env) int {
	n, err := testutil.GatherAndCount(env.Metrics.Registry(), "edu_stage_failures_total")
	require.NoError(t, err)
	return n
}

func exists(t *testing.T, file string) {
	info, err := os.Stat(file)
	require.NoError(t, err, file)
	assert.Greater(t, info.Size(), int64(0))
}

// indicators are 20 rows over 2015-2020 with percentages between 10 and 90.
func indicators() []string {
	lines := []string{"Country,Year,Percentage"}
	rows := [][3]interface{}{
		{"AUT", 2015, 10.0}, {"BEL", 2015, 14.5}, {"CYP", 2016, 12.0}, {"DNK", 2016, 18.0},
		{"EST", 2015, 22.0}, {"FIN", 2016, 25.0}, {"GRC", 2016, 16.5},
		{"AUT", 2017, 45.0}, {"BEL", 2017, 50.0}, {"CYP", 2018, 55.0}, {"DNK", 2018, 48.0},
		{"EST", 2017, 52.5}, {"FIN", 2018, 47.0},
		{"AUT", 2019, 80.0}, {"BEL", 2020, 90.0}, {"CYP", 2019, 76.0}, {"DNK", 2020, 85.5},
		{"EST", 2019, 88.0}, {"FIN", 2020, 79.0}, {"GRC", 2020, 83.0},
	}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%s,%d,%v", r[0], r[1], r[2]))
	}
	return lines
}

func TestNewEnv(t *testing.T) {
	type test struct {
		output config.Output
		store  storage.Persistence
	}

	dir := t.TempDir()
	tests := map[string]test{
		"default": {
			output: config.DefaultCluster().Output,
			store:  storage.NewVoidStorage(),
		},
		"json": {
			output: config.Output{Dir: dir, JSON: true},
			store:  json.NewBlob(dir, true),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			env := NewEnv(runID, tt.output)
			assert.Equal(t, runID, env.RunID)
			assert.NotNil(t, env.Metrics)
			assert.IsType(t, tt.store, env.Store)
		})
	}
}

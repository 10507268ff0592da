package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/drakos74/edu-indicators/infra/config"
	"github.com/drakos74/edu-indicators/internal/math/ml"
	"github.com/drakos74/edu-indicators/internal/storage"
	"github.com/drakos74/edu-indicators/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clusterConfig(t *testing.T, input string) config.Cluster {
	cfg := config.DefaultCluster()
	cfg.Input.Path = input
	cfg.Output.Dir = t.TempDir()
	return cfg
}

func TestCluster(t *testing.T) {
	input := writeFile(t, t.TempDir(), "internet.csv", indicators()...)
	cfg := clusterConfig(t, input)
	cfg.Output.Workbook = true
	env, store := testEnv()

	result, err := Cluster(cfg, env)
	require.NoError(t, err)

	assert.Equal(t, 20, result.Rows)
	assert.Equal(t, 3, result.K)
	require.Len(t, result.Summaries, 3)
	for c, s := range result.Summaries {
		assert.Greater(t, s.Size, 0, "cluster %d", c)
		centroid := result.Centroids[c]
		assert.GreaterOrEqual(t, centroid[0], 2015.0)
		assert.LessOrEqual(t, centroid[0], 2020.0)
		assert.GreaterOrEqual(t, centroid[1], 10.0)
		assert.LessOrEqual(t, centroid[1], 90.0)
	}

	require.Len(t, result.Elbow, cfg.Elbow.MaxK)
	// the reported model is the elbow fit for the configured k
	assert.Equal(t, result.Elbow[cfg.Clusters-1].Inertia, result.Inertia)
	assert.Same(t, result.Elbow[cfg.Clusters-1].Model, result.Model)
	for i := 1; i < len(result.Elbow); i++ {
		assert.LessOrEqual(t, result.Elbow[i].Inertia, result.Elbow[i-1].Inertia+1e-9)
	}
	require.NotNil(t, result.Silhouette)
	assert.Greater(t, *result.Silhouette, 0.0)

	clusters, err := result.Table.Ints(ClusterColumn)
	require.NoError(t, err)
	assert.Len(t, clusters, 20)
	for _, c := range clusters {
		assert.Contains(t, []int{0, 1, 2}, c)
	}

	assert.Len(t, result.Charts, 4)
	for _, file := range result.Charts {
		exists(t, file)
	}
	exists(t, result.Workbook)
	assert.Contains(t, store.Elements, storage.Key{Run: runID, Label: "cluster"})
	assert.Equal(t, 0, failures(t, env))
}

func TestCluster_NoExports(t *testing.T) {
	input := writeFile(t, t.TempDir(), "internet.csv", indicators()...)
	cfg := clusterConfig(t, input)
	env, _ := testEnv()

	result, err := Cluster(cfg, env)
	require.NoError(t, err)
	assert.Empty(t, result.Workbook)
	assert.NoFileExists(t, filepath.Join(cfg.Output.Dir, runID, "clusters.xlsx"))
	assert.Len(t, result.Charts, 4)
}

func TestCluster_ChartsFail(t *testing.T) {
	input := writeFile(t, t.TempDir(), "internet.csv", indicators()...)
	cfg := clusterConfig(t, input)
	// a regular file where the run directory should go
	cfg.Output.Dir = writeFile(t, t.TempDir(), "output", "not a directory")
	env, store := testEnv()

	result, err := Cluster(cfg, env)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 3, result.K)
	assert.Len(t, result.Summaries, 3)
	assert.Empty(t, result.Charts)
	assert.Equal(t, 1, failures(t, env))
	assert.Contains(t, store.Elements, storage.Key{Run: runID, Label: "cluster"})
}

func TestCluster_Deterministic(t *testing.T) {
	input := writeFile(t, t.TempDir(), "internet.csv", indicators()...)
	env, _ := testEnv()

	first, err := Cluster(clusterConfig(t, input), env)
	require.NoError(t, err)
	second, err := Cluster(clusterConfig(t, input), env)
	require.NoError(t, err)
	assert.Equal(t, first.Model.Labels, second.Model.Labels)
	assert.Equal(t, first.Centroids, second.Centroids)
}

func TestCluster_Errors(t *testing.T) {
	type test struct {
		lines    []string
		path     string
		clusters int
		err      error
	}

	tests := map[string]test{
		"missing-file": {
			path: "does-not-exist.csv",
			err:  table.LoadErr,
		},
		"header-only": {
			lines: []string{"Country,Year,Percentage"},
			err:   NoRowsErr,
		},
		"non-numeric": {
			lines: []string{"Country,Year,Percentage", "GRC,2015,n/a", "ITA,2016,40"},
			err:   ml.PreprocessErr,
		},
		"missing-feature": {
			lines: []string{"Country,Year,Value", "GRC,2015,10", "ITA,2016,40"},
			err:   ml.PreprocessErr,
		},
		"too-many-clusters": {
			lines:    []string{"Country,Year,Percentage", "GRC,2015,10", "ITA,2016,40", "ESP,2017,60"},
			clusters: 4,
			err:      ml.ClusterErr,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			input := tt.path
			if tt.lines != nil {
				input = writeFile(t, t.TempDir(), "input.csv", tt.lines...)
			}
			cfg := clusterConfig(t, input)
			if tt.clusters > 0 {
				cfg.Clusters = tt.clusters
			}
			env, store := testEnv()

			result, err := Cluster(cfg, env)
			assert.ErrorIs(t, err, tt.err)
			assert.Nil(t, result)
			assert.Empty(t, store.Elements)
			assert.Equal(t, 1, failures(t, env))
		})
	}
}

package json

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/drakos74/edu-indicators/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type summary struct {
	Run      string    `json:"run"`
	Clusters int       `json:"clusters"`
	Inertia  []float64 `json:"inertia"`
}

func TestBlobStorage(t *testing.T) {
	type test struct {
		key   storage.Key
		value summary
	}

	tests := map[string]test{
		"summary": {
			key:   storage.Key{Run: "run-1", Label: "summary"},
			value: summary{Run: "run-1", Clusters: 3, Inertia: []float64{40, 12.5, 8}},
		},
		"empty": {
			key:   storage.Key{Run: "run-2", Label: "summary"},
			value: summary{},
		},
	}

	dir := t.TempDir()
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := NewBlob(dir, true)
			err := s.Store(tt.key, tt.value)
			require.NoError(t, err)

			_, err = os.Stat(filepath.Join(dir, tt.key.Run, tt.key.Label+".json"))
			require.NoError(t, err)

			var loaded summary
			err = s.Load(tt.key, &loaded)
			require.NoError(t, err)
			assert.Equal(t, tt.value.Clusters, loaded.Clusters)
			assert.Equal(t, tt.value.Run, loaded.Run)
			assert.Equal(t, len(tt.value.Inertia), len(loaded.Inertia))
		})
	}
}

func TestBlobStorage_Errors(t *testing.T) {
	dir := t.TempDir()
	s := NewBlob(dir, false)

	var v summary
	err := s.Load(storage.Key{Run: "missing", Label: "summary"}, &v)
	assert.ErrorIs(t, err, storage.NotFoundErr)

	p := filepath.Join(dir, "broken")
	require.NoError(t, os.MkdirAll(p, os.ModePerm))
	require.NoError(t, os.WriteFile(filepath.Join(p, "summary.json"), []byte("{"), 0o644))
	err = s.Load(storage.Key{Run: "broken", Label: "summary"}, &v)
	assert.ErrorIs(t, err, storage.CouldNotLoadErr)
}

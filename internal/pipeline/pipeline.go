package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/drakos74/edu-indicators/infra/config"
	"github.com/drakos74/edu-indicators/internal/chart"
	"github.com/drakos74/edu-indicators/internal/metrics"
	"github.com/drakos74/edu-indicators/internal/storage"
	"github.com/drakos74/edu-indicators/internal/storage/file/json"
	"github.com/drakos74/edu-indicators/internal/table"
	"github.com/rs/zerolog/log"
)

const (
	LoadStage       = "load"
	ReshapeStage    = "reshape"
	PreprocessStage = "preprocess"
	ClusterStage    = "cluster"
	MergeStage      = "merge"
	RenderStage     = "render"
	ExportStage     = "export"
	StoreStage      = "store"
)

// NoRowsErr is returned when a stage succeeds with zero valid rows.
var NoRowsErr = errors.New("no rows")

// Env carries the run wide dependencies of a pipeline.
type Env struct {
	RunID   string
	Metrics *metrics.Metrics
	Store   storage.Persistence
	// Out receives the printed tables.
	Out io.Writer
}

// NewEnv creates the environment for a run writing into the given output.
func NewEnv(runID string, output config.Output) Env {
	var store storage.Persistence = storage.NewVoidStorage()
	if output.JSON {
		store = json.NewBlob(output.Dir, true)
	}
	return Env{
		RunID:   runID,
		Metrics: metrics.New(),
		Store:   store,
		Out:     os.Stdout,
	}
}

func (e Env) dir(output config.Output) string {
	return filepath.Join(output.Dir, e.RunID)
}

// fail logs and counts the failed stage.
func (e Env) fail(stage string, err error) error {
	log.Error().
		Err(err).
		Str("stage", stage).
		Msg("stage failed, aborting run")
	e.Metrics.Failure(stage)
	return err
}

func (e Env) load(in config.Input) (*table.Table, error) {
	t, err := table.Load(in.Path, table.LoadOptions{Sheet: in.Sheet})
	if err != nil {
		return nil, e.fail(LoadStage, err)
	}
	e.Metrics.Rows(in.Name, t.Len())
	if t.Len() == 0 {
		return nil, e.fail(LoadStage, fmt.Errorf("'%s' has only a header: %w", in.Path, NoRowsErr))
	}
	return t, nil
}

// render draws a chart, a failure is logged and the run goes on.
func (e Env) render(name string, draw func() (string, error)) (string, bool) {
	file, err := chart.Safe(name, draw)
	e.Metrics.Chart(name, err)
	if err != nil {
		e.Metrics.Failure(RenderStage)
		log.Error().
			Err(err).
			Str("chart", name).
			Msg("could not render chart")
		return "", false
	}
	log.Info().
		Str("chart", name).
		Str("file", file).
		Msg("rendered chart")
	return file, true
}

// noCharts skips the charts of the run when there is nowhere to write them.
func (e Env) noCharts(err error) {
	log.Error().Err(err).Msg("charts disabled")
	e.Metrics.Failure(RenderStage)
}

// export is a side artifact, a failure is logged and the run goes on.
func (e Env) export(err error) {
	if err != nil {
		log.Error().Err(err).Msg("could not export workbook")
		e.Metrics.Failure(ExportStage)
	}
}

func (e Env) store(label string, value interface{}) {
	if err := e.Store.Store(storage.Key{Run: e.RunID, Label: label}, value); err != nil {
		log.Error().Err(err).Str("label", label).Msg("could not store run summary")
		e.Metrics.Failure(StoreStage)
	}
}

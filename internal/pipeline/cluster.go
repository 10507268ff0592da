package pipeline

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/drakos74/edu-indicators/infra/config"
	"github.com/drakos74/edu-indicators/internal/chart"
	"github.com/drakos74/edu-indicators/internal/math/ml"
	"github.com/drakos74/edu-indicators/internal/report"
	"github.com/drakos74/edu-indicators/internal/table"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot/plotter"
)

// ClusterColumn is the column holding the assigned cluster.
const ClusterColumn = "Cluster"

// ClusterResult is the outcome of a clustering run.
type ClusterResult struct {
	RunID   string          `json:"run_id"`
	Title   string          `json:"title"`
	Rows    int             `json:"rows"`
	K       int             `json:"k"`
	Inertia float64         `json:"inertia"`
	Elbow   []ml.ElbowPoint `json:"elbow"`
	Scaler  *ml.Scaler      `json:"scaler"`
	// Silhouette is missing when the score is undefined for the fit.
	Silhouette *float64     `json:"silhouette,omitempty"`
	Summaries  []ml.Summary `json:"summaries"`
	// Centroids are in the original units.
	Centroids [][]float64 `json:"centroids"`
	Charts    []string    `json:"charts"`
	Workbook  string      `json:"workbook,omitempty"`

	Table *table.Table `json:"-"`
	Model *ml.Model    `json:"-"`
}

// Cluster loads the indicator table, clusters it on the configured features
// and renders the cluster charts.
func Cluster(cfg config.Cluster, env Env) (*ClusterResult, error) {
	t, err := env.load(cfg.Input)
	if err != nil {
		return nil, err
	}

	x, scaler, err := ml.Preprocess(t, cfg.Features...)
	if err != nil {
		return nil, env.fail(PreprocessStage, err)
	}

	km := ml.KMeans{
		K:             cfg.Clusters,
		Seed:          cfg.Seed,
		Inits:         cfg.Inits,
		MaxIterations: cfg.MaxIterations,
		Tolerance:     cfg.Tolerance,
	}
	elbow, err := ml.Elbow(x, cfg.Elbow.MaxK, km)
	if err != nil {
		return nil, env.fail(ClusterStage, err)
	}
	for _, p := range elbow {
		env.Metrics.Inertia(p.K, p.Inertia)
	}
	report.Elbow(env.Out, elbow)

	// the elbow already fitted this k with a warm start on top of the same inits
	model, ok := ml.ModelFor(elbow, cfg.Clusters)
	if !ok {
		if model, err = km.Fit(x); err != nil {
			return nil, env.fail(ClusterStage, err)
		}
		env.Metrics.Inertia(model.K(), model.Inertia)
	}

	result := &ClusterResult{
		RunID:   env.RunID,
		Title:   cfg.Title,
		Rows:    t.Len(),
		K:       model.K(),
		Inertia: model.Inertia,
		Elbow:   elbow,
		Scaler:  scaler,
		Model:   model,
	}

	if score, err := ml.Silhouette(x, model.Labels); err != nil {
		log.Warn().Err(err).Int("k", model.K()).Msg("silhouette score not available")
	} else {
		result.Silhouette = &score
	}

	labels := make([]string, len(model.Labels))
	for i, l := range model.Labels {
		labels[i] = strconv.Itoa(l)
	}
	result.Table, err = t.WithColumn(ClusterColumn, labels)
	if err != nil {
		return nil, env.fail(ClusterStage, fmt.Errorf("could not attach clusters: %s: %w", err.Error(), ml.ClusterErr))
	}

	// features were validated as numeric by the preprocessing
	xs, _ := t.Floats(cfg.Features[0])
	ys, _ := t.Floats(cfg.Features[1])
	result.Summaries = ml.Summarize(model.K(), model.Labels, xs, ys)
	result.Centroids = make([][]float64, model.K())
	for c := range result.Centroids {
		result.Centroids[c] = scaler.Inverse(model.Centroid(c))
	}

	log.Info().
		Int("k", result.K).
		Float64("inertia", result.Inertia).
		Ints("sizes", model.Sizes()).
		Msg("clustered")

	result.Charts = env.clusterCharts(cfg, result, xs, ys)
	report.Clusters(env.Out, result.Summaries, cfg.Features[0], cfg.Features[1])

	if cfg.Output.Workbook {
		result.Workbook = filepath.Join(env.dir(cfg.Output), "clusters.xlsx")
		env.export(clusterWorkbook(result, cfg.Features, result.Workbook))
	}
	env.store("cluster", result)
	return result, nil
}

func (e Env) clusterCharts(cfg config.Cluster, result *ClusterResult, xs, ys []float64) []string {
	r, err := chart.NewRenderer(e.dir(cfg.Output))
	if err != nil {
		e.noCharts(err)
		return nil
	}
	palette := chart.NewPalette(result.K)
	groups := make([]chart.Group, result.K)
	for c := range groups {
		groups[c] = chart.Group{
			Summary:  result.Summaries[c],
			Points:   make(plotter.XYs, 0, result.Summaries[c].Size),
			Centroid: plotter.XY{X: result.Centroids[c][0], Y: result.Centroids[c][1]},
		}
	}
	for i, l := range result.Model.Labels {
		groups[l].Points = append(groups[l].Points, plotter.XY{X: xs[i], Y: ys[i]})
	}
	bounds := chart.Bounds{
		XMin: cfg.Bounds.YearMin,
		XMax: cfg.Bounds.YearMax,
		YMin: cfg.Bounds.ValueMin,
		YMax: cfg.Bounds.ValueMax,
	}
	labels := chart.Labels{
		Title: fmt.Sprintf("%s (k=%d)", cfg.Title, result.K),
		X:     cfg.Features[0],
		Y:     cfg.Features[1],
	}

	charts := make([]string, 0, 4)
	draws := []struct {
		name string
		draw func() (string, error)
	}{
		{"elbow", func() (string, error) {
			return r.Elbow(result.Elbow, chart.Labels{Title: cfg.Title + " elbow", X: "k", Y: "Inertia"})
		}},
		{"clusters", func() (string, error) {
			return r.Scatter(groups, palette, bounds, labels)
		}},
		{"clusters-detail", func() (string, error) {
			return r.Detail(groups, palette, bounds, labels)
		}},
		{"cluster-means", func() (string, error) {
			return r.Bars(groups, palette, labels)
		}},
	}
	for _, d := range draws {
		if file, ok := e.render(d.name, d.draw); ok {
			charts = append(charts, file)
		}
	}
	return charts
}

func clusterWorkbook(result *ClusterResult, features []string, file string) error {
	wb := report.NewWorkbook()
	defer wb.Close()
	if err := wb.Table(report.ClustersSheet, result.Table); err != nil {
		return err
	}
	if err := wb.Summaries(result.Summaries, features[0], features[1]); err != nil {
		return err
	}
	if err := wb.Elbow(result.Elbow); err != nil {
		return err
	}
	return wb.Save(file)
}

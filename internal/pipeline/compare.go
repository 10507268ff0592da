package pipeline

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/drakos74/edu-indicators/infra/config"
	"github.com/drakos74/edu-indicators/internal/chart"
	xmath "github.com/drakos74/edu-indicators/internal/math"
	"github.com/drakos74/edu-indicators/internal/report"
	"github.com/drakos74/edu-indicators/internal/table"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot/plotter"
)

const preview = 10

// Yearly is the value of each series for every merged year.
type Yearly struct {
	Years      []int     `json:"years"`
	Internet   []float64 `json:"internet"`
	Computer   []float64 `json:"computer"`
	Investment []float64 `json:"investment"`
}

// CompareResult is the outcome of the comparison run.
type CompareResult struct {
	RunID    string `json:"run_id"`
	Title    string `json:"title"`
	Country  string `json:"country,omitempty"`
	Rows     int    `json:"rows"`
	Dropped  int    `json:"dropped"`
	Series   Yearly `json:"series"`
	Chart    string `json:"chart,omitempty"`
	Workbook string `json:"workbook,omitempty"`

	Merged *table.Table `json:"-"`
}

// Compare joins internet and computer access with the education investment
// and draws them against the year.
func Compare(cfg config.Compare, env Env) (*CompareResult, error) {
	internet, err := env.load(cfg.Internet)
	if err != nil {
		return nil, err
	}
	computer, err := env.load(cfg.Computer)
	if err != nil {
		return nil, err
	}
	wide, err := env.load(config.Input{Path: cfg.Investment.Path, Sheet: cfg.Investment.Sheet, Name: cfg.Investment.Name})
	if err != nil {
		return nil, err
	}

	investment, dropped, err := table.Reshape(wide, table.ReshapeOptions{
		Key:   cfg.Investment.Key,
		As:    cfg.Investment.Rename,
		Value: cfg.Investment.Value,
		Warn:  cfg.Reshape.Warn,
	})
	if err != nil {
		return nil, env.fail(ReshapeStage, err)
	}
	env.Metrics.Dropped(cfg.Investment.Name, len(dropped))
	log.Info().
		Int("rows", investment.Len()).
		Int("dropped", len(dropped)).
		Msg("reshaped investment")

	key := cfg.Investment.Rename
	if key == "" {
		key = cfg.Investment.Key
	}
	merged, err := table.Merge([]string{key, table.YearColumn},
		table.Input{Table: internet, Suffix: cfg.Suffixes.Internet},
		table.Input{Table: computer, Suffix: cfg.Suffixes.Computer},
		table.Input{Table: investment},
	)
	if err != nil {
		return nil, env.fail(MergeStage, err)
	}
	log.Info().Int("rows", merged.Len()).Msg("merged")
	report.Table(env.Out, merged, preview)
	if merged.Len() == 0 {
		return nil, env.fail(MergeStage, fmt.Errorf("no common %s and %s: %w", key, table.YearColumn, NoRowsErr))
	}

	if cfg.Country != "" {
		j, _ := merged.Index(key)
		merged = merged.Filter(func(row []string) bool {
			return row[j] == cfg.Country
		})
		if merged.Len() == 0 {
			return nil, env.fail(MergeStage, fmt.Errorf("no rows for %s '%s': %w", key, cfg.Country, NoRowsErr))
		}
	}

	series, err := yearly(merged,
		column(merged, cfg.Column, cfg.Suffixes.Internet),
		column(merged, cfg.Column, cfg.Suffixes.Computer),
		cfg.Investment.Value)
	if err != nil {
		return nil, env.fail(MergeStage, err)
	}

	result := &CompareResult{
		RunID:   env.RunID,
		Title:   cfg.Title,
		Country: cfg.Country,
		Rows:    merged.Len(),
		Dropped: len(dropped),
		Series:  series,
		Merged:  merged,
	}

	result.Chart = env.compareChart(cfg, series)

	if cfg.Output.Workbook {
		result.Workbook = filepath.Join(env.dir(cfg.Output), "compare.xlsx")
		env.export(compareWorkbook(merged, result.Workbook))
	}
	env.store("compare", result)
	return result, nil
}

// column is the suffixed name of a colliding column.
func column(t *table.Table, base, suffix string) string {
	if t.Has(base + suffix) {
		return base + suffix
	}
	return base
}

// yearly averages the columns per year, over countries if there are more than one.
func yearly(t *table.Table, internet, computer, investment string) (Yearly, error) {
	years, err := t.Ints(table.YearColumn)
	if err != nil {
		return Yearly{}, err
	}
	columns := []string{internet, computer, investment}
	values := make([][]float64, len(columns))
	for i, c := range columns {
		if values[i], err = t.Floats(c); err != nil {
			return Yearly{}, err
		}
	}

	stats := make(map[int][]*xmath.Stats)
	for i, y := range years {
		if _, ok := stats[y]; !ok {
			stats[y] = []*xmath.Stats{xmath.NewStats(), xmath.NewStats(), xmath.NewStats()}
		}
		for c := range columns {
			stats[y][c].Push(values[c][i])
		}
	}

	var s Yearly
	for y := range stats {
		s.Years = append(s.Years, y)
	}
	slices.Sort(s.Years)
	for _, y := range s.Years {
		s.Internet = append(s.Internet, stats[y][0].Avg())
		s.Computer = append(s.Computer, stats[y][1].Avg())
		s.Investment = append(s.Investment, stats[y][2].Avg())
	}
	return s, nil
}

func xys(years []int, values []float64) plotter.XYs {
	xy := make(plotter.XYs, len(years))
	for i, y := range years {
		xy[i] = plotter.XY{X: float64(y), Y: values[i]}
	}
	return xy
}

func (e Env) compareChart(cfg config.Compare, s Yearly) string {
	r, err := chart.NewRenderer(e.dir(cfg.Output))
	if err != nil {
		e.noCharts(err)
		return ""
	}
	scope := "mean over countries"
	if cfg.Country != "" {
		scope = cfg.Country
	}
	d := chart.Dual{
		Labels: chart.Labels{
			Title: fmt.Sprintf("%s (%s)", cfg.Title, scope),
			X:     table.YearColumn,
			Y:     "Access (%)",
		},
		Right: cfg.Investment.Value,
		Left: []chart.Series{
			{Name: cfg.Internet.Name, XYs: xys(s.Years, s.Internet)},
			{Name: cfg.Computer.Name, XYs: xys(s.Years, s.Computer)},
		},
		LeftMin: cfg.Bounds.ValueMin,
		LeftMax: cfg.Bounds.ValueMax,
		Other:   chart.Series{Name: cfg.Investment.Name, XYs: xys(s.Years, s.Investment)},
	}
	file, _ := e.render("comparison", func() (string, error) {
		return r.DualAxis(d, chart.NewPalette(3))
	})
	return file
}

func compareWorkbook(merged *table.Table, file string) error {
	wb := report.NewWorkbook()
	defer wb.Close()
	if err := wb.Table(report.MergedSheet, merged); err != nil {
		return err
	}
	return wb.Save(file)
}

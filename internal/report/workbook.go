package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/drakos74/edu-indicators/internal/math/ml"
	"github.com/drakos74/edu-indicators/internal/table"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

const (
	ClustersSheet = "clusters"
	SummarySheet  = "summary"
	ElbowSheet    = "elbow"
	MergedSheet   = "merged"

	defaultSheet = "Sheet1"
)

var ExportErr = errors.New("could not export")

// Workbook collects the run results into spreadsheet sheets.
type Workbook struct {
	file   *excelize.File
	sheets []string
}

func NewWorkbook() *Workbook {
	return &Workbook{file: excelize.NewFile()}
}

// Sheets returns the sheet names in the order they were added.
func (wb *Workbook) Sheets() []string {
	return append([]string{}, wb.sheets...)
}

// Table writes the table into its own sheet, numeric columns as numbers.
func (wb *Workbook) Table(sheet string, t *table.Table) error {
	columns := t.Columns()
	kinds := make([]table.Kind, len(columns))
	for j, c := range columns {
		// columns come from the table itself
		kinds[j], _ = t.Kind(c)
	}
	rows := make([][]interface{}, t.Len())
	for i := range rows {
		row := t.Row(i)
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
			if kinds[j] == table.Text {
				continue
			}
			if f, ok := table.ParseNumber(cell); ok {
				cells[j] = f
			}
		}
		rows[i] = cells
	}
	return wb.write(sheet, columns, rows)
}

// Summaries writes the per cluster summary.
func (wb *Workbook) Summaries(summaries []ml.Summary, x, y string) error {
	header := []string{"Cluster", "Size",
		x + " min", x + " max", x + " mean",
		y + " min", y + " max", y + " mean"}
	rows := make([][]interface{}, len(summaries))
	for i, s := range summaries {
		rows[i] = []interface{}{s.Cluster, s.Size, s.XMin, s.XMax, s.XMean, s.YMin, s.YMax, s.YMean}
	}
	return wb.write(SummarySheet, header, rows)
}

// Elbow writes the inertia per cluster count.
func (wb *Workbook) Elbow(points []ml.ElbowPoint) error {
	rows := make([][]interface{}, len(points))
	for i, p := range points {
		rows[i] = []interface{}{p.K, p.Inertia}
	}
	return wb.write(ElbowSheet, []string{"k", "Inertia"}, rows)
}

func (wb *Workbook) write(sheet string, header []string, rows [][]interface{}) error {
	if slices.Contains(wb.sheets, sheet) {
		return fmt.Errorf("sheet '%s' already exists: %w", sheet, ExportErr)
	}
	if len(wb.sheets) == 0 {
		if err := wb.file.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("could not name sheet '%s': %s: %w", sheet, err.Error(), ExportErr)
		}
	} else if _, err := wb.file.NewSheet(sheet); err != nil {
		return fmt.Errorf("could not add sheet '%s': %s: %w", sheet, err.Error(), ExportErr)
	}
	wb.sheets = append(wb.sheets, sheet)

	h := make([]interface{}, len(header))
	for i, c := range header {
		h[i] = c
	}
	if err := wb.file.SetSheetRow(sheet, "A1", &h); err != nil {
		return fmt.Errorf("could not write header of '%s': %s: %w", sheet, err.Error(), ExportErr)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("could not address row %d of '%s': %s: %w", i+2, sheet, err.Error(), ExportErr)
		}
		row := row
		if err := wb.file.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("could not write row %d of '%s': %s: %w", i+2, sheet, err.Error(), ExportErr)
		}
	}
	return nil
}

// Save writes the workbook to the given file.
func (wb *Workbook) Save(file string) error {
	if len(wb.sheets) == 0 {
		return fmt.Errorf("no sheets for '%s': %w", file, ExportErr)
	}
	if err := os.MkdirAll(filepath.Dir(file), os.ModePerm); err != nil {
		return fmt.Errorf("could not make dir for '%s': %s: %w", file, err.Error(), ExportErr)
	}
	if err := wb.file.SaveAs(file); err != nil {
		return fmt.Errorf("could not save '%s': %s: %w", file, err.Error(), ExportErr)
	}
	log.Info().Str("file", file).Strs("sheets", wb.sheets).Msg("exported workbook")
	return nil
}

func (wb *Workbook) Close() error {
	return wb.file.Close()
}

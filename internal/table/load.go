package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// LoadOptions configures how a file is read.
type LoadOptions struct {
	// Sheet is the worksheet to read for spreadsheet files, the first one if empty.
	Sheet string
	// Comma is the csv field delimiter, ',' if zero.
	Comma rune
}

// Load reads the tabular file at the given path.
// Spreadsheets (.xlsx) are read with excelize, everything else as csv with a header row.
func Load(path string, opts LoadOptions) (*Table, error) {
	var header []string
	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		header, rows, err = readSheet(path, opts.Sheet)
	default:
		header, rows, err = readCSV(path, opts.Comma)
	}
	if err != nil {
		log.Error().
			Err(err).
			Str("file", path).
			Msg("could not load table")
		return nil, err
	}
	t, err := New(path, header, rows)
	if err != nil {
		return nil, fmt.Errorf("could not parse '%s': %s: %w", path, err.Error(), LoadErr)
	}
	log.Info().
		Str("file", path).
		Int("rows", t.Len()).
		Strs("columns", t.Columns()).
		Msg("loaded table")
	return t, nil
}

func readCSV(path string, comma rune) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open '%s': %s: %w", path, err.Error(), LoadErr)
	}
	defer f.Close()
	return parseCSV(f, path, comma)
}

func parseCSV(r io.Reader, name string, comma rune) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	if comma != 0 {
		reader.Comma = comma
	}
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("'%s' has no header: %w", name, LoadErr)
		}
		return nil, nil, fmt.Errorf("could not read header of '%s': %s: %w", name, err.Error(), LoadErr)
	}
	// excel exports often carry a byte order mark
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	// every record must have the header width
	reader.FieldsPerRecord = len(header)
	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("malformed '%s': %s: %w", name, err.Error(), LoadErr)
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

func readSheet(path string, sheet string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open '%s': %s: %w", path, err.Error(), LoadErr)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, fmt.Errorf("'%s' has no sheets: %w", path, LoadErr)
		}
		sheet = sheets[0]
	}
	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("could not read sheet '%s' of '%s': %s: %w", sheet, path, err.Error(), LoadErr)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("sheet '%s' of '%s' has no header: %w", sheet, path, LoadErr)
	}
	header := all[0]
	rows := make([][]string, 0, len(all)-1)
	for i, row := range all[1:] {
		if len(row) > len(header) {
			return nil, nil, fmt.Errorf("row %d of '%s' has %d cells instead of %d: %w", i+2, path, len(row), len(header), LoadErr)
		}
		// trailing empty cells are not returned by excelize
		for len(row) < len(header) {
			row = append(row, "")
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

package table

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
)

const YearColumn = "Year"

// ReshapeOptions configures the wide to long transformation.
type ReshapeOptions struct {
	// Key is the entity column of the wide table e.g. 'CountryCode'.
	Key string
	// As renames the key column in the output, Key is kept if empty.
	As string
	// Value is the name of the value column, 'Value' if empty.
	Value string
	// Warn logs every dropped cell instead of only the total.
	Warn bool
}

// Cell references a wide table value that could not be converted.
type Cell struct {
	Key   string
	Year  int
	Value string
}

// Dropped holds the cells that were filtered out during reshaping.
type Dropped []Cell

// Reshape converts a wide table with one column per year into a long table of
// (key, Year, value) rows. Cells that are not finite numbers are dropped.
func Reshape(t *Table, opts ReshapeOptions) (*Table, Dropped, error) {
	k, err := t.col(opts.Key)
	if err != nil {
		return nil, nil, fmt.Errorf("missing key column: %s: %w", err.Error(), ReshapeErr)
	}
	key := opts.Key
	if opts.As != "" {
		key = opts.As
	}
	value := opts.Value
	if value == "" {
		value = "Value"
	}

	type yearColumn struct {
		index int
		year  int
	}
	years := make([]yearColumn, 0, len(t.header))
	for j, h := range t.header {
		if j == k {
			continue
		}
		y, err := strconv.Atoi(h)
		if err != nil {
			log.Debug().
				Str("table", t.name).
				Str("column", h).
				Msg("ignoring non-year column")
			continue
		}
		years = append(years, yearColumn{index: j, year: y})
	}
	if len(years) == 0 {
		return nil, nil, fmt.Errorf("no year columns in '%s': %w", t.name, ReshapeErr)
	}

	rows := make([][]string, 0, len(t.rows)*len(years))
	var dropped Dropped
	for _, row := range t.rows {
		for _, y := range years {
			cell := row[y.index]
			f, ok := ParseNumber(cell)
			if !ok {
				dropped = append(dropped, Cell{Key: row[k], Year: y.year, Value: cell})
				if opts.Warn {
					log.Warn().
						Str("table", t.name).
						Str("key", row[k]).
						Int("year", y.year).
						Str("value", cell).
						Msg("dropping non-numeric cell")
				}
				continue
			}
			rows = append(rows, []string{row[k], strconv.Itoa(y.year), strconv.FormatFloat(f, 'f', -1, 64)})
		}
	}

	long, err := New(t.name, []string{key, YearColumn, value}, rows)
	if err != nil {
		return nil, nil, fmt.Errorf("could not build long table: %s: %w", err.Error(), ReshapeErr)
	}
	log.Debug().
		Str("table", t.name).
		Int("rows", long.Len()).
		Int("years", len(years)).
		Int("dropped", len(dropped)).
		Msg("reshaped table")
	return long, dropped, nil
}

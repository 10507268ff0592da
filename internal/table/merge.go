package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Input is a table taking part in a merge.
type Input struct {
	Table *Table
	// Suffix is appended to the columns that collide with another input.
	Suffix string
}

// Merge inner-joins the inputs on the given keys.
// Only rows whose keys are present in all inputs survive.
// An empty result is not an error, the caller is expected to check the row count.
func Merge(keys []string, inputs ...Input) (*Table, error) {
	if len(inputs) < 2 {
		return nil, fmt.Errorf("need at least two tables, got %d: %w", len(inputs), MergeErr)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("no merge keys: %w", MergeErr)
	}

	keySet := make(map[string]bool, len(keys))
	for _, k := range keys {
		keySet[k] = true
	}

	// count in how many inputs each non-key column appears
	seen := make(map[string]int)
	for _, in := range inputs {
		for _, k := range keys {
			if !in.Table.Has(k) {
				return nil, fmt.Errorf("table '%s' has no key column '%s': %w", in.Table.name, k, MergeErr)
			}
		}
		for _, c := range in.Table.header {
			if !keySet[c] {
				seen[c]++
			}
		}
	}

	header := append([]string{}, keys...)
	columns := make([][]int, len(inputs))
	for i, in := range inputs {
		for j, c := range in.Table.header {
			if keySet[c] {
				continue
			}
			name := c
			if seen[c] > 1 {
				if in.Suffix == "" {
					return nil, fmt.Errorf("column '%s' of '%s' collides without a suffix: %w", c, in.Table.name, MergeErr)
				}
				name = c + in.Suffix
			}
			header = append(header, name)
			columns[i] = append(columns[i], j)
		}
	}

	// index all but the first input by key
	lookups := make([]map[string][]string, len(inputs))
	for i := 1; i < len(inputs); i++ {
		lookups[i] = lookup(inputs[i].Table, keys)
	}

	first := inputs[0].Table
	firstKeys := make(map[string]bool, first.Len())
	rows := make([][]string, 0)
	for _, row := range first.rows {
		key := rowKey(first, row, keys)
		if firstKeys[key] {
			log.Warn().
				Str("table", first.name).
				Str("key", key).
				Msg("ignoring duplicate key")
			continue
		}
		firstKeys[key] = true
		matches := make([][]string, len(inputs))
		matches[0] = row
		found := true
		for i := 1; i < len(inputs); i++ {
			m, ok := lookups[i][key]
			if !ok {
				found = false
				break
			}
			matches[i] = m
		}
		if !found {
			continue
		}
		out := make([]string, 0, len(header))
		for _, k := range keys {
			out = append(out, row[first.index[k]])
		}
		for i, m := range matches {
			for _, j := range columns[i] {
				out = append(out, m[j])
			}
		}
		rows = append(rows, out)
	}

	merged, err := New("merged", header, rows)
	if err != nil {
		return nil, fmt.Errorf("could not build merged table: %s: %w", err.Error(), MergeErr)
	}
	log.Info().
		Strs("keys", keys).
		Int("tables", len(inputs)).
		Int("rows", merged.Len()).
		Msg("merged tables")
	return merged, nil
}

func lookup(t *Table, keys []string) map[string][]string {
	l := make(map[string][]string, t.Len())
	for _, row := range t.rows {
		key := rowKey(t, row, keys)
		if _, ok := l[key]; ok {
			log.Warn().
				Str("table", t.name).
				Str("key", key).
				Msg("ignoring duplicate key")
			continue
		}
		l[key] = row
	}
	return l
}

func rowKey(t *Table, row []string, keys []string) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = canonical(row[t.index[k]])
	}
	return strings.Join(parts, "\x1f")
}

// canonical makes numeric keys comparable e.g. '2015' and '2015.0'.
func canonical(cell string) string {
	if f, ok := ParseNumber(cell); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return cell
}

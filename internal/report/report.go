package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/drakos74/edu-indicators/internal/math"
	"github.com/drakos74/edu-indicators/internal/math/ml"
	"github.com/drakos74/edu-indicators/internal/table"
	"github.com/olekukonko/tablewriter"
)

// Clusters prints the range and mean of the two features for each cluster.
func Clusters(w io.Writer, summaries []ml.Summary, x, y string) {
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"Cluster", "Size",
		x + " min", x + " max",
		y + " min", y + " max", y + " mean"})
	for _, s := range summaries {
		t.Append([]string{
			strconv.Itoa(s.Cluster),
			strconv.Itoa(s.Size),
			fmt.Sprintf("%.0f", s.XMin),
			fmt.Sprintf("%.0f", s.XMax),
			math.Format(s.YMin),
			math.Format(s.YMax),
			math.Format(s.YMean),
		})
	}
	t.Render()
}

// Elbow prints the inertia for each cluster count.
func Elbow(w io.Writer, points []ml.ElbowPoint) {
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"k", "Inertia"})
	for _, p := range points {
		t.Append([]string{strconv.Itoa(p.K), strconv.FormatFloat(p.Inertia, 'f', 4, 64)})
	}
	t.Render()
}

// Table prints the first rows of the table, all of them if limit is not positive.
func Table(w io.Writer, tb *table.Table, limit int) {
	t := tablewriter.NewWriter(w)
	t.SetHeader(tb.Columns())
	n := tb.Len()
	if limit > 0 && limit < n {
		n = limit
	}
	for i := 0; i < n; i++ {
		t.Append(tb.Row(i))
	}
	if n < tb.Len() {
		t.SetFooter(footer(len(tb.Columns()), fmt.Sprintf("%d of %d rows", n, tb.Len())))
	}
	t.Render()
}

func footer(width int, text string) []string {
	f := make([]string, width)
	f[width-1] = text
	return f
}

// Package report formats extracted benchmark statistics into LaTeX
// rows, markdown tables, and JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/weiihann/uctbench/stats"
)

// Row is one formatted summary line, derived from one log file.
type Row struct {
	Label          string  `json:"label"`
	Tag            string  `json:"tag"`
	File           string  `json:"file"`
	IterationMax   int64   `json:"iteration_max"`
	CPUPercent     float64 `json:"cpu_percent"`
	NormalizedTime float64 `json:"normalized_time"`
	MeanDepth      float64 `json:"mean_depth"`

	Depth *stats.DepthSummary `json:"depth_summary,omitempty"`
}

// BuildRows converts complete records into rows carrying the
// caller-supplied label and run-time tag. Incomplete records are
// dropped here, which is the guard that decides row emission.
func BuildRows(label, tag string, records []*stats.Record) []Row {
	rows := make([]Row, 0, len(records))

	for _, rec := range records {
		if !rec.Complete() {
			continue
		}

		row := Row{
			Label:          label,
			Tag:            tag,
			File:           rec.File,
			IterationMax:   rec.IterationMax,
			CPUPercent:     rec.CPUPercent,
			NormalizedTime: rec.NormalizedTime(),
			MeanDepth:      rec.MeanDepth,
		}

		if summary, err := stats.Summarize(rec.Depths); err == nil {
			row.Depth = &summary
		}

		rows = append(rows, row)
	}

	return rows
}

// WriteLaTeX writes one tabular row per entry:
//
//	label & tag & iterations & cpu\% & time & depth \\ \hline
func WriteLaTeX(w io.Writer, rows []Row) error {
	for _, r := range rows {
		_, err := fmt.Fprintf(w, "%s & %s & %d & %s\\%% & %.3f & %s \\\\ \\hline\n",
			r.Label,
			r.Tag,
			r.IterationMax,
			formatNum(r.CPUPercent),
			r.NormalizedTime,
			formatNum(r.MeanDepth),
		)
		if err != nil {
			return fmt.Errorf("write latex row: %w", err)
		}
	}

	return nil
}

// WriteMarkdown writes a comparison table of all rows.
func WriteMarkdown(w io.Writer, rows []Row) error {
	fmt.Fprintln(w, "| Label | Tag | Iterations | CPU | Time (s) | Mean Depth |")
	fmt.Fprintln(w, "|-------|-----|------------|-----|----------|------------|")

	for _, r := range rows {
		_, err := fmt.Fprintf(w, "| %s | %s | %d | %s%% | %.3f | %s |\n",
			r.Label,
			r.Tag,
			r.IterationMax,
			formatNum(r.CPUPercent),
			r.NormalizedTime,
			formatNum(r.MeanDepth),
		)
		if err != nil {
			return fmt.Errorf("write markdown row: %w", err)
		}
	}

	return nil
}

// WriteJSON writes rows as indented JSON.
func WriteJSON(w io.Writer, rows []Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(rows)
}

// formatNum renders a float without trailing zeros, so "80" stays
// "80" and "186.5" stays "186.5".
func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

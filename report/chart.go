package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// WriteChart renders an HTML line chart of normalized time and mean
// depth against the iteration budget.
func WriteChart(w io.Writer, title string, rows []Row) error {
	if len(rows) == 0 {
		return fmt.Errorf("no rows to chart")
	}

	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].IterationMax < sorted[j].IterationMax
	})

	xAxis := make([]string, 0, len(sorted))
	times := make([]opts.LineData, 0, len(sorted))
	depths := make([]opts.LineData, 0, len(sorted))

	for _, r := range sorted {
		xAxis = append(xAxis, strconv.FormatInt(r.IterationMax, 10))
		times = append(times, opts.LineData{Value: r.NormalizedTime})
		depths = append(depths, opts.LineData{Value: r.MeanDepth})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: "normalized time and mean search depth per iteration budget",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "iterations"}),
	)

	line.SetXAxis(xAxis).
		AddSeries("normalized time (s)", times).
		AddSeries("mean depth", depths)

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	return nil
}

// Package report renders session analysis output as charts and plots.
package report

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/strideworks/form.report/internal/engine"
)

// SessionChartHTML renders a self-contained HTML page for one session: the
// primary-angle signal over the whole stream and the per-rep characteristic
// value with its depth rating.
func SessionChartHTML(rep engine.SessionReport, seg engine.Segmentation, trace []engine.TracePoint) ([]byte, error) {
	line := traceChart(rep, seg, trace)
	bar := repChart(rep, seg)

	page := components.NewPage()
	page.SetPageTitle(fmt.Sprintf("%s session", rep.Exercise))
	page.AddCharts(line, bar)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, fmt.Errorf("failed to render session chart: %w", err)
	}
	return buf.Bytes(), nil
}

// traceChart plots the primary angle per frame. Undefined frames are gaps,
// not zeros.
func traceChart(rep engine.SessionReport, seg engine.Segmentation, trace []engine.TracePoint) *charts.Line {
	frames := make([]string, 0, len(trace))
	values := make([]opts.LineData, 0, len(trace))
	for _, tp := range trace {
		frames = append(frames, fmt.Sprintf("%d", tp.Frame))
		if tp.Value.Valid {
			values = append(values, opts.LineData{Value: tp.Value.Degrees})
		} else {
			values = append(values, opts.LineData{Value: "-"})
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "dark", Width: "1200px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s: %s angle", rep.Exercise, seg.PrimaryAngle),
			Subtitle: fmt.Sprintf("reps=%d classification=%s", rep.RepCount, rep.Classification),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 180, Name: "Degrees"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Frame"}),
	)
	line.SetXAxis(frames).
		AddSeries(seg.PrimaryAngle, values, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	line.SetSeriesOptions(charts.WithMarkLineNameYAxisItemOpts(
		opts.MarkLineNameYAxisItem{Name: "enter", YAxis: seg.EnterThreshold},
		opts.MarkLineNameYAxisItem{Name: "exit", YAxis: seg.ExitThreshold},
		opts.MarkLineNameYAxisItem{Name: "depth", YAxis: seg.DepthThreshold},
	))
	return line
}

// repChart plots each rep's primary characteristic value.
func repChart(rep engine.SessionReport, seg engine.Segmentation) *charts.Bar {
	x := make([]string, 0, len(rep.Reps))
	y := make([]opts.BarData, 0, len(rep.Reps))
	for _, r := range rep.Reps {
		x = append(x, fmt.Sprintf("rep %d", r.Rep))
		v := r.Characteristics[seg.PrimaryAngle]
		if v.Valid {
			y = append(y, opts.BarData{Value: v.Degrees, Name: r.DepthRating})
		} else {
			y = append(y, opts.BarData{Value: "-", Name: r.DepthRating})
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "dark", Width: "1200px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Per-rep %s", seg.PrimaryAngle)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Degrees"}),
	)
	bar.SetXAxis(x).
		AddSeries(seg.PrimaryAngle, y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	return bar
}

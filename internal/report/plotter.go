package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/strideworks/form.report/internal/engine"
)

// SaveTracePlot writes a PNG of the primary-angle signal with the hysteresis
// thresholds overlaid. Undefined frames are simply omitted from the line.
func SaveTracePlot(exercise string, seg engine.Segmentation, trace []engine.TracePoint, path string) error {
	pts := make(plotter.XYs, 0, len(trace))
	minFrame, maxFrame := 0, 0
	for i, tp := range trace {
		if i == 0 || tp.Frame < minFrame {
			minFrame = tp.Frame
		}
		if tp.Frame > maxFrame {
			maxFrame = tp.Frame
		}
		if tp.Value.Valid {
			pts = append(pts, plotter.XY{X: float64(tp.Frame), Y: tp.Value.Degrees})
		}
	}
	if len(pts) == 0 {
		return fmt.Errorf("no defined trace points to plot")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - %s angle", exercise, seg.PrimaryAngle)
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Degrees"

	traceLine, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	traceLine.Width = vg.Points(1)
	p.Add(traceLine)
	p.Legend.Add(seg.PrimaryAngle, traceLine)

	thresholds := []struct {
		label string
		value float64
		col   color.RGBA
	}{
		{"enter", seg.EnterThreshold, color.RGBA{R: 0xd6, G: 0x2c, B: 0x2c, A: 0xff}},
		{"exit", seg.ExitThreshold, color.RGBA{R: 0x2c, G: 0x7a, B: 0xd6, A: 0xff}},
		{"depth", seg.DepthThreshold, color.RGBA{R: 0x2c, G: 0xa0, B: 0x4a, A: 0xff}},
	}
	for _, th := range thresholds {
		line, err := plotter.NewLine(plotter.XYs{
			{X: float64(minFrame), Y: th.value},
			{X: float64(maxFrame), Y: th.value},
		})
		if err != nil {
			return err
		}
		line.Color = th.col
		line.Width = vg.Points(1)
		line.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(line)
		p.Legend.Add(th.label, line)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(12*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save trace plot: %w", err)
	}
	return nil
}

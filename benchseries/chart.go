// Copyright 2026 The benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchseries

import (
	"fmt"
	"image/color"
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const chartDPI = 150

// drawOrder lists the tools back to front: bpftop's series is the one
// of interest, so it draws on top.
var drawOrder = []string{ToolHtop, ToolBPFTop}

// ScalingChart renders the total-syscalls-vs-scale comparison as a
// line chart and writes it to path.
func ScalingChart(s *Scaling, path string) error {
	p := newPlot("Syscall Scaling: bpftop vs htop", "Process Count", "Syscalls per Benchmark Run")
	p.Legend.Top = true
	p.Y.Tick.Marker = kiloTicks{}

	for _, tool := range drawOrder {
		pts := make(plotter.XYs, len(s.Scales))
		for i, n := range s.Scales {
			pts[i].X = float64(n)
			pts[i].Y = float64(s.Totals[tool][i])
		}
		line, markers, err := plotter.NewLinePoints(pts)
		if err != nil {
			return err
		}
		styleSeries(tool, line, markers)
		p.Add(line, markers)
		p.Legend.Add(tool, line, markers)
	}
	return savePNG(p, 10*vg.Inch, 6*vg.Inch, path)
}

// TimingChart renders the refresh-time comparison as a line chart
// with a mean±stddev band per tool and writes it to path. A tool's
// line breaks at scale points where that tool has no sample.
func TimingChart(t *Timing, path string) error {
	p := newPlot("Refresh Time: bpftop vs htop (hyperfine)", "Process Count", "Time per Refresh (ms)")
	p.Legend.Top = true

	for _, tool := range drawOrder {
		first := true
		for _, seg := range segments(t, tool) {
			if len(seg.xs) > 1 {
				band, err := plotter.NewPolygon(bandXYs(seg))
				if err != nil {
					return err
				}
				band.Color = withAlpha(toolColor(tool), 0x33)
				band.LineStyle.Color = withAlpha(toolColor(tool), 0)
				p.Add(band)
			}
			pts := make(plotter.XYs, len(seg.xs))
			for i := range seg.xs {
				pts[i].X = seg.xs[i]
				pts[i].Y = seg.means[i]
			}
			line, markers, err := plotter.NewLinePoints(pts)
			if err != nil {
				return err
			}
			styleSeries(tool, line, markers)
			p.Add(line, markers)
			if first {
				p.Legend.Add(tool, line, markers)
				first = false
			}
		}
	}
	return savePNG(p, 10*vg.Inch, 6*vg.Inch, path)
}

// BreakdownChart renders the per-syscall comparison as grouped
// horizontal bars and writes it to path.
func BreakdownChart(b *Breakdown, path string) error {
	p := newPlot(fmt.Sprintf("Syscall Breakdown at N=%d", b.Scale), "Syscall Count", "")

	// Horizontal bars stack bottom to top, so reverse the ranking to
	// put the top syscall at the top of the chart.
	names := make([]string, len(b.Names))
	for i, name := range b.Names {
		names[len(b.Names)-1-i] = name
	}

	barWidth := vg.Points(9)
	offsets := map[string]vg.Length{
		ToolHtop:   barWidth / 2,
		ToolBPFTop: -barWidth / 2,
	}
	for _, tool := range drawOrder {
		vals := make([]float64, len(b.Names))
		for i := range b.Names {
			vals[len(b.Names)-1-i] = float64(b.Counts[tool][i])
		}
		bars := &hbars{values: vals, width: barWidth, offset: offsets[tool], color: toolColor(tool)}
		p.Add(bars)
		p.Legend.Add(tool, bars)
	}
	p.NominalY(names...)

	if useLogScale(b.Counts) {
		p.X.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{Prec: -1}
		p.X.Min = minNonzeroCount(b.Counts) / 2
	} else {
		p.X.Min = 0
	}
	return savePNG(p, 12*vg.Inch, 7*vg.Inch, path)
}

// useLogScale reports whether the spread between the largest and the
// smallest nonzero count exceeds two orders of magnitude. Past that
// point a linear axis flattens the small bars into invisibility.
func useLogScale(counts map[string][]int) bool {
	maxCount := 1
	minNonzero := 0
	for _, vals := range counts {
		for _, v := range vals {
			if v > maxCount {
				maxCount = v
			}
			if v > 0 && (minNonzero == 0 || v < minNonzero) {
				minNonzero = v
			}
		}
	}
	if minNonzero == 0 {
		minNonzero = 1
	}
	return maxCount > minNonzero*100
}

// minNonzeroCount returns the smallest nonzero count, or 1 when every
// count is zero.
func minNonzeroCount(counts map[string][]int) float64 {
	min := 0
	for _, vals := range counts {
		for _, v := range vals {
			if v > 0 && (min == 0 || v < min) {
				min = v
			}
		}
	}
	if min == 0 {
		min = 1
	}
	return float64(min)
}

// A segment is a run of consecutive scale points where a tool has
// samples. Splitting a tool's series into segments makes absent scale
// points render as breaks in the line instead of being bridged.
type segment struct {
	xs      []float64
	means   []float64
	stddevs []float64
}

func segments(t *Timing, tool string) []segment {
	var segs []segment
	var cur segment
	flush := func() {
		if len(cur.xs) > 0 {
			segs = append(segs, cur)
			cur = segment{}
		}
	}
	for i, n := range t.Scales {
		s := t.Samples[tool][i]
		if s == nil {
			flush()
			continue
		}
		cur.xs = append(cur.xs, float64(n))
		cur.means = append(cur.means, s.Mean)
		cur.stddevs = append(cur.stddevs, s.Stddev)
	}
	flush()
	return segs
}

// bandXYs traces the mean±stddev envelope of a segment: along the top
// edge left to right, then back along the bottom edge.
func bandXYs(seg segment) plotter.XYs {
	n := len(seg.xs)
	pts := make(plotter.XYs, 0, 2*n)
	for i := 0; i < n; i++ {
		pts = append(pts, plotter.XY{X: seg.xs[i], Y: seg.means[i] + seg.stddevs[i]})
	}
	for i := n - 1; i >= 0; i-- {
		pts = append(pts, plotter.XY{X: seg.xs[i], Y: seg.means[i] - seg.stddevs[i]})
	}
	return pts
}

// styleSeries applies a tool's color and marker shape to its line.
func styleSeries(tool string, line *plotter.Line, markers *plotter.Scatter) {
	c := toolColor(tool)
	line.LineStyle.Color = c
	line.LineStyle.Width = vg.Points(2)
	markers.GlyphStyle.Color = c
	markers.GlyphStyle.Radius = vg.Points(4)
	if tool == ToolBPFTop {
		markers.GlyphStyle.Shape = draw.BoxGlyph{}
	} else {
		markers.GlyphStyle.Shape = draw.CircleGlyph{}
	}
}

// hbars draws one tool's half of a grouped horizontal bar chart.
// plotter.BarChart anchors bars at zero, which a log-scaled value
// axis cannot transform, so this plotter draws each bar from the axis
// minimum instead. Rows where the tool recorded no calls get no bar.
type hbars struct {
	values []float64
	width  vg.Length
	offset vg.Length
	color  color.Color
}

func (h *hbars) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	base := trX(plt.X.Min)
	for i, v := range h.values {
		if v <= 0 {
			continue
		}
		x := trX(v)
		y := trY(float64(i)) + h.offset
		poly := []vg.Point{
			{X: base, Y: y - h.width/2},
			{X: base, Y: y + h.width/2},
			{X: x, Y: y + h.width/2},
			{X: x, Y: y - h.width/2},
		}
		c.FillPolygon(h.color, c.ClipPolygonX(poly))
	}
}

func (h *hbars) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = math.Inf(1), math.Inf(-1)
	for _, v := range h.values {
		if v <= 0 {
			continue
		}
		xmin = math.Min(xmin, v)
		xmax = math.Max(xmax, v)
	}
	if xmin > xmax {
		xmin, xmax = 1, 1
	}
	return xmin, xmax, -0.5, float64(len(h.values)) - 0.5
}

// Thumbnail draws the legend swatch.
func (h *hbars) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(h.color, pts)
}

// kiloTicks formats count axis labels, abbreviating thousands with a
// K suffix.
type kiloTicks struct{}

func (kiloTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i, t := range ticks {
		if t.Label == "" {
			continue
		}
		ticks[i].Label = formatCount(t.Value)
	}
	return ticks
}

// formatCount renders a count axis value, abbreviating thousands.
func formatCount(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("%.0fK", v/1000)
	}
	return fmt.Sprintf("%.0f", v)
}

// newPlot creates a plot styled with the gruvbox dark theme.
func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Color = gruvFG
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.BackgroundColor = gruvBG

	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.LineStyle.Color = gruvBG2
		ax.Label.TextStyle.Color = gruvFG
		ax.Tick.Label.Color = gruvFG4
		ax.Tick.LineStyle.Color = gruvBG2
	}
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Legend.TextStyle.Color = gruvFG

	grid := plotter.NewGrid()
	grid.Vertical.Color = gruvBG1
	grid.Horizontal.Color = gruvBG1
	p.Add(grid)
	return p
}

// savePNG renders p to a PNG file at path. The image is fully drawn
// in memory before anything is written.
func savePNG(p *plot.Plot, w, h vg.Length, path string) error {
	c := vgimg.NewWith(
		vgimg.UseWH(w, h),
		vgimg.UseDPI(chartDPI),
		vgimg.UseBackgroundColor(gruvBG),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	png := vgimg.PngCanvas{Canvas: c}
	if _, err := png.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

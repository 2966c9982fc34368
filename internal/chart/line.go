package chart

import (
	"strings"

	"github.com/dennisdiepolder/callboard/internal/types"
)

// LineBox is the logical coordinate box of the duration chart
type LineBox struct {
	Width   float64
	Height  float64
	Padding float64
}

// DefaultLineBox matches the 600x200 viewBox of the dashboard
var DefaultLineBox = LineBox{Width: 600, Height: 200, Padding: 40}

// Baseline is the y coordinate the area fill closes against
func (b LineBox) Baseline() float64 { return b.Height - b.Padding }

// Midline is where a flat series is drawn
func (b LineBox) Midline() float64 { return b.Height / 2 }

// LinePoint is a series sample placed in the box
type LinePoint struct {
	X     float64
	Y     float64
	Label string
	Value float64
}

// LineChart holds the computed geometry of the duration trend
type LineChart struct {
	Box      LineBox
	Points   []LinePoint
	LinePath string
	AreaPath string
	GridY    []float64
}

// Line places the series in the box and builds the stroke and fill paths.
//
// x is interpolated across [padding, width-padding] by i/(n-1) and y maps
// [min,max] of the series onto [height-padding, padding]. A flat series sits
// on the midline and a single point is centered horizontally.
func Line(data []types.CallDurationPoint, box LineBox) LineChart {
	chart := LineChart{Box: box, GridY: gridLines(box)}
	n := len(data)
	if n == 0 {
		return chart
	}

	minD, maxD := data[0].Duration, data[0].Duration
	for _, d := range data[1:] {
		if d.Duration < minD {
			minD = d.Duration
		}
		if d.Duration > maxD {
			maxD = d.Duration
		}
	}
	span := maxD - minD
	plotW := box.Width - box.Padding*2
	plotH := box.Height - box.Padding*2

	chart.Points = make([]LinePoint, n)
	for i, d := range data {
		x := box.Width / 2
		if n > 1 {
			x = float64(i)/float64(n-1)*plotW + box.Padding
		}
		y := box.Midline()
		if span > 0 {
			y = box.Height - (d.Duration-minD)/span*plotH - box.Padding
		}
		chart.Points[i] = LinePoint{X: x, Y: y, Label: d.Time, Value: d.Duration}
	}

	var sb strings.Builder
	for i, p := range chart.Points {
		if i == 0 {
			sb.WriteString("M ")
		} else {
			sb.WriteString(" L ")
		}
		sb.WriteString(num(p.X))
		sb.WriteByte(' ')
		sb.WriteString(num(p.Y))
	}
	chart.LinePath = sb.String()

	first, last := chart.Points[0], chart.Points[n-1]
	base := num(box.Baseline())
	chart.AreaPath = chart.LinePath +
		" L " + num(last.X) + " " + base +
		" L " + num(first.X) + " " + base + " Z"

	return chart
}

func gridLines(box LineBox) []float64 {
	lines := make([]float64, 5)
	for i := range lines {
		lines[i] = box.Padding + float64(i)*(box.Height-box.Padding*2)/4
	}
	return lines
}

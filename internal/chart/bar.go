package chart

import (
	"math"

	"github.com/dennisdiepolder/callboard/internal/types"
)

// BarMaxHeight is the pixel height of the tallest bar
const BarMaxHeight = 200.0

// Bar is one stacked day column: successful at the bottom, failed on top
type Bar struct {
	Day           string
	Calls         float64
	Successful    float64
	TotalHeight   float64
	SuccessHeight float64
	FailedHeight  float64

	// Layout inside VolumeChart's viewBox
	X     float64
	Width float64
}

// FailedTop is the y where the failed segment starts
func (b Bar) FailedTop(baseline float64) float64 { return baseline - b.TotalHeight }

// SuccessTop is the y where the successful segment starts
func (b Bar) SuccessTop(baseline float64) float64 { return baseline - b.SuccessHeight }

// LabelX is the horizontal center of the bar
func (b Bar) LabelX() float64 { return b.X + b.Width/2 }

// VolumeChart holds the bars and the viewBox they are laid out in
type VolumeChart struct {
	Width       float64
	Height      float64
	Baseline    float64
	Bars        []Bar
	SuccessRate float64 // percent of all calls that were successful
}

// Bars scales each day against the busiest day. Negative inputs are treated as
// zero, the successful segment never exceeds the bar and the failed segment is
// clamped at zero when successful > calls.
func Bars(days []types.CallVolumeDay, maxHeight float64) []Bar {
	maxCalls := 0.0
	for _, d := range days {
		maxCalls = math.Max(maxCalls, clampNonNegative(d.Calls))
	}

	bars := make([]Bar, len(days))
	for i, d := range days {
		calls := clampNonNegative(d.Calls)
		successful := clampNonNegative(d.Successful)
		bar := Bar{Day: d.Day, Calls: d.Calls, Successful: d.Successful}
		if maxCalls > 0 {
			bar.TotalHeight = calls / maxCalls * maxHeight
			bar.SuccessHeight = math.Min(successful/maxCalls*maxHeight, bar.TotalHeight)
			bar.FailedHeight = clampNonNegative(bar.TotalHeight - successful/maxCalls*maxHeight)
		}
		bars[i] = bar
	}
	return bars
}

// Volume lays the bars out in a 600x240 viewBox with 40px left for day labels
func Volume(days []types.CallVolumeDay) VolumeChart {
	chart := VolumeChart{
		Width:    600,
		Height:   BarMaxHeight + 40,
		Baseline: BarMaxHeight + 10,
		Bars:     Bars(days, BarMaxHeight),
	}

	if n := len(chart.Bars); n > 0 {
		slot := chart.Width / float64(n)
		for i := range chart.Bars {
			chart.Bars[i].Width = slot * 0.7
			chart.Bars[i].X = float64(i)*slot + slot*0.15
		}
	}

	var calls, successful float64
	for _, d := range days {
		calls += clampNonNegative(d.Calls)
		successful += math.Min(clampNonNegative(d.Successful), clampNonNegative(d.Calls))
	}
	if calls > 0 {
		chart.SuccessRate = successful / calls * 100
	}
	return chart
}

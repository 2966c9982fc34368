package chart

import (
	"fmt"
	"math"

	"github.com/dennisdiepolder/callboard/internal/types"
)

// DonutGeometry fixes the circle the slices are cut from
type DonutGeometry struct {
	CX          float64
	CY          float64
	Radius      float64
	InnerRadius float64
}

// DefaultDonut matches the 200x200 viewBox of the failure breakdown
var DefaultDonut = DonutGeometry{CX: 100, CY: 100, Radius: 80, InnerRadius: 50}

// Slice is one failure reason's share of the circle
type Slice struct {
	Name       string
	Color      string
	Value      int
	Percentage float64
	StartAngle float64 // degrees, clockwise from 12 o'clock
	EndAngle   float64
	LargeArc   bool
	Path       string // empty when the slice has no area
}

// PercentLabel formats the share the way the legend shows it
func (s Slice) PercentLabel() string {
	return fmt.Sprintf("%.1f", s.Percentage)
}

// DonutChart is the computed breakdown of a failure-reason set
type DonutChart struct {
	Geometry DonutGeometry
	Total    int
	Slices   []Slice
}

// Donut cuts the circle into one slice per reason, in input order.
//
// Angles are derived from cumulative values so the last slice ends at exactly
// 360 degrees. With a zero total every slice has zero percentage and no path.
func Donut(reasons []types.FailureReason, g DonutGeometry) DonutChart {
	chart := DonutChart{Geometry: g, Slices: make([]Slice, len(reasons))}
	for _, r := range reasons {
		if r.Value > 0 {
			chart.Total += r.Value
		}
	}

	cumulative := 0
	for i, r := range reasons {
		value := r.Value
		if value < 0 {
			value = 0
		}
		s := Slice{Name: r.Name, Color: r.Color, Value: r.Value}
		if chart.Total > 0 {
			total := float64(chart.Total)
			s.Percentage = float64(value) / total * 100
			s.StartAngle = float64(cumulative) / total * 360
			s.EndAngle = float64(cumulative+value) / total * 360
			s.LargeArc = s.Percentage > 50
			s.Path = slicePath(g, s)
		}
		cumulative += value
		chart.Slices[i] = s
	}
	return chart
}

func slicePath(g DonutGeometry, s Slice) string {
	sweep := s.EndAngle - s.StartAngle
	if sweep <= 0 {
		return ""
	}
	r := num(g.Radius)
	if sweep >= 360 {
		// A single arc cannot start and end on the same point.
		top := num(g.CY - g.Radius)
		bottom := num(g.CY + g.Radius)
		cx := num(g.CX)
		return "M " + cx + " " + top +
			" A " + r + " " + r + " 0 1 1 " + cx + " " + bottom +
			" A " + r + " " + r + " 0 1 1 " + cx + " " + top + " Z"
	}

	x1, y1 := polar(g, s.StartAngle)
	x2, y2 := polar(g, s.EndAngle)
	large := "0"
	if s.LargeArc {
		large = "1"
	}
	return "M " + num(g.CX) + " " + num(g.CY) +
		" L " + num(x1) + " " + num(y1) +
		" A " + r + " " + r + " 0 " + large + " 1 " + num(x2) + " " + num(y2) + " Z"
}

func polar(g DonutGeometry, angle float64) (float64, float64) {
	rad := (angle - 90) * math.Pi / 180
	return g.CX + g.Radius*math.Cos(rad), g.CY + g.Radius*math.Sin(rad)
}

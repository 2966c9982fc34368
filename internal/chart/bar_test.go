package chart

import (
	"testing"

	"github.com/dennisdiepolder/callboard/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarsScaleAgainstBusiestDay(t *testing.T) {
	bars := Bars([]types.CallVolumeDay{
		{Day: "Mon", Calls: 1000, Successful: 750},
		{Day: "Tue", Calls: 500, Successful: 500},
	}, BarMaxHeight)

	require.Len(t, bars, 2)
	assert.Equal(t, 200.0, bars[0].TotalHeight)
	assert.Equal(t, 150.0, bars[0].SuccessHeight)
	assert.Equal(t, 50.0, bars[0].FailedHeight)

	assert.Equal(t, 100.0, bars[1].TotalHeight)
	assert.Equal(t, 0.0, bars[1].FailedHeight, "successful == calls leaves no failed segment")
}

func TestBarsClampInvalidInput(t *testing.T) {
	tests := []struct {
		name        string
		day         types.CallVolumeDay
		wantTotal   float64
		wantSuccess float64
		wantFailed  float64
	}{
		{
			name:        "successful greater than calls",
			day:         types.CallVolumeDay{Day: "Mon", Calls: 100, Successful: 150},
			wantTotal:   200,
			wantSuccess: 200,
			wantFailed:  0,
		},
		{
			name:        "negative successful",
			day:         types.CallVolumeDay{Day: "Tue", Calls: 100, Successful: -5},
			wantTotal:   200,
			wantSuccess: 0,
			wantFailed:  200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bars := Bars([]types.CallVolumeDay{tt.day}, BarMaxHeight)
			require.Len(t, bars, 1)
			assert.Equal(t, tt.wantTotal, bars[0].TotalHeight)
			assert.Equal(t, tt.wantSuccess, bars[0].SuccessHeight)
			assert.Equal(t, tt.wantFailed, bars[0].FailedHeight)
		})
	}
}

func TestBarsWithoutCalls(t *testing.T) {
	bars := Bars([]types.CallVolumeDay{{Day: "Sun"}, {Day: "Mon", Calls: -3}}, BarMaxHeight)
	for _, b := range bars {
		assert.Zero(t, b.TotalHeight)
		assert.Zero(t, b.SuccessHeight)
		assert.Zero(t, b.FailedHeight)
	}
	assert.Empty(t, Bars(nil, BarMaxHeight))
}

func TestVolumeLayout(t *testing.T) {
	chart := Volume(types.DefaultCallVolume())

	require.Len(t, chart.Bars, 7)
	for i := 1; i < len(chart.Bars); i++ {
		assert.Greater(t, chart.Bars[i].X, chart.Bars[i-1].X)
	}
	last := chart.Bars[len(chart.Bars)-1]
	assert.LessOrEqual(t, last.X+last.Width, chart.Width)
	assert.InDelta(t, 87.37, chart.SuccessRate, 0.01)
}

package types

// Mock datasets shown until a user loads their own failure reasons.

// DefaultCallDuration returns the average call duration trend across the day
func DefaultCallDuration() []CallDurationPoint {
	return []CallDurationPoint{
		{Time: "00:00", Duration: 45},
		{Time: "04:00", Duration: 32},
		{Time: "08:00", Duration: 78},
		{Time: "12:00", Duration: 95},
		{Time: "16:00", Duration: 67},
		{Time: "20:00", Duration: 43},
	}
}

// DefaultCallVolume returns the weekly call volume
func DefaultCallVolume() []CallVolumeDay {
	return []CallVolumeDay{
		{Day: "Mon", Calls: 1200, Successful: 1050},
		{Day: "Tue", Calls: 1350, Successful: 1180},
		{Day: "Wed", Calls: 1100, Successful: 960},
		{Day: "Thu", Calls: 1450, Successful: 1265},
		{Day: "Fri", Calls: 1600, Successful: 1400},
		{Day: "Sat", Calls: 900, Successful: 785},
		{Day: "Sun", Calls: 750, Successful: 655},
	}
}

// DefaultFailureReasons returns the initial failure-reason set
func DefaultFailureReasons() []FailureReason {
	return []FailureReason{
		{Name: "User refused to confirm identity", Value: 35, Color: "#4fd1c7"},
		{Name: "Caller Identification", Value: 25, Color: "#8b5cf6"},
		{Name: "Incorrect caller identity", Value: 20, Color: "#06b6d4"},
		{Name: "Verbal Agreement", Value: 15, Color: "#10b981"},
		{Name: "Customer Hostility", Value: 12, Color: "#f59e0b"},
		{Name: "Assistant did not speak French", Value: 10, Color: "#ef4444"},
		{Name: "Unsupported Language", Value: 8, Color: "#84cc16"},
		{Name: "Assistant did not speak Spanish", Value: 5, Color: "#f97316"},
	}
}

// DefaultMetricCards returns the headline KPI tiles
func DefaultMetricCards() []MetricCard {
	return []MetricCard{
		{Title: "Total Calls", Value: "12,847", Trend: 12.5, TrendUp: true, Accent: "#2dd4bf"},
		{Title: "Success Rate", Value: "94.2%", Trend: 2.1, TrendUp: true, Accent: "#4ade80"},
		{Title: "Avg Duration", Value: "4m 32s", Trend: 0.8, TrendUp: false, Accent: "#c084fc"},
		{Title: "Failed Calls", Value: "158", Trend: 5.2, TrendUp: false, Accent: "#f87171"},
	}
}

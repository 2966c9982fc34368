package types

// FailureReason is a named category of call failure with its count and display color
type FailureReason struct {
	Name  string `json:"name" dynamodbav:"Name"`
	Value int    `json:"value" dynamodbav:"Value"`
	Color string `json:"color" dynamodbav:"Color"`
}

// CallDurationPoint is one sample of the average call duration trend
type CallDurationPoint struct {
	Time     string  `json:"time"`
	Duration float64 `json:"duration"` // seconds
}

// CallVolumeDay holds the call totals for a single day
type CallVolumeDay struct {
	Day        string  `json:"day"`
	Calls      float64 `json:"calls"`
	Successful float64 `json:"successful"`
}

// MetricCard is a headline KPI tile shown above the charts
type MetricCard struct {
	Title   string  `json:"title"`
	Value   string  `json:"value"`
	Trend   float64 `json:"trend"`   // percent
	TrendUp bool    `json:"trendUp"` // direction shown next to the trend
	Accent  string  `json:"accent"`  // css color token
}

// TotalFailures sums the values of a failure-reason set. Negative values count
// as zero, matching the donut.
func TotalFailures(reasons []FailureReason) int {
	total := 0
	for _, r := range reasons {
		if r.Value > 0 {
			total += r.Value
		}
	}
	return total
}

// CloneFailureReasons returns an independent copy of the set
func CloneFailureReasons(reasons []FailureReason) []FailureReason {
	if reasons == nil {
		return nil
	}
	out := make([]FailureReason, len(reasons))
	copy(out, reasons)
	return out
}

// AlertSeverity grades a data-quality alert
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// Alert is a data-quality note shown next to the charts
type Alert struct {
	Rule     string        `json:"rule"`
	Severity AlertSeverity `json:"severity"`
	Message  string        `json:"message"`
}

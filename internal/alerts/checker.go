package alerts

import (
	"fmt"

	"github.com/dennisdiepolder/callboard/internal/types"
)

// Rule names
const (
	RuleSuccessExceedsCalls = "success_exceeds_calls"
	RuleNegativeValue       = "negative_value"
	RuleDuplicateReason     = "duplicate_reason"
	RuleZeroFailures        = "zero_failures"
)

// Check evaluates the data-quality rules against a dataset. Charts still
// render for every case reported here; the alerts explain the clamping.
func Check(volume []types.CallVolumeDay, reasons []types.FailureReason) []types.Alert {
	var alerts []types.Alert

	for _, day := range volume {
		if day.Calls < 0 || day.Successful < 0 {
			alerts = append(alerts, types.Alert{
				Rule:     RuleNegativeValue,
				Severity: types.SeverityCritical,
				Message:  fmt.Sprintf("%s has a negative call count", day.Day),
			})
			continue
		}
		if day.Successful > day.Calls {
			alerts = append(alerts, types.Alert{
				Rule:     RuleSuccessExceedsCalls,
				Severity: types.SeverityWarning,
				Message:  fmt.Sprintf("%s reports %g successful of %g calls", day.Day, day.Successful, day.Calls),
			})
		}
	}

	seen := make(map[string]bool, len(reasons))
	for _, r := range reasons {
		if r.Value < 0 {
			alerts = append(alerts, types.Alert{
				Rule:     RuleNegativeValue,
				Severity: types.SeverityCritical,
				Message:  fmt.Sprintf("%s has a negative count", r.Name),
			})
		}
		if seen[r.Name] {
			alerts = append(alerts, types.Alert{
				Rule:     RuleDuplicateReason,
				Severity: types.SeverityWarning,
				Message:  fmt.Sprintf("%s appears more than once", r.Name),
			})
		}
		seen[r.Name] = true
	}

	if types.TotalFailures(reasons) <= 0 {
		alerts = append(alerts, types.Alert{
			Rule:     RuleZeroFailures,
			Severity: types.SeverityInfo,
			Message:  "No failures recorded",
		})
	}

	return alerts
}

// CountByRule tallies alerts per rule
func CountByRule(alerts []types.Alert) map[string]int {
	counts := make(map[string]int)
	for _, a := range alerts {
		counts[a.Rule]++
	}
	return counts
}

package alerts

import (
	"testing"

	"github.com/dennisdiepolder/callboard/internal/types"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name      string
		volume    []types.CallVolumeDay
		reasons   []types.FailureReason
		wantRules []string
	}{
		{
			name:    "defaults are clean",
			volume:  types.DefaultCallVolume(),
			reasons: types.DefaultFailureReasons(),
		},
		{
			name:      "successful above calls",
			volume:    []types.CallVolumeDay{{Day: "Mon", Calls: 10, Successful: 12}},
			reasons:   types.DefaultFailureReasons(),
			wantRules: []string{RuleSuccessExceedsCalls},
		},
		{
			name:      "negative volume",
			volume:    []types.CallVolumeDay{{Day: "Tue", Calls: -1, Successful: 0}},
			reasons:   types.DefaultFailureReasons(),
			wantRules: []string{RuleNegativeValue},
		},
		{
			name: "duplicate and negative reasons",
			reasons: []types.FailureReason{
				{Name: "Busy", Value: 3},
				{Name: "Busy", Value: -1},
			},
			wantRules: []string{RuleNegativeValue, RuleDuplicateReason},
		},
		{
			name:      "zero total",
			reasons:   []types.FailureReason{{Name: "Busy", Value: 0}},
			wantRules: []string{RuleZeroFailures},
		},
		{
			name:      "no reasons at all",
			wantRules: []string{RuleZeroFailures},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Check(tt.volume, tt.reasons)
			if len(got) != len(tt.wantRules) {
				t.Fatalf("expected %d alerts, got %d: %+v", len(tt.wantRules), len(got), got)
			}
			for i, rule := range tt.wantRules {
				if got[i].Rule != rule {
					t.Errorf("alert %d: expected rule %s, got %s", i, rule, got[i].Rule)
				}
			}
		})
	}
}

func TestCountByRule(t *testing.T) {
	counts := CountByRule([]types.Alert{
		{Rule: RuleNegativeValue},
		{Rule: RuleNegativeValue},
		{Rule: RuleZeroFailures},
	})

	if counts[RuleNegativeValue] != 2 || counts[RuleZeroFailures] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

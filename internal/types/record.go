package types

// ChartData is the persisted, user-editable part of the dashboard
type ChartData struct {
	FailureReasons []FailureReason `json:"failureReasons" dynamodbav:"FailureReasons"`
}

// Valid reports whether the payload carries a usable failure-reason set:
// at least one reason, no negative values and no repeated names.
func (c ChartData) Valid() bool {
	if len(c.FailureReasons) == 0 {
		return false
	}
	seen := make(map[string]bool, len(c.FailureReasons))
	for _, r := range c.FailureReasons {
		if r.Value < 0 || seen[r.Name] {
			return false
		}
		seen[r.Name] = true
	}
	return true
}

// Record is a per-email chart snapshot in the record store
type Record struct {
	Email     string    `json:"email" dynamodbav:"Email"` // partition key
	ChartData ChartData `json:"chart_data" dynamodbav:"ChartData"`
	CreatedAt string    `json:"created_at" dynamodbav:"CreatedAt"` // RFC3339, set on insert
	UpdatedAt string    `json:"updated_at" dynamodbav:"UpdatedAt"` // RFC3339
}

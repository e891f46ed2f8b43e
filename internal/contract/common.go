// Package contract defines the wire-level result shapes returned by the HTTP
// surface and the CLI. Dates are formatted as "2006-01-02"; absent dates are
// omitted.
package contract

import "time"

// WireDate is the date-only layout used in responses.
const WireDate = "2006-01-02"

// FormatDate renders an optional date for the wire.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(WireDate)
}

// RecalcResult summarizes one recalculation pass.
type RecalcResult struct {
	Updated        int      `json:"updated"`
	Skipped        int      `json:"skipped"`
	TotalItems     int      `json:"totalItems"`
	ProcessedItems int      `json:"processedItems"`
	LimitReached   bool     `json:"limitReached"`
	FieldsCreated  []string `json:"fieldsCreated,omitempty"`
}

// BaselineResult summarizes one save-baseline pass.
type BaselineResult struct {
	Saved int `json:"saved"`
}

package contract

import (
	"time"

	"github.com/alexanderramin/autoplan/internal/domain"
)

// VarianceItem is one item's schedule measured against its baseline.
// VarianceDays is signed working days: positive means behind.
type VarianceItem struct {
	Number         int                   `json:"number"`
	Title          string                `json:"title"`
	BaselineStart  string                `json:"baselineStart,omitempty"`
	BaselineTarget string                `json:"baselineTarget,omitempty"`
	StartDate      string                `json:"startDate,omitempty"`
	TargetDate     string                `json:"targetDate,omitempty"`
	VarianceDays   int                   `json:"varianceDays"`
	Status         domain.VarianceStatus `json:"status"`
}

// VarianceSummary counts items per variance bucket.
type VarianceSummary struct {
	Ahead      int `json:"ahead"`
	OnTrack    int `json:"onTrack"`
	Behind     int `json:"behind"`
	Done       int `json:"done"`
	NoBaseline int `json:"noBaseline"`
}

// VarianceReport is the full baseline-vs-current comparison for a project.
type VarianceReport struct {
	Owner         string          `json:"owner"`
	ProjectNumber int             `json:"projectNumber"`
	GeneratedAt   time.Time       `json:"generatedAt"`
	Items         []VarianceItem  `json:"items"`
	Summary       VarianceSummary `json:"summary"`
}

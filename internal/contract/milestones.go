package contract

import (
	"time"

	"github.com/alexanderramin/autoplan/internal/domain"
)

// MilestoneView is the schedule health of one milestone.
type MilestoneView struct {
	Number         int              `json:"number"`
	Title          string           `json:"title"`
	State          string           `json:"state"`
	DueOn          string           `json:"dueOn,omitempty"`
	TotalItems     int              `json:"totalItems"`
	CompletedItems int              `json:"completedItems"`
	CompletionPct  float64          `json:"completionPct"`
	TotalDays      int              `json:"totalDays"`
	RemainingDays  int              `json:"remainingDays"`
	EarliestStart  string           `json:"earliestStart,omitempty"`
	LatestTarget   string           `json:"latestTarget,omitempty"`
	RiskLevel      domain.RiskLevel `json:"riskLevel"`
}

// MilestoneReport lists every milestone referenced by the project's items.
type MilestoneReport struct {
	Owner         string          `json:"owner"`
	ProjectNumber int             `json:"projectNumber"`
	GeneratedAt   time.Time       `json:"generatedAt"`
	Milestones    []MilestoneView `json:"milestones"`
}

package contract

import (
	"time"

	"github.com/alexanderramin/autoplan/internal/domain"
)

// AssigneeLoad is the accumulated workload of one assignee.
type AssigneeLoad struct {
	Login          string               `json:"login"`
	TotalItems     int                  `json:"totalItems"`
	CompletedItems int                  `json:"completedItems"`
	OpenItems      int                  `json:"openItems"`
	TotalDays      int                  `json:"totalDays"`
	RemainingDays  int                  `json:"remainingDays"`
	Workload       domain.WorkloadLevel `json:"workload"`
}

// ResourceSummary groups a project's items by assignee.
type ResourceSummary struct {
	Owner           string         `json:"owner"`
	ProjectNumber   int            `json:"projectNumber"`
	GeneratedAt     time.Time      `json:"generatedAt"`
	Assignees       []AssigneeLoad `json:"assignees"`
	UnassignedItems int            `json:"unassignedItems"`
}

package contract

import (
	"time"

	"github.com/alexanderramin/autoplan/internal/domain"
)

// RiskFinding names one condition that contributed to an item's risk score.
type RiskFinding string

const (
	FindingOverdue             RiskFinding = "overdue"
	FindingApproachingDeadline RiskFinding = "approachingDeadline"
	FindingLowConfidence       RiskFinding = "lowConfidence"
	FindingNoEstimate          RiskFinding = "noEstimate"
	FindingNoTargetDate        RiskFinding = "noTargetDate"
	FindingBlocked             RiskFinding = "blocked"
	FindingBehindBaseline      RiskFinding = "behindBaseline"
	FindingNoStartDate         RiskFinding = "noStartDate"
)

// ItemRisk is the scored assessment of one item.
type ItemRisk struct {
	Number   int              `json:"number"`
	Title    string           `json:"title"`
	Score    int              `json:"score"`
	Level    domain.RiskLevel `json:"level"`
	Findings []RiskFinding    `json:"findings,omitempty"`
}

// RiskReport aggregates per-item assessments for a project.
type RiskReport struct {
	Owner           string                   `json:"owner"`
	ProjectNumber   int                      `json:"projectNumber"`
	GeneratedAt     time.Time                `json:"generatedAt"`
	TotalItems      int                      `json:"totalItems"`
	CountsByLevel   map[domain.RiskLevel]int `json:"countsByLevel"`
	CountsByFinding map[RiskFinding]int      `json:"countsByFinding"`
	AverageScore    float64                  `json:"averageScore"`
	HighestScore    int                      `json:"highestScore"`
	Items           []ItemRisk               `json:"items"`
}

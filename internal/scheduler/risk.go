package scheduler

import (
	"sort"
	"time"

	"github.com/alexanderramin/autoplan/internal/calendar"
	"github.com/alexanderramin/autoplan/internal/contract"
	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/alexanderramin/autoplan/internal/snapshot"
)

// Finding weights. An item's score is the sum of the weights of every
// condition that applies.
const (
	weightOverdue             = 35
	weightApproachingDeadline = 20
	weightLowConfidence       = 15
	weightNoEstimate          = 10
	weightNoTargetDate        = 10
	weightBlocked             = 15
	weightBehindBaseline      = 15
	weightNoStartDate         = 5

	// approachWindowDays is how close a target date must be before the
	// approachingDeadline finding applies.
	approachWindowDays = 5
	// approachProgressPct is the percent-complete at or above which an
	// imminent deadline stops being a finding.
	approachProgressPct = 80
)

// Score level thresholds.
const (
	levelCritical = 50
	levelHigh     = 30
	levelMedium   = 15
)

// ScoreLevel maps a risk score to its categorical level.
func ScoreLevel(score int) domain.RiskLevel {
	switch {
	case score >= levelCritical:
		return domain.RiskCritical
	case score >= levelHigh:
		return domain.RiskHigh
	case score >= levelMedium:
		return domain.RiskMedium
	case score >= 1:
		return domain.RiskLow
	default:
		return domain.RiskNone
	}
}

// AssessRisk scores one item. Completed items score zero with no findings.
// blockers are the item's resolvable blockers from the snapshot; a blocker
// counts as blocking while it is neither closed nor Done.
func AssessRisk(it *domain.Item, blockers []*domain.Item, today time.Time) contract.ItemRisk {
	risk := contract.ItemRisk{Number: it.Number, Title: it.Title, Level: domain.RiskNone}
	if it.Completed() {
		return risk
	}
	today = calendar.DateOf(today)

	add := func(f contract.RiskFinding, weight int) {
		risk.Score += weight
		risk.Findings = append(risk.Findings, f)
	}

	if it.TargetDate != nil {
		target := calendar.DateOf(*it.TargetDate)
		switch {
		case target.Before(today):
			add(contract.FindingOverdue, weightOverdue)
		case !target.After(today.AddDate(0, 0, approachWindowDays)) && it.Progress() < approachProgressPct:
			add(contract.FindingApproachingDeadline, weightApproachingDeadline)
		}
	} else {
		add(contract.FindingNoTargetDate, weightNoTargetDate)
	}

	if it.Confidence == domain.ConfidenceLow {
		add(contract.FindingLowConfidence, weightLowConfidence)
	}
	if it.Estimate == "" {
		add(contract.FindingNoEstimate, weightNoEstimate)
	}
	for _, blocker := range blockers {
		if !blocker.Completed() {
			add(contract.FindingBlocked, weightBlocked)
			break
		}
	}
	if it.BaselineTarget != nil && it.TargetDate != nil &&
		calendar.DateOf(*it.TargetDate).After(calendar.DateOf(*it.BaselineTarget)) {
		add(contract.FindingBehindBaseline, weightBehindBaseline)
	}
	if it.TargetDate != nil && it.StartDate == nil {
		add(contract.FindingNoStartDate, weightNoStartDate)
	}

	risk.Level = ScoreLevel(risk.Score)
	return risk
}

// ScoreProject assesses every item in the snapshot and summarizes: counts
// by level and by finding, the average score over open items, and the
// highest score. Items are reported in descending score order, ties by
// issue number.
func ScoreProject(snap *snapshot.Snapshot, today time.Time) *contract.RiskReport {
	report := &contract.RiskReport{
		TotalItems:      snap.Len(),
		CountsByLevel:   make(map[domain.RiskLevel]int),
		CountsByFinding: make(map[contract.RiskFinding]int),
	}

	openItems := 0
	totalScore := 0
	for _, number := range snap.Order {
		it := snap.Items[number]

		var blockers []*domain.Item
		for _, b := range snap.Blockers(number) {
			if blocker, ok := snap.Item(b); ok {
				blockers = append(blockers, blocker)
			}
		}

		risk := AssessRisk(it, blockers, today)
		report.Items = append(report.Items, risk)
		report.CountsByLevel[risk.Level]++
		for _, f := range risk.Findings {
			report.CountsByFinding[f]++
		}
		if risk.Score > report.HighestScore {
			report.HighestScore = risk.Score
		}
		if !it.Completed() {
			openItems++
			totalScore += risk.Score
		}
	}

	if openItems > 0 {
		report.AverageScore = float64(totalScore) / float64(openItems)
	}

	sort.SliceStable(report.Items, func(i, j int) bool {
		if report.Items[i].Score != report.Items[j].Score {
			return report.Items[i].Score > report.Items[j].Score
		}
		return report.Items[i].Number < report.Items[j].Number
	})
	return report
}

package scheduler

import (
	"sort"
	"time"

	"github.com/alexanderramin/autoplan/internal/calendar"
	"github.com/alexanderramin/autoplan/internal/contract"
	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/alexanderramin/autoplan/internal/snapshot"
)

// AggregateMilestones summarizes every milestone referenced by at least one
// item: member counts, total and remaining days, the date envelope, and a
// schedule-health level against the milestone's due date. Milestones are
// reported in number order.
func AggregateMilestones(snap *snapshot.Snapshot, settings domain.Settings, today time.Time) *contract.MilestoneReport {
	today = calendar.DateOf(today)
	report := &contract.MilestoneReport{}

	numbers := make([]int, 0, len(snap.Milestones))
	for number := range snap.Milestones {
		numbers = append(numbers, number)
	}
	sort.Ints(numbers)

	for _, number := range numbers {
		var milestone *domain.Milestone
		view := contract.MilestoneView{Number: number}
		var earliestStart, latestTarget *time.Time

		for _, member := range snap.Milestones[number] {
			it := snap.Items[member]
			if milestone == nil && it.Milestone != nil {
				milestone = it.Milestone
			}
			duration := settings.DurationFor(it.Estimate)
			view.TotalItems++
			view.TotalDays += duration
			if it.Completed() {
				view.CompletedItems++
			} else {
				view.RemainingDays += duration
			}
			if it.StartDate != nil {
				d := calendar.DateOf(*it.StartDate)
				if earliestStart == nil || d.Before(*earliestStart) {
					earliestStart = &d
				}
			}
			if it.TargetDate != nil {
				d := calendar.DateOf(*it.TargetDate)
				if latestTarget == nil || d.After(*latestTarget) {
					latestTarget = &d
				}
			}
		}

		if milestone != nil {
			view.Title = milestone.Title
			view.State = milestone.State
			if milestone.DueOn != nil {
				view.DueOn = calendar.DateOf(*milestone.DueOn).Format(contract.WireDate)
			}
		}
		if view.TotalItems > 0 {
			view.CompletionPct = float64(view.CompletedItems) / float64(view.TotalItems) * 100
		}
		view.EarliestStart = contract.FormatDate(earliestStart)
		view.LatestTarget = contract.FormatDate(latestTarget)
		view.RiskLevel = milestoneRisk(milestone, view.CompletionPct, earliestStart, latestTarget, today)

		report.Milestones = append(report.Milestones, view)
	}
	return report
}

// milestoneRisk grades one milestone: critical when open, past due, and
// incomplete; high when the latest target overshoots the due date; medium
// when less than half done with more than half the timeline elapsed.
func milestoneRisk(m *domain.Milestone, completionPct float64, earliestStart, latestTarget *time.Time, today time.Time) domain.RiskLevel {
	if m == nil || m.DueOn == nil {
		return domain.RiskNone
	}
	dueOn := calendar.DateOf(*m.DueOn)

	if m.State == "open" && dueOn.Before(today) && completionPct < 100 {
		return domain.RiskCritical
	}
	if latestTarget != nil && latestTarget.After(dueOn) {
		return domain.RiskHigh
	}
	if completionPct < 50 && earliestStart != nil {
		total := dueOn.Sub(*earliestStart)
		if total > 0 {
			elapsed := today.Sub(*earliestStart)
			if float64(elapsed)/float64(total) > 0.5 {
				return domain.RiskMedium
			}
		}
	}
	return domain.RiskNone
}

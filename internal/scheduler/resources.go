package scheduler

import (
	"sort"

	"github.com/alexanderramin/autoplan/internal/contract"
	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/alexanderramin/autoplan/internal/snapshot"
)

// Workload bucket thresholds, in remaining working days and open items.
const (
	overloadedDays  = 75
	overloadedItems = 7
	highDays        = 50
	highItems       = 5
	lowDays         = 15
	lowItems        = 2
)

// WorkloadFor buckets an assignee's remaining load.
func WorkloadFor(remainingDays, openItems int) domain.WorkloadLevel {
	switch {
	case remainingDays > overloadedDays || openItems > overloadedItems:
		return domain.WorkloadOverloaded
	case remainingDays > highDays || openItems > highItems:
		return domain.WorkloadHigh
	case remainingDays < lowDays && openItems < lowItems:
		return domain.WorkloadLow
	default:
		return domain.WorkloadNormal
	}
}

// AggregateResources groups the snapshot's items by assignee. Items with
// multiple assignees count toward each; items with none count toward the
// unassigned total. Durations come from the estimate table; remaining days
// sum open items only. Assignees are reported by descending remaining days,
// ties by login.
func AggregateResources(snap *snapshot.Snapshot, settings domain.Settings) *contract.ResourceSummary {
	summary := &contract.ResourceSummary{}
	byLogin := make(map[string]*contract.AssigneeLoad)

	for _, number := range snap.Order {
		it := snap.Items[number]
		duration := settings.DurationFor(it.Estimate)

		if len(it.Assignees) == 0 {
			summary.UnassignedItems++
			continue
		}
		for _, a := range it.Assignees {
			load := byLogin[a.Login]
			if load == nil {
				load = &contract.AssigneeLoad{Login: a.Login}
				byLogin[a.Login] = load
			}
			load.TotalItems++
			load.TotalDays += duration
			if it.Completed() {
				load.CompletedItems++
			} else {
				load.OpenItems++
				load.RemainingDays += duration
			}
		}
	}

	for _, load := range byLogin {
		load.Workload = WorkloadFor(load.RemainingDays, load.OpenItems)
		summary.Assignees = append(summary.Assignees, *load)
	}
	sort.Slice(summary.Assignees, func(i, j int) bool {
		if summary.Assignees[i].RemainingDays != summary.Assignees[j].RemainingDays {
			return summary.Assignees[i].RemainingDays > summary.Assignees[j].RemainingDays
		}
		return summary.Assignees[i].Login < summary.Assignees[j].Login
	})
	return summary
}

// Package scheduler holds the pure computation core: date propagation over
// the dependency graph, parent roll-ups, risk scoring, critical-path
// analysis, and the resource/milestone/variance aggregations. Nothing here
// touches the network or the database; the service layer loads a snapshot,
// calls in, and writes the results back.
package scheduler

import (
	"time"

	"github.com/alexanderramin/autoplan/internal/calendar"
	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/alexanderramin/autoplan/internal/snapshot"
)

// ItemSchedule is the computed schedule of one item for one pass.
type ItemSchedule struct {
	Number int
	Class  domain.ItemClass

	// StartDate and TargetDate are set for computed leaves and rolled-up
	// summaries; completed items keep neither.
	StartDate  *time.Time
	TargetDate *time.Time

	// EndForDependents is the date a dependent's start is computed from.
	// For completed items this is actualEnd ?? closedAt ?? target; for
	// computed leaves it is the target date.
	EndForDependents *time.Time

	Duration        int // working days from the estimate table
	Buffer          int // working days from the confidence table
	DependencyCount int
	ChildCount      int
}

// Computed reports whether the item received both dates this pass.
func (s *ItemSchedule) Computed() bool {
	return s.StartDate != nil && s.TargetDate != nil
}

// Plan is the result of one date-propagation pass.
type Plan struct {
	Schedules map[int]*ItemSchedule
	// Order is the topological order the items were scheduled in: every
	// item follows all of its blockers.
	Order []int
	// CycleDetected is set when the dependency DFS observed a back-edge.
	// The pass still terminates; the first node on the back-edge is
	// treated as already scheduled. Callers log a single warning.
	CycleDetected bool
}

// TopoOrder orders the snapshot's items so that every item follows all of
// its blockers: depth-first, mark on enter, append on exit. Blocker numbers
// missing from the snapshot are ignored. A back-edge terminates the
// recursion and is reported, not repaired.
func TopoOrder(snap *snapshot.Snapshot) ([]int, bool) {
	order := make([]int, 0, snap.Len())
	visited := make(map[int]bool, snap.Len())
	inStack := make(map[int]bool)
	cycle := false

	var visit func(n int)
	visit = func(n int) {
		if visited[n] {
			if inStack[n] {
				cycle = true
			}
			return
		}
		visited[n] = true
		inStack[n] = true
		for _, blocker := range snap.Blockers(n) {
			visit(blocker)
		}
		inStack[n] = false
		order = append(order, n)
	}

	for _, n := range snap.Order {
		visit(n)
	}
	return order, cycle
}

// ComputeDates runs the date-propagation pass: items in topological order,
// each classified as completed, summary, or leaf, then the parent roll-up.
// today is truncated to a UTC date before use.
func ComputeDates(snap *snapshot.Snapshot, cal *calendar.Calendar, settings domain.Settings, today time.Time) *Plan {
	today = calendar.DateOf(today)
	order, cycle := TopoOrder(snap)
	plan := &Plan{
		Schedules:     make(map[int]*ItemSchedule, len(order)),
		Order:         order,
		CycleDetected: cycle,
	}

	for _, number := range order {
		it, ok := snap.Item(number)
		if !ok {
			continue
		}
		sched := &ItemSchedule{
			Number:          number,
			Class:           classify(snap, it),
			DependencyCount: len(snap.Blockers(number)),
			ChildCount:      len(snap.ChildrenOf(number)),
		}
		plan.Schedules[number] = sched

		switch sched.Class {
		case domain.ClassCompleted:
			sched.EndForDependents = completedEnd(it)

		case domain.ClassSummary:
			// Dates arrive in the roll-up below.

		default:
			start := startCandidate(snap, plan, cal, number, today)
			duration := settings.DurationFor(it.Estimate)
			buffer := settings.BufferFor(it.Confidence)
			target := cal.AddWorkingDays(start, duration+buffer)

			sched.StartDate = &start
			sched.TargetDate = &target
			sched.EndForDependents = &target
			sched.Duration = duration
			sched.Buffer = buffer
		}
	}

	rollUpParents(snap, plan)
	return plan
}

// classify resolves the scheduling class from the snapshot's merged
// parent/child view. Completion wins over having children.
func classify(snap *snapshot.Snapshot, it *domain.Item) domain.ItemClass {
	switch {
	case it.Completed():
		return domain.ClassCompleted
	case snap.HasChildren(it.Number):
		return domain.ClassSummary
	default:
		return domain.ClassLeaf
	}
}

// completedEnd picks the end date a completed item presents to dependents:
// actual end, else the close date, else the target date.
func completedEnd(it *domain.Item) *time.Time {
	if it.ActualEndDate != nil {
		d := calendar.DateOf(*it.ActualEndDate)
		return &d
	}
	if it.ClosedAt != nil {
		d := calendar.DateOf(*it.ClosedAt)
		return &d
	}
	if it.TargetDate != nil {
		d := calendar.DateOf(*it.TargetDate)
		return &d
	}
	return nil
}

// startCandidate derives a leaf's start: the day after the latest blocker
// end, snapped to a working day, or the next working day from today when no
// blocker contributes a date.
func startCandidate(snap *snapshot.Snapshot, plan *Plan, cal *calendar.Calendar, number int, today time.Time) time.Time {
	var latest *time.Time
	for _, blocker := range snap.Blockers(number) {
		end := blockerEnd(snap, plan, blocker)
		if end == nil {
			continue
		}
		if latest == nil || end.After(*latest) {
			latest = end
		}
	}
	if latest == nil {
		return cal.NextWorkingDay(today)
	}
	return cal.NextWorkingDay(latest.AddDate(0, 0, 1))
}

// blockerEnd is the predecessor date a blocker contributes: its computed
// end-for-dependents, else its loaded target date, else nothing.
func blockerEnd(snap *snapshot.Snapshot, plan *Plan, blocker int) *time.Time {
	if sched, ok := plan.Schedules[blocker]; ok && sched.EndForDependents != nil {
		return sched.EndForDependents
	}
	if it, ok := snap.Item(blocker); ok && it.TargetDate != nil {
		d := calendar.DateOf(*it.TargetDate)
		return &d
	}
	return nil
}

// rollUpParents sets every summary's dates to min(child start) and
// max(child target) over children that received dates this pass. Nested
// summaries resolve bottom-up. Parents with zero computed children keep no
// dates.
func rollUpParents(snap *snapshot.Snapshot, plan *Plan) {
	done := make(map[int]bool)

	var roll func(parent int)
	roll = func(parent int) {
		if done[parent] {
			return
		}
		done[parent] = true

		sched := plan.Schedules[parent]
		if sched == nil || sched.Class != domain.ClassSummary {
			return
		}

		var minStart, maxTarget *time.Time
		for _, child := range snap.ChildrenOf(parent) {
			roll(child)
			cs := plan.Schedules[child]
			if cs == nil || !cs.Computed() {
				continue
			}
			if minStart == nil || cs.StartDate.Before(*minStart) {
				minStart = cs.StartDate
			}
			if maxTarget == nil || cs.TargetDate.After(*maxTarget) {
				maxTarget = cs.TargetDate
			}
		}
		if minStart != nil && maxTarget != nil {
			sched.StartDate = minStart
			sched.TargetDate = maxTarget
		}
	}

	for parent := range snap.Children {
		roll(parent)
	}
}

package scheduler

import (
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/autoplan/internal/calendar"
	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/alexanderramin/autoplan/internal/snapshot"
	"github.com/alexanderramin/autoplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultCal(holidays ...calendar.Holiday) *calendar.Calendar {
	return calendar.New(calendar.DefaultWeekend, holidays)
}

func computePlan(cal *calendar.Calendar, today time.Time, items ...*domain.Item) *Plan {
	return ComputeDates(snapshot.Build(items), cal, domain.DefaultSettings(), today)
}

func TestComputeDates_LinearChainWithWeekendSnap(t *testing.T) {
	today := testutil.Date(2024, time.January, 1) // Monday
	plan := computePlan(defaultCal(), today,
		testutil.NewTestItem(1, testutil.WithEstimate(domain.EstimateM), testutil.WithConfidence(domain.ConfidenceMedium)),
		testutil.NewTestItem(2, testutil.WithEstimate(domain.EstimateM), testutil.WithConfidence(domain.ConfidenceMedium), testutil.WithBlockers(1)),
	)

	a := plan.Schedules[1]
	require.True(t, a.Computed())
	assert.Equal(t, testutil.Date(2024, time.January, 1), *a.StartDate)
	assert.Equal(t, testutil.Date(2024, time.January, 17), *a.TargetDate)

	b := plan.Schedules[2]
	require.True(t, b.Computed())
	assert.Equal(t, testutil.Date(2024, time.January, 18), *b.StartDate, "day after A's target")
	assert.Equal(t, testutil.Date(2024, time.February, 5), *b.TargetDate)
}

func TestComputeDates_HolidayShiftsChain(t *testing.T) {
	today := testutil.Date(2024, time.January, 1)
	cal := defaultCal(calendar.Holiday{Date: testutil.Date(2024, time.January, 15)})
	plan := computePlan(cal, today,
		testutil.NewTestItem(1, testutil.WithEstimate(domain.EstimateM), testutil.WithConfidence(domain.ConfidenceMedium)),
		testutil.NewTestItem(2, testutil.WithEstimate(domain.EstimateM), testutil.WithConfidence(domain.ConfidenceMedium), testutil.WithBlockers(1)),
	)

	assert.Equal(t, testutil.Date(2024, time.January, 18), *plan.Schedules[1].TargetDate)
	assert.Equal(t, testutil.Date(2024, time.January, 19), *plan.Schedules[2].StartDate)
	assert.Equal(t, testutil.Date(2024, time.February, 6), *plan.Schedules[2].TargetDate)
}

func TestComputeDates_CompletedPredecessor(t *testing.T) {
	today := testutil.Date(2024, time.February, 1)
	closedAt := time.Date(2024, time.February, 2, 12, 0, 0, 0, time.UTC)
	plan := computePlan(defaultCal(), today,
		testutil.NewTestItem(1, testutil.Closed(closedAt)),
		testutil.NewTestItem(2, testutil.WithEstimate(domain.EstimateM), testutil.WithConfidence(domain.ConfidenceMedium), testutil.WithBlockers(1)),
	)

	a := plan.Schedules[1]
	assert.Equal(t, domain.ClassCompleted, a.Class)
	assert.Nil(t, a.StartDate, "completed items receive no computed dates")
	require.NotNil(t, a.EndForDependents)
	assert.Equal(t, testutil.Date(2024, time.February, 2), *a.EndForDependents, "closedAt truncated to its date")

	// 2024-02-03 is a Saturday; the dependent starts Monday the 5th.
	assert.Equal(t, testutil.Date(2024, time.February, 5), *plan.Schedules[2].StartDate)
}

func TestComputeDates_ActualEndWinsOverClosedAt(t *testing.T) {
	today := testutil.Date(2024, time.February, 1)
	plan := computePlan(defaultCal(), today,
		testutil.NewTestItem(1,
			testutil.Closed(testutil.Date(2024, time.February, 9)),
			testutil.WithActualEnd(testutil.Date(2024, time.February, 6))),
		testutil.NewTestItem(2, testutil.WithBlockers(1)),
	)

	assert.Equal(t, testutil.Date(2024, time.February, 6), *plan.Schedules[1].EndForDependents)
	assert.Equal(t, testutil.Date(2024, time.February, 7), *plan.Schedules[2].StartDate)
}

func TestComputeDates_StatusDoneIsTerminal(t *testing.T) {
	today := testutil.Date(2024, time.March, 4)
	plan := computePlan(defaultCal(), today,
		testutil.NewTestItem(1, testutil.WithStatus(domain.StatusDone), testutil.WithTarget(testutil.Date(2024, time.March, 1))),
	)

	sched := plan.Schedules[1]
	assert.Equal(t, domain.ClassCompleted, sched.Class)
	require.NotNil(t, sched.EndForDependents)
	assert.Equal(t, testutil.Date(2024, time.March, 1), *sched.EndForDependents, "target is the last fallback")
}

func TestComputeDates_BlockerWithoutDatesContributesNothing(t *testing.T) {
	today := testutil.Date(2024, time.January, 1)
	plan := computePlan(defaultCal(), today,
		// Completed with no actual end, closedAt, or target: contributes no
		// predecessor date, so the dependent starts from today.
		&domain.Item{Number: 1, State: domain.ItemClosed},
		testutil.NewTestItem(2, testutil.WithBlockers(1)),
	)

	assert.Equal(t, testutil.Date(2024, time.January, 1), *plan.Schedules[2].StartDate)
}

func TestComputeDates_MissingBlockerIgnored(t *testing.T) {
	today := testutil.Date(2024, time.January, 1)
	plan := computePlan(defaultCal(), today,
		testutil.NewTestItem(2, testutil.WithBlockers(999)),
	)

	sched := plan.Schedules[2]
	assert.Zero(t, sched.DependencyCount, "unresolvable blockers are dropped at snapshot build")
	assert.Equal(t, testutil.Date(2024, time.January, 1), *sched.StartDate)
}

func TestComputeDates_ParentRollUp(t *testing.T) {
	today := testutil.Date(2024, time.March, 4) // Monday
	plan := computePlan(defaultCal(), today,
		testutil.NewTestItem(10, testutil.WithChildren(11, 12)),
		// C1: XS (2) + High (0) = 03-04 .. 03-06
		testutil.NewTestItem(11, testutil.WithParent(10), testutil.WithEstimate(domain.EstimateXS), testutil.WithConfidence(domain.ConfidenceHigh)),
		// C2: S (5) + Medium (2) = 03-04 .. 03-13
		testutil.NewTestItem(12, testutil.WithParent(10), testutil.WithEstimate(domain.EstimateS), testutil.WithConfidence(domain.ConfidenceMedium)),
	)

	parent := plan.Schedules[10]
	assert.Equal(t, domain.ClassSummary, parent.Class)
	require.True(t, parent.Computed())
	assert.Equal(t, *plan.Schedules[11].StartDate, *parent.StartDate, "min child start")
	assert.Equal(t, *plan.Schedules[12].TargetDate, *parent.TargetDate, "max child target")
}

func TestComputeDates_NestedSummariesRollBottomUp(t *testing.T) {
	today := testutil.Date(2024, time.March, 4)
	plan := computePlan(defaultCal(), today,
		testutil.NewTestItem(1, testutil.WithChildren(2)),
		testutil.NewTestItem(2, testutil.WithParent(1), testutil.WithChildren(3)),
		testutil.NewTestItem(3, testutil.WithParent(2), testutil.WithEstimate(domain.EstimateS)),
	)

	leaf := plan.Schedules[3]
	for _, number := range []int{1, 2} {
		sched := plan.Schedules[number]
		require.True(t, sched.Computed(), "summary %d", number)
		assert.Equal(t, *leaf.StartDate, *sched.StartDate)
		assert.Equal(t, *leaf.TargetDate, *sched.TargetDate)
	}
}

func TestComputeDates_SummaryWithoutComputedChildrenKeepsNoDates(t *testing.T) {
	today := testutil.Date(2024, time.March, 4)
	plan := computePlan(defaultCal(), today,
		testutil.NewTestItem(1, testutil.WithChildren(2)),
		testutil.NewTestItem(2, testutil.WithParent(1), testutil.Closed(testutil.Date(2024, time.March, 1))),
	)

	assert.False(t, plan.Schedules[1].Computed())
}

func TestTopoOrder_BlockersFirst(t *testing.T) {
	snap := snapshot.Build([]*domain.Item{
		testutil.NewTestItem(3, testutil.WithBlockers(1, 2)),
		testutil.NewTestItem(1),
		testutil.NewTestItem(2, testutil.WithBlockers(1)),
	})

	order, cycle := TopoOrder(snap)
	assert.False(t, cycle)

	pos := make(map[int]int, len(order))
	for i, n := range order {
		pos[n] = i
	}
	assert.Less(t, pos[1], pos[2])
	assert.Less(t, pos[2], pos[3])
}

func TestTopoOrder_CycleTerminates(t *testing.T) {
	snap := snapshot.Build([]*domain.Item{
		testutil.NewTestItem(1, testutil.WithBlockers(2)),
		testutil.NewTestItem(2, testutil.WithBlockers(1)),
	})

	order, cycle := TopoOrder(snap)
	assert.True(t, cycle)
	assert.Len(t, order, 2, "every node scheduled exactly once")
}

func TestComputeDates_Deterministic(t *testing.T) {
	today := testutil.Date(2024, time.January, 1)
	items := func() []*domain.Item {
		return []*domain.Item{
			testutil.NewTestItem(1, testutil.WithEstimate(domain.EstimateL)),
			testutil.NewTestItem(2, testutil.WithBlockers(1)),
			testutil.NewTestItem(3, testutil.WithBlockers(1, 2), testutil.WithConfidence(domain.ConfidenceLow)),
			testutil.NewTestItem(4, testutil.WithChildren(2, 3)),
		}
	}

	first := ComputeDates(snapshot.Build(items()), defaultCal(), domain.DefaultSettings(), today)
	second := ComputeDates(snapshot.Build(items()), defaultCal(), domain.DefaultSettings(), today)

	assert.Equal(t, first.Order, second.Order)
	for number, sched := range first.Schedules {
		assert.Equal(t, sched, second.Schedules[number], "item %d", number)
	}
}

// TestComputeDates_RandomizedInvariants builds random forests of blocked
// items and checks the schedule invariants: starts and targets land on
// working days, every dependent starts after its latest blocker end, and
// summaries span their children.
func TestComputeDates_RandomizedInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	today := testutil.Date(2024, time.January, 1)
	estimates := []domain.Estimate{domain.EstimateXS, domain.EstimateS, domain.EstimateM, domain.EstimateL, ""}

	for trial := 0; trial < 100; trial++ {
		cal := defaultCal(calendar.Holiday{Date: today.AddDate(0, 0, rng.Intn(30))})

		count := rng.Intn(12) + 2
		items := make([]*domain.Item, 0, count)
		for n := 1; n <= count; n++ {
			opts := []testutil.ItemOption{testutil.WithEstimate(estimates[rng.Intn(len(estimates))])}
			// Blockers only point backwards, so the graph stays acyclic.
			if n > 1 && rng.Intn(2) == 1 {
				opts = append(opts, testutil.WithBlockers(rng.Intn(n-1)+1))
			}
			items = append(items, testutil.NewTestItem(n, opts...))
		}

		snap := snapshot.Build(items)
		plan := ComputeDates(snap, cal, domain.DefaultSettings(), today)
		assert.False(t, plan.CycleDetected, "trial %d", trial)

		for number, sched := range plan.Schedules {
			if sched.Class != domain.ClassLeaf {
				continue
			}
			assert.True(t, cal.IsWorkingDay(*sched.StartDate), "trial %d item %d start", trial, number)
			assert.True(t, cal.IsWorkingDay(*sched.TargetDate), "trial %d item %d target", trial, number)
			assert.False(t, sched.TargetDate.Before(*sched.StartDate), "trial %d item %d", trial, number)

			for _, blocker := range snap.Blockers(number) {
				end := plan.Schedules[blocker].EndForDependents
				if end != nil {
					assert.True(t, sched.StartDate.After(*end),
						"trial %d: item %d must start after blocker %d ends", trial, number, blocker)
				}
			}
		}
	}
}

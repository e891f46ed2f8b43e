package scheduler

import (
	"testing"
	"time"

	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/alexanderramin/autoplan/internal/snapshot"
	"github.com/alexanderramin/autoplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func milestone(number int, dueOn time.Time, state string) *domain.Milestone {
	return &domain.Milestone{Number: number, Title: "M" + state, DueOn: &dueOn, State: state}
}

func TestAggregateMilestones_OverdueOpenIsCritical(t *testing.T) {
	today := testutil.Date(2024, time.June, 1)
	ms := milestone(1, testutil.Date(2024, time.May, 1), "open")
	snap := snapshot.Build([]*domain.Item{
		testutil.NewTestItem(1, testutil.WithMilestone(ms), testutil.WithEstimate(domain.EstimateS)),
		testutil.NewTestItem(2, testutil.WithMilestone(ms), testutil.Closed(testutil.Date(2024, time.April, 1))),
	})

	report := AggregateMilestones(snap, domain.DefaultSettings(), today)

	require.Len(t, report.Milestones, 1)
	view := report.Milestones[0]
	assert.Equal(t, domain.RiskCritical, view.RiskLevel)
	assert.Equal(t, 2, view.TotalItems)
	assert.Equal(t, 1, view.CompletedItems)
	assert.InDelta(t, 50.0, view.CompletionPct, 1e-9)
	assert.Equal(t, 5, view.RemainingDays, "open S item only")
}

func TestAggregateMilestones_TargetPastDueIsHigh(t *testing.T) {
	today := testutil.Date(2024, time.April, 1)
	ms := milestone(2, testutil.Date(2024, time.June, 3), "open")
	snap := snapshot.Build([]*domain.Item{
		testutil.NewTestItem(1, testutil.WithMilestone(ms),
			testutil.WithStart(testutil.Date(2024, time.April, 1)),
			testutil.WithTarget(testutil.Date(2024, time.June, 10))),
	})

	report := AggregateMilestones(snap, domain.DefaultSettings(), today)

	view := report.Milestones[0]
	assert.Equal(t, domain.RiskHigh, view.RiskLevel)
	assert.Equal(t, "2024-04-01", view.EarliestStart)
	assert.Equal(t, "2024-06-10", view.LatestTarget)
}

func TestAggregateMilestones_LaggingHalfwayIsMedium(t *testing.T) {
	// Timeline 01-01 .. 05-01; today 04-01 is past halfway with 0% done.
	today := testutil.Date(2024, time.April, 1)
	ms := milestone(3, testutil.Date(2024, time.May, 1), "open")
	snap := snapshot.Build([]*domain.Item{
		testutil.NewTestItem(1, testutil.WithMilestone(ms),
			testutil.WithStart(testutil.Date(2024, time.January, 1)),
			testutil.WithTarget(testutil.Date(2024, time.April, 20))),
	})

	report := AggregateMilestones(snap, domain.DefaultSettings(), today)

	assert.Equal(t, domain.RiskMedium, report.Milestones[0].RiskLevel)
}

func TestAggregateMilestones_OnTrackIsNone(t *testing.T) {
	today := testutil.Date(2024, time.January, 10)
	ms := milestone(4, testutil.Date(2024, time.June, 3), "open")
	snap := snapshot.Build([]*domain.Item{
		testutil.NewTestItem(1, testutil.WithMilestone(ms),
			testutil.WithStart(testutil.Date(2024, time.January, 8)),
			testutil.WithTarget(testutil.Date(2024, time.February, 1))),
	})

	report := AggregateMilestones(snap, domain.DefaultSettings(), today)

	assert.Equal(t, domain.RiskNone, report.Milestones[0].RiskLevel)
}

func TestAggregateMilestones_SortedByNumber(t *testing.T) {
	today := testutil.Date(2024, time.January, 1)
	m2 := milestone(2, testutil.Date(2024, time.June, 1), "open")
	m1 := milestone(1, testutil.Date(2024, time.May, 1), "open")
	snap := snapshot.Build([]*domain.Item{
		testutil.NewTestItem(1, testutil.WithMilestone(m2)),
		testutil.NewTestItem(2, testutil.WithMilestone(m1)),
	})

	report := AggregateMilestones(snap, domain.DefaultSettings(), today)

	require.Len(t, report.Milestones, 2)
	assert.Equal(t, 1, report.Milestones[0].Number)
	assert.Equal(t, 2, report.Milestones[1].Number)
}

package scheduler

import (
	"testing"
	"time"

	"github.com/alexanderramin/autoplan/internal/contract"
	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/alexanderramin/autoplan/internal/snapshot"
	"github.com/alexanderramin/autoplan/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAssessRisk_OverdueLowConfidenceNoEstimate(t *testing.T) {
	today := testutil.Date(2024, time.January, 11)
	it := testutil.NewTestItem(1,
		testutil.WithStart(testutil.Date(2024, time.January, 2)),
		testutil.WithTarget(testutil.Date(2024, time.January, 10)),
		testutil.WithConfidence(domain.ConfidenceLow),
		testutil.WithPercentComplete(10),
	)

	risk := AssessRisk(it, nil, today)

	assert.Equal(t, 60, risk.Score, "overdue 35 + lowConfidence 15 + noEstimate 10")
	assert.Equal(t, domain.RiskCritical, risk.Level)
	assert.ElementsMatch(t, []contract.RiskFinding{
		contract.FindingOverdue, contract.FindingLowConfidence, contract.FindingNoEstimate,
	}, risk.Findings)
}

func TestAssessRisk_Findings(t *testing.T) {
	today := testutil.Date(2024, time.June, 3)
	in5 := testutil.Date(2024, time.June, 7)
	farOut := testutil.Date(2024, time.August, 1)

	tests := []struct {
		name     string
		item     *domain.Item
		blockers []*domain.Item
		want     []contract.RiskFinding
	}{
		{
			name: "approaching deadline under 80 percent",
			item: testutil.NewTestItem(1,
				testutil.WithStart(today), testutil.WithTarget(in5),
				testutil.WithEstimate(domain.EstimateS), testutil.WithPercentComplete(50)),
			want: []contract.RiskFinding{contract.FindingApproachingDeadline},
		},
		{
			name: "approaching deadline nearly done is quiet",
			item: testutil.NewTestItem(1,
				testutil.WithStart(today), testutil.WithTarget(in5),
				testutil.WithEstimate(domain.EstimateS), testutil.WithPercentComplete(85)),
			want: nil,
		},
		{
			name: "no target date",
			item: testutil.NewTestItem(1, testutil.WithEstimate(domain.EstimateS)),
			want: []contract.RiskFinding{contract.FindingNoTargetDate},
		},
		{
			name: "open blocker",
			item: testutil.NewTestItem(2,
				testutil.WithStart(today), testutil.WithTarget(farOut),
				testutil.WithEstimate(domain.EstimateS), testutil.WithBlockers(1)),
			blockers: []*domain.Item{testutil.NewTestItem(1)},
			want:     []contract.RiskFinding{contract.FindingBlocked},
		},
		{
			name: "completed blocker does not count",
			item: testutil.NewTestItem(2,
				testutil.WithStart(today), testutil.WithTarget(farOut),
				testutil.WithEstimate(domain.EstimateS), testutil.WithBlockers(1)),
			blockers: []*domain.Item{testutil.NewTestItem(1, testutil.WithStatus(domain.StatusDone))},
			want:     nil,
		},
		{
			name: "behind baseline",
			item: testutil.NewTestItem(1,
				testutil.WithStart(today), testutil.WithTarget(farOut),
				testutil.WithEstimate(domain.EstimateS),
				testutil.WithBaseline(today, testutil.Date(2024, time.July, 1))),
			want: []contract.RiskFinding{contract.FindingBehindBaseline},
		},
		{
			name: "target without start",
			item: testutil.NewTestItem(1,
				testutil.WithTarget(farOut), testutil.WithEstimate(domain.EstimateS)),
			want: []contract.RiskFinding{contract.FindingNoStartDate},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			risk := AssessRisk(tt.item, tt.blockers, today)
			assert.ElementsMatch(t, tt.want, risk.Findings)
		})
	}
}

func TestAssessRisk_CompletedItemScoresZero(t *testing.T) {
	today := testutil.Date(2024, time.January, 11)
	it := testutil.NewTestItem(1,
		testutil.Closed(testutil.Date(2024, time.January, 5)),
		testutil.WithTarget(testutil.Date(2024, time.January, 1)), // overdue, but done
		testutil.WithConfidence(domain.ConfidenceLow),
	)

	risk := AssessRisk(it, nil, today)

	assert.Zero(t, risk.Score)
	assert.Equal(t, domain.RiskNone, risk.Level)
	assert.Empty(t, risk.Findings)
}

func TestScoreLevel_Thresholds(t *testing.T) {
	tests := []struct {
		score int
		want  domain.RiskLevel
	}{
		{0, domain.RiskNone},
		{1, domain.RiskLow},
		{14, domain.RiskLow},
		{15, domain.RiskMedium},
		{30, domain.RiskHigh},
		{49, domain.RiskHigh},
		{50, domain.RiskCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ScoreLevel(tt.score), "score %d", tt.score)
	}
}

func TestScoreProject_Summary(t *testing.T) {
	today := testutil.Date(2024, time.January, 11)
	snap := snapshot.Build([]*domain.Item{
		// overdue + lowConfidence + noEstimate = 60 critical.
		testutil.NewTestItem(1,
			testutil.WithStart(testutil.Date(2024, time.January, 2)),
			testutil.WithTarget(testutil.Date(2024, time.January, 10)),
			testutil.WithConfidence(domain.ConfidenceLow)),
		// noTargetDate + noEstimate = 20 medium.
		testutil.NewTestItem(2),
		// done: excluded from the average.
		testutil.NewTestItem(3, testutil.WithStatus(domain.StatusDone)),
	})

	report := ScoreProject(snap, today)

	assert.Equal(t, 3, report.TotalItems)
	assert.Equal(t, 1, report.CountsByLevel[domain.RiskCritical])
	assert.Equal(t, 1, report.CountsByLevel[domain.RiskMedium])
	assert.Equal(t, 1, report.CountsByLevel[domain.RiskNone])
	assert.Equal(t, 2, report.CountsByFinding[contract.FindingNoEstimate])
	assert.Equal(t, 60, report.HighestScore)
	assert.InDelta(t, 40.0, report.AverageScore, 1e-9, "(60+20)/2 open items")
	assert.Equal(t, 1, report.Items[0].Number, "highest score first")
}

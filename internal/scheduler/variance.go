package scheduler

import (
	"github.com/alexanderramin/autoplan/internal/calendar"
	"github.com/alexanderramin/autoplan/internal/contract"
	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/alexanderramin/autoplan/internal/snapshot"
)

// ItemVariance compares one item's current target against its baseline.
// Variance is signed working days: positive means the current target is
// later than the baseline (behind). Completed items report done; items
// without a baseline target report noBaseline with zero variance.
func ItemVariance(it *domain.Item, cal *calendar.Calendar) contract.VarianceItem {
	v := contract.VarianceItem{
		Number:         it.Number,
		Title:          it.Title,
		BaselineStart:  contract.FormatDate(it.BaselineStart),
		BaselineTarget: contract.FormatDate(it.BaselineTarget),
		StartDate:      contract.FormatDate(it.StartDate),
		TargetDate:     contract.FormatDate(it.TargetDate),
	}

	if it.BaselineTarget == nil || it.TargetDate == nil {
		v.Status = domain.VarianceNoBaseline
		return v
	}

	baseline := calendar.DateOf(*it.BaselineTarget)
	current := calendar.DateOf(*it.TargetDate)
	v.VarianceDays = cal.WorkingDaysBetween(baseline, current)
	if current.Before(baseline) {
		v.VarianceDays = -v.VarianceDays
	}

	switch {
	case it.Completed():
		v.Status = domain.VarianceDone
	case v.VarianceDays > 0:
		v.Status = domain.VarianceBehind
	case v.VarianceDays < 0:
		v.Status = domain.VarianceAhead
	default:
		v.Status = domain.VarianceOnTrack
	}
	return v
}

// ComputeVariance builds the baseline comparison for the whole snapshot in
// pagination order. Done items count toward both the done and onTrack
// summary figures; the onTrack column reports "on schedule or finished".
func ComputeVariance(snap *snapshot.Snapshot, cal *calendar.Calendar) *contract.VarianceReport {
	report := &contract.VarianceReport{}
	for _, number := range snap.Order {
		v := ItemVariance(snap.Items[number], cal)
		report.Items = append(report.Items, v)
		switch v.Status {
		case domain.VarianceAhead:
			report.Summary.Ahead++
		case domain.VarianceBehind:
			report.Summary.Behind++
		case domain.VarianceOnTrack:
			report.Summary.OnTrack++
		case domain.VarianceDone:
			report.Summary.Done++
			report.Summary.OnTrack++
		case domain.VarianceNoBaseline:
			report.Summary.NoBaseline++
		}
	}
	return report
}

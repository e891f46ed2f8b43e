package service

import (
	"context"
	"time"

	"github.com/alexanderramin/autoplan/internal/calendar"
	"github.com/alexanderramin/autoplan/internal/contract"
	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/alexanderramin/autoplan/internal/repository"
	"github.com/alexanderramin/autoplan/internal/scheduler"
	"github.com/alexanderramin/autoplan/internal/snapshot"
	"github.com/alexanderramin/autoplan/internal/tracker"
	"github.com/rs/zerolog/log"
)

type scheduleService struct {
	installations repository.InstallationRepo
	projects      repository.ProjectRepo
	holidays      repository.HolidayRepo
	audits        repository.AuditRepo
	client        tracker.Client
	now           func() time.Time
}

// ScheduleOption adjusts the schedule service; tests pin the clock.
type ScheduleOption func(*scheduleService)

// WithClock replaces the time source used for "today".
func WithClock(now func() time.Time) ScheduleOption {
	return func(s *scheduleService) { s.now = now }
}

// NewScheduleService wires the recomputation orchestrator.
func NewScheduleService(
	installations repository.InstallationRepo,
	projects repository.ProjectRepo,
	holidays repository.HolidayRepo,
	audits repository.AuditRepo,
	client tracker.Client,
	opts ...ScheduleOption,
) ScheduleService {
	s := &scheduleService{
		installations: installations,
		projects:      projects,
		holidays:      holidays,
		audits:        audits,
		client:        client,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *scheduleService) Recalculate(ctx context.Context, installationID int64, owner string, projectNumber int, setupFields bool) (*contract.RecalcResult, error) {
	inst, proj, err := loadProject(ctx, s.installations, s.projects, installationID, owner, projectNumber)
	if err != nil {
		return nil, err
	}
	ref := refFor(inst, proj)
	result := &contract.RecalcResult{}

	if setupFields {
		created, err := tracker.EnsureFields(ctx, s.client, inst.ID, ref, inst.Plan)
		if err != nil {
			return nil, err
		}
		result.FieldsCreated = created
		if len(created) > 0 {
			proj.FieldIDs = nil // cache is stale, force re-resolution
		}
	}

	if !proj.FieldIDs.Resolved() {
		if err := s.refreshFields(ctx, inst, proj); err != nil {
			return nil, err
		}
		if !proj.FieldIDs.Resolved() {
			return nil, domain.Validationf("project %s/%d has no Start Date or Target Date field; retry with setupFields", proj.Owner, proj.ProjectNumber)
		}
	}

	set, err := s.client.FetchAllItems(ctx, inst.ID, ref)
	if err != nil {
		return nil, err
	}
	result.TotalItems = len(set.Items)

	items := set.Items
	if limit := inst.Plan.ItemLimit(); limit > 0 && len(items) > limit {
		items = items[:limit]
		result.LimitReached = true
	}
	result.ProcessedItems = len(items)

	cal, err := calendarFor(ctx, s.holidays, inst)
	if err != nil {
		return nil, err
	}

	snap := snapshot.Build(items)
	plan := scheduler.ComputeDates(snap, cal, inst.Settings, s.now())
	if plan.CycleDetected {
		log.Warn().
			Str("owner", proj.Owner).
			Int("projectNumber", proj.ProjectNumber).
			Msg("dependency cycle detected, breaking at first revisited item")
	}

	startID := proj.FieldIDs[domain.FieldStartDate]
	targetID := proj.FieldIDs[domain.FieldTargetDate]

	for _, number := range plan.Order {
		sched := plan.Schedules[number]
		it, ok := snap.Item(number)
		if !ok || sched == nil {
			continue
		}
		// Summaries roll up, completed items keep their history; only
		// leaves are written.
		if sched.Class != domain.ClassLeaf || !sched.Computed() {
			continue
		}

		type write struct {
			fieldID string
			date    time.Time
		}
		var writes []write
		if !sameDate(sched.StartDate, it.StartDate) {
			writes = append(writes, write{startID, *sched.StartDate})
		}
		if !sameDate(sched.TargetDate, it.TargetDate) {
			writes = append(writes, write{targetID, *sched.TargetDate})
		}
		if len(writes) == 0 {
			result.Skipped++
			continue
		}

		failed := false
		for _, w := range writes {
			if err := s.client.WriteDateField(ctx, inst.ID, proj.ExternalID, it.ID, w.fieldID, w.date); err != nil {
				log.Error().Err(err).
					Int("issue", it.Number).
					Str("owner", proj.Owner).
					Int("projectNumber", proj.ProjectNumber).
					Msg("date write failed, item skipped")
				failed = true
				break
			}
		}
		if failed {
			result.Skipped++
			continue
		}
		result.Updated++
	}

	recordAudit(ctx, s.audits, inst.ID, "recalculate", map[string]any{
		"updated":       result.Updated,
		"skipped":       result.Skipped,
		"owner":         proj.Owner,
		"projectNumber": proj.ProjectNumber,
	})
	return result, nil
}

func (s *scheduleService) SaveBaseline(ctx context.Context, installationID int64, owner string, projectNumber int) (*contract.BaselineResult, error) {
	inst, proj, err := loadProject(ctx, s.installations, s.projects, installationID, owner, projectNumber)
	if err != nil {
		return nil, err
	}
	if inst.Plan != domain.PlanPro {
		return nil, &domain.PlanGateError{Feature: "baseline snapshots"}
	}

	if proj.FieldIDs[domain.FieldBaselineStart] == "" || proj.FieldIDs[domain.FieldBaselineTarget] == "" {
		if err := s.refreshFields(ctx, inst, proj); err != nil {
			return nil, err
		}
	}
	baseStartID := proj.FieldIDs[domain.FieldBaselineStart]
	baseTargetID := proj.FieldIDs[domain.FieldBaselineTarget]
	if baseStartID == "" || baseTargetID == "" {
		return nil, domain.Validationf("project %s/%d has no baseline fields; retry recalculation with setupFields", proj.Owner, proj.ProjectNumber)
	}

	set, err := s.client.FetchAllItems(ctx, inst.ID, refFor(inst, proj))
	if err != nil {
		return nil, err
	}

	result := &contract.BaselineResult{}
	for _, it := range set.Items {
		wrote := false
		if it.BaselineStart == nil && it.StartDate != nil {
			if err := s.client.WriteDateField(ctx, inst.ID, proj.ExternalID, it.ID, baseStartID, *it.StartDate); err != nil {
				log.Error().Err(err).Int("issue", it.Number).Msg("baseline start write failed")
				continue
			}
			wrote = true
		}
		if it.BaselineTarget == nil && it.TargetDate != nil {
			if err := s.client.WriteDateField(ctx, inst.ID, proj.ExternalID, it.ID, baseTargetID, *it.TargetDate); err != nil {
				log.Error().Err(err).Int("issue", it.Number).Msg("baseline target write failed")
				continue
			}
			wrote = true
		}
		if wrote {
			result.Saved++
		}
	}

	recordAudit(ctx, s.audits, inst.ID, "save_baseline", map[string]any{
		"saved":         result.Saved,
		"owner":         proj.Owner,
		"projectNumber": proj.ProjectNumber,
	})
	return result, nil
}

func (s *scheduleService) Variance(ctx context.Context, installationID int64, owner string, projectNumber int) (*contract.VarianceReport, error) {
	inst, proj, err := loadProject(ctx, s.installations, s.projects, installationID, owner, projectNumber)
	if err != nil {
		return nil, err
	}
	if inst.Plan != domain.PlanPro {
		return nil, &domain.PlanGateError{Feature: "variance reporting"}
	}

	set, err := s.client.FetchAllItems(ctx, inst.ID, refFor(inst, proj))
	if err != nil {
		return nil, err
	}
	cal, err := calendarFor(ctx, s.holidays, inst)
	if err != nil {
		return nil, err
	}

	report := scheduler.ComputeVariance(snapshot.Build(set.Items), cal)
	report.Owner = proj.Owner
	report.ProjectNumber = proj.ProjectNumber
	report.GeneratedAt = s.now().UTC()
	return report, nil
}

func (s *scheduleService) MarkIssueClosed(ctx context.Context, installationID int64, issueNumber int) error {
	inst, err := s.installations.Get(ctx, installationID)
	if err != nil {
		return err
	}
	projects, err := s.projects.ListByInstallation(ctx, installationID)
	if err != nil {
		return err
	}

	today := calendar.DateOf(s.now())
	for _, proj := range projects {
		fieldID := proj.FieldIDs[domain.FieldActualEndDate]
		if fieldID == "" {
			continue
		}
		set, err := s.client.FetchAllItems(ctx, inst.ID, refFor(inst, proj))
		if err != nil {
			log.Error().Err(err).
				Str("owner", proj.Owner).
				Int("projectNumber", proj.ProjectNumber).
				Msg("fetching items for closed-issue stamp failed")
			continue
		}
		for _, it := range set.Items {
			if it.Number != issueNumber || it.ActualEndDate != nil {
				continue
			}
			if err := s.client.WriteDateField(ctx, inst.ID, proj.ExternalID, it.ID, fieldID, today); err != nil {
				log.Error().Err(err).Int("issue", issueNumber).Msg("actual end write failed")
			}
		}
	}
	return nil
}

func (s *scheduleService) AdjustPastDue(ctx context.Context, installationID int64, owner string, projectNumber int) (*contract.RecalcResult, error) {
	inst, proj, err := loadProject(ctx, s.installations, s.projects, installationID, owner, projectNumber)
	if err != nil {
		return nil, err
	}
	targetID := proj.FieldIDs[domain.FieldTargetDate]
	if targetID == "" {
		if err := s.refreshFields(ctx, inst, proj); err != nil {
			return nil, err
		}
		targetID = proj.FieldIDs[domain.FieldTargetDate]
		if targetID == "" {
			return nil, domain.Validationf("project %s/%d has no Target Date field", proj.Owner, proj.ProjectNumber)
		}
	}

	set, err := s.client.FetchAllItems(ctx, inst.ID, refFor(inst, proj))
	if err != nil {
		return nil, err
	}

	today := calendar.DateOf(s.now())
	moved := 0
	for _, it := range set.Items {
		if it.Completed() || it.TargetDate == nil {
			continue
		}
		if calendar.DateOf(*it.TargetDate).Before(today) {
			if err := s.client.WriteDateField(ctx, inst.ID, proj.ExternalID, it.ID, targetID, today); err != nil {
				log.Error().Err(err).Int("issue", it.Number).Msg("past-due target write failed")
				continue
			}
			moved++
		}
	}
	if moved == 0 {
		return &contract.RecalcResult{TotalItems: len(set.Items)}, nil
	}

	recordAudit(ctx, s.audits, inst.ID, "adjust_past_due", map[string]any{
		"moved":         moved,
		"owner":         proj.Owner,
		"projectNumber": proj.ProjectNumber,
	})
	// Cascade the moved targets through dependents.
	return s.Recalculate(ctx, installationID, proj.Owner, projectNumber, false)
}

func (s *scheduleService) SweepPastDue(ctx context.Context) {
	projects, err := s.projects.ListAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("past-due sweep: listing projects failed")
		return
	}

	installations := make(map[int64]*domain.Installation)
	for _, proj := range projects {
		inst, ok := installations[proj.InstallationID]
		if !ok {
			inst, err = s.installations.Get(ctx, proj.InstallationID)
			if err != nil {
				log.Error().Err(err).Int64("installation", proj.InstallationID).Msg("past-due sweep: loading installation failed")
				installations[proj.InstallationID] = nil
				continue
			}
			installations[proj.InstallationID] = inst
		}
		if inst == nil || inst.Suspended() {
			continue
		}
		if _, err := s.AdjustPastDue(ctx, proj.InstallationID, proj.Owner, proj.ProjectNumber); err != nil {
			log.Error().Err(err).
				Str("owner", proj.Owner).
				Int("projectNumber", proj.ProjectNumber).
				Msg("past-due sweep: project adjustment failed")
		}
	}
}

// refreshFields re-resolves the field-id cache from upstream and persists it.
func (s *scheduleService) refreshFields(ctx context.Context, inst *domain.Installation, proj *domain.TrackedProject) error {
	projectID, ids, err := tracker.ResolveFieldIDs(ctx, s.client, inst.ID, refFor(inst, proj))
	if err != nil {
		return err
	}
	proj.ExternalID = projectID
	proj.FieldIDs = ids
	return s.projects.UpdateFieldIDs(ctx, proj.ID, ids)
}

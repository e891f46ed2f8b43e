package service

import (
	"context"
	"sort"
	"time"

	"github.com/alexanderramin/autoplan/internal/contract"
	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/alexanderramin/autoplan/internal/repository"
	"github.com/alexanderramin/autoplan/internal/scheduler"
	"github.com/alexanderramin/autoplan/internal/snapshot"
	"github.com/alexanderramin/autoplan/internal/tracker"
)

type reportService struct {
	installations repository.InstallationRepo
	projects      repository.ProjectRepo
	holidays      repository.HolidayRepo
	client        tracker.Client
	now           func() time.Time
}

// ReportOption adjusts the report service; tests pin the clock.
type ReportOption func(*reportService)

// WithReportClock replaces the time source used for "today".
func WithReportClock(now func() time.Time) ReportOption {
	return func(s *reportService) { s.now = now }
}

// NewReportService wires the read-only project views.
func NewReportService(
	installations repository.InstallationRepo,
	projects repository.ProjectRepo,
	holidays repository.HolidayRepo,
	client tracker.Client,
	opts ...ReportOption,
) ReportService {
	s := &reportService{
		installations: installations,
		projects:      projects,
		holidays:      holidays,
		client:        client,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// load pulls the project's items and builds the snapshot reports run over.
func (s *reportService) load(ctx context.Context, installationID int64, projectNumber int) (*domain.Installation, *domain.TrackedProject, *snapshot.Snapshot, error) {
	inst, proj, err := loadProject(ctx, s.installations, s.projects, installationID, "", projectNumber)
	if err != nil {
		return nil, nil, nil, err
	}
	set, err := s.client.FetchAllItems(ctx, inst.ID, refFor(inst, proj))
	if err != nil {
		return nil, nil, nil, err
	}
	return inst, proj, snapshot.Build(set.Items), nil
}

func (s *reportService) DependencyGraph(ctx context.Context, installationID int64, projectNumber int) (*contract.DependencyGraph, error) {
	inst, proj, snap, err := s.load(ctx, installationID, projectNumber)
	if err != nil {
		return nil, err
	}
	cal, err := calendarFor(ctx, s.holidays, inst)
	if err != nil {
		return nil, err
	}

	plan := scheduler.ComputeDates(snap, cal, inst.Settings, s.now())
	cpm := scheduler.CriticalPath(snap, plan)

	critical := make(map[int]bool, len(cpm.Nodes))
	slack := make(map[int]float64, len(cpm.Nodes)+len(cpm.NodesWithSlack))
	for _, node := range cpm.Nodes {
		critical[node.Number] = true
		slack[node.Number] = node.Slack
	}
	for _, node := range cpm.NodesWithSlack {
		slack[node.Number] = node.Slack
	}

	graph := &contract.DependencyGraph{
		Owner:         proj.Owner,
		ProjectNumber: proj.ProjectNumber,
		GeneratedAt:   s.now().UTC(),
		CriticalPath:  *cpm,
	}

	blocked := make(map[int]bool) // has at least one incoming edge
	blocking := make(map[int]bool)
	for _, number := range snap.Order {
		it := snap.Items[number]
		sched := plan.Schedules[number]

		node := contract.GraphNode{
			Number:    number,
			Title:     it.Title,
			State:     string(it.State),
			Completed: it.Completed(),
			Critical:  critical[number],
			Slack:     slack[number],
		}
		if sched != nil {
			node.Duration = sched.Duration
			start, target := sched.StartDate, sched.TargetDate
			if start == nil {
				start = it.StartDate
			}
			if target == nil {
				target = it.TargetDate
			}
			node.StartDate = contract.FormatDate(start)
			node.TargetDate = contract.FormatDate(target)
		}
		graph.Nodes = append(graph.Nodes, node)

		for _, blocker := range snap.Blockers(number) {
			graph.Edges = append(graph.Edges, contract.GraphEdge{From: blocker, To: number})
			blocked[number] = true
			blocking[blocker] = true
		}
	}

	graph.Stats = contract.GraphStats{
		TotalNodes: len(graph.Nodes),
		TotalEdges: len(graph.Edges),
	}
	for _, number := range snap.Order {
		if !blocked[number] {
			graph.Stats.Roots++
		}
		if !blocking[number] {
			graph.Stats.Leaves++
		}
	}
	sort.Slice(graph.Edges, func(i, j int) bool {
		if graph.Edges[i].From != graph.Edges[j].From {
			return graph.Edges[i].From < graph.Edges[j].From
		}
		return graph.Edges[i].To < graph.Edges[j].To
	})
	return graph, nil
}

func (s *reportService) Resources(ctx context.Context, installationID int64, projectNumber int) (*contract.ResourceSummary, error) {
	inst, proj, snap, err := s.load(ctx, installationID, projectNumber)
	if err != nil {
		return nil, err
	}
	summary := scheduler.AggregateResources(snap, inst.Settings)
	summary.Owner = proj.Owner
	summary.ProjectNumber = proj.ProjectNumber
	summary.GeneratedAt = s.now().UTC()
	return summary, nil
}

func (s *reportService) Milestones(ctx context.Context, installationID int64, projectNumber int) (*contract.MilestoneReport, error) {
	inst, proj, snap, err := s.load(ctx, installationID, projectNumber)
	if err != nil {
		return nil, err
	}
	report := scheduler.AggregateMilestones(snap, inst.Settings, s.now())
	report.Owner = proj.Owner
	report.ProjectNumber = proj.ProjectNumber
	report.GeneratedAt = s.now().UTC()
	return report, nil
}

func (s *reportService) Risks(ctx context.Context, installationID int64, projectNumber int) (*contract.RiskReport, error) {
	_, proj, snap, err := s.load(ctx, installationID, projectNumber)
	if err != nil {
		return nil, err
	}
	report := scheduler.ScoreProject(snap, s.now())
	report.Owner = proj.Owner
	report.ProjectNumber = proj.ProjectNumber
	report.GeneratedAt = s.now().UTC()
	return report, nil
}

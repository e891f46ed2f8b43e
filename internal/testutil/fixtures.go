package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/google/uuid"
)

var testInstallationCounter atomic.Int64

// Date is shorthand for a UTC midnight date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Installation options
type InstallationOption func(*domain.Installation)

func WithPlan(p domain.PlanTier) InstallationOption {
	return func(in *domain.Installation) {
		in.Plan = p
	}
}

func WithSubscription(s domain.SubscriptionStatus) InstallationOption {
	return func(in *domain.Installation) {
		in.SubStatus = s
	}
}

func WithOAuthToken(tok string) InstallationOption {
	return func(in *domain.Installation) {
		in.OAuthToken = tok
	}
}

func WithOwnerKind(k domain.OwnerKind) InstallationOption {
	return func(in *domain.Installation) {
		in.OwnerKind = k
	}
}

func WithSettings(s domain.Settings) InstallationOption {
	return func(in *domain.Installation) {
		in.Settings = s
	}
}

func NewTestInstallation(owner string, opts ...InstallationOption) *domain.Installation {
	now := time.Now().UTC()
	in := &domain.Installation{
		ID:         9000 + testInstallationCounter.Add(1),
		Owner:      owner,
		OwnerKind:  domain.OwnerOrganization,
		Plan:       domain.PlanFree,
		OAuthToken: "gho_test_" + owner,
		Settings:   domain.DefaultSettings(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// TrackedProject options
type ProjectOption func(*domain.TrackedProject)

func WithRepo(repo string) ProjectOption {
	return func(p *domain.TrackedProject) {
		p.Repo = repo
	}
}

func WithExternalID(id string) ProjectOption {
	return func(p *domain.TrackedProject) {
		p.ExternalID = id
	}
}

func WithFieldID(name domain.FieldName, id string) ProjectOption {
	return func(p *domain.TrackedProject) {
		if p.FieldIDs == nil {
			p.FieldIDs = domain.FieldIDs{}
		}
		p.FieldIDs[name] = id
	}
}

// WithResolvedFields fills every known field with a synthetic id.
func WithResolvedFields() ProjectOption {
	return func(p *domain.TrackedProject) {
		p.FieldIDs = domain.FieldIDs{}
		for i, name := range domain.KnownFields {
			p.FieldIDs[name] = fmt.Sprintf("PVTF_f%02d", i+1)
		}
	}
}

func NewTestProject(installationID int64, owner string, number int, opts ...ProjectOption) *domain.TrackedProject {
	now := time.Now().UTC()
	p := &domain.TrackedProject{
		InstallationID: installationID,
		Owner:          owner,
		ProjectNumber:  number,
		ExternalID:     fmt.Sprintf("PVT_test%04d", number),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Item options
type ItemOption func(*domain.Item)

func WithTitle(title string) ItemOption {
	return func(it *domain.Item) {
		it.Title = title
	}
}

func WithParent(parent int) ItemOption {
	return func(it *domain.Item) {
		it.Parent = &parent
	}
}

func WithChildren(numbers ...int) ItemOption {
	return func(it *domain.Item) {
		it.SubIssues = numbers
	}
}

func WithBlockers(numbers ...int) ItemOption {
	return func(it *domain.Item) {
		it.BlockedBy = numbers
	}
}

func WithStart(d time.Time) ItemOption {
	return func(it *domain.Item) {
		it.StartDate = &d
	}
}

func WithTarget(d time.Time) ItemOption {
	return func(it *domain.Item) {
		it.TargetDate = &d
	}
}

func WithActualEnd(d time.Time) ItemOption {
	return func(it *domain.Item) {
		it.ActualEndDate = &d
	}
}

func WithBaseline(start, target time.Time) ItemOption {
	return func(it *domain.Item) {
		it.BaselineStart = &start
		it.BaselineTarget = &target
	}
}

func WithEstimate(e domain.Estimate) ItemOption {
	return func(it *domain.Item) {
		it.Estimate = e
	}
}

func WithConfidence(c domain.Confidence) ItemOption {
	return func(it *domain.Item) {
		it.Confidence = c
	}
}

func WithStatus(status string) ItemOption {
	return func(it *domain.Item) {
		it.Status = status
	}
}

func WithPercentComplete(p int) ItemOption {
	return func(it *domain.Item) {
		it.PercentComplete = &p
	}
}

func WithMilestone(m *domain.Milestone) ItemOption {
	return func(it *domain.Item) {
		it.Milestone = m
	}
}

func WithAssignees(logins ...string) ItemOption {
	return func(it *domain.Item) {
		for _, login := range logins {
			it.Assignees = append(it.Assignees, domain.Assignee{Login: login})
		}
	}
}

// Closed marks the item's issue closed at the given time.
func Closed(at time.Time) ItemOption {
	return func(it *domain.Item) {
		it.State = domain.ItemClosed
		it.ClosedAt = &at
	}
}

func NewTestItem(number int, opts ...ItemOption) *domain.Item {
	it := &domain.Item{
		ID:     fmt.Sprintf("PVTI_test%04d", number),
		Number: number,
		Title:  fmt.Sprintf("Item %d", number),
		State:  domain.ItemOpen,
	}
	for _, opt := range opts {
		opt(it)
	}
	return it
}

// Risk options
type RiskOption func(*domain.RiskEntry)

func WithSeverity(s domain.RiskLevel) RiskOption {
	return func(r *domain.RiskEntry) {
		r.Severity = s
	}
}

func WithRiskStatus(s domain.RiskStatus) RiskOption {
	return func(r *domain.RiskEntry) {
		r.Status = s
	}
}

func WithLinkedIssues(numbers ...int) RiskOption {
	return func(r *domain.RiskEntry) {
		r.LinkedIssues = numbers
	}
}

func NewTestRisk(installationID int64, projectNumber int, title string, opts ...RiskOption) *domain.RiskEntry {
	now := time.Now().UTC()
	r := &domain.RiskEntry{
		ID:             uuid.New().String(),
		InstallationID: installationID,
		ProjectNumber:  projectNumber,
		Title:          title,
		Severity:       domain.RiskMedium,
		Status:         domain.RiskOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

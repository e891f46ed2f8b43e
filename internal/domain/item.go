package domain

import "time"

// Item is one issue as surfaced into a tracked project, together with the
// field values the engine reads. Items live only for the duration of a
// recomputation; nothing here is persisted locally.
type Item struct {
	ID     string // external project-item node id
	Number int    // issue number, unique within the owner/repo
	Title  string
	State  ItemState
	// ClosedAt is the issue close timestamp, used as the fallback end date
	// for completed items without an Actual End Date.
	ClosedAt *time.Time

	Parent    *int  // parent issue number, nil for roots
	SubIssues []int // child issue numbers
	BlockedBy []int // blocker issue numbers

	Milestone *Milestone
	Assignees []Assignee

	StartDate       *time.Time
	TargetDate      *time.Time
	ActualEndDate   *time.Time
	BaselineStart   *time.Time
	BaselineTarget  *time.Time
	Estimate        Estimate   // "" when unset
	Confidence      Confidence // "" when unset
	PercentComplete *int       // 0..100, parsed from a text/number field
	Status          string     // free text; StatusDone is terminal
}

// Milestone is the upstream milestone an item belongs to.
type Milestone struct {
	Number      int
	Title       string
	Description string
	DueOn       *time.Time
	State       string // "open" or "closed"
	URL         string
}

// Assignee is an upstream user an item is assigned to.
type Assignee struct {
	Login     string
	Name      string
	AvatarURL string
}

// Completed reports whether the item is terminal: the issue is closed or the
// status field says Done.
func (it *Item) Completed() bool {
	return it.State == ItemClosed || it.Status == StatusDone
}

// Classify tags the item for dispatch by the date engine. Completion wins
// over having children.
func (it *Item) Classify() ItemClass {
	switch {
	case it.Completed():
		return ClassCompleted
	case len(it.SubIssues) > 0:
		return ClassSummary
	default:
		return ClassLeaf
	}
}

// Progress returns the percent-complete value, or 0 when unset.
func (it *Item) Progress() int {
	if it.PercentComplete == nil {
		return 0
	}
	return *it.PercentComplete
}

package tracker

import (
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/autoplan/internal/domain"
)

// Wire DTOs for the items query.

type ownerData struct {
	ProjectV2 *projectItemsNode `json:"projectV2"`
}

type projectItemsNode struct {
	ID    string `json:"id"`
	Items struct {
		Nodes    []itemNode `json:"nodes"`
		PageInfo pageInfo   `json:"pageInfo"`
	} `json:"items"`
}

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type itemNode struct {
	ID          string       `json:"id"`
	Content     issueContent `json:"content"`
	FieldValues struct {
		Nodes []fieldValueNode `json:"nodes"`
	} `json:"fieldValues"`
}

type issueContent struct {
	Number    int            `json:"number"`
	Title     string         `json:"title"`
	State     string         `json:"state"`
	ClosedAt  *time.Time     `json:"closedAt"`
	Milestone *milestoneNode `json:"milestone"`
	Parent    *numberNode    `json:"parent"`
	SubIssues numberList     `json:"subIssues"`
	BlockedBy numberList     `json:"blockedBy"`
	Assignees struct {
		Nodes []assigneeNode `json:"nodes"`
	} `json:"assignees"`
}

type milestoneNode struct {
	Number      int        `json:"number"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueOn       *time.Time `json:"dueOn"`
	State       string     `json:"state"`
	URL         string     `json:"url"`
}

type numberNode struct {
	Number int `json:"number"`
}

type numberList struct {
	Nodes []numberNode `json:"nodes"`
}

type assigneeNode struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// fieldValueNode is the union of the four field-value variants; exactly one
// of Date, Name, Number, or Text is populated per node.
type fieldValueNode struct {
	Field struct {
		Name string `json:"name"`
	} `json:"field"`
	Date   string   `json:"date"`
	Name   string   `json:"name"`
	Number *float64 `json:"number"`
	Text   string   `json:"text"`
}

type ownerFieldsData struct {
	ProjectV2 *projectFieldsNode `json:"projectV2"`
}

type projectFieldsNode struct {
	ID     string `json:"id"`
	Fields struct {
		Nodes []fieldNode `json:"nodes"`
	} `json:"fields"`
}

type fieldNode struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	DataType string `json:"dataType"`
}

type createFieldData struct {
	CreateProjectV2Field struct {
		ProjectV2Field struct {
			ID string `json:"id"`
		} `json:"projectV2Field"`
	} `json:"createProjectV2Field"`
}

// mapItem converts one wire node into a domain item. Draft items and pull
// requests surface without an issue number and are dropped. Field values
// bind to the nine known fields by case-sensitive display-name match.
func mapItem(node itemNode) *domain.Item {
	content := node.Content
	if content.Number == 0 {
		return nil
	}

	it := &domain.Item{
		ID:       node.ID,
		Number:   content.Number,
		Title:    content.Title,
		State:    domain.ItemOpen,
		ClosedAt: content.ClosedAt,
	}
	if strings.EqualFold(content.State, "closed") {
		it.State = domain.ItemClosed
	}
	if content.Parent != nil {
		parent := content.Parent.Number
		it.Parent = &parent
	}
	for _, sub := range content.SubIssues.Nodes {
		it.SubIssues = append(it.SubIssues, sub.Number)
	}
	for _, blocker := range content.BlockedBy.Nodes {
		it.BlockedBy = append(it.BlockedBy, blocker.Number)
	}
	if content.Milestone != nil {
		it.Milestone = &domain.Milestone{
			Number:      content.Milestone.Number,
			Title:       content.Milestone.Title,
			Description: content.Milestone.Description,
			DueOn:       content.Milestone.DueOn,
			State:       strings.ToLower(content.Milestone.State),
			URL:         content.Milestone.URL,
		}
	}
	for _, a := range content.Assignees.Nodes {
		it.Assignees = append(it.Assignees, domain.Assignee{
			Login:     a.Login,
			Name:      a.Name,
			AvatarURL: a.AvatarURL,
		})
	}

	for _, fv := range node.FieldValues.Nodes {
		applyFieldValue(it, fv)
	}
	return it
}

func applyFieldValue(it *domain.Item, fv fieldValueNode) {
	switch domain.FieldName(fv.Field.Name) {
	case domain.FieldStartDate:
		it.StartDate = parseWireDate(fv.Date)
	case domain.FieldTargetDate:
		it.TargetDate = parseWireDate(fv.Date)
	case domain.FieldActualEndDate:
		it.ActualEndDate = parseWireDate(fv.Date)
	case domain.FieldBaselineStart:
		it.BaselineStart = parseWireDate(fv.Date)
	case domain.FieldBaselineTarget:
		it.BaselineTarget = parseWireDate(fv.Date)
	case domain.FieldEstimate:
		if fv.Name != "" {
			it.Estimate = domain.Estimate(fv.Name)
		}
	case domain.FieldConfidence:
		if fv.Name != "" {
			it.Confidence = domain.Confidence(fv.Name)
		}
	case domain.FieldPercentComplete:
		it.PercentComplete = parsePercent(fv)
	case domain.FieldStatus:
		if fv.Name != "" {
			it.Status = fv.Name
		} else if fv.Text != "" {
			it.Status = fv.Text
		}
	}
}

func parseWireDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &d
}

// parsePercent accepts the percent-complete value from a number, select, or
// text field. Values like "75%" clamp to 0..100; garbage reads as unset.
func parsePercent(fv fieldValueNode) *int {
	var pct int
	switch {
	case fv.Number != nil:
		pct = int(*fv.Number)
	case fv.Name != "" || fv.Text != "":
		raw := fv.Name
		if raw == "" {
			raw = fv.Text
		}
		raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil
		}
		pct = parsed
	default:
		return nil
	}

	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return &pct
}

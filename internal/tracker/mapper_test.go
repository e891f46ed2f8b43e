package tracker

import (
	"encoding/json"
	"testing"

	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const itemNodeJSON = `{
  "id": "PVTI_abc123",
  "content": {
    "number": 42,
    "title": "Wire the ingestion path",
    "state": "CLOSED",
    "closedAt": "2024-02-02T12:00:00Z",
    "milestone": {
      "number": 3,
      "title": "Beta",
      "dueOn": "2024-06-01T00:00:00Z",
      "state": "OPEN",
      "url": "https://example.test/milestone/3"
    },
    "parent": {"number": 40},
    "subIssues": {"nodes": [{"number": 43}, {"number": 44}]},
    "blockedBy": {"nodes": [{"number": 41}]},
    "assignees": {"nodes": [{"login": "ada", "name": "Ada L", "avatarUrl": "https://example.test/a.png"}]}
  },
  "fieldValues": {
    "nodes": [
      {"field": {"name": "Start Date"}, "date": "2024-01-08"},
      {"field": {"name": "Target Date"}, "date": "2024-01-19"},
      {"field": {"name": "Estimate"}, "name": "M"},
      {"field": {"name": "Confidence"}, "name": "Low"},
      {"field": {"name": "% Complete"}, "text": "75%"},
      {"field": {"name": "Status"}, "name": "In Progress"},
      {"field": {"name": "start date"}, "date": "1999-01-01"}
    ]
  }
}`

func TestMapItem_FullIssue(t *testing.T) {
	var node itemNode
	require.NoError(t, json.Unmarshal([]byte(itemNodeJSON), &node))

	it := mapItem(node)
	require.NotNil(t, it)

	assert.Equal(t, "PVTI_abc123", it.ID)
	assert.Equal(t, 42, it.Number)
	assert.Equal(t, domain.ItemClosed, it.State)
	require.NotNil(t, it.ClosedAt)

	require.NotNil(t, it.Parent)
	assert.Equal(t, 40, *it.Parent)
	assert.Equal(t, []int{43, 44}, it.SubIssues)
	assert.Equal(t, []int{41}, it.BlockedBy)

	require.NotNil(t, it.Milestone)
	assert.Equal(t, 3, it.Milestone.Number)
	assert.Equal(t, "open", it.Milestone.State)

	require.Len(t, it.Assignees, 1)
	assert.Equal(t, "ada", it.Assignees[0].Login)

	require.NotNil(t, it.StartDate)
	assert.Equal(t, "2024-01-08", it.StartDate.Format("2006-01-02"),
		"bound case-sensitively; the lowercase duplicate is ignored")
	assert.Equal(t, domain.EstimateM, it.Estimate)
	assert.Equal(t, domain.ConfidenceLow, it.Confidence)
	require.NotNil(t, it.PercentComplete)
	assert.Equal(t, 75, *it.PercentComplete)
	assert.Equal(t, "In Progress", it.Status)
}

func TestMapItem_DraftItemsDropped(t *testing.T) {
	// Draft items have no issue content behind them.
	assert.Nil(t, mapItem(itemNode{ID: "PVTI_draft"}))
}

func TestParsePercent(t *testing.T) {
	number := func(f float64) fieldValueNode { return fieldValueNode{Number: &f} }

	tests := []struct {
		name string
		in   fieldValueNode
		want *int
	}{
		{"number value", number(60), intPtr(60)},
		{"negative clamps to zero", number(-5), intPtr(0)},
		{"over 100 clamps", number(140), intPtr(100)},
		{"text with percent sign", fieldValueNode{Text: " 75% "}, intPtr(75)},
		{"select option", fieldValueNode{Name: "50"}, intPtr(50)},
		{"garbage text", fieldValueNode{Text: "half done"}, nil},
		{"empty", fieldValueNode{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parsePercent(tt.in))
		})
	}
}

func intPtr(v int) *int { return &v }

// Package snapshot holds the in-memory working set of one recomputation: the
// project's items keyed by issue number plus the adjacency maps derived from
// them. A snapshot is built once per pass and discarded; nothing survives
// across recomputations.
package snapshot

import (
	"sort"

	"github.com/alexanderramin/autoplan/internal/domain"
)

// Snapshot is the loaded project working set.
type Snapshot struct {
	// Items maps issue number to item.
	Items map[int]*domain.Item
	// Order preserves the pagination order; plan caps and traversal use it.
	Order []int
	// Dependencies maps issue number to its blockers, filtered to issues
	// present in the snapshot. Unknown blocker numbers are dropped.
	Dependencies map[int][]int
	// Children maps a parent issue number to its sub-issues, merged from the
	// parent's sub-issue list and the children's parent pointers.
	Children map[int][]int
	// Milestones maps milestone number to member issue numbers.
	Milestones map[int][]int
}

// Build indexes items in a single pass.
func Build(items []*domain.Item) *Snapshot {
	s := &Snapshot{
		Items:        make(map[int]*domain.Item, len(items)),
		Order:        make([]int, 0, len(items)),
		Dependencies: make(map[int][]int),
		Children:     make(map[int][]int),
		Milestones:   make(map[int][]int),
	}

	for _, it := range items {
		if _, seen := s.Items[it.Number]; !seen {
			s.Order = append(s.Order, it.Number)
		}
		s.Items[it.Number] = it
	}

	childSets := make(map[int]map[int]bool)
	addChild := func(parent, child int) {
		set := childSets[parent]
		if set == nil {
			set = make(map[int]bool)
			childSets[parent] = set
		}
		set[child] = true
	}

	for _, number := range s.Order {
		it := s.Items[number]

		for _, blocker := range it.BlockedBy {
			if _, ok := s.Items[blocker]; ok {
				s.Dependencies[number] = append(s.Dependencies[number], blocker)
			}
		}

		for _, sub := range it.SubIssues {
			if _, ok := s.Items[sub]; ok {
				addChild(number, sub)
			}
		}
		if it.Parent != nil {
			if _, ok := s.Items[*it.Parent]; ok {
				addChild(*it.Parent, number)
			}
		}

		if it.Milestone != nil {
			ms := it.Milestone.Number
			s.Milestones[ms] = append(s.Milestones[ms], number)
		}
	}

	for parent, set := range childSets {
		children := make([]int, 0, len(set))
		for child := range set {
			children = append(children, child)
		}
		sort.Ints(children)
		s.Children[parent] = children
	}

	return s
}

// Item returns the item for an issue number.
func (s *Snapshot) Item(number int) (*domain.Item, bool) {
	it, ok := s.Items[number]
	return it, ok
}

// Blockers returns the resolvable blockers of an issue.
func (s *Snapshot) Blockers(number int) []int {
	return s.Dependencies[number]
}

// ChildrenOf returns the sub-issues of an issue.
func (s *Snapshot) ChildrenOf(number int) []int {
	return s.Children[number]
}

// Len reports how many distinct items the snapshot holds.
func (s *Snapshot) Len() int {
	return len(s.Items)
}

// HasChildren reports whether an issue has at least one resolvable sub-issue.
func (s *Snapshot) HasChildren(number int) bool {
	return len(s.Children[number]) > 0
}

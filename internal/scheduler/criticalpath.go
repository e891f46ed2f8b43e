package scheduler

import (
	"math"
	"sort"

	"github.com/alexanderramin/autoplan/internal/contract"
	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/alexanderramin/autoplan/internal/snapshot"
)

// slackEpsilon is the tolerance below which a node counts as critical.
const slackEpsilon = 1e-3

// CriticalPath runs the CPM forward and backward passes over the open-leaf
// dependency DAG. Only leaves carry duration; summaries are represented by
// their children and completed items contribute nothing. Edges to nodes
// outside the participating set are dropped.
func CriticalPath(snap *snapshot.Snapshot, plan *Plan) *contract.CriticalPathView {
	view := &contract.CriticalPathView{}

	participating := make(map[int]bool)
	for _, number := range plan.Order {
		if sched := plan.Schedules[number]; sched != nil && sched.Class == domain.ClassLeaf {
			participating[number] = true
		}
	}
	if len(participating) == 0 {
		return view
	}

	successors := make(map[int][]int)
	for number := range participating {
		for _, blocker := range snap.Blockers(number) {
			if participating[blocker] {
				successors[blocker] = append(successors[blocker], number)
			}
		}
	}

	duration := func(n int) float64 {
		return float64(plan.Schedules[n].Duration)
	}

	// Forward pass in topological order.
	earlyStart := make(map[int]float64, len(participating))
	earlyFinish := make(map[int]float64, len(participating))
	projectEnd := 0.0
	for _, number := range plan.Order {
		if !participating[number] {
			continue
		}
		es := 0.0
		for _, blocker := range snap.Blockers(number) {
			if participating[blocker] && earlyFinish[blocker] > es {
				es = earlyFinish[blocker]
			}
		}
		earlyStart[number] = es
		earlyFinish[number] = es + duration(number)
		if earlyFinish[number] > projectEnd {
			projectEnd = earlyFinish[number]
		}
	}

	// Backward pass in reverse topological order. Sinks finish at the
	// project end.
	lateStart := make(map[int]float64, len(participating))
	lateFinish := make(map[int]float64, len(participating))
	for i := len(plan.Order) - 1; i >= 0; i-- {
		number := plan.Order[i]
		if !participating[number] {
			continue
		}
		lf := projectEnd
		for _, succ := range successors[number] {
			if lateStart[succ] < lf {
				lf = lateStart[succ]
			}
		}
		lateFinish[number] = lf
		lateStart[number] = lf - duration(number)
	}

	view.TotalDuration = projectEnd
	for number := range participating {
		it, _ := snap.Item(number)
		title := ""
		if it != nil {
			title = it.Title
		}
		node := contract.PathNode{
			Number:      number,
			Title:       title,
			Duration:    duration(number),
			EarlyStart:  earlyStart[number],
			EarlyFinish: earlyFinish[number],
			LateStart:   lateStart[number],
			LateFinish:  lateFinish[number],
			Slack:       lateStart[number] - earlyStart[number],
		}
		if math.Abs(node.Slack) < slackEpsilon {
			view.Nodes = append(view.Nodes, node)
		} else {
			view.NodesWithSlack = append(view.NodesWithSlack, node)
		}
	}

	sort.Slice(view.Nodes, func(i, j int) bool {
		if view.Nodes[i].EarlyStart != view.Nodes[j].EarlyStart {
			return view.Nodes[i].EarlyStart < view.Nodes[j].EarlyStart
		}
		return view.Nodes[i].Number < view.Nodes[j].Number
	})
	sort.Slice(view.NodesWithSlack, func(i, j int) bool {
		if view.NodesWithSlack[i].Slack != view.NodesWithSlack[j].Slack {
			return view.NodesWithSlack[i].Slack < view.NodesWithSlack[j].Slack
		}
		return view.NodesWithSlack[i].Number < view.NodesWithSlack[j].Number
	})
	return view
}

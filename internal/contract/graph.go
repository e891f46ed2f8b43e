package contract

import "time"

// GraphNode is one item in the dependency graph response.
type GraphNode struct {
	Number     int     `json:"number"`
	Title      string  `json:"title"`
	State      string  `json:"state"`
	Completed  bool    `json:"completed"`
	StartDate  string  `json:"startDate,omitempty"`
	TargetDate string  `json:"targetDate,omitempty"`
	Duration   int     `json:"duration"`
	Critical   bool    `json:"critical"`
	Slack      float64 `json:"slack"`
}

// GraphEdge points from a blocker to the item it blocks.
type GraphEdge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// PathNode is one item's CPM timing.
type PathNode struct {
	Number      int     `json:"number"`
	Title       string  `json:"title"`
	Duration    float64 `json:"duration"`
	EarlyStart  float64 `json:"earlyStart"`
	EarlyFinish float64 `json:"earlyFinish"`
	LateStart   float64 `json:"lateStart"`
	LateFinish  float64 `json:"lateFinish"`
	Slack       float64 `json:"slack"`
}

// CriticalPathView reports the CPM result: zero-slack nodes in earlyStart
// order, the project duration, and the remaining nodes ordered by slack.
type CriticalPathView struct {
	Nodes          []PathNode `json:"nodes"`
	TotalDuration  float64    `json:"totalDuration"`
	NodesWithSlack []PathNode `json:"nodesWithSlack"`
}

// GraphStats summarizes graph shape.
type GraphStats struct {
	TotalNodes int `json:"totalNodes"`
	TotalEdges int `json:"totalEdges"`
	Roots      int `json:"roots"`
	Leaves     int `json:"leaves"`
}

// DependencyGraph is the full graph response for a project.
type DependencyGraph struct {
	Owner         string           `json:"owner"`
	ProjectNumber int              `json:"projectNumber"`
	GeneratedAt   time.Time        `json:"generatedAt"`
	Nodes         []GraphNode      `json:"nodes"`
	Edges         []GraphEdge      `json:"edges"`
	CriticalPath  CriticalPathView `json:"criticalPath"`
	Stats         GraphStats       `json:"stats"`
}

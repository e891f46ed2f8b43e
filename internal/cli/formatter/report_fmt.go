package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/autoplan/internal/contract"
	"github.com/alexanderramin/autoplan/internal/domain"
)

func orDash(s string) string {
	if s == "" {
		return Dim("—")
	}
	return s
}

// FormatRecalc summarizes one recalculation pass.
func FormatRecalc(r *contract.RecalcResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Updated %d of %d items (%d skipped)\n", r.Updated, r.ProcessedItems, r.Skipped)
	if r.LimitReached {
		fmt.Fprintf(&b, "%s\n", StyleYellow.Render(
			fmt.Sprintf("Free plan limit reached: processed %d of %d items", r.ProcessedItems, r.TotalItems)))
	}
	if len(r.FieldsCreated) > 0 {
		fmt.Fprintf(&b, "Created fields: %s\n", strings.Join(r.FieldsCreated, ", "))
	}
	return b.String()
}

// FormatProjectList renders tracked projects as a table.
func FormatProjectList(projects []*domain.TrackedProject) string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			p.Owner,
			fmt.Sprintf("%d", p.ProjectNumber),
			p.CreatedAt.Format("2006-01-02"),
		})
	}
	return RenderTable([]string{"OWNER", "PROJECT", "TRACKED"}, rows)
}

// FormatVariance renders the baseline comparison: per-item drift plus the
// bucket summary.
func FormatVariance(r *contract.VarianceReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", Header(fmt.Sprintf("Variance — %s #%d", r.Owner, r.ProjectNumber)))

	rows := make([][]string, 0, len(r.Items))
	for _, item := range r.Items {
		drift := fmt.Sprintf("%+d", item.VarianceDays)
		switch item.Status {
		case domain.VarianceBehind:
			drift = StyleRed.Render(drift)
		case domain.VarianceAhead:
			drift = StyleGreen.Render(drift)
		default:
			drift = Dim(drift)
		}
		rows = append(rows, []string{
			fmt.Sprintf("#%d", item.Number),
			item.Title,
			orDash(item.BaselineTarget),
			orDash(item.TargetDate),
			drift,
			string(item.Status),
		})
	}
	b.WriteString(RenderTable([]string{"ITEM", "TITLE", "BASELINE", "CURRENT", "DAYS", "STATUS"}, rows))

	s := r.Summary
	fmt.Fprintf(&b, "\n%s ahead, %s on track, %s behind, %d without baseline\n",
		StyleGreen.Render(fmt.Sprintf("%d", s.Ahead)),
		StyleFg.Render(fmt.Sprintf("%d", s.OnTrack)),
		StyleRed.Render(fmt.Sprintf("%d", s.Behind)),
		s.NoBaseline)
	return b.String()
}

// FormatDependencyGraph renders the graph summary and the critical path.
func FormatDependencyGraph(g *contract.DependencyGraph) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", Header(fmt.Sprintf("Dependencies — %s #%d", g.Owner, g.ProjectNumber)))
	fmt.Fprintf(&b, "%d items, %d edges, %d roots, %d leaves\n\n",
		g.Stats.TotalNodes, g.Stats.TotalEdges, g.Stats.Roots, g.Stats.Leaves)

	rows := make([][]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		marker := ""
		if n.Critical {
			marker = StyleRed.Render("critical")
		} else if !n.Completed {
			marker = Dim(fmt.Sprintf("slack %.0f", n.Slack))
		}
		rows = append(rows, []string{
			fmt.Sprintf("#%d", n.Number),
			n.Title,
			orDash(n.StartDate),
			orDash(n.TargetDate),
			fmt.Sprintf("%d", n.Duration),
			marker,
		})
	}
	b.WriteString(RenderTable([]string{"ITEM", "TITLE", "START", "TARGET", "DAYS", ""}, rows))

	if len(g.CriticalPath.Nodes) > 0 {
		parts := make([]string, 0, len(g.CriticalPath.Nodes))
		for _, n := range g.CriticalPath.Nodes {
			parts = append(parts, fmt.Sprintf("#%d", n.Number))
		}
		fmt.Fprintf(&b, "\nCritical path: %s (%.0f working days)\n",
			StyleRed.Render(strings.Join(parts, " → ")), g.CriticalPath.TotalDuration)
	}
	return b.String()
}

// FormatResources renders per-assignee load.
func FormatResources(r *contract.ResourceSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", Header(fmt.Sprintf("Resources — %s #%d", r.Owner, r.ProjectNumber)))

	rows := make([][]string, 0, len(r.Assignees))
	for _, a := range r.Assignees {
		rows = append(rows, []string{
			a.Login,
			fmt.Sprintf("%d/%d", a.CompletedItems, a.TotalItems),
			fmt.Sprintf("%d", a.RemainingDays),
			WorkloadStyle(a.Workload).Render(string(a.Workload)),
		})
	}
	b.WriteString(RenderTable([]string{"ASSIGNEE", "DONE", "DAYS LEFT", "LOAD"}, rows))

	if r.UnassignedItems > 0 {
		fmt.Fprintf(&b, "\n%s\n", StyleYellow.Render(fmt.Sprintf("%d unassigned items", r.UnassignedItems)))
	}
	return b.String()
}

// FormatMilestones renders milestone health.
func FormatMilestones(r *contract.MilestoneReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", Header(fmt.Sprintf("Milestones — %s #%d", r.Owner, r.ProjectNumber)))

	rows := make([][]string, 0, len(r.Milestones))
	for _, m := range r.Milestones {
		rows = append(rows, []string{
			m.Title,
			orDash(m.DueOn),
			fmt.Sprintf("%d/%d (%.0f%%)", m.CompletedItems, m.TotalItems, m.CompletionPct),
			fmt.Sprintf("%d", m.RemainingDays),
			RiskIndicator(m.RiskLevel),
		})
	}
	b.WriteString(RenderTable([]string{"MILESTONE", "DUE", "PROGRESS", "DAYS LEFT", "RISK"}, rows))
	return b.String()
}

// FormatRiskReport renders per-item risk scores, worst first, plus the
// level breakdown.
func FormatRiskReport(r *contract.RiskReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", Header(fmt.Sprintf("Risks — %s #%d", r.Owner, r.ProjectNumber)))

	rows := make([][]string, 0, len(r.Items))
	for _, item := range r.Items {
		findings := make([]string, 0, len(item.Findings))
		for _, f := range item.Findings {
			findings = append(findings, string(f))
		}
		rows = append(rows, []string{
			fmt.Sprintf("#%d", item.Number),
			item.Title,
			fmt.Sprintf("%d", item.Score),
			RiskIndicator(item.Level),
			Dim(strings.Join(findings, ", ")),
		})
	}
	b.WriteString(RenderTable([]string{"ITEM", "TITLE", "SCORE", "LEVEL", "FINDINGS"}, rows))

	levels := make([]string, 0, len(r.CountsByLevel))
	for level := range r.CountsByLevel {
		levels = append(levels, string(level))
	}
	sort.Strings(levels)
	parts := make([]string, 0, len(levels))
	for _, level := range levels {
		parts = append(parts, fmt.Sprintf("%s %d", level, r.CountsByLevel[domain.RiskLevel(level)]))
	}
	fmt.Fprintf(&b, "\n%d items, average score %.1f — %s\n",
		r.TotalItems, r.AverageScore, strings.Join(parts, ", "))
	return b.String()
}

// FormatHolidays renders an installation's holiday calendar.
func FormatHolidays(holidays []domain.Holiday) string {
	rows := make([][]string, 0, len(holidays))
	for _, h := range holidays {
		recurring := ""
		if h.Recurring {
			recurring = Dim("yearly")
		}
		rows = append(rows, []string{h.Date.Format("2006-01-02"), h.Name, recurring})
	}
	return RenderTable([]string{"DATE", "NAME", ""}, rows)
}

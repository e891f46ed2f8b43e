package server

import (
	"net/http"
	"strconv"

	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/gorilla/mux"
)

type projectRequest struct {
	Owner         string `json:"owner"`
	ProjectNumber int    `json:"projectNumber"`
	SetupFields   bool   `json:"setupFields"`
}

func (s *Server) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	result, err := s.deps.Schedules.Recalculate(r.Context(), installationID(r), req.Owner, req.ProjectNumber, req.SetupFields)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSaveBaseline(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	result, err := s.deps.Schedules.SaveBaseline(r.Context(), installationID(r), req.Owner, req.ProjectNumber)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleVariance(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(r.URL.Query().Get("projectNumber"))
	if err != nil {
		writeError(w, r, domain.Validationf("projectNumber query parameter is required"))
		return
	}
	report, err := s.deps.Schedules.Variance(r.Context(), installationID(r), r.URL.Query().Get("owner"), number)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleTrackProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	proj, created, err := s.deps.Projects.Track(r.Context(), installationID(r), req.Owner, req.ProjectNumber, req.SetupFields)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"owner":         proj.Owner,
		"projectNumber": proj.ProjectNumber,
		"fieldsCreated": created,
	})
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.deps.Projects.List(r.Context(), installationID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]map[string]any, 0, len(projects))
	for _, p := range projects {
		out = append(out, map[string]any{
			"owner":         p.Owner,
			"projectNumber": p.ProjectNumber,
			"trackedAt":     p.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": out})
}

func (s *Server) handleUntrackProject(w http.ResponseWriter, r *http.Request) {
	err := s.deps.Projects.Untrack(r.Context(), installationID(r), r.URL.Query().Get("owner"), projectNumber(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"untracked": true})
}

func (s *Server) handleDependencies(w http.ResponseWriter, r *http.Request) {
	graph, err := s.deps.Reports.DependencyGraph(r.Context(), installationID(r), projectNumber(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, graph)
}

func (s *Server) handleResources(w http.ResponseWriter, r *http.Request) {
	summary, err := s.deps.Reports.Resources(r.Context(), installationID(r), projectNumber(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleMilestones(w http.ResponseWriter, r *http.Request) {
	report, err := s.deps.Reports.Milestones(r.Context(), installationID(r), projectNumber(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleRisks(w http.ResponseWriter, r *http.Request) {
	report, err := s.deps.Reports.Risks(r.Context(), installationID(r), projectNumber(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.deps.Installations.Settings(r.Context(), installationID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var settings domain.Settings
	if err := decodeBody(r, &settings); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.deps.Installations.UpdateSettings(r.Context(), installationID(r), settings); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updated": true})
}

type holidayRequest struct {
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

func (s *Server) handleListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := s.deps.Installations.ListHolidays(r.Context(), installationID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]holidayRequest, 0, len(holidays))
	for _, h := range holidays {
		out = append(out, holidayRequest{
			Date:      h.Date.Format("2006-01-02"),
			Name:      h.Name,
			Recurring: h.Recurring,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"holidays": out})
}

func (s *Server) handleAddHoliday(w http.ResponseWriter, r *http.Request) {
	var req holidayRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	holiday := &domain.Holiday{
		InstallationID: installationID(r),
		Date:           date,
		Name:           req.Name,
		Recurring:      req.Recurring,
	}
	if err := s.deps.Installations.AddHoliday(r.Context(), holiday); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"added": true})
}

func (s *Server) handleRemoveHoliday(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Installations.RemoveHoliday(r.Context(), installationID(r), mux.Vars(r)["date"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"removed": true})
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.deps.Installations.RecentAudit(r.Context(), installationID(r), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		out = append(out, map[string]any{
			"action":    e.Action,
			"details":   e.Details,
			"createdAt": e.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": out})
}

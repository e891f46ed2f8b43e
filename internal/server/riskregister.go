package server

import (
	"net/http"

	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/gorilla/mux"
)

// riskPayload is the wire shape of one register entry.
type riskPayload struct {
	ID             string `json:"id,omitempty"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	Severity       string `json:"severity"`
	Status         string `json:"status,omitempty"`
	Owner          string `json:"owner,omitempty"`
	LinkedIssues   []int  `json:"linkedIssues,omitempty"`
	MitigationPlan string `json:"mitigationPlan,omitempty"`
}

func riskToPayload(r *domain.RiskEntry) riskPayload {
	return riskPayload{
		ID:             r.ID,
		Title:          r.Title,
		Description:    r.Description,
		Severity:       string(r.Severity),
		Status:         string(r.Status),
		Owner:          r.Owner,
		LinkedIssues:   r.LinkedIssues,
		MitigationPlan: r.MitigationPlan,
	}
}

func (p riskPayload) toEntry(installationID int64, projectNumber int) *domain.RiskEntry {
	return &domain.RiskEntry{
		ID:             p.ID,
		InstallationID: installationID,
		ProjectNumber:  projectNumber,
		Title:          p.Title,
		Description:    p.Description,
		Severity:       domain.RiskLevel(p.Severity),
		Status:         domain.RiskStatus(p.Status),
		Owner:          p.Owner,
		LinkedIssues:   p.LinkedIssues,
		MitigationPlan: p.MitigationPlan,
	}
}

func (s *Server) handleListRiskRegister(w http.ResponseWriter, r *http.Request) {
	entries, err := s.deps.Risks.List(r.Context(), installationID(r), projectNumber(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]riskPayload, 0, len(entries))
	for _, e := range entries {
		out = append(out, riskToPayload(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{"risks": out})
}

func (s *Server) handleCreateRisk(w http.ResponseWriter, r *http.Request) {
	var req riskPayload
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.deps.Risks.Create(r.Context(), req.toEntry(installationID(r), projectNumber(r)))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, riskToPayload(created))
}

func (s *Server) handleUpdateRisk(w http.ResponseWriter, r *http.Request) {
	var req riskPayload
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.ID = mux.Vars(r)["riskId"]
	updated, err := s.deps.Risks.Update(r.Context(), req.toEntry(installationID(r), projectNumber(r)))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, riskToPayload(updated))
}

func (s *Server) handleDeleteRisk(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Risks.Delete(r.Context(), installationID(r), mux.Vars(r)["riskId"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

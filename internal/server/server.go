// Package server is the HTTP surface: the signed webhook receivers, the
// operator API, and the middleware stack (request logging, panic recovery,
// bearer auth, per-IP rate limits).
package server

import (
	"net/http"
	"time"

	"github.com/alexanderramin/autoplan/internal/service"
	"github.com/gorilla/mux"
)

// Config carries the secrets and limits the server needs.
type Config struct {
	// SessionSecret is the bearer token required on /api/** (webhooks and
	// health excluded).
	SessionSecret string
	// WebhookSecret signs tracker webhook deliveries.
	WebhookSecret string
	// BillingWebhookSecret signs billing webhook deliveries.
	BillingWebhookSecret string
}

// Deps are the services the handlers call into.
type Deps struct {
	Installations service.InstallationService
	Projects      service.ProjectService
	Schedules     service.ScheduleService
	Reports       service.ReportService
	Risks         service.RiskRegisterService
	Events        service.EventService
}

// Server routes HTTP traffic to the services.
type Server struct {
	cfg    Config
	deps   Deps
	router *mux.Router

	apiLimiter     *ipLimiter
	webhookLimiter *ipLimiter
}

// New builds the router. The returned server is an http.Handler.
func New(cfg Config, deps Deps) *Server {
	s := &Server{
		cfg:            cfg,
		deps:           deps,
		apiLimiter:     newIPLimiter(100, 15*time.Minute),
		webhookLimiter: newIPLimiter(60, time.Minute),
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := mux.NewRouter()
	r.Use(recoverMiddleware, logMiddleware)

	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)

	// Webhooks authenticate by signature, not bearer token.
	hooks := r.PathPrefix("/api").Subrouter()
	hooks.Use(s.webhookLimiter.middleware)
	hooks.HandleFunc("/webhook", s.handleWebhook).Methods(http.MethodPost)
	hooks.HandleFunc("/billing/webhook", s.handleBillingWebhook).Methods(http.MethodPost)

	api := r.PathPrefix("/api/installations/{id:[0-9]+}").Subrouter()
	api.Use(s.apiLimiter.middleware, s.authMiddleware)

	api.HandleFunc("/recalculate", s.handleRecalculate).Methods(http.MethodPost)
	api.HandleFunc("/save-baseline", s.handleSaveBaseline).Methods(http.MethodPost)
	api.HandleFunc("/variance-report", s.handleVariance).Methods(http.MethodGet)

	api.HandleFunc("/projects", s.handleTrackProject).Methods(http.MethodPost)
	api.HandleFunc("/projects", s.handleListProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects/{n:[0-9]+}", s.handleUntrackProject).Methods(http.MethodDelete)

	api.HandleFunc("/projects/{n:[0-9]+}/dependencies", s.handleDependencies).Methods(http.MethodGet)
	api.HandleFunc("/projects/{n:[0-9]+}/resources", s.handleResources).Methods(http.MethodGet)
	api.HandleFunc("/projects/{n:[0-9]+}/milestones", s.handleMilestones).Methods(http.MethodGet)
	api.HandleFunc("/projects/{n:[0-9]+}/risks", s.handleRisks).Methods(http.MethodGet)

	api.HandleFunc("/settings", s.handleGetSettings).Methods(http.MethodGet)
	api.HandleFunc("/settings", s.handlePutSettings).Methods(http.MethodPut)

	api.HandleFunc("/holidays", s.handleListHolidays).Methods(http.MethodGet)
	api.HandleFunc("/holidays", s.handleAddHoliday).Methods(http.MethodPost)
	api.HandleFunc("/holidays/{date}", s.handleRemoveHoliday).Methods(http.MethodDelete)

	api.HandleFunc("/audit", s.handleAudit).Methods(http.MethodGet)

	api.HandleFunc("/projects/{n:[0-9]+}/risk-register", s.handleListRiskRegister).Methods(http.MethodGet)
	api.HandleFunc("/projects/{n:[0-9]+}/risk-register", s.handleCreateRisk).Methods(http.MethodPost)
	api.HandleFunc("/projects/{n:[0-9]+}/risk-register/{riskId}", s.handleUpdateRisk).Methods(http.MethodPatch)
	api.HandleFunc("/projects/{n:[0-9]+}/risk-register/{riskId}", s.handleDeleteRisk).Methods(http.MethodDelete)

	s.router = r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

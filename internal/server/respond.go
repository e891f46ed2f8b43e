package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encoding response failed")
	}
}

// writeError maps domain errors onto status codes. Internal details never
// reach the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		valErr  *domain.ValidationError
		authErr *domain.AuthError
		gateErr *domain.PlanGateError
	)
	switch {
	case errors.As(err, &valErr):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": valErr.Msg})
	case errors.As(err, &authErr):
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
	case errors.As(err, &gateErr):
		writeJSON(w, http.StatusForbidden, map[string]any{"error": gateErr.Error(), "upgrade": true})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "not found"})
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
	}
}

// installationID extracts the {id} route variable.
func installationID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

// projectNumber extracts the {n} route variable.
func projectNumber(r *http.Request) int {
	n, _ := strconv.Atoi(mux.Vars(r)["n"])
	return n
}

// parseDate parses a YYYY-MM-DD value.
func parseDate(value string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, domain.Validationf("date must be YYYY-MM-DD")
	}
	return d, nil
}

// decodeBody parses a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Validationf("malformed request body: %v", err)
	}
	return nil
}

package http

import (
	"net/http"
)

// handleDashboard serves GET /api/dashboard?mes_ano=YYYY-MM[&cotacao=N].
// The response carries both the raw records and the composed indicators so
// the client renders one fetch.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	period, err := parsePeriodParam(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	rate, err := parseRateParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	payload, err := s.dashboards.Dashboard(r.Context(), period, rate)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, payload)
}

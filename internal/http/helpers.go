package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"patrimonio/internal/core"
	"patrimonio/internal/records"
	"patrimonio/internal/services"
)

// writeJSON encodes v as the response body. Encoding failures are logged
// only; headers are already gone by then.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps known domain errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, records.ErrNotFound):
		writeError(w, http.StatusNotFound, "record not found")
	case errors.Is(err, core.ErrInvalidPeriod):
		writeError(w, http.StatusBadRequest, "invalid mes_ano, expected YYYY-MM")
	case errors.Is(err, core.ErrInvalidCurrency),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, services.ErrMissingID):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.Error("Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// parsePeriodParam reads mes_ano from the query, defaulting to the current
// period when absent.
func parsePeriodParam(r *http.Request) (core.Period, error) {
	v := strings.TrimSpace(r.URL.Query().Get("mes_ano"))
	if v == "" {
		return core.CurrentPeriod(), nil
	}
	return core.ParsePeriod(v)
}

// parseIDParam reads the required id query parameter.
func parseIDParam(r *http.Request) (int64, error) {
	v := strings.TrimSpace(r.URL.Query().Get("id"))
	if v == "" {
		return 0, errors.New("missing id")
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// parseRateParam reads the optional cotacao override. Zero means "use the
// live quote"; a non-positive or malformed value is rejected rather than
// silently ignored.
func parseRateParam(r *http.Request) (float64, error) {
	v := strings.TrimSpace(r.URL.Query().Get("cotacao"))
	if v == "" {
		return 0, nil
	}
	rate, err := strconv.ParseFloat(v, 64)
	if err != nil || rate <= 0 {
		return 0, errors.New("invalid cotacao")
	}
	return rate, nil
}

// decodeBody decodes a JSON request body into dst, rejecting unknown fields
// so typos in Portuguese key names fail loudly.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// orEmpty keeps list responses as [] instead of null.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

package http

import (
	"net/http"
	"strings"

	"patrimonio/internal/core"
	"patrimonio/internal/records"
)

// handleTemplates serves /api/templates?type=<kind>. GET lists (or gets one
// with ?id=), POST creates, PUT ?id= replaces, DELETE ?id= retires. Deletes
// are soft; records instantiated from a retired template are untouched.
func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	kind := records.Kind(strings.TrimSpace(r.URL.Query().Get("type")))
	if !kind.Valid() {
		writeError(w, http.StatusBadRequest, "invalid type, expected one of receitas, custos, investimentos, ativos, passivos")
		return
	}

	switch r.Method {
	case http.MethodGet:
		if strings.TrimSpace(r.URL.Query().Get("id")) != "" {
			id, err := parseIDParam(r)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			t, err := s.templateSvc.Get(r.Context(), kind, id)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, t)
			return
		}
		items, err := s.templateSvc.List(r.Context(), kind)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, orEmpty(items))

	case http.MethodPost:
		var t core.Template
		if err := decodeBody(r, &t); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		created, err := s.templateSvc.Create(r.Context(), kind, t)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)

	case http.MethodPut:
		id, err := parseIDParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var t core.Template
		if err := decodeBody(r, &t); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		t.ID = id
		if err := s.templateSvc.Update(r.Context(), kind, t); err != nil {
			writeDomainError(w, err)
			return
		}
		t.Active = true
		writeJSON(w, http.StatusOK, t)

	case http.MethodDelete:
		id, err := parseIDParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.templateSvc.Delete(r.Context(), kind, id); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, "GET, POST, PUT, DELETE")
	}
}

package http

import (
	"context"
	"net/http"

	"patrimonio/internal/core"
)

// Record endpoints share one shape: GET lists a period, POST creates,
// PUT ?id= replaces, DELETE ?id=&mes_ano= removes. Updates and deletes are
// scoped by (id, period) so a stale client can't touch another month's row.

func (s *Server) handleIncomes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		period, err := parsePeriodParam(r)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		items, err := s.source.Incomes(r.Context(), period)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, orEmpty(items))

	case http.MethodPost:
		var in core.Income
		if err := decodeBody(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		created, err := s.recordSvc.CreateIncome(r.Context(), in)
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
		var in core.Income
		if err := decodeBody(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		in.ID = id
		if err := s.recordSvc.UpdateIncome(r.Context(), in); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, in)

	case http.MethodDelete:
		s.deleteRecord(w, r, s.recordSvc.DeleteIncome)

	default:
		methodNotAllowed(w, "GET, POST, PUT, DELETE")
	}
}

func (s *Server) handleCosts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		period, err := parsePeriodParam(r)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		items, err := s.source.Costs(r.Context(), period)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, orEmpty(items))

	case http.MethodPost:
		var c core.Cost
		if err := decodeBody(r, &c); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		created, err := s.recordSvc.CreateCost(r.Context(), c)
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
		var c core.Cost
		if err := decodeBody(r, &c); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		c.ID = id
		if err := s.recordSvc.UpdateCost(r.Context(), c); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)

	case http.MethodDelete:
		s.deleteRecord(w, r, s.recordSvc.DeleteCost)

	default:
		methodNotAllowed(w, "GET, POST, PUT, DELETE")
	}
}

func (s *Server) handleInvestments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		period, err := parsePeriodParam(r)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		items, err := s.source.Investments(r.Context(), period)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, orEmpty(items))

	case http.MethodPost:
		var inv core.Investment
		if err := decodeBody(r, &inv); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		created, err := s.recordSvc.CreateInvestment(r.Context(), inv)
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
		var inv core.Investment
		if err := decodeBody(r, &inv); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		inv.ID = id
		if err := s.recordSvc.UpdateInvestment(r.Context(), inv); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, inv)

	case http.MethodDelete:
		s.deleteRecord(w, r, s.recordSvc.DeleteInvestment)

	default:
		methodNotAllowed(w, "GET, POST, PUT, DELETE")
	}
}

func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		period, err := parsePeriodParam(r)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		items, err := s.source.Assets(r.Context(), period)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, orEmpty(items))

	case http.MethodPost:
		var a core.Asset
		if err := decodeBody(r, &a); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		created, err := s.recordSvc.CreateAsset(r.Context(), a)
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
		var a core.Asset
		if err := decodeBody(r, &a); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		a.ID = id
		if err := s.recordSvc.UpdateAsset(r.Context(), a); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)

	case http.MethodDelete:
		s.deleteRecord(w, r, s.recordSvc.DeleteAsset)

	default:
		methodNotAllowed(w, "GET, POST, PUT, DELETE")
	}
}

func (s *Server) handleLiabilities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		period, err := parsePeriodParam(r)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		items, err := s.source.Liabilities(r.Context(), period)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, orEmpty(items))

	case http.MethodPost:
		var l core.Liability
		if err := decodeBody(r, &l); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		created, err := s.recordSvc.CreateLiability(r.Context(), l)
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
		var l core.Liability
		if err := decodeBody(r, &l); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		l.ID = id
		if err := s.recordSvc.UpdateLiability(r.Context(), l); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, l)

	case http.MethodDelete:
		s.deleteRecord(w, r, s.recordSvc.DeleteLiability)

	default:
		methodNotAllowed(w, "GET, POST, PUT, DELETE")
	}
}

// deleteRecord handles the shared DELETE shape: ?id=&mes_ano=.
func (s *Server) deleteRecord(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, id int64, period core.Period) error) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	period, err := parsePeriodParam(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := del(r.Context(), id, period); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

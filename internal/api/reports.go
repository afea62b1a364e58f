package api

import (
	"net/http"
	"strconv"
)

// limitParam reads ?limit= with a default, ignoring junk.
func limitParam(r *http.Request, fallback int) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// handleBillingReport returns every bill joined with its customer, as JSON by
// default or as the printable report with ?format=text.
func (s *Server) handleBillingReport(w http.ResponseWriter, r *http.Request) {
	rows, err := s.reports.BillingReport(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		text, err := s.renderer.BillingReport(rows)
		if err != nil {
			serviceError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(text))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handlePaymentsOverview(w http.ResponseWriter, r *http.Request) {
	totals, err := s.reports.PaymentsOverview(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"monthly_totals": totals})
}

func (s *Server) handleLatestTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.reports.LatestTransactions(r.Context(), limitParam(r, 10))
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleLatestCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.reports.LatestCustomers(r.Context(), limitParam(r, 10))
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

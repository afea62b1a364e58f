package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/waterworks-ph/waterworks/internal/service"
)

type readingRequest struct {
	Month          string `json:"month"`
	PrevReading    string `json:"prev_reading"`
	CurrentReading string `json:"current_reading"`
	Deadline       string `json:"deadline"`
}

func (s *Server) handleRecordBill(w http.ResponseWriter, r *http.Request) {
	var req readingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Month == "" {
		writeError(w, http.StatusBadRequest, "month is required")
		return
	}

	bill, err := s.billing.RecordReading(r.Context(), chi.URLParam(r, "id"), service.ReadingInput{
		Month:          req.Month,
		PrevReading:    req.PrevReading,
		CurrentReading: req.CurrentReading,
		Deadline:       req.Deadline,
	})
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bill)
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	// Confirm the account exists so an unknown ID is a 404, not an empty list.
	customerID := chi.URLParam(r, "id")
	if _, err := s.customers.Get(r.Context(), customerID); err != nil {
		serviceError(w, err)
		return
	}

	bills, err := s.billing.Bills(r.Context(), customerID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bills)
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	if err := s.billing.DeleteBill(r.Context(), chi.URLParam(r, "id")); err != nil {
		serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleReceipt returns the billing receipt for a bill, as JSON by default or
// as the printable text document with ?format=text.
func (s *Server) handleReceipt(w http.ResponseWriter, r *http.Request) {
	billID := chi.URLParam(r, "id")
	bill, err := s.store.GetBill(r.Context(), billID)
	if err != nil {
		serviceError(w, err)
		return
	}

	receipt, err := s.billing.Receipt(r.Context(), bill.CustomerID, billID)
	if err != nil {
		serviceError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		text, err := s.renderer.BillingReceipt(receipt)
		if err != nil {
			serviceError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(text))
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

type paymentRequest struct {
	BillIDs    []string `json:"bill_ids"`
	PayAll     bool     `json:"pay_all"`
	PaidDate   string   `json:"paid_date"`
	AmountPaid float64  `json:"amount_paid"`
}

func (s *Server) handlePay(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PaidDate == "" {
		writeError(w, http.StatusBadRequest, "paid_date is required")
		return
	}

	result, err := s.billing.Pay(r.Context(), chi.URLParam(r, "id"), service.PaymentInput{
		BillIDs:    req.BillIDs,
		PayAll:     req.PayAll,
		PaidDate:   req.PaidDate,
		AmountPaid: req.AmountPaid,
	})
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

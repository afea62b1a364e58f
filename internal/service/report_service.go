package service

import (
	"context"
	"sort"
	"time"

	"github.com/waterworks-ph/waterworks/internal/models"
	"github.com/waterworks-ph/waterworks/internal/storage"
)

// ReportService builds the dashboard aggregates and the printable billing
// report. Everything here is a filter/reduce over full snapshots — no state
// of its own.
type ReportService struct {
	store storage.Store
}

// NewReportService creates a ReportService with the given storage backend.
func NewReportService(store storage.Store) *ReportService {
	return &ReportService{store: store}
}

// BillingRow is one line of the full billing report.
type BillingRow struct {
	CustomerName   string  `json:"customer_name"`
	Month          string  `json:"month"`
	PrevReading    float64 `json:"prev_reading"`
	CurrentReading float64 `json:"current_reading"`
	Amount         float64 `json:"amount"`
	Deadline       string  `json:"deadline"`
	PaidDate       string  `json:"paid_date"`
}

// BillingReport returns every bill joined with its customer's name, oldest
// first. Bills whose account was deleted fall back to the raw customer ID.
func (s *ReportService) BillingReport(ctx context.Context) ([]BillingRow, error) {
	bills, err := s.store.ListBills(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.FullName()
	}

	rows := make([]BillingRow, 0, len(bills))
	for _, b := range bills {
		name, ok := names[b.CustomerID]
		if !ok {
			name = b.CustomerID
		}
		rows = append(rows, BillingRow{
			CustomerName:   name,
			Month:          b.Month,
			PrevReading:    b.PrevReading,
			CurrentReading: b.CurrentReading,
			Amount:         b.Amount,
			Deadline:       b.Deadline,
			PaidDate:       b.PaidDate,
		})
	}
	return rows, nil
}

// PaymentsOverview returns collected amounts bucketed by the calendar month
// of the paid date, January first. Unpaid bills contribute nothing.
func (s *ReportService) PaymentsOverview(ctx context.Context) ([12]float64, error) {
	var totals [12]float64
	bills, err := s.store.ListBills(ctx)
	if err != nil {
		return totals, err
	}

	for _, b := range bills {
		if !b.Paid() {
			continue
		}
		d, err := time.Parse("2006-01-02", b.PaidDate)
		if err != nil {
			continue
		}
		totals[int(d.Month())-1] += b.Amount
	}
	return totals, nil
}

// Transaction is one settled bill on the dashboard.
type Transaction struct {
	BillID       string  `json:"bill_id"`
	CustomerName string  `json:"customer_name"`
	Amount       float64 `json:"amount"`
	PaidDate     string  `json:"paid_date"`
}

// LatestTransactions returns the most recently settled bills, newest first,
// capped at limit.
func (s *ReportService) LatestTransactions(ctx context.Context, limit int) ([]Transaction, error) {
	bills, err := s.store.ListBills(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.FullName()
	}

	var paid []models.Bill
	for _, b := range bills {
		if b.Paid() {
			paid = append(paid, b)
		}
	}
	sort.SliceStable(paid, func(i, j int) bool {
		return paid[i].PaidDate > paid[j].PaidDate
	})
	if limit > 0 && len(paid) > limit {
		paid = paid[:limit]
	}

	txs := make([]Transaction, 0, len(paid))
	for _, b := range paid {
		name, ok := names[b.CustomerID]
		if !ok {
			name = "Unknown"
		}
		txs = append(txs, Transaction{
			BillID:       b.ID,
			CustomerName: name,
			Amount:       b.Amount,
			PaidDate:     b.PaidDate,
		})
	}
	return txs, nil
}

// LatestCustomers returns the most recently registered accounts, newest
// first, capped at limit.
func (s *ReportService) LatestCustomers(ctx context.Context, limit int) ([]models.Customer, error) {
	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}

	// ListCustomers is oldest first; take the tail and reverse it.
	if limit > 0 && len(customers) > limit {
		customers = customers[len(customers)-limit:]
	}
	for i, j := 0, len(customers)-1; i < j; i, j = i+1, j-1 {
		customers[i], customers[j] = customers[j], customers[i]
	}
	return customers, nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/waterworks-ph/waterworks/internal/billing"
	"github.com/waterworks-ph/waterworks/internal/metrics"
	"github.com/waterworks-ph/waterworks/internal/models"
	"github.com/waterworks-ph/waterworks/internal/storage"
)

// BillingPolicy is the configurable billing behavior.
type BillingPolicy struct {
	// AllowPartialPayment accepts tenders below the total due.
	AllowPartialPayment bool
}

// BillingService turns meter readings into bills and payments into settled
// accounts. Balance bookkeeping rides inside the store's transactions; this
// layer owns the arithmetic and the policy.
type BillingService struct {
	store  storage.Store
	rates  billing.RateTable
	policy BillingPolicy
}

// NewBillingService creates a BillingService with the given storage backend,
// rate table and policy.
func NewBillingService(store storage.Store, rates billing.RateTable, policy BillingPolicy) *BillingService {
	return &BillingService{store: store, rates: rates, policy: policy}
}

// ReadingInput is one meter reading to be billed.
type ReadingInput struct {
	Month          string
	PrevReading    string
	CurrentReading string
	Deadline       string
}

// RecordReading creates a bill for a customer from a meter reading.
//
// The previous reading defaults to the customer's latest bill when the input
// leaves it blank; the very first reading starts from 0. The amount is the
// tiered charge over the clamped consumption, snapshotted onto the bill. The
// store transaction also disconnects the account and grows its balance.
func (s *BillingService) RecordReading(ctx context.Context, customerID string, in ReadingInput) (*models.Bill, error) {
	customer, err := s.store.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	prev := billing.ParseReading(in.PrevReading)
	if in.PrevReading == "" {
		prev = 0
		bills, err := s.store.ListBillsByCustomer(ctx, customerID)
		if err != nil {
			return nil, err
		}
		if len(bills) > 0 {
			prev = bills[len(bills)-1].CurrentReading
		}
	}
	current := billing.ParseReading(in.CurrentReading)

	consumption := billing.Consumption(prev, current)
	amount := billing.Amount(s.rates, customer.Connection, consumption)

	bill := &models.Bill{
		CustomerID:     customerID,
		Month:          in.Month,
		PrevReading:    prev,
		CurrentReading: current,
		Amount:         amount,
		Deadline:       in.Deadline,
	}
	if err := s.store.RecordBill(ctx, bill); err != nil {
		return nil, err
	}

	metrics.BillsRecorded.WithLabelValues(string(customer.Connection)).Inc()
	metrics.BilledAmount.Add(amount)
	slog.Info("Bill recorded",
		"customer_id", customerID,
		"month", bill.Month,
		"consumption", consumption,
		"amount", amount,
	)
	return bill, nil
}

// PaymentInput is a settlement request over a customer's bills.
type PaymentInput struct {
	// BillIDs selects specific unpaid bills; ignored when PayAll is set.
	BillIDs []string
	PayAll  bool

	// PaidDate is the settlement date in YYYY-MM-DD form.
	PaidDate string

	// AmountPaid is the cash tendered.
	AmountPaid float64
}

// PaymentResult reports a completed settlement.
type PaymentResult struct {
	Bills      []models.Bill `json:"bills"`
	Total      float64       `json:"total"`
	AmountPaid float64       `json:"amount_paid"`
	Change     float64       `json:"change"`

	// Receipts holds one payment receipt per settled bill.
	Receipts []billing.PaymentReceipt `json:"receipts,omitempty"`
}

// Pay settles the selected bills. Selecting nothing (no IDs and no unpaid
// bills under PayAll) returns an empty result without touching the account.
func (s *BillingService) Pay(ctx context.Context, customerID string, in PaymentInput) (*PaymentResult, error) {
	if in.PaidDate == "" {
		return nil, fmt.Errorf("paid date is required")
	}

	customer, err := s.store.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	bills, err := s.store.ListBillsByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	plan, err := billing.Plan(bills, in.BillIDs, in.PayAll, in.AmountPaid, s.policy.AllowPartialPayment)
	if err != nil {
		return nil, err
	}

	result := &PaymentResult{
		Bills:      plan.Bills,
		Total:      plan.Total,
		AmountPaid: plan.AmountPaid,
		Change:     plan.Change,
	}
	if len(plan.Bills) == 0 {
		return result, nil
	}

	ids := make([]string, len(plan.Bills))
	for i, b := range plan.Bills {
		ids[i] = b.ID
	}
	if err := s.store.SettleBills(ctx, customerID, ids, in.PaidDate); err != nil {
		return nil, err
	}

	for _, b := range plan.Bills {
		result.Receipts = append(result.Receipts, billing.PaymentReceipt{
			MeterID:     customer.MeterID,
			AccountName: customer.FullName(),
			Connection:  customer.Connection,
			Address:     customer.Address,
			Month:       b.Month,
			Reading:     b.CurrentReading,
			PaidDate:    in.PaidDate,
			AmountPaid:  b.Amount,
		})
	}

	metrics.PaymentsSettled.Inc()
	metrics.CollectedAmount.Add(plan.Total)
	slog.Info("Payment settled",
		"customer_id", customerID,
		"bills", len(plan.Bills),
		"total", plan.Total,
		"change", plan.Change,
	)
	return result, nil
}

// Receipt builds the billing receipt for one of the customer's bills.
func (s *BillingService) Receipt(ctx context.Context, customerID, billID string) (*billing.Receipt, error) {
	customer, err := s.store.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	bills, err := s.store.ListBillsByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return billing.BuildReceipt(s.rates, customer, bills, billID)
}

// Bills returns a customer's bills, oldest first.
func (s *BillingService) Bills(ctx context.Context, customerID string) ([]models.Bill, error) {
	return s.store.ListBillsByCustomer(ctx, customerID)
}

// DeleteBill removes a recorded bill. The account balance is left alone:
// deletion exists to clear data-entry mistakes before the cycle closes, and
// the balance correction is the teller's explicit follow-up.
func (s *BillingService) DeleteBill(ctx context.Context, billID string) error {
	return s.store.DeleteBill(ctx, billID)
}

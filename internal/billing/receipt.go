package billing

import (
	"fmt"
	"sort"
	"time"

	"github.com/waterworks-ph/waterworks/internal/models"
)

// Receipt is the read-side projection printed for a single bill: account
// identity, the consumption range, the cycle's charge and the itemized
// arrears. Nothing in it is persisted.
type Receipt struct {
	MeterID     string            `json:"meter_id"`
	AccountName string            `json:"account_name"`
	Connection  models.Connection `json:"connection"`
	Address     string            `json:"address"`

	// ConsumptionFrom/To label the period covered by the reading, e.g.
	// "March 2024" to "April 2024".
	ConsumptionFrom string `json:"consumption_from"`
	ConsumptionTo   string `json:"consumption_to"`

	Reading     float64 `json:"reading"`
	Consumption float64 `json:"consumption"`
	AmountDue   float64 `json:"amount_due"`

	Arrears      []ArrearsItem `json:"arrears,omitempty"`
	TotalArrears float64       `json:"total_arrears"`
	TotalDue     float64       `json:"total_due"`
}

// ArrearsItem is one unpaid prior bill on the receipt.
type ArrearsItem struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// PaymentReceipt is the projection printed when a bill is settled.
type PaymentReceipt struct {
	MeterID     string            `json:"meter_id"`
	AccountName string            `json:"account_name"`
	Connection  models.Connection `json:"connection"`
	Address     string            `json:"address"`
	Month       string            `json:"month"`
	Reading     float64           `json:"reading"`
	PaidDate    string            `json:"paid_date"`
	AmountPaid  float64           `json:"amount_paid"`
}

// monthWithYear labels a billing month with the year of its deadline.
// Bills without a deadline (the connection fee) keep the bare month name.
func monthWithYear(month, deadline string) string {
	if deadline == "" {
		return month
	}
	d, err := time.Parse("2006-01-02", deadline)
	if err != nil {
		return month
	}
	return fmt.Sprintf("%s %d", month, d.Year())
}

// sortByCreation orders bills by creation time, oldest first. The stored
// snapshot order is not trusted: receipts must read the same regardless of
// how the store returned the list.
func sortByCreation(bills []models.Bill) []models.Bill {
	sorted := make([]models.Bill, len(bills))
	copy(sorted, bills)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt < sorted[j].CreatedAt
	})
	return sorted
}

// ConsumptionRange returns the from/to labels for a bill within the
// customer's bill sequence. The range starts at the bill immediately
// preceding it in creation order; the first bill ranges from itself.
func ConsumptionRange(bills []models.Bill, billID string) (from, to string) {
	sorted := sortByCreation(bills)
	for i, b := range sorted {
		if b.ID != billID {
			continue
		}
		to = monthWithYear(b.Month, b.Deadline)
		prev := b
		if i > 0 {
			prev = sorted[i-1]
		}
		from = monthWithYear(prev.Month, prev.Deadline)
		return from, to
	}
	return "", ""
}

// BuildReceipt assembles the billing receipt for one of the customer's
// bills. The amount due is recomputed from the readings and the current rate
// table for display, while arrears use the stored snapshots.
func BuildReceipt(table RateTable, customer *models.Customer, bills []models.Bill, billID string) (*Receipt, error) {
	var bill *models.Bill
	for i := range bills {
		if bills[i].ID == billID {
			bill = &bills[i]
			break
		}
	}
	if bill == nil {
		return nil, fmt.Errorf("bill %s not found for customer %s", billID, customer.ID)
	}

	consumption := Consumption(bill.PrevReading, bill.CurrentReading)
	amountDue := Amount(table, customer.Connection, consumption)

	r := &Receipt{
		MeterID:     customer.MeterID,
		AccountName: customer.FullName(),
		Connection:  customer.Connection,
		Address:     customer.Address,
		Reading:     bill.CurrentReading,
		Consumption: consumption,
		AmountDue:   amountDue,
	}
	r.ConsumptionFrom, r.ConsumptionTo = ConsumptionRange(bills, billID)

	for _, b := range sortByCreation(bills) {
		if b.Paid() || b.ID == billID {
			continue
		}
		r.Arrears = append(r.Arrears, ArrearsItem{Month: b.Month, Amount: b.Amount})
	}
	r.TotalArrears = Arrears(bills, billID)
	r.TotalDue = r.AmountDue + r.TotalArrears

	return r, nil
}

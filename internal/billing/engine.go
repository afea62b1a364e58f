// Package billing implements the billing engine: tiered consumption charges,
// arrears aggregation and payment planning. It is pure computation over
// models — persistence and transport live elsewhere.
package billing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/waterworks-ph/waterworks/internal/models"
)

// TierThreshold is the number of consumption units charged at the low rate.
// Exactly TierThreshold units are still billed entirely at the low rate.
const TierThreshold = 10

// Rate is the two-tier price for one connection type: Min per unit for the
// first TierThreshold units, Succ per unit beyond.
type Rate struct {
	Min  float64
	Succ float64
}

// RateTable maps connection types to their tiered rates.
type RateTable map[models.Connection]Rate

// DefaultRates returns the utility's standing rate table. Deployments
// override it via configuration.
func DefaultRates() RateTable {
	return RateTable{
		models.ConnectionResidential: {Min: 10, Succ: 12},
		models.ConnectionCommercial:  {Min: 25, Succ: 30},
		models.ConnectionIndustrial:  {Min: 35, Succ: 40},
	}
}

// Consumption returns the units consumed between two cumulative meter
// readings. Negative deltas (meter rollover, entry error) clamp to zero:
// the customer is never billed a negative amount.
func Consumption(prev, current float64) float64 {
	if current < prev {
		return 0
	}
	return current - prev
}

// Amount computes the tiered charge for the given consumption. A connection
// type absent from the table yields 0 — an unrated account is billed nothing
// rather than failing the whole cycle.
func Amount(table RateTable, conn models.Connection, consumption float64) float64 {
	rate, ok := table[conn]
	if !ok {
		return 0
	}
	if consumption <= TierThreshold {
		return consumption * rate.Min
	}
	return TierThreshold*rate.Min + (consumption-TierThreshold)*rate.Succ
}

// Arrears sums the stored amounts of all unpaid bills except the one in
// focus. The excluded bill's own charge is reported separately as the amount
// due, so leaving it in would double count.
func Arrears(bills []models.Bill, excludeID string) float64 {
	var sum float64
	for _, b := range bills {
		if b.Paid() || b.ID == excludeID {
			continue
		}
		sum += b.Amount
	}
	return sum
}

// ParseReading coerces a free-form reading input to a number. Empty or
// malformed input parses to 0, mirroring the console's lenient numeric
// fields.
func ParseReading(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// Payment is a resolved payment plan over a customer's bills.
type Payment struct {
	// Bills are the unpaid bills selected for settlement.
	Bills []models.Bill

	// Total is the sum of the selected bills' amounts.
	Total float64

	// AmountPaid is the cash tendered.
	AmountPaid float64

	// Change is AmountPaid − Total. Negative means underpayment.
	Change float64
}

// ErrInsufficientPayment is returned by Plan when the tendered amount does
// not cover the selected bills and partial payment is disallowed.
var ErrInsufficientPayment = fmt.Errorf("amount paid does not cover total due")

// Plan resolves a payment request against the customer's bills.
//
// With payAll set, every unpaid bill is selected and billIDs is ignored.
// Otherwise only unpaid bills whose IDs appear in billIDs are selected;
// already-paid or unknown IDs are skipped silently. Selecting nothing yields
// an empty plan, which callers treat as a no-op.
//
// Underpayment is a point-of-sale convenience in the field, so it is only
// rejected when allowPartial is false.
func Plan(bills []models.Bill, billIDs []string, payAll bool, amountPaid float64, allowPartial bool) (*Payment, error) {
	selected := make(map[string]bool, len(billIDs))
	for _, id := range billIDs {
		selected[id] = true
	}

	p := &Payment{AmountPaid: amountPaid}
	for _, b := range bills {
		if b.Paid() {
			continue
		}
		if !payAll && !selected[b.ID] {
			continue
		}
		p.Bills = append(p.Bills, b)
		p.Total += b.Amount
	}
	p.Change = amountPaid - p.Total

	if !allowPartial && len(p.Bills) > 0 && amountPaid < p.Total {
		return nil, ErrInsufficientPayment
	}
	return p, nil
}

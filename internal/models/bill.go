package models

// ConnectionFeeMonth is the Month value of the initial connection-fee bill
// created when a customer is registered. It carries zero readings; its amount
// is the configured connection fee.
const ConnectionFeeMonth = "Connection"

// Bill represents one billing cycle for a customer.
//
// Amount is derived from the meter readings and the customer's rate at
// creation time and stored as an immutable snapshot. PaidDate is the only
// field mutated afterwards.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string `json:"id"`

	// CustomerID links the bill to its account.
	CustomerID string `json:"customer_id"`

	// Month is the calendar month name of the billing cycle, or
	// ConnectionFeeMonth for the registration fee.
	Month string `json:"month"`

	// PrevReading and CurrentReading are cumulative meter counter values.
	// CurrentReading is expected to be >= PrevReading; the engine clamps
	// negative deltas to zero rather than rejecting them.
	PrevReading    float64 `json:"prev_reading"`
	CurrentReading float64 `json:"current_reading"`

	// Amount is the charge for this cycle, snapshotted at creation.
	Amount float64 `json:"amount"`

	// Deadline is the due date in YYYY-MM-DD form ("" for the connection fee).
	Deadline string `json:"deadline"`

	// PaidDate is the settlement date in YYYY-MM-DD form; empty means unpaid.
	PaidDate string `json:"paid_date"`

	// CreatedAt is the Unix timestamp when the bill was recorded. Receipt
	// consumption ranges are derived from this ordering.
	CreatedAt int64 `json:"created_at"`
}

// Paid reports whether the bill has been settled.
func (b *Bill) Paid() bool { return b.PaidDate != "" }

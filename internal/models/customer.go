package models

import "strings"

// Connection is the billing category of a customer. It selects the tiered
// rate used when a meter reading is turned into a bill.
type Connection string

const (
	ConnectionResidential Connection = "residential"
	ConnectionCommercial  Connection = "commercial"
	ConnectionIndustrial  Connection = "industrial"
)

// ParseConnection normalizes a connection type string. It accepts the
// canonical names as well as the misspelled values found in data migrated
// from the legacy console ("Resedential", "Comercial"). Unrecognized values
// are passed through unchanged so billing can treat them as unrated.
func ParseConnection(s string) Connection {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "residential", "resedential":
		return ConnectionResidential
	case "commercial", "comercial":
		return ConnectionCommercial
	case "industrial":
		return ConnectionIndustrial
	}
	return Connection(s)
}

// Customer account status values.
//
// A freshly registered account is pending until its connection fee is paid.
// Recording a bill marks the account disconnected until the balance is
// settled; recording a payment marks it active again.
const (
	StatusPending      = "pending"
	StatusActive       = "active"
	StatusDisconnected = "disconnected"
)

// Customer represents a metered water service account.
type Customer struct {
	// ID is the unique identifier for the customer (UUID format).
	ID string `json:"id"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`

	// Connection is the billing category (residential/commercial/industrial).
	Connection Connection `json:"connection"`

	// MeterID is the 9-digit account number printed on receipts.
	MeterID string `json:"meter_id"`

	Street   string `json:"street"`
	Barangay string `json:"barangay"`

	// Address is the derived "street, barangay" line shown on receipts.
	Address string `json:"address"`

	// Status is one of pending, active or disconnected.
	Status string `json:"status"`

	// Balance is the running total of billed-but-unpaid amounts. It is
	// adjusted only inside the same transaction that records a bill or a
	// payment.
	Balance float64 `json:"balance"`

	// AvatarURL is the generated profile picture shown in the console.
	AvatarURL string `json:"avatar_url"`

	// CreatedAt is the Unix timestamp when the account was registered.
	CreatedAt int64 `json:"created_at"`
}

// FullName returns the customer's display name.
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// EditRecord is a snapshot of a customer's identity fields taken just before
// an edit is applied. The account keeps its full edit history.
type EditRecord struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Street    string `json:"street"`
	Barangay  string `json:"barangay"`
	Status    string `json:"status"`
	EditedAt  int64  `json:"edited_at"`
}

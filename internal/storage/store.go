// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/waterworks-ph/waterworks/internal/models"
)

// ErrNotFound is wrapped by store implementations when a record does not
// exist.
var ErrNotFound = errors.New("not found")

// Collections observable through Store.Watch.
const (
	CollectionCustomers = "customers"
	CollectionBills     = "bills"
)

// Store defines the persistence interface for the billing console.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
//
// The multi-step billing mutations are deliberately single store operations:
// RecordBill and SettleBills update the bill rows and the customer's running
// balance in one transaction, so a partial write can never leave the balance
// out of step with the bills.
type Store interface {
	// CreateCustomer persists a new customer. A missing ID is generated
	// and written back to the model.
	CreateCustomer(ctx context.Context, customer *models.Customer) error

	// GetCustomer retrieves a customer by ID.
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)

	// ListCustomers returns all customers, oldest first.
	ListCustomers(ctx context.Context) ([]models.Customer, error)

	// UpdateCustomer overwrites a customer's editable fields and appends
	// the pre-edit snapshot to the account's edit history, in one
	// transaction.
	UpdateCustomer(ctx context.Context, customer *models.Customer) error

	// SetCustomerStatus flips an account between active and disconnected.
	SetCustomerStatus(ctx context.Context, id, status string) error

	// DeleteCustomer removes a customer and, via cascade, its bills and
	// edit history.
	DeleteCustomer(ctx context.Context, id string) error

	// CustomerHistory returns the account's edit history, oldest first.
	CustomerHistory(ctx context.Context, id string) ([]models.EditRecord, error)

	// CreateBill persists a bill with no account side effects. Used for
	// the registration connection-fee bill, which leaves the account
	// pending.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// RecordBill persists a meter-reading bill and, in the same
	// transaction, marks the account disconnected and adds the bill
	// amount to its balance.
	RecordBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill by ID.
	GetBill(ctx context.Context, id string) (*models.Bill, error)

	// ListBills returns every bill, oldest first.
	ListBills(ctx context.Context) ([]models.Bill, error)

	// ListBillsByCustomer returns a customer's bills, oldest first.
	ListBillsByCustomer(ctx context.Context, customerID string) ([]models.Bill, error)

	// SettleBills sets the paid date on exactly the given bills and, in
	// the same transaction, marks the account active and subtracts the
	// bills' total from its balance. An empty billIDs slice is a no-op.
	SettleBills(ctx context.Context, customerID string, billIDs []string, paidDate string) error

	// DeleteBill removes a bill.
	DeleteBill(ctx context.Context, id string) error

	// CreateStaff persists an operator account.
	CreateStaff(ctx context.Context, staff *models.Staff) error

	// GetStaffByEmail retrieves an operator by login email.
	GetStaffByEmail(ctx context.Context, email string) (*models.Staff, error)

	// GetStaffByID retrieves an operator by ID.
	GetStaffByID(ctx context.Context, id string) (*models.Staff, error)

	// ListStaff returns all operator accounts.
	ListStaff(ctx context.Context) ([]models.Staff, error)

	// Watch returns a channel that signals after every successful
	// mutation of the named collection. Signals are coalesced; receivers
	// re-read a full snapshot rather than consuming deltas. The
	// subscription ends when ctx is cancelled.
	Watch(ctx context.Context, collection string) <-chan struct{}

	// Close releases any resources held by the store.
	Close() error
}

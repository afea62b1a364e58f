package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/waterworks-ph/waterworks/internal/metrics"
	"github.com/waterworks-ph/waterworks/internal/models"
	"github.com/waterworks-ph/waterworks/internal/storage"
)

// CustomerService manages the service account registry.
type CustomerService struct {
	store storage.Store

	// connectionFee is billed once at registration.
	connectionFee float64
}

// NewCustomerService creates a CustomerService with the given storage
// backend and registration fee.
func NewCustomerService(store storage.Store, connectionFee float64) *CustomerService {
	return &CustomerService{store: store, connectionFee: connectionFee}
}

// RegisterInput is a new service account application.
type RegisterInput struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Connection string
	Street     string
	Barangay   string
}

// generateMeterID produces the 9-digit account number printed on receipts.
func generateMeterID() string {
	return fmt.Sprintf("%09d", 100000000+rand.Intn(900000000))
}

// avatarURL builds the generated profile picture for the console.
func avatarURL(firstName string) string {
	return fmt.Sprintf("https://avatar.iran.liara.run/public/?username=[%s]", firstName)
}

// Register creates a pending account and its initial connection-fee bill.
// The bill is linked to the freshly generated customer ID, so the account
// write must complete before the bill write starts. The fee is carried as
// the starting balance; the account stays pending until it is settled.
func (s *CustomerService) Register(ctx context.Context, in RegisterInput) (*models.Customer, error) {
	if strings.TrimSpace(in.FirstName) == "" && strings.TrimSpace(in.LastName) == "" {
		return nil, fmt.Errorf("customer name is required")
	}

	customer := &models.Customer{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		Phone:      in.Phone,
		Connection: models.ParseConnection(in.Connection),
		MeterID:    generateMeterID(),
		Street:     in.Street,
		Barangay:   in.Barangay,
		Address:    fmt.Sprintf("%s, %s", in.Street, in.Barangay),
		Status:     models.StatusPending,
		Balance:    s.connectionFee,
		AvatarURL:  avatarURL(in.FirstName),
	}
	if err := s.store.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}

	fee := &models.Bill{
		CustomerID: customer.ID,
		Month:      models.ConnectionFeeMonth,
		Amount:     s.connectionFee,
	}
	if err := s.store.CreateBill(ctx, fee); err != nil {
		// The account exists but carries no fee bill; surface the error
		// so the teller re-checks instead of silently losing the fee.
		return nil, fmt.Errorf("account %s created but connection fee not billed: %w", customer.ID, err)
	}

	metrics.CustomersRegistered.Inc()
	slog.Info("Customer registered",
		"customer_id", customer.ID,
		"meter_id", customer.MeterID,
		"connection", customer.Connection,
	)
	return customer, nil
}

// UpdateInput is an edit to an existing account's identity fields.
type UpdateInput struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Connection string
	Street     string
	Barangay   string
}

// Update overwrites the account's editable fields. The store appends the
// pre-edit snapshot to the account's history in the same transaction.
func (s *CustomerService) Update(ctx context.Context, id string, in UpdateInput) (*models.Customer, error) {
	customer, err := s.store.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	customer.FirstName = in.FirstName
	customer.LastName = in.LastName
	customer.Email = in.Email
	customer.Phone = in.Phone
	customer.Connection = models.ParseConnection(in.Connection)
	customer.Street = in.Street
	customer.Barangay = in.Barangay
	customer.Address = fmt.Sprintf("%s, %s", in.Street, in.Barangay)

	if err := s.store.UpdateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// ToggleStatus flips an account between active and disconnected, the manual
// override tellers use outside the billing flow.
func (s *CustomerService) ToggleStatus(ctx context.Context, id string) (*models.Customer, error) {
	customer, err := s.store.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	status := models.StatusActive
	if customer.Status == models.StatusActive {
		status = models.StatusDisconnected
	}
	if err := s.store.SetCustomerStatus(ctx, id, status); err != nil {
		return nil, err
	}
	customer.Status = status
	return customer, nil
}

// Get retrieves one account.
func (s *CustomerService) Get(ctx context.Context, id string) (*models.Customer, error) {
	return s.store.GetCustomer(ctx, id)
}

// Delete removes an account and all its bills.
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteCustomer(ctx, id)
}

// History returns the account's edit history, oldest first.
func (s *CustomerService) History(ctx context.Context, id string) ([]models.EditRecord, error) {
	return s.store.CustomerHistory(ctx, id)
}

// List returns accounts matching the search term against the full name or
// meter ID, case-insensitively. An empty term returns everyone.
func (s *CustomerService) List(ctx context.Context, search string) ([]models.Customer, error) {
	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return customers, nil
	}

	var matched []models.Customer
	for _, c := range customers {
		fullName := strings.ToLower(c.FullName())
		if strings.Contains(fullName, search) ||
			strings.Contains(strings.ToLower(c.MeterID), search) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

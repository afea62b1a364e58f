package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/waterworks-ph/waterworks/internal/models"
	"github.com/waterworks-ph/waterworks/internal/storage"
)

const customerColumns = `id, first_name, last_name, email, phone, connection,
	meter_id, street, barangay, address, status, balance, avatar_url, created_at`

func scanCustomer(row interface{ Scan(...any) error }) (*models.Customer, error) {
	c := &models.Customer{}
	var conn string
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &conn,
		&c.MeterID, &c.Street, &c.Barangay, &c.Address, &c.Status, &c.Balance,
		&c.AvatarURL, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.Connection = models.Connection(conn)
	return c, nil
}

// CreateCustomer persists a new customer to the database.
func (s *SQLiteStore) CreateCustomer(ctx context.Context, c *models.Customer) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt == 0 {
		c.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO customers (`+customerColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.FirstName, c.LastName, c.Email, c.Phone, string(c.Connection),
		c.MeterID, c.Street, c.Barangay, c.Address, c.Status, c.Balance,
		c.AvatarURL, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	s.notify(storage.CollectionCustomers)
	return nil
}

// GetCustomer retrieves a customer by ID.
func (s *SQLiteStore) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	c, err := scanCustomer(s.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("customer %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return c, nil
}

// ListCustomers returns all customers, oldest first.
func (s *SQLiteStore) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate customers: %w", err)
	}
	return customers, nil
}

// UpdateCustomer overwrites a customer's editable fields and appends the
// pre-edit snapshot to the edit history in one transaction.
func (s *SQLiteStore) UpdateCustomer(ctx context.Context, c *models.Customer) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	prev, err := scanCustomer(tx.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = ?`, c.ID))
	if err == sql.ErrNoRows {
		return fmt.Errorf("customer %s: %w", c.ID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to load customer: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO customer_history
		 (customer_id, first_name, last_name, email, phone, street, barangay, status, edited_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		prev.ID, prev.FirstName, prev.LastName, prev.Email, prev.Phone,
		prev.Street, prev.Barangay, prev.Status, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert edit history: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE customers SET first_name = ?, last_name = ?, email = ?, phone = ?,
		 connection = ?, street = ?, barangay = ?, address = ?, status = ?
		 WHERE id = ?`,
		c.FirstName, c.LastName, c.Email, c.Phone, string(c.Connection),
		c.Street, c.Barangay, c.Address, c.Status, c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.notify(storage.CollectionCustomers)
	return nil
}

// SetCustomerStatus flips an account's status.
func (s *SQLiteStore) SetCustomerStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE customers SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to set status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("customer %s: %w", id, storage.ErrNotFound)
	}
	s.notify(storage.CollectionCustomers)
	return nil
}

// DeleteCustomer removes a customer; bills and history cascade.
func (s *SQLiteStore) DeleteCustomer(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("customer %s: %w", id, storage.ErrNotFound)
	}
	s.notify(storage.CollectionCustomers)
	s.notify(storage.CollectionBills)
	return nil
}

// CustomerHistory returns the account's edit history, oldest first.
func (s *SQLiteStore) CustomerHistory(ctx context.Context, id string) ([]models.EditRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT first_name, last_name, email, phone, street, barangay, status, edited_at
		 FROM customer_history WHERE customer_id = ? ORDER BY edited_at, rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var history []models.EditRecord
	for rows.Next() {
		var r models.EditRecord
		if err := rows.Scan(&r.FirstName, &r.LastName, &r.Email, &r.Phone,
			&r.Street, &r.Barangay, &r.Status, &r.EditedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		history = append(history, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return history, nil
}

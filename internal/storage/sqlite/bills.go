package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/waterworks-ph/waterworks/internal/models"
	"github.com/waterworks-ph/waterworks/internal/storage"
)

const billColumns = `id, customer_id, month, prev_reading, current_reading,
	amount, deadline, paid_date, created_at`

func scanBill(row interface{ Scan(...any) error }) (*models.Bill, error) {
	b := &models.Bill{}
	err := row.Scan(&b.ID, &b.CustomerID, &b.Month, &b.PrevReading,
		&b.CurrentReading, &b.Amount, &b.Deadline, &b.PaidDate, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func fillBillDefaults(b *models.Bill) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.CreatedAt == 0 {
		b.CreatedAt = time.Now().Unix()
	}
}

func insertBill(ctx context.Context, tx *sql.Tx, b *models.Bill) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO bills (`+billColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.CustomerID, b.Month, b.PrevReading, b.CurrentReading,
		b.Amount, b.Deadline, b.PaidDate, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}
	return nil
}

// CreateBill persists a bill without touching the customer's account. The
// registration connection fee uses this path; the account stays pending.
func (s *SQLiteStore) CreateBill(ctx context.Context, b *models.Bill) error {
	fillBillDefaults(b)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertBill(ctx, tx, b); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.notify(storage.CollectionBills)
	return nil
}

// RecordBill persists a meter-reading bill and updates the account in one
// transaction: status becomes disconnected and the balance grows by the bill
// amount. The disconnect is unconditional — a fresh bill always puts the
// account in the billed-but-unpaid state.
func (s *SQLiteStore) RecordBill(ctx context.Context, b *models.Bill) error {
	fillBillDefaults(b)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertBill(ctx, tx, b); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE customers SET status = ?, balance = balance + ? WHERE id = ?`,
		models.StatusDisconnected, b.Amount, b.CustomerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer balance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("customer %s: %w", b.CustomerID, storage.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.notify(storage.CollectionBills)
	s.notify(storage.CollectionCustomers)
	return nil
}

// GetBill retrieves a bill by ID.
func (s *SQLiteStore) GetBill(ctx context.Context, id string) (*models.Bill, error) {
	b, err := scanBill(s.db.QueryRowContext(ctx,
		`SELECT `+billColumns+` FROM bills WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("bill %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return b, nil
}

func (s *SQLiteStore) queryBills(ctx context.Context, query string, args ...any) ([]models.Bill, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bills: %w", err)
	}
	defer rows.Close()

	var bills []models.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}
	return bills, nil
}

// ListBills returns every bill, oldest first.
func (s *SQLiteStore) ListBills(ctx context.Context) ([]models.Bill, error) {
	return s.queryBills(ctx,
		`SELECT `+billColumns+` FROM bills ORDER BY created_at, id`)
}

// ListBillsByCustomer returns a customer's bills, oldest first.
func (s *SQLiteStore) ListBillsByCustomer(ctx context.Context, customerID string) ([]models.Bill, error) {
	return s.queryBills(ctx,
		`SELECT `+billColumns+` FROM bills WHERE customer_id = ? ORDER BY created_at, id`,
		customerID)
}

// SettleBills marks exactly the given bills paid and updates the account in
// one transaction: status becomes active and the balance shrinks by the sum
// of the settled amounts. An empty selection is a no-op.
func (s *SQLiteStore) SettleBills(ctx context.Context, customerID string, billIDs []string, paidDate string) error {
	if len(billIDs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	placeholders := strings.Repeat("?,", len(billIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, 0, len(billIDs)+1)
	args = append(args, customerID)
	for _, id := range billIDs {
		args = append(args, id)
	}

	var total float64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM bills
		 WHERE customer_id = ? AND id IN (`+placeholders+`)`, args...).Scan(&total)
	if err != nil {
		return fmt.Errorf("failed to total bills: %w", err)
	}

	updateArgs := append([]any{paidDate}, args...)
	res, err := tx.ExecContext(ctx,
		`UPDATE bills SET paid_date = ?
		 WHERE customer_id = ? AND id IN (`+placeholders+`)`, updateArgs...)
	if err != nil {
		return fmt.Errorf("failed to mark bills paid: %w", err)
	}
	if n, _ := res.RowsAffected(); n != int64(len(billIDs)) {
		return fmt.Errorf("settled %d of %d bills for customer %s: %w",
			n, len(billIDs), customerID, storage.ErrNotFound)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE customers SET status = ?, balance = balance - ? WHERE id = ?`,
		models.StatusActive, total, customerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.notify(storage.CollectionBills)
	s.notify(storage.CollectionCustomers)
	return nil
}

// DeleteBill removes a bill.
func (s *SQLiteStore) DeleteBill(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bills WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("bill %s: %w", id, storage.ErrNotFound)
	}
	s.notify(storage.CollectionBills)
	return nil
}

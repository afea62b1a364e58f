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

const staffColumns = `id, email, display_name, password_hash, role, created_at`

func scanStaff(row interface{ Scan(...any) error }) (*models.Staff, error) {
	st := &models.Staff{}
	err := row.Scan(&st.ID, &st.Email, &st.DisplayName, &st.PasswordHash,
		&st.Role, &st.CreatedAt)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// CreateStaff persists an operator account.
func (s *SQLiteStore) CreateStaff(ctx context.Context, st *models.Staff) error {
	if st.ID == "" {
		st.ID = uuid.New().String()
	}
	if st.CreatedAt == 0 {
		st.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO staff (`+staffColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		st.ID, st.Email, st.DisplayName, st.PasswordHash, st.Role, st.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert staff: %w", err)
	}
	return nil
}

// GetStaffByEmail retrieves an operator by login email.
func (s *SQLiteStore) GetStaffByEmail(ctx context.Context, email string) (*models.Staff, error) {
	st, err := scanStaff(s.db.QueryRowContext(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE email = ?`, email))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("staff %s: %w", email, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}
	return st, nil
}

// GetStaffByID retrieves an operator by ID.
func (s *SQLiteStore) GetStaffByID(ctx context.Context, id string) (*models.Staff, error) {
	st, err := scanStaff(s.db.QueryRowContext(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("staff %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}
	return st, nil
}

// ListStaff returns all operator accounts, oldest first.
func (s *SQLiteStore) ListStaff(ctx context.Context) ([]models.Staff, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+staffColumns+` FROM staff ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	defer rows.Close()

	var staff []models.Staff
	for rows.Next() {
		st, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staff: %w", err)
		}
		staff = append(staff, *st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate staff: %w", err)
	}
	return staff, nil
}

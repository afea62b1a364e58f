package sqlite

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/waterworks-ph/waterworks/internal/models"
	"github.com/waterworks-ph/waterworks/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestCustomer() *models.Customer {
	return &models.Customer{
		FirstName:  "Maria",
		LastName:   "Santos",
		Email:      "maria@example.com",
		Connection: models.ConnectionResidential,
		MeterID:    "123456789",
		Street:     "Purok 2",
		Barangay:   "Poblacion 1",
		Address:    "Purok 2, Poblacion 1",
		Status:     models.StatusPending,
	}
}

func TestCustomerCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c := newTestCustomer()
	if err := store.CreateCustomer(ctx, c); err != nil {
		t.Fatalf("CreateCustomer failed: %v", err)
	}
	if c.ID == "" {
		t.Error("Expected customer ID to be generated")
	}
	if c.CreatedAt == 0 {
		t.Error("Expected CreatedAt to be set")
	}

	t.Run("Get returns the stored customer", func(t *testing.T) {
		got, err := store.GetCustomer(ctx, c.ID)
		if err != nil {
			t.Fatalf("GetCustomer failed: %v", err)
		}
		if got.FirstName != "Maria" || got.Connection != models.ConnectionResidential {
			t.Errorf("got %+v", got)
		}
		if got.Status != models.StatusPending {
			t.Errorf("status = %q, want pending", got.Status)
		}
	})

	t.Run("Get unknown id wraps ErrNotFound", func(t *testing.T) {
		_, err := store.GetCustomer(ctx, "missing")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("Update appends edit history", func(t *testing.T) {
		c.FirstName = "Mariana"
		c.Street = "Purok 3"
		c.Address = "Purok 3, Poblacion 1"
		if err := store.UpdateCustomer(ctx, c); err != nil {
			t.Fatalf("UpdateCustomer failed: %v", err)
		}

		got, err := store.GetCustomer(ctx, c.ID)
		if err != nil {
			t.Fatalf("GetCustomer failed: %v", err)
		}
		if got.FirstName != "Mariana" {
			t.Errorf("first name = %q, want Mariana", got.FirstName)
		}

		history, err := store.CustomerHistory(ctx, c.ID)
		if err != nil {
			t.Fatalf("CustomerHistory failed: %v", err)
		}
		if len(history) != 1 {
			t.Fatalf("history length = %d, want 1", len(history))
		}
		if history[0].FirstName != "Maria" || history[0].Street != "Purok 2" {
			t.Errorf("history[0] = %+v, want pre-edit snapshot", history[0])
		}
	})

	t.Run("SetCustomerStatus", func(t *testing.T) {
		if err := store.SetCustomerStatus(ctx, c.ID, models.StatusActive); err != nil {
			t.Fatalf("SetCustomerStatus failed: %v", err)
		}
		got, _ := store.GetCustomer(ctx, c.ID)
		if got.Status != models.StatusActive {
			t.Errorf("status = %q, want active", got.Status)
		}
	})

	t.Run("Delete cascades to bills and history", func(t *testing.T) {
		bill := &models.Bill{CustomerID: c.ID, Month: "January", Amount: 100}
		if err := store.CreateBill(ctx, bill); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}

		if err := store.DeleteCustomer(ctx, c.ID); err != nil {
			t.Fatalf("DeleteCustomer failed: %v", err)
		}
		if _, err := store.GetBill(ctx, bill.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("bill survived customer delete: %v", err)
		}
		history, err := store.CustomerHistory(ctx, c.ID)
		if err != nil {
			t.Fatalf("CustomerHistory failed: %v", err)
		}
		if len(history) != 0 {
			t.Errorf("history survived customer delete: %d rows", len(history))
		}
	})
}

func TestRecordBill(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c := newTestCustomer()
	c.Status = models.StatusActive
	if err := store.CreateCustomer(ctx, c); err != nil {
		t.Fatalf("CreateCustomer failed: %v", err)
	}

	bill := &models.Bill{
		CustomerID:     c.ID,
		Month:          "February",
		PrevReading:    100,
		CurrentReading: 115,
		Amount:         160,
		Deadline:       "2024-02-20",
	}
	if err := store.RecordBill(ctx, bill); err != nil {
		t.Fatalf("RecordBill failed: %v", err)
	}
	if bill.ID == "" {
		t.Error("Expected bill ID to be generated")
	}

	got, err := store.GetCustomer(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCustomer failed: %v", err)
	}
	if got.Status != models.StatusDisconnected {
		t.Errorf("status = %q, want disconnected after billing", got.Status)
	}
	if math.Abs(got.Balance-160) > 0.001 {
		t.Errorf("balance = %v, want 160", got.Balance)
	}

	t.Run("second bill disconnects again and accumulates balance", func(t *testing.T) {
		next := &models.Bill{CustomerID: c.ID, Month: "March", Amount: 200}
		if err := store.RecordBill(ctx, next); err != nil {
			t.Fatalf("RecordBill failed: %v", err)
		}
		got, _ := store.GetCustomer(ctx, c.ID)
		if math.Abs(got.Balance-360) > 0.001 {
			t.Errorf("balance = %v, want 360", got.Balance)
		}
	})

	t.Run("unknown customer rolls back the bill insert", func(t *testing.T) {
		orphan := &models.Bill{CustomerID: "missing", Month: "April", Amount: 50}
		if err := store.RecordBill(ctx, orphan); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
		if _, err := store.GetBill(ctx, orphan.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Error("orphan bill was persisted despite rollback")
		}
	})
}

func TestSettleBills(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c := newTestCustomer()
	if err := store.CreateCustomer(ctx, c); err != nil {
		t.Fatalf("CreateCustomer failed: %v", err)
	}

	amounts := []float64{100, 150, 200}
	var ids []string
	for i, amt := range amounts {
		b := &models.Bill{CustomerID: c.ID, Month: time.Month(i + 1).String(), Amount: amt}
		if err := store.RecordBill(ctx, b); err != nil {
			t.Fatalf("RecordBill failed: %v", err)
		}
		ids = append(ids, b.ID)
	}

	t.Run("settling all bills activates the account", func(t *testing.T) {
		if err := store.SettleBills(ctx, c.ID, ids, "2024-04-15"); err != nil {
			t.Fatalf("SettleBills failed: %v", err)
		}

		bills, err := store.ListBillsByCustomer(ctx, c.ID)
		if err != nil {
			t.Fatalf("ListBillsByCustomer failed: %v", err)
		}
		for _, b := range bills {
			if b.PaidDate != "2024-04-15" {
				t.Errorf("bill %s paid date = %q, want 2024-04-15", b.ID, b.PaidDate)
			}
		}

		got, _ := store.GetCustomer(ctx, c.ID)
		if got.Status != models.StatusActive {
			t.Errorf("status = %q, want active", got.Status)
		}
		if math.Abs(got.Balance) > 0.001 {
			t.Errorf("balance = %v, want 0 after settling 450", got.Balance)
		}
	})

	t.Run("empty selection is a no-op", func(t *testing.T) {
		before, _ := store.GetCustomer(ctx, c.ID)
		if err := store.SettleBills(ctx, c.ID, nil, "2024-05-01"); err != nil {
			t.Fatalf("SettleBills failed: %v", err)
		}
		after, _ := store.GetCustomer(ctx, c.ID)
		if before.Status != after.Status || before.Balance != after.Balance {
			t.Error("no-op settlement changed the account")
		}
	})

	t.Run("unknown bill id rolls the settlement back", func(t *testing.T) {
		b := &models.Bill{CustomerID: c.ID, Month: "May", Amount: 80}
		if err := store.RecordBill(ctx, b); err != nil {
			t.Fatalf("RecordBill failed: %v", err)
		}
		err := store.SettleBills(ctx, c.ID, []string{b.ID, "missing"}, "2024-06-01")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
		got, _ := store.GetBill(ctx, b.ID)
		if got.Paid() {
			t.Error("bill was marked paid despite rollback")
		}
	})
}

func TestWatch(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := store.Watch(ctx, storage.CollectionCustomers)

	if err := store.CreateCustomer(context.Background(), newTestCustomer()); err != nil {
		t.Fatalf("CreateCustomer failed: %v", err)
	}

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no watch signal after customer mutation")
	}

	t.Run("signals coalesce instead of blocking writers", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			if err := store.CreateCustomer(context.Background(), newTestCustomer()); err != nil {
				t.Fatalf("CreateCustomer failed: %v", err)
			}
		}
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatal("no coalesced signal")
		}
	})

	t.Run("cancel closes the channel", func(t *testing.T) {
		cancel()
		select {
		case _, ok := <-ch:
			if ok {
				// Drain a pending coalesced signal; the close must follow.
				if _, ok := <-ch; ok {
					t.Fatal("channel still open after cancel")
				}
			}
		case <-time.After(time.Second):
			t.Fatal("channel not closed after cancel")
		}
	})
}

func TestStaff(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	st := models.NewStaff("teller@waterworks.ph", "Front Desk", "hash", models.RoleTeller)
	if err := store.CreateStaff(ctx, st); err != nil {
		t.Fatalf("CreateStaff failed: %v", err)
	}

	got, err := store.GetStaffByEmail(ctx, "teller@waterworks.ph")
	if err != nil {
		t.Fatalf("GetStaffByEmail failed: %v", err)
	}
	if got.Role != models.RoleTeller {
		t.Errorf("role = %q, want teller", got.Role)
	}

	if _, err := store.GetStaffByID(ctx, st.ID); err != nil {
		t.Errorf("GetStaffByID failed: %v", err)
	}

	t.Run("duplicate email rejected", func(t *testing.T) {
		dup := models.NewStaff("teller@waterworks.ph", "Other", "hash", models.RoleMeter)
		if err := store.CreateStaff(ctx, dup); err == nil {
			t.Error("expected unique constraint error")
		}
	})

	list, err := store.ListStaff(ctx)
	if err != nil {
		t.Fatalf("ListStaff failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("staff count = %d, want 1", len(list))
	}
}

package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/waterworks-ph/waterworks/internal/models"
	"github.com/waterworks-ph/waterworks/internal/storage"
)

func TestRegister(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	svc := NewCustomerService(store, 750)

	t.Run("creates pending account with fee bill", func(t *testing.T) {
		c, err := svc.Register(ctx, RegisterInput{
			FirstName:  "Juan",
			LastName:   "Dela Cruz",
			Connection: "Commercial",
			Street:     "Rizal St",
			Barangay:   "Poblacion 3",
		})
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if c.Status != models.StatusPending {
			t.Errorf("status = %q, want pending", c.Status)
		}
		if c.Connection != models.ConnectionCommercial {
			t.Errorf("connection = %q, want commercial", c.Connection)
		}
		if !almostEqual(c.Balance, 750) {
			t.Errorf("balance = %v, want 750", c.Balance)
		}
		if len(c.MeterID) != 9 {
			t.Errorf("meter ID %q is not 9 digits", c.MeterID)
		}
		if c.Address != "Rizal St, Poblacion 3" {
			t.Errorf("address = %q", c.Address)
		}

		bills, err := store.ListBillsByCustomer(ctx, c.ID)
		if err != nil {
			t.Fatalf("ListBillsByCustomer failed: %v", err)
		}
		if len(bills) != 1 {
			t.Fatalf("bills = %d, want 1", len(bills))
		}
		if bills[0].Month != models.ConnectionFeeMonth {
			t.Errorf("fee bill month = %q, want %q", bills[0].Month, models.ConnectionFeeMonth)
		}
		if !almostEqual(bills[0].Amount, 750) {
			t.Errorf("fee bill amount = %v, want 750", bills[0].Amount)
		}
	})

	t.Run("name required", func(t *testing.T) {
		if _, err := svc.Register(ctx, RegisterInput{Connection: "Residential"}); err == nil {
			t.Error("expected error for empty name")
		}
	})
}

func TestUpdateKeepsHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	svc := NewCustomerService(store, 750)
	c := registerTestCustomer(t, store)

	updated, err := svc.Update(ctx, c.ID, UpdateInput{
		FirstName:  "Maria Clara",
		LastName:   "Santos",
		Connection: "Comercial", // legacy spelling
		Street:     "Mabini St",
		Barangay:   "Poblacion 2",
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Connection != models.ConnectionCommercial {
		t.Errorf("connection = %q, want commercial", updated.Connection)
	}
	if updated.Address != "Mabini St, Poblacion 2" {
		t.Errorf("address = %q", updated.Address)
	}

	history, err := svc.History(ctx, c.ID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history = %d entries, want 1", len(history))
	}
	if history[0].FirstName != "Maria" {
		t.Errorf("history snapshot first name = %q, want pre-edit value", history[0].FirstName)
	}
}

func TestToggleStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	svc := NewCustomerService(store, 750)
	c := registerTestCustomer(t, store)

	// Pending flips to active first.
	got, err := svc.ToggleStatus(ctx, c.ID)
	if err != nil {
		t.Fatalf("ToggleStatus failed: %v", err)
	}
	if got.Status != models.StatusActive {
		t.Errorf("status = %q, want active", got.Status)
	}

	got, err = svc.ToggleStatus(ctx, c.ID)
	if err != nil {
		t.Fatalf("ToggleStatus failed: %v", err)
	}
	if got.Status != models.StatusDisconnected {
		t.Errorf("status = %q, want disconnected", got.Status)
	}

	if _, err := svc.ToggleStatus(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListSearch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	svc := NewCustomerService(store, 750)

	names := [][2]string{{"Maria", "Santos"}, {"Juan", "Dela Cruz"}, {"Pedro", "Santiago"}}
	var meterID string
	for _, n := range names {
		c, err := svc.Register(ctx, RegisterInput{FirstName: n[0], LastName: n[1], Connection: "Residential"})
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if n[0] == "Juan" {
			meterID = c.MeterID
		}
	}

	t.Run("empty term returns everyone", func(t *testing.T) {
		got, err := svc.List(ctx, "  ")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(got) != 3 {
			t.Errorf("got %d customers, want 3", len(got))
		}
	})

	t.Run("matches name case-insensitively", func(t *testing.T) {
		got, err := svc.List(ctx, "SANT")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d customers, want 2", len(got))
		}
		for _, c := range got {
			if !strings.Contains(strings.ToLower(c.FullName()), "sant") {
				t.Errorf("unexpected match %q", c.FullName())
			}
		}
	})

	t.Run("matches meter ID", func(t *testing.T) {
		got, err := svc.List(ctx, meterID)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(got) != 1 || got[0].FirstName != "Juan" {
			t.Errorf("got %+v, want Juan's account", got)
		}
	})
}

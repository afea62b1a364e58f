package billing

import (
	"testing"

	"github.com/waterworks-ph/waterworks/internal/models"
)

func testCustomer() *models.Customer {
	return &models.Customer{
		ID:         "c1",
		FirstName:  "Maria",
		LastName:   "Santos",
		Connection: models.ConnectionResidential,
		MeterID:    "123456789",
		Address:    "Purok 2, Poblacion 1",
	}
}

func TestConsumptionRange(t *testing.T) {
	bills := []models.Bill{
		// Deliberately out of creation order: the store makes no ordering
		// promise, the range must not depend on slice position.
		{ID: "b3", Month: "March", Deadline: "2024-03-20", CreatedAt: 300},
		{ID: "b1", Month: "January", Deadline: "2024-01-20", CreatedAt: 100},
		{ID: "b2", Month: "February", Deadline: "2024-02-20", CreatedAt: 200},
	}

	t.Run("range starts at the previous bill by creation time", func(t *testing.T) {
		from, to := ConsumptionRange(bills, "b3")
		if from != "February 2024" {
			t.Errorf("from = %q, want %q", from, "February 2024")
		}
		if to != "March 2024" {
			t.Errorf("to = %q, want %q", to, "March 2024")
		}
	})

	t.Run("first bill ranges from itself", func(t *testing.T) {
		from, to := ConsumptionRange(bills, "b1")
		if from != "January 2024" || to != "January 2024" {
			t.Errorf("range = %q..%q, want January 2024 on both ends", from, to)
		}
	})

	t.Run("unknown bill yields empty range", func(t *testing.T) {
		from, to := ConsumptionRange(bills, "nope")
		if from != "" || to != "" {
			t.Errorf("range = %q..%q, want empty", from, to)
		}
	})

	t.Run("connection fee keeps its bare label", func(t *testing.T) {
		fee := []models.Bill{{ID: "fee", Month: models.ConnectionFeeMonth, CreatedAt: 1}}
		from, to := ConsumptionRange(fee, "fee")
		if from != "Connection" || to != "Connection" {
			t.Errorf("range = %q..%q, want Connection on both ends", from, to)
		}
	})
}

func TestBuildReceipt(t *testing.T) {
	table := DefaultRates()
	bills := []models.Bill{
		{ID: "b1", CustomerID: "c1", Month: "January", Deadline: "2024-01-20",
			PrevReading: 0, CurrentReading: 100, Amount: 200, CreatedAt: 100},
		{ID: "b2", CustomerID: "c1", Month: "February", Deadline: "2024-02-20",
			PrevReading: 100, CurrentReading: 115, Amount: 160, CreatedAt: 200},
	}

	r, err := BuildReceipt(table, testCustomer(), bills, "b2")
	if err != nil {
		t.Fatalf("BuildReceipt failed: %v", err)
	}

	if r.AccountName != "Maria Santos" {
		t.Errorf("account name = %q, want %q", r.AccountName, "Maria Santos")
	}
	if r.MeterID != "123456789" {
		t.Errorf("meter ID = %q", r.MeterID)
	}
	if !almostEqual(r.Consumption, 15) {
		t.Errorf("consumption = %v, want 15", r.Consumption)
	}
	if !almostEqual(r.AmountDue, 160) {
		t.Errorf("amount due = %v, want 160", r.AmountDue)
	}
	if r.ConsumptionFrom != "January 2024" || r.ConsumptionTo != "February 2024" {
		t.Errorf("range = %q..%q", r.ConsumptionFrom, r.ConsumptionTo)
	}

	// b1 is unpaid, so it shows up as arrears.
	if len(r.Arrears) != 1 || r.Arrears[0].Month != "January" {
		t.Fatalf("arrears = %+v, want one January item", r.Arrears)
	}
	if !almostEqual(r.TotalArrears, 200) {
		t.Errorf("total arrears = %v, want 200", r.TotalArrears)
	}
	if !almostEqual(r.TotalDue, 360) {
		t.Errorf("total due = %v, want 360", r.TotalDue)
	}
}

func TestBuildReceiptUnknownBill(t *testing.T) {
	_, err := BuildReceipt(DefaultRates(), testCustomer(), nil, "missing")
	if err == nil {
		t.Fatal("expected error for unknown bill")
	}
}

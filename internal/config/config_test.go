package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/waterworks-ph/waterworks/internal/models"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", cfg.Server.Addr())
	}
	if cfg.Billing.ConnectionFee != 750 {
		t.Errorf("ConnectionFee = %v, want 750", cfg.Billing.ConnectionFee)
	}
	if !cfg.Billing.AllowPartialPayment {
		t.Error("AllowPartialPayment should default to true")
	}
	if cfg.Auth.TokenDuration() != 24*time.Hour {
		t.Errorf("TokenDuration = %v, want 24h", cfg.Auth.TokenDuration())
	}

	table := cfg.RateTable()
	rate, ok := table[models.ConnectionResidential]
	if !ok {
		t.Fatal("residential rate missing from default table")
	}
	if rate.Min != 10 || rate.Succ != 12 {
		t.Errorf("residential rate = %+v, want {10 12}", rate)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "waterworks.toml")
	content := `
[server]
port = 9090

[billing]
connection_fee = 500.0
allow_partial_payment = false

[[rates]]
connection = "Resedential"
min = 11.0
succ = 13.0
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, default should survive", cfg.Server.Host)
	}
	if cfg.Billing.ConnectionFee != 500 {
		t.Errorf("ConnectionFee = %v, want 500", cfg.Billing.ConnectionFee)
	}
	if cfg.Billing.AllowPartialPayment {
		t.Error("AllowPartialPayment should be overridden to false")
	}

	// Legacy spelling in the config maps to the canonical connection type.
	rate, ok := cfg.RateTable()[models.ConnectionResidential]
	if !ok {
		t.Fatal("residential rate missing after override")
	}
	if rate.Min != 11 || rate.Succ != 13 {
		t.Errorf("residential rate = %+v, want {11 13}", rate)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/waterworks.toml"); err == nil {
		t.Fatal("expected error for missing file")
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("empty path should return defaults")
	}
}

func TestTokenDurationFallback(t *testing.T) {
	a := AuthConfig{TokenTTL: "notaduration"}
	if a.TokenDuration() != 24*time.Hour {
		t.Errorf("TokenDuration fallback = %v, want 24h", a.TokenDuration())
	}
}

// Package config loads the waterworks configuration from a TOML file,
// layered over built-in defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/waterworks-ph/waterworks/internal/billing"
	"github.com/waterworks-ph/waterworks/internal/models"
)

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Utility  UtilityConfig  `toml:"utility"`
	Billing  BillingConfig  `toml:"billing"`
	Rates    []RateConfig   `toml:"rates"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	Metrics bool   `toml:"metrics"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// AuthConfig controls staff session tokens.
type AuthConfig struct {
	// JWTSecret signs session tokens. The default is for local development
	// only; deployments must set their own.
	JWTSecret string `toml:"jwt_secret"`

	// TokenTTL is the session lifetime, e.g. "12h".
	TokenTTL string `toml:"token_ttl"`
}

// TokenDuration parses TokenTTL, falling back to 24h.
func (a AuthConfig) TokenDuration() time.Duration {
	d, err := time.ParseDuration(a.TokenTTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// UtilityConfig is the identity block printed on receipts and reports.
type UtilityConfig struct {
	Name     string    `toml:"name"`
	Address  []string  `toml:"address"`
	Contacts []Contact `toml:"contacts"`
}

// Contact is one line of the receipt's contact footer.
type Contact struct {
	Label string `toml:"label"`
	Value string `toml:"value"`
}

// BillingConfig holds billing policy.
type BillingConfig struct {
	// ConnectionFee is billed when an account is registered.
	ConnectionFee float64 `toml:"connection_fee"`

	// AllowPartialPayment accepts tenders below the total due. On by
	// default to match point-of-sale practice at the counter.
	AllowPartialPayment bool `toml:"allow_partial_payment"`
}

// RateConfig is one connection type's tiered rate.
type RateConfig struct {
	Connection string  `toml:"connection"`
	Min        float64 `toml:"min"`
	Succ       float64 `toml:"succ"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Host: "0.0.0.0", Port: 8080, Metrics: true},
		Database: DatabaseConfig{Path: "./data/waterworks.db"},
		Auth:     AuthConfig{JWTSecret: "dev-only-secret-change-me", TokenTTL: "24h"},
		Utility: UtilityConfig{
			Name:    "VILLANUEVA WATER SYSTEM",
			Address: []string{"LGU Villanueva", "Misamis Oriental"},
			Contacts: []Contact{
				{Label: "PhilCom", Value: "088-5650-278"},
				{Label: "Globe", Value: "0917-1629-094"},
				{Label: "Website", Value: "villanuevamisor.gov.ph"},
			},
		},
		Billing: BillingConfig{ConnectionFee: 750, AllowPartialPayment: true},
		Rates: []RateConfig{
			{Connection: "residential", Min: 10, Succ: 12},
			{Connection: "commercial", Min: 25, Succ: 30},
			{Connection: "industrial", Min: 35, Succ: 40},
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing path ("")
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// RateTable converts the configured rates into the engine's table.
// Connection names go through the legacy-tolerant parser so configs written
// against old store data still map.
func (c *Config) RateTable() billing.RateTable {
	table := make(billing.RateTable, len(c.Rates))
	for _, r := range c.Rates {
		table[models.ParseConnection(r.Connection)] = billing.Rate{Min: r.Min, Succ: r.Succ}
	}
	return table
}

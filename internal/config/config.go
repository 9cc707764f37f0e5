// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"quote-tool/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Catalog describes where reference price tables come from
	Catalog CatalogConfig `json:"catalog"`

	// Pricing contains pricing configuration
	Pricing PricingConfig `json:"pricing"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// CatalogConfig contains catalog source settings
type CatalogConfig struct {
	// Source is a local workbook path or an http(s) URL
	Source string `json:"source,omitempty"`

	// DocumentID is a stable spreadsheet identifier, used when Source is empty
	DocumentID string `json:"document_id,omitempty"`

	// ExportURLTemplate turns DocumentID into a download URL; %s is replaced by the id
	ExportURLTemplate string `json:"export_url_template"`

	// TimeoutSeconds bounds the catalog fetch
	TimeoutSeconds int `json:"timeout_seconds"`

	// Sheets names the four workbook tables
	Sheets SheetNames `json:"sheets"`

	// NonPricedMarkers are price cell values that mark quote-only rows
	NonPricedMarkers []string `json:"non_priced_markers"`

	// ExcludedSegments are segment substrings dropped at load time
	ExcludedSegments []string `json:"excluded_segments"`
}

// SheetNames names the workbook sheet holding each table
type SheetNames struct {
	Plans        string `json:"plans"`
	Seats        string `json:"seats"`
	Productivity string `json:"productivity"`
	Hardware     string `json:"hardware"`
}

// PricingConfig contains pricing-related settings
type PricingConfig struct {
	// Currency is the quote currency code
	Currency string `json:"currency"`

	// OnboardingFloor is the minimum computed onboarding fee
	OnboardingFloor string `json:"onboarding_floor"`

	// FixedPercent is the percent used by the fixed percent discount
	FixedPercent string `json:"fixed_percent"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default preview format (table, json, yaml)
	DefaultFormat string `json:"default_format"`

	// Directory is where exports are written
	Directory string `json:"directory"`

	// LegalNotice is printed at the end of every exported document
	LegalNotice string `json:"legal_notice"`
}

// DefaultLegalNotice is the notice attached to every quote document
const DefaultLegalNotice = "This quote is valid for 30 days from the date of issuance. " +
	"Prices are subject to change after this period and are contingent upon availability " +
	"and market conditions at the time of order placement. This quote does not constitute " +
	"a binding agreement and is provided for informational purposes only. Terms and conditions " +
	"may apply. Please contact us with any questions or for further clarification."

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Catalog: CatalogConfig{
			ExportURLTemplate: "https://docs.google.com/spreadsheets/d/%s/export?format=xlsx",
			TimeoutSeconds:    20,
			Sheets: SheetNames{
				Plans:        "Ariento Plans",
				Seats:        "Ariento License Type",
				Productivity: "Microsoft Seat Licenses",
				Hardware:     "Additional Licenses",
			},
			NonPricedMarkers: []string{"quote", "quote only", "custom", "ad hoc", "ad-hoc", "tbd"},
			ExcludedSegments: []string{"education", "charity", "nonprofit"},
		},
		Pricing: PricingConfig{
			Currency:        "USD",
			OnboardingFloor: "3000",
			FixedPercent:    "10",
		},
		Output: OutputConfig{
			DefaultFormat: "table",
			Directory:     ".",
			LegalNotice:   DefaultLegalNotice,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Timeout returns the catalog fetch timeout
func (c CatalogConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 20 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}

// Package testhelpers provides shared fixtures for package tests.
package testhelpers

import (
	"github.com/shopspring/decimal"

	"quote-tool/core/catalog"
)

// Plan names used by the sample catalog
const (
	PlanEnclaveOneCommercial = "Enclave One (Commercial)"
	PlanEnclaveOneGCCH       = "Enclave One (GCC-H)"
	PlanCustomGCC            = "Custom Enclave (GCC)"
	PlanCustomCommercial     = "Custom Enclave (Commercial)"
)

// D parses a decimal literal and panics on malformed input
func D(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// SampleTables returns raw tables shaped like the pricing workbook,
// including rows the load policy must drop.
func SampleTables() catalog.Tables {
	return catalog.Tables{
		Plans: &catalog.RawTable{
			Name:   "Ariento Plans",
			Header: []string{"Plan Name", "Segment", "Business Model"},
			Rows: [][]string{
				{PlanEnclaveOneCommercial, "Commercial", "Enclave One"},
				{PlanEnclaveOneGCCH, "GCC-High (non-government)", "Enclave One"},
				{PlanCustomGCC, "GCC", "Custom Enclave"},
				{PlanCustomCommercial, "Commercial", "Custom Enclave"},
				{"Enclave One (Education)", "Education", "Enclave One"},
				{"", "", ""},
			},
		},
		Seats: &catalog.RawTable{
			Name:   "Ariento License Type",
			Header: []string{"Plan", "Seat Type", "Price"},
			Rows: [][]string{
				{PlanEnclaveOneCommercial, "Standard User", "$50.00"},
				{PlanEnclaveOneCommercial, "Power User", "75"},
				{PlanEnclaveOneGCCH, "Standard User", "50"},
				{PlanEnclaveOneGCCH, "Power User", "90"},
				{PlanCustomGCC, "Standard User", "100"},
				{PlanCustomGCC, "Admin", "150"},
				{PlanCustomGCC, "Kiosk", "Quote"},
				{PlanCustomCommercial, "Standard User", "$1,000.00"},
				{"Enclave One (Education)", "Standard User", "10"},
			},
		},
		Productivity: &catalog.RawTable{
			Name:   "Microsoft Seat Licenses",
			Header: []string{"License", "Segment", "Term", "Billing", "Price"},
			Rows: [][]string{
				{"Microsoft 365 E3", "Commercial", "1 Year", "Monthly", "36"},
				{"Microsoft 365 E3", "Commercial", "1 Year", "Annual", "432"},
				{"Microsoft 365 E3", "GCC", "1 Year", "Monthly", "39.60"},
				{"Microsoft 365 E3 (GCC High)", "GCC-High (non-government)", "1 Year", "Annual", "500"},
				{"Exchange Online Plan 1", "", "", "", "4"},
				{"Microsoft 365 A3", "Education", "1 Year", "Monthly", "3.25"},
				{"Copilot Enterprise", "Commercial", "1 Year", "Monthly", "Custom"},
			},
		},
		Hardware: &catalog.RawTable{
			Name:   "Additional Licenses",
			Header: []string{"License", "Price"},
			Rows: [][]string{
				{"Meraki MX68", "200"},
				{"Meraki MR36", "150"},
				{"Meraki Z4", "ad hoc"},
			},
		},
	}
}

// SampleCatalog builds the catalog from SampleTables with the default policy
func SampleCatalog() *catalog.Catalog {
	c, _, err := catalog.FromTables(SampleTables(), catalog.DefaultRowPolicy())
	if err != nil {
		panic(err)
	}
	return c
}

package catalog_test

import (
	"testing"

	"quote-tool/core/catalog"
	"quote-tool/internal/errors"
	"quote-tool/internal/testhelpers"
)

func TestSegmentForMarkerPrecedence(t *testing.T) {
	tests := []struct {
		plan    string
		want    catalog.Segment
		defined bool
	}{
		{"Enclave One (GCC-H)", catalog.SegmentGCCHigh, true},
		{"Enclave One GCC-High", catalog.SegmentGCCHigh, true},
		{"Custom Enclave GCC and GCC-High bundle", catalog.SegmentGCCHigh, true},
		{"Custom Enclave (GCC)", catalog.SegmentGCC, true},
		{"Enclave One (Commercial)", catalog.SegmentCommercial, true},
		{"Enclave One (commercial)", catalog.SegmentCommercial, true},
		{"Managed Firewall", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.plan, func(t *testing.T) {
			got, ok := catalog.SegmentFor(tt.plan)
			if ok != tt.defined {
				t.Fatalf("SegmentFor(%q) defined = %v, want %v", tt.plan, ok, tt.defined)
			}
			if got != tt.want {
				t.Errorf("SegmentFor(%q) = %q, want %q", tt.plan, got, tt.want)
			}
		})
	}
}

func TestBillingOptionsBySegment(t *testing.T) {
	if opts := catalog.BillingOptions(catalog.SegmentGCCHigh); len(opts) != 1 || opts[0] != catalog.BillingAnnual {
		t.Errorf("GCC-High billing options = %v, want [Annual]", opts)
	}
	for _, seg := range []catalog.Segment{catalog.SegmentCommercial, catalog.SegmentGCC, ""} {
		if opts := catalog.BillingOptions(seg); len(opts) != 2 {
			t.Errorf("%q billing options = %v, want Monthly and Annual", seg, opts)
		}
	}
}

func TestFromTablesDropsNonPricedAndExcludedRows(t *testing.T) {
	c, report, err := catalog.FromTables(testhelpers.SampleTables(), catalog.DefaultRowPolicy())
	if err != nil {
		t.Fatalf("FromTables() error = %v", err)
	}

	if _, ok := c.Plan("Enclave One (Education)"); ok {
		t.Error("education plan must be dropped at load time")
	}
	if _, ok := c.LookupSeat(testhelpers.PlanCustomGCC, "Kiosk"); ok {
		t.Error("quote-only seat row must be dropped")
	}
	if _, ok := c.LookupSeat("Enclave One (Education)", "Standard User"); ok {
		t.Error("seats of an excluded plan must be dropped")
	}
	if _, ok := c.LookupHardware("Meraki Z4"); ok {
		t.Error("ad hoc hardware row must be dropped")
	}
	for _, row := range c.ProductivityOptions(catalog.ProductivityFilter{}) {
		if row.SKU == "Microsoft 365 A3" || row.SKU == "Copilot Enterprise" {
			t.Errorf("row %q should not be visible", row.SKU)
		}
	}

	if got := report.Count(catalog.TableSeats, catalog.DropNonPriced); got != 1 {
		t.Errorf("seat non-priced drops = %d, want 1", got)
	}
	if got := report.Count(catalog.TablePlans, catalog.DropExcluded); got != 1 {
		t.Errorf("plan exclusions = %d, want 1", got)
	}
	if report.Stats.Plans != 4 || report.Stats.Hardware != 2 {
		t.Errorf("unexpected stats %+v", report.Stats)
	}
}

func TestFromTablesParsesFormattedPrices(t *testing.T) {
	c := testhelpers.SampleCatalog()
	if got := c.SeatPrice(testhelpers.PlanCustomCommercial, "Standard User"); !got.Equal(testhelpers.D("1000")) {
		t.Errorf("price = %s, want 1000", got)
	}
	if got := c.SeatPrice(testhelpers.PlanEnclaveOneCommercial, "Standard User"); !got.Equal(testhelpers.D("50")) {
		t.Errorf("price = %s, want 50", got)
	}
}

func TestFromTablesRejectsMissingTableAndColumn(t *testing.T) {
	missingTable := testhelpers.SampleTables()
	missingTable.Hardware = nil
	if _, _, err := catalog.FromTables(missingTable, catalog.DefaultRowPolicy()); !errors.IsType(err, errors.TypeSchema) {
		t.Errorf("missing table: expected SCHEMA_ERROR, got %v", err)
	}

	missingColumn := testhelpers.SampleTables()
	missingColumn.Seats.Header = []string{"Plan", "Seat Type", "Cost Basis"}
	_, _, err := catalog.FromTables(missingColumn, catalog.DefaultRowPolicy())
	if !errors.IsType(err, errors.TypeSchema) {
		t.Fatalf("missing column: expected SCHEMA_ERROR, got %v", err)
	}
}

func TestFromTablesOptionalAddOnColumns(t *testing.T) {
	tables := testhelpers.SampleTables()
	tables.Productivity.Header = []string{"SKU", "Price"}
	tables.Productivity.Rows = [][]string{{"Defender for Office 365", "2"}}

	c, _, err := catalog.FromTables(tables, catalog.DefaultRowPolicy())
	if err != nil {
		t.Fatalf("optional columns absent: %v", err)
	}
	f := catalog.ProductivityFilter{Segment: catalog.SegmentGCC, Term: catalog.TermAnnual, Billing: catalog.BillingMonthly}
	if got := c.ProductivityPrice("Defender for Office 365", f); !got.Equal(testhelpers.D("2")) {
		t.Errorf("wildcard row price = %s, want 2", got)
	}
}

func TestFromTablesRejectsMalformedPrice(t *testing.T) {
	tables := testhelpers.SampleTables()
	tables.Hardware.Rows = append(tables.Hardware.Rows, []string{"Meraki MS120", "two hundred"})
	_, _, err := catalog.FromTables(tables, catalog.DefaultRowPolicy())
	if !errors.IsType(err, errors.TypeSchema) {
		t.Fatalf("expected SCHEMA_ERROR, got %v", err)
	}

	negative := testhelpers.SampleTables()
	negative.Hardware.Rows = [][]string{{"Meraki MS120", "-5"}}
	if _, _, err := catalog.FromTables(negative, catalog.DefaultRowPolicy()); !errors.IsType(err, errors.TypeSchema) {
		t.Errorf("negative price: expected SCHEMA_ERROR, got %v", err)
	}
}

func TestNewRejectsConflictingSeatPrices(t *testing.T) {
	_, err := catalog.New(nil, []catalog.SeatPrice{
		{Plan: "P", SeatType: "S", UnitPrice: testhelpers.D("10")},
		{Plan: "P", SeatType: "S", UnitPrice: testhelpers.D("12")},
	}, nil, nil)
	if !errors.IsType(err, errors.TypeSchema) {
		t.Fatalf("expected SCHEMA_ERROR, got %v", err)
	}

	c, err := catalog.New(nil, []catalog.SeatPrice{
		{Plan: "P", SeatType: "S", UnitPrice: testhelpers.D("10")},
		{Plan: "P", SeatType: "S", UnitPrice: testhelpers.D("10.00")},
	}, nil, nil)
	if err != nil {
		t.Fatalf("identical duplicates should collapse: %v", err)
	}
	if len(c.SeatTypes("P")) != 1 {
		t.Errorf("expected one seat row, got %d", len(c.SeatTypes("P")))
	}
}

func TestLookupsAreZeroOnMiss(t *testing.T) {
	c := testhelpers.SampleCatalog()

	if got := c.SeatPrice(testhelpers.PlanEnclaveOneCommercial, "Retired Seat"); !got.IsZero() {
		t.Errorf("missing seat = %s, want 0", got)
	}
	if got := c.HardwarePrice("Unknown SKU"); !got.IsZero() {
		t.Errorf("missing hardware = %s, want 0", got)
	}
	f := catalog.ProductivityFilter{Segment: catalog.SegmentCommercial, Term: catalog.TermAnnual, Billing: catalog.BillingMonthly}
	if got := c.ProductivityPrice("Microsoft 365 E3 (GCC High)", f); !got.IsZero() {
		t.Errorf("row outside filter = %s, want 0", got)
	}
}

func TestProductivityFilterBySegmentTermBilling(t *testing.T) {
	c := testhelpers.SampleCatalog()

	monthly := catalog.ProductivityFilter{Segment: catalog.SegmentCommercial, Term: catalog.TermAnnual, Billing: catalog.BillingMonthly}
	annual := monthly
	annual.Billing = catalog.BillingAnnual
	gcc := monthly
	gcc.Segment = catalog.SegmentGCC

	tests := []struct {
		name   string
		filter catalog.ProductivityFilter
		want   string
	}{
		{"commercial monthly", monthly, "36"},
		{"commercial annual", annual, "432"},
		{"gcc monthly", gcc, "39.6"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.ProductivityPrice("Microsoft 365 E3", tt.filter)
			if !got.Equal(testhelpers.D(tt.want)) {
				t.Errorf("price = %s, want %s", got, tt.want)
			}
		})
	}

	gccHigh := catalog.ProductivityFilter{Segment: catalog.SegmentGCCHigh, Term: catalog.TermAnnual, Billing: catalog.BillingAnnual}
	opts := c.ProductivityOptions(gccHigh)
	if len(opts) != 2 {
		t.Fatalf("GCC-High options = %v, want GCC High E3 and the wildcard row", opts)
	}
}

func TestPlansForBusinessModel(t *testing.T) {
	c := testhelpers.SampleCatalog()
	if got := len(c.PlansFor(catalog.ModelEnclaveOne)); got != 2 {
		t.Errorf("Enclave One plans = %d, want 2", got)
	}
	if got := len(c.PlansFor(catalog.ModelThirdPartyResell)); got != 0 {
		t.Errorf("resell plans = %d, want 0", got)
	}
}

func TestParseBusinessModel(t *testing.T) {
	tests := map[string]catalog.BusinessModel{
		"Enclave One":        catalog.ModelEnclaveOne,
		"enclave  one":       catalog.ModelEnclaveOne,
		"custom_enclave":     catalog.ModelCustomEnclave,
		"Third-Party Resell": catalog.ModelThirdPartyResell,
		"third party resell": catalog.ModelThirdPartyResell,
	}
	for in, want := range tests {
		got, err := catalog.ParseBusinessModel(in)
		if err != nil || got != want {
			t.Errorf("ParseBusinessModel(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := catalog.ParseBusinessModel("Reseller Plus"); !errors.IsType(err, errors.TypeInput) {
		t.Errorf("expected INPUT_ERROR, got %v", err)
	}
}

func TestCatalogHashIsContentBased(t *testing.T) {
	a := testhelpers.SampleCatalog()
	b := testhelpers.SampleCatalog()
	if a.Hash() != b.Hash() {
		t.Error("identical tables must hash the same")
	}

	tables := testhelpers.SampleTables()
	tables.Hardware.Rows[0][1] = "201"
	c, _, err := catalog.FromTables(tables, catalog.DefaultRowPolicy())
	if err != nil {
		t.Fatal(err)
	}
	if c.Hash() == a.Hash() {
		t.Error("a price change must change the hash")
	}
}

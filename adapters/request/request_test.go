package request

import (
	"os"
	"path/filepath"
	"testing"

	"quote-tool/core/catalog"
	"quote-tool/core/selection"
	"quote-tool/internal/errors"
	th "quote-tool/internal/testhelpers"
)

const fullRequest = `
company        = "Acme Corp"
business_model = "custom enclave"
plan           = "Custom Enclave (GCC)"
billing_cycle  = "annual"

productivity_term    = "1 Year"
productivity_billing = "Monthly"

seat "Standard User" {
  quantity = 10
}

seat "Admin" {
  quantity = 0
}

productivity "Microsoft 365 E3" {
  quantity = 10
}

hardware "Meraki MX68" {
  quantity = 2
}

onboarding {
  choice = "standard"
  tier   = "Annual Payment, 1 Year Subscription (50% off)"
}

discount {
  type    = "custom_percent"
  percent = 12.5
}
`

func TestParseFullRequest(t *testing.T) {
	req, err := Parse([]byte(fullRequest), "quote.hcl")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	sel := req.Selection

	if req.Company != "Acme Corp" {
		t.Errorf("company = %q", req.Company)
	}
	if sel.BusinessModel() != catalog.ModelCustomEnclave || sel.Plan() != th.PlanCustomGCC {
		t.Errorf("model/plan = %q / %q", sel.BusinessModel(), sel.Plan())
	}
	if sel.BillingCycle() != catalog.BillingAnnual {
		t.Errorf("billing = %q", sel.BillingCycle())
	}
	if seats := sel.Seats(); len(seats) != 1 || seats[0].Key != "Standard User" {
		t.Errorf("seats = %+v, zero quantities must be dropped", seats)
	}
	if hw := sel.Hardware(); len(hw) != 1 || hw[0].Quantity != 2 {
		t.Errorf("hardware = %+v", hw)
	}
	if o := sel.Onboarding(); o.Kind != selection.OnboardingStandard || o.Tier != selection.TierAnnualOneYear {
		t.Errorf("onboarding = %+v", o)
	}
	if d := sel.Discount(); d.Kind != selection.DiscountCustomPercent || !d.Percent.Equal(th.D("12.5")) {
		t.Errorf("discount = %+v", d)
	}
}

func TestParseDefaults(t *testing.T) {
	req, err := Parse([]byte(`
business_model = "Enclave One"
plan           = "Enclave One (Commercial)"
`), "min.hcl")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	sel := req.Selection
	if sel.BillingCycle() != catalog.BillingMonthly {
		t.Errorf("billing = %q, want Monthly", sel.BillingCycle())
	}
	if sel.ProductivityTerm() != catalog.TermAnnual || sel.ProductivityBilling() != catalog.BillingMonthly {
		t.Errorf("productivity terms = %q / %q", sel.ProductivityTerm(), sel.ProductivityBilling())
	}
	if sel.Onboarding().Kind != selection.OnboardingNotRequired || sel.Discount().Kind != selection.DiscountNone {
		t.Errorf("onboarding/discount = %+v / %+v", sel.Onboarding(), sel.Discount())
	}
}

func TestParseOnboardingAndDiscountForms(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantKind selection.OnboardingKind
		wantAmt  string
		discount selection.DiscountKind
	}{
		{
			name:     "flat number",
			body:     "onboarding {\n choice = \"flat\"\n amount = 1500\n}",
			wantKind: selection.OnboardingFlat,
			wantAmt:  "1500",
			discount: selection.DiscountNone,
		},
		{
			name:     "flat string with free period",
			body:     "onboarding {\n choice = \"other\"\n amount = \"2750.50\"\n}\ndiscount {\n type = \"30 days free\"\n}",
			wantKind: selection.OnboardingFlat,
			wantAmt:  "2750.50",
			discount: selection.DiscountFreePeriod,
		},
		{
			name:     "standard without tier",
			body:     `onboarding { choice = "standard" }`,
			wantKind: selection.OnboardingStandard,
			wantAmt:  "0",
			discount: selection.DiscountNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "business_model = \"Custom Enclave\"\nplan = \"Custom Enclave (GCC)\"\n" + tt.body + "\n"
			req, err := Parse([]byte(src), "test.hcl")
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			o := req.Selection.Onboarding()
			if o.Kind != tt.wantKind || !o.Amount.Equal(th.D(tt.wantAmt)) {
				t.Errorf("onboarding = %+v", o)
			}
			if o.Kind == selection.OnboardingStandard && o.Tier != selection.TierMonthlyOneYear {
				t.Errorf("default tier = %q", o.Tier)
			}
			if req.Selection.Discount().Kind != tt.discount {
				t.Errorf("discount = %q", req.Selection.Discount().Kind)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	base := "business_model = \"Custom Enclave\"\nplan = \"Custom Enclave (GCC)\"\n"
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `business_model = `},
		{"missing model", `plan = "x"`},
		{"unknown model", `business_model = "Franchise"`},
		{"unknown attribute", base + `colour = "blue"`},
		{"negative quantity", base + `seat "Standard User" { quantity = -1 }`},
		{"fractional quantity", base + `seat "Standard User" { quantity = 1.5 }`},
		{"duplicate seat", base + "seat \"A\" {\n quantity = 1\n}\nseat \"A\" {\n quantity = 2\n}"},
		{"unknown billing", base + `billing_cycle = "weekly"`},
		{"flat without amount", base + `onboarding { choice = "flat" }`},
		{"negative amount", base + "onboarding {\n choice = \"flat\"\n amount = -5\n}"},
		{"custom without percent", base + `discount { type = "custom_percent" }`},
		{"percent over 100", base + "discount {\n type = \"custom\"\n percent = 150\n}"},
		{"percent not a number", base + "discount {\n type = \"custom\"\n percent = true\n}"},
		{"missing plan", `business_model = "Enclave One"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.hcl")
			if !errors.IsType(err, errors.TypeInput) {
				t.Errorf("expected INPUT_ERROR, got %v", err)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quote.hcl")
	if err := os.WriteFile(path, []byte(fullRequest), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseFile(path); err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.hcl")); !errors.IsType(err, errors.TypeInput) {
		t.Errorf("expected INPUT_ERROR for missing file, got %v", err)
	}
}

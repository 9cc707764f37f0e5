// Package request decodes quote request files.
// A request is an HCL document naming the operator's choices:
//
//	company        = "Acme Corp"
//	business_model = "Custom Enclave"
//	plan           = "Custom Enclave (GCC)"
//	billing_cycle  = "Annual"
//
//	seat "Standard User" { quantity = 10 }
//	productivity "Microsoft 365 E3" { quantity = 10 }
//	hardware "Meraki MX68" { quantity = 1 }
//
//	onboarding {
//	  choice = "standard"
//	  tier   = "Monthly Payments, 1-Year Subscription"
//	}
//	discount {
//	  type    = "custom_percent"
//	  percent = 12.5
//	}
package request

import (
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"
	"github.com/zclconf/go-cty/cty"

	"quote-tool/core/catalog"
	"quote-tool/core/selection"
	"quote-tool/internal/errors"
)

// Request is a decoded quote request
type Request struct {
	// Company is printed on exported documents
	Company string

	Selection selection.Selection
}

type requestFile struct {
	Company             string           `hcl:"company,optional"`
	BusinessModel       string           `hcl:"business_model"`
	Plan                string           `hcl:"plan,optional"`
	BillingCycle        string           `hcl:"billing_cycle,optional"`
	ProductivityTerm    string           `hcl:"productivity_term,optional"`
	ProductivityBilling string           `hcl:"productivity_billing,optional"`
	Seats               []quantityBlock  `hcl:"seat,block"`
	Productivity        []quantityBlock  `hcl:"productivity,block"`
	Hardware            []quantityBlock  `hcl:"hardware,block"`
	Onboarding          *onboardingBlock `hcl:"onboarding,block"`
	Discount            *discountBlock   `hcl:"discount,block"`
}

type quantityBlock struct {
	Name     string `hcl:"name,label"`
	Quantity int    `hcl:"quantity"`
}

type onboardingBlock struct {
	Choice string    `hcl:"choice"`
	Tier   string    `hcl:"tier,optional"`
	Amount cty.Value `hcl:"amount,optional"`
}

type discountBlock struct {
	Type    string    `hcl:"type"`
	Percent cty.Value `hcl:"percent,optional"`
}

// ParseFile reads and decodes a request file
func ParseFile(path string) (*Request, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInput, "failed to read quote request", err)
	}
	return Parse(src, path)
}

// Parse decodes a request document. Unknown labels, negative numbers and
// duplicate entries are INPUT_ERRORs.
func Parse(src []byte, filename string) (*Request, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagError(diags)
	}

	var rf requestFile
	if diags := gohcl.DecodeBody(file.Body, nil, &rf); diags.HasErrors() {
		return nil, diagError(diags)
	}

	b, err := rf.builder()
	if err != nil {
		return nil, err
	}
	sel, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &Request{Company: rf.Company, Selection: sel}, nil
}

func diagError(diags hcl.Diagnostics) error {
	return errors.Wrap(errors.TypeInput, "invalid quote request", diags)
}

func (rf *requestFile) builder() (*selection.Builder, error) {
	model, err := catalog.ParseBusinessModel(rf.BusinessModel)
	if err != nil {
		return nil, err
	}
	b := selection.NewBuilder(model).Plan(rf.Plan)

	if rf.BillingCycle != "" {
		cycle, err := catalog.ParseBillingCycle(rf.BillingCycle)
		if err != nil {
			return nil, err
		}
		b.Billing(cycle)
	}

	term, billing := catalog.TermAnnual, catalog.BillingMonthly
	if rf.ProductivityTerm != "" {
		if term, err = catalog.ParseTerm(rf.ProductivityTerm); err != nil {
			return nil, err
		}
	}
	if rf.ProductivityBilling != "" {
		if billing, err = catalog.ParseBillingCycle(rf.ProductivityBilling); err != nil {
			return nil, err
		}
	}
	b.ProductivityTerms(term, billing)

	for _, group := range []struct {
		kind   string
		blocks []quantityBlock
		set    func(string, int) *selection.Builder
	}{
		{"seat", rf.Seats, b.Seat},
		{"productivity", rf.Productivity, b.Productivity},
		{"hardware", rf.Hardware, b.Hardware},
	} {
		seen := make(map[string]bool, len(group.blocks))
		for _, blk := range group.blocks {
			if seen[blk.Name] {
				return nil, errors.Inputf("%s %q declared more than once", group.kind, blk.Name)
			}
			seen[blk.Name] = true
			if blk.Quantity < 0 {
				return nil, errors.Inputf("%s %q quantity %d must not be negative", group.kind, blk.Name, blk.Quantity)
			}
			group.set(blk.Name, blk.Quantity)
		}
	}

	if rf.Onboarding != nil {
		o, err := rf.Onboarding.choice()
		if err != nil {
			return nil, err
		}
		b.Onboarding(o)
	}
	if rf.Discount != nil {
		d, err := rf.Discount.choice()
		if err != nil {
			return nil, err
		}
		b.Discount(d)
	}
	return b, nil
}

func (o *onboardingBlock) choice() (selection.Onboarding, error) {
	kind, err := selection.ParseOnboardingKind(o.Choice)
	if err != nil {
		return selection.Onboarding{}, err
	}

	switch kind {
	case selection.OnboardingStandard:
		tier := o.Tier
		if tier == "" {
			tier = selection.TierMonthlyOneYear
		}
		return selection.Standard(tier), nil
	case selection.OnboardingFlat:
		amount, ok, err := decimalValue(o.Amount)
		if err != nil {
			return selection.Onboarding{}, errors.Inputf("onboarding amount: %v", err)
		}
		if !ok {
			return selection.Onboarding{}, errors.Input("onboarding choice \"flat\" requires an amount")
		}
		return selection.Flat(amount), nil
	case selection.OnboardingNone:
		return selection.Onboarding{Kind: selection.OnboardingNone}, nil
	}
	return selection.NotRequired(), nil
}

func (d *discountBlock) choice() (selection.Discount, error) {
	kind, err := selection.ParseDiscountKind(d.Type)
	if err != nil {
		return selection.Discount{}, err
	}

	switch kind {
	case selection.DiscountFreePeriod:
		return selection.FreePeriod(), nil
	case selection.DiscountFixedPercent:
		return selection.FixedPercent(), nil
	case selection.DiscountCustomPercent:
		p, ok, err := decimalValue(d.Percent)
		if err != nil {
			return selection.Discount{}, errors.Inputf("discount percent: %v", err)
		}
		if !ok {
			return selection.Discount{}, errors.Input("discount type \"custom_percent\" requires a percent")
		}
		return selection.CustomPercent(p), nil
	}
	return selection.NoDiscount(), nil
}

// decimalValue converts a number or numeric string attribute. ok is false
// when the attribute was omitted.
func decimalValue(v cty.Value) (d decimal.Decimal, ok bool, err error) {
	if v.IsNull() {
		return decimal.Zero, false, nil
	}
	if !v.IsKnown() {
		return decimal.Zero, false, errors.Input("value is not known")
	}

	switch v.Type() {
	case cty.Number:
		d, err = decimal.NewFromString(v.AsBigFloat().Text('f', -1))
	case cty.String:
		d, err = decimal.NewFromString(v.AsString())
	default:
		return decimal.Zero, false, errors.Inputf("expected a number, got %s", v.Type().FriendlyName())
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	return d, true, nil
}

// Package quote - Quote assembly
// Turns a pricing breakdown into the ordered line items and totals every
// renderer consumes. Renderers never compute; they read a Quote.
package quote

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quote-tool/core/catalog"
	"quote-tool/core/determinism"
	"quote-tool/core/pricing"
	"quote-tool/core/selection"
)

// CategoryDiscount labels discount adjustment rows
const CategoryDiscount = "Discount"

// NotRequired is the onboarding text used when no fee applies
const NotRequired = "Not Required"

// referenceNamespace scopes quote references
var referenceNamespace = uuid.MustParse("6f1c9a52-3d0e-5b8a-9c47-2e51d0a7b3f4")

// LineItem is one row of a quote
type LineItem struct {
	Category string `json:"category" yaml:"category"`
	Label    string `json:"item" yaml:"item"`
	Quantity int    `json:"quantity" yaml:"quantity"`

	// UnitPrice is null on adjustment rows
	UnitPrice decimal.NullDecimal `json:"unit_price" yaml:"unit_price"`
	Total     decimal.Decimal     `json:"total" yaml:"total"`

	// Adjustment marks discount rows, which carry no quantity
	Adjustment bool `json:"adjustment,omitempty" yaml:"adjustment,omitempty"`
}

// Columns is the header every tabular rendering of a quote uses
var Columns = []string{"Category", "Item", "Quantity", "Unit Price", "Total Cost"}

// Cells renders the row in Columns order
func (l LineItem) Cells() []string {
	return []string{l.Category, l.Label, l.QuantityText(), l.UnitPriceText(), l.TotalText()}
}

// QuantityText renders the quantity column, "-" on adjustment rows
func (l LineItem) QuantityText() string {
	if l.Adjustment {
		return "-"
	}
	return strconv.Itoa(l.Quantity)
}

// UnitPriceText renders the unit price column, "-" when absent
func (l LineItem) UnitPriceText() string {
	if !l.UnitPrice.Valid {
		return "-"
	}
	return FormatMoney(l.UnitPrice.Decimal)
}

// TotalText renders the total column
func (l LineItem) TotalText() string {
	return FormatMoney(l.Total)
}

// Totals are the named aggregates of a quote
type Totals struct {
	BasePlan     decimal.Decimal `json:"base_plan" yaml:"base_plan"`
	Productivity decimal.Decimal `json:"productivity" yaml:"productivity"`
	Hardware     decimal.Decimal `json:"hardware" yaml:"hardware"`

	// Onboarding is zero and OnboardingRequired false when no fee applies
	Onboarding         decimal.Decimal `json:"onboarding" yaml:"onboarding"`
	OnboardingRequired bool            `json:"onboarding_required" yaml:"onboarding_required"`

	// Discount is the positive sum of all discount rows
	Discount decimal.Decimal `json:"discount" yaml:"discount"`
	Grand    decimal.Decimal `json:"grand_total" yaml:"grand_total"`
}

// OnboardingText renders the onboarding total, "Not Required" when waived
func (t Totals) OnboardingText() string {
	if !t.OnboardingRequired {
		return NotRequired
	}
	return FormatMoney(t.Onboarding)
}

// Quote is the itemized, totaled output of one pricing computation
type Quote struct {
	Reference     uuid.UUID             `json:"reference" yaml:"reference"`
	BusinessModel catalog.BusinessModel `json:"business_model" yaml:"business_model"`
	Plan          string                `json:"plan,omitempty" yaml:"plan,omitempty"`
	Segment       catalog.Segment       `json:"segment,omitempty" yaml:"segment,omitempty"`
	Billing       catalog.BillingCycle  `json:"billing_cycle" yaml:"billing_cycle"`
	Discount      string                `json:"discount" yaml:"discount"`

	Items  []LineItem     `json:"items" yaml:"items"`
	Totals Totals         `json:"totals" yaml:"totals"`
	Misses []pricing.Miss `json:"misses,omitempty" yaml:"misses,omitempty"`
}

// Assemble prices a selection and builds its quote
func Assemble(cat *catalog.Catalog, sel selection.Selection, engine *pricing.Engine) Quote {
	return Build(engine.Compute(cat, sel), Reference(cat, sel))
}

// Reference derives a stable quote reference from the catalog content and
// the canonical selection
func Reference(cat *catalog.Catalog, sel selection.Selection) uuid.UUID {
	h := determinism.NewHasher("quote")
	h.Write(cat.Hash().Hex())
	sel.WriteCanonical(h)
	sum := h.Sum()
	return uuid.NewSHA1(referenceNamespace, sum[:])
}

// Build lays out a breakdown in category order: seats, productivity,
// hardware, onboarding, then one discount row per discounted category
func Build(b pricing.Breakdown, ref uuid.UUID) Quote {
	q := Quote{
		Reference:     ref,
		BusinessModel: b.Model,
		Plan:          b.Plan,
		Segment:       b.Segment,
		Billing:       b.Billing,
		Discount:      b.Discount.Label(),
		Items:         []LineItem{},
		Misses:        b.Misses,
	}

	for _, c := range []pricing.CategoryCost{b.Base, b.Productivity, b.Hardware} {
		for _, l := range c.Lines {
			q.Items = append(q.Items, LineItem{
				Category:  string(l.Category),
				Label:     l.Key,
				Quantity:  l.Quantity,
				UnitPrice: decimal.NewNullDecimal(l.UnitPrice),
				Total:     l.Total,
			})
		}
	}

	if b.Onboarding.Charged {
		q.Items = append(q.Items, LineItem{
			Category:  string(pricing.CategoryOnboarding),
			Label:     onboardingLabel(b.Onboarding.Choice),
			Quantity:  1,
			UnitPrice: decimal.NewNullDecimal(b.Onboarding.Amount),
			Total:     b.Onboarding.Amount,
		})
	}

	for _, d := range []struct {
		category pricing.Category
		amount   decimal.Decimal
	}{
		{pricing.CategorySeats, b.Base.Discount},
		{pricing.CategoryProductivity, b.Productivity.Discount},
		{pricing.CategoryHardware, b.Hardware.Discount},
		{pricing.CategoryOnboarding, b.Onboarding.Discount},
	} {
		if d.amount.IsZero() {
			continue
		}
		q.Items = append(q.Items, LineItem{
			Category:   CategoryDiscount,
			Label:      b.Discount.Label() + " (" + string(d.category) + ")",
			Total:      d.amount.Neg(),
			Adjustment: true,
		})
	}

	q.Totals = Totals{
		BasePlan:           b.Base.Display,
		Productivity:       b.Productivity.Display,
		Hardware:           b.Hardware.Display,
		OnboardingRequired: b.Onboarding.Charged,
		Discount:           b.DiscountTotal(),
	}
	if b.Onboarding.Charged {
		q.Totals.Onboarding = b.Onboarding.Amount
	}

	grand := decimal.Zero
	for _, item := range q.Items {
		grand = grand.Add(item.Total)
	}
	q.Totals.Grand = grand
	return q
}

func onboardingLabel(o selection.Onboarding) string {
	switch o.Kind {
	case selection.OnboardingStandard:
		if o.Tier != "" {
			return o.Tier
		}
		return "Standard Onboarding"
	case selection.OnboardingFlat:
		return "Other"
	}
	return string(o.Kind)
}

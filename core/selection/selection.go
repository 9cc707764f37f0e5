// Package selection - The operator's choices for one quote
// A Selection is an immutable value produced by a Builder. The Builder is the
// input boundary: it normalizes the choices and rejects invalid numbers so the
// pricing engine can assume clean input.
package selection

import (
	"strconv"

	"github.com/shopspring/decimal"

	"quote-tool/core/catalog"
	"quote-tool/core/determinism"
	"quote-tool/internal/errors"
)

// Quantity is one selected seat type or SKU with a positive count
type Quantity struct {
	Key      string `json:"key" yaml:"key"`
	Quantity int    `json:"quantity" yaml:"quantity"`
}

// Selection is the validated, immutable set of choices for one computation
type Selection struct {
	model               catalog.BusinessModel
	plan                string
	billing             catalog.BillingCycle
	seats               map[string]int
	productivity        map[string]int
	productivityTerm    catalog.Term
	productivityBilling catalog.BillingCycle
	hardware            map[string]int
	onboarding          Onboarding
	discount            Discount
}

// BusinessModel returns the selected business model
func (s Selection) BusinessModel() catalog.BusinessModel { return s.model }

// Plan returns the selected plan name, empty for models sold without a plan
func (s Selection) Plan() string { return s.plan }

// HasPlan reports whether a plan is selected
func (s Selection) HasPlan() bool { return s.plan != "" }

// BillingCycle returns the base plan billing cycle
func (s Selection) BillingCycle() catalog.BillingCycle { return s.billing }

// Onboarding returns the onboarding choice
func (s Selection) Onboarding() Onboarding { return s.onboarding }

// Discount returns the discount choice
func (s Selection) Discount() Discount { return s.discount }

// ProductivityTerm returns the productivity-suite term commitment
func (s Selection) ProductivityTerm() catalog.Term { return s.productivityTerm }

// ProductivityBilling returns the productivity-suite billing cycle
func (s Selection) ProductivityBilling() catalog.BillingCycle { return s.productivityBilling }

// Segment classifies the selected plan
func (s Selection) Segment() (catalog.Segment, bool) {
	if !s.HasPlan() {
		return "", false
	}
	return catalog.SegmentFor(s.plan)
}

// ProductivityFilter returns the filter productivity rows are priced under
func (s Selection) ProductivityFilter() catalog.ProductivityFilter {
	seg, _ := s.Segment()
	return catalog.ProductivityFilter{
		Segment: seg,
		Term:    s.productivityTerm,
		Billing: s.productivityBilling,
	}
}

// Seats returns the seat quantities sorted by seat type
func (s Selection) Seats() []Quantity { return sortedQuantities(s.seats) }

// Productivity returns the productivity-suite quantities sorted by SKU
func (s Selection) Productivity() []Quantity { return sortedQuantities(s.productivity) }

// Hardware returns the hardware quantities sorted by SKU
func (s Selection) Hardware() []Quantity { return sortedQuantities(s.hardware) }

func sortedQuantities(m map[string]int) []Quantity {
	out := make([]Quantity, 0, len(m))
	for _, k := range determinism.SortedKeys(m) {
		out = append(out, Quantity{Key: k, Quantity: m[k]})
	}
	return out
}

// WriteCanonical feeds the selection into a hasher in a fixed order
func (s Selection) WriteCanonical(h *determinism.Hasher) {
	h.Write("model", string(s.model), "plan", s.plan, "billing", string(s.billing))
	for _, group := range []struct {
		name string
		qs   []Quantity
	}{{"seats", s.Seats()}, {"productivity", s.Productivity()}, {"hardware", s.Hardware()}} {
		h.Write(group.name)
		for _, q := range group.qs {
			h.Write(q.Key, strconv.Itoa(q.Quantity))
		}
	}
	h.Write("term", string(s.productivityTerm), "productivity_billing", string(s.productivityBilling))
	h.Write("onboarding", string(s.onboarding.Kind), s.onboarding.Tier).WriteDecimal(s.onboarding.Amount)
	h.Write("discount", string(s.discount.Kind)).WriteDecimal(s.discount.Percent)
}

// Builder collects choices incrementally, the way the operator makes them
type Builder struct {
	sel  Selection
	errs []error
}

// NewBuilder starts a selection for a business model
func NewBuilder(model catalog.BusinessModel) *Builder {
	return &Builder{sel: Selection{
		model:               model,
		billing:             catalog.BillingMonthly,
		seats:               make(map[string]int),
		productivity:        make(map[string]int),
		productivityTerm:    catalog.TermAnnual,
		productivityBilling: catalog.BillingMonthly,
		hardware:            make(map[string]int),
		onboarding:          NotRequired(),
		discount:            NoDiscount(),
	}}
}

// Plan selects the base plan
func (b *Builder) Plan(name string) *Builder {
	b.sel.plan = name
	return b
}

// Billing selects the base plan billing cycle
func (b *Builder) Billing(cycle catalog.BillingCycle) *Builder {
	b.sel.billing = cycle
	return b
}

// Seat sets the quantity of a seat type; zero or less removes it
func (b *Builder) Seat(seatType string, quantity int) *Builder {
	setQuantity(b.sel.seats, seatType, quantity)
	return b
}

// Productivity sets the quantity of a productivity-suite SKU; zero or less removes it
func (b *Builder) Productivity(sku string, quantity int) *Builder {
	setQuantity(b.sel.productivity, sku, quantity)
	return b
}

// ProductivityTerms selects the term and billing productivity rows are priced under
func (b *Builder) ProductivityTerms(term catalog.Term, billing catalog.BillingCycle) *Builder {
	b.sel.productivityTerm = term
	b.sel.productivityBilling = billing
	return b
}

// Hardware sets the quantity of a hardware SKU; zero or less removes it
func (b *Builder) Hardware(sku string, quantity int) *Builder {
	setQuantity(b.sel.hardware, sku, quantity)
	return b
}

// Onboarding selects the onboarding choice
func (b *Builder) Onboarding(o Onboarding) *Builder {
	if o.Kind == OnboardingFlat && o.Amount.IsNegative() {
		b.errs = append(b.errs, errors.Inputf("onboarding amount %s must not be negative", o.Amount))
		return b
	}
	b.sel.onboarding = o
	return b
}

// Discount selects the discount choice
func (b *Builder) Discount(d Discount) *Builder {
	if d.Kind == DiscountCustomPercent &&
		(d.Percent.IsNegative() || d.Percent.GreaterThan(decimal.NewFromInt(100))) {
		b.errs = append(b.errs, errors.Inputf("custom discount %s%% must be between 0 and 100", d.Percent))
		return b
	}
	b.sel.discount = d
	return b
}

func setQuantity(m map[string]int, key string, quantity int) {
	if quantity <= 0 {
		delete(m, key)
		return
	}
	m[key] = quantity
}

// Build normalizes the choices and returns an independent Selection.
// Normalization rules:
//   - models sold without a plan drop plan, seats and onboarding
//   - Enclave One never charges onboarding
//   - GCC-High plans bill annually, base plan and productivity suite alike
func (b *Builder) Build() (Selection, error) {
	if len(b.errs) > 0 {
		return Selection{}, b.errs[0]
	}

	s := b.sel
	s.seats = copyQuantities(b.sel.seats)
	s.productivity = copyQuantities(b.sel.productivity)
	s.hardware = copyQuantities(b.sel.hardware)

	switch {
	case s.model == "":
		return Selection{}, errors.Input("business model is required")
	case !s.model.RequiresPlan():
		s.plan = ""
		s.seats = map[string]int{}
		s.onboarding = NotRequired()
	case s.plan == "":
		return Selection{}, errors.Inputf("a plan is required for the %s business model", s.model)
	}

	if s.model == catalog.ModelEnclaveOne {
		s.onboarding = NotRequired()
	}

	if seg, ok := s.Segment(); ok && seg.AnnualOnly() {
		s.billing = catalog.BillingAnnual
		s.productivityBilling = catalog.BillingAnnual
	}
	return s, nil
}

func copyQuantities(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

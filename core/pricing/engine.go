package pricing

import (
	"github.com/shopspring/decimal"

	"quote-tool/core/catalog"
	"quote-tool/core/determinism"
	"quote-tool/core/selection"
)

// Category names a priced section of a quote
type Category string

const (
	CategoryPlan         Category = "Plan"
	CategorySeats        Category = "Seat Type"
	CategoryProductivity Category = "Microsoft License"
	CategoryHardware     Category = "Hardware License"
	CategoryOnboarding   Category = "Onboarding"
)

// Line is one priced selection entry
type Line struct {
	Category Category `json:"category" yaml:"category"`
	Key      string   `json:"key" yaml:"key"`
	Quantity int      `json:"quantity" yaml:"quantity"`

	// UnitPrice is the displayed unit price, annualized where the category is
	UnitPrice decimal.Decimal `json:"unit_price" yaml:"unit_price"`
	Total     decimal.Decimal `json:"total" yaml:"total"`

	// Missed is set when no catalog row matched and the price resolved to 0
	Missed bool `json:"missed,omitempty" yaml:"missed,omitempty"`
}

// Miss records a selection entry with no matching catalog row
type Miss struct {
	Category Category `json:"category" yaml:"category"`
	Key      string   `json:"key" yaml:"key"`
}

// CategoryCost is the cost of one recurring category
type CategoryCost struct {
	Lines []Line `json:"lines" yaml:"lines"`

	// Raw is the sum at listed prices, before annualization
	Raw decimal.Decimal `json:"raw" yaml:"raw"`

	// Display is the billed amount for the selected cycle
	Display  decimal.Decimal `json:"display" yaml:"display"`
	Discount decimal.Decimal `json:"discount" yaml:"discount"`
	Final    decimal.Decimal `json:"final" yaml:"final"`
}

// OnboardingCost is the resolved onboarding fee
type OnboardingCost struct {
	Choice selection.Onboarding `json:"choice" yaml:"choice"`

	// Charged is false when onboarding is "Not Required"
	Charged bool `json:"charged" yaml:"charged"`

	// Multiplier is the tier multiplier, set for standard onboarding
	Multiplier decimal.Decimal `json:"multiplier" yaml:"multiplier"`

	// Amount is the fee before discount, floored for standard onboarding
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`
	Discount decimal.Decimal `json:"discount" yaml:"discount"`
	Final    decimal.Decimal `json:"final" yaml:"final"`
}

// Breakdown is the complete result of pricing one selection
type Breakdown struct {
	Model   catalog.BusinessModel `json:"business_model" yaml:"business_model"`
	Plan    string                `json:"plan,omitempty" yaml:"plan,omitempty"`
	Segment catalog.Segment       `json:"segment,omitempty" yaml:"segment,omitempty"`
	Billing catalog.BillingCycle  `json:"billing_cycle" yaml:"billing_cycle"`

	// Annualization is the factor applied to seat prices (12 or 1)
	Annualization decimal.Decimal `json:"annualization" yaml:"annualization"`

	Base         CategoryCost       `json:"base" yaml:"base"`
	Productivity CategoryCost       `json:"productivity" yaml:"productivity"`
	Hardware     CategoryCost       `json:"hardware" yaml:"hardware"`
	Onboarding   OnboardingCost     `json:"onboarding" yaml:"onboarding"`
	Discount     selection.Discount `json:"discount" yaml:"discount"`

	Misses []Miss `json:"misses,omitempty" yaml:"misses,omitempty"`
}

// DiscountTotal sums the discount of every category
func (b Breakdown) DiscountTotal() decimal.Decimal {
	return b.Base.Discount.Add(b.Productivity.Discount).Add(b.Hardware.Discount).Add(b.Onboarding.Discount)
}

// GrossTotal sums every category before discounts
func (b Breakdown) GrossTotal() decimal.Decimal {
	total := b.Base.Display.Add(b.Productivity.Display).Add(b.Hardware.Display)
	if b.Onboarding.Charged {
		total = total.Add(b.Onboarding.Amount)
	}
	return total
}

// Total is the grand total net of discounts
func (b Breakdown) Total() decimal.Decimal {
	return b.GrossTotal().Sub(b.DiscountTotal())
}

// Engine prices selections against a catalog. An Engine holds no state
// beyond its configuration and is safe for concurrent use.
type Engine struct {
	rules        RuleTable
	floor        decimal.Decimal
	fixedPercent decimal.Decimal
}

// Option configures an Engine
type Option func(*Engine)

// WithRules replaces the rule table
func WithRules(rules RuleTable) Option {
	return func(e *Engine) {
		e.rules = rules.Clone()
	}
}

// WithOnboardingFloor sets the minimum standard onboarding fee
func WithOnboardingFloor(floor decimal.Decimal) Option {
	return func(e *Engine) {
		e.floor = floor
	}
}

// WithFixedPercent sets the percentage of the stock percent discount
func WithFixedPercent(percent decimal.Decimal) Option {
	return func(e *Engine) {
		e.fixedPercent = percent
	}
}

// NewEngine creates an engine with the default rules
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rules:        DefaultRules(),
		floor:        DefaultOnboardingFloor,
		fixedPercent: DefaultFixedPercent,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Floor returns the onboarding floor
func (e *Engine) Floor() decimal.Decimal {
	return e.floor
}

// Compute prices a selection. Lookup misses resolve to 0 and are recorded in
// Breakdown.Misses; they are never errors.
func (e *Engine) Compute(cat *catalog.Catalog, sel selection.Selection) Breakdown {
	rules := e.rules.For(sel.BusinessModel())
	seg, _ := sel.Segment()

	b := Breakdown{
		Model:         sel.BusinessModel(),
		Plan:          sel.Plan(),
		Segment:       seg,
		Billing:       sel.BillingCycle(),
		Annualization: AnnualizationMultiplier(sel.BillingCycle(), seg),
		Discount:      sel.Discount(),
	}

	if sel.BusinessModel().RequiresPlan() && sel.HasPlan() {
		if _, ok := cat.Plan(sel.Plan()); !ok {
			b.Misses = append(b.Misses, Miss{Category: CategoryPlan, Key: sel.Plan()})
		}
		b.Base = e.baseCost(cat, sel, b.Annualization, &b.Misses)
	} else {
		b.Base = emptyCost()
	}

	filter := sel.ProductivityFilter()
	b.Productivity = addOnCost(CategoryProductivity, sel.Productivity(), func(sku string) (decimal.Decimal, bool) {
		return cat.LookupProductivity(sku, filter)
	}, &b.Misses)
	b.Hardware = addOnCost(CategoryHardware, sel.Hardware(), cat.LookupHardware, &b.Misses)

	b.Onboarding = e.onboardingCost(rules, sel.Onboarding(), b.Base.Raw)

	e.applyDiscount(rules, sel.Discount(), &b)
	return b
}

func emptyCost() CategoryCost {
	return CategoryCost{Lines: []Line{}}
}

func (e *Engine) baseCost(cat *catalog.Catalog, sel selection.Selection, m decimal.Decimal, misses *[]Miss) CategoryCost {
	c := emptyCost()
	for _, q := range sel.Seats() {
		unit, ok := cat.LookupSeat(sel.Plan(), q.Key)
		if !ok {
			*misses = append(*misses, Miss{Category: CategorySeats, Key: q.Key})
		}
		qty := decimal.NewFromInt(int64(q.Quantity))
		raw := unit.Mul(qty)
		c.Raw = c.Raw.Add(raw)
		c.Lines = append(c.Lines, Line{
			Category:  CategorySeats,
			Key:       q.Key,
			Quantity:  q.Quantity,
			UnitPrice: unit.Mul(m),
			Total:     raw.Mul(m),
			Missed:    !ok,
		})
	}
	c.Display = c.Raw.Mul(m)
	c.Final = c.Display
	return c
}

func addOnCost(category Category, qs []selection.Quantity, lookup func(string) (decimal.Decimal, bool), misses *[]Miss) CategoryCost {
	c := emptyCost()
	for _, q := range qs {
		unit, ok := lookup(q.Key)
		if !ok {
			*misses = append(*misses, Miss{Category: category, Key: q.Key})
		}
		total := unit.Mul(decimal.NewFromInt(int64(q.Quantity)))
		c.Raw = c.Raw.Add(total)
		c.Lines = append(c.Lines, Line{
			Category:  category,
			Key:       q.Key,
			Quantity:  q.Quantity,
			UnitPrice: unit,
			Total:     total,
			Missed:    !ok,
		})
	}
	c.Display = c.Raw
	c.Final = c.Display
	return c
}

// onboardingCost resolves the fee before discounts. Standard onboarding is
// k times the monthly base cost, floored after the multiplier.
func (e *Engine) onboardingCost(rules Rules, choice selection.Onboarding, monthlyBase decimal.Decimal) OnboardingCost {
	o := OnboardingCost{Choice: choice}
	if rules.WaiveOnboarding {
		o.Choice = selection.NotRequired()
		return o
	}

	switch choice.Kind {
	case selection.OnboardingStandard:
		o.Charged = true
		o.Multiplier = TierMultiplier(choice.Tier)
		o.Amount = decimal.Max(o.Multiplier.Mul(monthlyBase), e.floor)
	case selection.OnboardingFlat:
		o.Charged = true
		o.Amount = choice.Amount
	}
	o.Final = o.Amount
	return o
}

// portion returns the discounted share of an amount, rounded to cents
func (e *Engine) portion(d selection.Discount, amount decimal.Decimal) decimal.Decimal {
	switch d.Kind {
	case selection.DiscountFreePeriod:
		return determinism.RoundCents(amount.Div(monthsPerYear))
	case selection.DiscountFixedPercent:
		return determinism.RoundCents(amount.Mul(e.fixedPercent).Div(hundred))
	case selection.DiscountCustomPercent:
		return determinism.RoundCents(amount.Mul(d.Percent).Div(hundred))
	}
	return decimal.Zero
}

// applyDiscount reduces categories in place. The base discount is taken
// from the billed base cost, so the fraction matches the displayed figure.
// Percent discounts never reduce add-ons.
func (e *Engine) applyDiscount(rules Rules, d selection.Discount, b *Breakdown) {
	if d.Kind == selection.DiscountNone || d.Kind == "" {
		return
	}

	discountCategory(&b.Base, e.portion(d, b.Base.Display))

	touchOnboarding := rules.PercentOnboarding
	if d.Kind == selection.DiscountFreePeriod {
		if rules.FreePeriodAddOns {
			discountCategory(&b.Productivity, e.portion(d, b.Productivity.Display))
			discountCategory(&b.Hardware, e.portion(d, b.Hardware.Display))
		}
		touchOnboarding = rules.FreePeriodOnboarding
	}

	if touchOnboarding && b.Onboarding.Charged {
		e.discountOnboarding(d, &b.Onboarding)
	}
}

func discountCategory(c *CategoryCost, amount decimal.Decimal) {
	c.Discount = amount
	c.Final = c.Display.Sub(amount)
}

// discountOnboarding re-applies the floor to standard onboarding after the
// reduction; flat onboarding is never floored
func (e *Engine) discountOnboarding(d selection.Discount, o *OnboardingCost) {
	cut := e.portion(d, o.Amount)
	if o.Choice.Kind == selection.OnboardingStandard {
		post := decimal.Max(o.Amount.Sub(cut), e.floor)
		o.Discount = o.Amount.Sub(post)
		o.Final = post
		return
	}
	o.Discount = cut
	o.Final = o.Amount.Sub(cut)
}

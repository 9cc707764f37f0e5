// Package pricing - Pricing rules engine
// Turns a reference catalog and a selection into itemized costs.
// Per-model differences live in a rule table, never at the call sites.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"quote-tool/core/catalog"
)

// Rules controls how one business model prices onboarding and discounts
type Rules struct {
	// WaiveOnboarding forces onboarding to "Not Required"
	WaiveOnboarding bool

	// FreePeriodAddOns applies the free-period discount to add-on totals
	FreePeriodAddOns bool

	// FreePeriodOnboarding applies the free-period discount to numeric onboarding
	FreePeriodOnboarding bool

	// PercentOnboarding applies percent discounts to numeric onboarding
	PercentOnboarding bool
}

// RuleTable maps business models to their rules
type RuleTable map[catalog.BusinessModel]Rules

// DefaultRules returns the rule table used for every quote
func DefaultRules() RuleTable {
	return RuleTable{
		catalog.ModelEnclaveOne: {
			WaiveOnboarding: true,
		},
		catalog.ModelCustomEnclave: {
			FreePeriodAddOns:     true,
			FreePeriodOnboarding: true,
		},
		catalog.ModelThirdPartyResell: {
			WaiveOnboarding:  true,
			FreePeriodAddOns: true,
		},
	}
}

// For returns the rules of a model. Unknown models get the zero Rules.
func (t RuleTable) For(model catalog.BusinessModel) Rules {
	return t[model]
}

// Clone returns an independent copy of the table
func (t RuleTable) Clone() RuleTable {
	out := make(RuleTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

var (
	// DefaultOnboardingFloor is the minimum standard onboarding fee
	DefaultOnboardingFloor = decimal.NewFromInt(3000)

	// DefaultFixedPercent is the stock percent discount
	DefaultFixedPercent = decimal.NewFromInt(10)

	monthsPerYear = decimal.NewFromInt(12)
	hundred       = decimal.NewFromInt(100)
)

// TierMultiplier returns the onboarding multiplier of a payment-plan tier:
// 1 for the 50%-off tiers, 2 otherwise
func TierMultiplier(tier string) decimal.Decimal {
	if strings.Contains(strings.ToLower(tier), "50% off") {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(2)
}

// AnnualizationMultiplier returns the factor applied to monthly seat prices.
// Annual billing prepays twelve months, except GCC-High plans whose listed
// rate is already annual.
func AnnualizationMultiplier(billing catalog.BillingCycle, segment catalog.Segment) decimal.Decimal {
	if billing == catalog.BillingAnnual && !segment.AnnualOnly() {
		return monthsPerYear
	}
	return decimal.NewFromInt(1)
}

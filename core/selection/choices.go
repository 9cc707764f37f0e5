package selection

import (
	"strings"

	"github.com/shopspring/decimal"

	"quote-tool/internal/errors"
)

// OnboardingKind is the operator's onboarding choice
type OnboardingKind string

const (
	OnboardingNotRequired OnboardingKind = "not_required"
	OnboardingStandard    OnboardingKind = "standard"
	OnboardingFlat        OnboardingKind = "flat"
	OnboardingNone        OnboardingKind = "none"
)

// Onboarding payment-plan tiers offered with standard onboarding
const (
	TierMonthlyOneYear   = "Monthly Payments, 1-Year Subscription"
	TierMonthlyThreeYear = "Monthly Payments, 3-Year Subscription (50% off)"
	TierAnnualOneYear    = "Annual Payment, 1 Year Subscription (50% off)"
)

// OnboardingTiers lists the payment-plan tiers in menu order
func OnboardingTiers() []string {
	return []string{TierMonthlyOneYear, TierMonthlyThreeYear, TierAnnualOneYear}
}

// Onboarding is a one-time setup fee choice
type Onboarding struct {
	Kind OnboardingKind `json:"kind" yaml:"kind"`

	// Tier is the payment-plan tier, used by standard onboarding
	Tier string `json:"tier,omitempty" yaml:"tier,omitempty"`

	// Amount is the operator-entered fee, used by flat onboarding
	Amount decimal.Decimal `json:"amount" yaml:"amount"`
}

// NotRequired returns the waived onboarding choice
func NotRequired() Onboarding {
	return Onboarding{Kind: OnboardingNotRequired}
}

// Standard returns computed onboarding on a payment-plan tier
func Standard(tier string) Onboarding {
	return Onboarding{Kind: OnboardingStandard, Tier: tier}
}

// Flat returns an operator-entered onboarding fee
func Flat(amount decimal.Decimal) Onboarding {
	return Onboarding{Kind: OnboardingFlat, Amount: amount}
}

// Waived reports whether the choice produces no onboarding fee
func (o Onboarding) Waived() bool {
	return o.Kind == OnboardingNotRequired || o.Kind == OnboardingNone || o.Kind == ""
}

// ParseOnboardingKind accepts the labels used in quote request files
func ParseOnboardingKind(s string) (OnboardingKind, error) {
	switch strings.ToLower(strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(s))) {
	case "not_required", "waived", "":
		return OnboardingNotRequired, nil
	case "standard", "computed", "standard_computed":
		return OnboardingStandard, nil
	case "flat", "other", "override", "flat_override":
		return OnboardingFlat, nil
	case "none":
		return OnboardingNone, nil
	}
	return "", errors.Inputf("unknown onboarding choice %q", s)
}

// DiscountKind is the discount scheme applied to a quote
type DiscountKind string

const (
	DiscountNone          DiscountKind = "none"
	DiscountFreePeriod    DiscountKind = "free_period"
	DiscountFixedPercent  DiscountKind = "fixed_percent"
	DiscountCustomPercent DiscountKind = "custom_percent"
)

// Discount is the operator's discount choice
type Discount struct {
	Kind DiscountKind `json:"kind" yaml:"kind"`

	// Percent is the custom percentage (0-100), used by custom percent discounts
	Percent decimal.Decimal `json:"percent" yaml:"percent"`
}

// NoDiscount returns the empty discount choice
func NoDiscount() Discount {
	return Discount{Kind: DiscountNone}
}

// FreePeriod returns the "30 days free" discount
func FreePeriod() Discount {
	return Discount{Kind: DiscountFreePeriod}
}

// FixedPercent returns the stock percent discount
func FixedPercent() Discount {
	return Discount{Kind: DiscountFixedPercent}
}

// CustomPercent returns an operator-entered percent discount
func CustomPercent(percent decimal.Decimal) Discount {
	return Discount{Kind: DiscountCustomPercent, Percent: percent}
}

// Label returns the text used on quote discount rows
func (d Discount) Label() string {
	switch d.Kind {
	case DiscountFreePeriod:
		return "30 Days Free"
	case DiscountFixedPercent:
		return "Fixed Percent Discount"
	case DiscountCustomPercent:
		return "Custom Discount (" + d.Percent.String() + "%)"
	}
	return "No Discount"
}

// ParseDiscountKind accepts the labels used in quote request files
func ParseDiscountKind(s string) (DiscountKind, error) {
	switch strings.ToLower(strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(s))) {
	case "none", "no_discount", "":
		return DiscountNone, nil
	case "free_period", "30_days_free", "free_month":
		return DiscountFreePeriod, nil
	case "fixed_percent", "fixed", "10%", "10_percent":
		return DiscountFixedPercent, nil
	case "custom_percent", "custom":
		return DiscountCustomPercent, nil
	}
	return "", errors.Inputf("unknown discount %q", s)
}

package catalog

import (
	"strings"

	"quote-tool/internal/errors"
)

// BillingCycle is the cadence a plan or license is billed on
type BillingCycle string

const (
	BillingMonthly BillingCycle = "Monthly"
	BillingAnnual  BillingCycle = "Annual"
)

// String returns the cycle label
func (b BillingCycle) String() string {
	return string(b)
}

// ParseBillingCycle accepts the labels an operator or workbook might use
func ParseBillingCycle(s string) (BillingCycle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly", "month", "1 month", "p1m":
		return BillingMonthly, nil
	case "annual", "annually", "yearly", "year", "1 year", "p1y":
		return BillingAnnual, nil
	}
	return "", errors.Inputf("unknown billing cycle %q (use Monthly or Annual)", s)
}

// Term is a license term commitment
type Term string

const (
	TermMonthly Term = "1 Month"
	TermAnnual  Term = "1 Year"
)

// String returns the term label
func (t Term) String() string {
	return string(t)
}

// ParseTerm accepts common spellings of a term commitment
func ParseTerm(s string) (Term, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1 month", "monthly", "month", "p1m", "monthly commitment":
		return TermMonthly, nil
	case "1 year", "annual", "yearly", "year", "p1y", "annual commitment":
		return TermAnnual, nil
	}
	return "", errors.Inputf("unknown term commitment %q (use \"1 Month\" or \"1 Year\")", s)
}

// Matches reports whether a raw billing cell refers to this cycle. Blank cells match.
func (b BillingCycle) Matches(cell string) bool {
	if strings.TrimSpace(cell) == "" || b == "" {
		return true
	}
	parsed, err := ParseBillingCycle(cell)
	return err == nil && parsed == b
}

// Matches reports whether a raw term cell refers to this term. Blank cells match.
func (t Term) Matches(cell string) bool {
	if strings.TrimSpace(cell) == "" || t == "" {
		return true
	}
	parsed, err := ParseTerm(cell)
	return err == nil && parsed == t
}

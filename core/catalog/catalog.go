// Package catalog - Reference price tables for quoting
// Plans, seat-type prices and the two add-on license tables, loaded once per session.
// Lookups are lenient by contract: a missing row prices at zero.
package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"quote-tool/core/determinism"
	"quote-tool/internal/errors"
)

// BusinessModel tags a plan with the way it is sold
type BusinessModel string

const (
	ModelEnclaveOne       BusinessModel = "Enclave One"
	ModelCustomEnclave    BusinessModel = "Custom Enclave"
	ModelThirdPartyResell BusinessModel = "Third-Party Resell"
)

// BusinessModels lists every model in menu order
func BusinessModels() []BusinessModel {
	return []BusinessModel{ModelEnclaveOne, ModelCustomEnclave, ModelThirdPartyResell}
}

// String returns the model label
func (m BusinessModel) String() string {
	return string(m)
}

// RequiresPlan reports whether quotes under this model price a base plan
func (m BusinessModel) RequiresPlan() bool {
	return m != ModelThirdPartyResell
}

// ParseBusinessModel matches a label case-insensitively, ignoring punctuation
func ParseBusinessModel(s string) (BusinessModel, error) {
	key := normalizeHeader(strings.NewReplacer("-", " ", "_", " ").Replace(s))
	for _, m := range BusinessModels() {
		if normalizeHeader(strings.ReplaceAll(string(m), "-", " ")) == key {
			return m, nil
		}
	}
	switch key {
	case "resell", "third party", "thirdparty resell":
		return ModelThirdPartyResell, nil
	}
	return "", errors.Inputf("unknown business model %q", s)
}

// Plan is a pricing tier
type Plan struct {
	Name          string        `json:"name" yaml:"name"`
	SegmentLabel  string        `json:"segment" yaml:"segment"`
	BusinessModel BusinessModel `json:"business_model" yaml:"business_model"`
}

// Segment classifies the plan from its name
func (p Plan) Segment() (Segment, bool) {
	return SegmentFor(p.Name)
}

// SeatPrice is the monthly (or, for GCC-High, annual) list price of one seat type
type SeatPrice struct {
	Plan      string          `json:"plan" yaml:"plan"`
	SeatType  string          `json:"seat_type" yaml:"seat_type"`
	UnitPrice decimal.Decimal `json:"unit_price" yaml:"unit_price"`
}

// AddOnPrice is a third-party license or hardware SKU row.
// Segment, Term and Billing are optional and empty when the workbook omits them.
type AddOnPrice struct {
	SKU       string          `json:"sku" yaml:"sku"`
	Segment   string          `json:"segment,omitempty" yaml:"segment,omitempty"`
	Term      string          `json:"term,omitempty" yaml:"term,omitempty"`
	Billing   string          `json:"billing,omitempty" yaml:"billing,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price" yaml:"unit_price"`
}

// ProductivityFilter selects the productivity-suite rows visible for a quote
type ProductivityFilter struct {
	Segment Segment
	Term    Term
	Billing BillingCycle
}

// Accepts reports whether a row is visible under the filter
func (f ProductivityFilter) Accepts(row AddOnPrice) bool {
	if f.Segment != "" && !f.Segment.Matches(row.Segment) {
		return false
	}
	return f.Term.Matches(row.Term) && f.Billing.Matches(row.Billing)
}

// specificity counts the optional fields a row pins down
func (f ProductivityFilter) specificity(row AddOnPrice) int {
	n := 0
	for _, cell := range []string{row.Segment, row.Term, row.Billing} {
		if strings.TrimSpace(cell) != "" {
			n++
		}
	}
	return n
}

type productivityKey struct {
	sku, segment, term, billing string
}

type seatKey struct {
	plan     string
	seatType string
}

// Catalog is the immutable set of reference tables for one session
type Catalog struct {
	plans        []Plan
	seats        []SeatPrice
	productivity []AddOnPrice
	hardware     []AddOnPrice

	seatIndex     map[seatKey]decimal.Decimal
	hardwareIndex map[string]decimal.Decimal
	hash          determinism.ContentHash
}

// New builds a catalog from already-filtered rows.
// Duplicate keys with conflicting prices are a SchemaError.
func New(plans []Plan, seats []SeatPrice, productivity, hardware []AddOnPrice) (*Catalog, error) {
	c := &Catalog{
		seatIndex:     make(map[seatKey]decimal.Decimal, len(seats)),
		hardwareIndex: make(map[string]decimal.Decimal, len(hardware)),
	}

	seenPlans := make(map[string]bool, len(plans))
	for _, p := range plans {
		if seenPlans[p.Name] {
			continue
		}
		seenPlans[p.Name] = true
		c.plans = append(c.plans, p)
	}

	for _, s := range seats {
		key := seatKey{plan: s.Plan, seatType: s.SeatType}
		if existing, ok := c.seatIndex[key]; ok {
			if !existing.Equal(s.UnitPrice) {
				return nil, errors.Schemaf("seat type %q on plan %q has conflicting prices %s and %s",
					s.SeatType, s.Plan, existing, s.UnitPrice)
			}
			continue
		}
		c.seatIndex[key] = s.UnitPrice
		c.seats = append(c.seats, s)
	}

	seenProductivity := make(map[productivityKey]bool, len(productivity))
	for _, row := range productivity {
		key := productivityKey{sku: row.SKU, segment: row.Segment, term: row.Term, billing: row.Billing}
		if seenProductivity[key] {
			return nil, errors.Schemaf("productivity license %q is listed twice for segment %q term %q billing %q",
				row.SKU, row.Segment, row.Term, row.Billing)
		}
		seenProductivity[key] = true
		c.productivity = append(c.productivity, row)
	}

	for _, row := range hardware {
		if existing, ok := c.hardwareIndex[row.SKU]; ok {
			if !existing.Equal(row.UnitPrice) {
				return nil, errors.Schemaf("hardware SKU %q has conflicting prices %s and %s", row.SKU, existing, row.UnitPrice)
			}
			continue
		}
		c.hardwareIndex[row.SKU] = row.UnitPrice
		c.hardware = append(c.hardware, row)
	}

	c.hash = c.computeHash()
	return c, nil
}

func (c *Catalog) computeHash() determinism.ContentHash {
	h := determinism.NewHasher("catalog")
	for _, p := range c.plans {
		h.Write("plan", p.Name, p.SegmentLabel, string(p.BusinessModel))
	}
	for _, s := range c.seats {
		h.Write("seat", s.Plan, s.SeatType).WriteDecimal(s.UnitPrice)
	}
	for _, r := range c.productivity {
		h.Write("productivity", r.SKU, r.Segment, r.Term, r.Billing).WriteDecimal(r.UnitPrice)
	}
	for _, r := range c.hardware {
		h.Write("hardware", r.SKU, r.Segment, r.Term, r.Billing).WriteDecimal(r.UnitPrice)
	}
	return h.Sum()
}

// Hash identifies the catalog content
func (c *Catalog) Hash() determinism.ContentHash {
	return c.hash
}

// Plans returns every plan in workbook order
func (c *Catalog) Plans() []Plan {
	return append([]Plan(nil), c.plans...)
}

// PlansFor returns the plans tagged with a business model
func (c *Catalog) PlansFor(model BusinessModel) []Plan {
	var out []Plan
	for _, p := range c.plans {
		if p.BusinessModel == model {
			out = append(out, p)
		}
	}
	return out
}

// Plan looks up a plan by exact name
func (c *Catalog) Plan(name string) (Plan, bool) {
	for _, p := range c.plans {
		if p.Name == name {
			return p, true
		}
	}
	return Plan{}, false
}

// SeatTypes returns the priced seat types of a plan in workbook order
func (c *Catalog) SeatTypes(plan string) []SeatPrice {
	var out []SeatPrice
	for _, s := range c.seats {
		if s.Plan == plan {
			out = append(out, s)
		}
	}
	return out
}

// LookupSeat returns the unit price of a seat type and whether a row exists
func (c *Catalog) LookupSeat(plan, seatType string) (decimal.Decimal, bool) {
	price, ok := c.seatIndex[seatKey{plan: plan, seatType: seatType}]
	return price, ok
}

// SeatPrice returns the unit price of a seat type.
// A missing row prices at zero; this leniency is part of the contract.
func (c *Catalog) SeatPrice(plan, seatType string) decimal.Decimal {
	price, _ := c.LookupSeat(plan, seatType)
	return price
}

// ProductivityOptions returns the productivity rows visible under a filter
func (c *Catalog) ProductivityOptions(f ProductivityFilter) []AddOnPrice {
	var out []AddOnPrice
	for _, row := range c.productivity {
		if f.Accepts(row) {
			out = append(out, row)
		}
	}
	return out
}

// LookupProductivity returns the price of the best matching visible row.
// A row pinning more of segment, term and billing beats a wildcard row.
func (c *Catalog) LookupProductivity(sku string, f ProductivityFilter) (decimal.Decimal, bool) {
	best := -1
	var price decimal.Decimal
	for _, row := range c.productivity {
		if row.SKU != sku || !f.Accepts(row) {
			continue
		}
		if s := f.specificity(row); s > best {
			best = s
			price = row.UnitPrice
		}
	}
	return price, best >= 0
}

// ProductivityPrice returns the price of a productivity SKU, zero on miss
func (c *Catalog) ProductivityPrice(sku string, f ProductivityFilter) decimal.Decimal {
	price, _ := c.LookupProductivity(sku, f)
	return price
}

// HardwareOptions returns every hardware row in workbook order
func (c *Catalog) HardwareOptions() []AddOnPrice {
	return append([]AddOnPrice(nil), c.hardware...)
}

// LookupHardware returns the price of a hardware SKU and whether a row exists
func (c *Catalog) LookupHardware(sku string) (decimal.Decimal, bool) {
	price, ok := c.hardwareIndex[sku]
	return price, ok
}

// HardwarePrice returns the price of a hardware SKU, zero on miss
func (c *Catalog) HardwarePrice(sku string) decimal.Decimal {
	price, _ := c.LookupHardware(sku)
	return price
}

// Stats summarizes table sizes
func (c *Catalog) Stats() Stats {
	return Stats{
		Plans:        len(c.plans),
		Seats:        len(c.seats),
		Productivity: len(c.productivity),
		Hardware:     len(c.hardware),
	}
}

// Stats holds catalog row counts
type Stats struct {
	Plans        int
	Seats        int
	Productivity int
	Hardware     int
}

package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"quote-tool/internal/errors"
)

// RowPolicy decides which rows are dropped at load time.
// Dropped rows never reach option lists or the pricing engine.
type RowPolicy struct {
	// NonPricedMarkers are price cells meaning "quote only"
	NonPricedMarkers []string

	// ExcludedSegments are case-insensitive substrings of administratively excluded tiers
	ExcludedSegments []string
}

// DefaultRowPolicy returns the stock markers and exclusions
func DefaultRowPolicy() RowPolicy {
	return RowPolicy{
		NonPricedMarkers: []string{"quote", "quote only", "custom", "ad hoc", "ad-hoc", "tbd"},
		ExcludedSegments: []string{"education", "charity", "nonprofit"},
	}
}

// ParsePrice parses a price cell. priced is false for blank cells and
// non-priced markers. Currency symbols and thousands separators are accepted.
func (p RowPolicy) ParsePrice(cell string) (price decimal.Decimal, priced bool, err error) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return decimal.Zero, false, nil
	}
	lower := strings.ToLower(trimmed)
	for _, marker := range p.NonPricedMarkers {
		if lower == strings.ToLower(strings.TrimSpace(marker)) {
			return decimal.Zero, false, nil
		}
	}

	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(trimmed)
	price, err = decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false, errors.Schemaf("price %q is not a number", cell)
	}
	if price.IsNegative() {
		return decimal.Zero, false, errors.Schemaf("price %q is negative", cell)
	}
	return price, true, nil
}

// Excluded reports whether any label names an excluded segment
func (p RowPolicy) Excluded(labels ...string) bool {
	for _, label := range labels {
		lower := strings.ToLower(label)
		for _, seg := range p.ExcludedSegments {
			seg = strings.ToLower(strings.TrimSpace(seg))
			if seg != "" && strings.Contains(lower, seg) {
				return true
			}
		}
	}
	return false
}

// DropReason explains why a row was removed at load time
type DropReason string

const (
	DropNonPriced DropReason = "non_priced"
	DropExcluded  DropReason = "excluded_segment"
)

// DroppedRow records one removed row
type DroppedRow struct {
	Table  TableKind
	Row    int
	Key    string
	Reason DropReason
}

// LoadReport summarizes what FromTables kept and dropped
type LoadReport struct {
	Dropped []DroppedRow
	Stats   Stats
}

// Count returns how many rows of a table were dropped for a reason
func (r *LoadReport) Count(table TableKind, reason DropReason) int {
	n := 0
	for _, d := range r.Dropped {
		if d.Table == table && d.Reason == reason {
			n++
		}
	}
	return n
}

func (r *LoadReport) drop(table TableKind, row int, key string, reason DropReason) {
	r.Dropped = append(r.Dropped, DroppedRow{Table: table, Row: row, Key: key, Reason: reason})
}

// FromTables validates the raw tables against their schemas, applies the
// row policy and builds a Catalog. A missing table or required column,
// or a malformed price cell, fails the whole load.
func FromTables(t Tables, policy RowPolicy) (*Catalog, *LoadReport, error) {
	schemas := Schemas()
	bindings := make(map[TableKind]*binding, len(schemas))
	for _, s := range schemas {
		b, err := s.Bind(t.Get(s.Kind))
		if err != nil {
			return nil, nil, err
		}
		bindings[s.Kind] = b
	}

	report := &LoadReport{}

	plans, excludedPlans, err := loadPlans(bindings[TablePlans], policy, report)
	if err != nil {
		return nil, nil, err
	}
	seats, err := loadSeats(bindings[TableSeats], policy, excludedPlans, report)
	if err != nil {
		return nil, nil, err
	}
	productivity, err := loadAddOns(TableProductivity, bindings[TableProductivity], policy, report)
	if err != nil {
		return nil, nil, err
	}
	hardware, err := loadAddOns(TableHardware, bindings[TableHardware], policy, report)
	if err != nil {
		return nil, nil, err
	}

	c, err := New(plans, seats, productivity, hardware)
	if err != nil {
		return nil, nil, err
	}
	report.Stats = c.Stats()
	return c, report, nil
}

// rowNumber converts a data row index to its spreadsheet row, header being row 1
func rowNumber(i int) int {
	return i + 2
}

// rowError rewraps a cell error as a SchemaError naming the sheet row
func rowError(t *RawTable, i int, err error) error {
	msg := err.Error()
	if e, ok := err.(*errors.Error); ok {
		msg = e.Message
	}
	return errors.Schemaf("%s row %d: %s", t.Name, rowNumber(i), msg).WithContext("row", rowNumber(i))
}

func loadPlans(b *binding, policy RowPolicy, report *LoadReport) ([]Plan, map[string]bool, error) {
	var plans []Plan
	excluded := make(map[string]bool)
	for i, row := range b.table.Rows {
		name := b.cell(row, colPlanName)
		if name == "" {
			continue
		}
		segment := b.cell(row, colSegment)
		if policy.Excluded(name, segment) {
			excluded[name] = true
			report.drop(TablePlans, rowNumber(i), name, DropExcluded)
			continue
		}
		model, err := ParseBusinessModel(b.cell(row, colBusinessModel))
		if err != nil {
			return nil, nil, rowError(b.table, i, err)
		}
		plans = append(plans, Plan{Name: name, SegmentLabel: segment, BusinessModel: model})
	}
	return plans, excluded, nil
}

func loadSeats(b *binding, policy RowPolicy, excludedPlans map[string]bool, report *LoadReport) ([]SeatPrice, error) {
	var seats []SeatPrice
	for i, row := range b.table.Rows {
		plan, seatType := b.cell(row, colPlan), b.cell(row, colSeatType)
		if plan == "" || seatType == "" {
			continue
		}
		key := plan + " / " + seatType
		if excludedPlans[plan] || policy.Excluded(plan) {
			report.drop(TableSeats, rowNumber(i), key, DropExcluded)
			continue
		}
		price, priced, err := policy.ParsePrice(b.cell(row, colPrice))
		if err != nil {
			return nil, rowError(b.table, i, err)
		}
		if !priced {
			report.drop(TableSeats, rowNumber(i), key, DropNonPriced)
			continue
		}
		seats = append(seats, SeatPrice{Plan: plan, SeatType: seatType, UnitPrice: price})
	}
	return seats, nil
}

func loadAddOns(kind TableKind, b *binding, policy RowPolicy, report *LoadReport) ([]AddOnPrice, error) {
	var rows []AddOnPrice
	for i, row := range b.table.Rows {
		sku := b.cell(row, colLicense)
		if sku == "" {
			continue
		}
		segment := b.cell(row, colSegment)
		if policy.Excluded(segment) {
			report.drop(kind, rowNumber(i), sku, DropExcluded)
			continue
		}
		price, priced, err := policy.ParsePrice(b.cell(row, colPrice))
		if err != nil {
			return nil, rowError(b.table, i, err)
		}
		if !priced {
			report.drop(kind, rowNumber(i), sku, DropNonPriced)
			continue
		}
		rows = append(rows, AddOnPrice{
			SKU:       sku,
			Segment:   segment,
			Term:      b.cell(row, colTerm),
			Billing:   b.cell(row, colBilling),
			UnitPrice: price,
		})
	}
	return rows, nil
}

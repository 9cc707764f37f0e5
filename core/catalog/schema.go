package catalog

import (
	"strings"

	"quote-tool/internal/errors"
)

// TableKind identifies one of the four reference tables
type TableKind string

const (
	TablePlans        TableKind = "plans"
	TableSeats        TableKind = "seats"
	TableProductivity TableKind = "productivity"
	TableHardware     TableKind = "hardware"
)

// Column keys
const (
	colPlanName      = "plan_name"
	colSegment       = "segment"
	colBusinessModel = "business_model"
	colPlan          = "plan"
	colSeatType      = "seat_type"
	colPrice         = "price"
	colLicense       = "license"
	colTerm          = "term"
	colBilling       = "billing"
)

// Column describes one header the loader looks for
type Column struct {
	Key      string
	Header   string
	Aliases  []string
	Required bool
}

// TableSchema is the column contract of one table
type TableSchema struct {
	Kind    TableKind
	Columns []Column
}

var addOnColumns = []Column{
	{Key: colLicense, Header: "License", Aliases: []string{"SKU", "Title", "Item"}, Required: true},
	{Key: colSegment, Header: "Segment"},
	{Key: colTerm, Header: "Term", Aliases: []string{"Term Commitment", "Commitment"}},
	{Key: colBilling, Header: "Billing", Aliases: []string{"Billing Cycle", "Billing Frequency", "Billing Plan"}},
	{Key: colPrice, Header: "Price", Aliases: []string{"Unit Price"}, Required: true},
}

// Schemas returns the column contract of every table in load order
func Schemas() []TableSchema {
	return []TableSchema{
		{Kind: TablePlans, Columns: []Column{
			{Key: colPlanName, Header: "Plan Name", Aliases: []string{"Plan"}, Required: true},
			{Key: colSegment, Header: "Segment", Required: true},
			{Key: colBusinessModel, Header: "Business Model", Aliases: []string{"Model"}, Required: true},
		}},
		{Kind: TableSeats, Columns: []Column{
			{Key: colPlan, Header: "Plan", Aliases: []string{"Plan Name"}, Required: true},
			{Key: colSeatType, Header: "Seat Type", Aliases: []string{"License Type"}, Required: true},
			{Key: colPrice, Header: "Price", Aliases: []string{"Unit Price"}, Required: true},
		}},
		{Kind: TableProductivity, Columns: addOnColumns},
		{Kind: TableHardware, Columns: addOnColumns},
	}
}

// RawTable is an untyped table as read from the source: a header row and data rows
type RawTable struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Tables groups the four raw tables. A nil entry means the source lacked it.
type Tables struct {
	Plans        *RawTable
	Seats        *RawTable
	Productivity *RawTable
	Hardware     *RawTable
}

// Get returns the raw table of a kind
func (t Tables) Get(kind TableKind) *RawTable {
	switch kind {
	case TablePlans:
		return t.Plans
	case TableSeats:
		return t.Seats
	case TableProductivity:
		return t.Productivity
	case TableHardware:
		return t.Hardware
	}
	return nil
}

// binding maps column keys to header positions; -1 marks an absent optional column
type binding struct {
	table   *RawTable
	indices map[string]int
}

// Bind resolves the schema against a table header
func (s TableSchema) Bind(t *RawTable) (*binding, error) {
	if t == nil {
		return nil, errors.Schemaf("required table %q is missing", s.Kind)
	}

	positions := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		key := normalizeHeader(h)
		if _, dup := positions[key]; !dup && key != "" {
			positions[key] = i
		}
	}

	b := &binding{table: t, indices: make(map[string]int, len(s.Columns))}
	for _, col := range s.Columns {
		idx := -1
		for _, name := range append([]string{col.Header}, col.Aliases...) {
			if i, ok := positions[normalizeHeader(name)]; ok {
				idx = i
				break
			}
		}
		if idx < 0 && col.Required {
			return nil, errors.Schemaf("table %q (%s) is missing required column %q", s.Kind, t.Name, col.Header).
				WithContext("table", string(s.Kind)).
				WithContext("column", col.Header)
		}
		b.indices[col.Key] = idx
	}
	return b, nil
}

// cell returns the trimmed value of a column in a row, empty when absent
func (b *binding) cell(row []string, key string) string {
	idx, ok := b.indices[key]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// normalizeHeader lowercases and collapses whitespace
func normalizeHeader(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

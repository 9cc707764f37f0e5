// Package output provides quote preview formatting.
// This package produces human and machine-readable renderings of a Quote.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"quote-tool/core/pricing"
	"quote-tool/core/quote"
	"quote-tool/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatTable is a human-readable terminal table
	FormatTable Format = "table"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatYAML is machine-readable YAML
	FormatYAML Format = "yaml"
)

// Formats lists the supported formats
func Formats() []Format {
	return []Format{FormatTable, FormatJSON, FormatYAML}
}

// Formatter renders a quote in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render writes the quote to w
	Render(w io.Writer, q *quote.Quote) error

	// RenderRows writes a plain listing, used for catalog inspection
	RenderRows(w io.Writer, header []string, rows [][]string) error
}

// NewFormatter returns the formatter for a format name
func NewFormatter(format string) (Formatter, error) {
	switch Format(strings.ToLower(strings.TrimSpace(format))) {
	case FormatTable, "":
		return &TableFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	}
	return nil, errors.Inputf("unknown output format %q (use table, json or yaml)", format)
}

// Document is the serialized form of a quote, with money rendered as text
type Document struct {
	Reference     string         `json:"reference" yaml:"reference"`
	BusinessModel string         `json:"business_model" yaml:"business_model"`
	Plan          string         `json:"plan,omitempty" yaml:"plan,omitempty"`
	Segment       string         `json:"segment,omitempty" yaml:"segment,omitempty"`
	Billing       string         `json:"billing_cycle" yaml:"billing_cycle"`
	Discount      string         `json:"discount" yaml:"discount"`
	Items         []DocumentItem `json:"items" yaml:"items"`
	Totals        DocumentTotals `json:"totals" yaml:"totals"`
	Misses        []pricing.Miss `json:"lookup_misses,omitempty" yaml:"lookup_misses,omitempty"`
}

// DocumentItem is one serialized line item
type DocumentItem struct {
	Category  string `json:"category" yaml:"category"`
	Item      string `json:"item" yaml:"item"`
	Quantity  string `json:"quantity" yaml:"quantity"`
	UnitPrice string `json:"unit_price" yaml:"unit_price"`
	Total     string `json:"total" yaml:"total"`
}

// DocumentTotals are the serialized aggregates
type DocumentTotals struct {
	BasePlan     string `json:"base_plan" yaml:"base_plan"`
	Productivity string `json:"productivity" yaml:"productivity"`
	Hardware     string `json:"hardware" yaml:"hardware"`
	Onboarding   string `json:"onboarding" yaml:"onboarding"`
	Discount     string `json:"discount" yaml:"discount"`
	Grand        string `json:"grand_total" yaml:"grand_total"`
}

// NewDocument converts a quote for serialization
func NewDocument(q *quote.Quote) Document {
	doc := Document{
		Reference:     q.Reference.String(),
		BusinessModel: string(q.BusinessModel),
		Plan:          q.Plan,
		Segment:       string(q.Segment),
		Billing:       string(q.Billing),
		Discount:      q.Discount,
		Items:         make([]DocumentItem, 0, len(q.Items)),
		Misses:        q.Misses,
		Totals: DocumentTotals{
			BasePlan:     quote.FormatMoney(q.Totals.BasePlan),
			Productivity: quote.FormatMoney(q.Totals.Productivity),
			Hardware:     quote.FormatMoney(q.Totals.Hardware),
			Onboarding:   q.Totals.OnboardingText(),
			Discount:     quote.FormatMoney(q.Totals.Discount.Neg()),
			Grand:        quote.FormatMoney(q.Totals.Grand),
		},
	}
	for _, item := range q.Items {
		doc.Items = append(doc.Items, DocumentItem{
			Category:  item.Category,
			Item:      item.Label,
			Quantity:  item.QuantityText(),
			UnitPrice: item.UnitPriceText(),
			Total:     item.TotalText(),
		})
	}
	return doc
}

// TableFormatter renders aligned text tables, styled when w is a terminal
type TableFormatter struct{}

func (f *TableFormatter) Format() Format { return FormatTable }

func (f *TableFormatter) Render(w io.Writer, q *quote.Quote) error {
	r := lipgloss.NewRenderer(w)
	title := r.NewStyle().Bold(true).Foreground(lipgloss.Color("#E8A33D"))
	label := r.NewStyle().Foreground(lipgloss.Color("#3265A7"))
	total := r.NewStyle().Bold(true)
	warn := r.NewStyle().Foreground(lipgloss.Color("3"))

	fmt.Fprintln(w, title.Render("Quote "+q.Reference.String()))
	fmt.Fprintf(w, "%s %s\n", label.Render("Business Model:"), q.BusinessModel)
	if q.Plan != "" {
		fmt.Fprintf(w, "%s %s (%s billing)\n", label.Render("Plan:"), q.Plan, q.Billing)
	}
	fmt.Fprintf(w, "%s %s\n\n", label.Render("Discount:"), q.Discount)

	rows := make([][]string, 0, len(q.Items))
	for _, item := range q.Items {
		rows = append(rows, item.Cells())
	}
	if err := writeTable(w, quote.Columns, rows); err != nil {
		return err
	}

	fmt.Fprintln(w)
	summary := [][]string{
		{"Base Plan", quote.FormatMoney(q.Totals.BasePlan)},
		{"Microsoft Licenses", quote.FormatMoney(q.Totals.Productivity)},
		{"Hardware Licenses", quote.FormatMoney(q.Totals.Hardware)},
		{"Onboarding", q.Totals.OnboardingText()},
		{"Discounts", quote.FormatMoney(q.Totals.Discount.Neg())},
	}
	if err := writeTable(w, nil, summary); err != nil {
		return err
	}
	fmt.Fprintln(w, total.Render("Total Cost: "+quote.FormatMoney(q.Totals.Grand)))

	for _, m := range q.Misses {
		fmt.Fprintln(w, warn.Render(fmt.Sprintf("warning: no catalog price for %s %q, priced at $0.00", m.Category, m.Key)))
	}
	return nil
}

func (f *TableFormatter) RenderRows(w io.Writer, header []string, rows [][]string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No entries found.")
		return err
	}
	return writeTable(w, header, rows)
}

func writeTable(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if len(header) > 0 {
		upper := make([]string, len(header))
		for i, h := range header {
			upper[i] = strings.ToUpper(h)
		}
		fmt.Fprintln(tw, strings.Join(upper, "\t"))
	}
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// JSONFormatter renders indented JSON
type JSONFormatter struct{}

func (f *JSONFormatter) Format() Format { return FormatJSON }

func (f *JSONFormatter) Render(w io.Writer, q *quote.Quote) error {
	return f.encode(w, NewDocument(q))
}

func (f *JSONFormatter) RenderRows(w io.Writer, header []string, rows [][]string) error {
	return f.encode(w, records(header, rows))
}

func (f *JSONFormatter) encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Internal("failed to encode JSON", err)
	}
	return nil
}

// YAMLFormatter renders YAML
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format() Format { return FormatYAML }

func (f *YAMLFormatter) Render(w io.Writer, q *quote.Quote) error {
	return f.encode(w, NewDocument(q))
}

func (f *YAMLFormatter) RenderRows(w io.Writer, header []string, rows [][]string) error {
	return f.encode(w, records(header, rows))
}

func (f *YAMLFormatter) encode(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Internal("failed to encode YAML", err)
	}
	return enc.Close()
}

// records keys each row by its snake_case header
func records(header []string, rows [][]string) []map[string]string {
	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		rec := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(row) {
				rec[fieldName(h)] = row[i]
			}
		}
		out = append(out, rec)
	}
	return out
}

func fieldName(header string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(header)), " ", "_")
}

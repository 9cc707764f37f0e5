package export

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"quote-tool/core/quote"
	"quote-tool/internal/errors"
)

var (
	accent   = &props.Color{Red: 232, Green: 163, Blue: 61}
	ink      = &props.Color{Red: 50, Green: 101, Blue: 167}
	grey     = &props.Color{Red: 120, Green: 120, Blue: 120}
	white    = &props.Color{Red: 255, Green: 255, Blue: 255}
	stripeBg = &props.Color{Red: 245, Green: 245, Blue: 245}
)

// column widths on the 12-column grid, in quote.Columns order
var pdfColumns = []int{2, 5, 1, 2, 2}

// GeneratePDF renders the quote as a paginated document with the company
// header, the line-item table, totals and the legal notice
func GeneratePDF(doc Document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   grey,
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, doc)
	addTableHeader(m)
	for i, item := range doc.Quote.Items {
		addTableRow(m, item, i%2 == 1)
	}
	addTotals(m, doc.Quote.Totals)
	addLegalNotice(m, doc.Header.LegalNotice)

	out, err := m.Generate()
	if err != nil {
		return nil, errors.Export("failed to generate PDF", err)
	}
	return out.GetBytes(), nil
}

func addHeader(m core.Maroto, doc Document) {
	q := doc.Quote
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(text.New(doc.Title(), props.Text{
				Size:  16,
				Style: fontstyle.Bold,
				Color: accent,
			})),
		),
	)

	info := props.Text{Size: 9, Color: ink}
	right := info
	right.Align = align.Right

	m.AddRows(
		row.New(6).Add(
			col.New(6).Add(text.New("Date and Time: "+doc.Header.Timestamp(), info)),
			col.New(6).Add(text.New("Reference: "+q.Reference.String(), right)),
		),
		row.New(6).Add(
			col.New(6).Add(text.New("Business Model: "+string(q.BusinessModel), info)),
			col.New(6).Add(text.New("Discount: "+q.Discount, right)),
		),
	)
	if q.Plan != "" {
		m.AddRows(row.New(6).Add(
			col.New(12).Add(text.New(fmt.Sprintf("Plan: %s (%s billing)", q.Plan, q.Billing), info)),
		))
	}
	m.AddRows(row.New(4))
}

func addTableHeader(m core.Maroto) {
	style := props.Text{Size: 8, Style: fontstyle.Bold, Color: white, Top: 1.5}
	cell := &props.Cell{BackgroundColor: ink}

	cols := make([]core.Col, len(quote.Columns))
	for i, h := range quote.Columns {
		s := style
		if i >= 2 {
			s.Align = align.Right
		}
		cols[i] = col.New(pdfColumns[i]).Add(text.New(h, s)).WithStyle(cell)
	}
	m.AddRows(row.New(7).Add(cols...))
}

func addTableRow(m core.Maroto, item quote.LineItem, striped bool) {
	base := props.Text{Size: 8, Top: 1}
	if item.Adjustment {
		base.Style = fontstyle.Italic
	}

	cols := make([]core.Col, len(quote.Columns))
	for i, value := range item.Cells() {
		s := base
		if i >= 2 {
			s.Align = align.Right
		}
		c := col.New(pdfColumns[i]).Add(text.New(value, s))
		if striped {
			c = c.WithStyle(&props.Cell{BackgroundColor: stripeBg})
		}
		cols[i] = c
	}
	m.AddRows(row.New(6).Add(cols...))
}

func addTotals(m core.Maroto, t quote.Totals) {
	m.AddRows(row.New(4))

	label := props.Text{Size: 9, Align: align.Right}
	value := props.Text{Size: 9, Align: align.Right}

	lines := [][2]string{
		{"Base Plan", quote.FormatMoney(t.BasePlan)},
		{"Microsoft Licenses", quote.FormatMoney(t.Productivity)},
		{"Hardware Licenses", quote.FormatMoney(t.Hardware)},
		{"Onboarding", t.OnboardingText()},
		{"Discounts", quote.FormatMoney(t.Discount.Neg())},
	}
	for _, l := range lines {
		m.AddRows(row.New(6).Add(
			col.New(9).Add(text.New(l[0], label)),
			col.New(3).Add(text.New(l[1], value)),
		))
	}

	bold := props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right, Color: accent}
	m.AddRows(row.New(8).Add(
		col.New(9).Add(text.New("Total Cost", bold)),
		col.New(3).Add(text.New(quote.FormatMoney(t.Grand), bold)),
	))
}

func addLegalNotice(m core.Maroto, notice string) {
	if notice == "" {
		return
	}
	m.AddRows(row.New(8))
	m.AddRows(
		row.New(6).Add(col.New(12).Add(text.New("Legal Notice:", props.Text{
			Size:  9,
			Style: fontstyle.Bold,
			Color: ink,
		}))),
		row.New(28).Add(col.New(12).Add(text.New(notice, props.Text{
			Size:  8,
			Color: ink,
		}))),
	)
}

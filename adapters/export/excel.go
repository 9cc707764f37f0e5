package export

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"quote-tool/core/quote"
	"quote-tool/internal/errors"
)

const quoteSheet = "Quote"

var moneyFormat = `"$"#,##0.00;-"$"#,##0.00`

// GenerateExcel creates a single-sheet workbook: header block, line items,
// totals and the legal notice
func GenerateExcel(doc Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), quoteSheet); err != nil {
		return nil, errors.Export("set sheet name", err)
	}

	widths := map[string]float64{"A": 20, "B": 48, "C": 10, "D": 16, "E": 16}
	for col, w := range widths {
		if err := f.SetColWidth(quoteSheet, col, col, w); err != nil {
			return nil, errors.Export("set column width", err)
		}
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return nil, errors.Export("create title style", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#3265A7"}, Pattern: 1},
	})
	if err != nil {
		return nil, errors.Export("create header style", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFormat})
	if err != nil {
		return nil, errors.Export("create money style", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &moneyFormat})
	if err != nil {
		return nil, errors.Export("create total style", err)
	}
	noticeStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return nil, errors.Export("create notice style", err)
	}

	q := doc.Quote
	set := func(cell string, value interface{}) {
		if err == nil {
			err = f.SetCellValue(quoteSheet, cell, value)
		}
	}

	set("A1", sanitizeCell(doc.Title()))
	set("A2", "Date and Time: "+doc.Header.Timestamp())
	set("A3", "Reference: "+q.Reference.String())
	set("A4", "Business Model: "+string(q.BusinessModel))
	if q.Plan != "" {
		set("A5", sanitizeCell(fmt.Sprintf("Plan: %s (%s billing)", q.Plan, q.Billing)))
	}
	if err != nil {
		return nil, errors.Export("write header", err)
	}
	f.SetCellStyle(quoteSheet, "A1", "A1", titleStyle)

	const headerRow = 7
	for i, h := range quote.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		set(cell, h)
	}
	f.SetCellStyle(quoteSheet, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("E%d", headerRow), headerStyle)

	r := headerRow + 1
	for _, item := range q.Items {
		set(fmt.Sprintf("A%d", r), sanitizeCell(item.Category))
		set(fmt.Sprintf("B%d", r), sanitizeCell(item.Label))
		if item.Adjustment {
			set(fmt.Sprintf("C%d", r), item.QuantityText())
			set(fmt.Sprintf("D%d", r), item.UnitPriceText())
		} else {
			set(fmt.Sprintf("C%d", r), item.Quantity)
			if item.UnitPrice.Valid {
				set(fmt.Sprintf("D%d", r), money(item.UnitPrice.Decimal))
			}
		}
		set(fmt.Sprintf("E%d", r), money(item.Total))
		f.SetCellStyle(quoteSheet, fmt.Sprintf("D%d", r), fmt.Sprintf("E%d", r), moneyStyle)
		r++
	}
	if err != nil {
		return nil, errors.Export("write line items", err)
	}

	r++
	totals := []struct {
		label string
		value interface{}
	}{
		{"Base Plan", money(q.Totals.BasePlan)},
		{"Microsoft Licenses", money(q.Totals.Productivity)},
		{"Hardware Licenses", money(q.Totals.Hardware)},
		{"Onboarding", onboardingValue(q.Totals)},
		{"Discounts", money(q.Totals.Discount.Neg())},
		{"Total Cost", money(q.Totals.Grand)},
	}
	for _, t := range totals {
		set(fmt.Sprintf("D%d", r), t.label)
		set(fmt.Sprintf("E%d", r), t.value)
		f.SetCellStyle(quoteSheet, fmt.Sprintf("E%d", r), fmt.Sprintf("E%d", r), moneyStyle)
		r++
	}
	f.SetCellStyle(quoteSheet, fmt.Sprintf("D%d", r-1), fmt.Sprintf("E%d", r-1), totalStyle)

	if doc.Header.LegalNotice != "" {
		r++
		top := fmt.Sprintf("A%d", r)
		set(top, "Legal Notice: "+doc.Header.LegalNotice)
		if err == nil {
			err = f.MergeCell(quoteSheet, top, fmt.Sprintf("E%d", r))
		}
		f.SetCellStyle(quoteSheet, top, top, noticeStyle)
		f.SetRowHeight(quoteSheet, r, 75)
	}
	if err != nil {
		return nil, errors.Export("write totals", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, errors.Export("write workbook", err)
	}
	return buf.Bytes(), nil
}

// money converts a cents-rounded amount to a numeric cell value
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func onboardingValue(t quote.Totals) interface{} {
	if !t.OnboardingRequired {
		return quote.NotRequired
	}
	return money(t.Onboarding)
}

package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"quote-tool/core/catalog"
	"quote-tool/core/pricing"
	"quote-tool/core/quote"
	"quote-tool/core/selection"
	"quote-tool/internal/config"
	th "quote-tool/internal/testhelpers"
)

func sampleDocument(t *testing.T) Document {
	t.Helper()
	sel, err := selection.NewBuilder(catalog.ModelCustomEnclave).
		Plan(th.PlanCustomGCC).
		Seat("Standard User", 5).
		Seat("=HYPERLINK(\"x\")", 1).
		Hardware("Meraki MX68", 1).
		Onboarding(selection.Standard(selection.TierMonthlyOneYear)).
		Discount(selection.FixedPercent()).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	q := quote.Assemble(th.SampleCatalog(), sel, pricing.NewEngine())
	return Document{
		Header: Header{
			Company:     "Acme Corp",
			GeneratedAt: time.Date(2026, 3, 4, 15, 4, 5, 0, time.UTC),
			LegalNotice: config.DefaultLegalNotice,
		},
		Quote: &q,
	}
}

func TestFileName(t *testing.T) {
	date := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		company string
		model   string
		kind    Kind
		want    string
	}{
		{"Acme Corp", "Custom Enclave", KindPDF, "Acme_Corp_Custom_Enclave_2026-01-15.pdf"},
		{"O'Brien & Sons, LLC", "Third-Party Resell", KindCSV, "OBrien_Sons_LLC_Third-Party_Resell_2026-01-15.csv"},
		{"../../etc/passwd", "Enclave One", KindXLSX, "etcpasswd_Enclave_One_2026-01-15.xlsx"},
		{"", "Enclave One", KindCSV, "Enclave_One_2026-01-15.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FileName(tt.company, tt.model, date, tt.kind); got != tt.want {
				t.Errorf("FileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteCSV(t *testing.T) {
	doc := sampleDocument(t)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, doc); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if got := strings.Join(records[0], ","); got != "Category,Item,Quantity,Unit Price,Total Cost" {
		t.Errorf("header = %q", got)
	}
	if len(records) != len(doc.Quote.Items)+2 {
		t.Fatalf("expected %d records, got %d", len(doc.Quote.Items)+2, len(records))
	}

	for _, rec := range records[1 : len(records)-1] {
		if strings.HasPrefix(rec[1], "=") {
			t.Errorf("formula not neutralized: %q", rec[1])
		}
	}

	discount := records[len(records)-2]
	if discount[0] != "Discount" || discount[2] != "-" || discount[3] != "-" || discount[4] != "-$50.00" {
		t.Errorf("discount record = %v", discount)
	}
	total := records[len(records)-1]
	if total[0] != "Total" || total[4] != quote.FormatMoney(doc.Quote.Totals.Grand) {
		t.Errorf("total record = %v", total)
	}
}

func TestGenerateExcel(t *testing.T) {
	doc := sampleDocument(t)

	data, err := GenerateExcel(doc)
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to open generated xlsx: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != "Quote" {
		t.Fatalf("sheets = %v", sheets)
	}

	title, _ := f.GetCellValue("Quote", "A1")
	if title != "Quote for Acme Corp" {
		t.Errorf("A1 = %q", title)
	}

	header, _ := f.GetCellValue("Quote", "E7")
	if header != "Total Cost" {
		t.Errorf("E7 = %q", header)
	}

	rows, err := f.GetRows("Quote")
	if err != nil {
		t.Fatal(err)
	}
	var sawNotice, sawInjection bool
	for _, r := range rows {
		if len(r) == 0 {
			continue
		}
		if strings.HasPrefix(r[0], "Legal Notice:") {
			sawNotice = true
		}
		if len(r) > 1 && strings.HasPrefix(r[1], "=") {
			sawInjection = true
		}
	}
	if !sawNotice {
		t.Error("legal notice missing from workbook")
	}
	if sawInjection {
		t.Error("formula cell not neutralized")
	}
}

func TestGeneratePDF(t *testing.T) {
	data, err := GeneratePDF(sampleDocument(t))
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if len(data) < 5 || string(data[:5]) != "%PDF-" {
		t.Errorf("result does not start with PDF header")
	}
}

func TestGeneratePDFEmptyQuote(t *testing.T) {
	sel, err := selection.NewBuilder(catalog.ModelThirdPartyResell).Build()
	if err != nil {
		t.Fatal(err)
	}
	q := quote.Assemble(th.SampleCatalog(), sel, pricing.NewEngine())

	data, err := GeneratePDF(Document{Header: Header{GeneratedAt: time.Now()}, Quote: &q})
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("GeneratePDF() returned empty bytes")
	}
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	doc := sampleDocument(t)

	paths, err := WriteFiles(dir, doc, KindCSV, KindXLSX, KindPDF)
	if err != nil {
		t.Fatalf("WriteFiles() error = %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("expected 3 files, got %v", paths)
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || info.Size() == 0 {
			t.Errorf("%s not written: %v", p, err)
		}
		if !strings.HasPrefix(filepath.Base(p), "Acme_Corp_Custom_Enclave_2026-03-04.") {
			t.Errorf("unexpected file name %s", p)
		}
	}

	if _, err := Render(doc, Kind("docx")); err == nil {
		t.Error("expected error for unknown kind")
	}
}

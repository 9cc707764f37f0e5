package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quote-tool/internal/config"
	"quote-tool/internal/errors"
	"quote-tool/internal/logging"
	th "quote-tool/internal/testhelpers"
)

const enclaveRequest = `
company        = "Acme Corp"
business_model = "Enclave One"
plan           = "Enclave One (Commercial)"
billing_cycle  = "Monthly"

seat "Standard User" {
  quantity = 2
}
`

func writeFixtures(t *testing.T) (dir, workbook, req string) {
	t.Helper()
	dir = t.TempDir()

	data, err := th.WorkbookBytes(th.SampleTables())
	if err != nil {
		t.Fatalf("WorkbookBytes() error = %v", err)
	}
	workbook = filepath.Join(dir, "pricing.xlsx")
	if err := os.WriteFile(workbook, data, 0644); err != nil {
		t.Fatal(err)
	}
	req = filepath.Join(dir, "request.hcl")
	if err := os.WriteFile(req, []byte(enclaveRequest), 0644); err != nil {
		t.Fatal(err)
	}
	return dir, workbook, req
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.Set(config.Default())
	cfgFile, catalogSource, documentID = "", "", ""
	quoteFormat, quoteCompany, quoteOutDir = "", "", ""
	exportCSV, exportXLSX, exportPDF = false, false, false
	catalogFormat, catalogModel = "", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	logging.UseNop()
	return out.String(), err
}

func TestQuoteCommand(t *testing.T) {
	dir, workbook, req := writeFixtures(t)

	out, err := run(t, "--catalog", workbook, "quote", "--csv", "--out-dir", dir, req)
	if err != nil {
		t.Fatalf("quote error = %v", err)
	}
	for _, want := range []string{"Standard User", "Total Cost: $100.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "Acme_Corp_Enclave_One_*.csv"))
	if len(matches) != 1 {
		t.Fatalf("csv exports = %v", matches)
	}
}

func TestQuoteCommandMissingCatalog(t *testing.T) {
	_, _, req := writeFixtures(t)

	_, err := run(t, "--catalog", filepath.Join(t.TempDir(), "missing.xlsx"), "quote", req)
	if !errors.IsType(err, errors.TypeFetch) {
		t.Fatalf("error = %v, want FETCH_ERROR", err)
	}
	if ExitCode(err) != 2 {
		t.Errorf("ExitCode() = %d, want 2", ExitCode(err))
	}
}

func TestCatalogPlansCommand(t *testing.T) {
	_, workbook, _ := writeFixtures(t)

	out, err := run(t, "--catalog", workbook, "catalog", "plans", "--model", "Custom Enclave")
	if err != nil {
		t.Fatalf("catalog plans error = %v", err)
	}
	if !strings.Contains(out, th.PlanCustomGCC) {
		t.Errorf("output missing %q:\n%s", th.PlanCustomGCC, out)
	}
	if strings.Contains(out, th.PlanEnclaveOneCommercial) {
		t.Errorf("output lists a plan of another model:\n%s", out)
	}
}

func TestExitCode(t *testing.T) {
	if got := ExitCode(errors.Input("bad request")); got != 1 {
		t.Errorf("ExitCode(input) = %d, want 1", got)
	}
	if got := ExitCode(errors.Schema("missing sheet")); got != 2 {
		t.Errorf("ExitCode(schema) = %d, want 2", got)
	}
}

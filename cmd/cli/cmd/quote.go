// Package cmd - quote command
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quote-tool/adapters/export"
	"quote-tool/adapters/request"
	"quote-tool/core/output"
	"quote-tool/core/quote"
	"quote-tool/internal/config"
	"quote-tool/internal/logging"
)

var (
	quoteFormat  string
	quoteCompany string
	quoteOutDir  string
	exportCSV    bool
	exportXLSX   bool
	exportPDF    bool
)

// quoteCmd prices a quote request
var quoteCmd = &cobra.Command{
	Use:   "quote <request.hcl>",
	Short: "Price a quote request",
	Long: `Load the reference catalog, price the choices in a quote request file and
print the itemized quote. Export flags also write the quote to files named
after the company, business model and date.

A catalog that cannot be fetched or lacks a required sheet or column aborts
the command; no partial quote is printed.

Examples:
  quote-tool quote request.hcl
  quote-tool quote --format json request.hcl
  quote-tool quote --pdf --xlsx --out-dir ./quotes request.hcl`,
	Args: cobra.ExactArgs(1),
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().StringVarP(&quoteFormat, "format", "f", "", "preview format (table, json, yaml; default from config)")
	quoteCmd.Flags().StringVar(&quoteCompany, "company", "", "company name for exported documents (overrides the request)")
	quoteCmd.Flags().StringVarP(&quoteOutDir, "out-dir", "o", "", "directory for exported files (default from config)")
	quoteCmd.Flags().BoolVar(&exportCSV, "csv", false, "export a CSV file")
	quoteCmd.Flags().BoolVar(&exportXLSX, "xlsx", false, "export an xlsx workbook")
	quoteCmd.Flags().BoolVar(&exportPDF, "pdf", false, "export a PDF document")
}

func runQuote(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	format := quoteFormat
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	formatter, err := output.NewFormatter(format)
	if err != nil {
		return err
	}

	req, err := request.ParseFile(args[0])
	if err != nil {
		return err
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := loadCatalog(ctx, cfg)
	if err != nil {
		return err
	}

	q := quote.Assemble(res.Catalog, req.Selection, engine)
	for _, m := range q.Misses {
		logging.Warn("selection has no catalog price, priced at 0",
			logging.Category(string(m.Category)),
			logging.Key(m.Key),
		)
	}

	if err := formatter.Render(cmd.OutOrStdout(), &q); err != nil {
		return err
	}

	kinds := exportKinds()
	if len(kinds) == 0 {
		return nil
	}

	company := req.Company
	if quoteCompany != "" {
		company = quoteCompany
	}
	dir := quoteOutDir
	if dir == "" {
		dir = cfg.Output.Directory
	}

	doc := export.Document{
		Header: export.Header{
			Company:     company,
			GeneratedAt: time.Now(),
			LegalNotice: cfg.Output.LegalNotice,
		},
		Quote: &q,
	}
	paths, err := export.WriteFiles(dir, doc, kinds...)
	if err != nil {
		return err
	}
	for _, p := range paths {
		logging.Info("quote exported", zap.String("path", p))
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", p)
	}
	return nil
}

func exportKinds() []export.Kind {
	var kinds []export.Kind
	if exportCSV {
		kinds = append(kinds, export.KindCSV)
	}
	if exportXLSX {
		kinds = append(kinds, export.KindXLSX)
	}
	if exportPDF {
		kinds = append(kinds, export.KindPDF)
	}
	return kinds
}

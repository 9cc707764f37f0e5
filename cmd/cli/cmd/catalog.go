// Package cmd - catalog inspection commands
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"quote-tool/core/catalog"
	"quote-tool/core/output"
	"quote-tool/core/quote"
	"quote-tool/internal/config"
	"quote-tool/internal/errors"
)

var (
	catalogFormat  string
	catalogModel   string
	catalogPlan    string
	catalogTerm    string
	catalogBilling string
	catalogAddOns  string
)

// catalogCmd groups the reference data listings
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the reference catalog",
	Long: `List the plans, seat types and add-ons visible after load-time filtering.
Rows with non-priced markers and excluded segments never appear.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var catalogPlansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List plans, optionally for one business model",
	Args:  cobra.NoArgs,
	RunE:  runCatalogPlans,
}

var catalogSeatsCmd = &cobra.Command{
	Use:   "seats <plan>",
	Short: "List the seat types and prices of a plan",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogSeats,
}

var catalogAddOnsCmd = &cobra.Command{
	Use:   "addons",
	Short: "List productivity-suite and hardware add-ons",
	Long: `List add-on SKUs. Productivity-suite rows are filtered by the segment of
--plan and by --term and --billing; hardware rows are never filtered.`,
	Args: cobra.NoArgs,
	RunE: runCatalogAddOns,
}

func init() {
	catalogCmd.PersistentFlags().StringVarP(&catalogFormat, "format", "f", "", "output format (table, json, yaml; default from config)")

	catalogPlansCmd.Flags().StringVar(&catalogModel, "model", "", "business model to list plans for")

	catalogAddOnsCmd.Flags().StringVar(&catalogPlan, "plan", "", "plan whose segment filters productivity rows")
	catalogAddOnsCmd.Flags().StringVar(&catalogTerm, "term", "", "productivity term commitment (1 Month, 1 Year)")
	catalogAddOnsCmd.Flags().StringVar(&catalogBilling, "billing", "", "productivity billing cycle (Monthly, Annual)")
	catalogAddOnsCmd.Flags().StringVar(&catalogAddOns, "kind", "all", "add-on kind (productivity, hardware, all)")

	catalogCmd.AddCommand(catalogPlansCmd)
	catalogCmd.AddCommand(catalogSeatsCmd)
	catalogCmd.AddCommand(catalogAddOnsCmd)
}

func catalogContext(cmd *cobra.Command) (*catalog.Catalog, output.Formatter, error) {
	cfg := config.Get()
	format := catalogFormat
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	formatter, err := output.NewFormatter(format)
	if err != nil {
		return nil, nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := loadCatalog(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return res.Catalog, formatter, nil
}

func runCatalogPlans(cmd *cobra.Command, args []string) error {
	cat, formatter, err := catalogContext(cmd)
	if err != nil {
		return err
	}

	plans := cat.Plans()
	if catalogModel != "" {
		model, err := catalog.ParseBusinessModel(catalogModel)
		if err != nil {
			return err
		}
		plans = cat.PlansFor(model)
	}

	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		seg, _ := p.Segment()
		billing := ""
		for i, b := range catalog.BillingOptions(seg) {
			if i > 0 {
				billing += ", "
			}
			billing += string(b)
		}
		rows = append(rows, []string{p.Name, string(p.BusinessModel), string(seg), billing})
	}
	return formatter.RenderRows(cmd.OutOrStdout(), []string{"Plan", "Business Model", "Segment", "Billing"}, rows)
}

func runCatalogSeats(cmd *cobra.Command, args []string) error {
	cat, formatter, err := catalogContext(cmd)
	if err != nil {
		return err
	}
	if _, ok := cat.Plan(args[0]); !ok {
		return errors.NotFound("plan", args[0])
	}

	seats := cat.SeatTypes(args[0])
	rows := make([][]string, 0, len(seats))
	for _, s := range seats {
		rows = append(rows, []string{s.SeatType, quote.FormatMoney(s.UnitPrice)})
	}
	return formatter.RenderRows(cmd.OutOrStdout(), []string{"Seat Type", "Monthly Price"}, rows)
}

func runCatalogAddOns(cmd *cobra.Command, args []string) error {
	cat, formatter, err := catalogContext(cmd)
	if err != nil {
		return err
	}

	var filter catalog.ProductivityFilter
	if catalogPlan != "" {
		seg, ok := catalog.SegmentFor(catalogPlan)
		if !ok {
			return errors.Inputf("plan %q has no recognizable segment", catalogPlan)
		}
		filter.Segment = seg
	}
	if catalogTerm != "" {
		if filter.Term, err = catalog.ParseTerm(catalogTerm); err != nil {
			return err
		}
	}
	if catalogBilling != "" {
		if filter.Billing, err = catalog.ParseBillingCycle(catalogBilling); err != nil {
			return err
		}
	}

	var rows [][]string
	switch catalogAddOns {
	case "all", "productivity", "hardware":
	default:
		return errors.Inputf("unknown add-on kind %q (use productivity, hardware or all)", catalogAddOns)
	}
	if catalogAddOns != "hardware" {
		for _, a := range cat.ProductivityOptions(filter) {
			rows = append(rows, addOnRow(string(catalog.TableProductivity), a))
		}
	}
	if catalogAddOns != "productivity" {
		for _, a := range cat.HardwareOptions() {
			rows = append(rows, addOnRow(string(catalog.TableHardware), a))
		}
	}
	return formatter.RenderRows(cmd.OutOrStdout(), []string{"Kind", "License", "Segment", "Term", "Billing", "Price"}, rows)
}

func addOnRow(kind string, a catalog.AddOnPrice) []string {
	return []string{kind, a.SKU, a.Segment, a.Term, a.Billing, quote.FormatMoney(a.UnitPrice)}
}

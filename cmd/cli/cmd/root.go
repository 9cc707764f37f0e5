// Package cmd provides the CLI commands for quote-tool.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quote-tool/adapters/source"
	"quote-tool/core/pricing"
	"quote-tool/internal/config"
	"quote-tool/internal/errors"
	"quote-tool/internal/logging"
)

// Version is the tool version, overridden at build time
var Version = "0.1.0"

var (
	cfgFile       string
	verbose       bool
	catalogSource string
	documentID    string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "quote-tool",
	Short: "Generate managed-services pricing quotes",
	Long: `quote-tool prices a quote request against the reference price workbook
and renders the itemized quote as a table, JSON, YAML, CSV, xlsx or PDF.

Examples:
  quote-tool quote request.hcl
  quote-tool quote --pdf --csv --company "Acme Corp" request.hcl
  quote-tool catalog plans --model "Custom Enclave"
  quote-tool config init ./quote-tool.json`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	defer logging.Sync()
	return rootCmd.Execute()
}

// ExitCode maps an error to the process exit status. Catalog failures that
// abort the session exit with 2.
func ExitCode(err error) int {
	if errors.IsFatal(err) {
		return 2
	}
	return 1
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./quote-tool.json when present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&catalogSource, "catalog", "", "catalog workbook path or URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&documentID, "document-id", "", "catalog spreadsheet id (overrides config)")

	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("quote-tool.json"); err == nil {
			path = "quote-tool.json"
		}
	}
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	cfg := config.Get()
	if catalogSource != "" {
		cfg.Catalog.Source = catalogSource
	}
	if documentID != "" {
		cfg.Catalog.Source = ""
		cfg.Catalog.DocumentID = documentID
	}

	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// loadCatalog fetches the reference catalog; any error aborts the command
func loadCatalog(ctx context.Context, cfg *config.Config) (*source.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Catalog.Timeout())
	defer cancel()

	res, err := source.NewLoader(cfg.Catalog).Load(ctx)
	if err != nil {
		logging.Error("catalog load failed", zap.Error(err))
		return nil, err
	}
	return res, nil
}

// newEngine builds the pricing engine from configuration
func newEngine(cfg *config.Config) (*pricing.Engine, error) {
	var opts []pricing.Option
	if cfg.Pricing.OnboardingFloor != "" {
		floor, err := decimal.NewFromString(cfg.Pricing.OnboardingFloor)
		if err != nil || floor.IsNegative() {
			return nil, errors.Newf(errors.TypeConfig, "pricing.onboarding_floor %q is not a non-negative number", cfg.Pricing.OnboardingFloor)
		}
		opts = append(opts, pricing.WithOnboardingFloor(floor))
	}
	if cfg.Pricing.FixedPercent != "" {
		pct, err := decimal.NewFromString(cfg.Pricing.FixedPercent)
		if err != nil || pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
			return nil, errors.Newf(errors.TypeConfig, "pricing.fixed_percent %q must be between 0 and 100", cfg.Pricing.FixedPercent)
		}
		opts = append(opts, pricing.WithFixedPercent(pct))
	}
	return pricing.NewEngine(opts...), nil
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "quote-tool version %s\n", Version)
	},
}

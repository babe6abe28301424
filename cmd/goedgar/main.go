package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	edgar "github.com/RxDataLab/edgar-statements"
)

func main() {
	if err := loadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries what every subcommand needs once flags are parsed
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *Config
	logger  *zap.Logger
	client  *edgar.Client
}

func newRootCmd() *cobra.Command {
	a := &app{v: newViper()}

	root := &cobra.Command{
		Use:           "goedgar",
		Short:         "Extract balance sheets from SEC 10-Q filings",
		Long:          "goedgar resolves a ticker to its 10-Q filings on SEC EDGAR and extracts the balance sheet table.",
		Version:       edgar.VERSION,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.StringP("email", "e", "", "Email for SEC User-Agent header (or use SEC_EMAIL env var)")
	flags.Int("rate-limit", edgar.DefaultRequestsPerSecond, "maximum SEC requests per second")
	flags.Duration("timeout", edgar.DefaultTimeout, "per-request timeout")
	flags.StringSlice("keywords", edgar.BalanceSheetKeywords, "report short-name keywords that identify the balance sheet")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.BoolP("verbose", "v", false, "debug logging")

	_ = a.v.BindPFlag("email", flags.Lookup("email"))
	_ = a.v.BindPFlag("rate_limit", flags.Lookup("rate-limit"))
	_ = a.v.BindPFlag("timeout", flags.Lookup("timeout"))
	_ = a.v.BindPFlag("keywords", flags.Lookup("keywords"))
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("verbose", flags.Lookup("verbose"))

	root.AddCommand(
		newBalanceSheetCmd(a),
		newFilingsCmd(a),
		newReportsCmd(a),
		newCIKCmd(a),
	)
	return root
}

// setup resolves configuration and builds the logger and client
func (a *app) setup() error {
	cfg, err := loadConfig(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := newLogger(cfg.LogLevel, cfg.Verbose)
	if err != nil {
		return err
	}
	a.logger = logger

	fetcher, err := edgar.NewFetcher(edgar.BuildUserAgent(cfg.Email),
		edgar.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		edgar.WithRateWindow(edgar.NewRateWindow(cfg.RateLimit)),
		edgar.WithFetchLogger(logger.Named("fetch")),
	)
	if err != nil {
		return err
	}

	a.client = edgar.NewClient(fetcher,
		edgar.WithLogger(logger),
		edgar.WithKeywords(cfg.Keywords...),
	)
	return nil
}

func newBalanceSheetCmd(a *app) *cobra.Command {
	var (
		date       string
		all        bool
		limit      int
		asJSON     bool
		outputPath string
		line       string
	)

	cmd := &cobra.Command{
		Use:     "balance-sheet TICKER",
		Aliases: []string{"bs"},
		Short:   "Extract the balance sheet of the latest 10-Q (or all of them with --all)",
		Example: `  goedgar balance-sheet aapl
  goedgar balance-sheet jpm --date 20240101 --json
  goedgar balance-sheet msft --all --limit 4 -o msft.json
  goedgar balance-sheet aapl --line "Total assets"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ticker := args[0]
			out := cmd.OutOrStdout()

			if all {
				batch, err := a.client.BalanceSheets(cmd.Context(), ticker, date, limit)
				if err != nil && batch == nil {
					return err
				}
				if werr := writeOutput(cmd, batch, asJSON || outputPath != "", outputPath, func() {
					for _, res := range batch.Statements {
						renderStatement(out, res)
					}
				}); werr != nil {
					return werr
				}
				for _, e := range batch.Errors {
					a.logger.Warn("filing failed", zap.Error(e))
				}
				return err
			}

			res, err := a.client.BalanceSheet(cmd.Context(), ticker, date)
			if err != nil {
				return err
			}
			if line != "" {
				return renderLine(out, res, line)
			}
			return writeOutput(cmd, res, asJSON || outputPath != "", outputPath, func() {
				renderStatement(out, res)
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "only filings on or before this date (YYYYMMDD)")
	cmd.Flags().BoolVar(&all, "all", false, "extract every filing the search returns")
	cmd.Flags().IntVar(&limit, "limit", 0, "with --all, stop after this many filings")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output JSON file path (default: stdout)")
	cmd.Flags().StringVar(&line, "line", "", "print only the amounts of this statement line")
	return cmd
}

// writeOutput prints v as JSON (to outputPath when set) or calls render
func writeOutput(cmd *cobra.Command, v any, asJSON bool, outputPath string, render func()) error {
	if !asJSON {
		render()
		return nil
	}

	data, err := edgar.FormatJSON(v)
	if err != nil {
		return err
	}
	if outputPath == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to save JSON output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Saved JSON output: %s\n", outputPath)
	return nil
}

func newFilingsCmd(a *app) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "filings TICKER",
		Short: "List the 10-Q filing directories for a ticker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.client.FilingIndex(cmd.Context(), args[0], date)
			if err != nil {
				return err
			}
			renderFilings(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "only filings on or before this date (YYYYMMDD)")
	return cmd
}

func newReportsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reports DIRECTORY_URL",
		Short: "List the reports of one filing, given its index.json URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summaryURL, ok, err := a.client.SummaryManifestURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s has no %s", args[0], edgar.FilingSummaryName)
			}
			reports, err := a.client.Reports(cmd.Context(), summaryURL)
			if err != nil {
				return err
			}
			renderReports(cmd.OutOrStdout(), reports)
			return nil
		},
	}
}

func newCIKCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cik TICKER",
		Short: "Look up the CIK of a ticker in SEC's ticker table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cik, err := a.client.LookupCIK(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cik)
			return nil
		},
	}
}

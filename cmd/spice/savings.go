package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/the-spice-must-parse/internal/cli"
	"github.com/Veraticus/the-spice-must-parse/internal/common"
	"github.com/Veraticus/the-spice-must-parse/internal/config"
	"github.com/Veraticus/the-spice-must-parse/internal/extraction"
	"github.com/Veraticus/the-spice-must-parse/internal/ofx"
	"github.com/Veraticus/the-spice-must-parse/internal/savings"
)

func savingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "savings",
		Short: "Recommend ways to save based on your spending",
		Long: `Analyze recent spending and list the highest-impact savings recommendations.

Transactions come from the database filled by "spice extract --save", or from
OFX/QFX statements when --ofx is given.

Examples:
  spice savings
  spice savings --ofx ~/Downloads/checking_*.qfx --format json`,
		Args: cobra.NoArgs,
		RunE: runSavings,
	}
	addAnalysisFlags(cmd)
	return cmd
}

func potentialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "potential",
		Short: "Summarize how much you could save each month",
		Args:  cobra.NoArgs,
		RunE:  runPotential,
	}
	addAnalysisFlags(cmd)
	return cmd
}

func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", formatTable, "output format (table, json)")
	cmd.Flags().StringSlice("ofx", nil, "analyze OFX/QFX files instead of the database")
}

func runSavings(cmd *cobra.Command, _ []string) error {
	analyzer, records, format, err := prepareAnalysis(cmd)
	if err != nil {
		return err
	}

	recs := analyzer.GenerateRecommendations(records)
	if format == formatJSON {
		return cli.WriteJSON(cmd.OutOrStdout(), recs)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatTitle("Savings Recommendations"))
	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderRecommendations(recs))
	return nil
}

func runPotential(cmd *cobra.Command, _ []string) error {
	analyzer, records, format, err := prepareAnalysis(cmd)
	if err != nil {
		return err
	}

	potential := analyzer.CalculatePotential(records)
	if format == formatJSON {
		return cli.WriteJSON(cmd.OutOrStdout(), potential)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderPotential(potential))
	return nil
}

func prepareAnalysis(cmd *cobra.Command) (*savings.Analyzer, []savings.Record, string, error) {
	format, _ := cmd.Flags().GetString("format")
	ofxPatterns, _ := cmd.Flags().GetStringSlice("ofx")

	if err := validateFormat(format); err != nil {
		return nil, nil, "", err
	}

	settings, err := loadSettings()
	if err != nil {
		return nil, nil, "", err
	}

	var records []savings.Record
	if len(ofxPatterns) > 0 {
		records, err = loadOFXRecords(cmd.Context(), settings, ofxPatterns)
	} else {
		records, err = loadStoredRecords(cmd.Context(), settings)
	}
	if err != nil {
		return nil, nil, "", err
	}

	if len(records) == 0 {
		return nil, nil, "", common.NewUserError(
			"No transactions to analyze. Run \"spice extract --save\" or pass --ofx files.",
			common.ErrNoTransactions)
	}

	return savings.NewAnalyzer(settings.SavingsConfig()), records, format, nil
}

func loadStoredRecords(ctx context.Context, settings *config.Settings) ([]savings.Record, error) {
	store, err := initStorage(ctx, settings)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	return store.LoadRecords(ctx)
}

func loadOFXRecords(ctx context.Context, settings *config.Settings, patterns []string) ([]savings.Record, error) {
	files, err := expandFiles(patterns)
	if err != nil {
		return nil, err
	}

	engine, err := extraction.New(settings.ExtractionConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction engine: %w", err)
	}
	parser := ofx.NewParser(engine)

	var records []savings.Record
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		parsed, err := parser.ParseRecords(ctx, bytes.NewReader(content))
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("Could not read statement %s", path), err)
		}
		accounts, err := parser.GetAccounts(ctx, bytes.NewReader(content))
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("Could not read statement %s", path), err)
		}

		slog.Info("Loaded statement", "file", filepath.Base(path), "accounts", accounts, "records", len(parsed))
		records = append(records, parsed...)
	}
	return records, nil
}

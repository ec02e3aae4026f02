package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/the-spice-must-parse/internal/cli"
	"github.com/Veraticus/the-spice-must-parse/internal/common"
	"github.com/Veraticus/the-spice-must-parse/internal/config"
	"github.com/Veraticus/the-spice-must-parse/internal/extraction"
	"github.com/Veraticus/the-spice-must-parse/internal/metrics"
	"github.com/Veraticus/the-spice-must-parse/internal/model"
)

const stdinSource = "stdin"

type extractInput struct {
	source string
	text   string
}

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [files...]",
		Short: "Extract transactions from notification text",
		Long: `Extract candidate transactions from bank alerts, SMS exports or email bodies.

Each file (or stdin when no files are given) may hold many messages separated by
blank lines, dashed rules or email headers.

Examples:
  # Extract from a pasted alert
  pbpaste | spice extract

  # Extract from a month of SMS exports and keep the results
  spice extract --save ~/exports/sms_*.txt

  # Machine-readable output
  spice extract --format json alerts.txt

  # Screen an email body before extracting from it
  spice extract --email --subject "Transaction alert" --sender alerts@hdfcbank.net body.txt`,
		RunE: runExtract,
	}

	cmd.Flags().StringP("format", "f", formatTable, "output format (table, json)")
	cmd.Flags().Bool("save", false, "store accepted transactions in the database")
	cmd.Flags().String("source", "", "source label for stored transactions (default: file name or stdin)")
	cmd.Flags().String("metrics-file", "", "write Prometheus textfile metrics to this path")
	cmd.Flags().Float64("min-confidence", extraction.DefaultMinConfidence, "minimum overall confidence to accept a transaction")
	cmd.Flags().Int("workers", extraction.DefaultWorkers, "files processed in parallel")
	cmd.Flags().Bool("email", false, "treat each input as an email body and skip promotional mail")
	cmd.Flags().String("subject", "", "email subject used with --email")
	cmd.Flags().String("sender", "", "email sender address used with --email")

	_ = viper.BindPFlag("extraction.min_confidence", cmd.Flags().Lookup("min-confidence"))
	_ = viper.BindPFlag("extraction.workers", cmd.Flags().Lookup("workers"))

	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	save, _ := cmd.Flags().GetBool("save")
	sourceOverride, _ := cmd.Flags().GetString("source")
	metricsFile, _ := cmd.Flags().GetString("metrics-file")
	email, _ := cmd.Flags().GetBool("email")

	if err := validateFormat(format); err != nil {
		return err
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := handler.HandleInterrupts(cmd.Context(), save)
	defer handler.Stop()

	observer := metrics.New()
	engineCfg := settings.ExtractionConfig()
	engineCfg.Observer = observer
	engine, err := extraction.New(engineCfg)
	if err != nil {
		return fmt.Errorf("failed to create extraction engine: %w", err)
	}

	inputs, err := readInputs(ctx, cmd, args)
	if err != nil {
		return err
	}

	texts := make([]string, len(inputs))
	for i, in := range inputs {
		texts[i] = in.text
		if sourceOverride != "" {
			inputs[i].source = sourceOverride
		}
	}

	var progress extraction.ProgressFunc
	var bar *cli.BatchProgress
	if len(inputs) > 1 && format == formatTable {
		bar = cli.NewBatchProgress(cmd.ErrOrStderr(), len(inputs), "Extracting")
		progress = bar.Callback()
	}

	var groups [][]model.Transaction
	if email {
		subject, _ := cmd.Flags().GetString("subject")
		sender, _ := cmd.Flags().GetString("sender")
		groups = screenEmails(engine, inputs, subject, sender, progress)
	} else {
		groups = engine.ProcessBatchGrouped(texts, progress)
	}
	if bar != nil {
		bar.Finish()
	}

	transactions := []model.Transaction{}
	for i, group := range groups {
		for j := range group {
			group[j].Source = inputs[i].source
		}
		transactions = append(transactions, group...)
	}

	slog.Debug("Extraction finished",
		"inputs", len(inputs),
		"transactions", len(transactions))

	var inserted int
	if save && len(transactions) > 0 {
		inserted, err = saveGroups(ctx, settings, inputs, groups)
		if err != nil {
			return err
		}
	}

	if metricsFile != "" {
		if err := observer.WriteTextfile(metricsFile); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if format == formatJSON {
		return cli.WriteJSON(out, transactions)
	}

	fmt.Fprintln(out, cli.RenderTransactions(transactions))
	if save {
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Saved %d new transactions (%d already stored)",
			inserted, len(transactions)-inserted)))
	}
	return nil
}

func readInputs(ctx context.Context, cmd *cobra.Command, args []string) ([]extractInput, error) {
	if len(args) == 0 {
		text, err := cli.ReadAll(ctx, cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(text) == "" {
			return nil, common.NewUserError("Nothing to extract: stdin was empty", common.ErrNoInput)
		}
		return []extractInput{{source: stdinSource, text: text}}, nil
	}

	files, err := expandFiles(args)
	if err != nil {
		return nil, err
	}

	inputs := make([]extractInput, 0, len(files))
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		inputs = append(inputs, extractInput{source: filepath.Base(path), text: string(content)})
	}
	return inputs, nil
}

// screenEmails extracts from each input as an email body, leaving the group
// of a screened-out email empty.
func screenEmails(engine *extraction.Engine, inputs []extractInput, subject, sender string,
	progress extraction.ProgressFunc,
) [][]model.Transaction {
	groups := make([][]model.Transaction, len(inputs))
	for i, in := range inputs {
		txns, result := engine.ProcessEmail(subject, in.text, sender)
		if !result.Accepted {
			slog.Info("Skipping email", "source", in.source, "reason", result.Reason)
		}
		groups[i] = txns
		if progress != nil {
			progress(i+1, len(inputs))
		}
	}
	return groups
}

// saveGroups stores each input's candidates under that input's source and
// returns how many rows were new.
func saveGroups(ctx context.Context, settings *config.Settings, inputs []extractInput, groups [][]model.Transaction) (int, error) {
	store, err := initStorage(ctx, settings)
	if err != nil {
		return 0, err
	}
	defer func() { _ = store.Close() }()

	total := 0
	for i, group := range groups {
		if len(group) == 0 {
			continue
		}
		inserted, err := store.SaveCandidates(ctx, inputs[i].source, group)
		if err != nil {
			return total, fmt.Errorf("failed to save transactions from %s: %w", inputs[i].source, err)
		}
		total += inserted
	}

	stored, err := store.CountTransactions(ctx)
	if err != nil {
		return total, err
	}

	slog.Info("Saved transactions", "new", total, "stored", stored, "database", store.Path())
	return total, nil
}

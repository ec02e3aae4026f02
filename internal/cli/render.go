package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Veraticus/the-spice-must-parse/internal/model"
)

// lowConfidence highlights candidates that barely cleared the threshold.
const lowConfidence = 0.5

const maxDescriptionWidth = 40

// RenderTransactions renders candidates as a table, one row per candidate.
func RenderTransactions(transactions []model.Transaction) string {
	if len(transactions) == 0 {
		return FormatWarning("No transactions found")
	}

	rows := make([][]string, len(transactions))
	for i, txn := range transactions {
		rows[i] = []string{
			txn.Date.Format("2006-01-02"),
			txn.Amount.StringFixed(2),
			string(txn.Direction),
			txn.Merchant,
			string(txn.Category),
			fmt.Sprintf("%.2f", txn.Confidence),
			truncate(txn.Description, maxDescriptionWidth),
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(BorderColor)).
		Headers("DATE", "AMOUNT", "DIRECTION", "MERCHANT", "CATEGORY", "CONF", "DESCRIPTION").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			txn := transactions[row]
			switch col {
			case 1, 2:
				if txn.Direction == model.DirectionCredit {
					return TableCellStyle.Foreground(SuccessColor)
				}
				return TableCellStyle.Foreground(ErrorColor)
			case 5:
				if txn.Confidence < lowConfidence {
					return TableCellStyle.Foreground(WarningColor)
				}
			}
			return TableCellStyle
		})

	return t.Render()
}

// RenderRecommendations renders each recommendation in its own box, ranked.
func RenderRecommendations(recommendations []model.Recommendation) string {
	if len(recommendations) == 0 {
		return FormatInfo("No savings opportunities found")
	}

	boxes := make([]string, 0, len(recommendations))
	for i, rec := range recommendations {
		var b strings.Builder
		b.WriteString(rec.Description)
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "%s %s/month  %s  %s\n",
			MoneyIcon,
			SuccessStyle.Render(fmt.Sprintf("%.2f", rec.PotentialMonthlySavings)),
			difficultyStyle(rec.Difficulty).Render(string(rec.Difficulty)),
			SubtleStyle.Render(rec.Category))
		for _, item := range rec.ActionItems {
			b.WriteString("\n  • " + item)
		}

		boxes = append(boxes, RenderBox(fmt.Sprintf("%d. %s", i+1, rec.Title), b.String()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, boxes...)
}

// RenderPotential renders the savings summary box.
func RenderPotential(p model.SavingsPotential) string {
	lines := []string{
		fmt.Sprintf("Monthly spending:   %s", BoldStyle.Render(fmt.Sprintf("%.2f", p.CurrentMonthlySpending))),
		fmt.Sprintf("Monthly potential:  %s", SuccessStyle.Render(fmt.Sprintf("%.2f", p.TotalMonthlyPotential))),
		fmt.Sprintf("Savings rate:       %s", SuccessStyle.Render(fmt.Sprintf("%.1f%%", p.PotentialSavingsRate))),
		"",
		fmt.Sprintf("Recommendations:    %d", p.RecommendationsCount),
		fmt.Sprintf("  Easy wins:        %d", p.EasyWins),
		fmt.Sprintf("  Medium effort:    %d", p.MediumEffort),
		fmt.Sprintf("  Hard changes:     %d", p.HardChanges),
	}
	return RenderBox(ChartIcon+" Savings Potential", strings.Join(lines, "\n"))
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func difficultyStyle(d model.Difficulty) lipgloss.Style {
	switch d {
	case model.DifficultyEasy:
		return SuccessStyle
	case model.DifficultyHard:
		return ErrorStyle
	default:
		return WarningStyle
	}
}

func truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

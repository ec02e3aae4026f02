package extraction

import (
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	amountConfidenceMarked   = 0.9
	amountConfidenceUnmarked = 0.7
)

var (
	minAmount = decimal.RequireFromString("0.01")
	maxAmount = decimal.NewFromInt(1_000_000)
)

// ExtractAmount returns the first amount an amount rule yields that does not
// look like a phone number and falls inside the plausible range.
func (e *Engine) ExtractAmount(message string) Field[decimal.Decimal] {
	for _, rule := range e.amountRules {
		match := rule.regex.FindStringSubmatch(message)
		if match == nil {
			continue
		}

		cleaned := cleanNumber(match[1])
		amount, err := decimal.NewFromString(cleaned)
		if err != nil {
			continue
		}

		if isPhoneNumber(cleaned) {
			slog.Debug("Skipping phone-like number detected as amount", "rule", rule.Name, "value", cleaned)
			continue
		}

		if amount.LessThan(minAmount) || amount.GreaterThan(maxAmount) {
			slog.Debug("Skipping amount outside plausible range", "rule", rule.Name, "value", cleaned)
			continue
		}

		return found(amount, e.amountConfidence(message))
	}

	return Field[decimal.Decimal]{}
}

func (e *Engine) amountConfidence(message string) float64 {
	for _, marker := range e.currencyMarkers {
		if strings.Contains(message, marker) {
			return amountConfidenceMarked
		}
	}
	return amountConfidenceUnmarked
}

func cleanNumber(raw string) string {
	return strings.NewReplacer(",", "", " ", "").Replace(raw)
}

// isPhoneNumber reports whether a cleaned digit string looks like an Indian
// mobile, an STD landline, or a customer-service number.
func isPhoneNumber(s string) bool {
	switch {
	case len(s) == 10 && strings.ContainsRune("6789", rune(s[0])):
		return true
	case len(s) == 11 && s[0] == '0':
		return true
	case len(s) >= 10 && len(s) <= 12:
		counts := make(map[rune]int, len(s))
		for _, r := range s {
			counts[r]++
			if counts[r] > 4 {
				return true
			}
		}
	}
	return false
}

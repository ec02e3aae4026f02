package extraction

import (
	"strings"
	"unicode/utf8"
)

const (
	merchantConfidenceAlias = 0.9
	merchantConfidence      = 0.7
	minMerchantLength       = 3
)

// ExtractMerchant returns the first merchant a merchant rule captures that is
// at least three characters long after cleanup. Known brands are mapped to
// their display name.
func (e *Engine) ExtractMerchant(message string) Field[string] {
	for _, rule := range e.merchantRules {
		match := rule.regex.FindStringSubmatch(message)
		if match == nil {
			continue
		}

		merchant := strings.Join(strings.Fields(match[1]), " ")
		merchant = strings.Trim(merchant, ".,;:")

		confidence := merchantConfidence
		upper := strings.ToUpper(merchant)
		for _, alias := range e.aliases {
			if strings.Contains(upper, alias.Match) {
				merchant = alias.Name
				confidence = merchantConfidenceAlias
				break
			}
		}

		if utf8.RuneCountInString(merchant) >= minMerchantLength {
			return found(merchant, confidence)
		}
	}

	return Field[string]{}
}

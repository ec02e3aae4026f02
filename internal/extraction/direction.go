package extraction

import (
	"strings"

	"github.com/Veraticus/the-spice-must-parse/internal/model"
)

const defaultDirectionConfidence = 0.3

// ExtractDirection returns the direction of the first direction rule matching
// the lower-cased message. Unmatched messages default to a low-confidence debit.
func (e *Engine) ExtractDirection(message string) Field[model.Direction] {
	lower := strings.ToLower(message)
	for _, rule := range e.directionRules {
		if rule.regex.MatchString(lower) {
			return found(rule.Direction, rule.Confidence)
		}
	}
	return found(model.DirectionDebit, defaultDirectionConfidence)
}

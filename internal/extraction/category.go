package extraction

import (
	"strings"

	"github.com/Veraticus/the-spice-must-parse/internal/model"
)

const (
	categoryScoreFactor     = 0.15
	maxCategoryConfidence   = 0.9
	minCategoryConfidence   = 0.3
	fallbackGuessConfidence = 0.4
)

// Categorize scores every category by the keywords found in the message and
// merchant. A keyword adds one point plus half a point per word it contains.
// The first category in table order with the highest score wins.
func (e *Engine) Categorize(message, merchant string) Field[model.Category] {
	combined := strings.ToLower(message) + " " + strings.ToLower(merchant)

	var best Field[model.Category]
	bestScore := 0.0
	for _, set := range e.categories {
		matches, words := 0, 0
		for i, kw := range set.keywords {
			if strings.Contains(combined, kw) {
				matches++
				words += set.words[i]
			}
		}

		score := float64(matches) + float64(words)*0.5
		if score > bestScore {
			bestScore = score
			best = found(set.category, min(maxCategoryConfidence, score*categoryScoreFactor))
		}
	}

	if best.Found && best.Confidence >= minCategoryConfidence {
		return best
	}

	for _, fb := range e.fallbacks {
		for _, term := range fb.Terms {
			if strings.Contains(combined, term) {
				return found(fb.Category, fb.Confidence)
			}
		}
	}

	if best.Found {
		best.Confidence = max(best.Confidence, fallbackGuessConfidence)
	}
	return best
}

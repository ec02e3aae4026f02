package extraction

import (
	"regexp"
	"strings"
	"time"
)

const (
	dateConfidence         = 0.8
	relativeDateConfidence = 0.6
)

var textDateSeparators = regexp.MustCompile(`[\s,/-]+`)

// ExtractDate finds the first date rule whose match parses with one of the
// configured layouts. Messages that only say "today" or "yesterday" resolve
// against the engine clock at lower confidence.
func (e *Engine) ExtractDate(message string) Field[time.Time] {
	for _, rule := range e.dateRules {
		match := rule.regex.FindStringSubmatch(message)
		if match == nil {
			continue
		}
		if t, ok := e.parseDate(match[1]); ok {
			return found(t, dateConfidence)
		}
	}

	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "today"):
		return found(e.now(), relativeDateConfidence)
	case strings.Contains(lower, "yesterday"):
		return found(e.now().AddDate(0, 0, -1), relativeDateConfidence)
	}

	return Field[time.Time]{}
}

func (e *Engine) parseDate(raw string) (time.Time, bool) {
	for _, layout := range e.numericLayouts {
		if t, err := time.ParseInLocation(layout, raw, e.location); err == nil {
			return t, true
		}
	}

	normalized := textDateSeparators.ReplaceAllString(strings.TrimSpace(raw), " ")
	for _, layout := range e.textLayouts {
		if t, err := time.ParseInLocation(layout, normalized, e.location); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

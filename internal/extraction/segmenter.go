package extraction

import (
	"iter"
	"slices"
	"strings"
)

// Segments lazily splits a text blob into candidate messages. Each separator
// re-splits every fragment the previous separator produced; fragments are
// trimmed and empty ones dropped. Fragments are yielded left to right.
func (e *Engine) Segments(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		e.splitFrom(text, 0, yield)
	}
}

// Segment returns every message Segments yields.
func (e *Engine) Segment(text string) []string {
	return slices.Collect(e.Segments(text))
}

// splitFrom applies separators[level:] to fragment, returning false once the consumer stops.
func (e *Engine) splitFrom(fragment string, level int, yield func(string) bool) bool {
	if level == len(e.separators) {
		return yield(fragment)
	}

	for _, part := range e.separators[level].regex.Split(fragment, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !e.splitFrom(part, level+1, yield) {
			return false
		}
	}
	return true
}

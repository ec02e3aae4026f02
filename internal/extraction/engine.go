package extraction

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Veraticus/the-spice-must-parse/internal/model"
)

const (
	// DefaultMinConfidence is the aggregate confidence a candidate needs to be accepted.
	DefaultMinConfidence = 0.3
	// DefaultWorkers bounds the goroutines ProcessBatch uses.
	DefaultWorkers = 4
	// MinMessageLength is the shortest trimmed message worth extracting from.
	MinMessageLength = 10
)

// Field is a single extracted value together with the confidence it was found with.
// Found is false when the extractor produced nothing; Confidence is then zero.
type Field[T any] struct {
	Value      T
	Confidence float64
	Found      bool
}

func found[T any](value T, confidence float64) Field[T] {
	return Field[T]{Value: value, Confidence: confidence, Found: true}
}

// Observer is notified about every message the assembler finishes with.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveAccepted(txn model.Transaction)
	ObserveRejected(stage Stage)
}

// Config configures an Engine. Zero values fall back to defaults.
type Config struct {
	Now           func() time.Time
	Location      *time.Location
	Observer      Observer
	Rules         *Rules
	// MinConfidence can only raise the acceptance threshold; lower values
	// are replaced by DefaultMinConfidence.
	MinConfidence float64
	Workers       int
}

type compiledRule struct {
	regex *regexp.Regexp
	Rule
}

type compiledDirectionRule struct {
	regex *regexp.Regexp
	DirectionRule
}

type keywordSet struct {
	category model.Category
	keywords []string
	words    []int
}

// Engine extracts candidate transactions from notification text.
// It holds only compiled, read-only tables and is safe for concurrent use.
type Engine struct {
	now             func() time.Time
	location        *time.Location
	observer        Observer
	accountRule     *regexp.Regexp
	balanceRule     *regexp.Regexp
	separators      []compiledRule
	amountRules     []compiledRule
	dateRules       []compiledRule
	merchantRules   []compiledRule
	referenceRules  []compiledRule
	directionRules  []compiledDirectionRule
	categories      []keywordSet
	fallbacks       []CategoryFallback
	aliases         []MerchantAlias
	indicators      []string
	currencyMarkers []string
	numericLayouts  []string
	textLayouts     []string
	minConfidence   float64
	workers         int
}

// New compiles the configured rules into an Engine.
func New(cfg Config) (*Engine, error) {
	rules := DefaultRules()
	if cfg.Rules != nil {
		rules = *cfg.Rules
	}

	e := &Engine{
		now:             cfg.Now,
		location:        cfg.Location,
		observer:        cfg.Observer,
		minConfidence:   cfg.MinConfidence,
		workers:         cfg.Workers,
		fallbacks:       rules.CategoryFallbacks,
		aliases:         rules.MerchantAliases,
		indicators:      rules.TransactionIndicators,
		currencyMarkers: rules.CurrencyMarkers,
		numericLayouts:  rules.NumericDateLayouts,
		textLayouts:     rules.TextDateLayouts,
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.location == nil {
		e.location = time.UTC
	}
	if e.minConfidence < DefaultMinConfidence {
		e.minConfidence = DefaultMinConfidence
	}
	if e.workers <= 0 {
		e.workers = DefaultWorkers
	}

	var err error
	if e.separators, err = compileRules(rules.Separators); err != nil {
		return nil, err
	}
	if e.amountRules, err = compileRules(rules.AmountRules); err != nil {
		return nil, err
	}
	if e.dateRules, err = compileRules(rules.DateRules); err != nil {
		return nil, err
	}
	if e.merchantRules, err = compileRules(rules.MerchantRules); err != nil {
		return nil, err
	}
	if e.referenceRules, err = compileRules(rules.ReferenceRules); err != nil {
		return nil, err
	}

	account, err := compileRule(rules.AccountRule)
	if err != nil {
		return nil, err
	}
	e.accountRule = account.regex

	balance, err := compileRule(rules.BalanceRule)
	if err != nil {
		return nil, err
	}
	e.balanceRule = balance.regex

	for _, dr := range rules.DirectionRules {
		compiled, err := compileRule(Rule{Name: dr.Name, Regex: dr.Regex})
		if err != nil {
			return nil, err
		}
		e.directionRules = append(e.directionRules, compiledDirectionRule{
			DirectionRule: dr,
			regex:         compiled.regex,
		})
	}

	for _, ck := range rules.CategoryKeywords {
		set := keywordSet{category: ck.Category}
		for _, kw := range ck.Keywords {
			kw = strings.ToLower(kw)
			set.keywords = append(set.keywords, kw)
			set.words = append(set.words, len(strings.Fields(kw)))
		}
		e.categories = append(e.categories, set)
	}

	return e, nil
}

// NewDefault returns an Engine built from DefaultRules.
func NewDefault() (*Engine, error) {
	return New(Config{})
}

// MinConfidence returns the acceptance threshold the engine applies.
func (e *Engine) MinConfidence() float64 {
	return e.minConfidence
}

func compileRules(rules []Rule) ([]compiledRule, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		c, err := compileRule(r)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, c)
	}
	return compiled, nil
}

func compileRule(r Rule) (compiledRule, error) {
	regexStr := r.Regex
	if !strings.HasPrefix(regexStr, "(?i)") {
		regexStr = "(?i)" + regexStr // Make case-insensitive by default
	}

	regex, err := regexp.Compile(regexStr)
	if err != nil {
		return compiledRule{}, fmt.Errorf("failed to compile rule %s: %w", r.Name, err)
	}

	return compiledRule{Rule: r, regex: regex}, nil
}

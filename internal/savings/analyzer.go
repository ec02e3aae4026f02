// Package savings turns a history of transactions into ranked, personalized
// savings recommendations.
package savings

import (
	"cmp"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/Veraticus/the-spice-must-parse/internal/model"
)

// Default analyzer settings.
const (
	DefaultMinImpact              = 50.0
	DefaultLookbackMonths         = 6
	DefaultHighFrequencyThreshold = 10.0
	DefaultMaxRecommendations     = 10
)

const (
	otherCategory   = "Other"
	unknownMerchant = "Unknown"
	daysPerMonth    = 30
)

// Record is the read-only view of a transaction the analyzer needs.
type Record interface {
	TransactionAmount() float64
	TransactionDate() time.Time
	TransactionDirection() model.Direction
	CategoryName() string
	MerchantName() string
}

// Config tunes the analyzer. Zero values fall back to the defaults.
type Config struct {
	MinImpact              float64
	HighFrequencyThreshold float64
	LookbackMonths         int
	MaxRecommendations     int
}

// Analyzer generates recommendations. It holds no state between calls.
type Analyzer struct {
	// Now is the analyzer clock. It defaults to time.Now.
	Now    func() time.Time
	config Config
}

// NewAnalyzer creates an analyzer with the given configuration.
func NewAnalyzer(cfg Config) *Analyzer {
	if cfg.MinImpact == 0 {
		cfg.MinImpact = DefaultMinImpact
	}
	if cfg.HighFrequencyThreshold == 0 {
		cfg.HighFrequencyThreshold = DefaultHighFrequencyThreshold
	}
	if cfg.LookbackMonths <= 0 {
		cfg.LookbackMonths = DefaultLookbackMonths
	}
	if cfg.MaxRecommendations <= 0 {
		cfg.MaxRecommendations = DefaultMaxRecommendations
	}
	return &Analyzer{Now: time.Now, config: cfg}
}

// SpendingAnalysis aggregates debits in the lookback window. The ordered key
// slices record first-seen order, which decides ties between equal values.
type SpendingAnalysis struct {
	CategoryBreakdown map[string][]float64
	MerchantBreakdown map[string][]float64
	MonthlyTrends     map[string]float64
	FrequencyPatterns map[string]int
	Categories        []string
	Merchants         []string
	Months            []string
	TotalTransactions int
	TotalSpending     float64
	MonthlyAverage    float64
}

// MonthCount returns the number of months with debit activity, at least one.
func (s *SpendingAnalysis) MonthCount() float64 {
	return float64(max(1, len(s.Months)))
}

// Analyze builds the spending analysis for the records in the lookback window.
func (a *Analyzer) Analyze(records []Record) *SpendingAnalysis {
	now := a.now()
	cutoff := now.Add(-time.Duration(daysPerMonth*a.config.LookbackMonths) * 24 * time.Hour)

	analysis := &SpendingAnalysis{
		CategoryBreakdown: make(map[string][]float64),
		MerchantBreakdown: make(map[string][]float64),
		MonthlyTrends:     make(map[string]float64),
		FrequencyPatterns: make(map[string]int),
	}

	var recent []Record
	for _, r := range records {
		if !r.TransactionDate().Before(cutoff) {
			recent = append(recent, r)
		}
	}
	analysis.TotalTransactions = len(recent)
	if len(recent) == 0 {
		return analysis
	}

	earliest := recent[0].TransactionDate()
	for _, r := range recent {
		if r.TransactionDirection() == model.DirectionDebit {
			analysis.TotalSpending += r.TransactionAmount()
		}
		if d := r.TransactionDate(); d.Before(earliest) {
			earliest = d
		}
	}

	days := math.Floor(now.Sub(earliest).Hours() / 24)
	monthsSpan := max(1, days/daysPerMonth)
	analysis.MonthlyAverage = analysis.TotalSpending / monthsSpan

	for _, r := range recent {
		if r.TransactionDirection() != model.DirectionDebit {
			continue
		}
		amount := r.TransactionAmount()
		category := r.CategoryName()
		if category == "" {
			category = otherCategory
		}
		merchant := r.MerchantName()
		if merchant == "" {
			merchant = unknownMerchant
		}
		month := r.TransactionDate().Format("2006-01")

		if _, ok := analysis.CategoryBreakdown[category]; !ok {
			analysis.Categories = append(analysis.Categories, category)
		}
		if _, ok := analysis.MerchantBreakdown[merchant]; !ok {
			analysis.Merchants = append(analysis.Merchants, merchant)
		}
		if _, ok := analysis.MonthlyTrends[month]; !ok {
			analysis.Months = append(analysis.Months, month)
		}

		analysis.CategoryBreakdown[category] = append(analysis.CategoryBreakdown[category], amount)
		analysis.MerchantBreakdown[merchant] = append(analysis.MerchantBreakdown[merchant], amount)
		analysis.MonthlyTrends[month] += amount
		analysis.FrequencyPatterns[category]++
	}

	return analysis
}

// GenerateRecommendations runs every rule over the analysis and returns the
// highest-impact recommendations first. Equal savings keep rule order.
func (a *Analyzer) GenerateRecommendations(records []Record) []model.Recommendation {
	if len(records) == 0 {
		return []model.Recommendation{}
	}

	analysis := a.Analyze(records)

	var recs []model.Recommendation
	for _, rule := range a.rules() {
		recs = append(recs, rule(analysis)...)
	}

	slices.SortStableFunc(recs, func(x, y model.Recommendation) int {
		return cmp.Compare(y.PotentialMonthlySavings, x.PotentialMonthlySavings)
	})

	if len(recs) > a.config.MaxRecommendations {
		recs = recs[:a.config.MaxRecommendations]
	}

	slog.Debug("Generated savings recommendations",
		"records", len(records),
		"recent", analysis.TotalTransactions,
		"recommendations", len(recs))

	if recs == nil {
		return []model.Recommendation{}
	}
	return recs
}

// CalculatePotential summarizes how much the recommendations could save.
func (a *Analyzer) CalculatePotential(records []Record) model.SavingsPotential {
	analysis := a.Analyze(records)
	recs := a.GenerateRecommendations(records)

	potential := model.SavingsPotential{
		CurrentMonthlySpending: analysis.MonthlyAverage,
		RecommendationsCount:   len(recs),
	}
	for _, rec := range recs {
		potential.TotalMonthlyPotential += rec.PotentialMonthlySavings
		switch rec.Difficulty {
		case model.DifficultyEasy:
			potential.EasyWins++
		case model.DifficultyMedium:
			potential.MediumEffort++
		case model.DifficultyHard:
			potential.HardChanges++
		}
	}
	if analysis.MonthlyAverage > 0 {
		potential.PotentialSavingsRate = potential.TotalMonthlyPotential / analysis.MonthlyAverage * 100
	}

	return potential
}

func (a *Analyzer) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sum(values) / float64(len(values))
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

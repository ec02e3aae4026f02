package savings

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/the-spice-must-parse/internal/model"
)

type rule func(*SpendingAnalysis) []model.Recommendation

type categoryPotential struct {
	difficulty model.Difficulty
	rate       float64
}

var categoryPotentials = map[string]categoryPotential{
	"dining":         {rate: 0.3, difficulty: model.DifficultyEasy},
	"entertainment":  {rate: 0.25, difficulty: model.DifficultyEasy},
	"shopping":       {rate: 0.2, difficulty: model.DifficultyMedium},
	"groceries":      {rate: 0.15, difficulty: model.DifficultyMedium},
	"transportation": {rate: 0.1, difficulty: model.DifficultyHard},
	"utilities":      {rate: 0.05, difficulty: model.DifficultyHard},
}

var defaultCategoryPotential = categoryPotential{rate: 0.1, difficulty: model.DifficultyMedium}

var (
	subscriptionKeywords    = []string{"netflix", "spotify", "amazon", "subscription", "monthly"}
	entertainmentServices   = []string{"netflix", "spotify", "prime"}
	discretionaryCategories = []string{"dining", "entertainment", "shopping"}
)

const (
	minRecurringCount        = 3
	maxRecurringAmounts      = 2
	cheapSubscription        = 50.0
	subscriptionSavingsRate  = 0.5
	frequencyReductionRate   = 0.2
	minSeasonalMonths        = 3
	seasonalPeakFactor       = 1.3
	seasonalSavingsRate      = 0.3
	merchantShareOfMonthly   = 0.1
	merchantAlternativeRate  = 0.15
	emergencyFundMonths      = 6
	emergencyFundBuildMonths = 12
	investmentRate           = 0.2
)

func (a *Analyzer) rules() []rule {
	return []rule{
		a.subscriptionOptimization,
		a.categoryBudgetLimits,
		a.highFrequencyReduction,
		a.seasonalAdjustment,
		a.merchantAlternatives,
		generalTips,
	}
}

func (a *Analyzer) subscriptionOptimization(s *SpendingAnalysis) []model.Recommendation {
	var recs []model.Recommendation
	for _, merchant := range s.Merchants {
		amounts := s.MerchantBreakdown[merchant]
		if len(amounts) < minRecurringCount || distinct(amounts) > maxRecurringAmounts {
			continue
		}

		monthlyCost := mean(amounts)
		lower := strings.ToLower(merchant)
		if !containsAny(lower, subscriptionKeywords) && monthlyCost >= cheapSubscription {
			continue
		}

		potential := monthlyCost * subscriptionSavingsRate
		if potential < a.config.MinImpact {
			continue
		}

		category := "other"
		if containsAny(lower, entertainmentServices) {
			category = "entertainment"
		}

		recs = append(recs, model.Recommendation{
			Type:                    model.RecommendationSubscription,
			Title:                   fmt.Sprintf("Review %s Subscription", merchant),
			Description:             fmt.Sprintf("You spend ₹%.0f/month on %s. Consider if you actively use this service.", monthlyCost, merchant),
			PotentialMonthlySavings: potential,
			Difficulty:              model.DifficultyEasy,
			Category:                category,
			ActionItems: []string{
				fmt.Sprintf("Review your %s usage in the last month", merchant),
				"Consider downgrading to a cheaper plan",
				"Look for annual plans with discounts",
				"Cancel if not actively using",
			},
		})
	}
	return recs
}

func (a *Analyzer) categoryBudgetLimits(s *SpendingAnalysis) []model.Recommendation {
	var recs []model.Recommendation
	for _, category := range s.Categories {
		amounts := s.CategoryBreakdown[category]
		if len(amounts) == 0 {
			continue
		}

		monthly := sum(amounts) / s.MonthCount()
		lower := strings.ToLower(category)
		info, ok := categoryPotentials[lower]
		if !ok {
			info = defaultCategoryPotential
		}

		potential := monthly * info.rate
		if potential < a.config.MinImpact {
			continue
		}

		budget := monthly * (1 - info.rate)
		recs = append(recs, model.Recommendation{
			Type:                    model.RecommendationBudgetLimit,
			Title:                   fmt.Sprintf("Set Budget for %s", category),
			Description:             fmt.Sprintf("You spend ₹%.0f/month on %s. Setting a budget could help reduce spending.", monthly, category),
			PotentialMonthlySavings: potential,
			Difficulty:              info.difficulty,
			Category:                lower,
			ActionItems: []string{
				fmt.Sprintf("Set a monthly budget of ₹%.0f for %s", budget, category),
				"Track your spending weekly",
				fmt.Sprintf("Find alternatives to reduce %s costs", category),
				"Use apps to compare prices",
			},
			Details: map[string]any{
				"current_spending":   monthly,
				"recommended_budget": budget,
			},
		})
	}
	return recs
}

func (a *Analyzer) highFrequencyReduction(s *SpendingAnalysis) []model.Recommendation {
	var recs []model.Recommendation
	for _, category := range s.Categories {
		monthlyFrequency := float64(s.FrequencyPatterns[category]) / s.MonthCount()
		if monthlyFrequency < a.config.HighFrequencyThreshold {
			continue
		}

		lower := strings.ToLower(category)
		if !slices.Contains(discretionaryCategories, lower) {
			continue
		}

		potential := mean(s.CategoryBreakdown[category]) * monthlyFrequency * frequencyReductionRate
		if potential < a.config.MinImpact {
			continue
		}

		recs = append(recs, model.Recommendation{
			Type:                    model.RecommendationFrequencyReduction,
			Title:                   fmt.Sprintf("Reduce %s Frequency", category),
			Description:             fmt.Sprintf("You make %.0f %s transactions per month. Reducing frequency could save money.", monthlyFrequency, category),
			PotentialMonthlySavings: potential,
			Difficulty:              model.DifficultyMedium,
			Category:                lower,
			ActionItems: []string{
				fmt.Sprintf("Plan %s purchases in advance", category),
				"Set weekly limits for impulse purchases",
				"Use a shopping list to avoid unnecessary items",
				"Find free alternatives for entertainment",
			},
			Details: map[string]any{
				"current_frequency":     monthlyFrequency,
				"recommended_frequency": monthlyFrequency * (1 - frequencyReductionRate),
			},
		})
	}
	return recs
}

func (a *Analyzer) seasonalAdjustment(s *SpendingAnalysis) []model.Recommendation {
	if len(s.Months) < minSeasonalMonths {
		return nil
	}

	months := slices.Clone(s.Months)
	slices.SortStableFunc(months, func(x, y string) int {
		return cmp.Compare(s.MonthlyTrends[y], s.MonthlyTrends[x])
	})
	peakMonth := months[0]
	peak := s.MonthlyTrends[peakMonth]

	var total float64
	for _, m := range s.Months {
		total += s.MonthlyTrends[m]
	}
	average := total / float64(len(s.Months))

	if peak <= average*seasonalPeakFactor {
		return nil
	}

	potential := (peak - average) * seasonalSavingsRate
	if potential < a.config.MinImpact {
		return nil
	}

	return []model.Recommendation{{
		Type:                    model.RecommendationSeasonalAdjustment,
		Title:                   "Plan for High-Spending Months",
		Description:             fmt.Sprintf("Your spending in %s was ₹%.0f, significantly higher than your average.", peakMonth, peak),
		PotentialMonthlySavings: potential / float64(len(s.Months)),
		Difficulty:              model.DifficultyMedium,
		Category:                "planning",
		ActionItems: []string{
			"Create a separate fund for high-spending months",
			"Plan major purchases in advance",
			"Look for seasonal discounts and sales",
			"Set spending alerts during peak months",
		},
		Details: map[string]any{
			"peak_month":     peakMonth,
			"peak_amount":    peak,
			"average_amount": average,
		},
	}}
}

func (a *Analyzer) merchantAlternatives(s *SpendingAnalysis) []model.Recommendation {
	var recs []model.Recommendation
	for _, merchant := range s.Merchants {
		amounts := s.MerchantBreakdown[merchant]
		total := sum(amounts)
		if total <= s.MonthlyAverage*merchantShareOfMonthly {
			continue
		}

		monthly := total / s.MonthCount()
		if monthly < a.config.MinImpact {
			continue
		}

		recs = append(recs, model.Recommendation{
			Type:                    model.RecommendationMerchantAlternative,
			Title:                   fmt.Sprintf("Find Alternatives to %s", merchant),
			Description:             fmt.Sprintf("You spend ₹%.0f/month at %s. Exploring alternatives might save money.", monthly, merchant),
			PotentialMonthlySavings: monthly * merchantAlternativeRate,
			Difficulty:              model.DifficultyMedium,
			Category:                "shopping",
			ActionItems: []string{
				fmt.Sprintf("Research alternatives to %s", merchant),
				"Compare prices for similar products/services",
				"Look for discount codes and cashback offers",
				"Consider bulk purchases for better rates",
			},
			Details: map[string]any{
				"merchant":              merchant,
				"current_spending":      monthly,
				"transaction_frequency": len(amounts),
			},
		})
	}
	return recs
}

// generalTips are savings goals rather than reductions, so they carry no savings amount.
func generalTips(s *SpendingAnalysis) []model.Recommendation {
	monthly := s.MonthlyAverage
	if monthly <= 0 {
		return nil
	}

	target := monthly * emergencyFundMonths
	contribution := target / emergencyFundBuildMonths
	invest := monthly * investmentRate

	return []model.Recommendation{
		{
			Type:        model.RecommendationEmergencyFund,
			Title:       "Build Emergency Fund",
			Description: fmt.Sprintf("Aim to save ₹%.0f (6 months of expenses) for emergencies.", target),
			Difficulty:  model.DifficultyMedium,
			Category:    "planning",
			ActionItems: []string{
				fmt.Sprintf("Save ₹%.0f monthly in a separate account", contribution),
				"Automate transfers to emergency fund",
				"Use high-yield savings account",
				"Avoid using emergency fund for non-emergencies",
			},
			Details: map[string]any{
				"target_amount":        target,
				"monthly_contribution": contribution,
			},
		},
		{
			Type:        model.RecommendationInvestment,
			Title:       "Start Investment Plan",
			Description: fmt.Sprintf("Consider investing ₹%.0f/month for long-term wealth building.", invest),
			Difficulty:  model.DifficultyMedium,
			Category:    "investment",
			ActionItems: []string{
				"Research low-cost index funds",
				"Set up automatic investment transfers",
				"Diversify across different asset classes",
				"Review and rebalance quarterly",
			},
			Details: map[string]any{
				"recommended_amount": invest,
			},
		},
	}
}

func distinct(values []float64) int {
	seen := make(map[float64]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

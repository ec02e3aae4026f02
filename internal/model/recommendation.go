package model

// RecommendationType identifies the rule that produced a recommendation.
type RecommendationType string

// Recommendation type constants.
const (
	RecommendationSubscription        RecommendationType = "subscription_optimization"
	RecommendationBudgetLimit         RecommendationType = "budget_limit"
	RecommendationFrequencyReduction  RecommendationType = "frequency_reduction"
	RecommendationSeasonalAdjustment  RecommendationType = "seasonal_adjustment"
	RecommendationMerchantAlternative RecommendationType = "merchant_alternative"
	RecommendationEmergencyFund       RecommendationType = "emergency_fund"
	RecommendationInvestment          RecommendationType = "investment"
)

// Difficulty describes how hard a recommendation is to act on.
type Difficulty string

// Difficulty constants.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Recommendation is a single ranked savings suggestion.
type Recommendation struct {
	Details                 map[string]any     `json:"details,omitempty"`
	Type                    RecommendationType `json:"type"`
	Title                   string             `json:"title"`
	Description             string             `json:"description"`
	Difficulty              Difficulty         `json:"difficulty"`
	Category                string             `json:"category"`
	ActionItems             []string           `json:"action_items"`
	PotentialMonthlySavings float64            `json:"potential_monthly_savings"`
}

// SavingsPotential summarizes the recommendations produced for a set of transactions.
type SavingsPotential struct {
	TotalMonthlyPotential  float64 `json:"total_monthly_potential"`
	CurrentMonthlySpending float64 `json:"current_monthly_spending"`
	PotentialSavingsRate   float64 `json:"potential_savings_rate"`
	RecommendationsCount   int     `json:"recommendations_count"`
	EasyWins               int     `json:"easy_wins"`
	MediumEffort           int     `json:"medium_effort"`
	HardChanges            int     `json:"hard_changes"`
}

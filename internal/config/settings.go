package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/the-spice-must-parse/internal/common"
	"github.com/Veraticus/the-spice-must-parse/internal/extraction"
	"github.com/Veraticus/the-spice-must-parse/internal/savings"
)

// DefaultDatabasePath is where candidates are stored unless configured otherwise.
const DefaultDatabasePath = "~/.local/share/spice/spice.db"

// Settings is the resolved application configuration.
type Settings struct {
	LogLevel     string
	LogFormat    string
	DatabasePath string
	Extraction   ExtractionSettings
	Savings      SavingsSettings
}

// ExtractionSettings tunes the extraction engine.
type ExtractionSettings struct {
	MinConfidence float64
	Workers       int
}

// SavingsSettings tunes the savings analyzer.
type SavingsSettings struct {
	MinImpact              float64
	HighFrequencyThreshold float64
	LookbackMonths         int
	MaxRecommendations     int
}

// SetDefaults registers the default value of every key Load reads.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("extraction.min_confidence", extraction.DefaultMinConfidence)
	v.SetDefault("extraction.workers", extraction.DefaultWorkers)
	v.SetDefault("savings.min_impact", savings.DefaultMinImpact)
	v.SetDefault("savings.lookback_months", savings.DefaultLookbackMonths)
	v.SetDefault("savings.high_frequency_threshold", savings.DefaultHighFrequencyThreshold)
	v.SetDefault("savings.max_recommendations", savings.DefaultMaxRecommendations)
}

// Load reads Settings from v, falling back to the defaults for unset keys.
// Paths have ~ and environment variables expanded.
func Load(v *viper.Viper) (*Settings, error) {
	SetDefaults(v)

	settings := &Settings{
		LogLevel:     v.GetString("logging.level"),
		LogFormat:    v.GetString("logging.format"),
		DatabasePath: ExpandPath(v.GetString("database.path")),
		Extraction: ExtractionSettings{
			MinConfidence: v.GetFloat64("extraction.min_confidence"),
			Workers:       v.GetInt("extraction.workers"),
		},
		Savings: SavingsSettings{
			MinImpact:              v.GetFloat64("savings.min_impact"),
			HighFrequencyThreshold: v.GetFloat64("savings.high_frequency_threshold"),
			LookbackMonths:         v.GetInt("savings.lookback_months"),
			MaxRecommendations:     v.GetInt("savings.max_recommendations"),
		},
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate rejects thresholds the engine or analyzer cannot work with.
func (s *Settings) Validate() error {
	switch {
	case s.DatabasePath == "":
		return fmt.Errorf("%w: database.path is required", common.ErrInvalidConfig)
	case s.Extraction.MinConfidence < extraction.DefaultMinConfidence || s.Extraction.MinConfidence > 1:
		return fmt.Errorf("%w: extraction.min_confidence must be in [%v, 1], got %v",
			common.ErrInvalidConfig, extraction.DefaultMinConfidence, s.Extraction.MinConfidence)
	case s.Extraction.Workers < 1:
		return fmt.Errorf("%w: extraction.workers must be positive, got %d",
			common.ErrInvalidConfig, s.Extraction.Workers)
	case s.Savings.MinImpact < 0:
		return fmt.Errorf("%w: savings.min_impact cannot be negative", common.ErrInvalidConfig)
	case s.Savings.HighFrequencyThreshold <= 0:
		return fmt.Errorf("%w: savings.high_frequency_threshold must be positive", common.ErrInvalidConfig)
	case s.Savings.LookbackMonths < 1:
		return fmt.Errorf("%w: savings.lookback_months must be at least 1", common.ErrInvalidConfig)
	case s.Savings.MaxRecommendations < 1:
		return fmt.Errorf("%w: savings.max_recommendations must be at least 1", common.ErrInvalidConfig)
	}
	return nil
}

// ExtractionConfig returns the engine configuration for these settings.
// Callers add the clock and observer.
func (s *Settings) ExtractionConfig() extraction.Config {
	return extraction.Config{
		Location:      time.UTC,
		MinConfidence: s.Extraction.MinConfidence,
		Workers:       s.Extraction.Workers,
	}
}

// SavingsConfig returns the analyzer configuration for these settings.
func (s *Settings) SavingsConfig() savings.Config {
	return savings.Config{
		MinImpact:              s.Savings.MinImpact,
		HighFrequencyThreshold: s.Savings.HighFrequencyThreshold,
		LookbackMonths:         s.Savings.LookbackMonths,
		MaxRecommendations:     s.Savings.MaxRecommendations,
	}
}

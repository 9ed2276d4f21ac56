package rating

import (
	"fmt"

	"github.com/yourusername/ski-ratings/internal/config"
)

// Config holds the constants of one rating run.
type Config struct {
	Baseline       float64
	Logistic       Logistic
	SeasonDiscount float64
	KMin           float64
	KMax           float64
	KFallback      float64
}

// DefaultConfig returns the conventional constants.
func DefaultConfig() Config {
	return Config{
		Baseline:       1300,
		Logistic:       DefaultLogistic,
		SeasonDiscount: 0.85,
		KMin:           1,
		KMax:           5,
		KFallback:      5,
	}
}

// FromConfig converts app config to rating config
func FromConfig(cfg *config.RatingConfig) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("rating config is required")
	}
	rc := Config{
		Baseline:       cfg.Baseline,
		Logistic:       Logistic{Base: cfg.LogisticBase, Spread: cfg.Spread},
		SeasonDiscount: cfg.SeasonDiscount,
		KMin:           cfg.KMin,
		KMax:           cfg.KMax,
		KFallback:      cfg.KFallback,
	}
	return rc, rc.Validate()
}

// Validate validates rating config parameters
func (c Config) Validate() error {
	if c.Logistic.Base <= 1 {
		return fmt.Errorf("logistic base must be greater than 1")
	}
	if c.Logistic.Spread <= 0 {
		return fmt.Errorf("spread must be positive")
	}
	if c.SeasonDiscount <= 0 || c.SeasonDiscount > 1 {
		return fmt.Errorf("season discount must be in (0, 1]")
	}
	if c.KMin <= 0 {
		return fmt.Errorf("k_min must be positive")
	}
	if c.KMin > c.KMax {
		return fmt.Errorf("k_min cannot exceed k_max")
	}
	if c.KFallback <= 0 {
		return fmt.Errorf("k_fallback must be positive")
	}
	return nil
}

package config

import (
	"os"
	"strconv"

	"datalens/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Analysis AnalysisConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// AnalysisConfig holds every threshold the analysis engine recognizes.
// One value object is threaded into all components; no process-wide
// mutable defaults.
type AnalysisConfig struct {
	// Correlation
	CorrelationStrongThreshold float64 `json:"correlation_strong_threshold"`
	CorrelationMinRows         int     `json:"correlation_min_rows"`

	// Outliers
	OutlierIQRMultiplier float64 `json:"outlier_iqr_multiplier"`

	// Type inference
	CategoricalDistinctCap   int     `json:"categorical_distinct_cap"`
	CategoricalDistinctRatio float64 `json:"categorical_distinct_ratio"`

	// Pattern discovery
	ClusterCountMax int   `json:"cluster_count_max"`
	PatternMinRows  int   `json:"pattern_min_rows"`
	ClusterSeed     int64 `json:"cluster_seed"`

	// Insight synthesis
	CompletenessFloor    float64 `json:"completeness_floor"`
	SkewFloor            float64 `json:"skew_floor"`
	OutlierRatioFloor    float64 `json:"outlier_ratio_floor"`
	PatternVarianceFloor float64 `json:"pattern_variance_floor"`
}

// DefaultAnalysisConfig returns the stated defaults for every option.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		CorrelationStrongThreshold: 0.7,
		CorrelationMinRows:         3,
		OutlierIQRMultiplier:       1.5,
		CategoricalDistinctCap:     50,
		CategoricalDistinctRatio:   0.5,
		ClusterCountMax:            5,
		PatternMinRows:             3,
		ClusterSeed:                42,
		CompletenessFloor:          0.9,
		SkewFloor:                  1.0,
		OutlierRatioFloor:          0.05,
		PatternVarianceFloor:       0.5,
	}
}

// Validate checks every option against its valid range.
func (c AnalysisConfig) Validate() error {
	ratioChecks := []struct {
		name  string
		value float64
	}{
		{"correlation_strong_threshold", c.CorrelationStrongThreshold},
		{"categorical_distinct_ratio", c.CategoricalDistinctRatio},
		{"completeness_floor", c.CompletenessFloor},
		{"outlier_ratio_floor", c.OutlierRatioFloor},
		{"pattern_variance_floor", c.PatternVarianceFloor},
	}
	for _, check := range ratioChecks {
		if check.value < 0 || check.value > 1 {
			return errors.ConfigInvalid(check.name + " must be in [0,1]")
		}
	}
	if c.OutlierIQRMultiplier < 0 {
		return errors.ConfigInvalid("outlier_iqr_multiplier must be non-negative")
	}
	if c.SkewFloor < 0 {
		return errors.ConfigInvalid("skew_floor must be non-negative")
	}
	if c.CategoricalDistinctCap < 0 {
		return errors.ConfigInvalid("categorical_distinct_cap must be non-negative")
	}
	if c.ClusterCountMax < 1 {
		return errors.ConfigInvalid("cluster_count_max must be at least 1")
	}
	if c.PatternMinRows < 1 {
		return errors.ConfigInvalid("pattern_min_rows must be at least 1")
	}
	if c.CorrelationMinRows < 2 {
		return errors.ConfigInvalid("correlation_min_rows must be at least 2")
	}
	return nil
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	analysis := AnalysisConfig{
		CorrelationStrongThreshold: getEnvFloatOrDefault("CORRELATION_STRONG_THRESHOLD", 0.7),
		CorrelationMinRows:         getEnvIntOrDefault("CORRELATION_MIN_ROWS", 3),
		OutlierIQRMultiplier:       getEnvFloatOrDefault("OUTLIER_IQR_MULTIPLIER", 1.5),
		CategoricalDistinctCap:     getEnvIntOrDefault("CATEGORICAL_DISTINCT_CAP", 50),
		CategoricalDistinctRatio:   getEnvFloatOrDefault("CATEGORICAL_DISTINCT_RATIO", 0.5),
		ClusterCountMax:            getEnvIntOrDefault("CLUSTER_COUNT_MAX", 5),
		PatternMinRows:             getEnvIntOrDefault("PATTERN_MIN_ROWS", 3),
		ClusterSeed:                int64(getEnvIntOrDefault("CLUSTER_SEED", 42)),
		CompletenessFloor:          getEnvFloatOrDefault("COMPLETENESS_FLOOR", 0.9),
		SkewFloor:                  getEnvFloatOrDefault("SKEW_FLOOR", 1.0),
		OutlierRatioFloor:          getEnvFloatOrDefault("OUTLIER_RATIO_FLOOR", 0.05),
		PatternVarianceFloor:       getEnvFloatOrDefault("PATTERN_VARIANCE_FLOOR", 0.5),
	}

	if err := analysis.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Analysis: analysis,
	}, nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

package config

import (
	"os"
	"strconv"

	"toothlab/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Report      ReportConfig
	Data        DataConfig
	CodeVersion string
}

// ReportConfig holds report output settings
type ReportConfig struct {
	OutputDir     string
	EmitHTML      bool
	DecimalPlaces int
}

// DataConfig holds dataset source settings
type DataConfig struct {
	// DatasetPath points at a CSV or Excel file; empty means the embedded dataset
	DatasetPath string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Report:      loadReportConfig(),
		Data:        loadDataConfig(),
		CodeVersion: getEnvOrDefault("TOOTHLAB_CODE_VERSION", "dev"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadReportConfig() ReportConfig {
	return ReportConfig{
		OutputDir:     getEnvOrDefault("TOOTHLAB_OUTPUT_DIR", "./out"),
		EmitHTML:      getEnvBoolOrDefault("TOOTHLAB_REPORT_HTML", false),
		DecimalPlaces: getEnvIntOrDefault("TOOTHLAB_DECIMAL_PLACES", 4),
	}
}

func loadDataConfig() DataConfig {
	return DataConfig{
		DatasetPath: getEnvOrDefault("TOOTHLAB_DATASET_PATH", ""),
	}
}

func validateConfig(config *Config) error {
	if config.Report.OutputDir == "" {
		return errors.ConfigInvalid("output directory is required")
	}
	if config.Report.DecimalPlaces < 1 || config.Report.DecimalPlaces > 12 {
		return errors.ConfigInvalid("decimal places must be between 1 and 12")
	}
	if config.CodeVersion == "" {
		return errors.ConfigInvalid("code version is required")
	}
	return nil
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

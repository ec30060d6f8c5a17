// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like VALUATION_API_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, ignored if not found
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig()

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile tries .env from the working directory upwards so workers and
// tests started from nested directories pick up the same file.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders left in string config values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// overrideEmptyConfig applies direct env overrides if config values are still empty.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Valuation.APIKey == "" {
		if val := os.Getenv("VALUATION_API_KEY"); val != "" {
			cfg.Valuation.APIKey = val
		}
	}
	if cfg.Valuation.BaseURL == "" {
		if val := os.Getenv("VALUATION_ENDPOINT"); val != "" {
			cfg.Valuation.BaseURL = val
		}
	}
	if len(cfg.Valuation.AgentIDs) == 0 {
		if val := os.Getenv("PROPERTY_AGENT_ID"); val != "" {
			cfg.Valuation.AgentIDs = []string{val}
		}
	}
	if cfg.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Redis.Password = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	// Camunda defaults
	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	// Underwriting thresholds
	if cfg.Decision.MinimumCreditScore == 0 {
		cfg.Decision.MinimumCreditScore = 580
	}
	if cfg.Decision.ExcellentCreditThreshold == 0 {
		cfg.Decision.ExcellentCreditThreshold = 750
	}
	if cfg.Decision.MaxDebtToIncomeRatio == 0 {
		cfg.Decision.MaxDebtToIncomeRatio = 0.43
	}
	if cfg.Decision.MaxPaymentToIncomeRatio == 0 {
		cfg.Decision.MaxPaymentToIncomeRatio = 0.28
	}
	if cfg.Decision.MaxLoanToValueRatio == 0 {
		cfg.Decision.MaxLoanToValueRatio = 0.95
	}
	if cfg.Decision.PMIThreshold == 0 {
		cfg.Decision.PMIThreshold = 0.80
	}
	if cfg.Decision.Strategy == "" {
		cfg.Decision.Strategy = "sequential"
	}

	// Valuation defaults
	if cfg.Valuation.Mode == "" {
		cfg.Valuation.Mode = "mock"
	}
	if cfg.Valuation.MinConfidence == "" {
		cfg.Valuation.MinConfidence = "MEDIUM"
	}
	if cfg.Valuation.Timeout == 0 {
		cfg.Valuation.Timeout = 30000
	}
	if cfg.Valuation.CacheTTL == 0 {
		cfg.Valuation.CacheTTL = 600
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = ":8080"
	}

	// Worker defaults
	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	switch cfg.Valuation.Mode {
	case "mock", "live":
	default:
		return fmt.Errorf("valuation.mode must be 'mock' or 'live', got %q", cfg.Valuation.Mode)
	}

	if cfg.Valuation.Mode == "live" {
		if cfg.Valuation.BaseURL == "" {
			return fmt.Errorf("valuation.base_url is required in live mode")
		}
		if len(cfg.Valuation.AgentIDs) == 0 {
			return fmt.Errorf("valuation.agent_ids is required in live mode")
		}
	}

	switch cfg.Valuation.MinConfidence {
	case "LOW", "MEDIUM", "HIGH":
	default:
		return fmt.Errorf("valuation.min_confidence must be LOW, MEDIUM or HIGH, got %q", cfg.Valuation.MinConfidence)
	}

	switch cfg.Decision.Strategy {
	case "sequential", "conditional":
	default:
		return fmt.Errorf("decision.strategy must be 'sequential' or 'conditional', got %q", cfg.Decision.Strategy)
	}

	if cfg.Decision.PMIThreshold <= 0 || cfg.Decision.PMIThreshold > 1 {
		return fmt.Errorf("decision.pmi_threshold must be in (0,1], got %v", cfg.Decision.PMIThreshold)
	}
	if cfg.Decision.MaxLoanToValueRatio < cfg.Decision.PMIThreshold {
		return fmt.Errorf("decision.max_loan_to_value_ratio must not be below decision.pmi_threshold")
	}

	return nil
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}

	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    3,
	}
}

// IsWorkerEnabled checks if a specific worker is enabled
func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}

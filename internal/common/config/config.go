// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig               `mapstructure:"app"`
	Camunda   CamundaConfig           `mapstructure:"camunda"`
	Redis     RedisConfig             `mapstructure:"redis"`
	Workers   map[string]WorkerConfig `mapstructure:"workers"`
	Decision  DecisionConfig          `mapstructure:"decision"`
	Valuation ValuationConfig         `mapstructure:"valuation"`
	Logging   LoggingConfig           `mapstructure:"logging"`
	Metrics   MetricsConfig           `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// DecisionConfig holds the underwriting thresholds used by the pipeline stages.
type DecisionConfig struct {
	MinimumCreditScore       int     `mapstructure:"minimum_credit_score"`
	ExcellentCreditThreshold int     `mapstructure:"excellent_credit_threshold"`
	MaxDebtToIncomeRatio     float64 `mapstructure:"max_debt_to_income_ratio"`
	MaxPaymentToIncomeRatio  float64 `mapstructure:"max_payment_to_income_ratio"`
	MaxLoanToValueRatio      float64 `mapstructure:"max_loan_to_value_ratio"`
	PMIThreshold             float64 `mapstructure:"pmi_threshold"`
	Strategy                 string  `mapstructure:"strategy"` // sequential | conditional
}

// ValuationConfig holds settings for the property valuation client.
type ValuationConfig struct {
	Enabled       bool     `mapstructure:"enabled"`
	Required      bool     `mapstructure:"required"`
	MinConfidence string   `mapstructure:"min_confidence"` // LOW | MEDIUM | HIGH
	Mode          string   `mapstructure:"mode"`           // mock | live
	BaseURL       string   `mapstructure:"base_url"`
	APIKey        string   `mapstructure:"api_key"`
	AgentIDs      []string `mapstructure:"agent_ids"`
	Timeout       int      `mapstructure:"timeout"` // milliseconds
	CacheEnabled  bool     `mapstructure:"cache_enabled"`
	CacheTTL      int      `mapstructure:"cache_ttl"` // seconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig holds settings for the health/metrics HTTP endpoint.
type MetricsConfig struct {
	Address string `mapstructure:"address"`
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

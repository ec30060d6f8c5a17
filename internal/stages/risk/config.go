// internal/stages/risk/config.go
package risk

// Config holds the stage thresholds; zero values fall back to the
// standard underwriting guidelines.
type Config struct {
	MaxDebtToIncomeRatio float64
	PMIThreshold         float64
}

func LoadConfig() *Config {
	return &Config{
		MaxDebtToIncomeRatio: 0.43,
		PMIThreshold:         0.80,
	}
}

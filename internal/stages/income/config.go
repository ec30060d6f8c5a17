// internal/stages/income/config.go
package income

// Config holds the stage threshold; zero value falls back to the
// standard 28% guideline.
type Config struct {
	MaxPaymentToIncomeRatio float64
}

func LoadConfig() *Config {
	return &Config{
		MaxPaymentToIncomeRatio: 0.28,
	}
}

// internal/stages/credit/config.go
package credit

// No stage-specific settings; struct provided for consistency.
type Config struct{}

func LoadConfig() *Config {
	return &Config{}
}

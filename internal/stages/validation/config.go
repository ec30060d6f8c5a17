// internal/stages/validation/config.go
package validation

// No stage-specific settings; struct provided for consistency with the
// other stage handlers.
type Config struct{}

func LoadConfig() *Config {
	return &Config{}
}

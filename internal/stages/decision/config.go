// internal/stages/decision/config.go
package decision

// Config is reserved for future decision tuning; the precedence rules
// themselves are fixed policy.
type Config struct{}

func LoadConfig() *Config {
	return &Config{}
}

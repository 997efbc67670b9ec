package app

// Config holds the application bootstrap settings derived from CLI flags.
type Config struct {
	// Debug enables verbose logging.
	Debug bool

	// JSONLog switches log output to structured JSON lines.
	JSONLog bool

	// Silent suppresses log output entirely. Table and JSON results are
	// still printed by the commands themselves.
	Silent bool

	// ConfigPath overrides the configuration directory. Empty selects the
	// per-user default.
	ConfigPath string
}

// NewConfig creates a bootstrap configuration.
func NewConfig(debug, jsonLog, silent bool, configPath string) *Config {
	return &Config{
		Debug:      debug,
		JSONLog:    jsonLog,
		Silent:     silent,
		ConfigPath: configPath,
	}
}

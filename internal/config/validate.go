package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. API keys are checked lazily
// by RequireCredentials so read-only commands work without them.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if c.Scan.MaxOptions > 50 {
		return errors.New("scan.max_options must be 50 or fewer")
	}
	return nil
}

// RequireCredentials verifies the external service keys needed for a
// resolution run are present.
func (c *Config) RequireCredentials() error {
	if c.TMDB.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/screener/config.toml"
		}
		return fmt.Errorf("tmdb.api_key is required. Set TMDB_API_KEY env var or edit %s (create with 'screener config init')", defaultPath)
	}
	if c.Gemini.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/screener/config.toml"
		}
		return fmt.Errorf("gemini.api_key is required. Set GEMINI_API_KEY env var or edit %s (create with 'screener config init')", defaultPath)
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}

	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	if c.TMDB.APIKey == "" {
		c.TMDB.APIKey = strings.TrimSpace(os.Getenv("TMDB_API_KEY"))
	}
	c.TMDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.TMDB.BaseURL), "/")
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)

	c.Gemini.APIKey = strings.TrimSpace(c.Gemini.APIKey)
	if c.Gemini.APIKey == "" {
		c.Gemini.APIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	}
	c.Gemini.BaseURL = strings.TrimRight(strings.TrimSpace(c.Gemini.BaseURL), "/")
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = defaultGeminiBaseURL
	}
	c.Gemini.Model = strings.TrimSpace(c.Gemini.Model)
	if c.Gemini.Model == "" {
		c.Gemini.Model = defaultGeminiModel
	}
	if c.Gemini.TimeoutSeconds <= 0 {
		c.Gemini.TimeoutSeconds = defaultGeminiTimeoutSecs
	}

	c.Scan.Theme = strings.TrimSpace(c.Scan.Theme)
	if c.Scan.Theme == "" {
		c.Scan.Theme = defaultTheme
	}
	c.Scan.SanitizedTheme = strings.TrimSpace(c.Scan.SanitizedTheme)
	if c.Scan.SanitizedTheme == "" {
		c.Scan.SanitizedTheme = defaultSanitizedTheme
	}
	if len(c.Scan.SanitizeTerms) == 0 {
		c.Scan.SanitizeTerms = defaultSanitizeTerms()
	}
	if c.Scan.MaxOptions <= 0 {
		c.Scan.MaxOptions = defaultMaxOptions
	}
	if c.Scan.RetryAttempts <= 0 {
		c.Scan.RetryAttempts = defaultRetryAttempts
	}
	if c.Scan.RetryBaseMS <= 0 {
		c.Scan.RetryBaseMS = defaultRetryBaseMS
	}

	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

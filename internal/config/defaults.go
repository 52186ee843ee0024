package config

const (
	defaultDataDir           = "~/.local/share/screener"
	defaultLogDir            = "~/.local/share/screener/logs"
	defaultTMDBBaseURL       = "https://api.themoviedb.org/3"
	defaultTMDBLanguage      = "en-US"
	defaultGeminiBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel       = "gemini-2.5-flash"
	defaultGeminiTimeoutSecs = 45
	defaultTheme             = "Explicit Mature Thematic Content"
	defaultSanitizedTheme    = "Intense Character Dynamics and Subtext"
	defaultMaxOptions        = 15
	defaultRetryAttempts     = 3
	defaultRetryBaseMS       = 500
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

func defaultSanitizeTerms() map[string]string {
	return map[string]string{
		"explicit": "notable",
		"graphic":  "detailed",
		"sexual":   "social",
		"violence": "conflict",
		"romance":  "relationship",
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		TMDB: TMDB{
			BaseURL:  defaultTMDBBaseURL,
			Language: defaultTMDBLanguage,
		},
		Gemini: Gemini{
			BaseURL:        defaultGeminiBaseURL,
			Model:          defaultGeminiModel,
			TimeoutSeconds: defaultGeminiTimeoutSecs,
		},
		Scan: Scan{
			Theme:          defaultTheme,
			SanitizedTheme: defaultSanitizedTheme,
			SanitizeTerms:  defaultSanitizeTerms(),
			MaxOptions:     defaultMaxOptions,
			RetryAttempts:  defaultRetryAttempts,
			RetryBaseMS:    defaultRetryBaseMS,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

package main

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"screener/internal/classify"
	"screener/internal/config"
	"screener/internal/logging"
	"screener/internal/reconcile"
	"screener/internal/reconcile/tmdb"
	"screener/internal/resolver"
	"screener/internal/services/gemini"
	"screener/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

type pipeline struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	resolver *resolver.Resolver
}

// withPipeline wires the full resolution stack for one command invocation
// and tears the store down afterwards.
func (c *commandContext) withPipeline(fn func(*pipeline) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireCredentials(); err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	oracle := gemini.NewClient(gemini.Config{
		APIKey:         cfg.Gemini.APIKey,
		BaseURL:        cfg.Gemini.BaseURL,
		Model:          cfg.Gemini.Model,
		TimeoutSeconds: cfg.Gemini.TimeoutSeconds,
	},
		gemini.WithRetryMaxAttempts(cfg.Scan.RetryAttempts),
		gemini.WithRetryBackoff(time.Duration(cfg.Scan.RetryBaseMS)*time.Millisecond, 10*time.Second),
	)

	searcher, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language)
	if err != nil {
		return err
	}

	classifier := classify.New(oracle, classify.Settings{
		Theme:          cfg.Scan.Theme,
		SanitizedTheme: cfg.Scan.SanitizedTheme,
		SanitizeTerms:  cfg.Scan.SanitizeTerms,
		MaxOptions:     cfg.Scan.MaxOptions,
	}, logger)

	reconciler := reconcile.New(searcher, logger)
	links := resolver.NewOracleLinkResolver(oracle, logger)

	return fn(&pipeline{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		resolver: resolver.New(st, classifier, reconciler, links, logger),
	})
}

// withStore opens only the cache database, for commands that never talk
// to the network.
func (c *commandContext) withStore(fn func(*store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	return fn(st)
}

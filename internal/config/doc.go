// Package config loads, normalizes, and validates screener configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TMDB_API_KEY and GEMINI_API_KEY. The Config type centralizes every knob the
// CLI and resolution pipeline need so external service credentials, scan
// behavior, and log output are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config

// Package config loads, normalizes, and validates tidydir configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TIDYDIR_STATE_DIR. The Config type centralizes every policy knob the
// organizer and CLI need, so collision and failure handling is decided in one
// place rather than at each call site.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical policy names, and clear validation errors.
package config

// Package config loads, normalizes, and validates AutoSheetify configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// AUTOSHEETIFY_TOKEN and AUTOSHEETIFY_BASE_URL. The Config type centralizes
// every knob the CLI and the HTTP bridge need, so the transcription service
// endpoint, session file, library database and output directories are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config

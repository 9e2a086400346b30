// Package config loads, normalizes, and validates wandlung configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// WANDLUNG_SIGNING_KEY and S3_ACCESS_KEY. A .env file in the working directory
// is read first when present.
//
// Provider API keys are deliberately absent: they are per-deployment settings
// stored in the database and edited at runtime.
package config

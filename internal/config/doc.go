// Package config loads, normalizes, and validates booksort configuration.
//
// Configuration lives in a TOML file resolved from the --config flag,
// ~/.config/booksort/config.toml, or ./booksort.toml in that order. Missing
// files are not an error; defaults apply. All path values are expanded
// (including a leading ~) and made absolute before validation so downstream
// packages never deal with relative or home-anchored paths.
package config

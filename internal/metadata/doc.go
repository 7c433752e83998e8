// Package metadata resolves a title/author pair for each book file, using
// embedded metadata when available and the filename as a fallback.
package metadata

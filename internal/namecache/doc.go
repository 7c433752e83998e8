// Package namecache persists folder name decisions keyed by the raw
// "title - author" string, so repeated runs reuse earlier suggestions.
package namecache

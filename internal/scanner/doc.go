// Package scanner discovers ebook files under the source directory,
// filtering by extension and ignore tokens.
package scanner

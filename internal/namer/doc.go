// Package namer chooses the destination folder name for a book, combining
// the cache, the LLM suggester, and local slugging.
package namer

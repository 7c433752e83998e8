// Command booksort sorts ebook files into per-title folders inside a
// library directory, using embedded metadata, filename parsing, and an
// optional LLM naming service.
package main

// Package textutil provides the text normalization used to build
// filesystem-safe directory names from book titles and authors.
package textutil

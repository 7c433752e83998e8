// Package sorter orchestrates one batch run: discover ebooks, resolve their
// metadata, choose destination folders, and place them in the library.
package sorter

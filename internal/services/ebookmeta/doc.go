// Package ebookmeta mediates access to calibre's ebook-meta CLI, the
// structured metadata source for discovered ebook files.
//
// It normalizes command invocation, applies a configurable timeout, parses
// the Title/Author(s) lines from the tool's output, and exposes a testable
// Executor seam so tests never shell out.
//
// Prefer this package over ad-hoc exec.Command usage when reading ebook
// metadata so timeout handling and error classification remain consistent.
package ebookmeta

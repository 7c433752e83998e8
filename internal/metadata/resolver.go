package metadata

import (
	"context"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"booksort/internal/logging"
	"booksort/internal/services/ebookmeta"
)

// Pair holds the title and author resolved for a single book file. Either
// field may be empty when no source could provide it.
type Pair struct {
	Title  string
	Author string
}

// Complete reports whether both fields carry a usable value.
func (p Pair) Complete() bool {
	return strings.TrimSpace(p.Title) != "" && strings.TrimSpace(p.Author) != ""
}

// Extractor reads metadata fields from an ebook file. Satisfied by
// *ebookmeta.Client.
type Extractor interface {
	Extract(ctx context.Context, path string) (ebookmeta.Fields, error)
}

// Resolver determines a title/author pair for a file, preferring embedded
// metadata and falling back to the filename. Resolution never fails: a file
// with no usable metadata simply yields an incomplete Pair.
type Resolver struct {
	extractor Extractor
	logger    *slog.Logger
}

// NewResolver builds a resolver. extractor may be nil, in which case only
// the filename fallback is consulted.
func NewResolver(extractor Extractor, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{extractor: extractor, logger: logger}
}

// "Title - Author.ext" with a lazy title so the first separator wins.
var filenameRx = regexp.MustCompile(`^(.+?)\s*-\s*(.+?)\.[^.]+$`)

// Resolve returns the best available title/author pair for path. Extraction
// errors degrade to the filename fallback and are logged, not returned.
func (r *Resolver) Resolve(ctx context.Context, path string) Pair {
	if r.extractor != nil {
		fields, err := r.extractor.Extract(ctx, path)
		if err != nil {
			r.logger.Warn("metadata extraction failed, falling back to filename",
				logging.String("file", filepath.Base(path)),
				logging.Error(err))
		} else if pair := pairFromFields(fields); pair.Complete() {
			return pair
		}
	}
	return pairFromFilename(path)
}

func pairFromFields(fields ebookmeta.Fields) Pair {
	return Pair{
		Title:  strings.TrimSpace(fields.Title),
		Author: strings.TrimSpace(fields.Author),
	}
}

func pairFromFilename(path string) Pair {
	base := filepath.Base(path)
	matches := filenameRx.FindStringSubmatch(base)
	if matches == nil {
		return Pair{}
	}
	return Pair{
		Title:  strings.TrimSpace(matches[1]),
		Author: strings.TrimSpace(matches[2]),
	}
}

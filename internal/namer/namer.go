package namer

import (
	"context"
	"log/slog"

	"booksort/internal/logging"
	"booksort/internal/metadata"
	"booksort/internal/namecache"
	"booksort/internal/textutil"
)

// UnsortedName is the folder used for files whose metadata could not be
// resolved.
const UnsortedName = "Unsorted"

// Suggester proposes a folder name for a title/author pair. Satisfied by
// *llm.Client.
type Suggester interface {
	SuggestFolderName(ctx context.Context, title, author string) (string, error)
}

// Namer decides the destination folder name for a resolved book.
type Namer struct {
	cache     *namecache.Store
	suggester Suggester
	unsorted  string
	maxLength int
	logger    *slog.Logger
}

// Options configures a Namer.
type Options struct {
	Cache       *namecache.Store
	Suggester   Suggester
	UnsortedDir string
	MaxLength   int
	Logger      *slog.Logger
}

// New builds a Namer. Cache and Suggester may each be nil, disabling the
// corresponding behavior.
func New(opts Options) *Namer {
	unsorted := opts.UnsortedDir
	if unsorted == "" {
		unsorted = UnsortedName
	}
	maxLength := opts.MaxLength
	if maxLength <= 0 {
		maxLength = 120
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Namer{
		cache:     opts.Cache,
		suggester: opts.Suggester,
		unsorted:  unsorted,
		maxLength: maxLength,
		logger:    logger,
	}
}

// NameFor returns the destination folder name for pair. An incomplete pair
// maps to the unsorted folder without touching the cache or the suggester.
func (n *Namer) NameFor(ctx context.Context, pair metadata.Pair) string {
	if !pair.Complete() {
		return n.unsorted
	}

	key := pair.Title + " - " + pair.Author

	if n.cache != nil {
		entry, found, err := n.cache.Get(ctx, key)
		if err != nil {
			n.logger.Warn("name cache lookup failed",
				logging.String("key", key),
				logging.Error(err))
		} else if found {
			return entry.FolderName
		}
	}

	if name := n.suggestedName(ctx, pair, key); name != "" {
		return name
	}

	// Local fallback: never cached, so a later run can still ask the
	// suggester once it recovers.
	name := textutil.Truncate(textutil.Slug(key), n.maxLength)
	if name == "" {
		return n.unsorted
	}
	return name
}

func (n *Namer) suggestedName(ctx context.Context, pair metadata.Pair, key string) string {
	if n.suggester == nil {
		return ""
	}

	raw, err := n.suggester.SuggestFolderName(ctx, pair.Title, pair.Author)
	if err != nil {
		n.logger.Warn("folder name suggestion failed",
			logging.String("key", key),
			logging.Error(err))
		return ""
	}

	name := textutil.Truncate(textutil.Slug(raw), n.maxLength)
	if name == "" {
		n.logger.Warn("suggested name empty after sanitizing",
			logging.String("key", key),
			logging.String("raw", raw))
		return ""
	}

	if n.cache != nil {
		if err := n.cache.Put(ctx, key, name, namecache.SourceLLM); err != nil {
			n.logger.Warn("name cache store failed",
				logging.String("key", key),
				logging.Error(err))
		}
	}
	return name
}

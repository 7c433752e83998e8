package testsupport

import (
	"testing"

	"booksort/internal/config"
	"booksort/internal/namecache"
)

// MustOpenCache opens a namecache.Store for tests and registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) *namecache.Store {
	t.Helper()

	store, err := namecache.Open(cfg.NameCache.Path)
	if err != nil {
		t.Fatalf("open name cache: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close name cache: %v", err)
		}
	})
	return store
}

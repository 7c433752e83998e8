package metadata_test

import (
	"context"
	"errors"
	"testing"

	"booksort/internal/metadata"
	"booksort/internal/services/ebookmeta"
)

type fakeExtractor struct {
	fields ebookmeta.Fields
	err    error
	calls  int
}

func (f *fakeExtractor) Extract(ctx context.Context, path string) (ebookmeta.Fields, error) {
	f.calls++
	return f.fields, f.err
}

func TestResolvePrefersEmbeddedMetadata(t *testing.T) {
	extractor := &fakeExtractor{fields: ebookmeta.Fields{Title: "Dune", Author: "Frank Herbert"}}
	resolver := metadata.NewResolver(extractor, nil)

	pair := resolver.Resolve(context.Background(), "/incoming/dune_retail_v2.epub")
	if pair.Title != "Dune" || pair.Author != "Frank Herbert" {
		t.Fatalf("pair = %+v", pair)
	}
	if !pair.Complete() {
		t.Fatal("pair should be complete")
	}
	if extractor.calls != 1 {
		t.Fatalf("extractor calls = %d", extractor.calls)
	}
}

func TestResolveFallsBackToFilenameOnError(t *testing.T) {
	extractor := &fakeExtractor{err: errors.New("ebook-meta exploded")}
	resolver := metadata.NewResolver(extractor, nil)

	pair := resolver.Resolve(context.Background(), "/incoming/Neuromancer - William Gibson.mobi")
	if pair.Title != "Neuromancer" || pair.Author != "William Gibson" {
		t.Fatalf("pair = %+v", pair)
	}
}

func TestResolveFallsBackWhenMetadataIncomplete(t *testing.T) {
	extractor := &fakeExtractor{fields: ebookmeta.Fields{Title: "Dune"}}
	resolver := metadata.NewResolver(extractor, nil)

	pair := resolver.Resolve(context.Background(), "/incoming/Dune - Frank Herbert.epub")
	if pair.Title != "Dune" || pair.Author != "Frank Herbert" {
		t.Fatalf("pair = %+v", pair)
	}
}

func TestResolveFilenamePatterns(t *testing.T) {
	resolver := metadata.NewResolver(nil, nil)

	tests := []struct {
		path   string
		title  string
		author string
	}{
		{"/in/Dune - Frank Herbert.epub", "Dune", "Frank Herbert"},
		// lazy title: the first separator splits
		{"/in/A - B - C.pdf", "A", "B - C"},
		{"/in/Spaced   -   Out.azw3", "Spaced", "Out"},
		{"/in/NoSeparator.epub", "", ""},
		{"/in/Trailing - .epub", "", ""},
	}
	for _, tc := range tests {
		pair := resolver.Resolve(context.Background(), tc.path)
		if pair.Title != tc.title || pair.Author != tc.author {
			t.Errorf("Resolve(%q) = %+v, want {%q %q}", tc.path, pair, tc.title, tc.author)
		}
	}
}

func TestResolveNeverErrors(t *testing.T) {
	extractor := &fakeExtractor{err: errors.New("boom")}
	resolver := metadata.NewResolver(extractor, nil)

	pair := resolver.Resolve(context.Background(), "/in/garbage")
	if pair.Complete() {
		t.Fatalf("expected incomplete pair, got %+v", pair)
	}
}

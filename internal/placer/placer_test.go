package placer_test

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"booksort/internal/placer"
)

func writeSource(t *testing.T, dir string) string {
	t.Helper()
	src := filepath.Join(dir, "Dune - Frank Herbert.epub")
	if err := os.WriteFile(src, []byte("book bytes"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return src
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    placer.Mode
		wantErr bool
	}{
		{input: "hardlink", want: placer.ModeHardlink},
		{input: " Copy ", want: placer.ModeCopy},
		{input: "SYMLINK", want: placer.ModeSymlink},
		{input: "move", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, tc := range tests {
		mode, err := placer.ParseMode(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseMode(%q) expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMode(%q) error: %v", tc.input, err)
			continue
		}
		if mode != tc.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tc.input, mode, tc.want)
		}
	}
}

func TestPlaceHardlinkCreates(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir)
	destDir := filepath.Join(dir, "library", "Dune - Frank Herbert")

	p := placer.New(placer.ModeHardlink, nil)
	outcome, err := p.Place(context.Background(), src, destDir, filepath.Base(src))
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if outcome != placer.OutcomeCreated {
		t.Fatalf("outcome = %q", outcome)
	}

	dest := filepath.Join(destDir, filepath.Base(src))
	srcInfo, err := os.Stat(src)
	if err != nil {
		t.Fatalf("stat source: %v", err)
	}
	destInfo, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("stat destination: %v", err)
	}
	if !os.SameFile(srcInfo, destInfo) {
		t.Error("destination is not a hardlink of source")
	}
}

func TestPlaceExistingDestinationSkips(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir)
	destDir := filepath.Join(dir, "library", "Dune - Frank Herbert")
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	dest := filepath.Join(destDir, filepath.Base(src))
	if err := os.WriteFile(dest, []byte("already here"), 0o644); err != nil {
		t.Fatalf("write destination: %v", err)
	}

	p := placer.New(placer.ModeCopy, nil)
	outcome, err := p.Place(context.Background(), src, destDir, filepath.Base(src))
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if outcome != placer.OutcomeAlreadyExists {
		t.Fatalf("outcome = %q", outcome)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(got) != "already here" {
		t.Error("existing destination was modified")
	}
}

func TestPlaceCopyMode(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir)
	destDir := filepath.Join(dir, "library", "Dune - Frank Herbert")

	p := placer.New(placer.ModeCopy, nil)
	outcome, err := p.Place(context.Background(), src, destDir, filepath.Base(src))
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if outcome != placer.OutcomeCreated {
		t.Fatalf("outcome = %q", outcome)
	}

	dest := filepath.Join(destDir, filepath.Base(src))
	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(got) != "book bytes" {
		t.Errorf("destination content = %q", got)
	}

	srcInfo, _ := os.Stat(src)
	destInfo, _ := os.Stat(dest)
	if os.SameFile(srcInfo, destInfo) {
		t.Error("copy mode produced a hardlink")
	}
}

func TestPlaceSymlinkMode(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir)
	destDir := filepath.Join(dir, "library", "Dune - Frank Herbert")

	p := placer.New(placer.ModeSymlink, nil)
	outcome, err := p.Place(context.Background(), src, destDir, filepath.Base(src))
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if outcome != placer.OutcomeCreated {
		t.Fatalf("outcome = %q", outcome)
	}

	dest := filepath.Join(destDir, filepath.Base(src))
	target, err := os.Readlink(dest)
	if err != nil {
		t.Fatalf("readlink: %v", err)
	}
	if target != src {
		t.Errorf("symlink target = %q, want %q", target, src)
	}
}

func TestPlaceExistingSymlinkSkips(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir)
	destDir := filepath.Join(dir, "library", "Dune - Frank Herbert")
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	dest := filepath.Join(destDir, filepath.Base(src))
	// Dangling link: Lstat must still treat it as present.
	if err := os.Symlink(filepath.Join(dir, "gone.epub"), dest); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	p := placer.New(placer.ModeSymlink, nil)
	outcome, err := p.Place(context.Background(), src, destDir, filepath.Base(src))
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if outcome != placer.OutcomeAlreadyExists {
		t.Fatalf("outcome = %q", outcome)
	}
}

func TestPlaceHardlinkCrossDeviceFallsBackToCopy(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir)
	destDir := filepath.Join(dir, "library", "Dune - Frank Herbert")

	p := placer.New(placer.ModeHardlink, nil, placer.WithLinkFunc(func(src, dst string) error {
		return &os.LinkError{Op: "link", Old: src, New: dst, Err: syscall.EXDEV}
	}))

	outcome, err := p.Place(context.Background(), src, destDir, filepath.Base(src))
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if outcome != placer.OutcomeCopiedFallback {
		t.Fatalf("outcome = %q, want %q", outcome, placer.OutcomeCopiedFallback)
	}

	dest := filepath.Join(destDir, filepath.Base(src))
	srcContent, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("read source: %v", err)
	}
	destContent, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(destContent) != string(srcContent) {
		t.Errorf("destination content = %q, want %q", destContent, srcContent)
	}

	srcInfo, _ := os.Stat(src)
	destInfo, _ := os.Stat(dest)
	if os.SameFile(srcInfo, destInfo) {
		t.Error("fallback produced a hardlink instead of a copy")
	}
}

func TestPlaceHardlinkOtherLinkErrorFails(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir)
	destDir := filepath.Join(dir, "library", "Dune - Frank Herbert")

	p := placer.New(placer.ModeHardlink, nil, placer.WithLinkFunc(func(src, dst string) error {
		return &os.LinkError{Op: "link", Old: src, New: dst, Err: syscall.EPERM}
	}))

	outcome, err := p.Place(context.Background(), src, destDir, filepath.Base(src))
	if err == nil {
		t.Fatal("expected error for non-EXDEV link failure")
	}
	if outcome != placer.OutcomeFailed {
		t.Fatalf("outcome = %q", outcome)
	}
	if _, statErr := os.Stat(filepath.Join(destDir, filepath.Base(src))); !os.IsNotExist(statErr) {
		t.Errorf("destination should not exist after link failure, stat err = %v", statErr)
	}
}

func TestPlaceMissingSourceFails(t *testing.T) {
	dir := t.TempDir()
	destDir := filepath.Join(dir, "library", "Nope")

	p := placer.New(placer.ModeHardlink, nil)
	outcome, err := p.Place(context.Background(), filepath.Join(dir, "absent.epub"), destDir, "absent.epub")
	if err == nil {
		t.Fatal("expected error for missing source")
	}
	if outcome != placer.OutcomeFailed {
		t.Fatalf("outcome = %q", outcome)
	}
}

func TestPlaceCancelledContext(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := placer.New(placer.ModeCopy, nil)
	outcome, err := p.Place(ctx, src, filepath.Join(dir, "library"), filepath.Base(src))
	if err == nil {
		t.Fatal("expected context error")
	}
	if outcome != placer.OutcomeFailed {
		t.Fatalf("outcome = %q", outcome)
	}
}

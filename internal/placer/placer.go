package placer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"booksort/internal/fileutil"
	"booksort/internal/logging"
	"booksort/internal/services"
)

// Mode selects how files enter the library.
type Mode string

const (
	ModeHardlink Mode = "hardlink"
	ModeCopy     Mode = "copy"
	ModeSymlink  Mode = "symlink"
)

// ParseMode validates a mode string from configuration or a flag.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeHardlink:
		return ModeHardlink, nil
	case ModeCopy:
		return ModeCopy, nil
	case ModeSymlink:
		return ModeSymlink, nil
	default:
		return "", services.Wrap(services.ErrValidation, "placer", "parse mode",
			fmt.Sprintf("unknown placement mode %q (want hardlink, copy, or symlink)", value), nil)
	}
}

// Outcome reports what Place did with a file.
type Outcome string

const (
	OutcomeCreated        Outcome = "created"
	OutcomeAlreadyExists  Outcome = "already-exists"
	OutcomeCopiedFallback Outcome = "copied-fallback"
	OutcomeFailed         Outcome = "failed"
)

// Placer materializes books inside the library using the configured mode.
type Placer struct {
	mode   Mode
	link   func(src, dst string) error
	logger *slog.Logger
}

// Option customizes a Placer.
type Option func(*Placer)

// WithLinkFunc overrides the hardlink operation (primarily for tests).
func WithLinkFunc(link func(src, dst string) error) Option {
	return func(p *Placer) {
		if link != nil {
			p.link = link
		}
	}
}

// New builds a placer for mode.
func New(mode Mode, logger *slog.Logger, opts ...Option) *Placer {
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Placer{
		mode:   mode,
		link:   os.Link,
		logger: logging.NewComponentLogger(logger, "placer"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Mode returns the configured placement mode.
func (p *Placer) Mode() Mode {
	return p.mode
}

// Place puts src into destDir under baseName, creating destDir as needed.
// An existing destination is left untouched and reported as already-exists.
// Hardlinks across filesystems fall back to a verified copy.
func (p *Placer) Place(ctx context.Context, src, destDir, baseName string) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return OutcomeFailed, err
	}

	dest := filepath.Join(destDir, baseName)

	if _, err := os.Lstat(dest); err == nil {
		return OutcomeAlreadyExists, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return OutcomeFailed, services.Wrap(services.ErrTransient, "placer", "check destination",
			"Failed to inspect destination", err)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return OutcomeFailed, services.Wrap(services.ErrTransient, "placer", "create directory",
			"Failed to create destination directory", err)
	}

	switch p.mode {
	case ModeCopy:
		if err := fileutil.CopyFile(src, dest); err != nil {
			return OutcomeFailed, services.Wrap(services.ErrTransient, "placer", "copy file",
				"Failed to copy file into library", err)
		}
		return OutcomeCreated, nil

	case ModeSymlink:
		if err := os.Symlink(src, dest); err != nil {
			return OutcomeFailed, services.Wrap(services.ErrTransient, "placer", "symlink file",
				"Failed to symlink file into library", err)
		}
		return OutcomeCreated, nil

	case ModeHardlink:
		linkErrRaw := p.link(src, dest)
		if linkErrRaw == nil {
			return OutcomeCreated, nil
		}
		var linkErr *os.LinkError
		if errors.As(linkErrRaw, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
			p.logger.Debug("hardlink crossed filesystems, copying instead",
				logging.String("file", baseName))
			if copyErr := fileutil.CopyFile(src, dest); copyErr != nil {
				return OutcomeFailed, services.Wrap(services.ErrTransient, "placer", "copy file",
					"Failed to copy file after cross-device link", copyErr)
			}
			return OutcomeCopiedFallback, nil
		}
		return OutcomeFailed, services.Wrap(services.ErrTransient, "placer", "hardlink file",
			"Failed to hardlink file into library", linkErrRaw)

	default:
		return OutcomeFailed, services.Wrap(services.ErrConfiguration, "placer", "place file",
			fmt.Sprintf("unknown placement mode %q", p.mode), nil)
	}
}

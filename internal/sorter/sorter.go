package sorter

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"booksort/internal/config"
	"booksort/internal/logging"
	"booksort/internal/metadata"
	"booksort/internal/namer"
	"booksort/internal/placer"
	"booksort/internal/scanner"
	"booksort/internal/services"
)

// Result records what happened to a single file.
type Result struct {
	Source     string
	FolderName string
	Outcome    placer.Outcome
	Err        error
}

// Summary aggregates the outcomes of one run.
type Summary struct {
	Total          int
	Created        int
	Skipped        int
	CopiedFallback int
	Unsorted       int
	Failed         int
	Results        []Result
}

// Failed reports whether any file in the run failed.
func (s *Summary) AnyFailed() bool {
	return s.Failed > 0
}

// Sorter runs one batch: discover files, resolve metadata, choose a folder
// name, and place each file in the library.
type Sorter struct {
	cfg      *config.Config
	resolver *metadata.Resolver
	namer    *namer.Namer
	placer   *placer.Placer
	logger   *slog.Logger
	dryRun   bool
}

// Options wires a Sorter's collaborators.
type Options struct {
	Config   *config.Config
	Resolver *metadata.Resolver
	Namer    *namer.Namer
	Placer   *placer.Placer
	Logger   *slog.Logger
	DryRun   bool
}

// New builds a sorter from its collaborators.
func New(opts Options) *Sorter {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Sorter{
		cfg:      opts.Config,
		resolver: opts.Resolver,
		namer:    opts.Namer,
		placer:   opts.Placer,
		logger:   logging.NewComponentLogger(logger, "sorter"),
		dryRun:   opts.DryRun,
	}
}

// Run processes the given files, or scans the source directory when files is
// empty. A missing source directory fails the run before any file is
// touched; per-file failures are captured into the summary and the batch
// continues.
func (s *Sorter) Run(ctx context.Context, files []string) (*Summary, error) {
	var skippedExplicit []string
	if len(files) == 0 {
		if _, err := os.Stat(s.cfg.Paths.SourceDir); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "sorter", "check source",
				"Source directory is not accessible", err)
		}
		scanned, err := scanner.Scan(s.cfg.Paths.SourceDir, s.cfg.Sort.Extensions, s.cfg.Sort.IgnoreTokens)
		if err != nil {
			return nil, err
		}
		files = scanned
	} else {
		files, skippedExplicit = scanner.FilterExplicit(files, s.cfg.Sort.Extensions, s.cfg.Sort.IgnoreTokens)
		for _, path := range skippedExplicit {
			s.logger.Warn("skipping file outside sort rules",
				logging.String("file", path))
		}
	}

	summary := &Summary{}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		s.accumulate(summary, s.processFile(ctx, path))
	}

	s.logger.Info("run complete",
		logging.Int("total", summary.Total),
		logging.Int("created", summary.Created),
		logging.Int("skipped", summary.Skipped),
		logging.Int("copied_fallback", summary.CopiedFallback),
		logging.Int("unsorted", summary.Unsorted),
		logging.Int("failed", summary.Failed),
		logging.Bool("dry_run", s.dryRun))
	return summary, nil
}

func (s *Sorter) processFile(ctx context.Context, path string) Result {
	fileCtx := services.WithFile(ctx, filepath.Base(path))
	logger := logging.WithContext(fileCtx, s.logger)

	pair := s.resolver.Resolve(fileCtx, path)
	folderName := s.namer.NameFor(fileCtx, pair)
	destDir := filepath.Join(s.cfg.Paths.LibraryDir, folderName)

	result := Result{Source: path, FolderName: folderName}

	if s.dryRun {
		result.Outcome = s.dryRunOutcome(path, destDir)
		logger.Info("dry run",
			logging.String("folder", folderName),
			logging.String("outcome", string(result.Outcome)))
		return result
	}

	outcome, err := s.placer.Place(fileCtx, path, destDir, filepath.Base(path))
	result.Outcome = outcome
	result.Err = err
	if err != nil {
		logger.Error("failed to place file",
			logging.String("folder", folderName),
			logging.Error(err))
		return result
	}

	logger.Info("placed file",
		logging.String("folder", folderName),
		logging.String("outcome", string(outcome)))
	return result
}

// dryRunOutcome predicts what Place would do without touching anything.
func (s *Sorter) dryRunOutcome(path, destDir string) placer.Outcome {
	dest := filepath.Join(destDir, filepath.Base(path))
	if _, err := os.Lstat(dest); err == nil {
		return placer.OutcomeAlreadyExists
	}
	return placer.OutcomeCreated
}

func (s *Sorter) accumulate(summary *Summary, result Result) {
	summary.Total++
	summary.Results = append(summary.Results, result)
	if result.FolderName == s.unsortedName() {
		summary.Unsorted++
	}
	switch {
	case result.Err != nil:
		summary.Failed++
	case result.Outcome == placer.OutcomeCreated:
		summary.Created++
	case result.Outcome == placer.OutcomeAlreadyExists:
		summary.Skipped++
	case result.Outcome == placer.OutcomeCopiedFallback:
		summary.CopiedFallback++
	}
}

func (s *Sorter) unsortedName() string {
	if s.cfg != nil && s.cfg.Sort.UnsortedDir != "" {
		return s.cfg.Sort.UnsortedDir
	}
	return namer.UnsortedName
}

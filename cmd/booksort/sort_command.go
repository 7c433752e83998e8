package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"booksort/internal/config"
	"booksort/internal/deps"
	"booksort/internal/logging"
	"booksort/internal/metadata"
	"booksort/internal/namecache"
	"booksort/internal/namer"
	"booksort/internal/placer"
	"booksort/internal/services"
	"booksort/internal/services/ebookmeta"
	"booksort/internal/services/llm"
	"booksort/internal/sorter"
)

func newSortCommand(ctx *commandContext) *cobra.Command {
	var modeFlag string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sort [files...]",
		Short: "Sort ebooks into the library",
		Long: "Sort the given files, or scan the configured source directory when " +
			"no files are listed. Each book lands in a per-title folder inside the " +
			"library; files already in place are skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return runSort(cmd, ctx, cfg, args, modeFlag, dryRun)
		},
	}

	cmd.Flags().StringVar(&modeFlag, "mode", "", "Placement mode: hardlink, copy, or symlink (defaults to config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would happen without touching the library")
	return cmd
}

func runSort(cmd *cobra.Command, ctx *commandContext, cfg *config.Config, args []string, modeFlag string, dryRun bool) error {
	logger, err := ctx.newLogger(cfg)
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}

	modeValue := cfg.Sort.Mode
	if modeFlag != "" {
		modeValue = modeFlag
	}
	mode, err := placer.ParseMode(modeValue)
	if err != nil {
		return err
	}

	lock := flock.New(filepath.Join(cfg.Paths.LogDir, "booksort.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another booksort run is already in progress (lock %s)", lock.Path())
	}
	defer func() {
		_ = lock.Unlock()
	}()

	cache, err := namecache.Open(cfg.NameCache.Path)
	if err != nil {
		return fmt.Errorf("open name cache: %w", err)
	}
	defer func() {
		_ = cache.Close()
	}()

	extractor, err := buildExtractor(cfg, logger)
	if err != nil {
		return err
	}

	var suggester namer.Suggester
	if cfg.SuggestionsEnabled() {
		llmCfg := cfg.GetLLM()
		suggester = llm.NewClient(llm.Config{
			APIKey:         llmCfg.APIKey,
			BaseURL:        llmCfg.BaseURL,
			Model:          llmCfg.Model,
			Referer:        llmCfg.Referer,
			Title:          llmCfg.Title,
			TimeoutSeconds: llmCfg.TimeoutSeconds,
		})
	}

	files, err := expandArgs(args)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	runCtx := services.WithRunID(cmd.Context(), runID)
	logger = logger.With(logging.String(logging.FieldRunID, runID))

	s := sorter.New(sorter.Options{
		Config:   cfg,
		Resolver: metadata.NewResolver(extractor, logger),
		Namer: namer.New(namer.Options{
			Cache:       cache,
			Suggester:   suggester,
			UnsortedDir: cfg.Sort.UnsortedDir,
			MaxLength:   cfg.Sort.MaxNameLength,
			Logger:      logger,
		}),
		Placer: placer.New(mode, logger),
		Logger: logger,
		DryRun: dryRun,
	})

	summary, err := s.Run(runCtx, files)
	if err != nil {
		return err
	}

	renderSummary(cmd.OutOrStdout(), summary, dryRun)

	if summary.AnyFailed() {
		return fmt.Errorf("%d of %d files failed", summary.Failed, summary.Total)
	}
	return nil
}

// buildExtractor returns the metadata extractor, or nil (with a warning)
// when the configured ebook-meta binary is missing so the run degrades to
// filename parsing.
func buildExtractor(cfg *config.Config, logger *slog.Logger) (metadata.Extractor, error) {
	statuses := deps.CheckBinaries(deps.ForConfig(cfg))
	for _, status := range statuses {
		if status.Name == "ebook-meta" && !status.Available {
			logger.Warn("ebook-meta unavailable, using filename fallback only",
				logging.String("detail", status.Detail))
			return nil, nil
		}
	}
	client, err := ebookmeta.New(cfg.EbookMeta.Binary, cfg.EbookMeta.TimeoutSeconds)
	if err != nil {
		return nil, fmt.Errorf("configure ebook-meta client: %w", err)
	}
	return client, nil
}

func expandArgs(args []string) ([]string, error) {
	files := make([]string, 0, len(args))
	for _, arg := range args {
		expanded, err := config.ExpandPath(arg)
		if err != nil {
			return nil, err
		}
		files = append(files, expanded)
	}
	return files, nil
}

func renderSummary(out io.Writer, summary *sorter.Summary, dryRun bool) {
	if dryRun {
		fmt.Fprintln(out, "Dry run: no files were placed.")
	}

	if isTerminal(os.Stdout) {
		rows := [][]string{
			{"Total", fmt.Sprintf("%d", summary.Total)},
			{"Created", fmt.Sprintf("%d", summary.Created)},
			{"Skipped", fmt.Sprintf("%d", summary.Skipped)},
			{"Copied (cross-device)", fmt.Sprintf("%d", summary.CopiedFallback)},
			{"Unsorted", fmt.Sprintf("%d", summary.Unsorted)},
			{"Failed", fmt.Sprintf("%d", summary.Failed)},
		}
		fmt.Fprintln(out, renderTable([]string{"Outcome", "Count"}, rows, 2))
		return
	}

	fmt.Fprintf(out, "total=%d created=%d skipped=%d copied=%d unsorted=%d failed=%d\n",
		summary.Total, summary.Created, summary.Skipped, summary.CopiedFallback,
		summary.Unsorted, summary.Failed)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

package config

const (
	defaultSourceDir      = "~/books/incoming"
	defaultLibraryDir     = "~/books/library"
	defaultLogDir         = "~/.local/share/booksort/logs"
	defaultNameCachePath  = "~/.local/share/booksort/namecache.db"
	defaultMode           = "hardlink"
	defaultMaxNameLength  = 120
	defaultUnsortedDir    = "Unsorted"
	defaultEbookMetaBin   = "ebook-meta"
	defaultEbookMetaTO    = 60
	defaultLLMBaseURL     = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel       = "google/gemini-3-flash-preview"
	defaultLLMReferer     = "https://github.com/booksort/booksort"
	defaultLLMTitle       = "Booksort Folder Namer"
	defaultLLMTimeoutSecs = 30
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

func defaultExtensions() []string {
	return []string{"epub", "mobi", "azw3", "pdf"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SourceDir:  defaultSourceDir,
			LibraryDir: defaultLibraryDir,
			LogDir:     defaultLogDir,
		},
		Sort: Sort{
			Mode:          defaultMode,
			Extensions:    defaultExtensions(),
			MaxNameLength: defaultMaxNameLength,
			UnsortedDir:   defaultUnsortedDir,
		},
		EbookMeta: EbookMeta{
			Binary:         defaultEbookMetaBin,
			TimeoutSeconds: defaultEbookMetaTO,
		},
		NameCache: NameCache{
			Path: defaultNameCachePath,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSecs,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

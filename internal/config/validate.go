package config

import (
	"errors"
	"fmt"
	"strings"
)

var validModes = map[string]struct{}{
	"hardlink": {},
	"copy":     {},
	"symlink":  {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSort(); err != nil {
		return err
	}
	if err := c.validateEbookMeta(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.SourceDir) == "" {
		return errors.New("paths.source_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		return errors.New("paths.library_dir must be set")
	}
	if c.Paths.SourceDir == c.Paths.LibraryDir {
		return errors.New("paths.source_dir and paths.library_dir must differ")
	}
	return nil
}

func (c *Config) validateSort() error {
	if _, ok := validModes[c.Sort.Mode]; !ok {
		return fmt.Errorf("sort.mode must be one of hardlink, copy, symlink (got %q)", c.Sort.Mode)
	}
	if c.Sort.MaxNameLength < 1 {
		return errors.New("sort.max_name_length must be positive")
	}
	if len(c.Sort.Extensions) == 0 {
		return errors.New("sort.extensions must contain at least one extension")
	}
	if strings.ContainsAny(c.Sort.UnsortedDir, `/\`) {
		return fmt.Errorf("sort.unsorted_dir must be a bare directory name (got %q)", c.Sort.UnsortedDir)
	}
	return nil
}

func (c *Config) validateEbookMeta() error {
	if c.EbookMeta.TimeoutSeconds < 0 {
		return errors.New("ebook_meta.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateLLM() error {
	if !c.LLM.Enabled {
		return nil
	}
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/booksort/config.toml"
		}
		return fmt.Errorf("llm.api_key is required when llm.enabled is true. Set BOOKSORT_LLM_API_KEY or edit %s (create with 'booksort config init')", defaultPath)
	}
	if c.LLM.TimeoutSeconds < 0 {
		return errors.New("llm.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
	return nil
}

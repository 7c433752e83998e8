package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSort()
	c.normalizeEbookMeta()
	if err := c.normalizeNameCache(); err != nil {
		return err
	}
	c.normalizeLLM()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.SourceDir, err = expandPath(c.Paths.SourceDir); err != nil {
		return fmt.Errorf("paths.source_dir: %w", err)
	}
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSort() {
	c.Sort.Mode = strings.ToLower(strings.TrimSpace(c.Sort.Mode))
	if c.Sort.Mode == "" {
		c.Sort.Mode = defaultMode
	}

	exts := make([]string, 0, len(c.Sort.Extensions))
	seen := make(map[string]struct{}, len(c.Sort.Extensions))
	for _, ext := range c.Sort.Extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext == "" {
			continue
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		exts = append(exts, ext)
	}
	if len(exts) == 0 {
		exts = defaultExtensions()
	}
	c.Sort.Extensions = exts

	tokens := make([]string, 0, len(c.Sort.IgnoreTokens))
	for _, token := range c.Sort.IgnoreTokens {
		if token = strings.TrimSpace(token); token != "" {
			tokens = append(tokens, token)
		}
	}
	c.Sort.IgnoreTokens = tokens

	if c.Sort.MaxNameLength == 0 {
		c.Sort.MaxNameLength = defaultMaxNameLength
	}
	c.Sort.UnsortedDir = strings.TrimSpace(c.Sort.UnsortedDir)
	if c.Sort.UnsortedDir == "" {
		c.Sort.UnsortedDir = defaultUnsortedDir
	}
}

func (c *Config) normalizeEbookMeta() {
	c.EbookMeta.Binary = strings.TrimSpace(c.EbookMeta.Binary)
	if c.EbookMeta.Binary == "" {
		c.EbookMeta.Binary = defaultEbookMetaBin
	}
	if c.EbookMeta.TimeoutSeconds == 0 {
		c.EbookMeta.TimeoutSeconds = defaultEbookMetaTO
	}
}

func (c *Config) normalizeNameCache() error {
	c.NameCache.Path = strings.TrimSpace(c.NameCache.Path)
	if c.NameCache.Path == "" {
		c.NameCache.Path = defaultNameCachePath
	}
	var err error
	if c.NameCache.Path, err = expandPath(c.NameCache.Path); err != nil {
		return fmt.Errorf("name_cache.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLLM() {
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("BOOKSORT_LLM_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSecs
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

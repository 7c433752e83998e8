package scanner

import (
	"io/fs"
	"path/filepath"
	"strings"

	"booksort/internal/services"
)

// Scan walks root recursively and returns the regular files whose extension
// is in exts, skipping any path containing one of ignoreTokens. Results come
// back in lexical walk order. A missing or unreadable root is an error.
func Scan(root string, exts, ignoreTokens []string) ([]string, error) {
	extSet := normalizeExtensions(exts)

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if containsToken(path, ignoreTokens) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if _, ok := extSet[extensionOf(path)]; ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "scanner", "walk source",
			"Failed to scan source directory", err)
	}
	return files, nil
}

// FilterExplicit applies the same ignore-token and extension rules to an
// explicitly listed set of files, returning the accepted paths and the
// skipped ones.
func FilterExplicit(paths []string, exts, ignoreTokens []string) (accepted, skipped []string) {
	extSet := normalizeExtensions(exts)
	for _, path := range paths {
		if containsToken(path, ignoreTokens) {
			skipped = append(skipped, path)
			continue
		}
		if _, ok := extSet[extensionOf(path)]; !ok {
			skipped = append(skipped, path)
			continue
		}
		accepted = append(accepted, path)
	}
	return accepted, skipped
}

func normalizeExtensions(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		ext = strings.TrimPrefix(ext, ".")
		if ext != "" {
			set[ext] = struct{}{}
		}
	}
	return set
}

func extensionOf(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

func containsToken(path string, tokens []string) bool {
	for _, token := range tokens {
		if token != "" && strings.Contains(path, token) {
			return true
		}
	}
	return false
}

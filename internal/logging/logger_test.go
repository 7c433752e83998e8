package logging_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"booksort/internal/logging"
	"booksort/internal/services"
)

func TestConsoleLoggerWritesComponentPrefixAndAttrs(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "console.log")

	logger, err := logging.New(logging.Options{
		Format:           "console",
		Level:            "info",
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "placer").Info("placed file",
		logging.String("outcome", "created"),
		logging.Int("files", 3),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	if !strings.Contains(line, "INFO placer: placed file") {
		t.Fatalf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "outcome=created") || !strings.Contains(line, "files=3") {
		t.Fatalf("expected attributes in console line: %q", line)
	}
}

func TestJSONLoggerEmitsLowercaseLevelAndTS(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "json.log")

	logger, err := logging.New(logging.Options{
		Format:      "json",
		Level:       "debug",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Warn("slow extraction", logging.String("file", "a.epub"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(content, &payload); err != nil {
		t.Fatalf("parse json log line %q: %v", content, err)
	}
	if payload["level"] != "warn" {
		t.Fatalf("unexpected level: %v", payload["level"])
	}
	if payload["msg"] != "slow extraction" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatal("expected ts field")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestWithContextAddsFileAndRunID(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "ctx.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithFile(context.Background(), "/books/a.epub")
	ctx = services.WithRunID(ctx, "run-123")
	logging.WithContext(ctx, logger).Info("processing")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	if !strings.Contains(line, "file=/books/a.epub") {
		t.Fatalf("expected file attribute: %q", line)
	}
	if !strings.Contains(line, "run_id=run-123") {
		t.Fatalf("expected run_id attribute: %q", line)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("should not panic", logging.Error(nil))
}

package ebookmeta

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"booksort/internal/services"
)

// Fields captures the metadata booksort reads from ebook-meta output.
// Either field may be empty when the tool does not report it.
type Fields struct {
	Title  string
	Author string
}

// Executor abstracts command execution for testability.
type Executor interface {
	Output(ctx context.Context, binary string, args []string) (string, error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps calibre's ebook-meta CLI.
type Client struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// New constructs an ebook-meta client. A timeout of zero disables the
// per-invocation deadline.
func New(binary string, timeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ebook-meta binary required")
	}
	client := &Client{
		binary:  binary,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

var (
	titleRx  = regexp.MustCompile(`(?m)^Title\s*:\s*(.+)$`)
	authorRx = regexp.MustCompile(`(?m)^Author\(s\)\s*:\s*(.+)$`)
)

// Extract runs ebook-meta against path and scans its output for the Title
// and Author(s) lines. A failed invocation returns a wrapped external tool
// error; unsupported output simply yields empty fields.
func (c *Client) Extract(ctx context.Context, path string) (Fields, error) {
	if strings.TrimSpace(path) == "" {
		return Fields{}, services.Wrap(services.ErrValidation, "ebookmeta", "extract", "file path required", nil)
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	out, err := c.exec.Output(runCtx, c.binary, []string{path})
	if err != nil {
		return Fields{}, services.Wrap(services.ErrExternalTool, "ebookmeta", "extract", fmt.Sprintf("run %s", c.binary), err)
	}
	return parseFields(out), nil
}

func parseFields(out string) Fields {
	var fields Fields
	if m := titleRx.FindStringSubmatch(out); m != nil {
		fields.Title = strings.TrimSpace(m[1])
	}
	if m := authorRx.FindStringSubmatch(out); m != nil {
		fields.Author = strings.TrimSpace(m[1])
	}
	return fields
}

type commandExecutor struct{}

func (commandExecutor) Output(ctx context.Context, binary string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("%w: %s", err, firstLine(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return s
}

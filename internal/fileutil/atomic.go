// Package fileutil provides filesystem helpers for writing exported shard
// and share bundles without ever leaving a half-written file behind.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrEmptyPath indicates an empty file path was provided.
var ErrEmptyPath = errors.New("path is empty")

// ErrShortWrite indicates the temp file received fewer bytes than the
// bundle payload, which would otherwise silently truncate a shard or
// share bundle on disk.
var ErrShortWrite = errors.New("short write to temp file")

// WriteAtomic writes a bundle payload to path without ever exposing a
// partially written file: it stages the bytes in a temp file next to the
// destination, syncs that file, renames it into place, then syncs the
// directory entry. A reader opening path either sees the previous complete
// bundle or the new one, never a truncated one.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	if path == "" {
		return ErrEmptyPath
	}

	dir := filepath.Dir(path)
	tmp, err := stageTempFile(dir, filepath.Base(path), data, perm)
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp) }()

	if err := os.Rename(tmp, path); err != nil { //nolint:gosec // G703: path is validated by caller, not from user input
		return fmt.Errorf("renaming temp file: %w", err)
	}

	syncDir(dir)
	return nil
}

// stageTempFile writes data to a new temp file under dir, fsyncs it, and
// returns its path. The caller is responsible for renaming (or removing)
// the returned path.
func stageTempFile(dir, base string, data []byte, perm os.FileMode) (string, error) {
	tmpFile, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if closeErr := writeStagedFile(tmpFile, data, perm); closeErr != nil {
		_ = os.Remove(tmpPath)
		return "", closeErr
	}

	return tmpPath, nil
}

// writeStagedFile writes data into an already-open temp file, sets its
// permissions, fsyncs it, and closes it.
func writeStagedFile(f *os.File, data []byte, perm os.FileMode) error {
	n, err := f.Write(data)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if n != len(data) {
		_ = f.Close()
		return fmt.Errorf("%w: wrote %d of %d bytes", ErrShortWrite, n, len(data))
	}

	if err := f.Chmod(perm); err != nil {
		_ = f.Close()
		return fmt.Errorf("setting temp file permissions: %w", err)
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	return nil
}

// syncDir best-effort fsyncs a directory entry so a completed rename
// survives a crash; failure here is not fatal since the rename itself
// already succeeded.
func syncDir(dir string) {
	dirFile, err := os.Open(dir) //nolint:gosec // G304: dir is derived from validated path
	if err != nil {
		return
	}
	_ = dirFile.Sync()
	_ = dirFile.Close()
}

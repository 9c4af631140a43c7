// Package filex has small filesystem helpers.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureParentDir creates the directory that will hold the file at path.
// Relative paths are resolved against the working directory. The returned
// string is the absolute directory.
func EnsureParentDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", path, err)
	}

	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// IsFilePath reports whether a SQLite DSN names a plain file, as opposed to
// an in-memory database or a "file:" URI.
func IsFilePath(dsn string) bool {
	if dsn == "" || dsn == ":memory:" {
		return false
	}
	return !strings.HasPrefix(dsn, "file:")
}

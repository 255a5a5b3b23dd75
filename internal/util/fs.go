package util

import (
	"fmt"
	"os"
)

// EnsureDir creates the directory and any missing parents. Used for the
// per-user upload tree.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}

package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFile streams r into dst, creating parent directories as needed.
func WriteFile(dst string, r io.Reader) error {
	if dst == "" {
		return fmt.Errorf("empty destination path")
	}
	if _, err := os.Stat(filepath.Dir(dst)); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(dst), 0777); err != nil {
			return fmt.Errorf("preparing %q: %w", filepath.Dir(dst), err)
		}
	}
	dstf, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("creating %q: %w", dst, err)
	}
	defer dstf.Close()
	if _, err := io.Copy(dstf, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}

package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Finder collects files by extension.
type Finder struct {
	// Root folder to start search from.
	Root string
	// Extensions to match, lower case with leading dot. Empty matches all.
	Extensions []string
	// Recursive descends into subdirectories when set.
	Recursive bool
}

// Find returns the paths of all matching files under the root, in file
// system walk order.
func (f Finder) Find() ([]string, error) {
	var found []string
	err := filepath.Walk(f.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if !f.Recursive && path != f.Root {
				return filepath.SkipDir
			}
			return nil
		}
		if f.matches(info.Name()) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking: %w", err)
	}
	return found, nil
}

func (f Finder) matches(name string) bool {
	if len(f.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range f.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

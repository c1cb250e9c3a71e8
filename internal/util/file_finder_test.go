package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFinder(t *testing.T) {
	root := t.TempDir()
	files := []string{
		"logo.png",
		"photo.JPG",
		"notes.txt",
		filepath.Join("nested", "icon.svg"),
	}
	for _, name := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
			t.Fatalf("preparing fixture: %v", err)
		}
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}
	}

	found, err := Finder{
		Root:       root,
		Extensions: []string{".png", ".jpg", ".svg"},
		Recursive:  true,
	}.Find()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := len(found), 3; got != want {
		t.Fatalf("recursive matches got=%d (%v), want=%d", got, found, want)
	}

	flat, err := Finder{
		Root:       root,
		Extensions: []string{".png", ".jpg", ".svg"},
	}.Find()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := len(flat), 2; got != want {
		t.Fatalf("non-recursive matches got=%d (%v), want=%d", got, flat, want)
	}
}

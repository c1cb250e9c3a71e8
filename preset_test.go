package iconpack

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func writeTempFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

// captureArchiver records the files handed to it instead of producing a
// real archive.
type captureArchiver struct {
	files []ArchiveFile
}

func (c *captureArchiver) Package(files []ArchiveFile) ([]byte, error) {
	c.files = append([]ArchiveFile(nil), files...)
	return []byte("archive"), nil
}

func (c *captureArchiver) names() []string {
	names := make([]string, len(c.files))
	for i, f := range c.files {
		names[i] = f.Name
	}
	return names
}

func testPackager(archiver Archiver) *Packager {
	return &Packager{
		Pipeline: &Pipeline{
			Registry:   NewRegistry(),
			Rasterizer: &fakeRasterizer{Alpha: 0xff},
		},
		Archiver: archiver,
		Now:      func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) },
	}
}

func TestPackageFavicon(t *testing.T) {
	archiver := &captureArchiver{}
	packager := testPackager(archiver)

	blob, err := packager.Package(context.Background(), File{
		Name: "logo.png",
		MIME: "image/png",
		Data: pngFixture(t, 2),
	}, Presets()["favicon"])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := blob.Name, "logo-favicon-2026-03-14.zip"; got != want {
		t.Errorf("archive name got=%q, want=%q", got, want)
	}
	if got, want := blob.MIME, "application/zip"; got != want {
		t.Errorf("archive mime got=%q, want=%q", got, want)
	}
	names := archiver.names()
	for _, want := range []string{"favicon-16.png", "favicon-32.png", "favicon-48.png", "logo.ico", "README.txt"} {
		if !contains(names, want) {
			t.Errorf("archive missing %q, have %v", want, names)
		}
	}
	// The usage note lists every packaged file.
	var readme string
	for _, f := range archiver.files {
		if f.Name == "README.txt" {
			readme = string(f.Data)
		}
	}
	if !strings.Contains(readme, "favicon-16.png") || !strings.Contains(readme, "logo.ico") {
		t.Errorf("readme does not list the outputs: %q", readme)
	}
}

func TestPackageNestedLayout(t *testing.T) {
	archiver := &captureArchiver{}
	packager := testPackager(archiver)

	_, err := packager.Package(context.Background(), File{
		Name: "logo.png",
		MIME: "image/png",
		Data: pngFixture(t, 2),
	}, Preset{
		ID:       "custom",
		Name:     "Custom",
		Sizes:    []int{16, 64},
		Strategy: FolderNested,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := archiver.names()
	for _, want := range []string{"16x16/icon-16.png", "64x64/icon-64.png"} {
		if !contains(names, want) {
			t.Errorf("archive missing %q, have %v", want, names)
		}
	}
}

func TestPackagePlatformPaths(t *testing.T) {
	archiver := &captureArchiver{}
	packager := testPackager(archiver)

	_, err := packager.Package(context.Background(), File{
		Name: "logo.png",
		MIME: "image/png",
		Data: pngFixture(t, 2),
	}, Presets()["android"])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := archiver.names()
	for _, want := range []string{"mipmap-mdpi/ic_launcher.png", "mipmap-xxxhdpi/ic_launcher.png", "playstore-icon.png"} {
		if !contains(names, want) {
			t.Errorf("archive missing %q, have %v", want, names)
		}
	}
}

func TestPackageWindowsSyso(t *testing.T) {
	archiver := &captureArchiver{}
	packager := testPackager(archiver)

	_, err := packager.Package(context.Background(), File{
		Name: "app.png",
		MIME: "image/png",
		Data: pngFixture(t, 2),
	}, Presets()["windows"])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := archiver.names()
	for _, want := range []string{"app.ico", "rsrc_windows_amd64.syso"} {
		if !contains(names, want) {
			t.Errorf("archive missing %q, have %v", want, names)
		}
	}
}

func TestPackageRejectsUnsupported(t *testing.T) {
	packager := testPackager(&captureArchiver{})
	_, err := packager.Package(context.Background(), File{
		Name: "notes.txt",
		MIME: "text/plain",
	}, Presets()["favicon"])
	if !IsKind(err, UnsupportedFormat) {
		t.Fatalf("error got=%v, want UnsupportedFormat", err)
	}
}

func TestPackageResults(t *testing.T) {
	archiver := &captureArchiver{}
	results := []*Result{
		{Blobs: []Blob{{Name: "a.ico", Data: []byte{1}}}},
		nil, // failed item
		{Blobs: []Blob{{Name: "b.ico", Data: []byte{2}}}},
	}
	blob, err := PackageResults(archiver, results, "ico", time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := blob.Name, "batch-ico-conversion-2026-03-14.zip"; got != want {
		t.Errorf("archive name got=%q, want=%q", got, want)
	}
	if got, want := len(archiver.files), 2; got != want {
		t.Errorf("archive entry count got=%d, want=%d", got, want)
	}
}

func TestLoadPresetsOverride(t *testing.T) {
	path := t.TempDir() + "/presets.yaml"
	config := `presets:
  - id: kiosk
    name: Kiosk signage
    sizes: [128, 512]
    pattern: kiosk-{size}.png
    strategy: nested
  - id: favicon
    name: Tiny favicon
    sizes: [16]
`
	if err := writeTempFile(path, config); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	presets, err := LoadPresets(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	kiosk, ok := presets["kiosk"]
	if !ok {
		t.Fatal("custom preset not loaded")
	}
	if got, want := kiosk.pathFor(128), "128x128/kiosk-128.png"; got != want {
		t.Errorf("custom path got=%q, want=%q", got, want)
	}
	if got, want := len(presets["favicon"].Sizes), 1; got != want {
		t.Errorf("stock preset not overridden: sizes got=%d, want=%d", got, want)
	}
	// Stock presets survive alongside custom ones.
	if _, ok := presets["macos"]; !ok {
		t.Error("stock presets missing after load")
	}
}

func TestLoadPresetsRejectsBadSizes(t *testing.T) {
	path := t.TempDir() + "/presets.yaml"
	config := `presets:
  - id: broken
    name: Broken
    sizes: [4096]
`
	if err := writeTempFile(path, config); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := LoadPresets(path); err == nil {
		t.Fatal("expected an error for out-of-range sizes")
	}
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

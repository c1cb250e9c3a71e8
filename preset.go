package iconpack

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackmordaunt/icns"

	"git.sr.ht/~jackmordaunt/iconpack/ico"
	"git.sr.ht/~jackmordaunt/iconpack/internal/syso"
	"git.sr.ht/~jackmordaunt/iconpack/raster"
)

// FolderStrategy controls how per-size outputs are laid out inside a preset
// archive.
type FolderStrategy string

const (
	// FolderFlat puts every output at the archive root.
	FolderFlat FolderStrategy = "flat"
	// FolderNested puts each size under its own <size>x<size> directory.
	FolderNested FolderStrategy = "nested"
	// FolderPlatform uses the preset's explicit per-size paths.
	FolderPlatform FolderStrategy = "platform"
)

// Preset maps a named platform profile to concrete sizes, filenames and
// extra outputs.
type Preset struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Sizes []int  `yaml:"sizes"`
	// Pattern names per-size files; the {size} token expands to the edge
	// length. Defaults to "icon-{size}.png".
	Pattern  string         `yaml:"pattern"`
	Strategy FolderStrategy `yaml:"strategy"`
	// Paths overrides the file path per size under the platform strategy.
	Paths map[int]string `yaml:"paths"`
	// ICOSizes, when non-empty, adds a multi-resolution ICO of those sizes.
	ICOSizes []int `yaml:"ico_sizes"`
	// ICNS adds an Apple icon container of the largest produced size.
	ICNS bool `yaml:"icns"`
	// Syso embeds the ICO into a COFF resource object for the Go linker.
	Syso bool `yaml:"syso"`
}

// pathFor places one size's output within the archive.
func (p Preset) pathFor(size int) string {
	if path, ok := p.Paths[size]; ok {
		return expandSize(path, size)
	}
	pattern := p.Pattern
	if pattern == "" {
		pattern = "icon-{size}.png"
	}
	name := expandSize(pattern, size)
	if p.Strategy == FolderNested {
		return fmt.Sprintf("%dx%d/%s", size, size, name)
	}
	return name
}

func expandSize(pattern string, size int) string {
	return strings.ReplaceAll(pattern, "{size}", strconv.Itoa(size))
}

// Presets returns the stock platform profiles keyed by id.
func Presets() map[string]Preset {
	presets := []Preset{
		{
			ID:       "favicon",
			Name:     "Website favicon",
			Sizes:    []int{16, 32, 48},
			Pattern:  "favicon-{size}.png",
			Strategy: FolderFlat,
			ICOSizes: []int{16, 32, 48},
		},
		{
			ID:       "web",
			Name:     "Web app icons",
			Sizes:    []int{16, 32, 48, 64, 96, 128, 192, 256, 512},
			Strategy: FolderNested,
			ICOSizes: []int{16, 32, 48},
		},
		{
			ID:       "windows",
			Name:     "Windows application icon",
			Sizes:    []int{16, 24, 32, 48, 64, 128, 256},
			Strategy: FolderFlat,
			ICOSizes: []int{16, 24, 32, 48, 64, 128, 256},
			Syso:     true,
		},
		{
			ID:       "macos",
			Name:     "macOS application icon",
			Sizes:    []int{16, 32, 64, 128, 256, 512, 1024},
			Strategy: FolderNested,
			ICNS:     true,
		},
		{
			ID:       "android",
			Name:     "Android launcher icons",
			Sizes:    []int{48, 72, 96, 144, 192, 512},
			Strategy: FolderPlatform,
			Paths: map[int]string{
				48:  "mipmap-mdpi/ic_launcher.png",
				72:  "mipmap-hdpi/ic_launcher.png",
				96:  "mipmap-xhdpi/ic_launcher.png",
				144: "mipmap-xxhdpi/ic_launcher.png",
				192: "mipmap-xxxhdpi/ic_launcher.png",
				512: "playstore-icon.png",
			},
		},
		{
			ID:       "ios",
			Name:     "iOS app icons",
			Sizes:    []int{20, 29, 40, 58, 60, 76, 80, 87, 120, 152, 167, 180, 1024},
			Pattern:  "AppIcon-{size}.png",
			Strategy: FolderFlat,
		},
		{
			ID:       "linux",
			Name:     "Linux hicolor icons",
			Sizes:    []int{16, 24, 32, 48, 64, 128, 256, 512},
			Strategy: FolderPlatform,
			Paths: map[int]string{
				16:  "hicolor/16x16/apps/icon.png",
				24:  "hicolor/24x24/apps/icon.png",
				32:  "hicolor/32x32/apps/icon.png",
				48:  "hicolor/48x48/apps/icon.png",
				64:  "hicolor/64x64/apps/icon.png",
				128: "hicolor/128x128/apps/icon.png",
				256: "hicolor/256x256/apps/icon.png",
				512: "hicolor/512x512/apps/icon.png",
			},
		},
	}
	out := make(map[string]Preset, len(presets))
	for _, p := range presets {
		out[p.ID] = p
	}
	return out
}

// Packager drives the conversion pipeline for a preset and hands the
// outputs to the archive collaborator.
type Packager struct {
	Pipeline *Pipeline
	Archiver Archiver
	Log      *log.Logger
	// Now stamps archive names; defaults to time.Now.
	Now func() time.Time
}

// Package converts the file at every preset size and returns the packaged
// archive blob. Rasterizations are shared across the per-size, ICO, ICNS
// and syso outputs rather than regenerated per output.
func (p *Packager) Package(ctx context.Context, f File, preset Preset) (Blob, error) {
	sizes, err := NormalizeSizes(preset.Sizes)
	if err != nil {
		return Blob{}, err
	}
	format, ok := p.Pipeline.Registry.Detect(f)
	if !ok {
		return Blob{}, failf(UnsupportedFormat, "unsupported format: %q", f.Name)
	}
	if int64(len(f.Data)) > format.MaxBytes {
		return Blob{}, failf(OversizedFile, "%s files must be under %dMB", format.Name, format.limitMB())
	}
	src, err := p.decode(f, format)
	if err != nil {
		return Blob{}, &Failure{
			Kind:    UnsupportedFormat,
			Message: fmt.Sprintf("could not read %q as %s", f.Name, format.Name),
			Cause:   err,
		}
	}
	if err := ctx.Err(); err != nil {
		return Blob{}, err
	}
	resampler := &Resampler{Rasterizer: p.Pipeline.Rasterizer, Log: p.Log}
	fragments, err := resampler.Resample(src, sizes, format.Transparency)
	if err != nil {
		return Blob{}, err
	}
	if err := ctx.Err(); err != nil {
		return Blob{}, err
	}

	var files []ArchiveFile
	bySize := make(map[int]Fragment, len(fragments))
	for _, frag := range fragments {
		bySize[frag.Size] = frag
		files = append(files, ArchiveFile{Name: preset.pathFor(frag.Size), Data: frag.PNG})
	}
	if len(preset.ICOSizes) > 0 {
		icoData, err := encodePresetICO(preset.ICOSizes, bySize)
		if err != nil {
			return Blob{}, err
		}
		files = append(files, ArchiveFile{Name: f.Stem() + ".ico", Data: icoData})
		if preset.Syso {
			buffer := bytes.NewBuffer(nil)
			if err := syso.Embed(buffer, "amd64", icoData); err != nil {
				return Blob{}, &Failure{
					Kind:    EncodeFailed,
					Message: "could not build the windows resource object",
					Cause:   err,
				}
			}
			files = append(files, ArchiveFile{Name: "rsrc_windows_amd64.syso", Data: buffer.Bytes()})
		}
	}
	if preset.ICNS {
		largest := fragments[0]
		for _, frag := range fragments[1:] {
			if frag.Size > largest.Size {
				largest = frag
			}
		}
		buffer := bytes.NewBuffer(nil)
		if err := icns.Encode(buffer, largest.Img); err != nil {
			return Blob{}, &Failure{
				Kind:    EncodeFailed,
				Message: "could not encode the icns container",
				Cause:   err,
			}
		}
		files = append(files, ArchiveFile{Name: f.Stem() + ".icns", Data: buffer.Bytes()})
	}
	files = append(files, ArchiveFile{Name: "README.txt", Data: []byte(readme(f, preset, files))})

	data, err := p.Archiver.Package(files)
	if err != nil {
		return Blob{}, err
	}
	return Blob{
		Name: fmt.Sprintf("%s-%s-%s.zip", f.Stem(), preset.ID, p.date()),
		MIME: "application/zip",
		Data: data,
	}, nil
}

func (p *Packager) decode(f File, format Format) (*raster.Source, error) {
	if format.Vector {
		return raster.DecodeVector(f.Data)
	}
	return raster.DecodeRaster(f.Data)
}

func (p *Packager) date() string {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	return now().Format("2006-01-02")
}

// encodePresetICO assembles the ICO from already rendered fragments,
// descending by size. Sizes that failed to rasterize are skipped.
func encodePresetICO(wanted []int, bySize map[int]Fragment) ([]byte, error) {
	sizes := append([]int(nil), wanted...)
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))
	var entries []ico.Entry
	for _, size := range sizes {
		if frag, ok := bySize[size]; ok {
			entries = append(entries, ico.Entry{Size: frag.Size, PNG: frag.PNG})
		}
	}
	buffer := bytes.NewBuffer(nil)
	if err := ico.Encode(buffer, entries); err != nil {
		return nil, &Failure{
			Kind:    EncodeFailed,
			Message: fmt.Sprintf("encode failed: %v", err),
			Cause:   err,
		}
	}
	return buffer.Bytes(), nil
}

// PackageResults zips the blobs of a batch run into a single archive named
// after the output format.
func PackageResults(a Archiver, results []*Result, format string, now time.Time) (Blob, error) {
	var files []ArchiveFile
	for _, result := range results {
		if result == nil {
			continue
		}
		for _, blob := range result.Blobs {
			files = append(files, ArchiveFile{Name: blob.Name, Data: blob.Data})
		}
	}
	data, err := a.Package(files)
	if err != nil {
		return Blob{}, err
	}
	return Blob{
		Name: fmt.Sprintf("batch-%s-conversion-%s.zip", format, now.Format("2006-01-02")),
		MIME: "application/zip",
		Data: data,
	}, nil
}

func readme(f File, preset Preset, files []ArchiveFile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", preset.Name)
	fmt.Fprintf(&b, "Generated from %s.\n\n", f.Name)
	b.WriteString("Contents:\n")
	for _, file := range files {
		fmt.Fprintf(&b, "  %s\n", file.Name)
	}
	b.WriteString("\nCopy the files into your project keeping the folder layout.\n")
	return b.String()
}

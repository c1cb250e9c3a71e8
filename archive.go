package iconpack

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// ArchiveFile is one entry destined for an archive. Name is a forward-slash
// separated path within the archive.
type ArchiveFile struct {
	Name string
	Data []byte
}

// Archiver packages files into a single archive byte blob. The archive
// layout and compression are the collaborator's concern; the core only
// hands over named files.
type Archiver interface {
	Package(files []ArchiveFile) ([]byte, error)
}

// ZipArchiver packages files as a zip archive.
type ZipArchiver struct {
	// Level is the deflate compression level. Zero means default.
	Level int
}

// Package implements Archiver.
func (z ZipArchiver) Package(files []ArchiveFile) ([]byte, error) {
	if len(files) == 0 {
		return nil, failf(ArchivePackagingFailed, "no files to package")
	}
	level := z.Level
	if level == 0 {
		level = flate.DefaultCompression
	}
	buffer := bytes.NewBuffer(nil)
	zw := zip.NewWriter(buffer)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})
	for _, file := range files {
		w, err := zw.Create(file.Name)
		if err != nil {
			return nil, wrapArchiveErr(fmt.Errorf("creating %q: %w", file.Name, err))
		}
		if _, err := w.Write(file.Data); err != nil {
			return nil, wrapArchiveErr(fmt.Errorf("writing %q: %w", file.Name, err))
		}
	}
	if err := zw.Close(); err != nil {
		return nil, wrapArchiveErr(fmt.Errorf("finalizing archive: %w", err))
	}
	return buffer.Bytes(), nil
}

func wrapArchiveErr(err error) error {
	return &Failure{
		Kind:    ArchivePackagingFailed,
		Message: "could not package the archive",
		Cause:   err,
	}
}

// Package ico encodes and decodes the ICO icon container format: a six byte
// header, a directory of 16 byte entries, then the concatenated per-size
// image payloads.
// Originally modified from https://github.com/wailsapp/wails project.
package ico

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Entry pairs a square pixel size with its PNG-encoded payload.
type Entry struct {
	Size int
	PNG  []byte
}

type header struct {
	_          uint16
	imageType  uint16
	imageCount uint16
}

type descriptor struct {
	width  uint8
	height uint8
	_      uint8 // colors
	_      uint8
	planes uint16
	bpp    uint16
	size   uint32
	offset uint32
}

// HeaderSize is the byte length of the container header.
const HeaderSize = 6

// EntrySize is the byte length of one directory entry.
const EntrySize = 16

// Encode writes the entries as a single ICO container in the given order.
// Sizes of 256 and above are stored as 0 in the directory per the format.
func Encode(dst io.Writer, entries []Entry) error {
	if len(entries) == 0 {
		return fmt.Errorf("no image data to encode")
	}
	if err := binary.Write(dst, binary.LittleEndian, header{
		imageType:  1,
		imageCount: uint16(len(entries)),
	}); err != nil {
		return fmt.Errorf("writing ico header: %w", err)
	}
	offset := uint32(HeaderSize + EntrySize*len(entries))
	for _, entry := range entries {
		edge := entry.Size
		if edge >= 256 {
			edge = 0
		}
		if err := binary.Write(dst, binary.LittleEndian, descriptor{
			width:  uint8(edge),
			height: uint8(edge),
			planes: 1,
			bpp:    32,
			size:   uint32(len(entry.PNG)),
			offset: offset,
		}); err != nil {
			return fmt.Errorf("writing icon directory: %w", err)
		}
		offset += uint32(len(entry.PNG))
	}
	for _, entry := range entries {
		if _, err := dst.Write(entry.PNG); err != nil {
			return fmt.Errorf("writing icon data: %w", err)
		}
	}
	return nil
}

package ico

import (
	"encoding/binary"
	"fmt"
)

// DirEntry is a parsed directory entry.
type DirEntry struct {
	Width      uint8
	Height     uint8
	ColorCount uint8
	Reserved   uint8
	Planes     uint16
	BitCount   uint16
	BytesInRes uint32
	Offset     uint32
}

// Edge returns the pixel edge length, mapping the stored 0 back to 256.
func (e DirEntry) Edge() int {
	if e.Width == 0 {
		return 256
	}
	return int(e.Width)
}

// DecodeDir parses and validates the header and directory of an ICO buffer.
func DecodeDir(data []byte) ([]DirEntry, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("ico too short for header: %d bytes", len(data))
	}
	if reserved := binary.LittleEndian.Uint16(data[0:2]); reserved != 0 {
		return nil, fmt.Errorf("ico reserved field must be 0, got %d", reserved)
	}
	if imageType := binary.LittleEndian.Uint16(data[2:4]); imageType != 1 {
		return nil, fmt.Errorf("ico type must be 1, got %d", imageType)
	}
	count := int(binary.LittleEndian.Uint16(data[4:6]))
	if count == 0 {
		return nil, fmt.Errorf("ico contains no images")
	}
	if len(data) < HeaderSize+count*EntrySize {
		return nil, fmt.Errorf("ico too short for %d directory entries", count)
	}
	entries := make([]DirEntry, count)
	for i := range entries {
		b := data[HeaderSize+i*EntrySize:]
		entries[i] = DirEntry{
			Width:      b[0],
			Height:     b[1],
			ColorCount: b[2],
			Reserved:   b[3],
			Planes:     binary.LittleEndian.Uint16(b[4:6]),
			BitCount:   binary.LittleEndian.Uint16(b[6:8]),
			BytesInRes: binary.LittleEndian.Uint32(b[8:12]),
			Offset:     binary.LittleEndian.Uint32(b[12:16]),
		}
		end := int64(entries[i].Offset) + int64(entries[i].BytesInRes)
		if end > int64(len(data)) {
			return nil, fmt.Errorf("ico entry %d overruns buffer: ends at %d of %d", i, end, len(data))
		}
	}
	return entries, nil
}

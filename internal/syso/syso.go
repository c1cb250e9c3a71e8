// Package syso embeds an ICO container into a COFF resource object for
// consumption by the Go linker.
package syso

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"reflect"

	"github.com/akavel/rsrc/binutil"
	"github.com/akavel/rsrc/coff"
	"github.com/akavel/rsrc/ico"
)

// Embed writes a .syso resource object containing the icons of the given
// ICO container bytes.
func Embed(out io.Writer, arch string, icoData []byte) error {
	nextID := idGenerator()
	coffData := coff.NewRSRC()
	if err := coffData.Arch(arch); err != nil {
		return fmt.Errorf("selecting arch: %w", err)
	}
	if err := addIcon(coffData, icoData, nextID); err != nil {
		return fmt.Errorf("adding icon: %w", err)
	}
	coffData.Freeze()
	return write(coffData, out)
}

// on storing icons, see: http://blogs.msdn.com/b/oldnewthing/archive/2012/07/20/10331787.aspx
type iconGroup struct {
	ico.ICONDIR
	Entries []iconEntry
}

func (group iconGroup) Size() int64 {
	return int64(binary.Size(group.ICONDIR) + len(group.Entries)*binary.Size(group.Entries[0]))
}

type iconEntry struct {
	ico.IconDirEntryCommon
	Id uint16
}

func addIcon(out *coff.Coff, icoData []byte, newid func() uint16) error {
	r := bytes.NewReader(icoData)
	icons, err := ico.DecodeHeaders(r)
	if err != nil {
		return fmt.Errorf("decoding header: %w", err)
	}
	if len(icons) > 0 {
		// RT_ICONs
		group := iconGroup{ICONDIR: ico.ICONDIR{
			Reserved: 0, // magic num.
			Type:     1, // magic num.
			Count:    uint16(len(icons)),
		}}
		for _, icon := range icons {
			id := newid()
			out.AddResource(coff.RT_ICON, id, io.NewSectionReader(r, int64(icon.ImageOffset), int64(icon.BytesInRes)))
			group.Entries = append(group.Entries, iconEntry{icon.IconDirEntryCommon, id})
		}
		out.AddResource(coff.RT_GROUP_ICON, newid(), group)
	}
	return nil
}

func write(coffData *coff.Coff, out io.Writer) error {
	w := binutil.Writer{W: out}
	if err := binutil.Walk(coffData, func(v reflect.Value, path string) error {
		if binutil.Plain(v.Kind()) {
			w.WriteLE(v.Interface())
			return nil
		}
		vv, ok := v.Interface().(binutil.SizedReader)
		if ok {
			w.WriteFromSized(vv)
			return binutil.WALK_SKIP
		}
		return nil
	}); err != nil {
		return fmt.Errorf("walking coff: %w", err)
	}
	if w.Err != nil {
		return fmt.Errorf("writing output: %s", w.Err)
	}
	return nil
}

func idGenerator() func() uint16 {
	id := uint16(0)
	return func() uint16 {
		id++
		return id
	}
}

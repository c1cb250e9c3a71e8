// Package svg builds scalable sprite documents: one addressable symbol per
// size, each with its own viewbox, plus a default visible instance
// referencing the largest size.
package svg

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// Fragment is one per-size definition. Exactly one of Markup or PNG is set:
// vector fragments carry the source markup re-scoped to their own viewbox,
// raster fragments are embedded as PNG images sized to the target edge.
type Fragment struct {
	Size    int
	Markup  string
	ViewBox string
	PNG     []byte
}

// Metadata is stamped into the document header comment.
type Metadata struct {
	Title  string
	Source string
}

// minStroke is the smallest stroke width kept legible in small symbols.
const minStroke = 1.0

// strokeCutoff is the edge length at and below which hair-thin strokes are
// widened.
const strokeCutoff = 32

// EncodeSprite writes one combined document containing every fragment as an
// independently addressable symbol. The default instance references the
// largest size.
func EncodeSprite(w io.Writer, fragments []Fragment, meta Metadata) error {
	if len(fragments) == 0 {
		return fmt.Errorf("no fragments to encode")
	}
	largest := fragments[0]
	for _, f := range fragments[1:] {
		if f.Size > largest.Size {
			largest = f
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "<svg xmlns=\"http://www.w3.org/2000/svg\" xmlns:xlink=\"http://www.w3.org/1999/xlink\" viewBox=\"0 0 %d %d\">\n", largest.Size, largest.Size)
	writeHeader(&b, meta)
	b.WriteString("<defs>\n")
	for _, f := range fragments {
		if err := writeSymbol(&b, f); err != nil {
			return err
		}
	}
	b.WriteString("</defs>\n")
	fmt.Fprintf(&b, "<use xlink:href=\"#icon-%d\" href=\"#icon-%d\" width=\"%d\" height=\"%d\"/>\n", largest.Size, largest.Size, largest.Size, largest.Size)
	b.WriteString("</svg>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// EncodeStandalone writes one self-contained document for a single size,
// used when each size is downloaded as its own file.
func EncodeStandalone(w io.Writer, f Fragment, meta Metadata) error {
	var b strings.Builder
	viewBox := f.ViewBox
	if viewBox == "" || f.PNG != nil {
		viewBox = fmt.Sprintf("0 0 %d %d", f.Size, f.Size)
	}
	fmt.Fprintf(&b, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%d\" height=\"%d\" viewBox=\"%s\">\n", f.Size, f.Size, viewBox)
	writeHeader(&b, meta)
	if err := writeContent(&b, f); err != nil {
		return err
	}
	b.WriteString("</svg>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeHeader(b *strings.Builder, meta Metadata) {
	if meta.Title == "" && meta.Source == "" {
		return
	}
	b.WriteString("<!-- ")
	if meta.Title != "" {
		b.WriteString(escape(meta.Title))
	}
	if meta.Source != "" {
		if meta.Title != "" {
			b.WriteString(" | ")
		}
		fmt.Fprintf(b, "source: %s", escape(meta.Source))
	}
	b.WriteString(" -->\n")
}

func writeSymbol(b *strings.Builder, f Fragment) error {
	viewBox := f.ViewBox
	if viewBox == "" || f.PNG != nil {
		viewBox = fmt.Sprintf("0 0 %d %d", f.Size, f.Size)
	}
	fmt.Fprintf(b, "<symbol id=\"icon-%d\" viewBox=\"%s\">\n", f.Size, viewBox)
	if err := writeContent(b, f); err != nil {
		return err
	}
	b.WriteString("</symbol>\n")
	return nil
}

func writeContent(b *strings.Builder, f Fragment) error {
	if f.PNG != nil {
		encoded := base64.StdEncoding.EncodeToString(f.PNG)
		fmt.Fprintf(b, "<image width=\"%d\" height=\"%d\" href=\"data:image/png;base64,%s\"/>\n", f.Size, f.Size, encoded)
		return nil
	}
	if f.Markup == "" {
		return fmt.Errorf("fragment for size %d has no content", f.Size)
	}
	markup := f.Markup
	if f.Size <= strokeCutoff {
		markup = normalizeStrokes(markup, minStroke)
	}
	b.WriteString(markup)
	if !strings.HasSuffix(markup, "\n") {
		b.WriteString("\n")
	}
	return nil
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "--", "- -")
	return s
}

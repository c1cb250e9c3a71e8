package iconpack

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"testing"

	"git.sr.ht/~jackmordaunt/iconpack/ico"
	"git.sr.ht/~jackmordaunt/iconpack/raster"
)

// pngFixture renders a solid opaque square and encodes it as PNG bytes.
func pngFixture(t *testing.T, size int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xc0
		img.Pix[i+3] = 0xff
	}
	buffer := bytes.NewBuffer(nil)
	if err := png.Encode(buffer, img); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return buffer.Bytes()
}

// TestConvertICOEndToEnd runs a real conversion: a 1×1 opaque PNG at sizes
// 16 and 32 must produce a two entry ICO whose payloads partition the file.
func TestConvertICOEndToEnd(t *testing.T) {
	pipeline := NewPipeline()
	result, err := pipeline.Convert(context.Background(), Request{
		File:   File{Name: "dot.png", MIME: "image/png", Data: pngFixture(t, 1)},
		Sizes:  []int{16, 32},
		Target: TargetICO,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := len(result.Blobs), 1; got != want {
		t.Fatalf("blob count got=%d, want=%d", got, want)
	}
	blob := result.Blobs[0]
	if got, want := blob.Name, "dot.ico"; got != want {
		t.Errorf("blob name got=%q, want=%q", got, want)
	}
	if got, want := blob.MIME, "image/x-icon"; got != want {
		t.Errorf("blob mime got=%q, want=%q", got, want)
	}
	dir, err := ico.DecodeDir(blob.Data)
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if got, want := len(dir), 2; got != want {
		t.Fatalf("directory count got=%d, want=%d", got, want)
	}
	if dir[0].Edge() != 16 || dir[1].Edge() != 32 {
		t.Errorf("directory sizes got=%d,%d, want=16,32", dir[0].Edge(), dir[1].Edge())
	}
	total := ico.HeaderSize + ico.EntrySize*len(dir)
	for _, entry := range dir {
		total += int(entry.BytesInRes)
	}
	if got, want := len(blob.Data), total; got != want {
		t.Errorf("total length got=%d, want=%d", got, want)
	}
	// Payloads must themselves decode as PNGs of the declared size.
	for _, entry := range dir {
		img, err := png.Decode(bytes.NewReader(blob.Data[entry.Offset : entry.Offset+entry.BytesInRes]))
		if err != nil {
			t.Fatalf("payload for size %d is not png: %v", entry.Edge(), err)
		}
		if got, want := img.Bounds().Dx(), entry.Edge(); got != want {
			t.Errorf("payload width got=%d, want=%d", got, want)
		}
	}
}

func TestConvertRejectsBeforeEntry(t *testing.T) {
	rasterizer := &fakeRasterizer{Alpha: 0xff}
	pipeline := &Pipeline{Registry: NewRegistry(), Rasterizer: rasterizer}

	tests := []struct {
		Name string
		Req  Request
		Kind FailureKind
	}{
		{
			Name: "unsupported format",
			Req: Request{
				File:   File{Name: "notes.txt", MIME: "text/plain"},
				Sizes:  []int{16},
				Target: TargetICO,
			},
			Kind: UnsupportedFormat,
		},
		{
			Name: "size too large",
			Req: Request{
				File:   File{Name: "a.png", MIME: "image/png"},
				Sizes:  []int{2049},
				Target: TargetICO,
			},
			Kind: InvalidRequest,
		},
		{
			Name: "size zero",
			Req: Request{
				File:   File{Name: "a.png", MIME: "image/png"},
				Sizes:  []int{0},
				Target: TargetICO,
			},
			Kind: InvalidRequest,
		},
		{
			Name: "oversized file",
			Req: Request{
				File:   File{Name: "big.svg", MIME: "image/svg+xml", Data: make([]byte, 6<<20)},
				Sizes:  []int{16},
				Target: TargetICO,
			},
			Kind: OversizedFile,
		},
	}
	for _, tt := range tests {
		_, err := pipeline.Convert(context.Background(), tt.Req)
		if !IsKind(err, tt.Kind) {
			t.Errorf("%s: error got=%v, want kind %v", tt.Name, err, tt.Kind)
		}
	}
	if rasterizer.Renders != 0 {
		t.Errorf("rasterizer invoked %d times for rejected requests, want 0", rasterizer.Renders)
	}
}

func TestConvertSpriteSplit(t *testing.T) {
	pipeline := &Pipeline{
		Registry:   NewRegistry(),
		Rasterizer: &fakeRasterizer{Alpha: 0xff},
	}
	result, err := pipeline.Convert(context.Background(), Request{
		File:   File{Name: "logo.png", MIME: "image/png", Data: pngFixture(t, 2)},
		Sizes:  []int{16, 64},
		Target: TargetSpriteSplit,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := len(result.Blobs), 2; got != want {
		t.Fatalf("blob count got=%d, want=%d", got, want)
	}
	if result.Blobs[0].Name != "logo-16px.svg" || result.Blobs[1].Name != "logo-64px.svg" {
		t.Errorf("blob names got=%q,%q", result.Blobs[0].Name, result.Blobs[1].Name)
	}
	for _, blob := range result.Blobs {
		if got, want := blob.MIME, "image/svg+xml"; got != want {
			t.Errorf("blob mime got=%q, want=%q", got, want)
		}
	}
}

// TestConvertVectorSpritePassthrough ensures SVG input going to a sprite
// re-scopes the original markup instead of rasterizing it.
func TestConvertVectorSpritePassthrough(t *testing.T) {
	rasterizer := &fakeRasterizer{Alpha: 0xff}
	pipeline := &Pipeline{Registry: NewRegistry(), Rasterizer: rasterizer}
	markup := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24"><circle cx="12" cy="12" r="10"/></svg>`
	result, err := pipeline.Convert(context.Background(), Request{
		File:   File{Name: "logo.svg", MIME: "image/svg+xml", Data: []byte(markup)},
		Sizes:  []int{16, 32},
		Target: TargetSprite,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rasterizer.Renders != 0 {
		t.Errorf("rasterizer invoked %d times for vector passthrough, want 0", rasterizer.Renders)
	}
	doc := string(result.Blobs[0].Data)
	if got, want := result.Blobs[0].Name, "logo-sprite.svg"; got != want {
		t.Errorf("blob name got=%q, want=%q", got, want)
	}
	if !strings.Contains(doc, "<circle") {
		t.Error("sprite lost the source markup")
	}
	if !strings.Contains(doc, `viewBox="0 0 24 24"`) {
		t.Error("sprite symbols lost the source viewbox")
	}
}

// TestConvertProgressMilestones verifies the coarse milestones fire in
// order during a successful conversion.
func TestConvertProgressMilestones(t *testing.T) {
	pipeline := &Pipeline{
		Registry:   NewRegistry(),
		Rasterizer: &fakeRasterizer{Alpha: 0xff},
	}
	var milestones []int
	_, err := pipeline.Convert(context.Background(), Request{
		File:     File{Name: "dot.png", MIME: "image/png", Data: pngFixture(t, 1)},
		Sizes:    []int{16},
		Target:   TargetICO,
		Progress: func(percent int) { milestones = append(milestones, percent) },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{10, 50, 100}
	if len(milestones) != len(want) {
		t.Fatalf("milestones got=%v, want=%v", milestones, want)
	}
	for i := range want {
		if milestones[i] != want[i] {
			t.Fatalf("milestones got=%v, want=%v", milestones, want)
		}
	}
}

// TestEngineImplementsRasterizer pins the production engine to the
// capability interface.
func TestEngineImplementsRasterizer(t *testing.T) {
	var _ Rasterizer = raster.Engine{}
}

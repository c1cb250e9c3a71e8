package iconpack

import (
	"image"
	"image/color"
	"log"

	"github.com/disintegration/imaging"

	"git.sr.ht/~jackmordaunt/iconpack/raster"
)

// MaxSize is the largest accepted pixel edge length.
const MaxSize = 2048

// StandardSizes is the default size vocabulary used by the stock profiles.
var StandardSizes = []int{16, 24, 32, 48, 64, 96, 128, 192, 256, 384, 512, 768, 1024}

// NormalizeSizes validates a requested size set: every size must be within
// [1, MaxSize], duplicates collapse keeping first occurrence order, and the
// result must be non-empty.
func NormalizeSizes(sizes []int) ([]int, error) {
	seen := make(map[int]bool, len(sizes))
	out := make([]int, 0, len(sizes))
	for _, size := range sizes {
		if size < 1 || size > MaxSize {
			return nil, failf(InvalidRequest, "size %d is out of range: sizes must be between 1 and %d pixels", size, MaxSize)
		}
		if seen[size] {
			continue
		}
		seen[size] = true
		out = append(out, size)
	}
	if len(out) == 0 {
		return nil, failf(InvalidRequest, "no sizes requested")
	}
	return out, nil
}

// Rasterizer is the pixel capability injected into the resampler: draw a
// source at an exact square size and encode pixel buffers as PNG.
// raster.Engine is the production implementation.
type Rasterizer interface {
	Render(src *raster.Source, size int) (*image.NRGBA, error)
	Encode(img *image.NRGBA) ([]byte, error)
}

// Fragment is one rasterization of a source at a single size. Each pipeline
// invocation owns its fragments exclusively.
type Fragment struct {
	Size int
	PNG  []byte
	Img  *image.NRGBA
}

// Resampler renders a source at each requested size. Individual size
// failures are logged and dropped; only a fully empty result is fatal.
type Resampler struct {
	Rasterizer Rasterizer
	Log        *log.Logger
}

// Resample renders the source at every size, reusing the source pixels
// directly when they already match the target exactly. When transparency is
// false, buffers containing any translucent pixel are flattened onto white
// before encoding.
func (r *Resampler) Resample(src *raster.Source, sizes []int, transparency bool) ([]Fragment, error) {
	fragments := make([]Fragment, 0, len(sizes))
	for _, size := range sizes {
		img, err := r.renderOne(src, size)
		if err != nil {
			r.logf("resample: size %d failed: %v", size, err)
			continue
		}
		if !transparency && hasTranslucency(img) {
			img = flattenOntoWhite(img)
		}
		data, err := r.Rasterizer.Encode(img)
		if err != nil {
			r.logf("resample: encoding size %d failed: %v", size, err)
			continue
		}
		fragments = append(fragments, Fragment{Size: size, PNG: data, Img: img})
	}
	if len(fragments) == 0 {
		return nil, failf(NoSizesProduced, "no sizes produced: every requested size failed to rasterize")
	}
	return fragments, nil
}

// renderOne takes the reuse path when the source is already exactly the
// target size, avoiding a redundant resample pass.
func (r *Resampler) renderOne(src *raster.Source, size int) (*image.NRGBA, error) {
	if !src.Vector() {
		if b := src.Bounds(); b.Dx() == size && b.Dy() == size {
			out := image.NewNRGBA(image.Rect(0, 0, size, size))
			for y := 0; y < size; y++ {
				for x := 0; x < size; x++ {
					out.Set(x, y, src.Image().At(b.Min.X+x, b.Min.Y+y))
				}
			}
			return out, nil
		}
	}
	return r.Rasterizer.Render(src, size)
}

func (r *Resampler) logf(format string, args ...interface{}) {
	if r.Log != nil {
		r.Log.Printf(format, args...)
	}
}

// hasTranslucency scans the full alpha channel; any value below 255 counts.
func hasTranslucency(img *image.NRGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		start := img.PixOffset(b.Min.X, y)
		row := img.Pix[start : start+b.Dx()*4]
		for x := 3; x < len(row); x += 4 {
			if row[x] != 0xff {
				return true
			}
		}
	}
	return false
}

// flattenOntoWhite composites the buffer onto an opaque white background of
// the same dimensions.
func flattenOntoWhite(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	background := imaging.New(b.Dx(), b.Dy(), color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	return imaging.Overlay(background, img, image.Pt(0, 0), 1.0)
}

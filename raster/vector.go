package raster

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// vectorSource holds a parsed SVG alongside its original markup. The parsed
// icon is reused across renders; only the target transform changes.
type vectorSource struct {
	markup []byte
	icon   *oksvg.SvgIcon
}

// DecodeVector parses SVG markup into a renderable source.
func DecodeVector(data []byte) (*Source, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing svg: %w", err)
	}
	return &Source{vector: &vectorSource{markup: data, icon: icon}}, nil
}

func (v *vectorSource) bounds() image.Rectangle {
	w, h := v.icon.ViewBox.W, v.icon.ViewBox.H
	return image.Rect(0, 0, int(math.Ceil(w)), int(math.Ceil(h)))
}

// render draws the icon centered on a size×size transparent canvas,
// preserving the viewbox aspect ratio.
func (v *vectorSource) render(size int) (*image.NRGBA, error) {
	w, h := v.icon.ViewBox.W, v.icon.ViewBox.H
	if w <= 0 || h <= 0 {
		w, h = float64(size), float64(size)
	}
	scale := float64(size) / math.Max(w, h)
	outW := int(w * scale)
	outH := int(h * scale)
	offsetX := (size - outW) / 2
	offsetY := (size - outH) / 2
	v.icon.SetTarget(float64(offsetX), float64(offsetY), float64(outW), float64(outH))

	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	dasher := rasterx.NewDasher(size, size, scanner)
	v.icon.Draw(dasher, 1.0)
	return img, nil
}

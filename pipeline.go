package iconpack

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"git.sr.ht/~jackmordaunt/iconpack/ico"
	"git.sr.ht/~jackmordaunt/iconpack/internal/util"
	"git.sr.ht/~jackmordaunt/iconpack/raster"
	"git.sr.ht/~jackmordaunt/iconpack/svg"
)

// Target selects the output container.
type Target int

const (
	// TargetICO emits a single multi-resolution ICO container.
	TargetICO Target = iota
	// TargetSprite emits one combined sprite document.
	TargetSprite
	// TargetSpriteSplit emits one standalone sprite document per size.
	TargetSpriteSplit
)

func (t Target) String() string {
	switch t {
	case TargetICO:
		return "ico"
	case TargetSprite:
		return "sprite"
	case TargetSpriteSplit:
		return "sprite-split"
	}
	return "unknown"
}

// Blob is a downloadable output file.
type Blob struct {
	Name string
	MIME string
	Data []byte
}

// Reader returns a reusable reader over the blob's bytes.
func (b Blob) Reader() *util.CopyBuffer {
	return util.NewCopyBuffer(b.Data)
}

// Result is the outcome of one successful conversion: exactly one blob for
// ICO output, one or more for split sprite output.
type Result struct {
	Source string
	Format Format
	Blobs  []Blob
}

// Request describes one conversion. Progress, when set, receives coarse
// percentage milestones as the pipeline advances.
type Request struct {
	File     File
	Sizes    []int
	Target   Target
	Progress func(percent int)
}

// Pipeline converts one file at a time: detect format, resample, encode.
// A failure at any stage is terminal for that file; there are no retries.
type Pipeline struct {
	Registry   *Registry
	Rasterizer Rasterizer
	Log        *log.Logger
}

// NewPipeline wires a pipeline with the stock registry and the process-local
// raster engine.
func NewPipeline() *Pipeline {
	return &Pipeline{
		Registry:   NewRegistry(),
		Rasterizer: raster.Engine{},
	}
}

// Convert runs the full per-file pipeline. Stage order is strict: resampling
// never starts before detection succeeds.
func (p *Pipeline) Convert(ctx context.Context, req Request) (*Result, error) {
	sizes, err := NormalizeSizes(req.Sizes)
	if err != nil {
		return nil, err
	}
	format, ok := p.Registry.Detect(req.File)
	if !ok {
		return nil, failf(UnsupportedFormat, "unsupported format: %q", req.File.Name)
	}
	if int64(len(req.File.Data)) > format.MaxBytes {
		return nil, failf(OversizedFile, "%s files must be under %dMB", format.Name, format.limitMB())
	}
	report(req.Progress, 10)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Vector sources going to a sprite pass through without rasterizing.
	if format.Vector && req.Target != TargetICO {
		result, err := p.encodeVectorSprite(req, format, sizes)
		if err != nil {
			return nil, err
		}
		report(req.Progress, 100)
		return result, nil
	}

	src, err := p.decode(req.File, format)
	if err != nil {
		return nil, &Failure{
			Kind:    UnsupportedFormat,
			Message: fmt.Sprintf("could not read %q as %s", req.File.Name, format.Name),
			Cause:   err,
		}
	}
	resampler := &Resampler{Rasterizer: p.Rasterizer, Log: p.Log}
	fragments, err := resampler.Resample(src, sizes, format.Transparency)
	if err != nil {
		return nil, err
	}
	report(req.Progress, 50)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := p.encode(req, format, fragments)
	if err != nil {
		return nil, err
	}
	report(req.Progress, 100)
	return result, nil
}

func (p *Pipeline) decode(f File, format Format) (*raster.Source, error) {
	if format.Vector {
		return raster.DecodeVector(f.Data)
	}
	return raster.DecodeRaster(f.Data)
}

func (p *Pipeline) encode(req Request, format Format, fragments []Fragment) (*Result, error) {
	result := &Result{Source: req.File.Name, Format: format}
	switch req.Target {
	case TargetICO:
		entries := make([]ico.Entry, len(fragments))
		for i, f := range fragments {
			entries[i] = ico.Entry{Size: f.Size, PNG: f.PNG}
		}
		buffer := bytes.NewBuffer(nil)
		if err := ico.Encode(buffer, entries); err != nil {
			return nil, &Failure{
				Kind:    EncodeFailed,
				Message: fmt.Sprintf("encode failed: %v", err),
				Cause:   err,
			}
		}
		result.Blobs = append(result.Blobs, Blob{
			Name: req.File.Stem() + ".ico",
			MIME: "image/x-icon",
			Data: buffer.Bytes(),
		})
	case TargetSprite, TargetSpriteSplit:
		svgFragments := make([]svg.Fragment, len(fragments))
		for i, f := range fragments {
			svgFragments[i] = svg.Fragment{Size: f.Size, PNG: f.PNG}
		}
		blobs, err := p.encodeSprite(req, svgFragments)
		if err != nil {
			return nil, err
		}
		result.Blobs = blobs
	default:
		return nil, failf(InvalidRequest, "unknown output target %d", req.Target)
	}
	return result, nil
}

// encodeVectorSprite re-scopes the original markup into per-size fragments
// rather than embedding rasterizations.
func (p *Pipeline) encodeVectorSprite(req Request, format Format, sizes []int) (*Result, error) {
	src, err := raster.DecodeVector(req.File.Data)
	if err != nil {
		return nil, &Failure{
			Kind:    UnsupportedFormat,
			Message: fmt.Sprintf("could not read %q as SVG", req.File.Name),
			Cause:   err,
		}
	}
	content, viewBox, err := svg.Inner(src.Markup())
	if err != nil {
		return nil, &Failure{
			Kind:    EncodeFailed,
			Message: fmt.Sprintf("encode failed: %v", err),
			Cause:   err,
		}
	}
	report(req.Progress, 50)
	fragments := make([]svg.Fragment, len(sizes))
	for i, size := range sizes {
		fragments[i] = svg.Fragment{Size: size, Markup: content, ViewBox: viewBox}
	}
	blobs, err := p.encodeSprite(req, fragments)
	if err != nil {
		return nil, err
	}
	return &Result{Source: req.File.Name, Format: format, Blobs: blobs}, nil
}

func (p *Pipeline) encodeSprite(req Request, fragments []svg.Fragment) ([]Blob, error) {
	meta := svg.Metadata{Title: req.File.Stem(), Source: req.File.Name}
	if req.Target == TargetSpriteSplit {
		blobs := make([]Blob, 0, len(fragments))
		for _, f := range fragments {
			buffer := bytes.NewBuffer(nil)
			if err := svg.EncodeStandalone(buffer, f, meta); err != nil {
				return nil, &Failure{
					Kind:    EncodeFailed,
					Message: fmt.Sprintf("encode failed: %v", err),
					Cause:   err,
				}
			}
			blobs = append(blobs, Blob{
				Name: fmt.Sprintf("%s-%dpx.svg", req.File.Stem(), f.Size),
				MIME: "image/svg+xml",
				Data: buffer.Bytes(),
			})
		}
		return blobs, nil
	}
	buffer := bytes.NewBuffer(nil)
	if err := svg.EncodeSprite(buffer, fragments, meta); err != nil {
		return nil, &Failure{
			Kind:    EncodeFailed,
			Message: fmt.Sprintf("encode failed: %v", err),
			Cause:   err,
		}
	}
	return []Blob{{
		Name: req.File.Stem() + "-sprite.svg",
		MIME: "image/svg+xml",
		Data: buffer.Bytes(),
	}}, nil
}

func report(progress func(int), percent int) {
	if progress != nil {
		progress(percent)
	}
}

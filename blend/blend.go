// Package blend recolours the masked regions of a sprite sheet with two tint
// sources. The recolour runs as a shader pass on the GPU (package
// blend/gpu); this package holds the request types and the CPU-side staging
// shared by every Blender.
package blend

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// DefaultScale is the magnification applied to the blended region before it
// is read back.
const DefaultScale = 10

var (
	// ErrGPUUnavailable reports a missing graphics context or a shader that
	// failed to compile. There is no CPU fallback.
	ErrGPUUnavailable = errors.New("blend: gpu unavailable")
	// ErrNoSheet reports a request without a sprite sheet.
	ErrNoSheet = errors.New("blend: no sprite sheet")
	// ErrEmptyRegion reports a region that does not overlap the sheet.
	ErrEmptyRegion = errors.New("blend: empty region")
)

// Tint is one recolour source. A Repeat tint tiles across the sheet; other
// tints are sampled at their first texel everywhere.
type Tint struct {
	Image  image.Image
	Repeat bool
}

// NoTint returns a tint that leaves its channel untouched.
func NoTint() Tint { return Tint{} }

// FlatTint returns a single-colour tint.
func FlatTint(c color.Color) Tint {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, c)
	return Tint{Image: img}
}

// SwatchTint returns a tiling texture tint.
func SwatchTint(img image.Image) Tint { return Tint{Image: img, Repeat: true} }

// IsZero reports whether t has no image.
func (t Tint) IsZero() bool { return t.Image == nil }

// Request describes one blend pass.
type Request struct {
	Sheet image.Image
	// Mask carries the clothing intensity in red and the accessory intensity
	// in green. A nil mask recolours nothing.
	Mask      image.Image
	Clothing  Tint
	Accessory Tint
	// Region is the part of Sheet to render. Empty means the whole sheet.
	Region image.Rectangle
	// Scale magnifies the output. Zero means DefaultScale.
	Scale int
}

// Blender runs blend passes.
type Blender interface {
	Blend(ctx context.Context, req Request) (*image.RGBA, error)
}

// Inputs are the staged images for one pass. All four images share the
// sheet's size with their origin at (0,0).
type Inputs struct {
	Sheet     *image.RGBA
	Mask      *image.RGBA
	Clothing  *image.RGBA
	Accessory *image.RGBA
	Region    image.Rectangle
	Scale     int
}

// OutputSize returns the size of the read-back image.
func (in *Inputs) OutputSize() image.Point {
	return in.Region.Size().Mul(in.Scale)
}

// Prepare stages req for a shader pass: the mask is stretched onto the
// sheet, and each tint is expanded to a full sheet-sized layer.
func Prepare(req Request) (*Inputs, error) {
	if req.Sheet == nil {
		return nil, ErrNoSheet
	}
	sb := req.Sheet.Bounds()
	size := sb.Size()
	bounds := image.Rect(0, 0, size.X, size.Y)

	region := req.Region
	if region.Empty() {
		region = sb
	}
	region = region.Intersect(sb).Sub(sb.Min)
	if region.Empty() {
		return nil, fmt.Errorf("%w: %v outside %v", ErrEmptyRegion, req.Region, sb)
	}

	scale := req.Scale
	if scale <= 0 {
		scale = DefaultScale
	}

	sheet := image.NewRGBA(bounds)
	draw.Draw(sheet, bounds, req.Sheet, sb.Min, draw.Src)

	mask := image.NewRGBA(bounds)
	if req.Mask != nil {
		mb := req.Mask.Bounds()
		if mb.Size() == size {
			draw.Draw(mask, bounds, req.Mask, mb.Min, draw.Src)
		} else if !mb.Empty() {
			draw.NearestNeighbor.Scale(mask, bounds, req.Mask, mb, draw.Src, nil)
		}
	}

	return &Inputs{
		Sheet:     sheet,
		Mask:      mask,
		Clothing:  expandTint(req.Clothing, bounds, region.Min),
		Accessory: expandTint(req.Accessory, bounds, region.Min),
		Region:    region,
		Scale:     scale,
	}, nil
}

// expandTint fills a bounds-sized layer with t. Repeating tints are tiled
// with a tile corner at origin.
func expandTint(t Tint, bounds image.Rectangle, origin image.Point) *image.RGBA {
	out := image.NewRGBA(bounds)
	if t.IsZero() {
		return out
	}
	tb := t.Image.Bounds()
	if tb.Empty() {
		return out
	}
	if !t.Repeat {
		c := t.Image.At(tb.Min.X, tb.Min.Y)
		draw.Draw(out, bounds, image.NewUniform(c), image.Point{}, draw.Src)
		return out
	}

	w, h := tb.Dx(), tb.Dy()
	startX := origin.X % w
	if startX > 0 {
		startX -= w
	}
	startY := origin.Y % h
	if startY > 0 {
		startY -= h
	}
	for y := startY; y < bounds.Max.Y; y += h {
		for x := startX; x < bounds.Max.X; x += w {
			draw.Draw(out, image.Rect(x, y, x+w, y+h), t.Image, tb.Min, draw.Src)
		}
	}
	return out
}

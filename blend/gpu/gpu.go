// Package gpu runs blend passes on the graphics card with the embedded tint
// shader. It is the only part of the blend pipeline that needs Ebiten.
package gpu

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/spritepreview/assets"
	"github.com/milk9111/spritepreview/blend"
)

// Blender implements blend.Blender. A single Blender owns its texture
// slots; concurrent Blend calls are serialised.
//
// Pixel read-back only works once the Ebiten game loop is running, so Blend
// must be called from Update or Draw (or after RunGame has started).
type Blender struct {
	mu     sync.Mutex
	shader *ebiten.Shader
}

var _ blend.Blender = (*Blender)(nil)

// New compiles the tint shader.
func New() (*Blender, error) {
	sh, err := assets.LoadShader(assets.TintShaderName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", blend.ErrGPUUnavailable, err)
	}
	return &Blender{shader: sh}, nil
}

// Blend renders req.Region of the sheet, magnified by req.Scale, with the
// masked texels recoloured, and reads the result back.
func (b *Blender) Blend(ctx context.Context, req blend.Request) (*image.RGBA, error) {
	if b == nil || b.shader == nil {
		return nil, blend.ErrGPUUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	in, err := blend.Prepare(req)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var srcs [4]*ebiten.Image
	for i, img := range []*image.RGBA{in.Sheet, in.Mask, in.Clothing, in.Accessory} {
		srcs[i] = ebiten.NewImageFromImage(img)
	}
	defer func() {
		for _, img := range srcs {
			img.Deallocate()
		}
	}()

	size := in.OutputSize()
	dst := ebiten.NewImage(size.X, size.Y)
	defer dst.Deallocate()

	dst.DrawTrianglesShader(regionQuad(in.Region, size), []uint16{0, 1, 2, 1, 2, 3}, b.shader, &ebiten.DrawTrianglesShaderOptions{
		Images: srcs,
	})

	out := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	dst.ReadPixels(out.Pix)
	return out, nil
}

// regionQuad maps the whole destination onto region of the source images.
func regionQuad(region image.Rectangle, size image.Point) []ebiten.Vertex {
	sx0, sy0 := float32(region.Min.X), float32(region.Min.Y)
	sx1, sy1 := float32(region.Max.X), float32(region.Max.Y)
	dw, dh := float32(size.X), float32(size.Y)
	v := func(dx, dy, sx, sy float32) ebiten.Vertex {
		return ebiten.Vertex{
			DstX: dx, DstY: dy,
			SrcX: sx, SrcY: sy,
			ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
		}
	}
	return []ebiten.Vertex{
		v(0, 0, sx0, sy0),
		v(dw, 0, sx1, sy0),
		v(0, dh, sx0, sy1),
		v(dw, dh, sx1, sy1),
	}
}

package dye

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/cenkalti/dominantcolor"
	"github.com/milk9111/spritepreview/blend"
	"github.com/milk9111/spritepreview/sheet"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// SwatchSize is the edge length of the tiling swatch cut from an atlas.
const SwatchSize = 16

// ErrUnresolved reports a textile dye whose swatch has not been loaded.
var ErrUnresolved = errors.New("dye: textile not resolved")

// TextureSource looks up texture atlases by name.
type TextureSource interface {
	Atlas(ctx context.Context, src string) (image.Image, error)
}

// Cache holds the raw swatch pixels of textile dyes, keyed by TextureRef.
// Entries are filled by Resolve and never change afterwards.
type Cache struct {
	source TextureSource
	group  singleflight.Group

	mu       sync.RWMutex
	swatches map[TextureRef]*image.RGBA
}

// NewCache creates an empty cache backed by source.
func NewCache(source TextureSource) *Cache {
	return &Cache{
		source:   source,
		swatches: make(map[TextureRef]*image.RGBA),
	}
}

// Resolve loads the swatch of every textile dye in dyes that is not cached
// yet. Loads run concurrently; duplicate refs share one load, and a caller
// whose ctx ends stops waiting without failing the others sharing it.
func (c *Cache) Resolve(ctx context.Context, dyes ...Dye) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, d := range dyes {
		if d.Kind != Textile {
			continue
		}
		if _, ok := c.Swatch(d.Texture); ok {
			continue
		}
		ref := d.Texture
		g.Go(func() error {
			// the load outlives any single caller; each caller only stops waiting
			ch := c.group.DoChan(ref.String(), func() (any, error) {
				return c.load(context.WithoutCancel(ctx), ref)
			})
			select {
			case res := <-ch:
				return res.Err
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}
	return g.Wait()
}

func (c *Cache) load(ctx context.Context, ref TextureRef) (*image.RGBA, error) {
	if sw, ok := c.Swatch(ref); ok {
		return sw, nil
	}
	if c.source == nil {
		return nil, fmt.Errorf("dye: load %s: no texture source", ref)
	}
	atlas, err := c.source.Atlas(ctx, ref.Src)
	if err != nil {
		return nil, fmt.Errorf("dye: load %s: %w", ref, err)
	}
	sw, err := ExtractSwatch(atlas, ref)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.swatches[ref] = sw
	c.mu.Unlock()
	return sw, nil
}

// Swatch returns the cached swatch for ref.
func (c *Cache) Swatch(ref TextureRef) (*image.RGBA, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sw, ok := c.swatches[ref]
	return sw, ok
}

// Tint converts d into a blend tint. Textile dyes must have been resolved.
func (c *Cache) Tint(d Dye) (blend.Tint, error) {
	switch d.Kind {
	case Flat:
		return blend.FlatTint(d.Color), nil
	case Textile:
		sw, ok := c.Swatch(d.Texture)
		if !ok {
			return blend.Tint{}, fmt.Errorf("%w: %s", ErrUnresolved, d.Texture)
		}
		return blend.SwatchTint(sw), nil
	default:
		return blend.NoTint(), nil
	}
}

// Chip returns a representative colour for d, used for UI swatches. Textile
// dyes that are not resolved yet report transparent.
func (c *Cache) Chip(d Dye) color.Color {
	switch d.Kind {
	case Flat:
		return d.Color
	case Textile:
		if sw, ok := c.Swatch(d.Texture); ok {
			return dominantcolor.Find(sw)
		}
	}
	return color.Transparent
}

// ExtractSwatch cuts the atlas cell addressed by ref and scales it to
// SwatchSize with nearest-neighbour sampling.
func ExtractSwatch(atlas image.Image, ref TextureRef) (*image.RGBA, error) {
	grid, err := sheet.NewGrid(atlas.Bounds(), ref.Size)
	if err != nil {
		return nil, fmt.Errorf("dye: atlas %s: %w", ref.Src, err)
	}
	if !grid.Contains(ref.Index) {
		return nil, fmt.Errorf("dye: atlas %s: %w: index %d outside %dx%d tiles", ref.Src, sheet.ErrGeometry, ref.Index, grid.Cols(), grid.Rows())
	}
	out := image.NewRGBA(image.Rect(0, 0, SwatchSize, SwatchSize))
	draw.NearestNeighbor.Scale(out, out.Bounds(), atlas, grid.Rect(ref.Index), draw.Src, nil)
	return out, nil
}

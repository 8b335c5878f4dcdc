// Package sheet addresses tiles inside a sprite sheet. Tiles are square,
// laid out left-to-right, top-to-bottom, and addressed by a linear index.
package sheet

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// ErrGeometry reports a sheet whose width is not a whole number of tiles.
var ErrGeometry = errors.New("sheet: invalid tile geometry")

// TileRect returns the pixel rectangle of tile index on a sheet of the given
// width. sheetWidth must be a multiple of tileSize; NewGrid checks that.
func TileRect(sheetWidth, tileSize, index int) image.Rectangle {
	cols := sheetWidth / tileSize
	x := (index % cols) * tileSize
	y := (index / cols) * tileSize
	return image.Rect(x, y, x+tileSize, y+tileSize)
}

// Grid is a validated tile layout over a sheet.
type Grid struct {
	Bounds   image.Rectangle
	TileSize int
}

// NewGrid validates that bounds divide evenly into tileSize columns.
func NewGrid(bounds image.Rectangle, tileSize int) (Grid, error) {
	if tileSize <= 0 {
		return Grid{}, fmt.Errorf("%w: tile size %d", ErrGeometry, tileSize)
	}
	w := bounds.Dx()
	if w < tileSize || w%tileSize != 0 {
		return Grid{}, fmt.Errorf("%w: width %d is not a multiple of tile size %d", ErrGeometry, w, tileSize)
	}
	return Grid{Bounds: bounds, TileSize: tileSize}, nil
}

// Cols returns the number of tile columns.
func (g Grid) Cols() int { return g.Bounds.Dx() / g.TileSize }

// Rows returns the number of complete tile rows.
func (g Grid) Rows() int { return g.Bounds.Dy() / g.TileSize }

// Contains reports whether index addresses a complete tile.
func (g Grid) Contains(index int) bool {
	return index >= 0 && index < g.Cols()*g.Rows()
}

// Rect returns the rectangle of tile index in the sheet's coordinate space.
func (g Grid) Rect(index int) image.Rectangle {
	return TileRect(g.Bounds.Dx(), g.TileSize, index).Add(g.Bounds.Min)
}

// IsTransparent reports whether every pixel of img inside r has zero alpha.
func IsTransparent(img image.Image, r image.Rectangle) bool {
	r = r.Intersect(img.Bounds())
	if rgba, ok := img.(*image.RGBA); ok {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			row := rgba.Pix[rgba.PixOffset(r.Min.X, y):rgba.PixOffset(r.Max.X, y)]
			for i := 3; i < len(row); i += 4 {
				if row[i] != 0 {
					return false
				}
			}
		}
		return true
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0 {
				return false
			}
		}
	}
	return true
}

// Crop copies r out of img into a new RGBA rebased at the origin. Parts of r
// outside img stay transparent.
func Crop(img image.Image, r image.Rectangle) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)
	return out
}

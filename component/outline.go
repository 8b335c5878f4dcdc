package component

import (
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

const (
	// OutlineOffset is the distance of each of the four silhouette stamps
	// from the sprite's own position.
	OutlineOffset = 2
	// FrameMargin is the top-left inset of the sprite inside its frame.
	FrameMargin = 4
	// FrameScale is the magnification of one sheet pixel inside a frame.
	FrameScale = 6
	// ShadowBlur is the drop shadow blur radius in frame pixels.
	ShadowBlur = 8
)

var outlineStamps = [4]image.Point{
	{-OutlineOffset, -OutlineOffset},
	{-OutlineOffset, OutlineOffset},
	{OutlineOffset, OutlineOffset},
	{OutlineOffset, -OutlineOffset},
}

// FrameSize returns the pixel size of a frame for tiles of the given size.
// widthMult widens the frame for poses that span several tiles.
func FrameSize(size, widthMult int) image.Point {
	if widthMult < 1 {
		widthMult = 1
	}
	return image.Pt(size*8*widthMult, size*8)
}

// RenderFrame renders the tile at srcRect (and the widthMult-1 tiles to its
// right) into a new frame with a black outline and a soft drop shadow.
// size is the logical tile size and fixes the frame dimensions; srcRect may
// be larger than size when src has been magnified.
//
// Source rectangles outside src produce transparent pixels, so a tile with
// nothing in it renders to a fully transparent frame.
func RenderFrame(src image.Image, srcRect image.Rectangle, size, widthMult int) *image.RGBA {
	if widthMult < 1 {
		widthMult = 1
	}
	fs := FrameSize(size, widthMult)
	bounds := image.Rect(0, 0, fs.X, fs.Y)
	dst := image.NewRGBA(bounds)

	sr := image.Rect(srcRect.Min.X, srcRect.Min.Y, srcRect.Min.X+srcRect.Dx()*widthMult, srcRect.Max.Y)
	sprite := image.Rect(0, 0, FrameScale*size*widthMult, FrameScale*size).Add(image.Pt(FrameMargin, FrameMargin))

	for _, off := range outlineStamps {
		draw.NearestNeighbor.Scale(dst, sprite.Add(off), src, sr, draw.Over, nil)
	}
	flattenToBlack(dst)

	stamp := image.NewRGBA(bounds)
	draw.NearestNeighbor.Scale(stamp, sprite, src, sr, draw.Src, nil)
	shadow := dropShadow(stamp)

	// the sprite is stamped twice, each time over its own shadow
	for range 2 {
		draw.Draw(dst, bounds, shadow, image.Point{}, draw.Over)
		draw.Draw(dst, bounds, stamp, image.Point{}, draw.Over)
	}
	return dst
}

// flattenToBlack turns every written pixel black while keeping its alpha.
// Pix is premultiplied so zeroing the colour channels is enough.
func flattenToBlack(img *image.RGBA) {
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0
		img.Pix[i+1] = 0
		img.Pix[i+2] = 0
	}
}

// dropShadow returns a blurred black silhouette of img.
func dropShadow(img *image.RGBA) image.Image {
	silhouette := image.NewRGBA(img.Bounds())
	copy(silhouette.Pix, img.Pix)
	flattenToBlack(silhouette)
	if isEmpty(silhouette) {
		return silhouette
	}
	return imaging.Blur(silhouette, ShadowBlur/2.0)
}

func isEmpty(img *image.RGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			return false
		}
	}
	return true
}

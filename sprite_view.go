package main

import (
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/spritepreview/entity"
	"github.com/milk9111/spritepreview/pose"
)

// spriteView draws an entity's frames. GPU copies of the frames live until
// the entity commits a new pose set.
type spriteView struct {
	set    *pose.Set
	images map[*image.RGBA]*ebiten.Image
}

// draw advances the entity's clock by dt and draws its current frames.
func (v *spriteView) draw(dst *ebiten.Image, e *entity.Entity, dt time.Duration) {
	e.Clock.Tick(dt)
	if set := e.Set(); set != v.set {
		v.release()
		v.set = set
	}
	for _, p := range e.Layout(e.Clock.Elapsed()) {
		if p.Frame == nil {
			continue
		}
		b := p.Frame.Bounds()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(p.W/float64(b.Dx()), p.H/float64(b.Dy()))
		op.GeoM.Translate(p.X, p.Y)
		op.Filter = ebiten.FilterNearest
		dst.DrawImage(v.image(p.Frame), op)
	}
}

func (v *spriteView) image(frame *image.RGBA) *ebiten.Image {
	if img, ok := v.images[frame]; ok {
		return img
	}
	if v.images == nil {
		v.images = make(map[*image.RGBA]*ebiten.Image)
	}
	img := ebiten.NewImageFromImage(frame)
	v.images[frame] = img
	return img
}

func (v *spriteView) release() {
	for _, img := range v.images {
		img.Deallocate()
	}
	v.images = nil
}

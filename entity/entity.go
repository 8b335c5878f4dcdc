// Package entity is a previewed sprite: its placement, its inputs and the
// pose set most recently built from them.
package entity

import (
	"image"
	"sync/atomic"
	"time"

	"github.com/milk9111/spritepreview/component"
	"github.com/milk9111/spritepreview/dye"
	"github.com/milk9111/spritepreview/pose"
)

// Entity is one sprite on screen. Its methods must be called from the game
// loop.
type Entity struct {
	X, Y float64
	// W and H are the size of one pose cell. Zero means the native frame size.
	W, H  float64
	Clock component.Clock

	inputs Inputs
	regen  *Regenerator
	set    atomic.Pointer[pose.Set]
	// generation of the committed set
	committed uint64
}

// New creates an entity that rebuilds through regen.
func New(regen *Regenerator, in Inputs) *Entity {
	return &Entity{regen: regen, inputs: in}
}

// Inputs returns the current inputs.
func (e *Entity) Inputs() Inputs { return e.inputs }

// Set returns the committed pose set, or nil before the first build.
func (e *Entity) Set() *pose.Set { return e.set.Load() }

// Regenerate requests a rebuild from the current inputs. It is a no-op until
// a sheet is set.
func (e *Entity) Regenerate() {
	if e.regen == nil || e.inputs.Sheet == nil {
		return
	}
	e.regen.Request(e.inputs)
}

func (e *Entity) SetSheet(img image.Image) {
	e.inputs.Sheet = img
	e.Regenerate()
}

func (e *Entity) SetMask(img image.Image) {
	e.inputs.Mask = img
	e.Regenerate()
}

func (e *Entity) SetDyes(clothing, accessory dye.Dye) {
	e.inputs.Clothing = clothing
	e.inputs.Accessory = accessory
	e.Regenerate()
}

func (e *Entity) SetKind(k pose.Kind) {
	e.inputs.Kind = k
	e.Clock.Reset()
	e.Regenerate()
}

func (e *Entity) SetSize(size int) {
	e.inputs.Size = size
	e.Regenerate()
}

func (e *Entity) SetIndex(index int) {
	e.inputs.Index = index
	e.Regenerate()
}

// Update commits the newest finished build. A failed build leaves the
// previous set in place and is returned.
func (e *Entity) Update() error {
	if e.regen == nil {
		return nil
	}
	out, ok := e.regen.Poll()
	if !ok || out.Generation <= e.committed {
		return nil
	}
	if out.Err != nil {
		return out.Err
	}
	e.committed = out.Generation
	e.set.Store(out.Set)
	return nil
}

// Layout returns where each frame goes at the given animation time.
func (e *Entity) Layout(elapsed time.Duration) []pose.Placement {
	set := e.set.Load()
	if set == nil {
		return nil
	}
	w, h := e.W, e.H
	if w <= 0 || h <= 0 {
		fs := component.FrameSize(set.Size, 1)
		w, h = float64(fs.X), float64(fs.Y)
	}
	return set.Layout(e.X, e.Y, w, h, component.FrameAt(elapsed))
}

// Snapshot renders the current layout into one image.
func (e *Entity) Snapshot() *image.RGBA {
	return pose.Snapshot(e.Layout(e.Clock.Elapsed()))
}

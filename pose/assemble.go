// Package pose turns a sprite sheet into the outlined frames of each pose:
// stand, a two-frame walk and a two-frame attack, for one or three facings.
package pose

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/milk9111/spritepreview/blend"
	"github.com/milk9111/spritepreview/component"
	"github.com/milk9111/spritepreview/sheet"
)

// ErrNoSheet reports a build without a sprite sheet.
var ErrNoSheet = errors.New("pose: no sprite sheet")

// PoseSet holds the frames of one facing.
type PoseSet struct {
	Stand  *image.RGBA
	Walk   [2]*image.RGBA
	Attack [2]*image.RGBA
}

// Set is the complete output of one build. A Set is never modified after
// Build returns; a rebuild produces a new Set.
type Set struct {
	Kind Kind
	Size int
	// Static is the only frame of a Simple sprite.
	Static *image.RGBA
	// Facings holds the pose sets. Enemies only fill Side.
	Facings [facingCount]*PoseSet
	// HasDoubleSideWalk is false when the player's second side-walk tile is
	// empty; the stand frame is shown in its place.
	HasDoubleSideWalk bool
}

// Facing returns the pose set for f, or nil.
func (s *Set) Facing(f Facing) *PoseSet {
	if s == nil || f < 0 || f >= facingCount {
		return nil
	}
	return s.Facings[f]
}

// Input is everything a build depends on.
type Input struct {
	Kind  Kind
	Sheet image.Image
	// Mask, Clothing and Accessory only apply to Player sprites.
	Mask      image.Image
	Clothing  blend.Tint
	Accessory blend.Tint
	Size      int
	Index     int
	// Blender is required when NeedsBlend reports true.
	Blender blend.Blender
	// Scale is the blend magnification; zero means blend.DefaultScale.
	Scale int
}

// NeedsBlend reports whether the build recolours the sheet first.
func (in Input) NeedsBlend() bool {
	return in.Kind == Player && (in.Mask != nil || !in.Clothing.IsZero() || !in.Accessory.IsZero())
}

// Build renders every frame for in. It fails on bad tile geometry or when
// the recolour pass fails; tiles outside the sheet render as empty frames.
func Build(ctx context.Context, in Input) (*Set, error) {
	if in.Sheet == nil {
		return nil, ErrNoSheet
	}
	grid, err := sheet.NewGrid(in.Sheet.Bounds(), in.Size)
	if err != nil {
		return nil, err
	}

	set := &Set{Kind: in.Kind, Size: in.Size, HasDoubleSideWalk: true}
	switch in.Kind {
	case Simple:
		set.Static = component.RenderFrame(in.Sheet, grid.Rect(in.Index), in.Size, 1)
	case Enemy:
		set.Facings[Side] = buildPoses(in.Sheet, in.Size, enemyOffsets, func(i int) image.Rectangle {
			return grid.Rect(in.Index*StripLength + i)
		})
	case Player:
		if err := buildPlayer(ctx, in, grid, set); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("pose: unknown sprite kind %d", in.Kind)
	}
	return set, nil
}

func buildPlayer(ctx context.Context, in Input, grid sheet.Grid, set *Set) error {
	if grid.Cols() < StripLength {
		return fmt.Errorf("%w: player sheets need %d columns, got %d", sheet.ErrGeometry, StripLength, grid.Cols())
	}
	origin := grid.Bounds.Min.Add(image.Pt(0, in.Index*PlayerRows*in.Size))
	block := image.Rect(0, 0, StripLength*in.Size, PlayerRows*in.Size).Add(origin)

	var src image.Image
	tile := in.Size
	if in.NeedsBlend() && block.Overlaps(grid.Bounds) {
		if in.Blender == nil {
			return fmt.Errorf("pose: recolour player block: %w", blend.ErrGPUUnavailable)
		}
		out, err := in.Blender.Blend(ctx, blend.Request{
			Sheet:     in.Sheet,
			Mask:      in.Mask,
			Clothing:  in.Clothing,
			Accessory: in.Accessory,
			Region:    block,
			Scale:     in.Scale,
		})
		if err != nil {
			return fmt.Errorf("pose: recolour player block: %w", err)
		}
		src = out
		tile = out.Bounds().Dx() / StripLength
	} else {
		src = sheet.Crop(in.Sheet, block)
	}

	sb := src.Bounds()
	rect := func(i int) image.Rectangle {
		return sheet.TileRect(sb.Dx(), tile, i).Add(sb.Min)
	}
	for f := Side; f < facingCount; f++ {
		set.Facings[f] = buildPoses(src, in.Size, playerOffsets[f], rect)
	}
	set.HasDoubleSideWalk = !sheet.IsTransparent(src, rect(playerOffsets[Side].walk[1]))
	return nil
}

func buildPoses(src image.Image, size int, o offsets, rect func(int) image.Rectangle) *PoseSet {
	attackMult := 1
	if o.wideAttack {
		attackMult = 2
	}
	return &PoseSet{
		Stand: component.RenderFrame(src, rect(o.stand), size, 1),
		Walk: [2]*image.RGBA{
			component.RenderFrame(src, rect(o.walk[0]), size, 1),
			component.RenderFrame(src, rect(o.walk[1]), size, 1),
		},
		Attack: [2]*image.RGBA{
			component.RenderFrame(src, rect(o.attack[0]), size, 1),
			component.RenderFrame(src, rect(o.attack[1]), size, attackMult),
		},
	}
}

package pose

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Placement is one frame positioned on the display.
type Placement struct {
	Frame      *image.RGBA
	X, Y, W, H float64
}

// Layout places the frames of s for animation frame index frame (0 or 1).
// Each pose occupies a w×h cell: stand, walk and attack left to right, one
// row per facing. The wide second attack frame spans two cells.
func (s *Set) Layout(x, y, w, h float64, frame int) []Placement {
	if s == nil {
		return nil
	}
	frame &= 1
	switch s.Kind {
	case Simple:
		if s.Static == nil {
			return nil
		}
		return []Placement{{Frame: s.Static, X: x, Y: y, W: w, H: h}}
	case Enemy:
		ps := s.Facings[Side]
		if ps == nil {
			return nil
		}
		return s.row(ps, enemyOffsets, x, y, w, h, frame, ps.Walk[frame])
	case Player:
		out := make([]Placement, 0, 3*int(facingCount))
		for f := Side; f < facingCount; f++ {
			ps := s.Facings[f]
			if ps == nil {
				continue
			}
			walk := ps.Walk[frame]
			if f == Side && frame == 1 && !s.HasDoubleSideWalk {
				walk = ps.Stand
			}
			out = append(out, s.row(ps, playerOffsets[f], x, y+float64(f)*h, w, h, frame, walk)...)
		}
		return out
	}
	return nil
}

func (s *Set) row(ps *PoseSet, o offsets, x, y, w, h float64, frame int, walk *image.RGBA) []Placement {
	if ps == nil {
		return nil
	}
	attackW := w
	if o.wideAttack && frame == 1 {
		attackW = 2 * w
	}
	return []Placement{
		{Frame: ps.Stand, X: x, Y: y, W: w, H: h},
		{Frame: walk, X: x + w, Y: y, W: w, H: h},
		{Frame: ps.Attack[frame], X: x + 2*w, Y: y, W: attackW, H: h},
	}
}

// Snapshot draws placements onto a new image just large enough to hold
// them, using nearest-neighbour scaling.
func Snapshot(placements []Placement) *image.RGBA {
	var bounds image.Rectangle
	rects := make([]image.Rectangle, len(placements))
	for i, p := range placements {
		rects[i] = image.Rect(
			int(math.Floor(p.X)), int(math.Floor(p.Y)),
			int(math.Ceil(p.X+p.W)), int(math.Ceil(p.Y+p.H)),
		)
		bounds = bounds.Union(rects[i])
	}
	out := image.NewRGBA(bounds)
	for i, p := range placements {
		if p.Frame == nil {
			continue
		}
		draw.NearestNeighbor.Scale(out, rects[i], p.Frame, p.Frame.Bounds(), draw.Over, nil)
	}
	return out
}

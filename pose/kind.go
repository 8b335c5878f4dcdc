package pose

import (
	"fmt"
	"strings"
)

// Kind selects the sheet layout and pose table of a sprite.
type Kind int

const (
	// Simple sprites are a single static tile.
	Simple Kind = iota
	// Enemy sprites have one facing laid out in a 7-tile strip.
	Enemy
	// Player sprites have three facings, each a 7-tile row of a 3-row block,
	// and may be recoloured through a mask.
	Player
)

var kindNames = [...]string{Simple: "simple", Enemy: "enemy", Player: "player"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Next cycles through the kinds.
func (k Kind) Next() Kind { return (k + 1) % Kind(len(kindNames)) }

// ParseKind parses a kind name. An empty name is Simple.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Simple, nil
	}
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return Simple, fmt.Errorf("pose: unknown sprite kind %q", s)
}

// Facing is a character orientation.
type Facing int

const (
	Side Facing = iota
	Front
	Back
	facingCount
)

func (f Facing) String() string {
	switch f {
	case Side:
		return "side"
	case Front:
		return "front"
	case Back:
		return "back"
	default:
		return fmt.Sprintf("Facing(%d)", int(f))
	}
}

// offsets is the tile table of one facing, relative to its base tile.
type offsets struct {
	stand  int
	walk   [2]int
	attack [2]int
	// wideAttack renders the second attack frame two tiles wide.
	wideAttack bool
}

const (
	// StripLength is the number of tiles per facing.
	StripLength = 7
	// PlayerRows is the number of tile rows in one player character block.
	PlayerRows = 3
)

var enemyOffsets = offsets{stand: 0, walk: [2]int{1, 2}, attack: [2]int{4, 5}, wideAttack: true}

var playerOffsets = [facingCount]offsets{
	Side:  {stand: 0, walk: [2]int{1, 2}, attack: [2]int{4, 5}, wideAttack: true},
	Front: {stand: 7, walk: [2]int{8, 9}, attack: [2]int{11, 12}},
	Back:  {stand: 14, walk: [2]int{15, 16}, attack: [2]int{18, 19}},
}

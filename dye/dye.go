// Package dye describes the recolour inputs of a player sprite: a flat
// colour or a tile taken from a textile texture atlas.
package dye

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrBadColor reports a malformed hex colour.
	ErrBadColor = errors.New("dye: bad colour")
	// ErrBadTexture reports a malformed "src:size:index" textile entry.
	ErrBadTexture = errors.New("dye: bad textile")
)

// Kind tags which variant a Dye holds.
type Kind int

const (
	None Kind = iota
	Flat
	Textile
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Flat:
		return "flat"
	case Textile:
		return "textile"
	default:
		return "unknown"
	}
}

// TextureRef addresses one tile of a textile atlas.
type TextureRef struct {
	Src   string `yaml:"src" json:"src"`
	Size  int    `yaml:"size" json:"size"`
	Index int    `yaml:"index" json:"index"`
}

func (r TextureRef) String() string {
	return fmt.Sprintf("%s[%d@%d]", r.Src, r.Index, r.Size)
}

// Dye is an immutable recolour input. The zero value is no dye.
type Dye struct {
	Kind    Kind
	Color   color.NRGBA
	Texture TextureRef
}

// NewFlat returns a single-colour dye.
func NewFlat(c color.Color) Dye {
	return Dye{Kind: Flat, Color: color.NRGBAModel.Convert(c).(color.NRGBA)}
}

// NewTextile returns a dye that tiles a texture atlas cell.
func NewTextile(ref TextureRef) Dye {
	return Dye{Kind: Textile, Texture: ref}
}

// IsZero reports whether d is no dye.
func (d Dye) IsZero() bool { return d.Kind == None }

func (d Dye) String() string {
	switch d.Kind {
	case Flat:
		return FormatHex(d.Color)
	case Textile:
		return fmt.Sprintf("%s:%d:%d", d.Texture.Src, d.Texture.Size, d.Texture.Index)
	default:
		return d.Kind.String()
	}
}

// Parse reads a dye as written by String: "none" or empty, a hex colour, or
// a textile as "src:size:index". The source may itself contain colons.
func Parse(s string) (Dye, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == None.String() {
		return Dye{}, nil
	}
	if !strings.Contains(s, ":") {
		c, err := ParseHex(s)
		if err != nil {
			return Dye{}, err
		}
		return NewFlat(c), nil
	}

	rest, index, ok := cutLast(s)
	if !ok {
		return Dye{}, fmt.Errorf("%w: %q", ErrBadTexture, s)
	}
	src, size, ok := cutLast(rest)
	if !ok || src == "" || size <= 0 || index < 0 {
		return Dye{}, fmt.Errorf("%w: %q", ErrBadTexture, s)
	}
	return NewTextile(TextureRef{Src: src, Size: size, Index: index}), nil
}

// cutLast splits s at its last colon and parses the tail as an integer.
func cutLast(s string) (string, int, bool) {
	i := strings.LastIndexByte(s, ':')
	if i < 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return "", 0, false
	}
	return s[:i], n, true
}

// ParseHex parses "#rrggbb", "#rrggbbaa" or "#rgb". The leading '#' is
// optional and alpha defaults to fully opaque.
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	alpha := uint8(0xff)
	switch len(h) {
	case 3, 6:
	case 8:
		a, err := strconv.ParseUint(h[6:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
		}
		alpha = uint8(a)
		h = h[:6]
	default:
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	c, err := colorful.Hex("#" + strings.ToLower(h))
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// FormatHex formats c as "#rrggbb", adding an alpha byte when c is not
// opaque.
func FormatHex(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

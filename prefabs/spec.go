package prefabs

import (
	"fmt"
	"image/color"

	"github.com/milk9111/spritepreview/dye"
	"github.com/milk9111/spritepreview/pose"
	"gopkg.in/yaml.v3"
)

// DefaultSpec is the embedded preview spec used when no -spec is given.
const DefaultSpec = "default.yaml"

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// PreviewSpec describes one previewed sprite.
type PreviewSpec struct {
	Name      string   `yaml:"name"`
	Kind      string   `yaml:"kind"`
	Size      int      `yaml:"size"`
	Index     int      `yaml:"index"`
	Sprite    string   `yaml:"sprite"`
	Mask      string   `yaml:"mask"`
	X         float64  `yaml:"x"`
	Y         float64  `yaml:"y"`
	W         float64  `yaml:"w"`
	H         float64  `yaml:"h"`
	Clothing  *DyeSpec `yaml:"clothing"`
	Accessory *DyeSpec `yaml:"accessory"`
}

func LoadPreviewSpec(filename string) (*PreviewSpec, error) {
	spec, err := LoadSpec[PreviewSpec](filename)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return &spec, nil
}

// ParsePreviewSpec decodes and validates a spec read elsewhere.
func ParsePreviewSpec(data []byte) (*PreviewSpec, error) {
	var spec PreviewSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal preview spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %w", err)
	}
	return &spec, nil
}

func (s *PreviewSpec) Validate() error {
	if _, err := pose.ParseKind(s.Kind); err != nil {
		return err
	}
	if s.Size <= 0 {
		return fmt.Errorf("size must be positive, got %d", s.Size)
	}
	if s.Index < 0 {
		return fmt.Errorf("index must not be negative, got %d", s.Index)
	}
	if _, err := s.Clothing.Dye(); err != nil {
		return fmt.Errorf("clothing: %w", err)
	}
	if _, err := s.Accessory.Dye(); err != nil {
		return fmt.Errorf("accessory: %w", err)
	}
	return nil
}

// SpriteKind returns the parsed kind. Validate has already rejected bad names.
func (s *PreviewSpec) SpriteKind() pose.Kind {
	k, _ := pose.ParseKind(s.Kind)
	return k
}

// Dyes returns the clothing and accessory dyes.
func (s *PreviewSpec) Dyes() (clothing, accessory dye.Dye) {
	clothing, _ = s.Clothing.Dye()
	accessory, _ = s.Accessory.Dye()
	return clothing, accessory
}

// DyeSpec holds either a colour or a texture reference.
type DyeSpec struct {
	Color   *YAMLColor      `yaml:"color"`
	Texture *dye.TextureRef `yaml:"texture"`
}

// Dye converts d. A nil spec is no dye.
func (d *DyeSpec) Dye() (dye.Dye, error) {
	switch {
	case d == nil:
		return dye.Dye{}, nil
	case d.Color != nil && d.Texture != nil:
		return dye.Dye{}, fmt.Errorf("dye has both color and texture")
	case d.Color != nil:
		return dye.NewFlat(d.Color.Color), nil
	case d.Texture != nil:
		if d.Texture.Src == "" || d.Texture.Size <= 0 {
			return dye.Dye{}, fmt.Errorf("texture needs src and a positive size")
		}
		return dye.NewTextile(*d.Texture), nil
	default:
		return dye.Dye{}, nil
	}
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	parsed, err := dye.ParseHex(value.Value)
	if err != nil {
		return err
	}
	c.Color = parsed
	return nil
}

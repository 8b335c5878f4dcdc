package main

import (
	"github.com/milk9111/spritepreview/prefabs"
	"github.com/milk9111/spritepreview/session"
)

// Config is the command line. Empty or negative fields fall back to the
// preview spec, then to the previous session.
type Config struct {
	SpecPath    string
	SpritePath  string
	MaskPath    string
	Kind        string
	Size        int
	Index       int
	TexturesDir string
	Debug       bool

	recent *session.Recent
}

func (c *Config) fillFromRecent(r session.Recent) {
	c.recent = &r
	if c.SpecPath == "" {
		c.SpecPath = r.Spec
	}
}

func (c *Config) setSlot(slot prefabs.Slot, path string) {
	switch slot {
	case prefabs.SlotSprite:
		c.SpritePath = path
	case prefabs.SlotMask:
		c.MaskPath = path
	case prefabs.SlotSpec:
		c.SpecPath = path
	}
}

func (c Config) specName() string {
	if c.SpecPath == "" {
		return prefabs.DefaultSpec
	}
	return c.SpecPath
}

// resolve layers the command line and the previous session over spec.
func (c Config) resolve(spec prefabs.PreviewSpec) prefabs.PreviewSpec {
	r := c.recent
	if r != nil && c.SpecPath == r.Spec {
		if spec.Sprite == "" {
			spec.Sprite = r.Sprite
			spec.Mask = r.Mask
		}
		if r.Kind != "" {
			spec.Kind = r.Kind
		}
		if r.Size > 0 {
			spec.Size = r.Size
		}
		if r.Index >= 0 {
			spec.Index = r.Index
		}
	}
	if c.SpritePath != "" {
		spec.Sprite = c.SpritePath
	}
	if c.MaskPath != "" {
		spec.Mask = c.MaskPath
	}
	if c.Kind != "" {
		spec.Kind = c.Kind
	}
	if c.Size > 0 {
		spec.Size = c.Size
	}
	if c.Index >= 0 {
		spec.Index = c.Index
	}
	return spec
}

package main

import (
	"testing"

	"github.com/milk9111/spritepreview/prefabs"
	"github.com/milk9111/spritepreview/session"
)

func TestConfigResolve(t *testing.T) {
	base := prefabs.PreviewSpec{Kind: "player", Size: 8, Index: 0, Sprite: "spec.png"}
	recent := session.Recent{Sprite: "recent.png", Mask: "recent_mask.png", Kind: "enemy", Size: 16, Index: 2}

	cases := []struct {
		name   string
		cfg    Config
		recent *session.Recent
		want   prefabs.PreviewSpec
	}{
		{
			name: "spec_only",
			cfg:  Config{Index: -1},
			want: base,
		},
		{
			name: "flags_win",
			cfg:  Config{SpritePath: "flag.png", MaskPath: "flag_mask.png", Kind: "simple", Size: 4, Index: 3},
			want: prefabs.PreviewSpec{Kind: "simple", Size: 4, Index: 3, Sprite: "flag.png", Mask: "flag_mask.png"},
		},
		{
			name:   "recent_keeps_spec_sprite",
			cfg:    Config{Index: -1},
			recent: &recent,
			want:   prefabs.PreviewSpec{Kind: "enemy", Size: 16, Index: 2, Sprite: "spec.png"},
		},
		{
			name:   "recent_ignored_for_other_spec",
			cfg:    Config{SpecPath: "other.yaml", Index: -1},
			recent: &recent,
			want:   base,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := c.cfg
			if c.recent != nil {
				specPath := cfg.SpecPath
				cfg.fillFromRecent(*c.recent)
				cfg.SpecPath = specPath
			}
			if got := cfg.resolve(base); got != c.want {
				t.Fatalf("resolve = %+v, want %+v", got, c.want)
			}
		})
	}
}

func TestConfigRecentSprite(t *testing.T) {
	cfg := Config{Index: -1}
	cfg.fillFromRecent(session.Recent{Sprite: "recent.png", Mask: "recent_mask.png", Index: -1})
	got := cfg.resolve(prefabs.PreviewSpec{Size: 8})
	if got.Sprite != "recent.png" || got.Mask != "recent_mask.png" {
		t.Fatalf("recent paths not used: %+v", got)
	}
}

func TestConfigSetSlot(t *testing.T) {
	var cfg Config
	cfg.setSlot(prefabs.SlotSprite, "a.png")
	cfg.setSlot(prefabs.SlotMask, "b.png")
	cfg.setSlot(prefabs.SlotSpec, "c.yaml")
	if cfg.SpritePath != "a.png" || cfg.MaskPath != "b.png" || cfg.specName() != "c.yaml" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if (Config{}).specName() != prefabs.DefaultSpec {
		t.Fatalf("empty spec path should use the embedded spec")
	}
}

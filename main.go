package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/spritepreview/prefabs"
	"github.com/milk9111/spritepreview/session"
)

func main() {
	specPath := flag.String("spec", "", "preview spec yaml (defaults to the embedded spec)")
	spritePath := flag.String("sprite", "", "sprite sheet image")
	maskPath := flag.String("mask", "", "dye mask image (player sprites)")
	kind := flag.String("kind", "", "sprite kind: simple, enemy or player")
	size := flag.Int("size", 0, "tile size in pixels")
	index := flag.Int("index", -1, "tile or character index")
	textures := flag.String("textures", "assets/textures", "directory holding textile atlases")
	debug := flag.Bool("debug", false, "enable debug mode")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	store, err := session.Open("spritepreview")
	if err != nil {
		log.Printf("preview: continuing without session storage")
	}
	cfg := Config{
		SpecPath:    *specPath,
		SpritePath:  *spritePath,
		MaskPath:    *maskPath,
		Kind:        *kind,
		Size:        *size,
		Index:       *index,
		TexturesDir: *textures,
		Debug:       *debug,
	}
	if recent := store.Load(); recent != nil {
		cfg.fillFromRecent(*recent)
	}
	// bare arguments are sorted into slots by extension
	for _, arg := range flag.Args() {
		slot, ok := prefabs.SlotFor(arg, cfg.SpritePath != "")
		if !ok {
			log.Printf("preview: ignoring %s", arg)
			continue
		}
		cfg.setSlot(slot, arg)
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("sprite preview")

	game, err := NewGame(cfg, store)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

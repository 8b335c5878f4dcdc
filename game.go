package main

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"os"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/spritepreview/blend/gpu"
	"github.com/milk9111/spritepreview/dye"
	"github.com/milk9111/spritepreview/entity"
	"github.com/milk9111/spritepreview/prefabs"
	"github.com/milk9111/spritepreview/render"
	"github.com/milk9111/spritepreview/session"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

var backgroundColor = color.RGBA{0x5a, 0x6b, 0x7c, 0xff}

type Game struct {
	cfg   Config
	debug bool

	cancel  context.CancelFunc
	cache   *dye.Cache
	regen   *entity.Regenerator
	sprite  *entity.Entity
	view    spriteView
	watcher *prefabs.Watcher
	store   *session.Store

	spritePath string
	maskPath   string

	ui      *ebitenui.UI
	toolbar *Toolbar

	lastDraw time.Time
}

// NewGame builds the preview from cfg. It fails when the GPU blender cannot
// be created.
func NewGame(cfg Config, store *session.Store) (*Game, error) {
	spec, err := prefabs.LoadPreviewSpec(cfg.specName())
	if err != nil {
		return nil, err
	}
	resolved := cfg.resolve(*spec)
	if err := resolved.Validate(); err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}

	blender, err := gpu.New()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	cache := dye.NewCache(render.NewFileTextureSource(cfg.TexturesDir))
	regen := entity.NewRegenerator(ctx, cache, blender)

	clothing, accessory := resolved.Dyes()
	g := &Game{
		cfg:    cfg,
		debug:  cfg.Debug,
		cancel: cancel,
		cache:  cache,
		regen:  regen,
		store:  store,
		sprite: entity.New(regen, entity.Inputs{
			Kind:      resolved.SpriteKind(),
			Size:      resolved.Size,
			Index:     resolved.Index,
			Clothing:  clothing,
			Accessory: accessory,
		}),
	}
	g.sprite.X, g.sprite.Y = resolved.X, resolved.Y+toolbarHeight
	g.sprite.W, g.sprite.H = resolved.W, resolved.H

	g.ui, g.toolbar = newToolbarUI(ToolbarActions{
		SelectSprite:     func() { g.selectFile(prefabs.SlotSprite) },
		SelectMask:       func() { g.selectFile(prefabs.SlotMask) },
		ClearMask:        g.clearMask,
		CycleKind:        g.cycleKind,
		StepIndex:        g.stepIndex,
		Copy:             g.copyPreview,
		ClothingChanged:  func(s string) { g.setDye(true, s) },
		AccessoryChanged: func(s string) { g.setDye(false, s) },
	})
	g.refreshToolbar()

	watcher, err := prefabs.NewWatcher()
	if err != nil {
		log.Printf("watch: live reload disabled: %v", err)
	} else {
		g.watcher = watcher
		if cfg.SpecPath != "" {
			g.track(prefabs.SlotSpec, cfg.SpecPath)
		}
	}

	g.openFile(prefabs.SlotSprite, resolved.Sprite)
	g.openFile(prefabs.SlotMask, resolved.Mask)
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	g.cancel()
	g.regen.Close()
	g.view.release()
}

func (g *Game) Update() error {
	g.drainWatcher()

	if !typing(g.ui.GetFocusedWidget()) {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyK):
			g.cycleKind()
		case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
			g.stepIndex(1)
		case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
			g.stepIndex(-1)
		case inpututil.IsKeyJustPressed(ebiten.KeyC) && ebiten.IsKeyPressed(ebiten.KeyControl):
			g.copyPreview()
		}
	}

	g.ui.Update()

	if err := g.sprite.Update(); err != nil {
		g.fail("rebuild", err)
	}
	return nil
}

// typing reports whether keyboard input belongs to a focused text field.
func typing(fw widget.Focuser) bool {
	_, ok := fw.(*widget.TextInput)
	return ok
}

func (g *Game) Draw(screen *ebiten.Image) {
	now := time.Now()
	var dt time.Duration
	if !g.lastDraw.IsZero() {
		dt = now.Sub(g.lastDraw)
	}
	g.lastDraw = now

	screen.Fill(backgroundColor)
	g.view.draw(screen, g.sprite, dt)
	g.ui.Draw(screen)
	g.drawChips(screen)

	if g.debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.2f  gen: %d  t=%s", ebiten.ActualFPS(), g.regen.Generation(), g.sprite.Clock.Elapsed().Truncate(time.Millisecond)), 4, baseHeight-16)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func (g *Game) drawChips(screen *ebiten.Image) {
	clothingRect, accessoryRect, ok := g.toolbar.chipRects()
	if !ok {
		return
	}
	in := g.sprite.Inputs()
	for _, chip := range []struct {
		r [4]float32
		d dye.Dye
	}{{clothingRect, in.Clothing}, {accessoryRect, in.Accessory}} {
		if chip.d.IsZero() {
			vector.StrokeRect(screen, chip.r[0], chip.r[1], chip.r[2], chip.r[3], 1, color.White, false)
			continue
		}
		vector.FillRect(screen, chip.r[0], chip.r[1], chip.r[2], chip.r[3], g.cache.Chip(chip.d), false)
	}
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Changes:
			if !ok {
				g.watcher = nil
				return
			}
			g.onAssetChanged(change)
		case err := <-g.watcher.Errors:
			if err != nil {
				log.Printf("watch: %v", err)
			}
		default:
			return
		}
	}
}

// onAssetChanged applies fresh file contents. Undecodable files keep the
// previous frames on screen.
func (g *Game) onAssetChanged(change prefabs.AssetChange) {
	if change.Err != nil {
		g.fail("read "+change.Path, change.Err)
		return
	}
	switch change.Slot {
	case prefabs.SlotSprite, prefabs.SlotMask:
		img, err := render.Decode(change.Bytes)
		if err != nil {
			g.fail("decode "+change.Path, err)
			return
		}
		if change.Slot == prefabs.SlotSprite {
			g.sprite.SetSheet(img)
		} else {
			g.sprite.SetMask(img)
		}
		g.toolbar.SetStatus("reloaded " + change.Path)
	case prefabs.SlotSpec:
		spec, err := prefabs.ParsePreviewSpec(change.Bytes)
		if err != nil {
			g.fail("spec", err)
			return
		}
		g.applySpec(g.cfg.resolve(*spec))
	}
}

func (g *Game) applySpec(spec prefabs.PreviewSpec) {
	if err := spec.Validate(); err != nil {
		g.fail("spec", err)
		return
	}
	g.sprite.X, g.sprite.Y = spec.X, spec.Y+toolbarHeight
	g.sprite.W, g.sprite.H = spec.W, spec.H

	clothing, accessory := spec.Dyes()
	in := g.sprite.Inputs()
	if in.Kind != spec.SpriteKind() {
		g.sprite.SetKind(spec.SpriteKind())
	}
	if in.Size != spec.Size {
		g.sprite.SetSize(spec.Size)
	}
	if in.Index != spec.Index {
		g.sprite.SetIndex(spec.Index)
	}
	if in.Clothing != clothing || in.Accessory != accessory {
		g.sprite.SetDyes(clothing, accessory)
	}
	if spec.Sprite != "" && spec.Sprite != g.spritePath {
		g.openFile(prefabs.SlotSprite, spec.Sprite)
	}
	if spec.Mask != g.maskPath {
		g.openFile(prefabs.SlotMask, spec.Mask)
	}
	g.refreshToolbar()
}

func (g *Game) selectFile(slot prefabs.Slot) {
	path, err := openImageDialog("Select " + slot.String())
	if err != nil {
		g.fail("select "+slot.String(), err)
		return
	}
	g.openFile(slot, path)
}

// openFile loads path into slot and starts watching it. An empty mask path
// clears the mask.
func (g *Game) openFile(slot prefabs.Slot, path string) {
	if path == "" {
		if slot == prefabs.SlotMask {
			g.clearMask()
		}
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		g.fail("open "+path, err)
		return
	}
	switch slot {
	case prefabs.SlotSprite:
		g.spritePath = path
	case prefabs.SlotMask:
		g.maskPath = path
	}
	g.track(slot, path)
	g.onAssetChanged(prefabs.AssetChange{Slot: slot, Path: path, Bytes: data})
	g.saveSession()
}

func (g *Game) clearMask() {
	g.maskPath = ""
	g.track(prefabs.SlotMask, "")
	g.sprite.SetMask(nil)
	g.saveSession()
}

func (g *Game) track(slot prefabs.Slot, path string) {
	if g.watcher == nil {
		return
	}
	if err := g.watcher.Track(slot, path); err != nil {
		log.Printf("watch: %s %s: %v", slot, path, err)
	}
}

func (g *Game) cycleKind() {
	g.sprite.SetKind(g.sprite.Inputs().Kind.Next())
	g.refreshToolbar()
	g.saveSession()
}

func (g *Game) stepIndex(delta int) {
	next := g.sprite.Inputs().Index + delta
	if next < 0 {
		return
	}
	g.sprite.SetIndex(next)
	g.refreshToolbar()
	g.saveSession()
}

// setDye applies a hex colour or a "src:size:index" textile typed into the
// toolbar.
func (g *Game) setDye(clothing bool, s string) {
	d, err := dye.Parse(s)
	if err != nil {
		// partial input while typing
		return
	}
	in := g.sprite.Inputs()
	if clothing {
		if d == in.Clothing {
			return
		}
		g.sprite.SetDyes(d, in.Accessory)
	} else {
		if d == in.Accessory {
			return
		}
		g.sprite.SetDyes(in.Clothing, d)
	}
}

func (g *Game) copyPreview() {
	snap := g.sprite.Snapshot()
	if err := copyImage(snap); err != nil {
		g.fail("copy", err)
		return
	}
	g.toolbar.SetStatus(fmt.Sprintf("copied %dx%d", snap.Bounds().Dx(), snap.Bounds().Dy()))
}

func (g *Game) refreshToolbar() {
	in := g.sprite.Inputs()
	g.toolbar.SetKind(in.Kind.String())
	g.toolbar.SetIndexLabel(fmt.Sprintf("#%d", in.Index))
	g.toolbar.SetDyeText(in.Clothing.String(), in.Accessory.String())
}

func (g *Game) saveSession() {
	in := g.sprite.Inputs()
	_ = g.store.Save(session.Recent{
		Spec:   g.cfg.SpecPath,
		Sprite: g.spritePath,
		Mask:   g.maskPath,
		Kind:   in.Kind.String(),
		Size:   in.Size,
		Index:  in.Index,
	})
}

func (g *Game) fail(what string, err error) {
	log.Printf("preview: %s: %v", what, err)
	g.toolbar.SetStatus(what + ": " + err.Error())
}

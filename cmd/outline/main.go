// Command outline renders the pose frames of a sprite sheet to PNG files
// without opening the preview window. Player sheets with a mask or dyes
// need the GPU, so a minimal game loop is started for the blend pass.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/spritepreview/blend"
	"github.com/milk9111/spritepreview/blend/gpu"
	"github.com/milk9111/spritepreview/component"
	"github.com/milk9111/spritepreview/dye"
	"github.com/milk9111/spritepreview/entity"
	"github.com/milk9111/spritepreview/pose"
	"github.com/milk9111/spritepreview/prefabs"
	"github.com/milk9111/spritepreview/render"
)

func main() {
	specPath := flag.String("spec", prefabs.DefaultSpec, "preview spec yaml")
	spritePath := flag.String("sprite", "", "sprite sheet image (overrides the spec)")
	maskPath := flag.String("mask", "", "dye mask image (overrides the spec)")
	kind := flag.String("kind", "", "sprite kind: simple, enemy or player")
	size := flag.Int("size", 0, "tile size in pixels")
	index := flag.Int("index", -1, "tile or character index")
	textures := flag.String("textures", "assets/textures", "directory holding textile atlases")
	scale := flag.Int("scale", blend.DefaultScale, "blend magnification")
	outDir := flag.String("out", ".", "output directory")
	flag.Parse()

	spec, err := prefabs.LoadPreviewSpec(*specPath)
	if err != nil {
		log.Fatal(err)
	}
	if *spritePath != "" {
		spec.Sprite = *spritePath
	}
	if *maskPath != "" {
		spec.Mask = *maskPath
	}
	if *kind != "" {
		spec.Kind = *kind
	}
	if *size > 0 {
		spec.Size = *size
	}
	if *index >= 0 {
		spec.Index = *index
	}
	if err := spec.Validate(); err != nil {
		log.Fatalf("outline: %v", err)
	}
	if spec.Sprite == "" {
		log.Fatal("outline: no sprite sheet; pass -sprite or set sprite in the spec")
	}

	in, err := loadInputs(spec)
	if err != nil {
		log.Fatal(err)
	}

	ex := &exporter{
		spec:   spec,
		inputs: in,
		outDir: *outDir,
		cache:  dye.NewCache(render.NewFileTextureSource(*textures)),
		scale:  *scale,
	}

	if !needsGPU(in) {
		if err := ex.run(nil); err != nil {
			log.Fatal(err)
		}
		return
	}

	// pixel readback only works once the game loop is running
	ebiten.SetWindowSize(160, 120)
	ebiten.SetWindowTitle("outline")
	ebiten.SetRunnableOnUnfocused(true)
	if err := ebiten.RunGame(ex); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
	if ex.err != nil {
		log.Fatal(ex.err)
	}
}

func loadInputs(spec *prefabs.PreviewSpec) (entity.Inputs, error) {
	clothing, accessory := spec.Dyes()
	in := entity.Inputs{
		Kind:      spec.SpriteKind(),
		Size:      spec.Size,
		Index:     spec.Index,
		Clothing:  clothing,
		Accessory: accessory,
	}
	sheet, err := render.LoadImage(spec.Sprite)
	if err != nil {
		return in, err
	}
	in.Sheet = sheet
	if spec.Mask != "" {
		mask, err := render.LoadImage(spec.Mask)
		if err != nil {
			return in, err
		}
		in.Mask = mask
	}
	return in, nil
}

func needsGPU(in entity.Inputs) bool {
	return in.Kind == pose.Player && (in.Mask != nil || !in.Clothing.IsZero() || !in.Accessory.IsZero())
}

type exporter struct {
	spec   *prefabs.PreviewSpec
	inputs entity.Inputs
	outDir string
	cache  *dye.Cache
	scale  int

	done bool
	err  error
}

// run builds the pose set and writes one PNG per animation frame.
func (e *exporter) run(blender blend.Blender) error {
	regen := entity.NewRegenerator(context.Background(), e.cache, blender)
	regen.Scale = e.scale
	defer regen.Close()

	gen := regen.Request(e.inputs)
	regen.Wait()
	out, ok := regen.Poll()
	if !ok || out.Generation != gen {
		return fmt.Errorf("outline: build %d did not finish", gen)
	}
	if out.Err != nil {
		return out.Err
	}

	fs := component.FrameSize(e.spec.Size, 1)
	w, h := float64(fs.X), float64(fs.Y)
	if e.spec.W > 0 && e.spec.H > 0 {
		w, h = e.spec.W, e.spec.H
	}
	name := e.spec.Name
	if name == "" {
		name = "sprite"
	}
	if err := os.MkdirAll(e.outDir, 0o755); err != nil {
		return err
	}
	for frame := 0; frame < 2; frame++ {
		img := pose.Snapshot(out.Set.Layout(0, 0, w, h, frame))
		path := filepath.Join(e.outDir, fmt.Sprintf("%s_%s_%d.png", name, out.Set.Kind, frame))
		if err := writePNG(path, img); err != nil {
			return err
		}
		log.Printf("outline: wrote %s (%dx%d)", path, img.Bounds().Dx(), img.Bounds().Dy())
	}
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("outline: encode %s: %w", path, err)
	}
	return f.Close()
}

func (e *exporter) Update() error {
	if e.done {
		return ebiten.Termination
	}
	e.done = true
	blender, err := gpu.New()
	if err != nil {
		e.err = err
		return ebiten.Termination
	}
	e.err = e.run(blender)
	return ebiten.Termination
}

func (e *exporter) Draw(screen *ebiten.Image) {}

func (e *exporter) Layout(outsideWidth, outsideHeight int) (int, int) {
	return 160, 120
}

package entity

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/milk9111/spritepreview/dye"
	"github.com/milk9111/spritepreview/pose"
	"github.com/milk9111/spritepreview/sheet"
)

// gatedSource blocks every load until gate is closed and ignores
// cancellation, so a superseded request still finishes.
type gatedSource struct {
	gate  chan struct{}
	atlas image.Image
}

func (g *gatedSource) Atlas(ctx context.Context, src string) (image.Image, error) {
	<-g.gate
	if src == "missing.png" {
		return nil, errors.New("not found")
	}
	return g.atlas, nil
}

func testSheet() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 32, 8))
	for y := 2; y < 6; y++ {
		for x := 2; x < 30; x++ {
			img.SetRGBA(x, y, color.RGBA{200, 40, 40, 255})
		}
	}
	return img
}

func pollUntil(t *testing.T, r *Regenerator) Outcome {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if out, ok := r.Poll(); ok {
			return out
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("no outcome before deadline")
	return Outcome{}
}

func TestRegeneratorDiscardsStaleGenerations(t *testing.T) {
	src := &gatedSource{gate: make(chan struct{}), atlas: image.NewRGBA(image.Rect(0, 0, 16, 16))}
	r := NewRegenerator(context.Background(), dye.NewCache(src), nil)
	defer r.Close()

	slow := Inputs{
		Kind:     pose.Simple,
		Size:     8,
		Index:    0,
		Sheet:    testSheet(),
		Clothing: dye.NewTextile(dye.TextureRef{Src: "atlas.png", Size: 8}),
	}
	first := r.Request(slow)

	fast := slow
	fast.Clothing = dye.Dye{}
	fast.Index = 2
	second := r.Request(fast)
	if second <= first {
		t.Fatalf("generations not increasing: %d then %d", first, second)
	}

	out := pollUntil(t, r)
	if out.Generation != second {
		t.Fatalf("committed generation %d, want %d", out.Generation, second)
	}
	if out.Err != nil || out.Set == nil {
		t.Fatalf("unexpected outcome %+v", out)
	}

	close(src.gate)
	r.Wait()
	if out, ok := r.Poll(); ok {
		t.Fatalf("stale generation %d surfaced", out.Generation)
	}
}

// slowSource takes delay per load and gives up when ctx ends.
type slowSource struct {
	delay time.Duration
	atlas image.Image
}

func (s *slowSource) Atlas(ctx context.Context, src string) (image.Image, error) {
	select {
	case <-time.After(s.delay):
		return s.atlas, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestRegeneratorNewestSurvivesSharedTextileCancel(t *testing.T) {
	src := &slowSource{delay: 5 * time.Millisecond, atlas: image.NewRGBA(image.Rect(0, 0, 16, 16))}
	for i := range 20 {
		r := NewRegenerator(context.Background(), dye.NewCache(src), nil)
		in := Inputs{
			Kind:     pose.Simple,
			Size:     8,
			Sheet:    testSheet(),
			Clothing: dye.NewTextile(dye.TextureRef{Src: "t.png", Size: 8, Index: i % 4}),
		}
		r.Request(in)
		time.Sleep(time.Millisecond)
		in.Index = 1
		newest := r.Request(in)

		out := pollUntil(t, r)
		r.Close()
		if out.Generation != newest {
			t.Fatalf("run %d: committed generation %d, want %d", i, out.Generation, newest)
		}
		if out.Err != nil || out.Set == nil {
			t.Fatalf("run %d: newest generation failed: %v", i, out.Err)
		}
	}
}

func TestRegeneratorResolveError(t *testing.T) {
	src := &gatedSource{gate: make(chan struct{})}
	close(src.gate)
	r := NewRegenerator(context.Background(), dye.NewCache(src), nil)
	defer r.Close()

	r.Request(Inputs{
		Kind:      pose.Player,
		Size:      8,
		Sheet:     testSheet(),
		Accessory: dye.NewTextile(dye.TextureRef{Src: "missing.png", Size: 8}),
	})
	if out := pollUntil(t, r); out.Err == nil {
		t.Fatalf("expected a load error")
	}
}

func TestEntityUpdateKeepsPreviousSetOnError(t *testing.T) {
	r := NewRegenerator(context.Background(), nil, nil)
	defer r.Close()

	e := New(r, Inputs{Kind: pose.Simple, Size: 8})
	if e.Set() != nil {
		t.Fatalf("set before any sheet")
	}
	e.Regenerate()
	if r.Generation() != 0 {
		t.Fatalf("regenerate without a sheet should not request a build")
	}

	e.SetSheet(testSheet())
	r.Wait()
	if err := e.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	good := e.Set()
	if good == nil || good.Static == nil {
		t.Fatalf("no set committed")
	}

	// 32px is not a multiple of 5
	e.SetSize(5)
	r.Wait()
	if err := e.Update(); !errors.Is(err, sheet.ErrGeometry) {
		t.Fatalf("expected ErrGeometry, got %v", err)
	}
	if e.Set() != good {
		t.Fatalf("failed build replaced the committed set")
	}

	e.SetSize(8)
	e.SetIndex(3)
	r.Wait()
	if err := e.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if e.Set() == good {
		t.Fatalf("new set not committed")
	}
}

func TestEntityLayout(t *testing.T) {
	r := NewRegenerator(context.Background(), nil, nil)
	defer r.Close()

	e := New(r, Inputs{Kind: pose.Simple, Size: 8})
	e.X, e.Y = 5, 7
	if e.Layout(0) != nil {
		t.Fatalf("layout before first build")
	}
	e.SetSheet(testSheet())
	r.Wait()
	if err := e.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	ps := e.Layout(0)
	if len(ps) != 1 || ps[0].X != 5 || ps[0].Y != 7 || ps[0].W != 64 || ps[0].H != 64 {
		t.Fatalf("native layout %+v", ps)
	}
	e.W, e.H = 32, 32
	if ps = e.Layout(0); ps[0].W != 32 {
		t.Fatalf("scaled layout %+v", ps)
	}

	snap := e.Snapshot()
	if snap.Bounds() != image.Rect(5, 7, 37, 39) {
		t.Fatalf("snapshot bounds %v", snap.Bounds())
	}
}

func TestEntitySetKindResetsClock(t *testing.T) {
	e := New(nil, Inputs{})
	e.Clock.Tick(600 * time.Millisecond)
	e.SetKind(pose.Enemy)
	if e.Clock.Elapsed() != 0 || e.Inputs().Kind != pose.Enemy {
		t.Fatalf("SetKind did not reset the clock")
	}
}

package blend

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
)

// referenceBlender evaluates the tint shader's arithmetic on the CPU so the
// staging and the blend rule can be checked without a graphics context.
type referenceBlender struct{}

func (referenceBlender) Blend(ctx context.Context, req Request) (*image.RGBA, error) {
	in, err := Prepare(req)
	if err != nil {
		return nil, err
	}
	size := in.OutputSize()
	out := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			sx := in.Region.Min.X + x/in.Scale
			sy := in.Region.Min.Y + y/in.Scale
			out.SetRGBA(x, y, tintTexel(
				in.Sheet.RGBAAt(sx, sy),
				in.Mask.RGBAAt(sx, sy),
				in.Clothing.RGBAAt(sx, sy),
				in.Accessory.RGBAAt(sx, sy),
			))
		}
	}
	return out, nil
}

func tintTexel(base, mask, clothing, accessory color.RGBA) color.RGBA {
	if base.A == 0 {
		return base
	}
	a := float64(base.A) / 255
	rgb := [3]float64{float64(base.R) / 255 / a, float64(base.G) / 255 / a, float64(base.B) / 255 / a}
	apply := func(t color.RGBA, weight uint8) {
		ta := float64(t.A) / 255
		w := float64(weight) / 255 * ta
		if w == 0 {
			return
		}
		tc := [3]float64{float64(t.R) / 255 / ta, float64(t.G) / 255 / ta, float64(t.B) / 255 / ta}
		for i := range rgb {
			rgb[i] = rgb[i]*(1-w) + tc[i]*w
		}
	}
	apply(clothing, mask.R)
	apply(accessory, mask.G)
	to8 := func(v float64) uint8 { return uint8(math.Round(math.Min(1, math.Max(0, v*a)) * 255)) }
	return color.RGBA{to8(rgb[0]), to8(rgb[1]), to8(rgb[2]), base.A}
}

func testSheet() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 14, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 14; x++ {
			if (x+y)%5 == 0 {
				continue
			}
			img.SetRGBA(x, y, color.RGBA{uint8(20 * x), uint8(40 * y), 90, 255})
		}
	}
	return img
}

func TestBlendMaskedRegionBecomesRed(t *testing.T) {
	sheet := testSheet()
	mask := image.NewRGBA(image.Rect(0, 0, 1, 1))
	mask.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})

	out, err := referenceBlender{}.Blend(context.Background(), Request{
		Sheet:    sheet,
		Mask:     mask,
		Clothing: FlatTint(color.RGBA{255, 0, 0, 255}),
		Scale:    1,
	})
	if err != nil {
		t.Fatalf("Blend: %v", err)
	}
	if out.Bounds() != sheet.Bounds() {
		t.Fatalf("output bounds %v, want %v", out.Bounds(), sheet.Bounds())
	}
	red := color.RGBA{255, 0, 0, 255}
	for y := 0; y < 6; y++ {
		for x := 0; x < 14; x++ {
			in := sheet.RGBAAt(x, y)
			got := out.RGBAAt(x, y)
			if in.A == 0 {
				if got != in {
					t.Fatalf("transparent texel (%d,%d) changed to %v", x, y, got)
				}
				continue
			}
			if got != red {
				t.Fatalf("masked texel (%d,%d) = %v, want pure red", x, y, got)
			}
		}
	}
}

func TestBlendUnmaskedTexelsUnchanged(t *testing.T) {
	sheet := testSheet()
	mask := image.NewRGBA(sheet.Bounds())
	for y := 0; y < 6; y++ {
		for x := 0; x < 7; x++ {
			mask.SetRGBA(x, y, color.RGBA{255, 0, 0, 255})
		}
	}

	out, err := referenceBlender{}.Blend(context.Background(), Request{
		Sheet:     sheet,
		Mask:      mask,
		Clothing:  FlatTint(color.RGBA{255, 0, 0, 255}),
		Accessory: FlatTint(color.RGBA{0, 255, 0, 255}),
		Scale:     1,
	})
	if err != nil {
		t.Fatalf("Blend: %v", err)
	}
	for y := 0; y < 6; y++ {
		for x := 7; x < 14; x++ {
			if got, want := out.RGBAAt(x, y), sheet.RGBAAt(x, y); got != want {
				t.Fatalf("unmasked texel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestBlendRegionAndScale(t *testing.T) {
	sheet := testSheet()
	out, err := referenceBlender{}.Blend(context.Background(), Request{
		Sheet:  sheet,
		Region: image.Rect(0, 2, 14, 4),
		Scale:  3,
	})
	if err != nil {
		t.Fatalf("Blend: %v", err)
	}
	if got := out.Bounds().Size(); got != image.Pt(42, 6) {
		t.Fatalf("output size %v, want 42x6", got)
	}
	if got, want := out.RGBAAt(3*5+1, 3*1+2), sheet.RGBAAt(5, 3); got != want {
		t.Fatalf("magnified texel %v, want %v", got, want)
	}
}

func TestPrepare(t *testing.T) {
	sheet := testSheet()

	t.Run("no_sheet", func(t *testing.T) {
		if _, err := Prepare(Request{}); !errors.Is(err, ErrNoSheet) {
			t.Fatalf("expected ErrNoSheet, got %v", err)
		}
	})

	t.Run("region_outside", func(t *testing.T) {
		_, err := Prepare(Request{Sheet: sheet, Region: image.Rect(100, 100, 110, 110)})
		if !errors.Is(err, ErrEmptyRegion) {
			t.Fatalf("expected ErrEmptyRegion, got %v", err)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		in, err := Prepare(Request{Sheet: sheet})
		if err != nil {
			t.Fatalf("Prepare: %v", err)
		}
		if in.Scale != DefaultScale {
			t.Fatalf("scale %d, want %d", in.Scale, DefaultScale)
		}
		if in.Region != sheet.Bounds() {
			t.Fatalf("region %v, want whole sheet", in.Region)
		}
		for _, layer := range []*image.RGBA{in.Mask, in.Clothing, in.Accessory} {
			if layer.Bounds() != sheet.Bounds() {
				t.Fatalf("layer bounds %v, want %v", layer.Bounds(), sheet.Bounds())
			}
			for _, v := range layer.Pix {
				if v != 0 {
					t.Fatalf("absent inputs must stage as transparent")
				}
			}
		}
	})

	t.Run("offset_sheet_rebased", func(t *testing.T) {
		sub := sheet.SubImage(image.Rect(7, 0, 14, 6))
		in, err := Prepare(Request{Sheet: sub, Region: image.Rect(7, 2, 14, 4)})
		if err != nil {
			t.Fatalf("Prepare: %v", err)
		}
		if in.Sheet.Bounds() != image.Rect(0, 0, 7, 6) {
			t.Fatalf("sheet not rebased: %v", in.Sheet.Bounds())
		}
		if in.Region != image.Rect(0, 2, 7, 4) {
			t.Fatalf("region not rebased: %v", in.Region)
		}
		if got, want := in.Sheet.RGBAAt(1, 1), sheet.RGBAAt(8, 1); got != want {
			t.Fatalf("rebased texel %v, want %v", got, want)
		}
	})

	t.Run("swatch_tiles_from_region_origin", func(t *testing.T) {
		swatch := image.NewRGBA(image.Rect(0, 0, 4, 4))
		marker := color.RGBA{1, 2, 3, 255}
		swatch.SetRGBA(0, 0, marker)
		in, err := Prepare(Request{Sheet: sheet, Clothing: SwatchTint(swatch), Region: image.Rect(0, 2, 14, 6)})
		if err != nil {
			t.Fatalf("Prepare: %v", err)
		}
		for _, p := range []image.Point{{0, 2}, {4, 2}, {8, 2}, {0, 6 - 4}, {12, 2}} {
			if got := in.Clothing.RGBAAt(p.X, p.Y); got != marker {
				t.Fatalf("expected swatch corner at %v, got %v", p, got)
			}
		}
		if got := in.Clothing.RGBAAt(0, 0); got.A != 0 {
			t.Fatalf("(0,0) lies two rows above a tile corner, got %v", got)
		}
	})

	t.Run("flat_tint_fills", func(t *testing.T) {
		in, err := Prepare(Request{Sheet: sheet, Accessory: FlatTint(color.RGBA{0, 0, 255, 255})})
		if err != nil {
			t.Fatalf("Prepare: %v", err)
		}
		if got := in.Accessory.RGBAAt(13, 5); got != (color.RGBA{0, 0, 255, 255}) {
			t.Fatalf("flat tint should clamp across the sheet, got %v", got)
		}
	})
}

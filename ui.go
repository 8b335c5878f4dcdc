package main

import (
	"bytes"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

const toolbarHeight = 40

// ToolbarActions are the callbacks behind the toolbar widgets.
type ToolbarActions struct {
	SelectSprite     func()
	SelectMask       func()
	ClearMask        func()
	CycleKind        func()
	StepIndex        func(delta int)
	Copy             func()
	// ClothingChanged and AccessoryChanged receive the raw field text: a hex
	// colour, "src:size:index" for a textile, or "none".
	ClothingChanged  func(text string)
	AccessoryChanged func(text string)
}

// Toolbar holds the widgets whose labels change at runtime.
type Toolbar struct {
	kindBtn   *widget.Button
	indexText *widget.Text
	status    *widget.Text
	clothing  *widget.TextInput
	accessory *widget.TextInput
	suppress  bool
}

func solidNineSlice(c color.Color) *imageui.NineSlice {
	return imageui.NewNineSliceColor(c)
}

func newToolbarUI(actions ToolbarActions) (*ebitenui.UI, *Toolbar) {
	ui := &ebitenui.UI{}

	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic("Failed to load font: " + err.Error())
	}
	var face text.Face = &text.GoTextFace{Source: s, Size: 14}

	btnImage := &widget.ButtonImage{
		Idle:    solidNineSlice(color.RGBA{180, 180, 180, 255}),
		Hover:   solidNineSlice(color.RGBA{200, 200, 200, 255}),
		Pressed: solidNineSlice(color.RGBA{160, 160, 160, 255}),
	}
	btnTextColor := &widget.ButtonTextColor{Idle: color.Black, Disabled: color.Gray{Y: 128}}
	labelColor := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	bar := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{40, 40, 48, 255})),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(8),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 6, Bottom: 6, Left: 8, Right: 8}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(baseWidth, toolbarHeight),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionStart,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
				StretchHorizontal:  true,
			}),
		),
	)

	button := func(label string, onClick func()) *widget.Button {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(btnImage),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(48, 28)),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				if onClick != nil {
					onClick()
				}
			}),
		)
		bar.AddChild(btn)
		return btn
	}
	label := func(s string) *widget.Text {
		t := widget.NewText(
			widget.TextOpts.Text(s, &face, labelColor),
			widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
		)
		bar.AddChild(t)
		return t
	}

	tb := &Toolbar{}

	button("Sprite", actions.SelectSprite)
	button("Mask", actions.SelectMask)
	button("No mask", actions.ClearMask)
	tb.kindBtn = button("Kind", actions.CycleKind)
	button("<", func() {
		if actions.StepIndex != nil {
			actions.StepIndex(-1)
		}
	})
	tb.indexText = label("#0")
	button(">", func() {
		if actions.StepIndex != nil {
			actions.StepIndex(1)
		}
	})

	dyeInput := func(name string, onChange func(string)) *widget.TextInput {
		label(name)
		input := widget.NewTextInput(
			widget.TextInputOpts.WidgetOpts(widget.WidgetOpts.MinSize(150, 28)),
			widget.TextInputOpts.Image(&widget.TextInputImage{
				Idle:     solidNineSlice(color.RGBA{245, 245, 245, 255}),
				Disabled: solidNineSlice(color.RGBA{200, 200, 200, 255}),
			}),
			widget.TextInputOpts.Color(&widget.TextInputColor{Idle: color.Black, Disabled: color.Gray{Y: 120}, Caret: color.Black}),
			widget.TextInputOpts.Face(&face),
			widget.TextInputOpts.ChangedHandler(func(args *widget.TextInputChangedEventArgs) {
				if tb.suppress || onChange == nil {
					return
				}
				onChange(args.InputText)
			}),
		)
		bar.AddChild(input)
		// room for the colour chip drawn over the bar
		label("    ")
		return input
	}
	tb.clothing = dyeInput("Clothing", actions.ClothingChanged)
	tb.accessory = dyeInput("Accessory", actions.AccessoryChanged)

	button("Copy", actions.Copy)
	tb.status = label("")

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(bar)
	ui.Container = root
	return ui, tb
}

func (t *Toolbar) SetKind(name string) {
	if t == nil || t.kindBtn == nil {
		return
	}
	if txt := t.kindBtn.Text(); txt != nil {
		txt.Label = "Kind: " + name
	}
}

func (t *Toolbar) SetIndexLabel(s string) {
	if t == nil || t.indexText == nil {
		return
	}
	t.indexText.Label = s
}

func (t *Toolbar) SetStatus(s string) {
	if t == nil || t.status == nil {
		return
	}
	t.status.Label = s
}

// SetDyeText fills the dye inputs without firing their change handlers.
func (t *Toolbar) SetDyeText(clothing, accessory string) {
	if t == nil {
		return
	}
	t.suppress = true
	defer func() { t.suppress = false }()
	t.clothing.SetText(clothing)
	t.accessory.SetText(accessory)
}

// chipRects returns where the dye chips are drawn, right after each input.
func (t *Toolbar) chipRects() (clothing, accessory [4]float32, ok bool) {
	if t == nil || t.clothing == nil || t.accessory == nil {
		return clothing, accessory, false
	}
	chip := func(in *widget.TextInput) [4]float32 {
		r := in.GetWidget().Rect
		return [4]float32{float32(r.Max.X + 10), float32(r.Min.Y + 4), 20, float32(r.Dy() - 8)}
	}
	return chip(t.clothing), chip(t.accessory), true
}

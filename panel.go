package main

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// Panel is the control strip for driving the population without memorizing
// keybinds. Buttons use colored nine-slices and the built-in basic font, so
// no theme fonts need to be loaded.
type Panel struct {
	ui     *ebitenui.UI
	status *widget.Text
	g      *Game
}

func NewPanel(g *Game) *Panel {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	btnTextColor := &widget.ButtonTextColor{Idle: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}}
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	p := &Panel{g: g}

	p.status = widget.NewText(
		widget.TextOpts.Text("", &face, white),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)

	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}

	row := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(8),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 8, Bottom: 8, Left: 12, Right: 12}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionStart,
				VerticalPosition:   widget.AnchorLayoutPositionEnd,
			}),
		),
	)

	row.AddChild(p.status)
	row.AddChild(button("Spawn", g.spawnRandom))
	row.AddChild(button("Divide", g.divideOne))
	row.AddChild(button("Gather", g.manager.GatherAll))
	row.AddChild(button("Reload", g.reloadPack))
	row.AddChild(button("Quit", func() { g.quit = true }))

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(row)

	p.ui = &ebitenui.UI{Container: root}
	return p
}

func (p *Panel) Update() {
	p.status.Label = fmt.Sprintf("pets %d/%d", p.g.manager.Count(), p.g.manager.Cap())
	p.ui.Update()
}

func (p *Panel) Draw(screen *ebiten.Image) {
	p.ui.Draw(screen)
}

//go:build ebiten

// Package ui draws the parameter panel shown beside the grid.
package ui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"golgl/internal/core"
)

// ParameterProvider supplies the values the HUD lists.
type ParameterProvider interface {
	Parameters() core.ParameterSnapshot
}

// Adjuster is called with -1 or +1 when a row's buttons are clicked.
type Adjuster func(direction int)

// HUD renders the parameter panel to the right of the simulation view.
type HUD struct {
	src      ParameterProvider
	title    string
	width    int
	panel    *ebiten.Image
	snapshot core.ParameterSnapshot

	adjusters map[string]Adjuster
	rows      []hudRow

	panelOffsetX int
	pixel        *ebiten.Image
}

type hudRow struct {
	header bool
	param  core.Parameter
	top    int

	minusRect image.Rectangle
	plusRect  image.Rectangle
}

// NewHUD constructs a HUD for the provided source and panel width.
func NewHUD(src ParameterProvider, title string, width int) *HUD {
	h := &HUD{src: src, title: title, width: max(width, 0), adjusters: map[string]Adjuster{}}
	if h.width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	return h
}

// Adjust attaches -/+ buttons to the parameter with the given key.
func (h *HUD) Adjust(key string, fn Adjuster) {
	if h == nil || fn == nil {
		return
	}
	h.adjusters[key] = fn
}

// Update refreshes the cached snapshot and handles clicks on the panel.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil || h.src == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	h.snapshot = h.src.Parameters()
	h.layout()
	h.handleInput()
}

// Draw paints the panel at offsetX with the given height.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		if h.panel != nil {
			h.panel.Deallocate()
		}
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})

	face := basicfont.Face7x13
	text.Draw(h.panel, h.title, face, panelPadding, panelPadding+headerBaseline, color.RGBA{R: 200, G: 200, B: 210, A: 255})
	for i := range h.rows {
		row := &h.rows[i]
		y := row.top + labelBaseline
		if row.header {
			text.Draw(h.panel, row.param.Label, face, panelPadding, y, color.RGBA{R: 150, G: 170, B: 210, A: 255})
			continue
		}
		text.Draw(h.panel, row.param.Label, face, panelPadding, y, color.RGBA{R: 220, G: 220, B: 230, A: 255})
		valueX := h.width - panelPadding - text.BoundString(face, row.param.Value).Dx()
		if _, ok := h.adjusters[row.param.Key]; ok {
			valueX = row.minusRect.Min.X - buttonGap - text.BoundString(face, row.param.Value).Dx()
			h.drawButton(row.minusRect, "-")
			h.drawButton(row.plusRect, "+")
		}
		text.Draw(h.panel, row.param.Value, face, valueX, y, color.RGBA{R: 230, G: 220, B: 160, A: 255})
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) layout() {
	h.rows = h.rows[:0]
	top := controlsTop
	for _, group := range h.snapshot.Groups {
		h.rows = append(h.rows, hudRow{header: true, param: core.Parameter{Label: group.Name}, top: top})
		top += headerHeight
		for _, p := range group.Params {
			buttonY := top + (lineHeight-buttonSize)/2
			plus := image.Rect(h.width-panelPadding-buttonSize, buttonY, h.width-panelPadding, buttonY+buttonSize)
			minus := image.Rect(plus.Min.X-buttonGap-buttonSize, buttonY, plus.Min.X-buttonGap, buttonY+buttonSize)
			h.rows = append(h.rows, hudRow{param: p, top: top, minusRect: minus, plusRect: plus})
			top += lineHeight
		}
	}
}

func (h *HUD) handleInput() {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return
	}
	px := mx - h.panelOffsetX
	for _, row := range h.rows {
		fn, ok := h.adjusters[row.param.Key]
		if row.header || !ok {
			continue
		}
		if pointInRect(px, my, row.minusRect) {
			fn(-1)
			return
		}
		if pointInRect(px, my, row.plusRect) {
			fn(1)
			return
		}
	}
}

// Contains reports whether a logical screen point lies on the panel.
func (h *HUD) Contains(x, y int) bool {
	return h != nil && h.width > 0 && x >= h.panelOffsetX && x < h.panelOffsetX+h.width && y >= 0
}

func (h *HUD) drawButton(rect image.Rectangle, label string) {
	if h.pixel == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(color.RGBA{R: 54, G: 56, B: 64, A: 255})
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, color.RGBA{R: 230, G: 230, B: 240, A: 255})
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

const (
	panelPadding   = 12
	lineHeight     = 24
	headerHeight   = 22
	buttonSize     = 18
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 16
	controlsTop    = panelPadding + headerBaseline + 10
)

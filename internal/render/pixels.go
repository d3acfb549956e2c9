// Package render holds the CPU side of the cell image pipeline: the pixel
// encoding of cells, the seeding surface, and the view transform consumed by
// the presentation program.
package render

import (
	"image"
	"image/color"
	"image/draw"

	"golgl/internal/core"
)

// Alive and Dead are the channel values of a cell pixel. All four channels
// of a pixel always carry the same value.
const (
	Alive byte = 0xff
	Dead  byte = 0x00

	midpoint = 0x7f
)

// EncodeCells writes g into buf as uniform RGBA8 pixels.
func EncodeCells(buf []byte, g *core.ByteGrid) {
	for i, c := range g.Cells() {
		v := Dead
		if c != 0 {
			v = Alive
		}
		base := i * 4
		buf[base+0] = v
		buf[base+1] = v
		buf[base+2] = v
		buf[base+3] = v
	}
}

// DecodeCells thresholds the red channel of pix into g.
func DecodeCells(g *core.ByteGrid, pix []byte) {
	cells := g.Cells()
	for i := range cells {
		cells[i] = 0
		if pix[i*4] > midpoint {
			cells[i] = 1
		}
	}
}

// CellPixels converts an arbitrary image into uniform cell pixels. A pixel
// is alive when its brightest colour channel exceeds the midpoint, which
// absorbs antialiasing at rectangle edges and any fill colour.
func CellPixels(img image.Image) []byte {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) || rgba.Stride != 4*b.Dx() {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	out := make([]byte, 4*b.Dx()*b.Dy())
	for i := 0; i < len(out); i += 4 {
		r, g, bl := rgba.Pix[i], rgba.Pix[i+1], rgba.Pix[i+2]
		v := Dead
		if max(r, g, bl) > midpoint {
			v = Alive
		}
		out[i+0] = v
		out[i+1] = v
		out[i+2] = v
		out[i+3] = v
	}
	return out
}

// Colorize renders g with the given colours, one pixel per cell.
func Colorize(g *core.ByteGrid, on, off color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.W, g.H))
	fillBinaryRGBA(img.Pix, g.Cells(), on, off)
	return img
}

// fillBinaryRGBA converts binary cell data (0/1) into RGBA pixels in buf.
func fillBinaryRGBA(buf []byte, cells []uint8, on, off color.Color) {
	rOn, gOn, bOn, aOn := on.RGBA()
	rOff, gOff, bOff, aOff := off.RGBA()
	for i, c := range cells {
		base := i * 4
		if c != 0 {
			buf[base+0] = uint8(rOn >> 8)
			buf[base+1] = uint8(gOn >> 8)
			buf[base+2] = uint8(bOn >> 8)
			buf[base+3] = uint8(aOn >> 8)
			continue
		}
		buf[base+0] = uint8(rOff >> 8)
		buf[base+1] = uint8(gOff >> 8)
		buf[base+2] = uint8(bOff >> 8)
		buf[base+3] = uint8(aOff >> 8)
	}
}

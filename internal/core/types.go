// Package core holds the small types shared by the engine, the devices and
// the UI layer.
package core

// Size describes the dimensions of a cell grid or drawable surface.
type Size struct {
	W int
	H int
}

// Cells returns the number of cells covered by the size.
func (s Size) Cells() int { return s.W * s.H }

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool { return s.W > 0 && s.H > 0 }

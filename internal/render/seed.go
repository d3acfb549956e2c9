package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/gogpu/gg"

	"golgl/internal/core"
)

// SeedConfig controls the random rectangles drawn by Scatter.
type SeedConfig struct {
	// Rects is the number of rectangles per batch.
	Rects int
	// Block is the largest rectangle side, in cells.
	Block int
	// Color is the fill colour. Any colour with a channel above the
	// midpoint seeds live cells.
	Color color.RGBA
	// Accumulate keeps earlier batches on the canvas until the next
	// Clear, so repeated seeding builds up.
	Accumulate bool
}

// DefaultSeedConfig returns 400 yellow rectangles of at most 20 cells.
func DefaultSeedConfig() SeedConfig {
	return SeedConfig{Rects: 400, Block: 20, Color: color.RGBA{R: 0xff, G: 0xff, A: 0xff}}
}

// Surface is the off-GPU canvas initial patterns are rasterized on before
// they are uploaded to a grid texture.
type Surface struct {
	size core.Size
	cfg  SeedConfig
	rng  *core.RNG
	dc   *gg.Context
}

// NewSurface allocates a canvas of the given size, cleared to dead.
func NewSurface(size core.Size, cfg SeedConfig, rng *core.RNG) *Surface {
	if rng == nil {
		rng = core.NewRNG(0)
	}
	s := &Surface{size: size, cfg: cfg, rng: rng, dc: gg.NewContext(size.W, size.H)}
	s.Clear()
	return s
}

// Size reports the canvas dimensions.
func (s *Surface) Size() core.Size { return s.size }

// Clear paints the whole canvas dead.
func (s *Surface) Clear() {
	s.dc.ClearWithColor(gg.Black)
}

// Scatter draws one batch of randomly placed, randomly sized filled
// rectangles onto the canvas.
func (s *Surface) Scatter() error {
	block := max(s.cfg.Block, 0)
	spanX := float64(max(s.size.W-block, 0))
	spanY := float64(max(s.size.H-block, 0))
	s.dc.SetColor(s.cfg.Color)
	for i := 0; i < s.cfg.Rects; i++ {
		x := math.Round(s.rng.Float64() * spanX)
		y := math.Round(s.rng.Float64() * spanY)
		w := math.Round(s.rng.Float64() * float64(block))
		h := math.Round(s.rng.Float64() * float64(block))
		if w == 0 || h == 0 {
			continue
		}
		s.dc.DrawRectangle(x, y, w, h)
		if err := s.dc.Fill(); err != nil {
			return fmt.Errorf("render: fill seed rectangle %d: %w", i, err)
		}
	}
	return nil
}

// Rect fills a single rectangle of live cells. Used to stamp patterns.
func (s *Surface) Rect(x, y, w, h int) error {
	s.dc.SetColor(s.cfg.Color)
	s.dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	if err := s.dc.Fill(); err != nil {
		return fmt.Errorf("render: fill rectangle: %w", err)
	}
	return nil
}

// Pixels returns the canvas as uniform cell pixels ready for upload.
func (s *Surface) Pixels() []byte {
	return CellPixels(s.dc.Image())
}

// Close releases the canvas.
func (s *Surface) Close() error {
	return s.dc.Close()
}

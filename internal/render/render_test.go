package render

import (
	"image"
	"image/color"
	"math"
	"slices"
	"testing"

	"golgl/internal/core"
)

func TestEncodeDecodeCells(t *testing.T) {
	g := core.NewByteGrid(3, 2)
	g.Set(0, 0, true)
	g.Set(2, 1, true)
	pix := make([]byte, 4*6)
	EncodeCells(pix, g)
	if !slices.Equal(pix[:4], []byte{Alive, Alive, Alive, Alive}) {
		t.Fatalf("alive pixel = %v", pix[:4])
	}
	if !slices.Equal(pix[4:8], []byte{Dead, Dead, Dead, Dead}) {
		t.Fatalf("dead pixel = %v", pix[4:8])
	}
	back := core.NewByteGrid(3, 2)
	DecodeCells(back, pix)
	if !slices.Equal(back.Cells(), g.Cells()) {
		t.Fatalf("decoded %v, want %v", back.Cells(), g.Cells())
	}
}

func TestCellPixelsThresholdsAnyChannel(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 1))
	img.Set(0, 0, color.RGBA{R: 0xff, G: 0xff, A: 0xff})
	img.Set(1, 0, color.RGBA{B: 0x80, A: 0xff})
	img.Set(2, 0, color.RGBA{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff})
	img.Set(3, 0, color.RGBA{A: 0xff})
	pix := CellPixels(img)
	want := []byte{Alive, Alive, Dead, Dead}
	for i, w := range want {
		if pix[4*i] != w || pix[4*i+3] != w {
			t.Errorf("pixel %d = %v, want %#x", i, pix[4*i:4*i+4], w)
		}
	}
}

func TestCellPixelsAcceptsOffsetImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(5, 5, 7, 6))
	img.Set(6, 5, color.White)
	pix := CellPixels(img)
	if len(pix) != 8 || pix[0] != Dead || pix[4] != Alive {
		t.Fatalf("pixels = %v", pix)
	}
}

func TestColorize(t *testing.T) {
	g := core.NewByteGrid(2, 1)
	g.Set(1, 0, true)
	on := color.RGBA{R: 1, G: 2, B: 3, A: 4}
	off := color.RGBA{R: 5, G: 6, B: 7, A: 8}
	img := Colorize(g, on, off)
	if got := img.RGBAAt(0, 0); got != off {
		t.Fatalf("dead cell = %v", got)
	}
	if got := img.RGBAAt(1, 0); got != on {
		t.Fatalf("live cell = %v", got)
	}
}

func TestViewClamp(t *testing.T) {
	cases := map[float64]float64{0: 1, -3: 1, 0.5: 1, 1.5: 1.5, 10: 10, 42: 10, math.Inf(1): 10, math.NaN(): 1}
	for in, want := range cases {
		if got := ClampScale(in); got != want {
			t.Errorf("ClampScale(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestViewZoomAndPan(t *testing.T) {
	v := DefaultView()
	for range 5 {
		v = v.Zoomed(ZoomStep)
	}
	if math.Abs(v.Scale-1.5) > 1e-9 {
		t.Fatalf("scale after five notches = %v", v.Scale)
	}
	v = v.WithScale(2).Panned(10, -4)
	if v.PanX != 5 || v.PanY != -2 {
		t.Fatalf("pan = (%v, %v), want (5, -2)", v.PanX, v.PanY)
	}
	v = v.Zoomed(-100)
	if v.Scale != MinScale {
		t.Fatalf("zoom out past the minimum gave %v", v.Scale)
	}
}

func TestViewUniforms(t *testing.T) {
	on := color.RGBA{R: 0xff, A: 0xff}
	u := View{Scale: 50, PanX: 1.5, PanY: -2}.Uniforms(on, color.RGBA{})
	if u.Scale != MaxScale || u.Pan != [2]float32{1.5, -2} || u.On != on {
		t.Fatalf("uniforms = %+v", u)
	}
}

func TestSurfaceRect(t *testing.T) {
	s := NewSurface(core.Size{W: 16, H: 16}, DefaultSeedConfig(), core.NewRNG(1))
	defer s.Close()
	if err := s.Rect(4, 4, 4, 4); err != nil {
		t.Fatal(err)
	}
	g := core.NewByteGrid(16, 16)
	DecodeCells(g, s.Pixels())
	if !g.Alive(5, 5) || !g.Alive(6, 6) {
		t.Fatal("rectangle interior not alive")
	}
	if g.Alive(0, 0) || g.Alive(12, 12) {
		t.Fatal("cells away from the rectangle are alive")
	}
	if n := g.Population(); n < 9 || n > 25 {
		t.Fatalf("population %d outside the rectangle's footprint", n)
	}

	s.Clear()
	DecodeCells(g, s.Pixels())
	if g.Population() != 0 {
		t.Fatal("clear left live cells")
	}
}

func TestSurfaceScatterIsSeeded(t *testing.T) {
	cfg := SeedConfig{Rects: 30, Block: 5, Color: color.RGBA{R: 0xff, G: 0xff, A: 0xff}}
	draw := func(seed int64) []byte {
		s := NewSurface(core.Size{W: 40, H: 30}, cfg, core.NewRNG(seed))
		defer s.Close()
		if err := s.Scatter(); err != nil {
			t.Fatal(err)
		}
		return s.Pixels()
	}
	a, b := draw(3), draw(3)
	if !slices.Equal(a, b) {
		t.Fatal("same seed produced different patterns")
	}
	g := core.NewByteGrid(40, 30)
	DecodeCells(g, a)
	if g.Population() == 0 {
		t.Fatal("scatter drew nothing")
	}
}

func TestSurfaceScatterFitsSmallSurfaces(t *testing.T) {
	s := NewSurface(core.Size{W: 3, H: 3}, DefaultSeedConfig(), core.NewRNG(9))
	defer s.Close()
	if err := s.Scatter(); err != nil {
		t.Fatal(err)
	}
	if len(s.Pixels()) != 4*9 {
		t.Fatal("pixel buffer does not match the surface")
	}
}

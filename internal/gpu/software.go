package gpu

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/gogpu/naga"

	"golgl/internal/core"
)

// DefaultMaxTextureSize bounds either dimension of a software texture.
const DefaultMaxTextureSize = 8192

// Software is a CPU device. Programs must be WGSL; they are compiled to
// SPIR-V with naga so malformed sources fail at startup as they would on a
// GPU, and passes then run Go kernels that mirror the bundled programs.
type Software struct {
	log     *slog.Logger
	maxSize int
}

// SoftwareOption configures a Software device.
type SoftwareOption func(*Software)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *slog.Logger) SoftwareOption {
	return func(s *Software) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMaxTextureSize overrides DefaultMaxTextureSize.
func WithMaxTextureSize(n int) SoftwareOption {
	return func(s *Software) {
		if n > 0 {
			s.maxSize = n
		}
	}
}

// NewSoftware creates a CPU device.
func NewSoftware(opts ...SoftwareOption) *Software {
	s := &Software{log: nopLogger(), maxSize: DefaultMaxTextureSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Language implements Device.
func (s *Software) Language() Language { return LanguageWGSL }

type softTexture struct {
	size     core.Size
	pix      []byte
	released bool
}

func (t *softTexture) Size() core.Size { return t.size }

func (t *softTexture) Release() {
	t.released = true
	t.pix = nil
}

type softProgram struct {
	stage    Stage
	spirv    []byte
	released bool
}

func (p *softProgram) Stage() Stage { return p.stage }

func (p *softProgram) Release() {
	p.released = true
	p.spirv = nil
}

// NewTexture implements Device.
func (s *Software) NewTexture(size core.Size) (Texture, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("%w: invalid texture size %dx%d", ErrResource, size.W, size.H)
	}
	if size.W > s.maxSize || size.H > s.maxSize {
		return nil, fmt.Errorf("%w: texture %dx%d exceeds %d", ErrResource, size.W, size.H, s.maxSize)
	}
	s.log.Debug("allocated texture", "w", size.W, "h", size.H)
	return &softTexture{size: size, pix: make([]byte, 4*size.Cells())}, nil
}

// Compile implements Device.
func (s *Software) Compile(stage Stage, src []byte) (Program, error) {
	if len(bytes.TrimSpace(src)) == 0 {
		return nil, fmt.Errorf("%w: %s program source is empty", ErrInitialization, stage)
	}
	spirv, err := naga.Compile(string(src))
	if err != nil {
		return nil, fmt.Errorf("%w: compile %s program: %v", ErrInitialization, stage, err)
	}
	s.log.Info("compiled program", "stage", stage.String(), "spirv_bytes", len(spirv))
	return &softProgram{stage: stage, spirv: spirv}, nil
}

// Upload implements Device.
func (s *Software) Upload(dst Texture, pix []byte) error {
	t, err := s.texture(dst)
	if err != nil {
		return err
	}
	if err := checkPixels(t.size, pix); err != nil {
		return err
	}
	copy(t.pix, pix)
	return nil
}

// ReadPixels implements Device.
func (s *Software) ReadPixels(src Texture, pix []byte) error {
	t, err := s.texture(src)
	if err != nil {
		return err
	}
	if err := checkPixels(t.size, pix); err != nil {
		return err
	}
	copy(pix, t.pix)
	return nil
}

// Run implements Device.
func (s *Software) Run(p Program, dst, src Texture, u Uniforms) error {
	prog, ok := p.(*softProgram)
	if !ok || prog == nil {
		return fmt.Errorf("gpu: program %T does not belong to the software device", p)
	}
	if prog.released {
		return fmt.Errorf("%s program: %w", prog.stage, ErrReleased)
	}
	out, err := s.texture(dst)
	if err != nil {
		return err
	}
	in, err := s.texture(src)
	if err != nil {
		return err
	}
	if out == in {
		return fmt.Errorf("gpu: %s pass reads and writes the same texture", prog.stage)
	}
	switch prog.stage {
	case StageTransition:
		tu, ok := u.(TransitionUniforms)
		if !ok {
			return fmt.Errorf("gpu: transition pass needs TransitionUniforms, got %T", u)
		}
		if out.size != in.size {
			return fmt.Errorf("gpu: transition pass from %dx%d into %dx%d", in.size.W, in.size.H, out.size.W, out.size.H)
		}
		transitionKernel(out, in, tu)
	case StagePresent:
		pu, ok := u.(PresentUniforms)
		if !ok {
			return fmt.Errorf("gpu: present pass needs PresentUniforms, got %T", u)
		}
		presentKernel(out, in, pu)
	default:
		return fmt.Errorf("gpu: unknown program stage %s", prog.stage)
	}
	if s.log.Enabled(context.Background(), slog.LevelDebug) {
		s.log.Debug("ran pass", "stage", prog.stage.String(), "w", out.size.W, "h", out.size.H)
	}
	return nil
}

func (s *Software) texture(t Texture) (*softTexture, error) {
	st, ok := t.(*softTexture)
	if !ok || st == nil {
		return nil, fmt.Errorf("gpu: texture %T does not belong to the software device", t)
	}
	if st.released {
		return nil, fmt.Errorf("texture: %w", ErrReleased)
	}
	return st, nil
}

// cellAt mirrors cell() in transition.wgsl: the red channel above the
// midpoint means alive.
func cellAt(t *softTexture, x, y int, edge Edge) int32 {
	w, h := t.size.W, t.size.H
	if edge == EdgeWrap {
		x = (x + w) % w
		y = (y + h) % h
	}
	if x < 0 || y < 0 || x >= w || y >= h {
		return 0
	}
	if t.pix[4*(y*w+x)] > 127 {
		return 1
	}
	return 0
}

func transitionKernel(dst, src *softTexture, u TransitionUniforms) {
	w, h := src.size.W, src.size.H
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var n int32
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					n += cellAt(src, x+dx, y+dy, u.Edge)
				}
			}
			var next bool
			if cellAt(src, x, y, u.Edge) == 1 {
				next = u.Survive.Matches(n)
			} else {
				next = u.Birth.Matches(n)
			}
			var v byte
			if next {
				v = 0xff
			}
			i := 4 * (y*w + x)
			dst.pix[i+0] = v
			dst.pix[i+1] = v
			dst.pix[i+2] = v
			dst.pix[i+3] = v
		}
	}
}

func presentKernel(dst, src *softTexture, u PresentUniforms) {
	scale := u.Scale
	if scale <= 0 {
		scale = 1
	}
	gw, gh := float32(src.size.W), float32(src.size.H)
	sw, sh := float32(dst.size.W), float32(dst.size.H)
	on := [4]byte{u.On.R, u.On.G, u.On.B, u.On.A}
	off := [4]byte{u.Off.R, u.Off.G, u.Off.B, u.Off.A}
	for y := 0; y < dst.size.H; y++ {
		gy := ((float32(y)+0.5)/sh-0.5)/scale + 0.5 - u.Pan[1]/gh
		cy := int(math.Floor(float64(gy * gh)))
		for x := 0; x < dst.size.W; x++ {
			gx := ((float32(x)+0.5)/sw-0.5)/scale + 0.5 - u.Pan[0]/gw
			cx := int(math.Floor(float64(gx * gw)))
			col := off
			if cellAt(src, cx, cy, EdgeDead) == 1 {
				col = on
			}
			copy(dst.pix[4*(y*dst.size.W+x):], col[:])
		}
	}
}

//go:build ebiten

package gpu

import (
	"fmt"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"

	"golgl/internal/core"
)

// Ebiten runs Kage programs on the GPU through ebiten. Textures are
// offscreen ebiten images, which pair a texture with a framebuffer.
type Ebiten struct {
	log *slog.Logger
}

// NewEbiten creates a GPU device. It must be used from the goroutine that
// runs the ebiten game loop.
func NewEbiten(l *slog.Logger) *Ebiten {
	return &Ebiten{log: OrNop(l)}
}

// Language implements Device.
func (d *Ebiten) Language() Language { return LanguageKage }

type ebitenTexture struct {
	size     core.Size
	img      *ebiten.Image
	released bool
}

func (t *ebitenTexture) Size() core.Size { return t.size }

func (t *ebitenTexture) Release() {
	if t.released {
		return
	}
	t.released = true
	t.img.Deallocate()
}

type ebitenProgram struct {
	stage    Stage
	shader   *ebiten.Shader
	released bool
}

func (p *ebitenProgram) Stage() Stage { return p.stage }

func (p *ebitenProgram) Release() {
	if p.released {
		return
	}
	p.released = true
	p.shader.Deallocate()
}

// Image exposes the ebiten image behind a texture created by an Ebiten
// device so the window layer can composite it onto the screen.
func Image(t Texture) (*ebiten.Image, bool) {
	et, ok := t.(*ebitenTexture)
	if !ok || et == nil || et.released {
		return nil, false
	}
	return et.img, true
}

// NewTexture implements Device.
func (d *Ebiten) NewTexture(size core.Size) (tex Texture, err error) {
	if !size.Valid() {
		return nil, fmt.Errorf("%w: invalid texture size %dx%d", ErrResource, size.W, size.H)
	}
	defer func() {
		if r := recover(); r != nil {
			tex = nil
			err = fmt.Errorf("%w: texture %dx%d: %v", ErrResource, size.W, size.H, r)
		}
	}()
	img := ebiten.NewImage(size.W, size.H)
	d.log.Debug("allocated texture", "w", size.W, "h", size.H)
	return &ebitenTexture{size: size, img: img}, nil
}

// Compile implements Device.
func (d *Ebiten) Compile(stage Stage, src []byte) (Program, error) {
	if len(src) == 0 {
		return nil, fmt.Errorf("%w: %s program source is empty", ErrInitialization, stage)
	}
	shader, err := ebiten.NewShader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: compile %s program: %v", ErrInitialization, stage, err)
	}
	d.log.Info("compiled program", "stage", stage.String())
	return &ebitenProgram{stage: stage, shader: shader}, nil
}

// Upload implements Device.
func (d *Ebiten) Upload(dst Texture, pix []byte) error {
	t, err := d.texture(dst)
	if err != nil {
		return err
	}
	if err := checkPixels(t.size, pix); err != nil {
		return err
	}
	t.img.WritePixels(pix)
	return nil
}

// ReadPixels implements Device. ebiten only allows it once the game loop
// has started.
func (d *Ebiten) ReadPixels(src Texture, pix []byte) error {
	t, err := d.texture(src)
	if err != nil {
		return err
	}
	if err := checkPixels(t.size, pix); err != nil {
		return err
	}
	t.img.ReadPixels(pix)
	return nil
}

// Run implements Device. DrawRectShader needs the source to match the
// target size, so both passes run between equally sized textures.
func (d *Ebiten) Run(p Program, dst, src Texture, u Uniforms) error {
	prog, ok := p.(*ebitenProgram)
	if !ok || prog == nil {
		return fmt.Errorf("gpu: program %T does not belong to the ebiten device", p)
	}
	if prog.released {
		return fmt.Errorf("%s program: %w", prog.stage, ErrReleased)
	}
	out, err := d.texture(dst)
	if err != nil {
		return err
	}
	in, err := d.texture(src)
	if err != nil {
		return err
	}
	if out == in {
		return fmt.Errorf("gpu: %s pass reads and writes the same texture", prog.stage)
	}
	if out.size != in.size {
		return fmt.Errorf("gpu: %s pass from %dx%d into %dx%d", prog.stage, in.size.W, in.size.H, out.size.W, out.size.H)
	}
	op := &ebiten.DrawRectShaderOptions{
		Uniforms: u.Values(),
		Blend:    ebiten.BlendCopy,
	}
	op.Images[0] = in.img
	out.img.DrawRectShader(out.size.W, out.size.H, prog.shader, op)
	return nil
}

func (d *Ebiten) texture(t Texture) (*ebitenTexture, error) {
	et, ok := t.(*ebitenTexture)
	if !ok || et == nil {
		return nil, fmt.Errorf("gpu: texture %T does not belong to the ebiten device", t)
	}
	if et.released {
		return nil, fmt.Errorf("texture: %w", ErrReleased)
	}
	return et, nil
}

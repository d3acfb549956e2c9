// Package gpu abstracts the graphics device the simulation runs on: cell
// textures with an attachable framebuffer, compiled per-pixel programs, and
// the passes that run a program from one texture into another.
//
// Two devices exist. Software executes the bundled WGSL programs on the CPU
// after compiling them with naga, so it is usable from tests and headless
// tools. Ebiten (build tag "ebiten") runs the Kage programs on the GPU.
package gpu

import (
	"errors"
	"fmt"

	"golgl/internal/core"
)

var (
	// ErrInitialization reports a missing program source or surface, or a
	// program that failed to compile. It is fatal.
	ErrInitialization = errors.New("gpu: initialization failed")
	// ErrResource reports a texture or framebuffer that could not be
	// allocated. It is fatal and never retried.
	ErrResource = errors.New("gpu: resource allocation failed")
	// ErrReleased reports use of a texture or program after Release.
	ErrReleased = errors.New("gpu: resource released")
)

// Language names the program language a device consumes.
type Language string

const (
	// LanguageKage is ebiten's Go-flavoured shading language.
	LanguageKage Language = "kage"
	// LanguageWGSL is the WebGPU shading language.
	LanguageWGSL Language = "wgsl"
)

// Stage identifies which of the two programs a source belongs to.
type Stage int

const (
	// StageTransition computes the next generation from the current one.
	StageTransition Stage = iota
	// StagePresent maps the current generation onto the visible surface.
	StagePresent
)

func (s Stage) String() string {
	switch s {
	case StageTransition:
		return "transition"
	case StagePresent:
		return "present"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Texture is a fixed-size RGBA8 image that can be sampled by a program and
// rendered into as a pass target.
type Texture interface {
	Size() core.Size
	Release()
}

// Program is a compiled per-pixel program.
type Program interface {
	Stage() Stage
	Release()
}

// Device allocates textures, compiles programs and issues passes. Calls
// are expected from a single goroutine, the one owning the graphics
// context.
type Device interface {
	Language() Language
	NewTexture(size core.Size) (Texture, error)
	Compile(stage Stage, src []byte) (Program, error)
	// Upload replaces the contents of dst with RGBA8 pixels, row-major,
	// 4*W*H bytes.
	Upload(dst Texture, pix []byte) error
	// Run executes p once per pixel of dst, sampling src. dst and src must
	// be different textures.
	Run(p Program, dst, src Texture, u Uniforms) error
	// ReadPixels copies the contents of src into pix (4*W*H bytes).
	ReadPixels(src Texture, pix []byte) error
}

// Sources holds the text of the two programs in the device's language.
type Sources struct {
	Transition []byte
	Present    []byte
}

// For returns the source of the given stage.
func (s Sources) For(stage Stage) []byte {
	if stage == StagePresent {
		return s.Present
	}
	return s.Transition
}

// Compile compiles both programs on dev. Either both succeed or neither
// program is kept.
func Compile(dev Device, src Sources) (transition, present Program, err error) {
	if dev == nil {
		return nil, nil, fmt.Errorf("%w: no device", ErrInitialization)
	}
	transition, err = dev.Compile(StageTransition, src.Transition)
	if err != nil {
		return nil, nil, err
	}
	present, err = dev.Compile(StagePresent, src.Present)
	if err != nil {
		transition.Release()
		return nil, nil, err
	}
	return transition, present, nil
}

func checkPixels(size core.Size, pix []byte) error {
	if len(pix) != 4*size.Cells() {
		return fmt.Errorf("gpu: pixel buffer holds %d bytes, texture %dx%d needs %d", len(pix), size.W, size.H, 4*size.Cells())
	}
	return nil
}

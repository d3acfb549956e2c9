// Package shaders embeds the transition and presentation programs in every
// language a device may ask for.
package shaders

import (
	_ "embed"
	"fmt"

	"golgl/internal/gpu"
)

var (
	//go:embed kage/transition.kage
	kageTransition []byte
	//go:embed kage/present.kage
	kagePresent []byte
	//go:embed wgsl/transition.wgsl
	wgslTransition []byte
	//go:embed wgsl/present.wgsl
	wgslPresent []byte
)

// For returns the bundled program sources for the given language.
func For(lang gpu.Language) (gpu.Sources, error) {
	switch lang {
	case gpu.LanguageKage:
		return gpu.Sources{Transition: clone(kageTransition), Present: clone(kagePresent)}, nil
	case gpu.LanguageWGSL:
		return gpu.Sources{Transition: clone(wgslTransition), Present: clone(wgslPresent)}, nil
	default:
		return gpu.Sources{}, fmt.Errorf("%w: no bundled programs for language %q", gpu.ErrInitialization, lang)
	}
}

// ForDevice returns the bundled program sources matching dev.
func ForDevice(dev gpu.Device) (gpu.Sources, error) {
	if dev == nil {
		return gpu.Sources{}, fmt.Errorf("%w: no device", gpu.ErrInitialization)
	}
	return For(dev.Language())
}

func clone(b []byte) []byte { return append([]byte(nil), b...) }

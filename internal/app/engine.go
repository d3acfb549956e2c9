package app

import (
	"fmt"

	"golgl/internal/core"
	"golgl/internal/gpu"
	"golgl/internal/shaders"
	"golgl/internal/sims/life"
)

// newEngine allocates a drawable surface of the given size on dev and a
// seeded engine presenting to it. On failure nothing stays allocated.
func newEngine(dev gpu.Device, size core.Size, cfg life.Config) (*life.Engine, gpu.Texture, error) {
	src, err := shaders.ForDevice(dev)
	if err != nil {
		return nil, nil, err
	}
	surface, err := dev.NewTexture(size)
	if err != nil {
		return nil, nil, fmt.Errorf("app: surface: %w", err)
	}
	engine, err := life.New(dev, surface, src, cfg)
	if err != nil {
		surface.Release()
		return nil, nil, err
	}
	if err := engine.Seed(); err != nil {
		engine.Release()
		surface.Release()
		return nil, nil, err
	}
	return engine, surface, nil
}

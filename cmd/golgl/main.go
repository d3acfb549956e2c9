//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"golgl/internal/app"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))

	game, err := app.New(cfg, logger)
	if err != nil {
		log.Fatalf("golgl: %v", err)
	}
	defer game.Release()

	ebiten.SetWindowTitle("golgl - Game of Life")
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize((cfg.Width+app.HUDWidth)*cfg.Scale, cfg.Height*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}

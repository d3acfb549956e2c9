//go:build !ebiten

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "The GUI build of golgl requires the ebiten build tag.")
	fmt.Fprintln(os.Stderr, "Re-run with `go run -tags ebiten ./cmd/golgl` or build with `-tags ebiten`.")
	fmt.Fprintln(os.Stderr, "For a headless run over the rule presets use `go run ./cmd/lifesweep`.")
	os.Exit(2)
}

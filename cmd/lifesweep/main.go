package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"golgl/internal/app"
	"golgl/internal/core"
	"golgl/internal/gpu"
	"golgl/internal/rules"
	"golgl/internal/sims/life"
)

func main() {
	width := flag.Int("width", 256, "grid width in cells")
	height := flag.Int("height", 256, "grid height in cells")
	steps := flag.Int("steps", 500, "generations to simulate per scenario")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	ruleList := flag.String("rules", "all", "comma separated preset labels or notations, or all")
	edges := flag.String("edges", "dead,wrap", "comma separated edge policies")
	pngDir := flag.String("png", "", "directory for final frame PNGs (empty to skip)")
	raw := flag.Bool("raw", false, "write the decoded grid instead of the presented surface")
	scale := flag.Float64("scale", 1, "view scale used for presented PNGs")
	verbose := flag.Bool("v", false, "log debug output")
	var overrides app.KVList
	flag.Var(&overrides, "set", "engine override in key=value form (repeatable)")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := app.NewConfig()
	cfg.Overrides = overrides
	m, err := cfg.Map()
	if err != nil {
		log.Fatal(err)
	}
	base, err := life.FromMap(m)
	if err != nil {
		log.Fatal(err)
	}
	if base.Seed == 0 {
		base.Seed = 1337
	}

	presets, err := selectRules(*ruleList)
	if err != nil {
		log.Fatal(err)
	}
	var policies []gpu.Edge
	for _, name := range strings.Split(*edges, ",") {
		edge, err := gpu.ParseEdge(name)
		if err != nil {
			log.Fatal(err)
		}
		policies = append(policies, edge)
	}

	var scenarios []scenario
	for _, p := range presets {
		for _, edge := range policies {
			scenarios = append(scenarios, scenario{preset: p, edge: edge})
		}
	}

	opts := sweepOptions{
		size:   core.Size{W: *width, H: *height},
		steps:  *steps,
		pngDir: *pngDir,
		raw:    *raw,
		scale:  *scale,
		log:    logger,
	}
	if opts.pngDir != "" {
		if err := os.MkdirAll(opts.pngDir, 0o755); err != nil {
			log.Fatal(err)
		}
	}

	fmt.Printf("Sweeping %d scenarios (%d workers, %d steps, %dx%d)\n",
		len(scenarios), *workers, *steps, *width, *height)

	jobs := make(chan scenario)
	results := make(chan result)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sc := range jobs {
				results <- runScenario(base, sc, opts)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, sc := range scenarios {
			jobs <- sc
		}
		close(jobs)
	}()

	start := time.Now()
	var all []result
	failed := 0
	for res := range results {
		if res.err != nil {
			failed++
			logger.Error("scenario failed", "rule", res.preset.String(), "edge", res.edge.String(), "err", res.err)
			continue
		}
		all = append(all, res)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].final != all[j].final {
			return all[i].final > all[j].final
		}
		return all[i].preset.Label < all[j].preset.Label
	})

	fmt.Printf("\nResults (elapsed %s):\n", time.Since(start).Round(time.Millisecond))
	for i, res := range all {
		fmt.Printf("%2d) %s\n", i+1, res)
	}
	if failed > 0 {
		log.Fatalf("%d scenarios failed", failed)
	}
}

func selectRules(list string) ([]rules.Preset, error) {
	if strings.EqualFold(strings.TrimSpace(list), "all") {
		return rules.Presets(), nil
	}
	var out []rules.Preset
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if p, ok := rules.Lookup(item); ok {
			out = append(out, p)
			continue
		}
		r, err := rules.Parse(item)
		if err != nil {
			return nil, err
		}
		out = append(out, rules.Preset{Label: r.String(), Rules: r})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no rules selected from %q", list)
	}
	return out, nil
}

package app

import (
	"flag"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Config represents the command-line parameters for the application.
type Config struct {
	Width  int
	Height int
	Scale  int
	TPS    int
	Seed   int64
	Rule   string
	Edge   string
	Speed  string

	Verbose   bool
	Overrides KVList
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Width: 320, Height: 240, Scale: 3, TPS: 60, Speed: "normal"}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "width", c.Width, "grid width in cells")
	fs.IntVar(&c.Height, "height", c.Height, "grid height in cells")
	fs.IntVar(&c.Scale, "scale", c.Scale, "window pixels per cell")
	fs.IntVar(&c.TPS, "tps", c.TPS, "frames per second of the window loop")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for rectangle scatter (0 = time based)")
	fs.StringVar(&c.Rule, "rule", c.Rule, "preset label or rule notation such as B36/S23")
	fs.StringVar(&c.Edge, "edge", c.Edge, "edge policy: dead or wrap")
	fs.StringVar(&c.Speed, "speed", c.Speed, "playback speed: slow, normal or fast")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "log debug output")
	fs.Var(&c.Overrides, "set", "engine override in key=value form (repeatable)")
}

// Map flattens the engine-related settings into the key/value form read by
// life.FromMap. Explicit -set overrides win over the named flags.
func (c *Config) Map() (map[string]string, error) {
	m := map[string]string{}
	if c.Seed != 0 {
		m["seed"] = strconv.FormatInt(c.Seed, 10)
	}
	if c.Rule != "" {
		m["rule"] = c.Rule
	}
	if c.Edge != "" {
		m["edge"] = c.Edge
	}
	for _, kv := range c.Overrides {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("app: override %q is not key=value", kv)
		}
		m[key] = strings.TrimSpace(value)
	}
	return m, nil
}

// LogLevel returns the slog level selected by -v.
func (c *Config) LogLevel() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// KVList collects repeated key=value flags.
type KVList []string

func (l *KVList) String() string {
	return strings.Join(*l, ",")
}

func (l *KVList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

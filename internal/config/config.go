// Package config loads goturtle's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/itsmostafa/goturtle/internal/interp"
	"github.com/itsmostafa/goturtle/internal/turtle"
)

// EnvConfigPath names the environment variable consulted when no --config
// flag is given.
const EnvConfigPath = "GOTURTLE_CONFIG"

// Config is the top-level configuration.
type Config struct {
	Limits Limits `yaml:"limits"`
	Start  Start  `yaml:"start"`
	Pen    Pen    `yaml:"pen"`

	// ClearVariablesOnRun empties the variable store before every program
	// a session runs. The REPL ignores it and always keeps variables.
	ClearVariablesOnRun bool `yaml:"clear_variables_on_run"`
}

// Limits bounds the work a single run may do.
type Limits struct {
	// MaxDepth is the maximum repeat nesting depth (0 = unlimited)
	MaxDepth int `yaml:"max_depth"`

	// MaxIterations is the total repeat iteration budget per run (0 = unlimited)
	MaxIterations int `yaml:"max_iterations"`
}

// Start is the turtle's initial pose.
type Start struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`

	// Angle is the starting heading in degrees
	Angle float32 `yaml:"angle"`
}

// Pen is the turtle's initial pen.
type Pen struct {
	// Color is R, G, B, A, each 0-255
	Color []int   `yaml:"color"`
	Width float32 `yaml:"width"`
}

// Default returns the built-in configuration.
func Default() Config {
	limits := interp.DefaultConfig()
	return Config{
		Limits: Limits{
			MaxDepth:      limits.MaxDepth,
			MaxIterations: limits.MaxIterations,
		},
		Pen: Pen{
			Color: []int{0, 0, 0, 255},
			Width: 1,
		},
		ClearVariablesOnRun: true,
	}
}

var envVarPattern = regexp.MustCompile(`\$\{?(\w+)\}?`)

// interpolateEnvVars replaces `${VAR}` and `$VAR` with the value of VAR.
func interpolateEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(ref string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(ref, "$"), "{"), "}")
		return os.Getenv(name)
	})
}

// Load reads the configuration at path. An empty path yields Default().
// Keys missing from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err := Parse([]byte(interpolateEnvVars(string(data))), &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML onto cfg, leaving fields the document omits untouched.
func Parse(data []byte, cfg *Config) error {
	if strings.TrimSpace(string(data)) == "" {
		return nil
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks that every field is usable.
func (c Config) Validate() error {
	var errs []error
	if c.Limits.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("limits.max_depth must be >= 0, got %d", c.Limits.MaxDepth))
	}
	if c.Limits.MaxIterations < 0 {
		errs = append(errs, fmt.Errorf("limits.max_iterations must be >= 0, got %d", c.Limits.MaxIterations))
	}
	if len(c.Pen.Color) != 4 {
		errs = append(errs, fmt.Errorf("pen.color must have 4 channels, got %d", len(c.Pen.Color)))
	}
	for i, ch := range c.Pen.Color {
		if ch < 0 || ch > 255 {
			errs = append(errs, fmt.Errorf("pen.color[%d] must be between 0 and 255, got %d", i, ch))
		}
	}
	if !(c.Pen.Width > 0) || math.IsInf(float64(c.Pen.Width), 0) {
		errs = append(errs, fmt.Errorf("pen.width must be positive, got %g", c.Pen.Width))
	}
	return errors.Join(errs...)
}

// TurtleOptions converts the start pose and pen to turtle.Options. It
// assumes c is valid.
func (c Config) TurtleOptions() turtle.Options {
	opts := turtle.DefaultOptions()
	opts.Position = turtle.NewPoint(c.Start.X, c.Start.Y)
	opts.Angle = float32(float64(c.Start.Angle) * math.Pi / 180)
	if len(c.Pen.Color) == 4 {
		opts.PenColor = turtle.NewColor(
			uint8(c.Pen.Color[0]),
			uint8(c.Pen.Color[1]),
			uint8(c.Pen.Color[2]),
			uint8(c.Pen.Color[3]),
		)
	}
	opts.PenWidth = c.Pen.Width
	return opts
}

// InterpConfig returns the interpreter limits.
func (c Config) InterpConfig() interp.Config {
	return interp.Config{
		MaxDepth:      c.Limits.MaxDepth,
		MaxIterations: c.Limits.MaxIterations,
	}
}

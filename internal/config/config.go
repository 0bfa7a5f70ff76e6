package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fracterm/internal/density"
	"github.com/san-kum/fracterm/internal/orbit"
	"github.com/san-kum/fracterm/internal/palette"
	"github.com/san-kum/fracterm/internal/plane"
	"github.com/san-kum/fracterm/internal/render"
)

const (
	DefaultIterations       = 100
	DefaultRadius           = 2.0
	DefaultContinuousRadius = 100.0
	DefaultScheme           = "starry"
	DefaultItersPerCycle    = 50.0
	DefaultScreenshot       = "fractal_screenshot.png"
	DefaultBuddhaScreenshot = "buddha_screenshot.png"
	DefaultShotSize         = 1000
	DefaultGamma            = 0.5
	DefaultMinIters         = 10
	DefaultMaxIters         = 100
	DefaultSamplesPerFrame  = 10000
)

var ErrConfig = errors.New("invalid config")

type Config struct {
	Window        WindowConfig     `yaml:"window" envPrefix:"FRACTERM_WINDOW_"`
	Rule          RuleConfig       `yaml:"rule" envPrefix:"FRACTERM_RULE_"`
	Iterations    int              `yaml:"iterations" env:"FRACTERM_ITERATIONS"`
	Julia         bool             `yaml:"julia" env:"FRACTERM_JULIA"`
	Scheme        string           `yaml:"scheme" env:"FRACTERM_SCHEME"`
	Colors        []string         `yaml:"colors,omitempty" env:"FRACTERM_COLORS"`
	ItersPerCycle float64          `yaml:"iters_per_cycle,omitempty" env:"FRACTERM_ITERS_PER_CYCLE"`
	Continuous    bool             `yaml:"continuous" env:"FRACTERM_CONTINUOUS"`
	Screenshot    ScreenshotConfig `yaml:"screenshot" envPrefix:"FRACTERM_SCREENSHOT_"`
	Buddha        BuddhaConfig     `yaml:"buddha" envPrefix:"FRACTERM_BUDDHA_"`
	Workers       int              `yaml:"workers" env:"FRACTERM_WORKERS"`
	Seed          int64            `yaml:"seed" env:"FRACTERM_SEED"`
}

// WindowConfig is the visible part of the plane, by centre and extent.
type WindowConfig struct {
	CenterRe float64 `yaml:"center_re" env:"CENTER_RE"`
	CenterIm float64 `yaml:"center_im" env:"CENTER_IM"`
	Width    float64 `yaml:"width" env:"WIDTH"`
	Height   float64 `yaml:"height" env:"HEIGHT"`
}

type RuleConfig struct {
	Transform string  `yaml:"transform" env:"TRANSFORM"`
	PowerRe   float64 `yaml:"power_re" env:"POWER_RE"`
	PowerIm   float64 `yaml:"power_im" env:"POWER_IM"`
	ParamRe   float64 `yaml:"param_re" env:"PARAM_RE"`
	ParamIm   float64 `yaml:"param_im" env:"PARAM_IM"`
	// Radius of zero picks the default: 2, or 100 with continuous coloring.
	Radius float64 `yaml:"radius,omitempty" env:"RADIUS"`
}

type ScreenshotConfig struct {
	Path   string `yaml:"path" env:"PATH"`
	Width  int    `yaml:"width" env:"WIDTH"`
	Height int    `yaml:"height" env:"HEIGHT"`
}

type BuddhaConfig struct {
	Window          WindowConfig `yaml:"window" envPrefix:"WINDOW_"`
	Farm            WindowConfig `yaml:"farm" envPrefix:"FARM_"`
	Rows            int          `yaml:"rows" env:"ROWS"`
	Columns         int          `yaml:"columns" env:"COLUMNS"`
	MinIters        int          `yaml:"min_iters" env:"MIN_ITERS"`
	MaxIters        int          `yaml:"max_iters" env:"MAX_ITERS"`
	SamplesPerFrame int          `yaml:"samples_per_frame" env:"SAMPLES_PER_FRAME"`
	Gamma           float64      `yaml:"gamma" env:"GAMMA"`
	Screenshot      string       `yaml:"screenshot" env:"SCREENSHOT"`
}

func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{Width: 2, Height: 2},
		Rule: RuleConfig{
			Transform: orbit.Identity.String(),
			PowerRe:   2,
		},
		Iterations: DefaultIterations,
		Scheme:     DefaultScheme,
		Screenshot: ScreenshotConfig{
			Path:   DefaultScreenshot,
			Width:  DefaultShotSize,
			Height: DefaultShotSize,
		},
		Buddha: BuddhaConfig{
			Window:          WindowConfig{Width: 4, Height: 4},
			Farm:            WindowConfig{Width: 4, Height: 4},
			Rows:            DefaultShotSize,
			Columns:         DefaultShotSize,
			MinIters:        DefaultMinIters,
			MaxIters:        DefaultMaxIters,
			SamplesPerFrame: DefaultSamplesPerFrame,
			Gamma:           DefaultGamma,
			Screenshot:      DefaultBuddhaScreenshot,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve loads path when it is set, otherwise the defaults, and then
// applies FRACTERM_* environment overrides.
func Resolve(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Clone() *Config {
	out := *c
	out.Colors = append([]string(nil), c.Colors...)
	return &out
}

func (w WindowConfig) Center() complex128 {
	return complex(w.CenterRe, w.CenterIm)
}

// Viewport lays the window over a rows x cols grid.
func (w WindowConfig) Viewport(rows, cols int) (plane.Viewport, error) {
	return plane.Centered(w.Center(), w.Width, w.Height, rows, cols)
}

func (w WindowConfig) Region() (density.Region, error) {
	r := density.Region{
		Corner: w.Center() + complex(-w.Width/2, w.Height/2),
		Width:  w.Width,
		Height: w.Height,
	}
	return r, r.Validate()
}

func (c *Config) Viewport(rows, cols int) (plane.Viewport, error) {
	return c.Window.Viewport(rows, cols)
}

// Radius is the escape radius in effect.
func (c *Config) Radius() float64 {
	if c.Rule.Radius != 0 {
		return c.Rule.Radius
	}
	if c.Continuous {
		return DefaultContinuousRadius
	}
	return DefaultRadius
}

func (c *Config) Param() complex128 {
	return complex(c.Rule.ParamRe, c.Rule.ParamIm)
}

func (c *Config) GetRule() (orbit.Rule, error) {
	t, err := orbit.ParseTransform(c.Rule.Transform)
	if err != nil {
		return orbit.Rule{}, err
	}
	return orbit.NewRule(t, complex(c.Rule.PowerRe, c.Rule.PowerIm), c.Param(), c.Radius())
}

func (c *Config) Mode() render.Mode {
	if c.Julia {
		return render.Julia
	}
	return render.Mandelbrot
}

// GetScheme resolves the named scheme, or builds one from Colors when set.
func (c *Config) GetScheme() (palette.Scheme, error) {
	if len(c.Colors) > 0 {
		cols, err := palette.ParseColors(c.Colors)
		if err != nil {
			return palette.Scheme{}, fmt.Errorf("%w: %w", palette.ErrScheme, err)
		}
		cycle := c.ItersPerCycle
		if cycle == 0 {
			cycle = DefaultItersPerCycle
		}
		s := palette.Scheme{Name: "custom", Colors: cols, ItersPerCycle: cycle, Continuous: c.Continuous}
		return s, s.Validate()
	}

	s, err := palette.Lookup(c.Scheme)
	if err != nil {
		return palette.Scheme{}, err
	}
	if c.ItersPerCycle != 0 {
		s.ItersPerCycle = c.ItersPerCycle
	}
	return s.WithContinuous(c.Continuous), s.Validate()
}

// PlotView is the area and resolution the Buddhabrot histogram covers.
func (c *Config) PlotView() (plane.Viewport, error) {
	return c.Buddha.Window.Viewport(c.Buddha.Rows, c.Buddha.Columns)
}

func (c *Config) Farm() (density.Region, error) {
	return c.Buddha.Farm.Region()
}

func (c *Config) Validate() error {
	if c.Iterations < 0 {
		return fmt.Errorf("%w: iterations must be non-negative, got %d", ErrConfig, c.Iterations)
	}
	if _, err := c.Viewport(1, 1); err != nil {
		return fmt.Errorf("%w: window: %w", ErrConfig, err)
	}
	if _, err := c.GetRule(); err != nil {
		return fmt.Errorf("%w: rule: %w", ErrConfig, err)
	}
	if _, err := c.GetScheme(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if c.Screenshot.Width <= 0 || c.Screenshot.Height <= 0 {
		return fmt.Errorf("%w: screenshot size must be positive, got %dx%d", ErrConfig, c.Screenshot.Width, c.Screenshot.Height)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be non-negative, got %d", ErrConfig, c.Workers)
	}
	return c.Buddha.validate()
}

func (b BuddhaConfig) validate() error {
	if _, err := b.Window.Viewport(b.Rows, b.Columns); err != nil {
		return fmt.Errorf("%w: buddha plot: %w", ErrConfig, err)
	}
	if _, err := b.Farm.Region(); err != nil {
		return fmt.Errorf("%w: buddha farm: %w", ErrConfig, err)
	}
	if b.MaxIters <= 0 {
		return fmt.Errorf("%w: buddha max iterations must be positive, got %d", ErrConfig, b.MaxIters)
	}
	if b.SamplesPerFrame < 0 {
		return fmt.Errorf("%w: buddha samples per frame must be non-negative, got %d", ErrConfig, b.SamplesPerFrame)
	}
	if !(b.Gamma > 0) {
		return fmt.Errorf("%w: buddha gamma must be positive, got %g", ErrConfig, b.Gamma)
	}
	return nil
}

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/san-kum/fracterm/internal/config"
)

// parseComplex reads "REAL[,IMAG]"; a missing imaginary part is zero.
func parseComplex(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) > 2 {
		return 0, 0, fmt.Errorf("expected REAL[,IMAG], got %q", s)
	}
	re, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("expected REAL[,IMAG], got %q", s)
	}
	if len(parts) == 1 {
		return re, 0, nil
	}
	im, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("expected REAL[,IMAG], got %q", s)
	}
	return re, im, nil
}

// parsePair reads "A,B" where both parts are required.
func parsePair(s string) (float64, float64, error) {
	if strings.Count(s, ",") != 1 {
		return 0, 0, fmt.Errorf("expected A,B, got %q", s)
	}
	return parseComplex(s)
}

func parseIntPair(s string) (int, int, error) {
	a, b, err := parsePair(s)
	if err != nil {
		return 0, 0, err
	}
	if a != float64(int(a)) || b != float64(int(b)) {
		return 0, 0, fmt.Errorf("expected integers, got %q", s)
	}
	return int(a), int(b), nil
}

// baseConfig starts from a preset when one is named, otherwise from the
// config file and environment.
func baseConfig() (*config.Config, error) {
	if preset == "" {
		return config.Resolve(configFile)
	}
	family, name, ok := strings.Cut(preset, "/")
	if !ok {
		name = "classic"
	}
	cfg := config.GetPreset(family, name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset %q (see 'fracterm presets')", preset)
	}
	if err := config.ParseEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyCommonFlags(cfg *config.Config, f *pflag.FlagSet) error {
	if f.Changed("workers") {
		cfg.Workers = workers
	}
	if f.Changed("seed") {
		cfg.Seed = seed
	}
	return nil
}

func applyRuleFlags(cfg *config.Config, f *pflag.FlagSet) error {
	if f.Changed("power") {
		re, im, err := parseComplex(power)
		if err != nil {
			return fmt.Errorf("power: %w", err)
		}
		cfg.Rule.PowerRe, cfg.Rule.PowerIm = re, im
	}
	if f.Changed("radius") {
		cfg.Rule.Radius = radius
	}
	switch {
	case f.Changed("transform"):
		cfg.Rule.Transform = transform
	case tricorn:
		cfg.Rule.Transform = "tricorn"
	case burningShip:
		cfg.Rule.Transform = "burning-ship"
	case mandel:
		cfg.Rule.Transform = "mandelbrot"
	}
	return nil
}

func applyWindowFlags(w *config.WindowConfig, f *pflag.FlagSet) error {
	if f.Changed("window") {
		width, height, err := parsePair(window)
		if err != nil {
			return fmt.Errorf("window: %w", err)
		}
		w.Width, w.Height = width, height
	}
	if f.Changed("position") {
		re, im, err := parseComplex(position)
		if err != nil {
			return fmt.Errorf("position: %w", err)
		}
		w.CenterRe, w.CenterIm = re, im
	}
	return nil
}

// fractalConfig builds the escape-time configuration for explore and
// render.
func fractalConfig(f *pflag.FlagSet) (*config.Config, error) {
	cfg, err := baseConfig()
	if err != nil {
		return nil, err
	}
	if err := applyCommonFlags(cfg, f); err != nil {
		return nil, err
	}
	if err := applyRuleFlags(cfg, f); err != nil {
		return nil, err
	}
	if err := applyWindowFlags(&cfg.Window, f); err != nil {
		return nil, err
	}
	if f.Changed("julia") {
		re, im, err := parseComplex(julia)
		if err != nil {
			return nil, fmt.Errorf("julia: %w", err)
		}
		cfg.Julia = true
		cfg.Rule.ParamRe, cfg.Rule.ParamIm = re, im
	}
	if f.Changed("iter") {
		cfg.Iterations = iterations
	}
	if f.Changed("screenshot") {
		cfg.Screenshot.Path = screenshot
	}
	if f.Changed("dimensions") {
		w, h, err := parseIntPair(dimensions)
		if err != nil {
			return nil, fmt.Errorf("dimensions: %w", err)
		}
		cfg.Screenshot.Width, cfg.Screenshot.Height = w, h
	}
	if f.Changed("continuous") {
		cfg.Continuous = continuous
	}
	if f.Changed("scheme") {
		cfg.Scheme = schemeName
		cfg.Colors = nil
	}
	return cfg, cfg.Validate()
}

// buddhaConfig builds the Buddhabrot configuration for buddha and
// accumulate.
func buddhaConfig(f *pflag.FlagSet) (*config.Config, error) {
	cfg, err := baseConfig()
	if err != nil {
		return nil, err
	}
	if err := applyCommonFlags(cfg, f); err != nil {
		return nil, err
	}
	if err := applyRuleFlags(cfg, f); err != nil {
		return nil, err
	}
	if err := applyWindowFlags(&cfg.Buddha.Window, f); err != nil {
		return nil, err
	}
	if f.Changed("max-iters") {
		cfg.Buddha.MaxIters = maxIters
	}
	if f.Changed("min-iters") {
		cfg.Buddha.MinIters = minIters
	}
	if f.Changed("gamma") {
		cfg.Buddha.Gamma = gamma
	}
	if f.Changed("screenshot") {
		cfg.Buddha.Screenshot = screenshot
	}
	if f.Changed("dimensions") {
		cols, rows, err := parseIntPair(dimensions)
		if err != nil {
			return nil, fmt.Errorf("dimensions: %w", err)
		}
		cfg.Buddha.Columns, cfg.Buddha.Rows = cols, rows
	}
	if f.Changed("samples") {
		cfg.Buddha.SamplesPerFrame = samplesPerFrame
	}
	return cfg, cfg.Validate()
}

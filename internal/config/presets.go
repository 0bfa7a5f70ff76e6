package config

import "sort"

func preset(mod func(c *Config)) *Config {
	cfg := DefaultConfig()
	mod(cfg)
	return cfg
}

func window(re, im, w, h float64) WindowConfig {
	return WindowConfig{CenterRe: re, CenterIm: im, Width: w, Height: h}
}

var Presets = map[string]map[string]*Config{
	"mandelbrot": {
		"classic": preset(func(c *Config) {
			c.Window = window(-0.5, 0, 3, 3)
		}),
		"seahorse": preset(func(c *Config) {
			c.Window = window(-0.75, 0.1, 0.1, 0.1)
			c.Iterations = 300
		}),
		"elephant": preset(func(c *Config) {
			c.Window = window(-1.8, -0.06, 0.1, 0.08)
			c.Iterations = 300
		}),
		"spiral": preset(func(c *Config) {
			c.Window = window(-0.74275, 0.13175, 0.0015, 0.0015)
			c.Iterations = 1000
			c.Scheme = "firey"
		}),
	},
	"burning-ship": {
		"classic": preset(func(c *Config) {
			c.Rule.Transform = "burning-ship"
			c.Window = window(-0.5, -0.5, 3.5, 3.5)
		}),
		"armada": preset(func(c *Config) {
			c.Rule.Transform = "burning-ship"
			c.Window = window(-1.762, -0.028, 0.08, 0.08)
			c.Iterations = 250
			c.Scheme = "firey"
		}),
	},
	"tricorn": {
		"classic": preset(func(c *Config) {
			c.Rule.Transform = "tricorn"
			c.Window = window(0, 0, 4, 4)
			c.Scheme = "foresty"
		}),
		"cubic": preset(func(c *Config) {
			c.Rule.Transform = "tricorn"
			c.Rule.PowerRe = 3
			c.Window = window(0, 0, 3, 3)
		}),
	},
	"julia": {
		"dendrite": preset(func(c *Config) {
			c.Julia = true
			c.Rule.ParamIm = 1
			c.Window = window(0, 0, 3.5, 3.5)
		}),
		"rabbit": preset(func(c *Config) {
			c.Julia = true
			c.Rule.ParamRe, c.Rule.ParamIm = -0.123, 0.745
			c.Window = window(0, 0, 3, 3)
			c.Scheme = "spectrum"
		}),
	},
	"buddha": {
		"classic": preset(func(c *Config) {}),
		"anti-short": preset(func(c *Config) {
			c.Buddha.MinIters = 100
			c.Buddha.MaxIters = 1000
		}),
		"nebula": preset(func(c *Config) {
			c.Buddha.MinIters = 20
			c.Buddha.MaxIters = 5000
			c.Buddha.Gamma = 0.4
			c.Buddha.SamplesPerFrame = 20000
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(family, name string) *Config {
	familyPresets, ok := Presets[family]
	if !ok {
		return nil
	}
	cfg, ok := familyPresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(family string) []string {
	familyPresets, ok := Presets[family]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(familyPresets))
	for name := range familyPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Families() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

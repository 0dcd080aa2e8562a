// Package config loads billow settings from YAML.
//
// Embedded defaults are applied first and a user file overrides only the
// keys it sets. The result converts to a billow.Config with Generator.
package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"os"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/tanema/gween/ease"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/billow"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config is the file form of the billow settings.
type Config struct {
	Input         string  `yaml:"input"`
	Output        string  `yaml:"output"`
	Duration      float64 `yaml:"duration"`       // seconds
	FPS           int     `yaml:"fps"`
	Workers       int     `yaml:"workers"`        // 0 = GOMAXPROCS
	MaxSize       int     `yaml:"max_size"`       // longest side after downscale, 0 = keep
	Stats         string  `yaml:"stats"`          // per-frame CSV path, empty = off
	ProgressEvery int     `yaml:"progress_every"` // log every n frames

	Smoke SmokeConfig `yaml:"smoke"`
	Blur  BlurConfig  `yaml:"blur"`
}

// SmokeConfig holds the particle and blend parameters.
type SmokeConfig struct {
	Particles    int     `yaml:"particles"`
	RadiusBase   float64 `yaml:"radius_base"`
	RadiusGrowth float64 `yaml:"radius_growth"`
	Scatter      float64 `yaml:"scatter"`
	Rise         float64 `yaml:"rise"`
	FadeRate     float64 `yaml:"fade_rate"`
	FadeEasing   string  `yaml:"fade_easing"`
	MaxOpacity   float64 `yaml:"max_opacity"`
	Color        string  `yaml:"color"` // hex, e.g. "#dcc8c8"
	OriginX      float64 `yaml:"origin_x"`
	OriginY      float64 `yaml:"origin_y"`
	OpacityMode  string  `yaml:"opacity_mode"` // flat | weighted
}

// BlurConfig holds the overlay blur parameters.
type BlurConfig struct {
	KernelSize     int     `yaml:"kernel_size"`
	KernelFraction float64 `yaml:"kernel_fraction"`
	Every          int     `yaml:"every"`     // 0 disables blur
	Schedule       string  `yaml:"schedule"`  // particle | frame
	Algorithm      string  `yaml:"algorithm"` // gaussian | box
}

var easings = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"in-quad":      ease.InQuad,
	"out-quad":     ease.OutQuad,
	"in-out-quad":  ease.InOutQuad,
	"in-cubic":     ease.InCubic,
	"out-cubic":    ease.OutCubic,
	"in-out-cubic": ease.InOutCubic,
	"in-sine":      ease.InSine,
	"out-sine":     ease.OutSine,
	"in-out-sine":  ease.InOutSine,
}

// Easings returns the accepted fade_easing names, sorted.
func Easings() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns the embedded defaults.
func Default() (*Config, error) {
	return Load("")
}

// Load reads the embedded defaults and overlays the file at path, if any.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: reading config file: %w", billow.ErrInvalidConfig, err)
		}
		// Only keys present in the file are overwritten.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parsing config file: %w", billow.ErrInvalidConfig, err)
		}
	}

	return cfg, nil
}

// WriteYAML saves the configuration as YAML.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Generator converts the file settings to a validated billow.Config.
func (c *Config) Generator() (billow.Config, error) {
	col, err := parseColor(c.Smoke.Color)
	if err != nil {
		return billow.Config{}, err
	}

	fade, ok := easings[strings.ToLower(c.Smoke.FadeEasing)]
	if !ok {
		return billow.Config{}, fmt.Errorf("%w: fade_easing %q (want one of %s)",
			billow.ErrInvalidConfig, c.Smoke.FadeEasing, strings.Join(Easings(), ", "))
	}

	mode, err := parseOpacityMode(c.Smoke.OpacityMode)
	if err != nil {
		return billow.Config{}, err
	}
	schedule, err := parseSchedule(c.Blur.Schedule)
	if err != nil {
		return billow.Config{}, err
	}
	algo, err := parseAlgorithm(c.Blur.Algorithm)
	if err != nil {
		return billow.Config{}, err
	}

	out := billow.Config{
		Duration:     c.Duration,
		FPS:          c.FPS,
		Particles:    c.Smoke.Particles,
		RadiusBase:   c.Smoke.RadiusBase,
		RadiusGrowth: c.Smoke.RadiusGrowth,
		Scatter:      c.Smoke.Scatter,
		Rise:         c.Smoke.Rise,
		FadeRate:     c.Smoke.FadeRate,
		Fade:         fade,
		MaxOpacity:   c.Smoke.MaxOpacity,
		Color:        col,
		OriginX:      c.Smoke.OriginX,
		OriginY:      c.Smoke.OriginY,
		Opacity:      mode,
		Blur: billow.BlurConfig{
			KernelSize:     c.Blur.KernelSize,
			KernelFraction: c.Blur.KernelFraction,
			Every:          c.Blur.Every,
			Schedule:       schedule,
			Algorithm:      algo,
		},
		Workers:       c.Workers,
		ProgressEvery: c.ProgressEvery,
	}
	if err := out.Validate(); err != nil {
		return billow.Config{}, err
	}
	return out, nil
}

func parseColor(s string) (color.RGBA, error) {
	c, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: color %q: %w", billow.ErrInvalidConfig, s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

func parseOpacityMode(s string) (billow.OpacityMode, error) {
	for _, m := range []billow.OpacityMode{billow.OpacityFlat, billow.OpacityWeighted} {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: opacity_mode %q", billow.ErrInvalidConfig, s)
}

func parseSchedule(s string) (billow.BlurSchedule, error) {
	for _, v := range []billow.BlurSchedule{billow.BlurPerParticle, billow.BlurPerFrame} {
		if strings.EqualFold(s, v.String()) {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: blur schedule %q", billow.ErrInvalidConfig, s)
}

func parseAlgorithm(s string) (billow.BlurAlgorithm, error) {
	for _, v := range []billow.BlurAlgorithm{billow.BlurGaussian, billow.BlurBox} {
		if strings.EqualFold(s, v.String()) {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: blur algorithm %q", billow.ErrInvalidConfig, s)
}

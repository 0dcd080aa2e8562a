package billow

import (
	"image/color"

	"github.com/tanema/gween/ease"
)

// Option adjusts a Config before a Generator is built.
//
// Example:
//
//	g, err := billow.NewGenerator(base,
//	    billow.WithTiming(2, 20),
//	    billow.WithOpacityMode(billow.OpacityWeighted),
//	)
type Option func(*Config)

// WithConfig replaces the whole configuration. Options after it still apply.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		*c = cfg
	}
}

// WithTiming sets the animation duration in seconds and the frame rate.
func WithTiming(duration float64, fps int) Option {
	return func(c *Config) {
		c.Duration = duration
		c.FPS = fps
	}
}

// WithParticles sets the number of particle slots per frame.
func WithParticles(n int) Option {
	return func(c *Config) {
		c.Particles = n
	}
}

// WithOrigin places the emission origin as fractions of the image size.
func WithOrigin(fx, fy float64) Option {
	return func(c *Config) {
		c.OriginX = fx
		c.OriginY = fy
	}
}

// WithColor sets the smoke colour.
func WithColor(col color.RGBA) Option {
	return func(c *Config) {
		c.Color = col
	}
}

// WithFade sets the fade rate and the curve that shapes it.
// A nil curve means linear.
func WithFade(rate float64, curve ease.TweenFunc) Option {
	return func(c *Config) {
		c.FadeRate = rate
		c.Fade = curve
	}
}

// WithOpacityMode selects flat or weighted blending.
func WithOpacityMode(m OpacityMode) Option {
	return func(c *Config) {
		c.Opacity = m
	}
}

// WithBlur replaces the blur settings.
func WithBlur(b BlurConfig) Option {
	return func(c *Config) {
		c.Blur = b
	}
}

// WithoutBlur disables blurring, leaving hard-edged disks.
func WithoutBlur() Option {
	return func(c *Config) {
		c.Blur.Every = 0
	}
}

// WithWorkers sets how many frames render concurrently (0 = GOMAXPROCS).
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}

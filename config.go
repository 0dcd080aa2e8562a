package billow

import (
	"fmt"
	"image/color"
	"math"

	"github.com/tanema/gween/ease"
)

// OpacityMode selects how the overlay is weighted when blended with the base.
type OpacityMode int

const (
	// OpacityFlat blends every covered pixel at MaxOpacity, regardless of
	// how many particles touch it or how far they have faded.
	OpacityFlat OpacityMode = iota

	// OpacityWeighted draws each particle with its fade weight as alpha and
	// blends at MaxOpacity scaled by the accumulated overlay alpha.
	OpacityWeighted
)

// String returns the configuration name of the mode.
func (m OpacityMode) String() string {
	switch m {
	case OpacityFlat:
		return "flat"
	case OpacityWeighted:
		return "weighted"
	default:
		return fmt.Sprintf("OpacityMode(%d)", int(m))
	}
}

// BlurSchedule decides after which particle draws the overlay is blurred.
type BlurSchedule int

const (
	// BlurPerParticle blurs after particle p when p%Every == 0.
	BlurPerParticle BlurSchedule = iota

	// BlurPerFrame blurs after every particle, but only on frames whose
	// index is a multiple of Every. Odd frames keep hard-edged disks.
	BlurPerFrame
)

// String returns the configuration name of the schedule.
func (s BlurSchedule) String() string {
	switch s {
	case BlurPerParticle:
		return "particle"
	case BlurPerFrame:
		return "frame"
	default:
		return fmt.Sprintf("BlurSchedule(%d)", int(s))
	}
}

// BlurAlgorithm selects the blur kernel.
type BlurAlgorithm int

const (
	// BlurGaussian is a separable Gaussian with an exact KernelSize taps.
	BlurGaussian BlurAlgorithm = iota

	// BlurBox is a faster box approximation of the same extent.
	BlurBox
)

// String returns the configuration name of the algorithm.
func (a BlurAlgorithm) String() string {
	switch a {
	case BlurGaussian:
		return "gaussian"
	case BlurBox:
		return "box"
	default:
		return fmt.Sprintf("BlurAlgorithm(%d)", int(a))
	}
}

// BlurConfig controls how the overlay is softened into a cloud.
// Disabling blur (Every == 0) yields hard-edged disks.
type BlurConfig struct {
	// KernelSize is the odd kernel width in pixels.
	KernelSize int

	// KernelFraction, when positive, overrides KernelSize with this
	// fraction of the smaller image dimension (rounded up to odd).
	KernelFraction float64

	// Every is the blur period; 0 disables blurring.
	Every int

	Schedule  BlurSchedule
	Algorithm BlurAlgorithm
}

// Config groups every tunable of the smoke animation.
type Config struct {
	// Duration is the animation length in seconds.
	Duration float64
	// FPS is the frame rate.
	FPS int

	// Particles is the number of particle slots per frame.
	Particles int
	// RadiusBase is the disk radius at the start of a cycle.
	RadiusBase float64
	// RadiusGrowth is added to the radius over one full cycle.
	RadiusGrowth float64
	// Scatter is the horizontal sine amplitude in pixels.
	Scatter float64
	// Rise is the fraction of the image height travelled over one cycle.
	Rise float64
	// FadeRate scales how quickly the fade weight drops to zero.
	FadeRate float64
	// Fade shapes the fade; nil means linear.
	Fade ease.TweenFunc
	// MaxOpacity is the strongest blend weight of the overlay.
	MaxOpacity float64
	// Color is the smoke colour.
	Color color.RGBA
	// OriginX and OriginY place the emission origin as fractions of the
	// image width and height.
	OriginX, OriginY float64

	Opacity OpacityMode
	Blur    BlurConfig

	// Workers is the number of frames rendered concurrently.
	// 0 uses GOMAXPROCS, 1 renders sequentially.
	Workers int
	// ProgressEvery logs progress every n completed frames; 0 disables.
	ProgressEvery int
}

// DefaultConfig returns the stock smoke settings: a three second, 15 fps
// loop of five light-grey puffs rising from near the bottom centre.
func DefaultConfig() Config {
	return Config{
		Duration:     3.0,
		FPS:          15,
		Particles:    5,
		RadiusBase:   50,
		RadiusGrowth: 150,
		Scatter:      100,
		Rise:         0.6,
		FadeRate:     1.5,
		Fade:         ease.Linear,
		MaxOpacity:   0.3,
		Color:        color.RGBA{R: 220, G: 200, B: 200, A: 0xff},
		OriginX:      0.45,
		OriginY:      0.9,
		Opacity:      OpacityFlat,
		Blur: BlurConfig{
			KernelSize: 99,
			Every:      2,
			Schedule:   BlurPerParticle,
			Algorithm:  BlurGaussian,
		},
		ProgressEvery: 5,
	}
}

// MaxFrames is the largest animation length Validate accepts.
const MaxFrames = math.MaxInt32

// NumFrames returns round(Duration * FPS). Durations that would exceed
// MaxFrames yield 0; Validate rejects them.
func (c *Config) NumFrames() int {
	if c.Duration <= 0 || c.FPS <= 0 {
		return 0
	}
	n := math.Round(c.Duration * float64(c.FPS))
	if !finite(n) || n > MaxFrames {
		return 0
	}
	return int(n)
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
// A zero Duration is valid and produces an empty animation.
func (c *Config) Validate() error {
	switch {
	case !finite(c.Duration) || c.Duration < 0:
		return fmt.Errorf("%w: duration %v", ErrInvalidConfig, c.Duration)
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps %d", ErrInvalidConfig, c.FPS)
	case c.Duration*float64(c.FPS) > MaxFrames:
		return fmt.Errorf("%w: %v s at %d fps exceeds %d frames",
			ErrInvalidConfig, c.Duration, c.FPS, MaxFrames)
	case c.Particles < 0:
		return fmt.Errorf("%w: particles %d", ErrInvalidConfig, c.Particles)
	case !finite(c.RadiusBase) || !finite(c.RadiusGrowth) || c.RadiusBase < 0 || c.RadiusGrowth < 0:
		return fmt.Errorf("%w: radius %v+%v", ErrInvalidConfig, c.RadiusBase, c.RadiusGrowth)
	case !finite(c.Scatter):
		return fmt.Errorf("%w: scatter %v", ErrInvalidConfig, c.Scatter)
	case !finite(c.Rise) || c.Rise < 0:
		return fmt.Errorf("%w: rise %v", ErrInvalidConfig, c.Rise)
	case !finite(c.FadeRate) || c.FadeRate < 0:
		return fmt.Errorf("%w: fade rate %v", ErrInvalidConfig, c.FadeRate)
	case !finite(c.MaxOpacity) || c.MaxOpacity < 0 || c.MaxOpacity > 1:
		return fmt.Errorf("%w: max opacity %v", ErrInvalidConfig, c.MaxOpacity)
	case !finite(c.OriginX) || !finite(c.OriginY):
		return fmt.Errorf("%w: origin (%v, %v)", ErrInvalidConfig, c.OriginX, c.OriginY)
	case c.Blur.Every < 0:
		return fmt.Errorf("%w: blur every %d", ErrInvalidConfig, c.Blur.Every)
	case math.IsNaN(c.Blur.KernelFraction) || c.Blur.KernelFraction < 0 || c.Blur.KernelFraction > 1:
		return fmt.Errorf("%w: blur kernel fraction %v", ErrInvalidConfig, c.Blur.KernelFraction)
	case c.Blur.Every > 0 && c.Blur.KernelFraction == 0 && (c.Blur.KernelSize <= 0 || c.Blur.KernelSize%2 == 0):
		return fmt.Errorf("%w: blur kernel size %d must be odd and positive", ErrInvalidConfig, c.Blur.KernelSize)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	case c.ProgressEvery < 0:
		return fmt.Errorf("%w: progress every %d", ErrInvalidConfig, c.ProgressEvery)
	}
	return nil
}

// finite reports whether v is neither NaN nor infinite.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// kernelSize returns the effective odd blur kernel size for a w×h image.
func (c *Config) kernelSize(w, h int) int {
	if c.Blur.KernelFraction <= 0 {
		return c.Blur.KernelSize
	}
	k := int(math.Ceil(c.Blur.KernelFraction * float64(min(w, h))))
	if k%2 == 0 {
		k++
	}
	return max(k, 1)
}

package billow

import (
	"fmt"

	"github.com/gogpu/gg"

	"github.com/gogpu/billow/internal/filter"
)

// Generator renders smoke frames over an immutable base image.
//
// A Generator holds no per-frame state: every method that takes a frame
// index may be called concurrently with any other.
type Generator struct {
	cfg    Config
	base   *Image
	frames int
	blur   filter.Blur
}

// NewGenerator validates the configuration and prepares a generator for
// base. The base image must not be modified while the generator is in use.
//
//	g, err := billow.NewGenerator(base, billow.WithTiming(3, 15))
//	if err != nil {
//	    return err
//	}
//	anim, err := g.Render(ctx)
func NewGenerator(base *Image, opts ...Option) (*Generator, error) {
	if base == nil || base.Width() <= 0 || base.Height() <= 0 {
		return nil, fmt.Errorf("%w: empty base image", ErrInvalidDimensions)
	}

	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Generator{
		cfg:    cfg,
		base:   base,
		frames: cfg.NumFrames(),
	}

	if cfg.Blur.Every > 0 {
		size := cfg.kernelSize(base.Width(), base.Height())
		switch cfg.Blur.Algorithm {
		case BlurBox:
			g.blur = filter.NewBox(size)
		default:
			g.blur = filter.NewGaussian(size)
		}
	}

	Logger().Debug("billow: generator ready",
		"width", base.Width(),
		"height", base.Height(),
		"frames", g.frames,
		"particles", cfg.Particles,
		"opacity", cfg.Opacity.String(),
		"blur", cfg.Blur.Algorithm.String(),
	)

	return g, nil
}

// Config returns a copy of the effective configuration.
func (g *Generator) Config() Config { return g.cfg }

// Base returns the base image.
func (g *Generator) Base() *Image { return g.base }

// NumFrames returns the number of frames in the animation.
func (g *Generator) NumFrames() int { return g.frames }

// Particle returns the state of particle slot in the given frame.
func (g *Generator) Particle(frame, slot int) Particle {
	return Derive(&g.cfg, g.base.Width(), g.base.Height(), Progress(frame, g.frames), slot)
}

// Overlay rasterizes every particle of a frame into a fresh premultiplied
// RGBA pixmap and derives its coverage mask. Mask values are 255 where the
// overlay has any contribution and 0 elsewhere.
func (g *Generator) Overlay(frame int) (*gg.Pixmap, *gg.Mask) {
	pm, mask, _ := g.overlay(frame)
	return pm, mask
}

// overlay is Overlay plus the number of blur passes applied.
func (g *Generator) overlay(frame int) (*gg.Pixmap, *gg.Mask, int) {
	w, h := g.base.Width(), g.base.Height()
	pm := gg.NewPixmap(w, h)
	dc := gg.NewContext(w, h, gg.WithPixmap(pm))
	defer func() { _ = dc.Close() }()

	blurs := 0
	for slot := range g.cfg.Particles {
		g.draw(dc, g.Particle(frame, slot))

		if g.blurAfter(frame, slot) {
			g.blur.Apply(pm)
			blurs++
		}
	}

	return pm, coverage(pm, g.cfg.Opacity), blurs
}

// draw fills one particle disk. Later disks composite source-over on top
// of earlier ones; drawing clips to the canvas.
func (g *Generator) draw(dc *gg.Context, p Particle) {
	if p.Radius <= 0 {
		return
	}

	alpha := 1.0
	if g.cfg.Opacity == OpacityWeighted {
		alpha = p.Weight
		if alpha <= 0 {
			return
		}
	}

	c := g.cfg.Color
	dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, alpha)
	dc.DrawCircle(p.X, p.Y, p.Radius)
	if err := dc.Fill(); err != nil {
		Logger().Warn("billow: particle fill failed", "slot", p.Slot, "err", err)
	}
}

// blurAfter reports whether the overlay is blurred after drawing slot.
func (g *Generator) blurAfter(frame, slot int) bool {
	every := g.cfg.Blur.Every
	if every <= 0 || g.blur == nil {
		return false
	}
	if g.cfg.Blur.Schedule == BlurPerFrame {
		return frame%every == 0
	}
	return slot%every == 0
}

// coverage builds the binary coverage mask of an overlay. In flat mode a
// pixel is covered when its colour channels sum to more than zero; in
// weighted mode when its alpha is non-zero.
func coverage(pm *gg.Pixmap, mode OpacityMode) *gg.Mask {
	mask := gg.NewMask(pm.Width(), pm.Height())
	md := mask.Data()
	data := pm.Data()

	for i := range md {
		px := data[i*4 : i*4+4]
		covered := int(px[0])+int(px[1])+int(px[2]) > 0
		if mode == OpacityWeighted {
			covered = px[3] > 0
		}
		if covered {
			md[i] = 0xff
		}
	}
	return mask
}

// Frame renders one complete output frame.
func (g *Generator) Frame(frame int) (*Image, error) {
	img, _, err := g.renderFrame(frame)
	return img, err
}

// renderFrame renders one frame and reports its statistics, except timing.
func (g *Generator) renderFrame(frame int) (*Image, FrameStat, error) {
	pm, mask, blurs := g.overlay(frame)

	out, err := Composite(g.base, pm, mask, g.cfg.MaxOpacity, g.cfg.Opacity)
	if err != nil {
		return nil, FrameStat{}, fmt.Errorf("billow: frame %d: %w", frame, err)
	}

	covered := 0
	for _, v := range mask.Data() {
		if v != 0 {
			covered++
		}
	}

	stat := FrameStat{
		Frame:         frame,
		Particles:     g.cfg.Particles,
		BlurPasses:    blurs,
		CoveredPixels: covered,
		Coverage:      float64(covered) / float64(len(mask.Data())),
	}

	Logger().Debug("billow: frame rendered",
		"frame", frame,
		"blurs", blurs,
		"coverage", stat.Coverage,
	)

	return out, stat, nil
}

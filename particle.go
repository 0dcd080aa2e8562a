package billow

import "math"

// Particle is the state of one smoke puff in one frame.
//
// Particles carry no identity between frames: every field is a pure
// function of the frame progress, the slot index, the image size and the
// configuration.
type Particle struct {
	Slot int

	// Offset is the position along the rise-and-fade cycle, in [0, 1).
	Offset float64

	Radius float64
	X, Y   float64

	// Weight is the fade weight in [0, 1]: 1 at the start of a cycle,
	// reaching 0 once Offset*FadeRate >= 1.
	Weight float64
}

// Derive computes particle slot for a frame at the given progress in [0, 1).
// Slots are staggered by slot/Particles so puffs are spread over the cycle.
func Derive(c *Config, width, height int, progress float64, slot int) Particle {
	var offset float64
	if c.Particles > 0 {
		offset = math.Mod(progress+float64(slot)/float64(c.Particles), 1.0)
	}

	cx := c.OriginX * float64(width)
	cy := c.OriginY * float64(height)

	return Particle{
		Slot:   slot,
		Offset: offset,
		Radius: c.RadiusBase + offset*c.RadiusGrowth,
		X:      cx + math.Sin(offset*2*math.Pi+float64(slot))*c.Scatter,
		Y:      cy - offset*float64(height)*c.Rise,
		Weight: fadeWeight(c, offset),
	}
}

// fadeWeight returns 1 - curve(min(1, offset*FadeRate)), clamped to [0, 1].
func fadeWeight(c *Config, offset float64) float64 {
	t := min(offset*c.FadeRate, 1)
	if c.Fade != nil {
		t = float64(c.Fade(float32(t), 0, 1, 1))
	}
	return min(max(1-t, 0), 1)
}

// Progress returns frame/frames, the normalized time of a frame.
func Progress(frame, frames int) float64 {
	if frames <= 0 {
		return 0
	}
	return float64(frame) / float64(frames)
}

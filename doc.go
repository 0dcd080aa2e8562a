// Package billow animates smoke rising from a point in a still image.
//
// # Overview
//
// billow takes one RGB base image and renders a short looping sequence of
// frames in which soft, fading puffs rise from an emission origin near the
// bottom of the picture. It is a batch transform: no randomness, no state
// carried between frames, and identical inputs give identical frames.
//
// # Quick Start
//
//	base, err := imageio.Load("pot.png")
//	if err != nil {
//	    return err
//	}
//	g, err := billow.NewGenerator(base, billow.WithTiming(3, 15))
//	if err != nil {
//	    return err
//	}
//	anim, err := g.Render(ctx)
//	if err != nil {
//	    return err
//	}
//	return imageio.SaveGIF("pot.gif", anim)
//
// # Pipeline
//
// For every frame index i of N = round(duration*fps):
//   - Each particle slot p is derived from progress i/N alone (see [Derive]):
//     it rises, grows and fades along a cycle staggered by p/Particles.
//   - Particles are filled as solid disks into an overlay [gg.Pixmap] and the
//     overlay is periodically blurred into a cloud (see [BlurConfig]).
//   - The overlay is blended onto the base with at most MaxOpacity
//     (see [Composite] and [OpacityMode]).
//
// Frames are rendered concurrently on a worker pool and returned in order.
//
// # Coordinate System
//
// Origin (0,0) is the top-left pixel, X grows right and Y grows down, so a
// rising particle has a decreasing Y.
package billow

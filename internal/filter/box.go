package filter

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/gogpu/gg"
)

// Box applies a uniform blur of the given kernel size using bild.
// It is several times faster than Gaussian for large kernels and gives
// slightly flatter puffs.
type Box struct {
	// Size is the odd kernel width in pixels.
	Size int
}

// NewBox creates a box blur with the given kernel size.
func NewBox(size int) *Box {
	return &Box{Size: size}
}

// Apply blurs pm in place.
func (f *Box) Apply(pm *gg.Pixmap) {
	if pm == nil || f.Size <= 1 || pm.Width() <= 0 || pm.Height() <= 0 {
		return
	}

	// The pixmap is premultiplied RGBA, the same layout as image.RGBA,
	// so it can be viewed without copying.
	view := &image.RGBA{
		Pix:    pm.Data(),
		Stride: pm.Width() * 4,
		Rect:   image.Rect(0, 0, pm.Width(), pm.Height()),
	}

	out := blur.Box(view, float64(f.Size/2))
	for y := range pm.Height() {
		copy(view.Pix[y*view.Stride:(y+1)*view.Stride], out.Pix[y*out.Stride:])
	}
}

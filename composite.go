package billow

import (
	"fmt"

	"github.com/gogpu/gg"
)

// Composite blends a premultiplied overlay onto base and returns a new image.
//
// For each pixel, with m = mask/255:
//
//	flat:     alpha = m*maxOpacity
//	          out   = base*(1-alpha) + overlay*alpha
//	weighted: alpha = m*maxOpacity*overlayAlpha/255
//	          out   = base*(1-alpha) + overlay*m*maxOpacity
//
// overlay is the premultiplied colour, i.e. the smoke as drawn over black.
// Results are truncated to 0–255. Pixels with a zero mask are copied from
// base unchanged.
func Composite(base *Image, overlay *gg.Pixmap, mask *gg.Mask, maxOpacity float64, mode OpacityMode) (*Image, error) {
	w, h := base.Width(), base.Height()
	if overlay.Width() != w || overlay.Height() != h {
		return nil, fmt.Errorf("%w: overlay %dx%d, base %dx%d",
			ErrInvalidDimensions, overlay.Width(), overlay.Height(), w, h)
	}
	if mask.Width() != w || mask.Height() != h {
		return nil, fmt.Errorf("%w: mask %dx%d, base %dx%d",
			ErrInvalidDimensions, mask.Width(), mask.Height(), w, h)
	}

	out := base.Clone()
	dst := out.Pix()
	src := overlay.Data()

	for i, mv := range mask.Data() {
		if mv == 0 {
			continue
		}
		m := float64(mv) / 255
		px := src[i*4 : i*4+4]
		rgb := dst[i*3 : i*3+3]

		var alpha, gain float64
		switch mode {
		case OpacityWeighted:
			alpha = m * maxOpacity * float64(px[3]) / 255
			gain = m * maxOpacity
		default:
			alpha = m * maxOpacity
			gain = alpha
		}

		for c := range 3 {
			rgb[c] = truncUint8(float64(rgb[c])*(1-alpha) + float64(px[c])*gain)
		}
	}

	return out, nil
}

// truncUint8 converts to uint8 by truncation, clamping to [0, 255].
func truncUint8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

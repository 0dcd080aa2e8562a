package filter

import (
	"sync"

	"github.com/gogpu/gg"
)

// Blur softens a pixmap in place.
type Blur interface {
	Apply(pm *gg.Pixmap)
}

// Gaussian is a separable Gaussian blur over a whole pixmap: one row pass
// and one column pass of Size taps each, instead of Size² taps per pixel.
type Gaussian struct {
	// Size is the odd kernel width in pixels.
	Size int
}

// NewGaussian creates a Gaussian blur with the given kernel size.
func NewGaussian(size int) *Gaussian {
	return &Gaussian{Size: size}
}

// Apply blurs pm in place. Pixels beyond the edge mirror the image without
// repeating the edge pixel (reflect-101: ...c b | a b c...). The row pass writes into a float plane so that faint tails are
// not rounded away before the column pass.
func (f *Gaussian) Apply(pm *gg.Pixmap) {
	if pm == nil || f.Size <= 1 {
		return
	}
	w, h := pm.Width(), pm.Height()
	if w <= 0 || h <= 0 {
		return
	}

	kernel := CachedGaussianKernel(f.Size)
	half := len(kernel) / 2
	data := pm.Data()

	plane := getFloats(w * h * 4)
	defer putFloats(plane)
	line := getFloats((max(w, h) + 2*half) * 4)
	defer putFloats(line)
	out := getFloats(max(w, h) * 4)
	defer putFloats(out)

	for y := range h {
		row := data[y*w*4 : (y+1)*w*4]
		body := line[half*4:]
		for i, v := range row {
			body[i] = float32(v)
		}
		padEdges(line, w, half)
		convolve(plane[y*w*4:(y+1)*w*4], line, w, kernel)
	}

	for x := range w {
		for y := range h {
			src := (y*w + x) * 4
			copy(line[(half+y)*4:(half+y+1)*4], plane[src:src+4])
		}
		padEdges(line, h, half)
		convolve(out, line, h, kernel)
		for y := range h {
			dst := (y*w + x) * 4
			for c := range 4 {
				data[dst+c] = clampUint8(out[y*4+c])
			}
		}
	}
}

// padEdges fills the half pixels of padding on either side of the n pixels
// that start at offset half by reflect-101 mirroring.
func padEdges(line []float32, n, half int) {
	for i := range half {
		left := reflect101(-half+i, n)
		copy(line[i*4:i*4+4], line[(half+left)*4:])
		right := reflect101(n+i, n)
		copy(line[(half+n+i)*4:(half+n+i)*4+4], line[(half+right)*4:])
	}
}

// reflect101 maps an index outside [0, n) back inside by mirroring about
// the first and last pixel. Kernels wider than the image bounce repeatedly.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * (n - 1)
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i
	}
	return i
}

// convolve writes n pixels into dst from a line padded by len(kernel)/2
// pixels on each side.
func convolve(dst, line []float32, n int, kernel []float32) {
	for i := range n {
		var r, g, b, a float32
		win := line[i*4 : (i+len(kernel))*4]
		for k, wt := range kernel {
			p := win[k*4 : k*4+4]
			r += p[0] * wt
			g += p[1] * wt
			b += p[2] * wt
			a += p[3] * wt
		}
		d := dst[i*4 : i*4+4]
		d[0], d[1], d[2], d[3] = r, g, b, a
	}
}

// floatBuffer wraps a slice for sync.Pool to avoid allocation warnings.
type floatBuffer struct {
	data []float32
}

// Scratch buffers shared by concurrently rendered frames.
var floatPool = sync.Pool{
	New: func() any { return &floatBuffer{} },
}

// getFloats returns a scratch slice of exactly size elements. Contents are
// unspecified; callers overwrite what they read.
func getFloats(size int) []float32 {
	buf := floatPool.Get().(*floatBuffer)
	if cap(buf.data) < size {
		return make([]float32, size)
	}
	return buf.data[:size]
}

// putFloats returns a scratch slice to the pool. Slices over 64 MiB are
// dropped.
func putFloats(s []float32) {
	if cap(s) <= 16<<20 {
		floatPool.Put(&floatBuffer{data: s[:cap(s)]})
	}
}

// clampUint8 clamps v to [0, 255] and rounds to the nearest integer.
func clampUint8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}

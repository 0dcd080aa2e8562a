package filter

import (
	"math"
	"sync"
)

// SigmaForSize returns the Gaussian sigma for an odd kernel size, using
// the usual rule that fits 99 taps to a sigma of about 15.2:
//
//	sigma = 0.3*((size-1)*0.5 - 1) + 0.8
func SigmaForSize(size int) float64 {
	return 0.3*((float64(size)-1)*0.5-1) + 0.8
}

// GaussianKernel generates a normalized 1D Gaussian kernel with exactly
// size taps. Even sizes are rounded up to the next odd size.
//
// For size <= 1, returns a single-element kernel [1.0] (identity).
func GaussianKernel(size int) []float32 {
	if size <= 1 {
		return []float32{1.0}
	}
	if size%2 == 0 {
		size++
	}

	sigma := SigmaForSize(size)
	halfSize := size / 2
	kernel := make([]float32, size)

	// G(x) = exp(-x²/(2σ²)); the constant factor cancels on normalization.
	twoSigmaSq := 2 * sigma * sigma
	sum := float64(0)

	for i := range size {
		x := float64(i - halfSize)
		val := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(val)
		sum += val
	}

	if sum > 0 {
		invSum := float32(1.0 / sum)
		for i := range kernel {
			kernel[i] *= invSum
		}
	}

	return kernel
}

// kernels holds one shared kernel per size. A render uses a single size,
// so the map stays tiny and is never evicted.
var kernels sync.Map // map[int][]float32

// CachedGaussianKernel returns a shared Gaussian kernel for size.
// The returned slice must not be modified.
func CachedGaussianKernel(size int) []float32 {
	if k, ok := kernels.Load(size); ok {
		return k.([]float32)
	}
	k, _ := kernels.LoadOrStore(size, GaussianKernel(size))
	return k.([]float32)
}

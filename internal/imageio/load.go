// Package imageio loads base images and writes rendered animations.
package imageio

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	// Registered decoders for image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/billow"
)

// Load reads and decodes the image at path, auto-detecting the format, and
// normalizes it to RGB. Supported formats: PNG, JPEG, GIF (first frame),
// BMP, TIFF, WebP.
func Load(path string) (*billow.Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", billow.ErrInputUnreadable, path, err)
	}
	defer func() { _ = f.Close() }()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	billow.Logger().Debug("imageio: loaded", "path", path,
		"width", img.Width(), "height", img.Height())
	return img, nil
}

// LoadFromBytes decodes an in-memory image.
func LoadFromBytes(data []byte) (*billow.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data", billow.ErrInputUnreadable)
	}
	return Decode(bytes.NewReader(data))
}

// Decode decodes an image from r and converts it to RGB.
func Decode(r io.Reader) (*billow.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %w", billow.ErrInputUnreadable, err)
	}

	out, err := billow.FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	return out, nil
}

// Downscale shrinks img so that its larger side is at most maxSize,
// keeping the aspect ratio. Images already within bounds, and maxSize <= 0,
// return img unchanged.
func Downscale(img *billow.Image, maxSize int) (*billow.Image, error) {
	w, h := img.Width(), img.Height()
	if maxSize <= 0 || max(w, h) <= maxSize {
		return img, nil
	}

	scale := float64(maxSize) / float64(max(w, h))
	nw := max(1, int(float64(w)*scale+0.5))
	nh := max(1, int(float64(h)*scale+0.5))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img.ToRGBA(), img.Bounds(), xdraw.Src, nil)

	billow.Logger().Debug("imageio: downscaled",
		"from", fmt.Sprintf("%dx%d", w, h), "to", fmt.Sprintf("%dx%d", nw, nh))
	return billow.FromImage(dst)
}

package billow

import (
	"fmt"
	"image"
	"image/color"
)

// Image is an opaque RGB raster, 3 bytes per pixel, row-major.
// It is used both for the base image and for rendered output frames.
type Image struct {
	width  int
	height int
	pix    []uint8
}

// NewImage creates a black image with the given dimensions.
// It returns ErrInvalidDimensions if either dimension is not positive.
func NewImage(width, height int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return &Image{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*3),
	}, nil
}

// FromImage converts any image.Image to an RGB Image.
//
// Colour channels are taken un-premultiplied and alpha is dropped, so a
// translucent source pixel keeps its stored colour. Channel order is always
// normalized to R, G, B.
func FromImage(src image.Image) (*Image, error) {
	b := src.Bounds()
	img, err := NewImage(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	// Fast path for NRGBA, which is what most PNG decoders produce.
	if nrgba, ok := src.(*image.NRGBA); ok {
		for y := range img.height {
			row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+img.width*4]
			dst := img.pix[y*img.width*3:]
			for x := range img.width {
				dst[x*3+0] = row[x*4+0]
				dst[x*3+1] = row[x*4+1]
				dst[x*3+2] = row[x*4+2]
			}
		}
		return img, nil
	}

	for y := range img.height {
		for x := range img.width {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := (y*img.width + x) * 3
			img.pix[i+0] = c.R
			img.pix[i+1] = c.G
			img.pix[i+2] = c.B
		}
	}
	return img, nil
}

// Width returns the image width in pixels.
func (m *Image) Width() int { return m.width }

// Height returns the image height in pixels.
func (m *Image) Height() int { return m.height }

// Pix returns the raw RGB bytes. Callers must not modify the slice of a
// base image handed to a Generator.
func (m *Image) Pix() []uint8 { return m.pix }

// RGB returns the colour at (x, y). Out-of-bounds coordinates return black.
func (m *Image) RGB(x, y int) (r, g, b uint8) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return 0, 0, 0
	}
	i := (y*m.width + x) * 3
	return m.pix[i], m.pix[i+1], m.pix[i+2]
}

// SetRGB sets the colour at (x, y). Out-of-bounds coordinates are ignored.
func (m *Image) SetRGB(x, y int, r, g, b uint8) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	i := (y*m.width + x) * 3
	m.pix[i+0] = r
	m.pix[i+1] = g
	m.pix[i+2] = b
}

// Fill sets every pixel to one colour.
func (m *Image) Fill(r, g, b uint8) {
	for i := 0; i < len(m.pix); i += 3 {
		m.pix[i+0] = r
		m.pix[i+1] = g
		m.pix[i+2] = b
	}
}

// Clone returns a deep copy of the image.
func (m *Image) Clone() *Image {
	c := &Image{width: m.width, height: m.height, pix: make([]uint8, len(m.pix))}
	copy(c.pix, m.pix)
	return c
}

// ToRGBA converts the image to an opaque *image.RGBA.
func (m *Image) ToRGBA() *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, m.width, m.height))
	for i, j := 0, 0; i < len(m.pix); i, j = i+3, j+4 {
		rgba.Pix[j+0] = m.pix[i+0]
		rgba.Pix[j+1] = m.pix[i+1]
		rgba.Pix[j+2] = m.pix[i+2]
		rgba.Pix[j+3] = 0xff
	}
	return rgba
}

// At implements the image.Image interface.
func (m *Image) At(x, y int) color.Color {
	r, g, b := m.RGB(x, y)
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Bounds implements the image.Image interface.
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// ColorModel implements the image.Image interface.
func (m *Image) ColorModel() color.Model {
	return color.RGBAModel
}

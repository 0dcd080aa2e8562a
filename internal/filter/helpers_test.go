package filter

import "github.com/gogpu/gg"

// Test helper functions shared across filter tests.

// fillPremul fills a pixmap with one premultiplied RGBA value.
func fillPremul(p *gg.Pixmap, r, g, b, a uint8) {
	data := p.Data()
	for i := 0; i < len(data); i += 4 {
		data[i+0] = r
		data[i+1] = g
		data[i+2] = b
		data[i+3] = a
	}
}

// setPremul writes one premultiplied pixel directly into the pixmap data.
func setPremul(p *gg.Pixmap, x, y int, r, g, b, a uint8) {
	i := (y*p.Width() + x) * 4
	data := p.Data()
	data[i+0] = r
	data[i+1] = g
	data[i+2] = b
	data[i+3] = a
}

// pixel reads one premultiplied pixel.
func pixel(p *gg.Pixmap, x, y int) [4]uint8 {
	i := (y*p.Width() + x) * 4
	data := p.Data()
	return [4]uint8{data[i], data[i+1], data[i+2], data[i+3]}
}

// absf32 returns the absolute value of a float32.
func absf32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

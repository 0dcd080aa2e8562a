package billow

import (
	"errors"
	"testing"

	"github.com/gogpu/gg"
)

// setPremul writes a raw premultiplied pixel into pm.
func setPremul(pm *gg.Pixmap, x, y int, r, g, b, a uint8) {
	i := (y*pm.Width() + x) * 4
	d := pm.Data()
	d[i], d[i+1], d[i+2], d[i+3] = r, g, b, a
}

func grayBase(t *testing.T, w, h int, v uint8) *Image {
	t.Helper()
	img, err := NewImage(w, h)
	if err != nil {
		t.Fatal(err)
	}
	img.Fill(v, v, v)
	return img
}

func TestComposite_Flat(t *testing.T) {
	base := grayBase(t, 4, 4, 100)
	pm := gg.NewPixmap(4, 4)
	mask := gg.NewMask(4, 4)

	setPremul(pm, 1, 1, 200, 100, 50, 255)
	mask.Set(1, 1, 255)

	out, err := Composite(base, pm, mask, 0.5, OpacityFlat)
	if err != nil {
		t.Fatalf("Composite() error = %v", err)
	}

	if r, g, b := out.RGB(1, 1); r != 150 || g != 100 || b != 75 {
		t.Errorf("covered pixel = (%d, %d, %d), want (150, 100, 75)", r, g, b)
	}
}

func TestComposite_Weighted(t *testing.T) {
	base := grayBase(t, 2, 2, 100)
	pm := gg.NewPixmap(2, 2)
	mask := gg.NewMask(2, 2)

	// Half-transparent (premultiplied) smoke over a mid-grey base.
	setPremul(pm, 0, 0, 100, 50, 0, 128)
	mask.Set(0, 0, 255)

	out, err := Composite(base, pm, mask, 0.5, OpacityWeighted)
	if err != nil {
		t.Fatalf("Composite() error = %v", err)
	}

	// alpha = 0.5*128/255; out = 100*(1-alpha) + px*0.5
	if r, g, b := out.RGB(0, 0); r != 124 || g != 99 || b != 74 {
		t.Errorf("covered pixel = (%d, %d, %d), want (124, 99, 74)", r, g, b)
	}
}

func TestComposite_UncoveredUnchanged(t *testing.T) {
	base, _ := NewImage(8, 8)
	for y := range 8 {
		for x := range 8 {
			base.SetRGB(x, y, uint8(x*30), uint8(y*30), 7)
		}
	}

	pm := gg.NewPixmap(8, 8)
	mask := gg.NewMask(8, 8)
	// Overlay colour without coverage must be ignored.
	setPremul(pm, 2, 2, 255, 255, 255, 255)
	setPremul(pm, 5, 5, 255, 255, 255, 255)
	mask.Set(5, 5, 255)

	for _, mode := range []OpacityMode{OpacityFlat, OpacityWeighted} {
		out, err := Composite(base, pm, mask, 0.3, mode)
		if err != nil {
			t.Fatalf("%v: Composite() error = %v", mode, err)
		}
		for y := range 8 {
			for x := range 8 {
				if x == 5 && y == 5 {
					continue
				}
				r, g, b := out.RGB(x, y)
				br, bg, bb := base.RGB(x, y)
				if r != br || g != bg || b != bb {
					t.Errorf("%v: pixel (%d,%d) = (%d,%d,%d), want base (%d,%d,%d)",
						mode, x, y, r, g, b, br, bg, bb)
				}
			}
		}
		if r, _, _ := out.RGB(5, 5); r <= 150 {
			t.Errorf("%v: covered pixel R = %d, want brighter than base 150", mode, r)
		}
	}
}

func TestComposite_DoesNotModifyBase(t *testing.T) {
	base := grayBase(t, 2, 2, 10)
	pm := gg.NewPixmap(2, 2)
	mask := gg.NewMask(2, 2)
	setPremul(pm, 0, 0, 255, 255, 255, 255)
	mask.Fill(255)

	if _, err := Composite(base, pm, mask, 1, OpacityFlat); err != nil {
		t.Fatal(err)
	}
	if r, _, _ := base.RGB(0, 0); r != 10 {
		t.Errorf("base modified: R = %d, want 10", r)
	}
}

func TestComposite_FullOpacity(t *testing.T) {
	base := grayBase(t, 1, 1, 10)
	pm := gg.NewPixmap(1, 1)
	mask := gg.NewMask(1, 1)
	setPremul(pm, 0, 0, 255, 255, 255, 255)
	mask.Fill(255)

	out, err := Composite(base, pm, mask, 1, OpacityFlat)
	if err != nil {
		t.Fatal(err)
	}
	if r, g, b := out.RGB(0, 0); r != 255 || g != 255 || b != 255 {
		t.Errorf("pixel = (%d, %d, %d), want (255, 255, 255)", r, g, b)
	}
}

func TestComposite_DimensionMismatch(t *testing.T) {
	base := grayBase(t, 4, 4, 0)

	tests := []struct {
		name string
		pm   *gg.Pixmap
		mask *gg.Mask
	}{
		{"overlay", gg.NewPixmap(3, 4), gg.NewMask(4, 4)},
		{"mask", gg.NewPixmap(4, 4), gg.NewMask(4, 5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Composite(base, tt.pm, tt.mask, 0.3, OpacityFlat)
			if !errors.Is(err, ErrInvalidDimensions) {
				t.Errorf("Composite() error = %v, want ErrInvalidDimensions", err)
			}
		})
	}
}

func TestTruncUint8(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{-3, 0},
		{0, 0},
		{12.99, 12},
		{254.999, 254},
		{255, 255},
		{300, 255},
	}
	for _, tt := range tests {
		if got := truncUint8(tt.in); got != tt.want {
			t.Errorf("truncUint8(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

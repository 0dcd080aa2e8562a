package imageio

import (
	"bytes"
	"errors"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/billow"
)

func testAnimation(t *testing.T, frames, w, h int) *billow.Animation {
	t.Helper()
	anim := &billow.Animation{FPS: 15}
	for i := range frames {
		img, err := billow.NewImage(w, h)
		if err != nil {
			t.Fatal(err)
		}
		img.Fill(uint8(i*40), 0, 0)
		anim.Frames = append(anim.Frames, img)
	}
	return anim
}

func TestDelayFor(t *testing.T) {
	tests := []struct {
		fps  int
		want int
	}{
		{0, 0},
		{10, 10},
		{15, 7},
		{25, 4},
		{200, 1},
	}
	for _, tt := range tests {
		if got := DelayFor(tt.fps); got != tt.want {
			t.Errorf("DelayFor(%d) = %d, want %d", tt.fps, got, tt.want)
		}
	}
}

func TestEncodeGIF(t *testing.T) {
	anim := testAnimation(t, 4, 20, 10)

	var buf bytes.Buffer
	if err := EncodeGIF(&buf, anim); err != nil {
		t.Fatalf("EncodeGIF() error = %v", err)
	}

	decoded, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("gif.DecodeAll: %v", err)
	}

	if len(decoded.Image) != 4 {
		t.Errorf("frames = %d, want 4", len(decoded.Image))
	}
	if decoded.Config.Width != 20 || decoded.Config.Height != 10 {
		t.Errorf("size = %dx%d, want 20x10", decoded.Config.Width, decoded.Config.Height)
	}
	if decoded.LoopCount != 0 {
		t.Errorf("LoopCount = %d, want 0 (forever)", decoded.LoopCount)
	}
	for i, d := range decoded.Delay {
		if d != 7 {
			t.Errorf("Delay[%d] = %d, want 7", i, d)
		}
	}
}

func TestEncodeGIF_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeGIF(&buf, &billow.Animation{FPS: 15}); !errors.Is(err, billow.ErrNoFrames) {
		t.Errorf("EncodeGIF(empty) error = %v, want ErrNoFrames", err)
	}
	if err := EncodeGIF(&buf, nil); !errors.Is(err, billow.ErrNoFrames) {
		t.Errorf("EncodeGIF(nil) error = %v, want ErrNoFrames", err)
	}
}

func TestSaveGIF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.gif")

	if err := SaveGIF(path, testAnimation(t, 3, 8, 8)); err != nil {
		t.Fatalf("SaveGIF() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	decoded, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("gif.DecodeAll: %v", err)
	}
	if len(decoded.Image) != 3 {
		t.Errorf("frames = %d, want 3", len(decoded.Image))
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the output file", len(entries))
	}
}

func TestSaveGIF_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
		anim *billow.Animation
		want error
	}{
		{"no frames", filepath.Join(dir, "a.gif"), &billow.Animation{FPS: 15}, billow.ErrNoFrames},
		{"wrong extension", filepath.Join(dir, "a.mp4"), testAnimation(t, 1, 4, 4), ErrUnsupportedFormat},
		{"missing directory", filepath.Join(dir, "missing", "a.gif"), testAnimation(t, 1, 4, 4), billow.ErrEncodingFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SaveGIF(tt.path, tt.anim)
			if !errors.Is(err, tt.want) {
				t.Errorf("SaveGIF() error = %v, want %v", err, tt.want)
			}
			if _, statErr := os.Stat(tt.path); !errors.Is(statErr, os.ErrNotExist) {
				t.Errorf("output %s exists after failure", tt.path)
			}
		})
	}
}

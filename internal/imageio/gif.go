package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/billow"
	"github.com/gogpu/billow/internal/parallel"
)

// ErrUnsupportedFormat is returned when the output extension is not a
// supported animation container.
var ErrUnsupportedFormat = errors.New("imageio: unsupported format")

// DelayFor returns the GIF frame delay in hundredths of a second for fps.
func DelayFor(fps int) int {
	if fps <= 0 {
		return 0
	}
	return max(1, int(math.Round(100/float64(fps))))
}

// EncodeGIF writes anim as an infinitely looping GIF. Frames are quantized
// to the Plan 9 palette with Floyd-Steinberg dithering.
func EncodeGIF(w io.Writer, anim *billow.Animation) error {
	if anim == nil || len(anim.Frames) == 0 {
		return billow.ErrNoFrames
	}

	n := len(anim.Frames)
	out := &gif.GIF{
		Image:     make([]*image.Paletted, n),
		Delay:     make([]int, n),
		LoopCount: 0,
	}

	pool := parallel.NewWorkerPool(0)
	defer pool.Close()

	delay := DelayFor(anim.FPS)
	pool.ForEach(n, func(i int) {
		out.Image[i] = quantize(anim.Frames[i])
		out.Delay[i] = delay
	})

	if err := gif.EncodeAll(w, out); err != nil {
		return fmt.Errorf("%w: %w", billow.ErrEncodingFailed, err)
	}
	return nil
}

// quantize converts a frame to a paletted image.
func quantize(frame *billow.Image) *image.Paletted {
	src := frame.ToRGBA()
	dst := image.NewPaletted(src.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(dst, dst.Bounds(), src, image.Point{})
	return dst
}

// SaveGIF writes anim to path. The file is written to a temporary file in
// the same directory and renamed into place, so a failed run leaves no
// partial output behind.
func SaveGIF(path string, anim *billow.Animation) error {
	if anim == nil || len(anim.Frames) == 0 {
		return fmt.Errorf("%s: %w", path, billow.ErrNoFrames)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".gif" {
		return fmt.Errorf("%w: %s: %w %q", billow.ErrEncodingFailed, path, ErrUnsupportedFormat, ext)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".billow-*.gif")
	if err != nil {
		return fmt.Errorf("%w: %s: %w", billow.ErrEncodingFailed, path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		if rmErr := os.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			billow.Logger().Warn("imageio: remove temp file", "path", tmpName, "err", rmErr)
		}
	}

	if err := tmp.Chmod(0o644); err != nil {
		billow.Logger().Warn("imageio: chmod temp file", "path", tmpName, "err", err)
	}

	if err := EncodeGIF(tmp, anim); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%w: %s: %w", billow.ErrEncodingFailed, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("%w: %s: %w", billow.ErrEncodingFailed, path, err)
	}

	billow.Logger().Info("imageio: saved", "path", path, "frames", len(anim.Frames))
	return nil
}

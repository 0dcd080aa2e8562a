package billow

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gogpu/billow/internal/parallel"
)

// Animation is an ordered sequence of frames ready for encoding.
type Animation struct {
	// Frames are in ascending frame order, all the size of the base image.
	Frames []*Image
	FPS    int

	// Stats holds one entry per frame, in the same order as Frames.
	Stats []FrameStat
}

// FrameStat describes the work done for one frame.
type FrameStat struct {
	Frame         int     `csv:"frame"`
	Particles     int     `csv:"particles"`
	BlurPasses    int     `csv:"blur_passes"`
	CoveredPixels int     `csv:"covered_pixels"`
	Coverage      float64 `csv:"coverage"`
	DurationMS    float64 `csv:"duration_ms"`
}

// Render generates every frame of the animation.
//
// Frames are independent and are rendered on Config.Workers goroutines;
// results are stored by frame index, so the returned sequence is always in
// ascending order. A zero-frame configuration yields an empty Animation.
// Cancellation is checked before each frame starts.
func (g *Generator) Render(ctx context.Context) (*Animation, error) {
	n := g.frames
	anim := &Animation{
		Frames: make([]*Image, n),
		FPS:    g.cfg.FPS,
		Stats:  make([]FrameStat, n),
	}
	if n == 0 {
		Logger().Warn("billow: animation has no frames",
			"duration", g.cfg.Duration, "fps", g.cfg.FPS)
		return anim, nil
	}

	pool := parallel.NewWorkerPool(g.cfg.Workers)
	defer pool.Close()

	Logger().Info("billow: rendering", "frames", n, "workers", pool.Workers())

	errs := make([]error, n)
	var completed atomic.Int64

	pool.ForEach(n, func(i int) {
		if ctx.Err() != nil {
			return
		}

		start := time.Now()
		frame, stat, err := g.renderFrame(i)
		stat.DurationMS = float64(time.Since(start).Microseconds()) / 1000

		anim.Frames[i] = frame
		anim.Stats[i] = stat
		errs[i] = err

		done := completed.Add(1)
		if every := int64(g.cfg.ProgressEvery); every > 0 && done%every == 0 {
			Logger().Info("billow: generated frames", "done", done, "total", n)
		}
	})

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("billow: render: %w", err)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return anim, nil
}

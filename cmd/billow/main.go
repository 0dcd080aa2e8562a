// Command billow renders an animated smoke GIF over a still image.
//
// Usage:
//
//	billow -in pot.png -out pot.gif [-config billow.yaml] [flags]
//
// Flags override values from the config file, which overrides the
// built-in defaults.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gogpu/billow"
	"github.com/gogpu/billow/internal/config"
	"github.com/gogpu/billow/internal/imageio"
	"github.com/gogpu/billow/internal/telemetry"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "billow: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("billow", flag.ContinueOnError)
	var (
		configPath = fs.String("config", "", "Path to config YAML (empty = use defaults)")
		input      = fs.String("in", "", "Input image (PNG, JPEG, GIF, BMP, TIFF, WebP)")
		output     = fs.String("out", "", "Output GIF path")
		duration   = fs.Float64("duration", 0, "Animation length in seconds")
		fps        = fs.Int("fps", 0, "Frames per second")
		particles  = fs.Int("particles", 0, "Particle slots per frame")
		workers    = fs.Int("workers", 0, "Frames rendered concurrently (0 = all CPUs)")
		opacity    = fs.String("opacity", "", "Opacity mode: flat or weighted")
		maxSize    = fs.Int("max-size", 0, "Downscale so the longest side is at most N pixels (0 = keep)")
		statsPath  = fs.String("stats", "", "Write per-frame statistics CSV to this path")
		dumpConfig = fs.String("dump-config", "", "Write the effective config YAML to this path and exit")
		verbose    = fs.Bool("v", false, "Verbose (debug) logging")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	billow.SetLogger(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// Only flags given on the command line override the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "in":
			cfg.Input = *input
		case "out":
			cfg.Output = *output
		case "duration":
			cfg.Duration = *duration
		case "fps":
			cfg.FPS = *fps
		case "particles":
			cfg.Smoke.Particles = *particles
		case "workers":
			cfg.Workers = *workers
		case "opacity":
			cfg.Smoke.OpacityMode = *opacity
		case "max-size":
			cfg.MaxSize = *maxSize
		case "stats":
			cfg.Stats = *statsPath
		}
	})

	if *dumpConfig != "" {
		if err := cfg.WriteYAML(*dumpConfig); err != nil {
			return err
		}
		logger.Info("config written", "path", *dumpConfig)
		return nil
	}

	genCfg, err := cfg.Generator()
	if err != nil {
		return err
	}
	if cfg.Input == "" {
		return fmt.Errorf("%w: no input image (use -in)", billow.ErrInputUnreadable)
	}

	base, err := imageio.Load(cfg.Input)
	if err != nil {
		return err
	}
	base, err = imageio.Downscale(base, cfg.MaxSize)
	if err != nil {
		return err
	}

	gen, err := billow.NewGenerator(base, billow.WithConfig(genCfg))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("generating smoke",
		"input", cfg.Input,
		"size", fmt.Sprintf("%dx%d", base.Width(), base.Height()),
		"frames", gen.NumFrames(),
		"fps", genCfg.FPS,
	)

	start := time.Now()
	anim, err := gen.Render(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	// Stats go first so a failed stats write leaves no GIF behind.
	if cfg.Stats != "" {
		if err := telemetry.WriteCSV(cfg.Stats, anim.Stats); err != nil {
			return err
		}
		logger.Info("frame statistics written", "path", cfg.Stats)
	}

	if err := imageio.SaveGIF(cfg.Output, anim); err != nil {
		return err
	}

	sum := telemetry.Summarize(anim.Stats)
	logger.Info("done",
		"output", cfg.Output,
		"frames", sum.Frames,
		"elapsed", elapsed.Round(time.Millisecond),
		"frame_mean_ms", sum.MeanMS,
		"frame_stddev_ms", sum.StdDevMS,
		"frame_max_ms", sum.MaxMS,
		"mean_coverage", sum.MeanCoverage,
	)
	return nil
}

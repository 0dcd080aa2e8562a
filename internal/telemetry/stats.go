// Package telemetry records per-frame render statistics.
package telemetry

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"

	"github.com/gogpu/billow"
)

// Summary aggregates the frame statistics of one render.
type Summary struct {
	Frames       int
	TotalMS      float64
	MeanMS       float64
	StdDevMS     float64
	MaxMS        float64
	MeanCoverage float64
	BlurPasses   int
}

// Summarize computes timing and coverage aggregates. An empty slice gives
// a zero Summary.
func Summarize(stats []billow.FrameStat) Summary {
	if len(stats) == 0 {
		return Summary{}
	}

	durations := make([]float64, len(stats))
	coverage := make([]float64, len(stats))
	s := Summary{Frames: len(stats)}
	for i, fs := range stats {
		durations[i] = fs.DurationMS
		coverage[i] = fs.Coverage
		s.TotalMS += fs.DurationMS
		s.MaxMS = max(s.MaxMS, fs.DurationMS)
		s.BlurPasses += fs.BlurPasses
	}

	s.MeanMS, s.StdDevMS = stat.MeanStdDev(durations, nil)
	if len(stats) == 1 {
		s.StdDevMS = 0
	}
	s.MeanCoverage = stat.Mean(coverage, nil)
	return s
}

// EncodeCSV writes stats with a header row.
func EncodeCSV(w io.Writer, stats []billow.FrameStat) error {
	if err := gocsv.Marshal(stats, w); err != nil {
		return fmt.Errorf("writing frame stats: %w", err)
	}
	return nil
}

// WriteCSV writes stats to path, creating or truncating the file.
func WriteCSV(path string, stats []billow.FrameStat) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := EncodeCSV(f, stats); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

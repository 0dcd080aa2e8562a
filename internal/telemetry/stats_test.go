package telemetry

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/billow"
)

func TestSummarize(t *testing.T) {
	stats := []billow.FrameStat{
		{Frame: 0, BlurPasses: 3, Coverage: 0.2, DurationMS: 10},
		{Frame: 1, BlurPasses: 3, Coverage: 0.4, DurationMS: 20},
		{Frame: 2, BlurPasses: 3, Coverage: 0.6, DurationMS: 30},
	}

	s := Summarize(stats)

	if s.Frames != 3 {
		t.Errorf("Frames = %d, want 3", s.Frames)
	}
	if s.TotalMS != 60 {
		t.Errorf("TotalMS = %v, want 60", s.TotalMS)
	}
	if s.MeanMS != 20 {
		t.Errorf("MeanMS = %v, want 20", s.MeanMS)
	}
	// Sample standard deviation of 10, 20, 30.
	if math.Abs(s.StdDevMS-10) > 1e-9 {
		t.Errorf("StdDevMS = %v, want 10", s.StdDevMS)
	}
	if s.MaxMS != 30 {
		t.Errorf("MaxMS = %v, want 30", s.MaxMS)
	}
	if math.Abs(s.MeanCoverage-0.4) > 1e-9 {
		t.Errorf("MeanCoverage = %v, want 0.4", s.MeanCoverage)
	}
	if s.BlurPasses != 9 {
		t.Errorf("BlurPasses = %d, want 9", s.BlurPasses)
	}
}

func TestSummarize_Edges(t *testing.T) {
	if s := Summarize(nil); s != (Summary{}) {
		t.Errorf("Summarize(nil) = %+v, want zero", s)
	}

	s := Summarize([]billow.FrameStat{{DurationMS: 5}})
	if s.MeanMS != 5 || s.StdDevMS != 0 {
		t.Errorf("single frame = mean %v std %v, want 5 and 0", s.MeanMS, s.StdDevMS)
	}
}

func TestEncodeCSV(t *testing.T) {
	stats := []billow.FrameStat{
		{Frame: 0, Particles: 5, BlurPasses: 3, CoveredPixels: 40, Coverage: 0.4, DurationMS: 1.5},
		{Frame: 1, Particles: 5, BlurPasses: 3, CoveredPixels: 50, Coverage: 0.5, DurationMS: 2},
	}

	var buf bytes.Buffer
	if err := EncodeCSV(&buf, stats); err != nil {
		t.Fatalf("EncodeCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows:\n%s", len(lines), buf.String())
	}
	wantHeader := "frame,particles,blur_passes,covered_pixels,coverage,duration_ms"
	if lines[0] != wantHeader {
		t.Errorf("header = %q, want %q", lines[0], wantHeader)
	}
	if !strings.HasPrefix(lines[1], "0,5,3,40,") {
		t.Errorf("row 1 = %q, want prefix 0,5,3,40,", lines[1])
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.csv")
	if err := WriteCSV(path, []billow.FrameStat{{Frame: 7}}); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n7,") {
		t.Errorf("file missing frame 7 row:\n%s", data)
	}

	if err := WriteCSV(filepath.Join(t.TempDir(), "no", "such", "dir.csv"), nil); err == nil {
		t.Error("WriteCSV(bad dir) error = nil, want error")
	}
}

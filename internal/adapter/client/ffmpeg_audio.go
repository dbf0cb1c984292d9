package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"newsreel/internal/domain/entity"
	"newsreel/pkg/executor"
)

// FFmpegAudio post-processes raw engine output and probes durations.
type FFmpegAudio struct {
	exec       executor.Executor
	ffmpegBin  string
	ffprobeBin string
}

func NewFFmpegAudio(exec executor.Executor, ffmpegBin, ffprobeBin string) *FFmpegAudio {
	return &FFmpegAudio{
		exec:       exec,
		ffmpegBin:  ffmpegBin,
		ffprobeBin: ffprobeBin,
	}
}

// Process applies speed, volume and loudness normalization, resamples to the
// requested rate and writes the final container at outPath.
func (f *FFmpegAudio) Process(ctx context.Context, inPath, outPath string, opts entity.AudioOptions) error {
	var filters []string
	if opts.Speed != 0 && opts.Speed != 1.0 {
		filters = append(filters, fmt.Sprintf("atempo=%.3f", opts.Speed))
	}
	if opts.Volume != 0 && opts.Volume != 1.0 {
		filters = append(filters, fmt.Sprintf("volume=%.3f", opts.Volume))
	}
	if opts.Normalize {
		filters = append(filters, "loudnorm")
	}

	args := []string{"-y", "-i", inPath}
	if len(filters) > 0 {
		args = append(args, "-af", strings.Join(filters, ","))
	}
	if opts.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(opts.SampleRate))
	}
	switch opts.Format {
	case "mp3":
		args = append(args, "-c:a", "libmp3lame", "-q:a", "4")
	default:
		args = append(args, "-c:a", "pcm_s16le")
	}
	args = append(args, outPath)

	if _, err := f.exec.Execute(ctx, f.ffmpegBin, args...); err != nil {
		return fmt.Errorf("ffmpeg audio process: %w", err)
	}
	return nil
}

// Duration asks ffprobe for the container duration in seconds.
func (f *FFmpegAudio) Duration(ctx context.Context, path string) (float64, error) {
	out, err := f.exec.Execute(ctx, f.ffprobeBin,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w", err)
	}
	dur, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", strings.TrimSpace(out), err)
	}
	return dur, nil
}

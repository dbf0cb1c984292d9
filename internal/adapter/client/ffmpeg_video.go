package client

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"newsreel/internal/domain/entity"
	"newsreel/internal/logger"
	"newsreel/internal/textproc"
	"newsreel/pkg/executor"
)

// ComposerConfig carries the encoding settings for the video composer.
type ComposerConfig struct {
	FFmpegBin  string
	Width      int
	Height     int
	FPS        int
	Encoder    string
	Preset     string
	AudioCodec string
	FontFile   string
}

// FFmpegComposer assembles news videos with a single ffmpeg invocation:
// theme-colored background, faded title card for the first seconds, Ken Burns
// pans over the supplied images, and burned subtitles. If the configured
// encoder fails the composition is retried once with libx264.
type FFmpegComposer struct {
	exec executor.Executor
	cfg  ComposerConfig
	log  logger.Logger
}

const (
	titleCardSeconds = 3.0
	thumbWidth       = 1280
	thumbHeight      = 720
)

func NewFFmpegComposer(exec executor.Executor, cfg ComposerConfig, log logger.Logger) *FFmpegComposer {
	return &FFmpegComposer{
		exec: exec,
		cfg:  cfg,
		log:  log,
	}
}

func (c *FFmpegComposer) Available() bool {
	return c.exec.Available(c.cfg.FFmpegBin)
}

// Compose renders plan.VideoPath, plan.ThumbnailPath and plan.SubtitlePath.
func (c *FFmpegComposer) Compose(ctx context.Context, plan entity.RenderPlan) error {
	srt := textproc.FormatSRT(plan.Subtitles)
	if err := os.WriteFile(plan.SubtitlePath, []byte(srt), 0644); err != nil {
		return fmt.Errorf("write subtitle file: %w", err)
	}

	// The subtitles filter chokes on absolute paths with colons, so the burn
	// runs from a temp dir holding a copy of the SRT under a relative name.
	workDir, err := os.MkdirTemp("", "render-*")
	if err != nil {
		return fmt.Errorf("create render work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	if len(plan.Subtitles) > 0 {
		if err := os.WriteFile(filepath.Join(workDir, "subs.srt"), []byte(srt), 0644); err != nil {
			return fmt.Errorf("stage subtitle file: %w", err)
		}
	}

	args, fallbackArgs := c.composeArgs(plan)
	if _, err := c.exec.ExecuteInDir(ctx, workDir, c.cfg.FFmpegBin, args...); err != nil {
		if fallbackArgs == nil {
			return fmt.Errorf("render video: %w", err)
		}
		c.log.Warn(ctx, "%s encoder failed, retrying with libx264: %v", c.cfg.Encoder, err)
		if _, err := c.exec.ExecuteInDir(ctx, workDir, c.cfg.FFmpegBin, fallbackArgs...); err != nil {
			return fmt.Errorf("render video (libx264 fallback): %w", err)
		}
	}

	return c.extractThumbnail(ctx, plan)
}

// composeArgs builds the ffmpeg invocation, plus a libx264 variant when the
// configured encoder is hardware-specific.
func (c *FFmpegComposer) composeArgs(plan entity.RenderPlan) (args, fallbackArgs []string) {
	base := []string{
		"-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=%s:s=%dx%d:r=%d:d=%.3f",
			plan.Theme.Background, c.cfg.Width, c.cfg.Height, c.cfg.FPS, plan.Duration),
		"-i", plan.AudioPath,
	}
	for _, img := range plan.ImagePaths {
		base = append(base, "-loop", "1", "-i", img)
	}

	filter := c.buildFilter(plan)
	base = append(base,
		"-filter_complex", filter,
		"-map", "[vout]",
		"-map", "1:a",
		"-t", fmt.Sprintf("%.3f", plan.Duration),
		"-c:a", c.cfg.AudioCodec,
		"-pix_fmt", "yuv420p",
		"-r", fmt.Sprintf("%d", c.cfg.FPS),
	)

	args = append(append([]string{}, base...), "-c:v", c.cfg.Encoder)
	if c.cfg.Preset != "" {
		args = append(args, "-preset", c.cfg.Preset)
	}
	args = append(args, plan.VideoPath)

	if c.cfg.Encoder != "libx264" {
		fallbackArgs = append(append([]string{}, base...),
			"-c:v", "libx264", "-preset", "medium", "-crf", "23", plan.VideoPath)
	}
	return args, fallbackArgs
}

func (c *FFmpegComposer) buildFilter(plan entity.RenderPlan) string {
	var steps []string
	last := "[0:v]"

	// Ken Burns pans: each image occupies an even slice after the title card.
	if n := len(plan.ImagePaths); n > 0 && plan.Duration > titleCardSeconds {
		slice := (plan.Duration - titleCardSeconds) / float64(n)
		frames := int(slice * float64(c.cfg.FPS))
		for i := range plan.ImagePaths {
			label := fmt.Sprintf("[img%d]", i)
			steps = append(steps, fmt.Sprintf(
				"[%d:v]scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,"+
					"zoompan=z='min(zoom+0.0015,1.2)':x='iw/2-(iw/zoom/2)':y='ih/2-(ih/zoom/2)':d=%d:s=%dx%d:fps=%d%s",
				i+2, c.cfg.Width, c.cfg.Height, c.cfg.Width, c.cfg.Height,
				frames, c.cfg.Width, c.cfg.Height, c.cfg.FPS, label))

			start := titleCardSeconds + float64(i)*slice
			out := fmt.Sprintf("[v%d]", i)
			steps = append(steps, fmt.Sprintf(
				"%s%soverlay=enable='between(t,%.3f,%.3f)':eof_action=pass%s",
				last, label, start, start+slice, out))
			last = out
		}
	}

	// Title card with fade in/out over the first seconds.
	titleEnd := titleCardSeconds
	if plan.Duration < titleEnd {
		titleEnd = plan.Duration
	}
	title := fmt.Sprintf(
		"%sdrawtext=fontfile=%s:text='%s':fontsize=%d:fontcolor=%s:borderw=2:bordercolor=black:"+
			"x=(w-text_w)/2:y=(h-text_h)/2:enable='between(t,0,%.3f)':"+
			"alpha='if(lt(t,0.5),2*t,if(gt(t,%.3f),2*(%.3f-t),1))'",
		last, c.cfg.FontFile, escapeDrawText(plan.Title), plan.Theme.TitleSize,
		plan.Theme.TitleColor, titleEnd, titleEnd-0.5, titleEnd)
	steps = append(steps, title+"[vtitle]")
	last = "[vtitle]"

	if len(plan.Subtitles) > 0 {
		steps = append(steps, fmt.Sprintf(
			"%ssubtitles=subs.srt:force_style='FontSize=%d,PrimaryColour=&HFFFFFF&'[vout]",
			last, plan.Theme.SubtitleSize/2))
	} else {
		steps = append(steps, last+"null[vout]")
	}

	return strings.Join(steps, ";")
}

func (c *FFmpegComposer) extractThumbnail(ctx context.Context, plan entity.RenderPlan) error {
	_, err := c.exec.Execute(ctx, c.cfg.FFmpegBin,
		"-y",
		"-ss", fmt.Sprintf("%.3f", plan.Duration/2),
		"-i", plan.VideoPath,
		"-frames:v", "1",
		"-q:v", "2",
		plan.ThumbnailPath,
	)
	if err != nil {
		return fmt.Errorf("extract thumbnail: %w", err)
	}
	return nil
}

// Thumbnail renders a standalone title card, over a downloaded image when one
// was supplied, otherwise over the theme background color.
func (c *FFmpegComposer) Thumbnail(ctx context.Context, card entity.ThumbnailCard, outPath string) error {
	width, height := card.Width, card.Height
	if width == 0 {
		width, height = thumbWidth, thumbHeight
	}

	var args []string
	if card.ImagePath != "" {
		args = []string{"-y", "-i", card.ImagePath}
	} else {
		args = []string{
			"-y", "-f", "lavfi",
			"-i", fmt.Sprintf("color=c=%s:s=%dx%d:d=1", card.Theme.Background, width, height),
		}
	}

	filters := []string{
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d", width, height, width, height),
		fmt.Sprintf("drawtext=fontfile=%s:text='%s':fontsize=%d:fontcolor=%s:borderw=3:bordercolor=black:x=(w-text_w)/2:y=(h-text_h)/2",
			c.cfg.FontFile, escapeDrawText(card.Title), card.Theme.TitleSize, card.Theme.TitleColor),
	}
	if card.Subtitle != "" {
		filters = append(filters, fmt.Sprintf(
			"drawtext=fontfile=%s:text='%s':fontsize=%d:fontcolor=%s:borderw=2:bordercolor=black:x=(w-text_w)/2:y=(h+text_h)/2+%d",
			c.cfg.FontFile, escapeDrawText(card.Subtitle), card.Theme.SubtitleSize,
			card.Theme.SubtitleColor, card.Theme.TitleSize))
	}

	args = append(args,
		"-vf", strings.Join(filters, ","),
		"-frames:v", "1",
		"-q:v", "2",
		outPath,
	)
	if _, err := c.exec.Execute(ctx, c.cfg.FFmpegBin, args...); err != nil {
		return fmt.Errorf("render thumbnail: %w", err)
	}
	return nil
}

// escapeDrawText escapes the characters the drawtext filter treats specially.
func escapeDrawText(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\\\''`,
		`:`, `\:`,
		`%`, `\%`,
		`,`, `\,`,
	)
	return r.Replace(s)
}
